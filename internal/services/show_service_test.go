package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/Belphemur/ShowRegistry/internal/cache"
	"github.com/Belphemur/ShowRegistry/internal/metrics"
	"github.com/Belphemur/ShowRegistry/internal/models"
	"github.com/Belphemur/ShowRegistry/internal/registry"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var seed = []string{"Mr. Robot", "GOT", "Fringe", "3 Body Problem"}

func newTestService(t *testing.T, opts ShowServiceOptions) ShowService {
	t.Helper()
	svc := NewShowService(registry.NewFromStrings(seed), opts)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func input(show any) models.ShowInput {
	return models.ShowInput{Present: true, Show: show}
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestShowService_List(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})

	data, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := `["Mr. Robot","GOT","Fringe","3 Body Problem"]`
	if string(data) != want {
		t.Errorf("List() = %s, want %s", data, want)
	}
}

func TestShowService_Get(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})
	ctx := context.Background()

	show, err := svc.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if show != "GOT" {
		t.Errorf("Get(1) = %v, want GOT", show)
	}

	for _, rawID := range []string{"99", "-1", "abc", "01", ""} {
		if _, err := svc.Get(ctx, rawID); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", rawID, err)
		}
	}
}

func TestShowService_CreateUpdateDelete(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})
	ctx := context.Background()

	data, err := svc.Create(ctx, input("Severance"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := `["Mr. Robot","GOT","Fringe","3 Body Problem","Severance"]`; string(data) != want {
		t.Errorf("Create() = %s, want %s", data, want)
	}

	data, err = svc.Update(ctx, "0", input("Mr. Robot S2"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if want := `["Mr. Robot S2","GOT","Fringe","3 Body Problem","Severance"]`; string(data) != want {
		t.Errorf("Update() = %s, want %s", data, want)
	}

	data, err = svc.Delete(ctx, "2")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if want := `["Mr. Robot S2","GOT","3 Body Problem","Severance"]`; string(data) != want {
		t.Errorf("Delete() = %s, want %s", data, want)
	}

	if _, err := svc.Update(ctx, "4", input("x")); !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Update(4) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Delete(ctx, "4"); !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Delete(4) error = %v, want ErrNotFound", err)
	}
	if svc.Len() != 4 {
		t.Errorf("Len() = %d, want 4", svc.Len())
	}
}

func TestShowService_Create_Verbatim(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, models.ShowInput{}); err != nil {
		t.Fatalf("Create without show: %v", err)
	}
	data, err := svc.Create(ctx, input(map[string]any{"title": "Dark"}))
	if err != nil {
		t.Fatalf("Create with object: %v", err)
	}

	want := `["Mr. Robot","GOT","Fringe","3 Body Problem",null,{"title":"Dark"}]`
	if string(data) != want {
		t.Errorf("List = %s, want %s", data, want)
	}

	// The null slot is unoccupied for Get.
	if _, err := svc.Get(ctx, "4"); !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Get(4) error = %v, want ErrNotFound", err)
	}
}

func TestShowService_StrictInput(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{StrictInput: true, MaxShowLength: 10})
	ctx := context.Background()

	tests := []struct {
		name   string
		in     models.ShowInput
		reason string
	}{
		{name: "missing", in: models.ShowInput{}, reason: "required"},
		{name: "number", in: input(float64(3)), reason: "string"},
		{name: "null", in: input(nil), reason: "string"},
		{name: "blank", in: input("   "), reason: "empty"},
		{name: "too long", in: input("The Leftovers"), reason: "at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var invalid *apperrors.ErrInvalidShow
			if !errors.As(err, &invalid) {
				t.Fatalf("Create error = %v, want ErrInvalidShow", err)
			}
			if !strings.Contains(invalid.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to mention %q", invalid.Reason, tt.reason)
			}
		})
	}

	if svc.Len() != 4 {
		t.Errorf("rejected input mutated the registry: Len() = %d", svc.Len())
	}
}

func TestShowService_StrictInput_Normalizes(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{StrictInput: true})
	ctx := context.Background()

	// "e" followed by a combining acute accent composes to a single rune.
	data, err := svc.Create(ctx, input("  Poke\u0301mon  "))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasSuffix(string(data), "\"Pok\u00e9mon\"]") {
		t.Errorf("Create() = %s, want trimmed NFC title", data)
	}
}

func TestShowService_Entries(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})
	ctx := context.Background()

	entries := svc.Entries(ctx)
	if len(entries) != 4 {
		t.Fatalf("Entries() returned %d entries, want 4", len(entries))
	}
	got := entries[3]

	created, err := svc.CreateEntry(ctx, input("Severance"))
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if created.Position != 4 {
		t.Errorf("CreateEntry position = %d, want 4", created.Position)
	}

	if _, err := svc.Delete(ctx, "0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	e, err := svc.Entry(ctx, got.ID.String())
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if e.Show != "3 Body Problem" || e.Position != 2 {
		t.Errorf("Entry = %+v, want 3 Body Problem at position 2", e)
	}

	e, err = svc.ReplaceEntry(ctx, got.ID.String(), input("3BP"))
	if err != nil {
		t.Fatalf("ReplaceEntry: %v", err)
	}
	if e.Show != "3BP" {
		t.Errorf("ReplaceEntry show = %v", e.Show)
	}

	if err := svc.RemoveEntry(ctx, got.ID.String()); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	for _, rawID := range []string{got.ID.String(), "not-a-uuid"} {
		if _, err := svc.Entry(ctx, rawID); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Errorf("Entry(%q) error = %v, want ErrNotFound", rawID, err)
		}
		if err := svc.RemoveEntry(ctx, rawID); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Errorf("RemoveEntry(%q) error = %v, want ErrNotFound", rawID, err)
		}
	}
}

func TestShowService_EntryIDMustBeCanonical(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})
	ctx := context.Background()

	e := svc.Entries(ctx)[0]
	canonical := e.ID.String()

	if _, err := svc.Entry(ctx, canonical); err != nil {
		t.Fatalf("Entry(%q): %v", canonical, err)
	}

	aliases := []string{
		"urn:uuid:" + canonical,
		"{" + canonical + "}",
		strings.ReplaceAll(canonical, "-", ""),
		strings.ToUpper(canonical),
	}
	for _, rawID := range aliases {
		if _, err := svc.Entry(ctx, rawID); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Errorf("Entry(%q) error = %v, want ErrNotFound", rawID, err)
		}
		if _, err := svc.ReplaceEntry(ctx, rawID, input("x")); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Errorf("ReplaceEntry(%q) error = %v, want ErrNotFound", rawID, err)
		}
		if err := svc.RemoveEntry(ctx, rawID); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Errorf("RemoveEntry(%q) error = %v, want ErrNotFound", rawID, err)
		}
	}
	if svc.Len() != 4 {
		t.Errorf("Len = %d, aliases must not remove entries", svc.Len())
	}
}

func TestShowService_SnapshotCache(t *testing.T) {
	c, err := cache.New("memory", memoryCacheConfig(10))
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	svc := newTestService(t, ShowServiceOptions{Cache: c})
	ctx := context.Background()

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !c.Contains(snapshotKey(0)) {
		t.Fatal("Expected revision 0 to be cached after List")
	}

	// A cached snapshot is served as-is for the same revision.
	c.Set(snapshotKey(0), []byte(`["from cache"]`))
	cached, _ := svc.List(ctx)
	if string(cached) != `["from cache"]` {
		t.Errorf("List() = %s, want cached bytes", cached)
	}

	// A mutation moves to a new revision and bypasses the old snapshot.
	updated, err := svc.Create(ctx, input("Severance"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if string(updated) == string(first) || !strings.Contains(string(updated), "Severance") {
		t.Errorf("Create() = %s, want a fresh encoding", updated)
	}
	if !c.Contains(snapshotKey(1)) {
		t.Error("Expected revision 1 to be cached after Create")
	}
}

func TestShowService_RecordsMetrics(t *testing.T) {
	svc := newTestService(t, ShowServiceOptions{})
	ctx := context.Background()

	before := getCounterVecValue(metrics.ShowOperationsTotal, "get", metrics.ResultNotFound)
	_, _ = svc.Get(ctx, "99")
	after := getCounterVecValue(metrics.ShowOperationsTotal, "get", metrics.ResultNotFound)

	if after != before+1 {
		t.Errorf("Expected get/not_found to increment by 1, got diff %.0f", after-before)
	}
}

func memoryCacheConfig(size int) cache.ProviderConfig {
	return cache.ProviderConfig{Size: size, TTL: time.Hour}
}
