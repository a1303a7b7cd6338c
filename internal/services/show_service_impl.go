package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/Belphemur/ShowRegistry/internal/cache"
	"github.com/Belphemur/ShowRegistry/internal/config"
	"github.com/Belphemur/ShowRegistry/internal/metrics"
	"github.com/Belphemur/ShowRegistry/internal/models"
	"github.com/Belphemur/ShowRegistry/internal/registry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
)

// ShowServiceOptions configures NewShowService.
type ShowServiceOptions struct {
	// StrictInput rejects shows that are not non-empty strings.
	StrictInput bool

	// MaxShowLength is the maximum number of runes of a show in strict mode. 0 means no limit.
	MaxShowLength int

	// Cache stores encoded list snapshots by registry revision. May be nil.
	Cache cache.Cache
}

// DefaultShowService implements ShowService on top of a registry.Registry
type DefaultShowService struct {
	registry *registry.Registry
	opts     ShowServiceOptions
	logger   zerolog.Logger
}

// NewShowService creates a show service backed by reg.
func NewShowService(reg *registry.Registry, opts ShowServiceOptions) ShowService {
	reg.OnResize(func(length int) {
		metrics.RegistryEntries.Set(float64(length))
	})
	return &DefaultShowService{
		registry: reg,
		opts:     opts,
		logger:   config.GetLogger(),
	}
}

func (s *DefaultShowService) List(ctx context.Context) ([]byte, error) {
	list := s.registry.List()
	record("list", nil)
	return s.encode(ctx, list)
}

func (s *DefaultShowService) Get(ctx context.Context, rawID string) (any, error) {
	pos, ok := registry.ParsePosition(rawID)
	if !ok {
		err := apperrors.NewShowNotFoundError(rawID)
		record("get", err)
		return nil, err
	}

	show, err := s.registry.Get(pos)
	record("get", err)
	if err != nil {
		s.log(ctx).Debug().Int("position", pos).Msg("Show not found")
		return nil, err
	}
	return show, nil
}

func (s *DefaultShowService) Create(ctx context.Context, in models.ShowInput) ([]byte, error) {
	show, err := s.normalize(in)
	if err != nil {
		record("create", err)
		return nil, err
	}

	list := s.registry.Create(show)
	record("create", nil)
	s.log(ctx).Debug().Int("position", list.Len()-1).Msg("Show created")
	return s.encode(ctx, list)
}

func (s *DefaultShowService) Update(ctx context.Context, rawID string, in models.ShowInput) ([]byte, error) {
	pos, ok := registry.ParsePosition(rawID)
	if !ok {
		err := apperrors.NewShowNotFoundError(rawID)
		record("update", err)
		return nil, err
	}

	show, err := s.normalize(in)
	if err != nil {
		record("update", err)
		return nil, err
	}

	list, err := s.registry.Update(pos, show)
	record("update", err)
	if err != nil {
		return nil, err
	}
	s.log(ctx).Debug().Int("position", pos).Msg("Show updated")
	return s.encode(ctx, list)
}

func (s *DefaultShowService) Delete(ctx context.Context, rawID string) ([]byte, error) {
	pos, ok := registry.ParsePosition(rawID)
	if !ok {
		err := apperrors.NewShowNotFoundError(rawID)
		record("delete", err)
		return nil, err
	}

	list, err := s.registry.Delete(pos)
	record("delete", err)
	if err != nil {
		return nil, err
	}
	s.log(ctx).Debug().Int("position", pos).Msg("Show deleted")
	return s.encode(ctx, list)
}

func (s *DefaultShowService) Entries(ctx context.Context) []models.Entry {
	record("list_entries", nil)
	return s.registry.Entries()
}

func (s *DefaultShowService) Entry(ctx context.Context, rawID string) (models.Entry, error) {
	id, err := parseEntryID(rawID)
	if err == nil {
		var e models.Entry
		e, err = s.registry.Entry(id)
		if err == nil {
			record("get_entry", nil)
			return e, nil
		}
	}
	record("get_entry", err)
	return models.Entry{}, err
}

func (s *DefaultShowService) CreateEntry(ctx context.Context, in models.ShowInput) (models.Entry, error) {
	show, err := s.normalize(in)
	if err != nil {
		record("create_entry", err)
		return models.Entry{}, err
	}

	_, e := s.registry.Insert(show)
	record("create_entry", nil)
	s.log(ctx).Debug().Stringer("entry_id", e.ID).Msg("Entry created")
	return e, nil
}

func (s *DefaultShowService) ReplaceEntry(ctx context.Context, rawID string, in models.ShowInput) (models.Entry, error) {
	id, err := parseEntryID(rawID)
	if err != nil {
		record("replace_entry", err)
		return models.Entry{}, err
	}

	show, err := s.normalize(in)
	if err != nil {
		record("replace_entry", err)
		return models.Entry{}, err
	}

	e, err := s.registry.Replace(id, show)
	record("replace_entry", err)
	return e, err
}

func (s *DefaultShowService) RemoveEntry(ctx context.Context, rawID string) error {
	id, err := parseEntryID(rawID)
	if err == nil {
		err = s.registry.Remove(id)
	}
	record("remove_entry", err)
	if err == nil {
		s.log(ctx).Debug().Stringer("entry_id", id).Msg("Entry removed")
	}
	return err
}

func (s *DefaultShowService) Len() int {
	return s.registry.Len()
}

func (s *DefaultShowService) Close() error {
	if s.opts.Cache == nil {
		return nil
	}
	return s.opts.Cache.Close()
}

// encode returns the JSON array for list, reusing the cached encoding of the
// same revision when one exists.
func (s *DefaultShowService) encode(ctx context.Context, list models.ShowList) ([]byte, error) {
	key := snapshotKey(list.Revision)
	if s.opts.Cache != nil {
		if data, ok := s.opts.Cache.Get(key); ok {
			return data, nil
		}
	}

	data, err := json.Marshal(list.Shows)
	if err != nil {
		s.log(ctx).Error().Err(err).Uint64("revision", list.Revision).Msg("Failed to encode show list")
		return nil, fmt.Errorf("failed to encode show list: %w", err)
	}

	if s.opts.Cache != nil {
		s.opts.Cache.Set(key, data)
	}
	return data, nil
}

// normalize applies the input contract. Without StrictInput the show is
// stored exactly as received.
func (s *DefaultShowService) normalize(in models.ShowInput) (any, error) {
	if !s.opts.StrictInput {
		return in.Show, nil
	}

	if !in.Present {
		return nil, &apperrors.ErrInvalidShow{Reason: "show is required"}
	}
	str, ok := in.Show.(string)
	if !ok {
		return nil, &apperrors.ErrInvalidShow{Reason: "show must be a string"}
	}
	str = norm.NFC.String(strings.TrimSpace(str))
	if str == "" {
		return nil, &apperrors.ErrInvalidShow{Reason: "show must not be empty"}
	}
	if s.opts.MaxShowLength > 0 && utf8.RuneCountInString(str) > s.opts.MaxShowLength {
		return nil, &apperrors.ErrInvalidShow{
			Reason: fmt.Sprintf("show must be at most %d characters", s.opts.MaxShowLength),
		}
	}
	return str, nil
}

// log prefers the request-scoped logger installed by the HTTP middleware.
func (s *DefaultShowService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func snapshotKey(revision uint64) string {
	return fmt.Sprintf("shows:rev:%d", revision)
}

// parseEntryID accepts only the canonical lowercase hyphenated form, so an
// entry answers at exactly one URL.
func parseEntryID(rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil || id.String() != rawID {
		return uuid.Nil, apperrors.NewShowNotFoundError(rawID)
	}
	return id, nil
}
