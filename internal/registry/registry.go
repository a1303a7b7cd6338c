// Package registry holds the ordered, in-memory list of shows.
//
// Entries are addressed either by their zero-based position, which shifts
// when an earlier entry is deleted, or by the UUID assigned when the entry
// was inserted, which never changes.
package registry

import (
	"slices"
	"strconv"
	"sync"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/Belphemur/ShowRegistry/internal/models"
	"github.com/google/uuid"
)

type entry struct {
	id   uuid.UUID
	show any
}

// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  []entry
	revision uint64
	newID    func() uuid.UUID
	onResize func(length int)
}

// New creates a registry seeded with the given shows, in order.
func New(seed ...any) *Registry {
	r := &Registry{newID: uuid.New}
	r.entries = make([]entry, 0, len(seed))
	for _, show := range seed {
		r.entries = append(r.entries, entry{id: r.newID(), show: show})
	}
	return r
}

// NewFromStrings is New for a list of show names.
func NewFromStrings(seed []string) *Registry {
	shows := make([]any, len(seed))
	for i, s := range seed {
		shows[i] = s
	}
	return New(shows...)
}

// ParsePosition converts a path parameter to a position. Only canonical
// non-negative decimal integers are accepted ("1", not "01", "+1" or "1.0").
func ParsePosition(raw string) (int, bool) {
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 0 || strconv.Itoa(pos) != raw {
		return 0, false
	}
	return pos, true
}

// OnResize registers fn to receive the length of the registry now and after
// every insert or removal. fn runs with the registry locked, so successive
// calls observe lengths in mutation order; it must not call back into r.
func (r *Registry) OnResize(fn func(length int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResize = fn
	r.resized()
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Revision returns the current revision, which increases with every mutation.
func (r *Registry) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// List returns a copy of every show, in order.
func (r *Registry) List() models.ShowList {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// Get returns the show at pos. Positions past the end and positions holding
// an empty value are reported as not found.
func (r *Registry) Get(pos int) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.occupied(pos) {
		return nil, apperrors.NewShowNotFoundError(pos)
	}
	return r.entries[pos].show, nil
}

// Create appends show and returns the updated list.
func (r *Registry) Create(show any) models.ShowList {
	list, _ := r.Insert(show)
	return list
}

// Insert appends show and returns both the updated list and the new entry.
func (r *Registry) Insert(show any) (models.ShowList, models.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := entry{id: r.newID(), show: show}
	r.entries = append(r.entries, e)
	r.revision++
	r.resized()
	return r.snapshot(), models.Entry{ID: e.id, Position: len(r.entries) - 1, Show: show}
}

// Update replaces the show at pos, which must be occupied as defined by Get.
func (r *Registry) Update(pos int, show any) (models.ShowList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.occupied(pos) {
		return models.ShowList{}, apperrors.NewShowNotFoundError(pos)
	}
	r.entries[pos].show = show
	r.revision++
	return r.snapshot(), nil
}

// Delete removes the entry at pos and shifts every later entry down by one.
// Any entry in range can be deleted, including one holding an empty value.
func (r *Registry) Delete(pos int) (models.ShowList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pos < 0 || pos >= len(r.entries) {
		return models.ShowList{}, apperrors.NewShowNotFoundError(pos)
	}
	r.entries = slices.Delete(r.entries, pos, pos+1)
	r.revision++
	r.resized()
	return r.snapshot(), nil
}

// Entries returns every entry with its stable ID and current position.
func (r *Registry) Entries() []models.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = models.Entry{ID: e.id, Position: i, Show: e.show}
	}
	return out
}

// Entry looks an entry up by its stable ID.
func (r *Registry) Entry(id uuid.UUID) (models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Entry{}, apperrors.NewShowNotFoundError(id)
	}
	return models.Entry{ID: id, Position: i, Show: r.entries[i].show}, nil
}

// Replace sets the show of the entry with the given ID.
func (r *Registry) Replace(id uuid.UUID, show any) (models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Entry{}, apperrors.NewShowNotFoundError(id)
	}
	r.entries[i].show = show
	r.revision++
	return models.Entry{ID: id, Position: i, Show: show}, nil
}

// Remove deletes the entry with the given ID.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return apperrors.NewShowNotFoundError(id)
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	r.revision++
	r.resized()
	return nil
}

// occupied must be called with r.mu held.
func (r *Registry) occupied(pos int) bool {
	return pos >= 0 && pos < len(r.entries) && !models.IsEmpty(r.entries[pos].show)
}

// resized must be called with r.mu held.
func (r *Registry) resized() {
	if r.onResize != nil {
		r.onResize(len(r.entries))
	}
}

func (r *Registry) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(r.entries, func(e entry) bool { return e.id == id })
}

func (r *Registry) snapshot() models.ShowList {
	shows := make([]any, len(r.entries))
	for i, e := range r.entries {
		shows[i] = e.show
	}
	return models.ShowList{Revision: r.revision, Shows: shows}
}
