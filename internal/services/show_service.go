package services

import (
	"context"

	"github.com/Belphemur/ShowRegistry/internal/models"
)

// ShowService defines the operations exposed over HTTP on top of the show registry.
// Positional methods take the raw path parameter so that parsing and not-found
// reporting follow a single rule.
type ShowService interface {
	// List returns the JSON encoding of every show, in order.
	List(ctx context.Context) ([]byte, error)

	// Get returns the show stored at the position named by rawID.
	Get(ctx context.Context, rawID string) (any, error)

	// Create appends a show and returns the JSON encoding of the updated list.
	Create(ctx context.Context, in models.ShowInput) ([]byte, error)

	// Update replaces the show at the position named by rawID.
	Update(ctx context.Context, rawID string, in models.ShowInput) ([]byte, error)

	// Delete removes the show at the position named by rawID.
	Delete(ctx context.Context, rawID string) ([]byte, error)

	// Entries returns every show together with its stable ID.
	Entries(ctx context.Context) []models.Entry

	// Entry returns the show with the given stable ID.
	Entry(ctx context.Context, rawID string) (models.Entry, error)

	// CreateEntry appends a show and returns its entry.
	CreateEntry(ctx context.Context, in models.ShowInput) (models.Entry, error)

	// ReplaceEntry replaces the show with the given stable ID.
	ReplaceEntry(ctx context.Context, rawID string, in models.ShowInput) (models.Entry, error)

	// RemoveEntry deletes the show with the given stable ID.
	RemoveEntry(ctx context.Context, rawID string) error

	// Len returns the number of shows in the registry.
	Len() int

	// Close releases the snapshot cache.
	Close() error
}
