package storage

import (
	"context"
	"yourplaces/pkg/domain"
)

// PlaceUpdates describes the mutable fields of a place. Location, Image and
// Creator are fixed at creation and cannot be changed through an update.
type PlaceUpdates struct {
	// Title replaces the stored title.
	Title string
	// Description replaces the stored description.
	Description string
}

// PlaceStorage defines CRUD and query operations on places.
type PlaceStorage interface {
	// StorePlace inserts a place and returns the stored row including the
	// generated ID and timestamps. Any ID set on the input is ignored.
	StorePlace(ctx context.Context, place domain.Place) (*domain.Place, error)
	// PlaceByID fetches a place by its ID. Returns nil when not found.
	PlaceByID(ctx context.Context, ID domain.PlaceID) (*domain.Place, error)
	// PlacesByCreator returns all places created by the given user ordered by
	// creation time (oldest first). An empty result is not an error.
	PlacesByCreator(ctx context.Context, userID domain.UserID) ([]domain.Place, error)
	// UpdatePlace applies updates to a single place and returns the updated row,
	// or nil when the place does not exist. updated_at is set automatically.
	UpdatePlace(ctx context.Context, ID domain.PlaceID, updates PlaceUpdates) (*domain.Place, error)
	// DeletePlace removes a place and returns the removed row, or nil if it was not found.
	DeletePlace(ctx context.Context, ID domain.PlaceID) (*domain.Place, error)
	// PlaceImageExists reports whether any place references the given asset path.
	PlaceImageExists(ctx context.Context, image string) (bool, error)
}
