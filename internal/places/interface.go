// Package places manages the lifecycle of places. A place and its owner's
// place list always change together in one store transaction, ownership is
// checked before any mutation, and a place's image is removed from the asset
// store only after the deletion has committed.
package places

import (
	"context"
	"time"
	"yourplaces/pkg/domain"
)

// NewPlace is the input of Manager.Create. Image is the asset key of an image
// that was already staged in the asset store.
type NewPlace struct {
	Title       string        `validate:"required"`
	Description string        `validate:"required"`
	Address     string        `validate:"required"`
	Image       string        `validate:"required"`
	OwnerID     domain.UserID `validate:"required"`
}

// PlaceChanges holds the mutable fields of a place.
type PlaceChanges struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

//go:generate mockgen -package mockplaces -source=interface.go -destination=mock/mockplaces.go *
type Manager interface {
	// ByID returns a single place.
	ByID(ctx context.Context, placeID domain.PlaceID) (*domain.Place, error)
	// ListByOwner returns the places created by the user, oldest first. A user
	// without places yields an empty slice.
	ListByOwner(ctx context.Context, userID domain.UserID) ([]domain.Place, error)
	// Create resolves the address, then stores the place and appends it to the
	// owner's place list in one transaction. The staged image is discarded when
	// Create fails.
	Create(ctx context.Context, in NewPlace) (*domain.Place, error)
	// UpdateByID changes title and description of a place owned by requesterID.
	UpdateByID(ctx context.Context,
		requesterID domain.UserID,
		placeID domain.PlaceID,
		changes PlaceChanges) (*domain.Place, error)
	// DeleteByID removes a place owned by requesterID together with its entry
	// in the owner's place list, then deletes its image.
	DeleteByID(ctx context.Context, requesterID domain.UserID, placeID domain.PlaceID) error

	// CleanupAsset deletes an image unless a place still references it.
	CleanupAsset(ctx context.Context, image string) error
	// SweepOrphanedAssets deletes images older than olderThan that no place
	// references and returns how many were removed.
	SweepOrphanedAssets(ctx context.Context, olderThan time.Duration) (int, error)
}
