package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlaceID uniquely identifies a place.
// It wraps uuid.UUID to provide type safety at the domain layer.
type PlaceID uuid.UUID

// String returns the canonical uuid representation of the id.
func (id PlaceID) String() string { return uuid.UUID(id).String() }

// Location is a coordinate pair resolved from a free-text address.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a user-owned record describing a location with text metadata and an image.
type Place struct {
	// ID is the unique identifier of the place, assigned by the store on insert.
	ID PlaceID `json:"id"`
	// Creator is the user who created the place. It never changes.
	Creator UserID `json:"creator"`

	// Title is the short name of the place.
	Title string `json:"title"`
	// Description is free text describing the place.
	Description string `json:"description"`
	// Address is the free-text address the location was resolved from.
	Address string `json:"address"`
	// Location is derived from Address by the geocoder; callers never set it directly.
	Location Location `json:"location"`
	// Image is the asset store path of the attached image. It never changes.
	Image string `json:"image"`

	// CreatedAt is the time when the place was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time of the last title/description change; zero if never updated.
	UpdatedAt time.Time `json:"updatedAt"`
}
