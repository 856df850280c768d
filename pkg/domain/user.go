package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// UserID uniquely identifies a user within the system.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// String returns the canonical uuid representation of the id.
func (id UserID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the id is the zero uuid.
func (id UserID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// User is the owner side of a place. The user record itself is managed by the
// identity subsystem; this service only reads it and rewrites Places.
type User struct {
	// ID is the unique identifier of the user.
	ID UserID `json:"id"`
	// Name is the display name provided by the identity subsystem.
	Name string `json:"name"`
	// Places holds the ids of the places created by this user in creation order.
	Places []PlaceID `json:"places"`
	// Version is incremented on every save and used to detect concurrent writers.
	Version int64 `json:"-"`
	// CreatedAt is the time the user was registered.
	CreatedAt time.Time `json:"createdAt"`
}

// AddPlace appends id to the user's place list. Adding an id that is already
// present is a no-op so a retried transaction can never record it twice.
func (u *User) AddPlace(id PlaceID) {
	if u.HasPlace(id) {
		return
	}

	u.Places = append(u.Places, id)
}

// RemovePlace drops id from the user's place list, keeping the order of the rest.
// It reports whether the id was present.
func (u *User) RemovePlace(id PlaceID) bool {
	idx := slices.Index(u.Places, id)
	if idx < 0 {
		return false
	}

	u.Places = slices.Delete(u.Places, idx, idx+1)

	return true
}

// HasPlace reports whether id is in the user's place list.
func (u *User) HasPlace(id PlaceID) bool {
	return slices.Contains(u.Places, id)
}
