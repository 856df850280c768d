package storage

import (
	"context"
	"yourplaces/pkg/domain"
)

// UserStorage defines the user operations the application needs. Users are
// owned by the identity subsystem; apart from registration this service only
// reads them and rewrites their place list.
type UserStorage interface {
	// StoreUsers inserts one or more users and returns the stored rows. A zero
	// ID is replaced by a generated one.
	StoreUsers(ctx context.Context, users ...domain.User) ([]domain.User, error)
	// UserByID fetches a user by its ID. Returns nil when not found.
	UserByID(ctx context.Context, ID domain.UserID) (*domain.User, error)
	// SaveUser persists the user's place list. The write only succeeds when the
	// stored version still equals user.Version, otherwise ErrWriteConflict is
	// returned. On success the stored version is incremented and the saved user
	// is returned.
	SaveUser(ctx context.Context, user domain.User) (*domain.User, error)
}
