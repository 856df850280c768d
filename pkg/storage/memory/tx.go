package memory

import (
	"context"
	"fmt"
	"slices"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/storage"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Tx is a transaction over a private copy of the store state. It is bound to
// the context it was started with and refuses to commit once that is done.
type Tx struct {
	ctx   context.Context
	store *Store
	state state
	jobs  []Job
	done  bool

	basePlaceRev map[domain.PlaceID]uint64
	baseUserRev  map[domain.UserID]uint64
	dirtyPlaces  map[domain.PlaceID]struct{}
	dirtyUsers   map[domain.UserID]struct{}
}

func (t *Tx) guard(ctx context.Context, op string) error {
	if t.done {
		return ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return t.store.checkFault(op)
}

func (t *Tx) StorePlace(ctx context.Context, place domain.Place) (*domain.Place, error) {
	if err := t.guard(ctx, "StorePlace"); err != nil {
		return nil, err
	}
	if _, ok := t.state.users[place.Creator]; !ok {
		return nil, fmt.Errorf("could not store place: creator %s does not exist", place.Creator)
	}

	if uuid.UUID(place.ID) == uuid.Nil {
		place.ID = domain.PlaceID(uuid.New())
	}
	if _, ok := t.state.places[place.ID]; ok {
		return nil, fmt.Errorf("could not store place: %s already exists", place.ID)
	}
	place.CreatedAt = t.store.now()

	t.state.places[place.ID] = placeEntry{place: place, seq: t.store.seq.Add(1)}
	t.dirtyPlaces[place.ID] = struct{}{}

	return &place, nil
}

func (t *Tx) PlaceByID(ctx context.Context, id domain.PlaceID) (*domain.Place, error) {
	if err := t.guard(ctx, "PlaceByID"); err != nil {
		return nil, err
	}

	return placeByID(t.state, id), nil
}

func (t *Tx) PlacesByCreator(ctx context.Context, userID domain.UserID) ([]domain.Place, error) {
	if err := t.guard(ctx, "PlacesByCreator"); err != nil {
		return nil, err
	}

	return placesByCreator(t.state, userID), nil
}

func (t *Tx) UpdatePlace(ctx context.Context,
	id domain.PlaceID,
	updates storage.PlaceUpdates) (*domain.Place, error) {
	if err := t.guard(ctx, "UpdatePlace"); err != nil {
		return nil, err
	}

	entry, ok := t.state.places[id]
	if !ok {
		return nil, nil
	}
	entry.place.Title = updates.Title
	entry.place.Description = updates.Description
	entry.place.UpdatedAt = t.store.now()

	t.state.places[id] = entry
	t.dirtyPlaces[id] = struct{}{}
	place := entry.place

	return &place, nil
}

func (t *Tx) DeletePlace(ctx context.Context, id domain.PlaceID) (*domain.Place, error) {
	if err := t.guard(ctx, "DeletePlace"); err != nil {
		return nil, err
	}

	entry, ok := t.state.places[id]
	if !ok {
		return nil, nil
	}
	delete(t.state.places, id)
	t.dirtyPlaces[id] = struct{}{}
	place := entry.place

	return &place, nil
}

func (t *Tx) PlaceImageExists(ctx context.Context, image string) (bool, error) {
	if err := t.guard(ctx, "PlaceImageExists"); err != nil {
		return false, err
	}

	return placeImageExists(t.state, image), nil
}

func (t *Tx) StoreUsers(ctx context.Context, users ...domain.User) ([]domain.User, error) {
	if err := t.guard(ctx, "StoreUsers"); err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(users))
	for _, user := range users {
		if user.ID.IsZero() {
			user.ID = domain.UserID(uuid.New())
		}
		if _, ok := t.state.users[user.ID]; ok {
			return nil, fmt.Errorf("could not store user: %s already exists", user.ID)
		}
		if user.Places == nil {
			user.Places = []domain.PlaceID{}
		}
		user.Places = slices.Clone(user.Places)
		user.Version = 0
		user.CreatedAt = t.store.now()

		t.state.users[user.ID] = user
		t.dirtyUsers[user.ID] = struct{}{}
		out = append(out, *userByID(t.state, user.ID))
	}

	return out, nil
}

func (t *Tx) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if err := t.guard(ctx, "UserByID"); err != nil {
		return nil, err
	}

	return userByID(t.state, id), nil
}

func (t *Tx) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := t.guard(ctx, "SaveUser"); err != nil {
		return nil, err
	}

	current, ok := t.state.users[user.ID]
	if !ok || current.Version != user.Version {
		return nil, fmt.Errorf("user %s changed since version %d: %w", user.ID, user.Version, storage.ErrWriteConflict)
	}

	current.Places = slices.Clone(user.Places)
	current.Version++
	t.state.users[user.ID] = current
	t.dirtyUsers[user.ID] = struct{}{}

	return userByID(t.state, user.ID), nil
}

func (t *Tx) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if err := t.guard(ctx, "AddJob"); err != nil {
		return false, err
	}
	t.jobs = append(t.jobs, Job{Args: args, Opts: opts})

	return true, nil
}

// Commit applies the transaction if none of the keys it wrote were committed
// by someone else after it began.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	if err := t.store.checkFault("Commit"); err != nil {
		return err
	}
	if err := t.ctx.Err(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.dirtyPlaces {
		if s.placeRev[id] != t.basePlaceRev[id] {
			return fmt.Errorf("place %s: %w", id, storage.ErrWriteConflict)
		}
	}
	for id := range t.dirtyUsers {
		if s.userRev[id] != t.baseUserRev[id] {
			return fmt.Errorf("user %s: %w", id, storage.ErrWriteConflict)
		}
	}

	for id := range t.dirtyPlaces {
		if entry, ok := t.state.places[id]; ok {
			s.state.places[id] = entry
		} else {
			delete(s.state.places, id)
		}
		s.placeRev[id]++
	}
	for id := range t.dirtyUsers {
		s.state.users[id] = t.state.users[id]
		s.userRev[id]++
	}
	s.jobs = append(s.jobs, t.jobs...)

	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	return nil
}
