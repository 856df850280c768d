// Package memory is a transactional in-process implementation of
// storage.Storage. Transactions work on a private copy of the state and are
// validated optimistically on commit: if a user document or place touched by
// the transaction was changed by another committed transaction in the meantime,
// Commit fails with storage.ErrWriteConflict and nothing is applied.
package memory

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/storage"

	"github.com/riverqueue/river"
)

// ErrTxDone is returned by operations on a transaction that was already
// committed or rolled back.
var ErrTxDone = errors.New("transaction has already been committed or rolled back")

// FaultFunc is consulted before every storage operation with the operation
// name (e.g. "StorePlace", "SaveUser", "Commit"). A non-nil result aborts the
// operation with that error.
type FaultFunc func(op string) error

type placeEntry struct {
	place domain.Place
	seq   uint64
}

type state struct {
	places map[domain.PlaceID]placeEntry
	users  map[domain.UserID]domain.User
}

func (s state) clone() state {
	out := state{
		places: maps.Clone(s.places),
		users:  make(map[domain.UserID]domain.User, len(s.users)),
	}
	for id, u := range s.users {
		u.Places = slices.Clone(u.Places)
		out.users[id] = u
	}

	return out
}

// Job is an enqueued background job as seen by the store.
type Job struct {
	Args river.JobArgs
	Opts *river.InsertOpts
}

type Store struct {
	mu    sync.RWMutex
	state state
	jobs  []Job

	// revisions count committed writes per key and drive conflict detection.
	placeRev map[domain.PlaceID]uint64
	userRev  map[domain.UserID]uint64

	seq   atomic.Uint64
	fault atomic.Pointer[FaultFunc]
	now   func() time.Time
}

var (
	_ storage.Storage   = (*Store)(nil)
	_ storage.TxStorage = (*Tx)(nil)
)

func New() *Store {
	return &Store{
		state: state{
			places: map[domain.PlaceID]placeEntry{},
			users:  map[domain.UserID]domain.User{},
		},
		placeRev: map[domain.PlaceID]uint64{},
		userRev:  map[domain.UserID]uint64{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// InjectFault installs fn as the fault hook. Passing nil removes it.
func (s *Store) InjectFault(fn FaultFunc) {
	if fn == nil {
		s.fault.Store(nil)

		return
	}
	s.fault.Store(&fn)
}

func (s *Store) checkFault(op string) error {
	if fn := s.fault.Load(); fn != nil {
		return (*fn)(op)
	}

	return nil
}

// Jobs returns a copy of every job enqueued by committed work.
func (s *Store) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.jobs)
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Begin(ctx context.Context) (storage.TxStorage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.begin(ctx), nil
}

func (s *Store) begin(ctx context.Context) *Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Tx{
		ctx:          ctx,
		store:        s,
		state:        s.state.clone(),
		basePlaceRev: maps.Clone(s.placeRev),
		baseUserRev:  maps.Clone(s.userRev),
		dirtyPlaces:  map[domain.PlaceID]struct{}{},
		dirtyUsers:   map[domain.UserID]struct{}{},
	}
}

func (s *Store) WithTx(ctx context.Context, cb func(storage.AllStorage) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	return tx.Commit()
}

// autocommit runs a single write in its own transaction.
func (s *Store) autocommit(ctx context.Context, cb func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.begin(ctx)
	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	return tx.Commit()
}

func (s *Store) StorePlace(ctx context.Context, place domain.Place) (*domain.Place, error) {
	var out *domain.Place
	err := s.autocommit(ctx, func(tx *Tx) (err error) {
		out, err = tx.StorePlace(ctx, place)

		return err
	})

	return out, err
}

func (s *Store) PlaceByID(ctx context.Context, id domain.PlaceID) (*domain.Place, error) {
	if err := s.checkFault("PlaceByID"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return placeByID(s.state, id), nil
}

func (s *Store) PlacesByCreator(ctx context.Context, userID domain.UserID) ([]domain.Place, error) {
	if err := s.checkFault("PlacesByCreator"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return placesByCreator(s.state, userID), nil
}

func (s *Store) UpdatePlace(ctx context.Context,
	id domain.PlaceID,
	updates storage.PlaceUpdates) (*domain.Place, error) {
	var out *domain.Place
	err := s.autocommit(ctx, func(tx *Tx) (err error) {
		out, err = tx.UpdatePlace(ctx, id, updates)

		return err
	})

	return out, err
}

func (s *Store) DeletePlace(ctx context.Context, id domain.PlaceID) (*domain.Place, error) {
	var out *domain.Place
	err := s.autocommit(ctx, func(tx *Tx) (err error) {
		out, err = tx.DeletePlace(ctx, id)

		return err
	})

	return out, err
}

func (s *Store) PlaceImageExists(ctx context.Context, image string) (bool, error) {
	if err := s.checkFault("PlaceImageExists"); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return placeImageExists(s.state, image), nil
}

func (s *Store) StoreUsers(ctx context.Context, users ...domain.User) ([]domain.User, error) {
	var out []domain.User
	err := s.autocommit(ctx, func(tx *Tx) (err error) {
		out, err = tx.StoreUsers(ctx, users...)

		return err
	})

	return out, err
}

func (s *Store) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if err := s.checkFault("UserByID"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return userByID(s.state, id), nil
}

func (s *Store) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var out *domain.User
	err := s.autocommit(ctx, func(tx *Tx) (err error) {
		out, err = tx.SaveUser(ctx, user)

		return err
	})

	return out, err
}

func (s *Store) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	var added bool
	err := s.autocommit(ctx, func(tx *Tx) (err error) {
		added, err = tx.AddJob(ctx, args, opts)

		return err
	})

	return added, err
}

func placeByID(st state, id domain.PlaceID) *domain.Place {
	entry, ok := st.places[id]
	if !ok {
		return nil
	}
	place := entry.place

	return &place
}

func placesByCreator(st state, userID domain.UserID) []domain.Place {
	entries := make([]placeEntry, 0)
	for _, entry := range st.places {
		if entry.place.Creator == userID {
			entries = append(entries, entry)
		}
	}
	slices.SortFunc(entries, func(a, b placeEntry) int {
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]domain.Place, len(entries))
	for i, entry := range entries {
		out[i] = entry.place
	}

	return out
}

func placeImageExists(st state, image string) bool {
	for _, entry := range st.places {
		if entry.place.Image == image {
			return true
		}
	}

	return false
}

func userByID(st state, id domain.UserID) *domain.User {
	user, ok := st.users[id]
	if !ok {
		return nil
	}
	user.Places = slices.Clone(user.Places)

	return &user
}
