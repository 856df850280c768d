// Package storage declares how the places manager reads and writes users,
// places and queued jobs. The postgres package is the production backend and
// the memory package backs unit tests and local runs.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyInTx is returned by Begin on a transactional handle.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned by Commit and Rollback outside a transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrWriteConflict means a concurrent transaction touched the same records
	// first. Nothing was written and the whole transaction may be run again.
	ErrWriteConflict = errors.New("write conflict")
)

// AllStorage is every record operation, usable both inside and outside a
// transaction.
type AllStorage interface {
	PlaceStorage
	UserStorage
	JobStorage
}

// TxStorage is a handle bound to one open transaction. It must not be used
// after Commit or Rollback.
type TxStorage interface {
	AllStorage

	Commit() error
	Rollback() error
}

// Storage is the pooled handle the process holds for its lifetime.
type Storage interface {
	AllStorage

	Close() error

	// Begin opens a transaction. Callers own the returned handle and must
	// end it with Commit or Rollback.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb in a transaction that commits when cb returns nil and
	// rolls back otherwise. A lost race surfaces as ErrWriteConflict, from cb
	// or from the commit.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
