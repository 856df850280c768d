package postgres

import (
	"context"
	"fmt"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	usersTable = "users"
)

func (p *PgSQL) StoreUsers(ctx context.Context, users ...domain.User) ([]domain.User, error) {
	if len(users) == 0 {
		return nil, nil
	}

	pgUsers, err := domainUsersToPg(users)
	if err != nil {
		return nil, err
	}

	var result []PgUser
	if err := p.Builder.Insert(usersTable).
		Rows(pgUsers).
		Returning(&PgUser{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store users into pg: %w", mapError(err))
	}

	return pgUsersToDomain(result)
}

// UserByID returns a user by its ID, or nil when it does not exist.
func (p *PgSQL) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user by id: %w", mapError(err))
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// SaveUser rewrites the user's place list if nobody saved the user since it
// was read. A version mismatch (or a missing row) yields storage.ErrWriteConflict.
func (p *PgSQL) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	places, err := marshalPlaceIDs(user.Places)
	if err != nil {
		return nil, err
	}

	var row PgUser
	found, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"places":  places,
			"version": goqu.L("version + 1"),
		}).
		Where(
			goqu.I("id").Eq(uuid.UUID(user.ID)),
			goqu.I("version").Eq(user.Version),
		).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not save user in pg: %w", mapError(err))
	}
	if !found {
		return nil, fmt.Errorf("user %s changed since version %d: %w", user.ID, user.Version, storage.ErrWriteConflict)
	}

	return row.ToDomain()
}
