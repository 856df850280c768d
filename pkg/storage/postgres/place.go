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
	placesTable = "places"
)

// StorePlace inserts a place and returns it with the generated id and timestamps.
func (p *PgSQL) StorePlace(ctx context.Context, place domain.Place) (*domain.Place, error) {
	var row PgPlace
	row.FromDomain(place)

	var stored PgPlace
	if _, err := p.Builder.Insert(placesTable).
		Rows(row).
		Returning(&PgPlace{}).
		Executor().ScanStructContext(ctx, &stored); err != nil {
		return nil, fmt.Errorf("could not store place into pg: %w", mapError(err))
	}

	return stored.ToDomain(), nil
}

// PlaceByID returns a place by its ID, or nil when it does not exist.
func (p *PgSQL) PlaceByID(ctx context.Context, id domain.PlaceID) (*domain.Place, error) {
	var row PgPlace
	found, err := p.Builder.From(placesTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch place by id: %w", mapError(err))
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// PlacesByCreator returns the user's places, oldest first.
func (p *PgSQL) PlacesByCreator(ctx context.Context, userID domain.UserID) ([]domain.Place, error) {
	var rows []PgPlace
	if err := p.Builder.From(placesTable).
		Where(goqu.I("creator_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch places by creator from pg: %w", mapError(err))
	}

	return pgPlacesToDomain(rows), nil
}

// UpdatePlace sets title and description of a place and returns the updated
// row, or nil when the place does not exist.
func (p *PgSQL) UpdatePlace(ctx context.Context,
	id domain.PlaceID,
	updates storage.PlaceUpdates) (*domain.Place, error) {
	var row PgPlace
	found, err := p.Builder.Update(placesTable).
		Set(goqu.Record{
			"title":       updates.Title,
			"description": updates.Description,
			"updated_at":  goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgPlace{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update place in pg: %w", mapError(err))
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeletePlace removes a place and returns the deleted row, or nil when it did not exist.
func (p *PgSQL) DeletePlace(ctx context.Context, id domain.PlaceID) (*domain.Place, error) {
	var row PgPlace
	found, err := p.Builder.Delete(placesTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgPlace{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete place in pg: %w", mapError(err))
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// PlaceImageExists reports whether a place references the given image path.
func (p *PgSQL) PlaceImageExists(ctx context.Context, image string) (bool, error) {
	count, err := p.Builder.From(placesTable).
		Where(goqu.I("image").Eq(image)).
		CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not count places by image: %w", mapError(err))
	}

	return count > 0, nil
}
