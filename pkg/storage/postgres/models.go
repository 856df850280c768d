package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
	"yourplaces/pkg/domain"

	"github.com/google/uuid"
)

type PgPlace struct {
	ID        uuid.UUID `db:"id"         goqu:"skipinsert"`
	CreatorID uuid.UUID `db:"creator_id"`

	Title       string  `db:"title"`
	Description string  `db:"description"`
	Address     string  `db:"address"`
	Lat         float64 `db:"lat"`
	Lng         float64 `db:"lng"`
	Image       string  `db:"image"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgPlace) ToDomain() *domain.Place {
	return &domain.Place{
		ID:          domain.PlaceID(p.ID),
		Creator:     domain.UserID(p.CreatorID),
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    domain.Location{Lat: p.Lat, Lng: p.Lng},
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (p *PgPlace) FromDomain(place domain.Place) {
	*p = PgPlace{
		ID:          uuid.UUID(place.ID),
		CreatorID:   uuid.UUID(place.Creator),
		Title:       place.Title,
		Description: place.Description,
		Address:     place.Address,
		Lat:         place.Location.Lat,
		Lng:         place.Location.Lng,
		Image:       place.Image,
		CreatedAt:   place.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  place.UpdatedAt,
			Valid: !place.UpdatedAt.IsZero(),
		},
	}
}

func pgPlacesToDomain(places []PgPlace) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	for i := range places {
		out = append(out, *places[i].ToDomain())
	}

	return out
}

// PgUser stores the place list as a jsonb array of ids so the whole owner
// document is rewritten in one statement guarded by version.
type PgUser struct {
	ID      uuid.UUID       `db:"id"`
	Name    string          `db:"name"`
	Places  json.RawMessage `db:"places"`
	Version int64           `db:"version"    goqu:"skipinsert"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgUser) ToDomain() (*domain.User, error) {
	var ids []uuid.UUID
	if len(p.Places) > 0 {
		if err := json.Unmarshal(p.Places, &ids); err != nil {
			return nil, fmt.Errorf("could not unmarshal user places: %w", err)
		}
	}

	places := make([]domain.PlaceID, len(ids))
	for i, id := range ids {
		places[i] = domain.PlaceID(id)
	}

	return &domain.User{
		ID:        domain.UserID(p.ID),
		Name:      p.Name,
		Places:    places,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (p *PgUser) FromDomain(user domain.User) error {
	places, err := marshalPlaceIDs(user.Places)
	if err != nil {
		return err
	}

	id := uuid.UUID(user.ID)
	if id == uuid.Nil {
		id = uuid.New()
	}

	*p = PgUser{
		ID:        id,
		Name:      user.Name,
		Places:    places,
		Version:   user.Version,
		CreatedAt: user.CreatedAt,
	}

	return nil
}

func marshalPlaceIDs(ids []domain.PlaceID) (json.RawMessage, error) {
	raw := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		raw[i] = uuid.UUID(id)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("could not marshal user places: %w", err)
	}

	return b, nil
}

func domainUsersToPg(users []domain.User) ([]PgUser, error) {
	out := make([]PgUser, len(users))
	for i := range out {
		if err := out[i].FromDomain(users[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func pgUsersToDomain(users []PgUser) ([]domain.User, error) {
	out := make([]domain.User, 0, len(users))
	for _, user := range users {
		d, err := user.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
