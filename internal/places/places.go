package places

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"yourplaces/pkg/assets"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/geocoder"
	"yourplaces/pkg/logger"
	"yourplaces/pkg/serrors"
	"yourplaces/pkg/storage"

	"github.com/go-playground/validator/v10"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const invalidInputMsg = "invalid inputs passed, please check your data"

var (
	// errOwnerGone and errPlaceGone abort a transaction without retrying when
	// a record disappeared between the initial read and the transaction.
	errOwnerGone = errors.New("owner no longer exists")
	errPlaceGone = errors.New("place no longer exists")
)

type manager struct {
	options     Options
	storage     storage.Storage
	geocoder    geocoder.Geocoder
	assets      assets.Store
	validate    *validator.Validate
	instruments *instruments
	tracer      trace.Tracer
}

// ByID returns the place or ErrNotFound.
func (m *manager) ByID(ctx context.Context, placeID domain.PlaceID) (_ *domain.Place, err error) {
	ctx, done := m.observe(ctx, opByID)
	defer func() { done(err) }()

	return m.loadPlace(ctx, placeID)
}

func (m *manager) loadPlace(ctx context.Context, placeID domain.PlaceID) (*domain.Place, error) {
	place, err := m.storage.PlaceByID(ctx, placeID)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStorage, err, "could not find place")
	}
	if place == nil {
		return nil, serrors.With(serrors.ErrNotFound, "could not find a place for the provided id")
	}

	return place, nil
}

func (m *manager) ListByOwner(ctx context.Context, userID domain.UserID) (_ []domain.Place, err error) {
	ctx, done := m.observe(ctx, opListByOwner)
	defer func() { done(err) }()

	places, err := m.storage.PlacesByCreator(ctx, userID)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStorage, err, "fetching places failed, please try again later")
	}
	if places == nil {
		places = []domain.Place{}
	}

	return places, nil
}

func (m *manager) Create(ctx context.Context, in NewPlace) (place *domain.Place, err error) {
	ctx, done := m.observe(ctx, opCreate)
	defer func() { done(err) }()
	ctx = logger.WithFields(ctx, zap.Stringer("userID", in.OwnerID), zap.String("image", in.Image))

	defer func() {
		if err != nil {
			m.discardStagedImage(ctx, in.Image)
		}
	}()

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	if err := m.validate.Struct(in); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, invalidInputMsg)
	}

	location, err := m.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		logger.Warn(ctx, "could not resolve address", zap.Error(err))

		return nil, serrors.Wrap(serrors.ErrGeocoding, err, "unable to get coordinates for the address")
	}

	owner, err := m.storage.UserByID(ctx, in.OwnerID)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStorage, err, "creating place failed, please try again")
	}
	if owner == nil {
		return nil, serrors.With(serrors.ErrNotFound, "could not find user for the provided id")
	}

	newPlace := domain.Place{
		Creator:     owner.ID,
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    location,
		Image:       in.Image,
	}

	if err := m.inTx(ctx, opCreate, func(ctx context.Context, tx storage.AllStorage) error {
		owner, err := tx.UserByID(ctx, newPlace.Creator)
		if err != nil {
			return fmt.Errorf("could not load owner: %w", err)
		}
		if owner == nil {
			return errOwnerGone
		}

		stored, err := tx.StorePlace(ctx, newPlace)
		if err != nil {
			return fmt.Errorf("could not store place: %w", err)
		}

		owner.AddPlace(stored.ID)
		if _, err := tx.SaveUser(ctx, *owner); err != nil {
			return fmt.Errorf("could not save owner: %w", err)
		}
		place = stored

		return nil
	}); err != nil {
		if errors.Is(err, errOwnerGone) {
			return nil, serrors.Wrap(serrors.ErrNotFound, err, "could not find user for the provided id")
		}

		return nil, serrors.Wrap(serrors.ErrTransaction, err, "creating place failed, please try again later")
	}

	logger.Info(ctx, "place created", zap.Stringer("placeID", place.ID))

	return place, nil
}

func (m *manager) UpdateByID(ctx context.Context,
	requesterID domain.UserID,
	placeID domain.PlaceID,
	changes PlaceChanges) (_ *domain.Place, err error) {
	ctx, done := m.observe(ctx, opUpdateByID)
	defer func() { done(err) }()
	ctx = logger.WithFields(ctx, zap.Stringer("userID", requesterID), zap.Stringer("placeID", placeID))

	changes.Title = strings.TrimSpace(changes.Title)
	changes.Description = strings.TrimSpace(changes.Description)
	if err := m.validate.Struct(changes); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, invalidInputMsg)
	}

	place, err := m.loadPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.Creator != requesterID {
		logger.Info(ctx, "update rejected, requester is not the creator")

		return nil, serrors.With(serrors.ErrForbidden, "you are not allowed to edit this place")
	}

	updated, err := m.storage.UpdatePlace(ctx, placeID, storage.PlaceUpdates{
		Title:       changes.Title,
		Description: changes.Description,
	})
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStorage, err, "something went wrong, could not update place")
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "could not find a place for the provided id")
	}

	return updated, nil
}

func (m *manager) DeleteByID(ctx context.Context, requesterID domain.UserID, placeID domain.PlaceID) (err error) {
	ctx, done := m.observe(ctx, opDeleteByID)
	defer func() { done(err) }()
	ctx = logger.WithFields(ctx, zap.Stringer("userID", requesterID), zap.Stringer("placeID", placeID))

	place, err := m.loadPlace(ctx, placeID)
	if err != nil {
		return err
	}
	if place.Creator != requesterID {
		logger.Info(ctx, "delete rejected, requester is not the creator")

		return serrors.With(serrors.ErrForbidden, "you are not allowed to delete this place")
	}

	if err := m.inTx(ctx, opDeleteByID, func(ctx context.Context, tx storage.AllStorage) error {
		deleted, err := tx.DeletePlace(ctx, placeID)
		if err != nil {
			return fmt.Errorf("could not delete place: %w", err)
		}
		if deleted == nil {
			return errPlaceGone
		}

		owner, err := tx.UserByID(ctx, deleted.Creator)
		if err != nil {
			return fmt.Errorf("could not load owner: %w", err)
		}
		if owner == nil {
			return errOwnerGone
		}

		owner.RemovePlace(placeID)
		if _, err := tx.SaveUser(ctx, *owner); err != nil {
			return fmt.Errorf("could not save owner: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, errPlaceGone) {
			return serrors.Wrap(serrors.ErrNotFound, err, "could not find place for this id")
		}

		return serrors.Wrap(serrors.ErrTransaction, err, "something went wrong, could not delete place")
	}

	// the record is gone for good now; the image follows
	m.removeAsset(ctx, place.Image)

	logger.Info(ctx, "place deleted")

	return nil
}

// New creates a Manager backed by the given collaborators.
func New(deps Deps, options Options) (Manager, error) {
	if options.Meter == nil {
		options.Meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}
	if options.Tracer == nil {
		options.Tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}

	inst, err := newInstruments(options.Meter)
	if err != nil {
		return nil, err
	}

	return &manager{
		options:     options,
		storage:     deps.Storage,
		geocoder:    deps.Geocoder,
		assets:      deps.Assets,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		instruments: inst,
		tracer:      options.Tracer,
	}, nil
}
