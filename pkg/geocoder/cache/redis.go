// Package cache decorates a geocoder.Geocoder with a redis backed result
// cache. Only successful resolutions are cached. Redis failures are logged and
// the lookup falls through to the wrapped geocoder.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/geocoder"
	"yourplaces/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "geocode:"

type Redis struct {
	next   geocoder.Geocoder
	client redis.UniversalClient
	ttl    time.Duration
}

var _ geocoder.Geocoder = (*Redis)(nil)

func New(next geocoder.Geocoder, client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

// Key returns the cache key used for the address. Addresses differing only
// in case or surrounding whitespace share an entry.
func Key(address string) string {
	return keyPrefix + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (r *Redis) Resolve(ctx context.Context, address string) (domain.Location, error) {
	key := Key(address)
	log := logger.Get(ctx).With(zap.String("cacheKey", key))

	cached, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc domain.Location
		decodeErr := json.Unmarshal(cached, &loc)
		if decodeErr == nil {
			return loc, nil
		}
		log.Warn("could not decode cached location, resolving again", zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
	default:
		log.Warn("could not read geocode cache", zap.Error(err))
	}

	loc, err := r.next.Resolve(ctx, address)
	if err != nil {
		return domain.Location{}, err
	}

	b, err := json.Marshal(loc)
	if err != nil {
		log.Warn("could not encode location for cache", zap.Error(err))

		return loc, nil
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		log.Warn("could not write geocode cache", zap.Error(err))
	}

	return loc, nil
}
