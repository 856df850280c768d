// Package geocoder defines the address resolution abstraction used when a
// place is created.
package geocoder

import (
	"context"
	"yourplaces/pkg/domain"
)

// Geocoder resolves free-form postal addresses into coordinates.
//
//go:generate mockgen -package mockgeocoder -source=interface.go -destination=mock/mockgeocoder.go *
type Geocoder interface {
	// Resolve returns the location of the address. Implementations fail closed:
	// any provider, network or decoding problem is returned as an error and a
	// zero Location is never reported as a success.
	Resolve(ctx context.Context, address string) (domain.Location, error)
}
