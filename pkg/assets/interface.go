// Package assets defines the binary asset (image) store used for place images.
// Assets are addressed by slash separated keys such as "images/<uuid>.png";
// the key is what gets persisted on a place.
package assets

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrInvalidPath is returned for keys that are empty, absolute or escape the
// store root.
var ErrInvalidPath = errors.New("invalid asset path")

// Asset describes a stored object as reported by Walk.
type Asset struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Store persists binary assets.
//
//go:generate mockgen -package mockassets -source=interface.go -destination=mock/mockassets.go *
type Store interface {
	// Put writes the content of r under key and returns the stored key.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// Delete removes the asset. Deleting a missing asset is not an error, so
	// repeated deletes of the same key are safe.
	Delete(ctx context.Context, key string) error
	// Walk calls fn for every stored asset. Returning an error from fn stops the walk.
	Walk(ctx context.Context, fn func(Asset) error) error
}

// CleanKey validates a key and returns its canonical form.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}

	return cleaned, nil
}
