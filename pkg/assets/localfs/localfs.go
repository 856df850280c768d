// Package localfs stores assets as plain files below a root directory.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"yourplaces/pkg/assets"
)

type Store struct {
	root string
}

var _ assets.Store = (*Store)(nil)

// New creates the root directory if needed and returns a store rooted there.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create asset root: %w", err)
	}

	return &Store{root: root}, nil
}

// Root returns the directory assets are stored in.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) filename(key string) (string, string, error) {
	cleaned, err := assets.CleanKey(key)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", err, key)
	}

	return cleaned, filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Put writes to a temporary file first and renames it into place so readers
// never observe a partially written asset.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleaned, name, err := s.filename(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("could not create asset directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("could not create temporary asset: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()

		return "", fmt.Errorf("could not write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("could not close asset: %w", err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return "", fmt.Errorf("could not move asset into place: %w", err)
	}

	return cleaned, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, name, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not delete asset: %w", err)
	}

	return nil
}

func (s *Store) Walk(ctx context.Context, fn func(assets.Asset) error) error {
	return filepath.WalkDir(s.root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || filepath.Base(name)[0] == '.' {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}
		rel, err := filepath.Rel(s.root, name)
		if err != nil {
			return err
		}

		return fn(assets.Asset{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	})
}
