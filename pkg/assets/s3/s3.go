// Package s3 stores assets as objects in an S3 compatible bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"yourplaces/pkg/assets"

	minio "github.com/minio/minio-go"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

type Store struct {
	client *minio.Client
	bucket string
}

var _ assets.Store = (*Store)(nil)

// New connects to the endpoint and creates the bucket when it does not exist yet.
func New(options Options) (*Store, error) {
	client, err := minio.NewV4(options.Endpoint, options.AccessKey, options.SecretKey, options.Secure)
	if err != nil {
		return nil, fmt.Errorf("could not create s3 client: %w", err)
	}

	exists, err := client.BucketExists(options.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(options.Bucket, ""); err != nil {
			return nil, fmt.Errorf("could not create bucket: %w", err)
		}
	}

	return &Store{client: client, bucket: options.Bucket}, nil
}

// Put buffers the asset so the object size is known up front. Uploads are
// capped well below the multipart threshold by the HTTP layer.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	cleaned, err := assets.CleanKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, key)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("could not read asset: %w", err)
	}

	if _, err := s.client.PutObjectWithContext(ctx, s.bucket, cleaned, bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(b)}); err != nil {
		return "", fmt.Errorf("could not put object: %w", err)
	}

	return cleaned, nil
}

// Delete removes the object. S3 deletes are idempotent, so a missing object
// is not reported.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cleaned, err := assets.CleanKey(key)
	if err != nil {
		return fmt.Errorf("%w: %q", err, key)
	}
	if err := s.client.RemoveObject(s.bucket, cleaned); err != nil {
		return fmt.Errorf("could not remove object: %w", err)
	}

	return nil
}

func (s *Store) Walk(ctx context.Context, fn func(assets.Asset) error) error {
	done := make(chan struct{})
	defer close(done)

	for obj := range s.client.ListObjectsV2(s.bucket, "", true, done) {
		if obj.Err != nil {
			return fmt.Errorf("could not list objects: %w", obj.Err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(assets.Asset{Path: obj.Key, Size: obj.Size, ModTime: obj.LastModified}); err != nil {
			return err
		}
	}

	return nil
}
