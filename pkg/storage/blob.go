package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// ErrBlobNotFound is returned by Open when no object exists under the key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStorage keeps generated documents in a bucket. The bucket URL selects the backend:
// s3://bucket?region=... in production, file:///dir on a single host, mem:// in tests.
type BlobStorage struct {
	bucket *blob.Bucket
}

// OpenBlobStorage opens the bucket behind bucketURL.
func OpenBlobStorage(ctx context.Context, bucketURL string) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}
	return &BlobStorage{bucket: bucket}, nil
}

// FileBucketURL creates dir when missing and returns the file:// bucket URL pointing at it.
func FileBucketURL(dir string) (string, error) {
	if dir == "" {
		dir = "./offer-letters"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Save uploads data under key.
func (s *BlobStorage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	return nil
}

// Open streams the object stored under key. The caller closes the reader.
func (s *BlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return reader, nil
}

// Delete removes the object under key. Missing objects are not an error.
func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// PingContext reports whether the bucket can be reached.
func (s *BlobStorage) PingContext(ctx context.Context) error {
	ok, err := s.bucket.IsAccessible(ctx)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !ok {
		return errors.New("bucket not accessible")
	}
	return nil
}

// Close releases the bucket.
func (s *BlobStorage) Close() error {
	return s.bucket.Close()
}

// cleanKey rejects keys that are empty or escape the bucket root.
func cleanKey(key string) (string, error) {
	trimmed := strings.TrimPrefix(key, "/")
	cleaned := path.Clean(trimmed)
	if trimmed == "" || cleaned != trimmed || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return cleaned, nil
}
