// Package storage archives finished artifacts (videos, frame sets) to a
// local directory or an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Storage uploads local files to an archive destination.
type Storage interface {
	// Upload copies a local file to remotePath under the destination.
	Upload(ctx context.Context, localPath, remotePath string) error

	// Close closes any resources used by the storage implementation
	Close() error
}

// Backend identifies a storage implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendS3    Backend = "s3"
)

// String returns the string representation of Backend
func (b Backend) String() string {
	return string(b)
}

// Error wraps a failed storage operation with its backend and path.
type Error struct {
	Operation string
	Path      string
	Backend   Backend
	Err       error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("storage error [%s] during %s operation on %s: %v",
		e.Backend, e.Operation, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(operation, path string, backend Backend, err error) *Error {
	return &Error{
		Operation: operation,
		Path:      path,
		Backend:   backend,
		Err:       err,
	}
}

// Options carries backend-specific settings.
type Options struct {
	// AWS settings, used only for s3:// targets. Endpoint override
	// supports S3-compatible services like R2.
	AWSRegion   string
	AWSEndpoint string
	AWSProfile  string
}

// New creates a storage client for the given target. Targets of the form
// s3://bucket[/prefix] select the S3 backend; anything else is treated
// as a local directory.
func New(target string, opts Options, logger *zap.Logger) (Storage, error) {
	if target == "" {
		return nil, fmt.Errorf("storage target cannot be empty")
	}
	if strings.HasPrefix(target, "s3://") {
		bucket, prefix, err := ParseS3Target(target)
		if err != nil {
			return nil, err
		}
		return NewS3Storage(bucket, prefix, opts, logger)
	}
	return NewLocalStorage(target, logger), nil
}

// ParseS3Target splits s3://bucket/prefix into bucket and prefix.
func ParseS3Target(target string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(target, "s3://")
	if rest == "" {
		return "", "", fmt.Errorf("invalid S3 target %q: missing bucket", target)
	}
	parts := strings.SplitN(rest, "/", 2)
	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 target %q: missing bucket", target)
	}
	if len(parts) == 2 {
		prefix = strings.Trim(parts[1], "/")
	}
	return bucket, prefix, nil
}
