package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStorage archives files by copying them into a base directory.
type LocalStorage struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalStorage creates a local storage instance rooted at basePath.
func NewLocalStorage(basePath string, logger *zap.Logger) *LocalStorage {
	return &LocalStorage{
		basePath: basePath,
		logger:   logger,
	}
}

// Upload copies a local file into the base directory.
func (l *LocalStorage) Upload(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return newError("upload", remotePath, BackendLocal, err)
	}

	dest := filepath.Join(l.basePath, remotePath)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return newError("upload", dest, BackendLocal, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return newError("upload", localPath, BackendLocal, err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return newError("upload", dest, BackendLocal, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dest)
		return newError("upload", dest, BackendLocal, err)
	}
	if err := dst.Close(); err != nil {
		return newError("upload", dest, BackendLocal, err)
	}

	l.logger.Debug("Archived file locally",
		zap.String("source", localPath),
		zap.String("dest", dest))
	return nil
}

// Close is a no-op for local storage.
func (l *LocalStorage) Close() error {
	return nil
}
