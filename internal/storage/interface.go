package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidKey  = errors.New("invalid storage key")
	ErrFileTooBig  = errors.New("file exceeds maximum size")
	ErrFileMissing = errors.New("file not found")
)

// StorageInterface is the image storage backend for bike photos.
type StorageInterface interface {
	// GenerateUploadURL returns a URL the client PUTs the file body to.
	GenerateUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// DownloadURL returns the public URL a stored key is served from.
	DownloadURL(key string) string

	// FileExists checks if a file exists and returns its size.
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error

	// SaveFile stores at most maxBytes from reader under key.
	SaveFile(key string, reader io.Reader, maxBytes int64) (int64, error)

	ReadFile(key string) (io.ReadCloser, error)
}
