package storage

import (
	"context"
	"fmt"
	"strings"

	"gallery-app/config"
)

// Backend publishes a finished derivative file and returns the URL it is
// served from. Remove takes a published file back down.
type Backend interface {
	Publish(ctx context.Context, name, path string) (string, error)
	Remove(ctx context.Context, name string) error
}

// LocalBaseURL is where the server exposes the uploads directory.
const LocalBaseURL = "/uploads"

func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return NewLocal(LocalBaseURL), nil
	case "s3":
		return NewS3(ctx, cfg.S3)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// Local leaves files in the uploads directory, which the server exposes
// under BaseURL.
type Local struct {
	BaseURL string
}

func NewLocal(baseURL string) *Local {
	return &Local{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) URL(name string) string {
	return l.BaseURL + "/" + name
}

func (l *Local) Publish(_ context.Context, name, _ string) (string, error) {
	return l.URL(name), nil
}

// Remove is a no-op; the pipeline owns the files in the uploads directory.
func (l *Local) Remove(context.Context, string) error {
	return nil
}
