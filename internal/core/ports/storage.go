// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStorage holds uploaded import files and generated reports
type ObjectStorage interface {
	// Upload stores data under key and returns its location
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Storage key prefixes
const (
	ImportPrefix = "imports/"
	ReportPrefix = "reports/"
)
