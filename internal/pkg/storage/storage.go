// Package storage provides durable object storage for uploaded RFP files
// and compiled proposal artifacts. Writes are append-only: callers build a
// fresh collision-resistant key per object and never reuse one.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store is the object storage capability the pipeline consumes.
type Store interface {
	// Put uploads the object and returns its durable location.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	// Get opens the object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// URL returns a client-fetchable URL for the object.
	URL(ctx context.Context, key string) (string, error)
}

// ObjectKey builds a tenant-scoped, collision-resistant key. The filename
// comes from untrusted uploads, so only its base name survives; path
// separators and dot segments never reach the key.
func ObjectKey(prefix string, companyID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s_%s", prefix, companyID, uuid.New(), sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}
