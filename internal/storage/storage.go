package storage

import (
	"context"
	"io"
)

// FileStorage persists uploaded files under a folder of the served static tree.
type FileStorage interface {
	Save(ctx context.Context, folder, filename string, body io.Reader, contentType string) error
}
