// Package storage keeps uploaded dealer files until their ingestion job reads them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open when the key does not exist.
var ErrNotFound = errors.New("stored file not found")

// Store is the byte storage behind uploads. Keys are opaque to callers.
type Store interface {
	Save(ctx context.Context, dealerID int64, filename string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// objectKey builds dealers/<id>/YYYY/MM/DD/<uuid>_<safe name>.csv.
func objectKey(dealerID int64, filename string, now time.Time) string {
	return fmt.Sprintf("dealers/%d/%d/%02d/%02d/%s_%s.csv",
		dealerID, now.Year(), now.Month(), now.Day(), uuid.NewString(), sanitizeName(filename))
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || strings.Trim(name, "_") == "" {
		return "file"
	}
	return name
}
