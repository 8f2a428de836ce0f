// Package imagestore names product images and puts them into a
// storage.Store, handing back the URL that goes into a product's image list.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Put uploads r under key and returns the object's public URL. A backend
// without a public URL is a configuration error.
func Put(ctx context.Context, store storage.Store, key string, r io.Reader, contentType string) (string, error) {
	opts := &storage.PutOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	}
	if err := store.Put(ctx, key, r, opts); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	url := store.URL(key)
	if url == "" {
		return "", fmt.Errorf("imagestore: %s backend has no public URL for %q", store.Backend(), key)
	}
	return url, nil
}

// Key builds an object key: products/<productID>/YYYY/MM/<uuid8>-<name>.
func Key(productID, filename string, now time.Time) string {
	now = now.UTC()
	return path.Join(
		"products",
		productID,
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		uuid.NewString()[:8]+"-"+SanitizeFilename(filename),
	)
}

// SanitizeFilename keeps [A-Za-z0-9._-] of the base name, replaces the rest
// with '_', and caps the result at 100 bytes while preserving a short
// extension.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if allowed(c) {
			b = append(b, c)
		} else {
			b = append(b, '_')
		}
	}
	if len(b) == 0 {
		return "image"
	}
	if len(b) > 100 {
		ext := path.Ext(string(b))
		if ext != "" && len(ext) < 10 {
			b = append(b[:100-len(ext)], ext...)
		} else {
			b = b[:100]
		}
	}
	return string(b)
}

func allowed(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
