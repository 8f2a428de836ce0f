package imagestore_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/system/imagestore"
	"github.com/dalemusser/waffle/pantry/storage"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\pic.gif`, "pic.gif"},
		{"", "image"},
	}
	for _, tc := range tests {
		if got := imagestore.SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFilename_TruncatesKeepingExtension(t *testing.T) {
	got := imagestore.SanitizeFilename(strings.Repeat("a", 150) + ".jpeg")
	if len(got) != 100 {
		t.Errorf("length: got %d, want 100", len(got))
	}
	if !strings.HasSuffix(got, ".jpeg") {
		t.Errorf("expected extension preserved, got %q", got)
	}
}

func TestKey(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	key := imagestore.Key("64b7f0c2a1b2c3d4e5f60718", "shoe.png", now)

	if !strings.HasPrefix(key, "products/64b7f0c2a1b2c3d4e5f60718/2024/03/") {
		t.Errorf("unexpected prefix: %q", key)
	}
	if !strings.HasSuffix(key, "-shoe.png") {
		t.Errorf("unexpected suffix: %q", key)
	}
	if key == imagestore.Key("64b7f0c2a1b2c3d4e5f60718", "shoe.png", now) {
		t.Error("expected unique keys for repeated uploads")
	}
}

func TestPut(t *testing.T) {
	store := storage.NewMemory(storage.MemoryConfig{BaseURL: "https://cdn.example.com"})
	ctx := context.Background()

	url, err := imagestore.Put(ctx, store, "products/p1/a.png", strings.NewReader("PNG"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "https://cdn.example.com/products/p1/a.png" {
		t.Errorf("url: got %q", url)
	}

	data, info, err := getWithInfo(ctx, store, "products/p1/a.png")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if data != "PNG" {
		t.Errorf("content: got %q", data)
	}
	if info.ContentType != "image/png" {
		t.Errorf("content type: got %q", info.ContentType)
	}
}

func TestPut_LocalBackend(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocal(storage.LocalConfig{BasePath: root, BaseURL: "/files/images"})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	url, err := imagestore.Put(context.Background(), store, "products/p1/a.png", strings.NewReader("PNG"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/files/images/products/p1/a.png" {
		t.Errorf("url: got %q", url)
	}
	data, err := os.ReadFile(filepath.Join(root, "products", "p1", "a.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "PNG" {
		t.Errorf("content: got %q", data)
	}
}

func TestPut_NoPublicURL(t *testing.T) {
	store := storage.NewMemory(storage.MemoryConfig{})

	if _, err := imagestore.Put(context.Background(), store, "a.png", strings.NewReader("x"), "image/png"); err == nil {
		t.Error("expected error for a backend without public URLs")
	}
}

func TestPut_CanceledContext(t *testing.T) {
	store := storage.NewMemory(storage.MemoryConfig{BaseURL: "/files"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := imagestore.Put(ctx, store, "a.png", strings.NewReader("x"), "image/png"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("expected nothing stored, got %d objects", store.Count())
	}
}

func getWithInfo(ctx context.Context, store storage.Store, key string) (string, *storage.ObjectInfo, error) {
	rc, info, err := store.GetWithInfo(ctx, key)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	return string(b), info, err
}
