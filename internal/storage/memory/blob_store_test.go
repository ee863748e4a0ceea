package memory

import (
	"bytes"
	"context"
	"testing"
)

func TestBlobStorePutObjectCopiesData(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	uri, err := store.PutObject(context.Background(), "path/page.html", "text/html", bytes.NewReader([]byte("content")))
	if err != nil {
		t.Fatalf("PutObject() error = %v", err)
	}
	if uri != "memory://path/page.html" {
		t.Fatalf("unexpected uri %s", uri)
	}

	got, contentType, ok := store.Get("path/page.html")
	if !ok {
		t.Fatal("expected object to be stored")
	}
	got[0] = 'C'
	again, _, _ := store.Get("path/page.html")
	if string(again) != "content" {
		t.Fatalf("expected stored copy to be immutable, got %q", again)
	}
	if contentType != "text/html" {
		t.Fatalf("unexpected content type %q", contentType)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", store.Len())
	}
}

func TestBlobStoreRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewBlobStore().PutObject(context.Background(), "", "text/html", bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error for empty path")
	}
}
