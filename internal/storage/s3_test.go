package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestNewS3Storage(t *testing.T) {
	cfg := S3Config{
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566", // LocalStack-like endpoint
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}

	storage, err := NewS3Storage(t.TempDir(), cfg, nil)
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	if storage.region != cfg.Region {
		t.Errorf("region = %v, want %v", storage.region, cfg.Region)
	}
}

func TestS3Storage_OpenLocalPath(t *testing.T) {
	storage := newMockS3Storage(t, "http://localhost:4566", false)

	path := filepath.Join(t.TempDir(), "video.json")
	if err := os.WriteFile(path, []byte("local"), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := storage.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	content, _ := io.ReadAll(r)
	if string(content) != "local" {
		t.Errorf("got %q, want %q", content, "local")
	}
}

func TestS3Storage_Open_MockServer(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET method, got %s", r.Method)
		}
		if r.URL.Path != "/videos/clips/intro.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fps":24,"frames":{"0":["ab"]}}`))
	}))
	defer server.Close()

	storage := newMockS3Storage(t, server.URL, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r, err := storage.Open(ctx, "s3://videos/clips/intro.json")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		content, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(content) != `{"fps":24,"frames":{"0":["ab"]}}` {
			t.Errorf("unexpected body: %s", content)
		}
	}

	if got := requests.Load(); got != 1 {
		t.Errorf("expected one download with a warm cache, got %d", got)
	}

	cached := filepath.Join(storage.CacheDir(), "s3", "videos", "clips", "intro.json")
	if _, err := os.Stat(cached); err != nil {
		t.Errorf("cache entry missing: %v", err)
	}
}

func TestS3Storage_Open_Refresh(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	storage := newMockS3Storage(t, server.URL, true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r, err := storage.Open(ctx, "s3://videos/clip.pkl")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		_ = r.Close()
	}

	if got := requests.Load(); got != 2 {
		t.Errorf("expected a download per open with refresh, got %d", got)
	}
}

func TestS3Storage_Open_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
	}))
	defer server.Close()

	storage := newMockS3Storage(t, server.URL, false)

	_, err := storage.Open(context.Background(), "s3://videos/missing.json")
	if err == nil {
		t.Fatal("expected error for missing object")
	}

	if _, statErr := os.Stat(filepath.Join(storage.CacheDir(), "s3", "videos", "missing.json")); !os.IsNotExist(statErr) {
		t.Errorf("failed download must not leave a cache entry")
	}
}

func newMockS3Storage(t *testing.T, endpoint string, refresh bool) *S3Storage {
	t.Helper()

	cfg := S3Config{
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Refresh:         refresh,
	}

	storage, err := NewS3Storage(t.TempDir(), cfg, nil)
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}
	return storage
}
