package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/lumenfold/lumenfold/internal/rendercache"
	"github.com/lumenfold/lumenfold/internal/share"
)

func testCache(t *testing.T) *rendercache.Cache {
	t.Helper()
	c, err := rendercache.Open(filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("rendercache.Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func get(t *testing.T, s *CardServer, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServeCardRejectsNonGet(t *testing.T) {
	s := NewCardServer(nil, CardConfig{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/og-render?s=abc", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServeCardRejectsBadQueries(t *testing.T) {
	s := NewCardServer(nil, CardConfig{}, nil)

	tests := []struct {
		name   string
		target string
	}{
		{"missing seed", "/og-render?d=0.5"},
		{"malformed escape", "/og-render?s=%zz"},
		{"unknown v1 palette", "/og-render?s=abc&p=nope"},
		{"out-of-range tag", "/og-render?s=" + "99,0,0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServeCardCacheHit(t *testing.T) {
	cache := testCache(t)
	s := NewCardServer(cache, CardConfig{}, nil)

	// Pre-populate under the canonical key so the handler never renders.
	st, err := share.Decode("s=drifting+chorus+feathers&d=0.70")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	cardBytes := []byte{0x89, 0x50, 0x4E, 0x47, 9, 9, 9}
	if err := cache.Put(share.Encode(st), cardBytes); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rec := get(t, s, "/og-render?s=drifting+chorus+feathers&d=0.70")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), cardBytes) {
		t.Error("response bytes differ from the cached render")
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "max-age=31536000, immutable" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestServeCardCanonicalisesKey(t *testing.T) {
	cache := testCache(t)
	s := NewCardServer(cache, CardConfig{}, nil)

	st, err := share.Decode("s=abc&d=0.70")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	cardBytes := []byte{0x89, 0x50, 0x4E, 0x47, 1}
	if err := cache.Put(share.Encode(st), cardBytes); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A different spelling of the same state must hit the same row.
	rec := get(t, s, "/og-render?d=0.7000&s=abc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), cardBytes) {
		t.Error("alternate query spelling missed the canonical cache row")
	}
}

func TestNewCardServerDefaults(t *testing.T) {
	s := NewCardServer(nil, CardConfig{MaxConcurrentRenders: -3}, nil)
	if cap(s.sem) != 2 {
		t.Errorf("semaphore capacity = %d, want default 2", cap(s.sem))
	}
}
