// Package server exposes the social-card endpoint: GET /og-render renders
// a 1200x630 still for a share query and serves it with immutable caching.
// Identical share params always yield identical bytes, so responses are
// safe to cache forever.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lumenfold/lumenfold/internal/render"
	"github.com/lumenfold/lumenfold/internal/rendercache"
	"github.com/lumenfold/lumenfold/internal/scene"
	"github.com/lumenfold/lumenfold/internal/seed"
	"github.com/lumenfold/lumenfold/internal/share"
)

// Card dimensions follow the Open Graph recommended size.
const (
	CardWidth  = 1200
	CardHeight = 630

	immutableCacheControl = "max-age=31536000, immutable"
)

// CardConfig tunes the card server.
type CardConfig struct {
	// MaxConcurrentRenders bounds simultaneous scene builds (default 2).
	MaxConcurrentRenders int
}

// CardServer renders and caches social card PNGs.
type CardServer struct {
	cache  *rendercache.Cache
	logger *slog.Logger
	cfg    CardConfig
	sem    chan struct{}
	locks  sync.Map
}

// NewCardServer builds a card server. cache may be nil to disable
// persistence; every request then renders fresh.
func NewCardServer(cache *rendercache.Cache, cfg CardConfig, logger *slog.Logger) *CardServer {
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 2
	}
	return &CardServer{
		cache:  cache,
		logger: logger,
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.MaxConcurrentRenders),
	}
}

// Handler returns the /og-render handler.
func (s *CardServer) Handler() http.Handler {
	return http.HandlerFunc(s.serveCard)
}

func (s *CardServer) serveCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st, err := share.Decode(r.URL.RawQuery)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad share query: %v", err), http.StatusBadRequest)
		return
	}
	if st.Seed == "" {
		http.Error(w, "share query is missing a seed", http.StatusBadRequest)
		return
	}
	parsed, err := seed.Parse(st.Seed, "en")
	if err != nil {
		http.Error(w, fmt.Sprintf("bad seed: %v", err), http.StatusBadRequest)
		return
	}

	// The canonical re-encoding is the cache key: any query spelling of
	// the same state hits the same row.
	key := share.Encode(st)

	if data, ok := s.lookup(key); ok {
		s.log().Info("card cache hit", "key", key)
		writeCard(w, data)
		return
	}

	// Per-key lock so concurrent requests for the same card render once.
	mu := s.getLock(key)
	mu.Lock()
	defer mu.Unlock()

	if data, ok := s.lookup(key); ok {
		writeCard(w, data)
		return
	}

	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	start := time.Now()
	data, err := s.renderCard(parsed.Label, st)
	if err != nil {
		s.log().Error("failed to render card", "key", key, "error", err)
		http.Error(w, "failed to render card", http.StatusInternalServerError)
		return
	}
	s.log().Info("card rendered", "key", key, "ms", time.Since(start).Milliseconds())

	if s.cache != nil {
		if err := s.cache.Put(key, data); err != nil {
			s.log().Warn("failed to cache card", "key", key, "error", err)
		}
	}
	writeCard(w, data)
}

func (s *CardServer) renderCard(seedLabel string, st share.State) ([]byte, error) {
	sc, err := scene.Build(seedLabel, st.Controls)
	if err != nil {
		return nil, err
	}

	rd := render.NewRenderer(CardWidth, CardHeight)
	defer rd.Close()
	img := rd.Render(sc, render.DefaultFrameState())

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *CardServer) lookup(key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(key)
	if errors.Is(err, rendercache.ErrMiss) {
		return nil, false
	}
	if err != nil {
		s.log().Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

func (s *CardServer) getLock(key string) *sync.Mutex {
	if v, ok := s.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

func (s *CardServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func writeCard(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", immutableCacheControl)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(data)
}
