package catalog

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/pkg/logger"
	"github.com/okian/crickdash/pkg/metrics"
)

// Store holds the current catalog snapshot. Readers never block; a reload
// swaps the whole snapshot.
type Store struct {
	path    string
	current atomic.Pointer[player.Catalog]

	mu        sync.Mutex
	listeners []func(*player.Catalog)

	log logger.Logger
}

// NewStore serves initial. If path is set, Reload reads from it.
func NewStore(initial *player.Catalog, path string) *Store {
	s := &Store{path: path, log: logger.Get().Named("catalog")}
	s.current.Store(initial)
	metrics.UpdateCatalogPlayers(initial.Len())
	return s
}

// Open loads path into a new Store.
func Open(path string) (*Store, error) {
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStore(c, path), nil
}

// Catalog implements player.Source.
func (s *Store) Catalog() *player.Catalog {
	return s.current.Load()
}

// Path returns the backing file, if any.
func (s *Store) Path() string { return s.path }

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn func(*player.Catalog)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Reload rereads the file. On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	c, err := LoadFile(s.path)
	if err != nil {
		metrics.RecordCatalogReload("error")
		metrics.RecordErrorByComponent("catalog", "reload")
		s.log.Warn(ctx, "catalog reload failed, keeping previous snapshot",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return err
	}

	s.current.Store(c)
	metrics.RecordCatalogReload("ok")
	metrics.UpdateCatalogPlayers(c.Len())
	s.log.Info(ctx, "catalog reloaded", logger.String("path", s.path), logger.Int("players", c.Len()))

	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
	return nil
}
