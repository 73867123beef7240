// Package repository holds the current catalog snapshot.
//
// A snapshot is an immutable explorer.Dataset. Loads build a complete new
// dataset and swap it in atomically, so readers never observe a partially
// classified catalog and never need to lock.
package repository

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/okian/scout/internal/domain/explorer"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/metrics"
)

// Store provides access to the current catalog snapshot.
type Store interface {
	// Current returns the latest snapshot or ErrNotLoaded before the first Swap.
	Current(ctx context.Context) (*explorer.Dataset, error)
	// Swap publishes d as the current snapshot.
	Swap(ctx context.Context, d *explorer.Dataset) error
	// Player returns one player from the current snapshot or ErrNotFound.
	Player(ctx context.Context, id int) (player.Player, error)
	// Version counts successful swaps.
	Version(ctx context.Context) uint64
	// Count returns the number of players in the current snapshot.
	Count(ctx context.Context) int
}

// SnapshotStore is an in-memory Store.
type SnapshotStore struct {
	snapshot atomic.Pointer[explorer.Dataset]
	version  atomic.Uint64

	metricsEnabled bool
}

// NewSnapshotStore constructs an empty store with configuration options.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{metricsEnabled: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the latest snapshot.
func (s *SnapshotStore) Current(_ context.Context) (*explorer.Dataset, error) {
	d := s.snapshot.Load()
	if d == nil {
		return nil, ErrNotLoaded
	}
	return d, nil
}

// Swap publishes d and refreshes the catalog gauges.
func (s *SnapshotStore) Swap(_ context.Context, d *explorer.Dataset) error {
	if d == nil {
		return fmt.Errorf("%w: nil dataset", ErrInvalidSnapshot)
	}
	s.snapshot.Store(d)
	s.version.Add(1)

	if s.metricsEnabled {
		metrics.UpdateCatalogPlayers(len(d.Players))
		metrics.UpdateCatalogLastLoad(d.LoadedAt.Unix())
		metrics.UpdateTagAssignments(d.Cache.Counts())
	}
	return nil
}

// Player looks up a player by id in the current snapshot.
func (s *SnapshotStore) Player(ctx context.Context, id int) (player.Player, error) {
	d, err := s.Current(ctx)
	if err != nil {
		return player.Player{}, err
	}
	p, ok := d.Player(id)
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player %d", ErrNotFound, id)
	}
	return p, nil
}

// Version counts successful swaps.
func (s *SnapshotStore) Version(_ context.Context) uint64 {
	return s.version.Load()
}

// Count returns the number of players in the current snapshot, 0 before the first load.
func (s *SnapshotStore) Count(_ context.Context) int {
	if d := s.snapshot.Load(); d != nil {
		return len(d.Players)
	}
	return 0
}
