// Package repository holds the current catalog snapshot.
package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMetrics toggles the catalog gauges updated on every swap.
func WithMetrics(enabled bool) Option {
	return func(s *SnapshotStore) {
		s.metricsEnabled = enabled
	}
}
