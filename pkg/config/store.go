package config

import "sync/atomic"

// Store is an atomic holder for the live SystemConfig. The watcher
// swaps in a freshly loaded config on file change; readers take a
// consistent snapshot per incoming message.
type Store struct {
	system atomic.Pointer[SystemConfig]
}

// NewStore creates a Store seeded with the given system config.
func NewStore(sys *SystemConfig) *Store {
	s := &Store{}
	if sys == nil {
		sys = DefaultSystemConfig()
	}
	s.system.Store(sys)
	return s
}

// System returns the current system config snapshot.
func (s *Store) System() *SystemConfig {
	return s.system.Load()
}

// ReplaceSystem swaps in a new system config.
func (s *Store) ReplaceSystem(sys *SystemConfig) {
	if sys != nil {
		s.system.Store(sys)
	}
}
