package store

import "sync"

var (
	globalOnce  sync.Once
	globalStore *KoanfStore
)

// Global returns the process-wide store, creating an empty one on first use.
// The hosting process populates it with Register and Init; it is never torn
// down.
func Global() *KoanfStore {
	globalOnce.Do(func() {
		globalStore = NewEmpty()
	})
	return globalStore
}
