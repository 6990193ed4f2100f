package cache

var defaultMemory = NewMemory()

// Default returns the process-wide memory store used when no other store is
// configured.
func Default() *Memory { return defaultMemory }

// ClearAll clears every process-wide cache.
//
// This function is thread-safe and can be called from multiple goroutines.
// It's particularly useful for tests that need a clean state.
func ClearAll() {
	defaultMemory.Clear()
}

// GetAllStats returns statistics about the process-wide caches.
func GetAllStats() Stats {
	return defaultMemory.Stats()
}
