// Package cache stores lint results keyed by input fingerprint so unchanged
// files skip every rule walk.
package cache

import "github.com/speakeasy-api/swiftlint/violation"

// Store is implemented by every cache backend. Implementations are safe for
// concurrent use.
type Store interface {
	Get(key string) ([]violation.Violation, bool)
	Put(key string, vs []violation.Violation) error
	Stats() Stats
}

// Stats reports the size and effectiveness of a store.
type Stats struct {
	Entries int64
	Hits    int64
	Misses  int64
}
