package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/speakeasy-api/swiftlint/violation"
)

// schemaVersion is bumped whenever the encoded entry layout changes; older
// entries then read as misses.
const schemaVersion = 1

// Config configures a Disk store.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	// InMemory keeps the database in memory, for tests.
	InMemory bool

	// Logger receives badger's internal logs. Nil silences them.
	Logger *slog.Logger
}

// Disk is a persistent store backed by badger.
type Disk struct {
	db     *badger.DB
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

var _ Store = (*Disk)(nil)

type diskEntry struct {
	Schema     int                   `msgpack:"schema"`
	Violations []violation.Violation `msgpack:"violations"`
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenDisk opens or creates a store.
func OpenDisk(cfg Config) (*Disk, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	return &Disk{db: db, logger: logger}, nil
}

func (d *Disk) Get(key string) ([]violation.Violation, bool) {
	var entry diskEntry
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &entry)
		})
	})
	if err != nil || entry.Schema != schemaVersion {
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			d.logger.Debug("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		d.misses.Add(1)
		return nil, false
	}
	d.hits.Add(1)
	return entry.Violations, true
}

func (d *Disk) Put(key string, vs []violation.Violation) error {
	data, err := msgpack.Marshal(diskEntry{Schema: schemaVersion, Violations: vs})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (d *Disk) Stats() Stats {
	var entries int64
	_ = d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})
	return Stats{Entries: entries, Hits: d.hits.Load(), Misses: d.misses.Load()}
}

// Clear drops every stored entry.
func (d *Disk) Clear() error {
	return d.db.DropAll()
}

func (d *Disk) Close() error {
	return d.db.Close()
}
