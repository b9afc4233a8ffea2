package store

import (
	"encoding/binary"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

var linkPrefix = []byte("link/")

// Badger stores every link under a big endian sequence key so iteration
// returns them in notification order.
type Badger struct {
	db      *badgerdb.DB
	next    uint64
	pending []string
	logger  *zap.Logger
}

// OpenBadger opens (or creates) the database in dir. An empty dir opens an in-memory database.
func OpenBadger(dir string, logger *zap.Logger) (*Badger, error) {
	var opts badgerdb.Options
	if dir == "" {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("[store] create %s: %w", dir, err)
		}
		opts = badgerdb.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithLogger(badgerLogger{logger.Sugar()})

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("[store] open badger %s: %w", dir, err)
	}

	return &Badger{db: db, logger: logger}, nil
}

func (store *Badger) Load() ([]string, error) {
	links := make([]string, 0)
	next := uint64(0)

	err := store.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(linkPrefix); it.ValidForPrefix(linkPrefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			links = append(links, string(value))
			next = binary.BigEndian.Uint64(item.Key()[len(linkPrefix):]) + 1
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("[store] load: %w", err)
	}

	store.next = next
	store.pending = nil
	return links, nil
}

func (store *Badger) Append(links ...string) {
	store.pending = append(store.pending, links...)
}

func (store *Badger) Flush() error {
	if len(store.pending) == 0 {
		return nil
	}

	err := store.db.Update(func(txn *badgerdb.Txn) error {
		for idx, link := range store.pending {
			if err := txn.Set(linkKey(store.next+uint64(idx)), []byte(link)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("[store] flush: %w", err)
	}

	store.next += uint64(len(store.pending))
	store.logger.Debug("[store] -> Sent items saved.", zap.Int("links", len(store.pending)))
	store.pending = nil
	return nil
}

func (store *Badger) Close() error {
	return store.db.Close()
}

func linkKey(seq uint64) []byte {
	key := make([]byte, len(linkPrefix)+8)
	copy(key, linkPrefix)
	binary.BigEndian.PutUint64(key[len(linkPrefix):], seq)
	return key
}

// badgerLogger routes badger's own logging to zap; info and debug are demoted to debug.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf("[badger] "+format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf("[badger] "+format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.sugar.Debugf("[badger] "+format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf("[badger] "+format, args...)
}
