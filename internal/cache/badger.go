package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Badger keeps entries in an embedded badger database, on disk when dir is
// set and in memory otherwise. Entries expire through badger's native TTL.
type Badger struct {
	db     *badger.DB
	prefix []byte
}

func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return db, nil
}

func NewBadger(db *badger.DB, namespace string) *Badger {
	return &Badger{db: db, prefix: []byte(namespace + ":")}
}

func (b *Badger) key(k string) []byte {
	return append(append([]byte{}, b.prefix...), k...)
}

func (b *Badger) Get(_ context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(b.key(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

func (b *Badger) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.key(key))
	})
}

func (b *Badger) Clear(_ context.Context) error {
	return b.db.DropPrefix(b.prefix)
}

func (b *Badger) Close() error {
	return b.db.Close()
}
