package badger

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/tokenfactory/issuer/store"
)

type Database struct {
	badger *badger.DB
	ready  bool
	mu     sync.RWMutex
}

var _ store.Beginner = (*Database)(nil)

// New opens (creating when needed) badger database in the directory.
func New(dir string, log *slog.Logger) (*Database, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("open badger: create %q: %w", dir, err)
	}
	return open(badger.DefaultOptions(dir), log)
}

// NewInMemory opens badger database which keeps everything in memory, meant for tests.
func NewInMemory(log *slog.Logger) (*Database, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badger.Options, log *slog.Logger) (*Database, error) {
	opts = opts.WithLogger(newLogger(log))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Database{badger: db, ready: true}, nil
}

/*
Begin begins a change set. Reads go to a badger read-only transaction which
gives the change set a consistent snapshot of the committed state, writes are
cached in memory and written in a single badger transaction on Commit.
*/
func (d *Database) Begin(writable bool) store.ChangeSet {
	rd := d.badger.NewTransaction(false)

	var commit store.CommitFunc
	if writable {
		commit = func(entries []store.Entry) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			if !d.ready {
				return errors.New("database is closed")
			}

			// single transaction, the change set is written completely or not at all
			return d.badger.Update(func(txn *badger.Txn) error {
				for _, e := range entries {
					var err error
					if e.Delete {
						err = txn.Delete(e.Key)
					} else {
						err = txn.Set(e.Key, e.Value)
					}
					if err != nil {
						return fmt.Errorf("write %x: %w", e.Key, err)
					}
				}
				return nil
			})
		}
	}

	return store.NewChangeSet(reader{rd}, commit, rd.Discard)
}

// Close the underlying database
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return nil
	}
	d.ready = false
	return d.badger.Close()
}

type reader struct {
	txn *badger.Txn
}

func (r reader) Get(key []byte) ([]byte, error) {
	item, err := r.txn.Get(key)
	switch {
	case err == nil:
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, store.ErrNotFound
	default:
		return nil, fmt.Errorf("get %x: %w", key, err)
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("get %x: %w", key, err)
	}
	return v, nil
}

func (r reader) Iterate(start, end []byte) (store.Iterator, error) {
	it := r.txn.NewIterator(badger.DefaultIteratorOptions)
	it.Seek(start)
	return &iterator{it: it, end: end}, nil
}

type iterator struct {
	it      *badger.Iterator
	end     []byte
	started bool
	key     []byte
	value   []byte
	err     error
}

func (i *iterator) Next() bool {
	if i.err != nil {
		return false
	}
	if i.started {
		i.it.Next()
	}
	i.started = true
	i.key, i.value = nil, nil

	if !i.it.Valid() {
		return false
	}
	item := i.it.Item()
	k := item.KeyCopy(nil)
	if i.end != nil && bytes.Compare(k, i.end) >= 0 {
		return false
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		i.err = fmt.Errorf("read value of %x: %w", k, err)
		return false
	}
	i.key, i.value = k, v
	return true
}

func (i *iterator) Key() []byte   { return i.key }
func (i *iterator) Value() []byte { return i.value }
func (i *iterator) Err() error    { return i.err }

func (i *iterator) Close() error {
	i.it.Close()
	return nil
}
