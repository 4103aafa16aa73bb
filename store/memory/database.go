package memory

import (
	"bytes"
	"slices"
	"sort"
	"sync"

	"github.com/tokenfactory/issuer/store"
)

// Database is in-memory ordered key-value store. Keys are kept sorted so
// that range iteration starts with binary search instead of a full scan.
type Database struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string][]byte
}

var _ store.Beginner = (*Database)(nil)

func New() *Database {
	return &Database{entries: map[string][]byte{}}
}

// Begin begins a change set.
func (d *Database) Begin(writable bool) store.ChangeSet {
	var commit store.CommitFunc
	if writable {
		commit = d.put
	}
	return store.NewChangeSet(reader{d}, commit, nil)
}

// Len returns number of committed entries.
func (d *Database) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.keys)
}

func (d *Database) get(key []byte) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.entries[string(key)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (d *Database) put(entries []store.Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range entries {
		k := string(e.Key)
		idx, found := slices.BinarySearch(d.keys, k)
		if e.Delete {
			if found {
				d.keys = slices.Delete(d.keys, idx, idx+1)
				delete(d.entries, k)
			}
			continue
		}
		if !found {
			d.keys = slices.Insert(d.keys, idx, k)
		}
		d.entries[k] = bytes.Clone(e.Value)
	}
	return nil
}

// seek returns the first committed entry with key >= from and < end.
func (d *Database) seek(from, end []byte) (key, value []byte, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := sort.SearchStrings(d.keys, string(from))
	if idx >= len(d.keys) {
		return nil, nil, false
	}
	k := d.keys[idx]
	if end != nil && k >= string(end) {
		return nil, nil, false
	}
	return []byte(k), d.entries[k], true
}

type reader struct {
	d *Database
}

func (r reader) Get(key []byte) ([]byte, error) {
	return r.d.get(key)
}

func (r reader) Iterate(start, end []byte) (store.Iterator, error) {
	return &iterator{d: r.d, next: start, end: end}, nil
}

/*
iterator doesn't hold the lock between calls, every Next seeks the successor
of the previous key so the iterator stays valid even when the database is
modified in between.
*/
type iterator struct {
	d     *Database
	next  []byte
	end   []byte
	key   []byte
	value []byte
	done  bool
}

func (i *iterator) Next() bool {
	if i.done {
		return false
	}
	k, v, ok := i.d.seek(i.next, i.end)
	if !ok {
		i.done = true
		i.key, i.value = nil, nil
		return false
	}
	i.key, i.value = k, v
	i.next = store.KeyAfter(k)
	return true
}

func (i *iterator) Key() []byte   { return i.key }
func (i *iterator) Value() []byte { return i.value }
func (i *iterator) Err() error    { return nil }
func (i *iterator) Close() error  { return nil }
