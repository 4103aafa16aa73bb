/*
Package store defines the ordered key-value storage used by the host and
the contract.

All state changes of one delivered message go into a ChangeSet which is
either committed as a whole or discarded, readers of the parent store never
observe partially applied messages.
*/
package store

import (
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrReadOnly = errors.New("change set is read-only")
	ErrClosed   = errors.New("change set is closed")
	ErrEmptyKey = errors.New("key must not be empty")
)

type (
	// Reader provides point lookups and ordered iteration.
	Reader interface {
		// Get returns ErrNotFound when the key doesn't exist.
		Get(key []byte) ([]byte, error)
		// Iterate returns iterator over keys in range [start, end) in
		// ascending byte order, nil start/end means unbounded.
		Iterate(start, end []byte) (Iterator, error)
	}

	KVStore interface {
		Reader
		Set(key, value []byte) error
		Delete(key []byte) error
	}

	Iterator interface {
		// Next advances to the next entry, must be called before the first
		// Key/Value. Slices returned by Key and Value stay valid after Next.
		Next() bool
		Key() []byte
		Value() []byte
		Err() error
		Close() error
	}

	// ChangeSet is a key-value change set.
	ChangeSet interface {
		KVStore

		// Commit commits pending changes.
		Commit() error

		// Discard discards pending changes.
		Discard()
	}

	// A Beginner can begin key-value change sets.
	Beginner interface {
		Begin(writable bool) ChangeSet
	}

	Entry struct {
		Key    []byte
		Value  []byte
		Delete bool
	}

	// CommitFunc persists entries, entries are sorted by key.
	CommitFunc func(entries []Entry) error
)

// PrefixEnd returns the smallest key which is greater than all keys with
// the given prefix, nil when there is no such key (prefix is all 0xFF).
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// KeyAfter returns the smallest key strictly greater than key, used to turn
// exclusive cursor into inclusive range start.
func KeyAfter(key []byte) []byte {
	next := make([]byte, len(key)+1)
	copy(next, key)
	return next
}
