package store

import (
	"bytes"
	"slices"
)

type changeSet struct {
	parent  Reader
	pending map[string]Entry
	commit  CommitFunc
	discard func()
	done    bool
}

/*
NewChangeSet returns change set which caches writes in memory and reads
through to the parent for keys it hasn't seen. When commit is nil the change
set is read-only. Discard callback (optional) is called exactly once, after
Commit or Discard, to release parent's resources.
*/
func NewChangeSet(parent Reader, commit CommitFunc, discard func()) ChangeSet {
	return &changeSet{
		parent:  parent,
		pending: map[string]Entry{},
		commit:  commit,
		discard: discard,
	}
}

func (c *changeSet) Get(key []byte) ([]byte, error) {
	if c.done {
		return nil, ErrClosed
	}
	if e, ok := c.pending[string(key)]; ok {
		if e.Delete {
			return nil, ErrNotFound
		}
		return e.Value, nil
	}
	return c.parent.Get(key)
}

func (c *changeSet) Set(key, value []byte) error {
	if err := c.checkWritable(key); err != nil {
		return err
	}
	c.pending[string(key)] = Entry{Key: bytes.Clone(key), Value: bytes.Clone(value)}
	return nil
}

func (c *changeSet) Delete(key []byte) error {
	if err := c.checkWritable(key); err != nil {
		return err
	}
	c.pending[string(key)] = Entry{Key: bytes.Clone(key), Delete: true}
	return nil
}

func (c *changeSet) checkWritable(key []byte) error {
	switch {
	case c.done:
		return ErrClosed
	case c.commit == nil:
		return ErrReadOnly
	case len(key) == 0:
		return ErrEmptyKey
	}
	return nil
}

func (c *changeSet) Iterate(start, end []byte) (Iterator, error) {
	if c.done {
		return nil, ErrClosed
	}
	var pending []Entry
	for _, e := range c.pending {
		if inRange(e.Key, start, end) {
			pending = append(pending, e)
		}
	}
	sortEntries(pending)

	parent, err := c.parent.Iterate(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(parent, pending), nil
}

func (c *changeSet) Commit() error {
	if c.done {
		return ErrClosed
	}
	if c.commit == nil {
		return ErrReadOnly
	}
	defer c.close()

	entries := make([]Entry, 0, len(c.pending))
	for _, e := range c.pending {
		entries = append(entries, e)
	}
	sortEntries(entries)
	return c.commit(entries)
}

func (c *changeSet) Discard() {
	if !c.done {
		c.close()
	}
}

func (c *changeSet) close() {
	c.done = true
	c.pending = nil
	if c.discard != nil {
		c.discard()
	}
}

func inRange(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	return end == nil || bytes.Compare(key, end) < 0
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int { return bytes.Compare(a.Key, b.Key) })
}

/*
mergeIterator merges parent's entries with pending (sorted) changes,
pending entries shadow parent entries with the same key.
*/
type mergeIterator struct {
	parent   Iterator
	parentOK bool
	pending  []Entry
	idx      int
	key      []byte
	value    []byte
	started  bool
}

func newMergeIterator(parent Iterator, pending []Entry) *mergeIterator {
	return &mergeIterator{parent: parent, pending: pending}
}

func (m *mergeIterator) Next() bool {
	if !m.started {
		m.started = true
		m.parentOK = m.parent.Next()
	}
	for {
		hasPending := m.idx < len(m.pending)
		switch {
		case !m.parentOK && !hasPending:
			m.key, m.value = nil, nil
			return false
		case hasPending && (!m.parentOK || bytes.Compare(m.pending[m.idx].Key, m.parent.Key()) <= 0):
			e := m.pending[m.idx]
			m.idx++
			if m.parentOK && bytes.Equal(e.Key, m.parent.Key()) {
				m.parentOK = m.parent.Next()
			}
			if e.Delete {
				continue
			}
			m.key, m.value = e.Key, e.Value
			return true
		default:
			m.key, m.value = m.parent.Key(), m.parent.Value()
			m.parentOK = m.parent.Next()
			return true
		}
	}
}

func (m *mergeIterator) Key() []byte   { return m.key }
func (m *mergeIterator) Value() []byte { return m.value }
func (m *mergeIterator) Err() error    { return m.parent.Err() }
func (m *mergeIterator) Close() error  { return m.parent.Close() }
