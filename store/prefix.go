package store

type (
	prefixReader struct {
		parent Reader
		prefix []byte
	}

	prefixStore struct {
		prefixReader
		parent KVStore
	}
)

// NewPrefixReader returns read-only view of the parent where all keys are
// transparently prefixed with prefix. Iteration never leaves the prefix.
func NewPrefixReader(parent Reader, prefix []byte) Reader {
	return &prefixReader{parent: parent, prefix: append([]byte(nil), prefix...)}
}

// NewPrefixStore is like NewPrefixReader but the view is writable.
func NewPrefixStore(parent KVStore, prefix []byte) KVStore {
	return &prefixStore{
		prefixReader: prefixReader{parent: parent, prefix: append([]byte(nil), prefix...)},
		parent:       parent,
	}
}

func (p *prefixReader) key(key []byte) []byte {
	k := make([]byte, 0, len(p.prefix)+len(key))
	return append(append(k, p.prefix...), key...)
}

func (p *prefixReader) Get(key []byte) ([]byte, error) {
	return p.parent.Get(p.key(key))
}

func (p *prefixReader) Iterate(start, end []byte) (Iterator, error) {
	pstart := p.key(start)
	var pend []byte
	if end != nil {
		pend = p.key(end)
	} else {
		pend = PrefixEnd(p.prefix)
	}
	it, err := p.parent.Iterate(pstart, pend)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: it, n: len(p.prefix)}, nil
}

func (p *prefixStore) Set(key, value []byte) error {
	return p.parent.Set(p.key(key), value)
}

func (p *prefixStore) Delete(key []byte) error {
	return p.parent.Delete(p.key(key))
}

type prefixIterator struct {
	Iterator
	n int
}

func (i *prefixIterator) Key() []byte {
	k := i.Iterator.Key()
	if len(k) < i.n {
		return nil
	}
	return k[i.n:]
}
