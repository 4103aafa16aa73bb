package issuer

import (
	"github.com/tokenfactory/issuer/storage"
	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/types"
)

const (
	DefaultLimit = 10
	MaxLimit     = 30
)

func (q ListQuery) limit() int {
	if q.Limit == nil {
		return DefaultLimit
	}
	return int(min(*q.Limit, MaxLimit))
}

/*
paginate returns up to q.limit() entries of m, ascending by address and
starting after q.StartAfter. Entries for which keep returns false are skipped
and do not count against the limit.
*/
func paginate[V, R any](kv store.Reader, m storage.Map[types.Address, V], q ListQuery, keep func(V) bool, conv func(types.Address, V) R) ([]R, error) {
	limit := q.limit()
	res := make([]R, 0, limit)
	if limit == 0 {
		return res, nil
	}
	err := m.Range(kv, q.StartAfter, func(addr types.Address, v V) (bool, error) {
		if keep != nil && !keep(v) {
			return true, nil
		}
		res = append(res, conv(addr, v))
		return len(res) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
