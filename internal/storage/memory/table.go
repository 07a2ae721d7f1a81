package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type row[T any] struct {
	value T
	seq   int64 // insertion order, used to break ties deterministically
}

// table is a mutex-guarded map of records keyed by id. Values are cloned on
// the way in and out so callers never share slices or maps with the store.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]row[T]
	seq   int64
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{
		rows:  make(map[uuid.UUID]row[T]),
		clone: clone,
	}
}

func (t *table[T]) insert(id uuid.UUID, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rows[id]; exists {
		return storage.ErrConflict
	}
	t.seq++
	t.rows[id] = row[T]{value: t.clone(v), seq: t.seq}
	return nil
}

// replace inserts v or overwrites the existing row, keeping its position.
func (t *table[T]) replace(id uuid.UUID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, exists := t.rows[id]
	if !exists {
		t.seq++
		r.seq = t.seq
	}
	r.value = t.clone(v)
	t.rows[id] = r
}

// update overwrites an existing row; absent ids are ignored.
func (t *table[T]) update(id uuid.UUID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, exists := t.rows[id]
	if !exists {
		return
	}
	r.value = t.clone(v)
	t.rows[id] = r
}

// modify applies fn to an existing row under the write lock.
func (t *table[T]) modify(id uuid.UUID, fn func(*T)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, exists := t.rows[id]
	if !exists {
		return
	}
	fn(&r.value)
	t.rows[id] = r
}

func (t *table[T]) delete(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.rows, id)
}

func (t *table[T]) deleteWhere(pred func(T) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, r := range t.rows {
		if pred(r.value) {
			delete(t.rows, id)
		}
	}
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(r.value), true
}

// filter returns matching rows, most recently inserted first.
func (t *table[T]) filter(pred func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		if pred == nil || pred(r.value) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	out := make([]T, 0, len(matched))
	for _, r := range matched {
		out = append(out, t.clone(r.value))
	}
	return out
}

// newestFirst orders by key descending; ties keep the input order, which
// filter already puts latest-inserted first.
func newestFirst[T any](list []T, key func(T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool { return key(list[i]).After(key(list[j])) })
}

func oldestFirst[T any](list []T, key func(T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool { return key(list[i]).Before(key(list[j])) })
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
