package routes

import (
	"sort"

	"github.com/joeydtaylor/steeze-fn/pkg/script"
)

// Route is one table entry.
type Route struct {
	Key     Key
	Handler script.Handler
	File    string // path relative to the routes root, slash separated
}

// Table maps keys to handlers. It is built by a Loader and never mutated after
// Load returns.
type Table struct {
	byKey map[Key]Route
}

func newTable() *Table {
	return &Table{byKey: make(map[Key]Route)}
}

// insert adds r, refusing a key that is already taken.
func (t *Table) insert(r Route) error {
	if prev, ok := t.byKey[r.Key]; ok {
		return &DuplicateRouteError{Key: r.Key, First: prev.File, Second: r.File}
	}
	t.byKey[r.Key] = r
	return nil
}

// Lookup finds the exact (method, path) entry. Method case is ignored.
func (t *Table) Lookup(method, path string) (Route, bool) {
	if t == nil {
		return Route{}, false
	}
	r, ok := t.byKey[NewKey(method, path)]
	return r, ok
}

// Len is the number of routes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byKey)
}

// Routes returns all entries ordered by path, then method.
func (t *Table) Routes() []Route {
	if t == nil {
		return nil
	}
	out := make([]Route, 0, len(t.byKey))
	for _, r := range t.byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.less(out[j].Key) })
	return out
}

// Keys returns all keys in Routes order.
func (t *Table) Keys() []Key {
	rs := t.Routes()
	keys := make([]Key, len(rs))
	for i, r := range rs {
		keys[i] = r.Key
	}
	return keys
}

// Release frees every handler in the table. The table must not be used for
// calls afterwards.
func (t *Table) Release(rt script.Runtime) {
	if t == nil {
		return
	}
	for _, r := range t.byKey {
		rt.Release(r.Handler)
	}
}
