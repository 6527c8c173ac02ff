// Package ordered provides an insertion-ordered string-keyed map used for
// token claims and principal parameters.
package ordered

import "iter"

// Map keeps keys in first-insertion order. Setting an existing key replaces
// its value in place. The zero value is ready to use. A Map is not safe for
// concurrent mutation.
type Map[V any] struct {
	keys  []string
	vals  []V
	index map[string]int
}

// New returns an empty map with room for capacity entries.
func New[V any](capacity int) *Map[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Map[V]{
		keys:  make([]string, 0, capacity),
		vals:  make([]V, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

// Set stores value under key.
func (m *Map[V]) Set(key string, value V) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil || m.index == nil {
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		return zero, false
	}
	return m.vals[i], true
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All yields entries in order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy. Values are not deep-copied.
func (m *Map[V]) Clone() *Map[V] {
	out := New[V](m.Len())
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}
