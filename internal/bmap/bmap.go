// Package bmap implements a small fixed-capacity string map.
// Lexer uses it to look up reserved words.
package bmap

// BMap maps keys to values. Keys cannot be deleted and the number of non-empty keys
// is limited by the size given to New.
type BMap[T any] struct {
	size  int
	index map[string]T
}

// New creates map holding at most size non-empty keys.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{
		size:  size,
		index: make(map[string]T, size),
	}
}

func (m *BMap[T]) Get(key string) (T, bool) {
	v, found := m.index[key]
	return v, found
}

// Set stores value, replacing existing one. Panics if a new key exceeds map size.
func (m *BMap[T]) Set(key string, value T) {
	if _, found := m.index[key]; !found && key != "" && m.Len() >= m.size {
		panic("bmap: too many keys")
	}
	m.index[key] = value
}

// Add stores value only if key is not present yet, returns false otherwise.
func (m *BMap[T]) Add(key string, value T) bool {
	if _, found := m.index[key]; found {
		return false
	}
	m.Set(key, value)
	return true
}

// Len returns the number of non-empty keys.
func (m *BMap[T]) Len() int {
	n := len(m.index)
	if _, found := m.index[""]; found {
		n--
	}
	return n
}
