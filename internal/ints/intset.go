// Package ints implements sets of small non-negative integers, such as grammar symbol indexes.
package ints

import (
	"math/bits"
)

const wordBits = 64

// Set is a bit set. Negative items are never members: Add and Remove ignore them.
// Zero value is an empty set.
type Set struct {
	words []uint64
}

func NewSet(items ...int) *Set {
	return new(Set).Add(items...)
}

func split(item int) (word int, mask uint64) {
	return item / wordBits, uint64(1) << (uint(item) % wordBits)
}

func (s *Set) grow(n int) {
	if n > len(s.words) {
		s.words = append(s.words, make([]uint64, n-len(s.words))...)
	}
}

// Add adds items and returns s.
func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}
		w, m := split(item)
		s.grow(w + 1)
		s.words[w] |= m
	}
	return s
}

// Remove removes items and returns s.
func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}
		if w, m := split(item); w < len(s.words) {
			s.words[w] &^= m
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 {
		return false
	}
	w, m := split(item)
	return w < len(s.words) && s.words[w]&m != 0
}

// AddSet adds all items of t, returns true if s has changed.
func (s *Set) AddSet(t *Set) bool {
	s.grow(len(t.words))
	changed := false
	for i, w := range t.words {
		if s.words[i]|w != s.words[i] {
			s.words[i] |= w
			changed = true
		}
	}
	return changed
}

// Union adds all items of t and returns s.
func (s *Set) Union(t *Set) *Set {
	s.AddSet(t)
	return s
}

func (s *Set) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s *Set) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Each calls f for every item in ascending order.
func (s *Set) Each(f func(item int)) {
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			f(i*wordBits + b)
			w &= w - 1
		}
	}
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	res := make([]int, 0, s.Len())
	s.Each(func(item int) {
		res = append(res, item)
	})
	return res
}

func (s *Set) Copy() *Set {
	return &Set{append([]uint64(nil), s.words...)}
}

// Equal reports whether both sets have the same items.
func (s *Set) Equal(t *Set) bool {
	a, b := s.words, t.words
	if len(a) < len(b) {
		a, b = b, a
	}
	for i, w := range a {
		if i < len(b) {
			if w != b[i] {
				return false
			}
		} else if w != 0 {
			return false
		}
	}
	return true
}
