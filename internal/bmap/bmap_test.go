package bmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyMap(t *testing.T) {
	m := New[int](1)
	for _, key := range []string{"", "begin"} {
		v, found := m.Get(key)
		assert.Zero(t, v)
		assert.False(t, found)
	}
	assert.Equal(t, 0, m.Len())
}

func TestEmptyKey(t *testing.T) {
	m := New[int](1)
	m.Set("end", 1)
	_, found := m.Get("")
	assert.False(t, found)

	m.Set("", 2)
	v, found := m.Get("")
	assert.True(t, found)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, m.Len())
}

func TestAdd(t *testing.T) {
	m := New[string](2)
	assert.True(t, m.Add("int", "type"))
	assert.False(t, m.Add("int", "reserved"))
	v, _ := m.Get("int")
	assert.Equal(t, "type", v)

	m.Set("int", "reserved")
	v, _ = m.Get("int")
	assert.Equal(t, "reserved", v)
	_, found := m.Get("INT")
	assert.False(t, found)
}

func TestOverflow(t *testing.T) {
	m := New[int](2)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)
	assert.PanicsWithValue(t, "bmap: too many keys", func() {
		m.Set("c", 4)
	})
	assert.False(t, m.Add("b", 5))
	assert.Equal(t, 2, m.Len())
}
