// Package queue implements a growable ring buffer used as parser input cursor and semantic batch accumulator.
package queue

const minSize = 3

// Queue is a FIFO queue. Capacity is always 2^n.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	zero       T
}

// New creates a queue holding a copy of items.
func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{}
	q.fill(items)
	return q
}

func (q *Queue[T]) fill(items []T) {
	l := len(items)
	q.head = 0
	q.tail = l
	q.size = computeSize(l)
	q.items = make([]T, q.size+1)
	copy(q.items, items)
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns queued items from head to tail. The result may share memory with the queue.
func (q *Queue[T]) Items() []T {
	if q.tail >= q.head {
		return q.items[q.head:q.tail]
	}

	res := make([]T, q.Len())
	copy(res, q.items[q.head:q.size+1])
	copy(res[q.size-q.head+1:], q.items[:q.tail])
	return res
}

func (q *Queue[T]) Append(item T) *Queue[T] {
	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.size
	if q.tail == q.head {
		q.grow()
	}
	return q
}

// Peek returns the head item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}
	return q.items[q.head], true
}

// First removes and returns the head item.
func (q *Queue[T]) First() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return res, true
}

// Drain removes and returns all items.
func (q *Queue[T]) Drain() []T {
	res := append([]T(nil), q.Items()...)
	q.fill(nil)
	return res
}

// Reset replaces queue content with a copy of items.
func (q *Queue[T]) Reset(items ...T) {
	q.fill(items)
}

func computeSize(length int) (size int) {
	if length <= minSize {
		size = minSize
	} else {
		length |= length >> 1
		length |= length >> 2
		length |= length >> 4
		length |= length >> 8
		size = length | length>>16
	}
	return
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[0:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size = q.size + q.tail
	q.items = items
}
