package core

import "iter"

// Handle identifies an element stored in an Arena. A handle becomes stale once
// its element is removed; stale handles are rejected by Get and Remove.
type Handle struct {
	index int
	gen   uint32
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena is an ordered collection with O(1) insertion and removal. Removed slots
// are recycled through a free list, so elements never move once inserted and
// iteration visits live elements in slot order.
type Arena[T any] struct {
	slots []slot[T]
	free  []int
	live  int
}

// NewArena creates an arena with room for capacity elements.
func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots: make([]slot[T], 0, capacity),
		free:  make([]int, 0, capacity),
	}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.live = true
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{value: v, live: true})
	return Handle{index: len(a.slots) - 1}
}

// Get returns a pointer to the element for h, or nil if h is stale.
func (a *Arena[T]) Get(h Handle) *T {
	if !a.valid(h) {
		return nil
	}
	return &a.slots[h.index].value
}

// Remove deletes the element for h. It returns false if h is stale.
func (a *Arena[T]) Remove(h Handle) bool {
	if !a.valid(h) {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of live elements.
func (a *Arena[T]) Len() int {
	return a.live
}

// Clear removes every element. Outstanding handles become stale.
func (a *Arena[T]) Clear() {
	var zero T
	a.free = a.free[:0]
	for i := len(a.slots) - 1; i >= 0; i-- {
		s := &a.slots[i]
		s.value = zero
		s.live = false
		s.gen++
		a.free = append(a.free, i)
	}
	a.live = 0
}

// All iterates live elements in slot order. Removing the element currently
// being visited is allowed.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.live {
				continue
			}
			if !yield(Handle{index: i, gen: s.gen}, &s.value) {
				return
			}
		}
	}
}

// Values returns a copy of the live elements in slot order.
func (a *Arena[T]) Values() []T {
	out := make([]T, 0, a.live)
	for _, v := range a.All() {
		out = append(out, *v)
	}
	return out
}

func (a *Arena[T]) valid(h Handle) bool {
	return h.index >= 0 && h.index < len(a.slots) &&
		a.slots[h.index].live && a.slots[h.index].gen == h.gen
}
