// Package arena provides generational handles into typed slabs. A Handle is a
// non-owning reference: once its slot is freed the handle resolves to nothing,
// so holders never observe a recycled slot.
package arena

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. The zero Handle never refers to a live value.
type Handle uint64

// None is the zero Handle.
const None Handle = 0

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index.
func (h Handle) Index() uint32 { return uint32(h) }

// Generation returns the slot generation the handle was issued for.
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// IsNone reports whether h is the zero Handle.
func (h Handle) IsNone() bool { return h == None }

type slot[T any] struct {
	generation uint32
	live       bool
	value      T
}

// Slab stores values of T addressed by generational handles with a free list.
// It is not safe for concurrent use; the simulation owns it on a single goroutine.
type Slab[T any] struct {
	slots    []slot[T]
	freeList []uint32
	live     int
}

// NewSlab creates an empty Slab with room for capacity values before growing.
func NewSlab[T any](capacity int) *Slab[T] {
	return &Slab[T]{
		slots:    make([]slot[T], 0, capacity),
		freeList: make([]uint32, 0, capacity/4),
	}
}

// Insert stores v and returns its handle.
//
// Postcondition: Get(returned) returns (v, true) until Remove is called.
func (s *Slab[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(s.freeList); n > 0 {
		idx = s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
	} else {
		idx = uint32(len(s.slots))
		// generation starts at 1 so that no live handle equals None.
		s.slots = append(s.slots, slot[T]{generation: 1})
	}
	sl := &s.slots[idx]
	sl.live = true
	sl.value = v
	s.live++
	return newHandle(idx, sl.generation)
}

// Alive reports whether h refers to a value currently stored in the slab.
func (s *Slab[T]) Alive(h Handle) bool {
	if h.IsNone() {
		return false
	}
	idx := h.Index()
	if int(idx) >= len(s.slots) {
		return false
	}
	sl := &s.slots[idx]
	return sl.live && sl.generation == h.Generation()
}

// Get returns the value for h.
//
// Postcondition: Returns (zero, false) for None, stale, or foreign handles.
func (s *Slab[T]) Get(h Handle) (T, bool) {
	if !s.Alive(h) {
		var zero T
		return zero, false
	}
	return s.slots[h.Index()].value, true
}

// Remove frees the slot for h and invalidates every copy of h.
// Removing a stale handle is a no-op and returns false.
func (s *Slab[T]) Remove(h Handle) bool {
	if !s.Alive(h) {
		return false
	}
	idx := h.Index()
	sl := &s.slots[idx]
	var zero T
	sl.value = zero
	sl.live = false
	sl.generation++
	if sl.generation == 0 {
		sl.generation = 1
	}
	s.freeList = append(s.freeList, idx)
	s.live--
	return true
}

// Len returns the number of live values.
func (s *Slab[T]) Len() int { return s.live }

// Each calls fn for every live value in slot order.
// fn may remove the value it is visiting, but must not insert.
func (s *Slab[T]) Each(fn func(Handle, T)) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.live {
			continue
		}
		fn(newHandle(uint32(i), sl.generation), sl.value)
	}
}

// Handles returns a snapshot of every live handle in slot order.
func (s *Slab[T]) Handles() []Handle {
	out := make([]Handle, 0, s.live)
	s.Each(func(h Handle, _ T) { out = append(out, h) })
	return out
}
