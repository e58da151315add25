package arena

import (
	"errors"
	"fmt"
)

// DefaultArenaSize is the pool size of an arena built with NewDefault.
const DefaultArenaSize = 2048

// ErrArenaFull reports that the pool has no room left for the requested
// allocation and no freed block of that size is available.
var ErrArenaFull = errors.New("arena is full")

// Arena hands out fixed-size byte buffers from one pre-allocated pool.
// Freed buffers are zeroed and kept on a free list keyed by their size, so
// a later Alloc of the same size reuses them instead of growing the pool.
// An Arena is not safe for concurrent use.
type Arena struct {
	pool []byte
	next int
	free map[int][][]byte
}

// New returns an arena owning a zeroed pool of the given size.
func New(size int) *Arena {
	return &Arena{
		pool: make([]byte, size),
		free: make(map[int][][]byte),
	}
}

// NewDefault returns an arena with the default pool size.
func NewDefault() *Arena {
	return New(DefaultArenaSize)
}

// Alloc returns a zeroed buffer of exactly size bytes. A freed buffer of the
// same size is reused when one exists; otherwise the buffer is carved off the
// pool. The returned slice has no spare capacity, so appends cannot reach
// into neighboring allocations.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("allocation size must be positive, got %d", size)
	}

	if blocks := a.free[size]; len(blocks) > 0 {
		block := blocks[len(blocks)-1]
		a.free[size] = blocks[:len(blocks)-1]
		return block, nil
	}

	if a.next+size > len(a.pool) {
		return nil, fmt.Errorf("cannot allocate %d bytes with %d remaining: %w", size, len(a.pool)-a.next, ErrArenaFull)
	}

	block := a.pool[a.next : a.next+size : a.next+size]
	a.next += size
	return block, nil
}

// Free zeroes the buffer and returns it to the free list. The buffer must
// have come from Alloc on this arena and must not be used afterwards.
func (a *Arena) Free(block []byte) {
	if len(block) == 0 {
		return
	}
	clear(block)
	a.free[len(block)] = append(a.free[len(block)], block)
}

// Reset zeroes the pool and forgets every allocation, freed or live.
func (a *Arena) Reset() {
	clear(a.pool[:a.next])
	a.next = 0
	a.free = make(map[int][][]byte)
}

// Size returns the pool size.
func (a *Arena) Size() int {
	return len(a.pool)
}

// Remaining returns how many bytes of the pool have never been handed out.
// Freed buffers do not count towards it; they are only visible to an Alloc
// of their exact size.
func (a *Arena) Remaining() int {
	return len(a.pool) - a.next
}
