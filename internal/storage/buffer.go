// Package storage implements the two shared-memory surfaces a dispatch
// exposes to shader invocations: the storage buffer (ssbo) with its
// sequentially-consistent atomics, and the per-workgroup shared-memory
// seed with its deep-copy-per-slot semantics.
package storage

import "sync/atomic"

// Buffer is the ssbo: a flat array of 32-bit words shared by every thread
// in a dispatch. Every word is an atomic.Uint32, so plain Load/Store are
// single-word atomic loads and stores with no read-modify-write; the
// Atomic* methods are sequentially consistent read-modify-write
// operations, mapping directly onto sync/atomic's typed atomics — GLSL
// atomics are seq-cst, and this emulator does not weaken that.
type Buffer struct {
	words []atomic.Uint32
}

// NewBuffer allocates a Buffer with n words, all zero.
func NewBuffer(n int) *Buffer {
	return &Buffer{words: make([]atomic.Uint32, n)}
}

// NewBufferFromI32 allocates a Buffer preloaded with data.
func NewBufferFromI32(data []int32) *Buffer {
	b := NewBuffer(len(data))
	for i, v := range data {
		b.words[i].Store(uint32(v))
	}
	return b
}

// Len returns the number of words in the buffer.
func (b *Buffer) Len() int { return len(b.words) }

// LoadI32 reads the word at index i as int32 (an atomic load).
func (b *Buffer) LoadI32(i int) int32 { return int32(b.words[i].Load()) }

// LoadU32 reads the word at index i as uint32 (an atomic load).
func (b *Buffer) LoadU32(i int) uint32 { return b.words[i].Load() }

// StoreI32 writes v at index i (an atomic store).
func (b *Buffer) StoreI32(i int, v int32) { b.words[i].Store(uint32(v)) }

// StoreU32 writes v at index i (an atomic store).
func (b *Buffer) StoreU32(i int, v uint32) { b.words[i].Store(v) }

// AtomicAddI32 atomically adds delta to the word at i and returns the
// prior value, sequentially consistent.
func (b *Buffer) AtomicAddI32(i int, delta int32) int32 {
	return int32(b.words[i].Add(uint32(delta)) - uint32(delta))
}

// AtomicAddU32 is the uint32 counterpart of AtomicAddI32.
func (b *Buffer) AtomicAddU32(i int, delta uint32) uint32 {
	return b.words[i].Add(delta) - delta
}

// AtomicAndU32 atomically ANDs mask into the word at i, returning the
// prior value.
func (b *Buffer) AtomicAndU32(i int, mask uint32) uint32 {
	for {
		old := b.words[i].Load()
		if b.words[i].CompareAndSwap(old, old&mask) {
			return old
		}
	}
}

// AtomicOrU32 atomically ORs mask into the word at i, returning the prior
// value.
func (b *Buffer) AtomicOrU32(i int, mask uint32) uint32 {
	for {
		old := b.words[i].Load()
		if b.words[i].CompareAndSwap(old, old|mask) {
			return old
		}
	}
}

// AtomicXorU32 atomically XORs mask into the word at i, returning the
// prior value.
func (b *Buffer) AtomicXorU32(i int, mask uint32) uint32 {
	for {
		old := b.words[i].Load()
		if b.words[i].CompareAndSwap(old, old^mask) {
			return old
		}
	}
}

// AtomicExchangeU32 atomically stores v at i, returning the prior value.
func (b *Buffer) AtomicExchangeU32(i int, v uint32) uint32 {
	return b.words[i].Swap(v)
}

// AtomicCompareExchangeU32 performs a sequentially consistent CAS,
// returning the value observed at i (the new value if the swap
// succeeded, otherwise the value that caused it to fail).
func (b *Buffer) AtomicCompareExchangeU32(i int, compare, value uint32) uint32 {
	for {
		old := b.words[i].Load()
		if old != compare {
			return old
		}
		if b.words[i].CompareAndSwap(old, value) {
			return value
		}
	}
}

// Fence issues the emulator's best-effort process-wide memory fence for
// memoryBarrier/groupMemoryBarrier commands; real GPU memory ordering is
// not modelled. Go has no direct atomic_thread_fence equivalent; a CAS
// round-trip on a shared word gives every other thread's next load a
// synchronizes-with edge.
var fenceWord atomic.Uint64

func Fence() {
	for {
		old := fenceWord.Load()
		if fenceWord.CompareAndSwap(old, old+1) {
			return
		}
	}
}
