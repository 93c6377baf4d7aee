package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLoadStore(t *testing.T) {
	b := NewBufferFromI32([]int32{1, 2, 3})
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, int32(2), b.LoadI32(1))
	b.StoreI32(1, 99)
	assert.Equal(t, int32(99), b.LoadI32(1))
}

func TestAtomicAddIsSequentiallyConsistentUnderContention(t *testing.T) {
	b := NewBuffer(1)
	var wg sync.WaitGroup
	const goroutines, perGoroutine = 50, 100
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				b.AtomicAddU32(0, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(goroutines*perGoroutine), b.LoadU32(0))
}

func TestAtomicCompareExchange(t *testing.T) {
	b := NewBuffer(1)
	b.StoreU32(0, 5)

	got := b.AtomicCompareExchangeU32(0, 5, 7)
	assert.Equal(t, uint32(7), got)
	assert.Equal(t, uint32(7), b.LoadU32(0))

	got = b.AtomicCompareExchangeU32(0, 5, 9)
	assert.Equal(t, uint32(7), got) // compare failed: returns observed value, unchanged
	assert.Equal(t, uint32(7), b.LoadU32(0))
}

func TestAtomicBitwiseOps(t *testing.T) {
	b := NewBuffer(1)
	b.StoreU32(0, 0b1100)
	b.AtomicAndU32(0, 0b1010)
	assert.Equal(t, uint32(0b1000), b.LoadU32(0))
	b.AtomicOrU32(0, 0b0001)
	assert.Equal(t, uint32(0b1001), b.LoadU32(0))
	b.AtomicXorU32(0, 0b1111)
	assert.Equal(t, uint32(0b0110), b.LoadU32(0))
}

func TestFenceDoesNotPanic(t *testing.T) {
	Fence()
	Fence()
}
