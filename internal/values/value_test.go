package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawValueRoundTrip(t *testing.T) {
	assert.Equal(t, int32(-7), RawValueFromI32(-7).I32())
	assert.Equal(t, uint32(42), RawValueFromU32(42).U32())
	assert.InDelta(t, 3.5, float64(RawValueFromF32(3.5).F32()), 1e-6)
	assert.Equal(t, 2.25, RawValueFromF64(2.25).F64())
	assert.True(t, RawValueFromBool(true).Bool())
	assert.False(t, RawValueFromBool(false).Bool())
}

func TestAsF64FromF64(t *testing.T) {
	assert.Equal(t, float64(-7), RawValueFromI32(-7).AsF64(I32))
	assert.Equal(t, float64(42), RawValueFromU32(42).AsF64(U32))
	assert.Equal(t, 1.5, FromF64(F64, 1.5).AsF64(F64))
}

func TestFromF64Narrows(t *testing.T) {
	assert.Equal(t, int32(3), FromF64(I32, 3.9).I32())
	assert.Equal(t, uint32(5), FromF64(U32, 5.1).U32())
}

func TestLaneMasks(t *testing.T) {
	eq, ge, gt, le, lt := LaneMasks(2, 4)
	assert.Equal(t, uint32(0b0100), eq)
	assert.Equal(t, uint32(0b1100), ge)
	assert.Equal(t, uint32(0b1000), gt)
	assert.Equal(t, uint32(0b0111), le)
	assert.Equal(t, uint32(0b0011), lt)
}

func TestOpPredicates(t *testing.T) {
	assert.True(t, Barrier.IsWorkgroupBarrier())
	assert.False(t, SubgroupBarrier.IsWorkgroupBarrier())
	assert.True(t, SubgroupBarrier.IsBarrier())
	assert.True(t, MemoryBarrier.IsMemoryFence())
	assert.False(t, Barrier.IsMemoryFence())
	assert.True(t, Ballot.IsBoolPayload())
	assert.False(t, Add.IsBoolPayload())
}
