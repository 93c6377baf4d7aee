package collectives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBallotMaskAccessors(t *testing.T) {
	mask := BallotMask{0b0000_1011}

	assert.True(t, InverseBallot(mask, 0))
	assert.True(t, InverseBallot(mask, 1))
	assert.False(t, InverseBallot(mask, 2))
	assert.True(t, InverseBallot(mask, 3))

	assert.Equal(t, uint32(3), BallotBitCount(mask))
	assert.Equal(t, uint32(2), BallotInclusiveBitCount(mask, 1))
	assert.Equal(t, uint32(1), BallotExclusiveBitCount(mask, 1))
	assert.Equal(t, 0, BallotFindLSB(mask))
	assert.Equal(t, 3, BallotFindMSB(mask))
}

func TestBallotMaskEmpty(t *testing.T) {
	var mask BallotMask
	assert.Equal(t, uint32(0), BallotBitCount(mask))
	assert.Equal(t, -1, BallotFindLSB(mask))
	assert.Equal(t, -1, BallotFindMSB(mask))
}
