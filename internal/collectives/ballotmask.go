package collectives

import "math/bits"

// BallotMask is the u32-quadruple a subgroupBallot result is exposed as at
// the shader-facing API; this emulator only ever populates the low word,
// since SubgroupSize > 32 is rejected and higher lanes are never
// meaningful.
type BallotMask [4]uint32

// InverseBallot returns the boolean this lane contributed to a ballot.
func InverseBallot(mask BallotMask, lane int) bool {
	return mask[0]&(1<<uint(lane)) != 0
}

// BallotBitCount returns the number of set bits in the mask.
func BallotBitCount(mask BallotMask) uint32 {
	return uint32(bits.OnesCount32(mask[0]))
}

// BallotBitExtract returns the bit at lane.
func BallotBitExtract(mask BallotMask, lane int) bool {
	return InverseBallot(mask, lane)
}

// BallotInclusiveBitCount returns the number of set bits at or below lane.
func BallotInclusiveBitCount(mask BallotMask, lane int) uint32 {
	if lane < 0 {
		return 0
	}
	if lane >= 31 {
		return uint32(bits.OnesCount32(mask[0]))
	}
	return uint32(bits.OnesCount32(mask[0] & (1<<uint(lane+1) - 1)))
}

// BallotExclusiveBitCount returns the number of set bits strictly below lane.
func BallotExclusiveBitCount(mask BallotMask, lane int) uint32 {
	if lane <= 0 {
		return 0
	}
	return BallotInclusiveBitCount(mask, lane-1)
}

// BallotFindLSB returns the index of the lowest set bit, or -1 if the mask
// is zero.
func BallotFindLSB(mask BallotMask) int {
	if mask[0] == 0 {
		return -1
	}
	return bits.TrailingZeros32(mask[0])
}

// BallotFindMSB returns the index of the highest set bit, or -1 if the
// mask is zero.
func BallotFindMSB(mask BallotMask) int {
	if mask[0] == 0 {
		return -1
	}
	return 31 - bits.LeadingZeros32(mask[0])
}
