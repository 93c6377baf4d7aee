package values

// Vec3 is a 3-component unsigned coordinate, used for every gl_* built-in
// ID that GLSL models as a uvec3.
type Vec3 struct {
	X, Y, Z uint32
}

// WorkGroupContext is immutable within a subgroup: the built-ins that are
// the same for every invocation in the workgroup.
type WorkGroupContext struct {
	NumWorkGroups  Vec3
	WorkGroupSize  Vec3
	WorkGroupID    Vec3
	NumSubgroups   uint32
	SubgroupID     uint32
}

// ThreadContext is per-invocation: the built-ins that differ between
// invocations of the same workgroup.
type ThreadContext struct {
	GlobalInvocationID    Vec3
	LocalInvocationID     Vec3
	SubgroupInvocationID  uint32

	// Precomputed lane masks, low 32 bits only: SubgroupSize is rejected
	// above 32, so only the low word is ever meaningful.
	SubgroupEqMask uint32
	SubgroupGeMask uint32
	SubgroupGtMask uint32
	SubgroupLeMask uint32
	SubgroupLtMask uint32
}

// LaneMasks computes the five precomputed lane masks for a lane at the
// given index within a subgroup of the given size.
func LaneMasks(lane, subgroupSize int) (eq, ge, gt, le, lt uint32) {
	for i := 0; i < subgroupSize; i++ {
		bit := uint32(1) << uint(i)
		switch {
		case i == lane:
			eq |= bit
		case i > lane:
			gt |= bit
		case i < lane:
			lt |= bit
		}
	}
	ge = eq | gt
	le = eq | lt
	return
}
