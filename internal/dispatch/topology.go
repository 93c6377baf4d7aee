package dispatch

import "github.com/planetis-m/compute-sim/internal/values"

// topology captures the per-workgroup lane layout derived from
// workGroupSize and the compile-time SubgroupSize.
type topology struct {
	size         [3]int
	threadCount  int
	subgroupSize int
	numSubgroups int
}

func newTopology(workGroupSize [3]int, subgroupSize int) topology {
	threads := workGroupSize[0] * workGroupSize[1] * workGroupSize[2]
	return topology{
		size:         workGroupSize,
		threadCount:  threads,
		subgroupSize: subgroupSize,
		numSubgroups: ceilDiv(threads, subgroupSize),
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// subgroupRange returns the half-open [lo, hi) range of thread indices
// owned by subgroup s; the tail subgroup's range is shorter than
// subgroupSize when threadCount does not divide evenly.
func (t topology) subgroupRange(s int) (lo, hi int) {
	lo = s * t.subgroupSize
	hi = lo + t.subgroupSize
	if hi > t.threadCount {
		hi = t.threadCount
	}
	return lo, hi
}

// localCoord unrolls a flat thread index into gl_LocalInvocationID's
// row-major (x, y, z) coordinates.
func (t topology) localCoord(threadID int) values.Vec3 {
	x := threadID % t.size[0]
	y := (threadID / t.size[0]) % t.size[1]
	z := threadID / (t.size[0] * t.size[1])
	return values.Vec3{X: uint32(x), Y: uint32(y), Z: uint32(z)}
}

// grid is the 3D workgroup-count space the dispatcher walks in row-major
// order.
type grid struct {
	numWorkGroups [3]int
}

func (g grid) total() int {
	return g.numWorkGroups[0] * g.numWorkGroups[1] * g.numWorkGroups[2]
}

func (g grid) coord(i int) values.Vec3 {
	nx, ny := g.numWorkGroups[0], g.numWorkGroups[1]
	x := i % nx
	y := (i / nx) % ny
	z := i / (nx * ny)
	return values.Vec3{X: uint32(x), Y: uint32(y), Z: uint32(z)}
}
