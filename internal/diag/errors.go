// Package diag defines the emulator's closed set of fatal error kinds and
// the debug-trace logger used by the scheduler's selector-gated tracing.
package diag

import (
	"fmt"

	"github.com/planetis-m/compute-sim/internal/values"
)

// ConfigError reports a build-time configuration problem: SubgroupSize
// out of [1, 32], or a worker pool sized below what the configured
// concurrency needs.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("computesim: config error: %s", e.Reason)
}

// ShaderStructureError reports a build-time shader transform problem: a
// nested shader definition. Wrong-arity intrinsic calls never reach the
// builder: every intrinsic is a typed Builder method, so the Go compiler
// rejects them.
type ShaderStructureError struct {
	Reason string
}

func (e *ShaderStructureError) Error() string {
	return fmt.Sprintf("computesim: shader structure error: %s", e.Reason)
}

// Location pinpoints the workgroup/subgroup a runtime error occurred in,
// carried by every runtime diagnostic so a caller can report exactly
// which invocation failed.
type Location struct {
	WorkGroupID values.Vec3
	SubgroupID  uint32
}

// NewLocation builds a Location from raw coordinates.
func NewLocation(wgX, wgY, wgZ, subgroupID uint32) Location {
	return Location{WorkGroupID: values.Vec3{X: wgX, Y: wgY, Z: wgZ}, SubgroupID: subgroupID}
}

func (l Location) String() string {
	return fmt.Sprintf("workgroup=(%d,%d,%d) subgroup=%d", l.WorkGroupID.X, l.WorkGroupID.Y, l.WorkGroupID.Z, l.SubgroupID)
}

// NonUniformBarrier reports that two atBarrier threads in the same
// workgroup disagreed on the barrier's OpID.
type NonUniformBarrier struct {
	Location
	OpIDs []int64
}

func (e *NonUniformBarrier) Error() string {
	return fmt.Sprintf("computesim: non-uniform barrier at %s: conflicting opIDs %v", e.Location, e.OpIDs)
}

// Deadlock reports that an outer scheduler tick made no progress while
// threads remained non-finished.
type Deadlock struct {
	Location
	BarrierCount int
	NumActive    int
}

func (e *Deadlock) Error() string {
	return fmt.Sprintf("computesim: deadlock at %s: barrierCount=%d numActive=%d", e.Location, e.BarrierCount, e.NumActive)
}

// InvalidOpResult reports that a Result's Op did not match the Command it
// answers — a transform/runtime mismatch.
type InvalidOpResult struct {
	Location
	Want, Got string
}

func (e *InvalidOpResult) Error() string {
	return fmt.Sprintf("computesim: invalid subgroup operation at %s: want %s, got %s", e.Location, e.Want, e.Got)
}
