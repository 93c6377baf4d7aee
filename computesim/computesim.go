// Package computesim is the emulator's public facade: authoring a shader
// with a Builder, running it over a workgroup grid with RunCompute, and
// reading results back out of a Buffer. Everything else lives under
// internal/ — the Command/Result channel, the collective kernels, the
// lockstep scheduler, and the dispatcher are wiring details a caller
// never touches directly.
package computesim

import (
	"github.com/planetis-m/compute-sim/internal/collectives"
	"github.com/planetis-m/compute-sim/internal/config"
	"github.com/planetis-m/compute-sim/internal/dispatch"
	"github.com/planetis-m/compute-sim/internal/shader"
	"github.com/planetis-m/compute-sim/internal/storage"
)

// Re-exported authoring surface: a shader body is written entirely in
// terms of these types and functions, never against internal/shader
// directly.
type (
	Builder      = shader.Builder
	Program      = shader.Program
	Context      = shader.Context
	Cell         = shader.Cell
	BoolCell     = shader.BoolCell
	BallotCell   = shader.BallotCell
	ValueFn      = shader.ValueFn
	IndexFn      = shader.IndexFn
	BoolFn       = shader.BoolFn
	Config       = config.Config
	Buffer       = storage.Buffer
	SharedMemory = storage.SharedMemory
	DeepCopier   = storage.DeepCopier
)

var (
	ConstI32 = shader.ConstI32
	ConstU32 = shader.ConstU32
	ConstF32 = shader.ConstF32
	ConstF64 = shader.ConstF64
	LaneID   = shader.LaneID

	NewBuffer         = storage.NewBuffer
	NewBufferFromI32  = storage.NewBufferFromI32
	DefaultConfig     = config.DefaultConfig
	LoadConfig        = config.Load
)

// Empty is the zero-sized shared-memory placeholder for shaders that use
// no per-workgroup shared state.
var Empty = storage.Empty

// BallotMask is a subgroupBallot result: a u32 quadruple for API parity
// with the intrinsic's GLSL signature, though this emulator only ever
// populates word 0 (SubgroupSize > 32 is rejected by Config.Validate).
type BallotMask = collectives.BallotMask

// The subgroupInverseBallot/BallotBitCount/BallotBitExtract/
// BallotInclusiveBitCount/BallotExclusiveBitCount/BallotFindLSB/
// BallotFindMSB family: pure functions over an already-computed ballot
// mask, with no subgroup participation of their own, so a shader body
// calls them directly rather than through a Builder method.
var (
	InverseBallot            = collectives.InverseBallot
	BallotBitCount           = collectives.BallotBitCount
	BallotBitExtract         = collectives.BallotBitExtract
	BallotInclusiveBitCount  = collectives.BallotInclusiveBitCount
	BallotExclusiveBitCount  = collectives.BallotExclusiveBitCount
	BallotFindLSB            = collectives.BallotFindLSB
	BallotFindMSB            = collectives.BallotFindMSB
)

// Build records fn's shader body once, assigning every intrinsic call
// site a fresh static opID and inserting reconverge markers after every
// divergent construct. The resulting Program is immutable and safe to run
// any number of times, concurrently.
func Build(fn func(b *Builder)) (*Program, error) {
	return shader.Build(fn)
}

// RunCompute dispatches program over numWorkGroups × workGroupSize
// invocations, using cfg's SubgroupSize/MaxConcurrentWorkGroups/debug
// selectors. shared is deep-copied once per workgroup;
// ssbo is shared, unprotected storage every invocation can read and
// atomically mutate. args carries whatever per-dispatch argument bundle
// the shader body closes over.
func RunCompute(cfg Config, numWorkGroups, workGroupSize [3]int, program *Program, ssbo *Buffer, shared SharedMemory, args any) error {
	return dispatch.Run(cfg, numWorkGroups, workGroupSize, program, ssbo, shared, args)
}

// RunComputeNoShared is RunCompute for shaders that declare no
// shared-memory seed.
func RunComputeNoShared(cfg Config, numWorkGroups, workGroupSize [3]int, program *Program, ssbo *Buffer, args any) error {
	return dispatch.Run(cfg, numWorkGroups, workGroupSize, program, ssbo, storage.Empty, args)
}
