package shader

import (
	"github.com/planetis-m/compute-sim/internal/collectives"
	"github.com/planetis-m/compute-sim/internal/values"
)

// Cell names a slot holding a scalar result produced by an earlier call in
// the same shader body — the SSA-like value a later ValueFn/IndexFn reads
// back via Load. Cells are positional, not typed at build time: the type
// tag travels with the stored RawValue.
type Cell struct{ id int }

// Load returns the cell's value and type. Calling Load before the cell's
// producing call has run for this thread returns the zero ValueType and
// RawValue; no check is made.
func (c Cell) Load(ctx *Context) (values.ValueType, values.RawValue) {
	return ctx.cellType[c.id], ctx.cellVal[c.id]
}

// I32 loads the cell narrowed to int32.
func (c Cell) I32(ctx *Context) int32 { return ctx.cellVal[c.id].I32() }

// U32 loads the cell narrowed to uint32.
func (c Cell) U32(ctx *Context) uint32 { return ctx.cellVal[c.id].U32() }

// F32 loads the cell narrowed to float32.
func (c Cell) F32(ctx *Context) float32 { return ctx.cellVal[c.id].F32() }

// F64 loads the cell narrowed to float64.
func (c Cell) F64(ctx *Context) float64 { return ctx.cellVal[c.id].F64() }

// BoolCell names a slot holding a boolean-payload result (subgroupAll,
// subgroupAny, subgroupElect, subgroupAllEqual).
type BoolCell struct{ id int }

// Load returns the cell's boolean value.
func (c BoolCell) Load(ctx *Context) bool { return ctx.cellBool[c.id] }

// BallotCell names a slot holding a subgroupBallot result.
type BallotCell struct{ id int }

// Load returns the cell's ballot mask, packed into word 0.
func (c BallotCell) Load(ctx *Context) uint32 { return ctx.cellVal[c.id].U32() }

// LoadMask returns the cell's ballot result as the u32-quadruple shape the
// ballot pure functions (BallotBitCount, BallotFindLSB, ...) take, for API
// parity with the GLSL intrinsic signature. Only word 0 is ever populated.
func (c BallotCell) LoadMask(ctx *Context) collectives.BallotMask {
	return collectives.BallotMask{ctx.cellVal[c.id].U32(), 0, 0, 0}
}
