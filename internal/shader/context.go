package shader

import (
	"github.com/planetis-m/compute-sim/internal/storage"
	"github.com/planetis-m/compute-sim/internal/values"
)

// Context is one thread's private runtime state: its built-in IDs, its
// view of the two shared-memory surfaces, the caller-supplied argument
// bundle, and the cell storage backing every Cell/BoolCell/BallotCell this
// thread's invocation produces. NewInvocation constructs one Context per
// lane from the ThreadContext and WorkGroupContext the dispatcher builds.
type Context struct {
	Thread    values.ThreadContext
	WorkGroup values.WorkGroupContext

	SSBO   *storage.Buffer
	Shared storage.SharedMemory
	Args   any

	cellType []values.ValueType
	cellVal  []values.RawValue
	cellBool []bool

	loopIdx []int

	cmdCh chan values.Command
	resCh chan values.Result
}

func newContext(thread values.ThreadContext, wg values.WorkGroupContext, ssbo *storage.Buffer, shared storage.SharedMemory, args any, numCells int) *Context {
	return &Context{
		Thread:    thread,
		WorkGroup: wg,
		SSBO:      ssbo,
		Shared:    shared,
		Args:      args,
		cellType:  make([]values.ValueType, numCells),
		cellVal:   make([]values.RawValue, numCells),
		cellBool:  make([]bool, numCells),
		cmdCh:     make(chan values.Command),
		resCh:     make(chan values.Result),
	}
}

// LoopIndex returns the iteration counter of the innermost enclosing For
// loop. Calling it outside any For is a programming error and panics.
func (c *Context) LoopIndex() int {
	return c.loopIdx[len(c.loopIdx)-1]
}

func (c *Context) pushLoop(i int) { c.loopIdx = append(c.loopIdx, i) }
func (c *Context) popLoop()       { c.loopIdx = c.loopIdx[:len(c.loopIdx)-1] }

func (c *Context) setCell(id int, typ values.ValueType, val values.RawValue) {
	c.cellType[id] = typ
	c.cellVal[id] = val
}

func (c *Context) setBoolCell(id int, b bool) {
	c.cellBool[id] = b
	if b {
		c.cellVal[id] = values.RawValueFromBool(true)
	} else {
		c.cellVal[id] = values.RawValueFromBool(false)
	}
}

// ConstI32 is a ValueFn yielding a compile-time-fixed int32 constant.
func ConstI32(v int32) ValueFn {
	return func(*Context) (values.ValueType, values.RawValue) { return values.I32, values.RawValueFromI32(v) }
}

// ConstU32 is a ValueFn yielding a compile-time-fixed uint32 constant.
func ConstU32(v uint32) ValueFn {
	return func(*Context) (values.ValueType, values.RawValue) { return values.U32, values.RawValueFromU32(v) }
}

// ConstF32 is a ValueFn yielding a compile-time-fixed float32 constant.
func ConstF32(v float32) ValueFn {
	return func(*Context) (values.ValueType, values.RawValue) { return values.F32, values.RawValueFromF32(v) }
}

// ConstF64 is a ValueFn yielding a compile-time-fixed float64 constant.
func ConstF64(v float64) ValueFn {
	return func(*Context) (values.ValueType, values.RawValue) { return values.F64, values.RawValueFromF64(v) }
}

// LaneID is an IndexFn yielding the thread's subgroup-local lane index.
func LaneID(ctx *Context) uint32 { return ctx.Thread.SubgroupInvocationID }
