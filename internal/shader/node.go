// Package shader implements the build-time shader transform: a Builder
// records a shader body once, in source order, assigning each intrinsic
// call site a fresh static opID and inserting reconverge markers after
// every divergent construct — then NewInvocation drives one goroutine per
// thread over the resulting Program, suspending at every call node
// exactly as a real cooperative thread closure would.
package shader

import "github.com/planetis-m/compute-sim/internal/values"

type nodeKind uint8

const (
	nBlock nodeKind = iota
	nCall
	nIf
	nSwitch
	nFor
	nContinue
	nReconverge
)

// ValueFn produces a scalar value for a thread at runtime: a constant, a
// built-in ID, or an arbitrary expression over earlier Cells.
type ValueFn func(*Context) (values.ValueType, values.RawValue)

// IndexFn produces the second (id/mask/delta) argument of a binary
// collective.
type IndexFn func(*Context) uint32

// BoolFn produces a boolean condition or payload.
type BoolFn func(*Context) bool

// node is one IR node. Only the fields relevant to its kind are set.
type node struct {
	kind nodeKind

	// nCall
	op      values.Op
	opID    int64
	cellID  int
	valueFn ValueFn
	auxFn   IndexFn
	condFn  BoolFn

	// nBlock
	children []*node

	// nIf
	cond BoolFn
	then *node
	els  *node

	// nSwitch
	selector func(*Context) int
	cases    []*node

	// nFor
	count func(*Context) int
	body  *node
}

// Program is a built, immutable shader IR tree shared by every invocation.
type Program struct {
	root *node
}
