package shader

import (
	"github.com/planetis-m/compute-sim/internal/diag"
	"github.com/planetis-m/compute-sim/internal/values"
)

// counters are shared by a Builder and every sub-Builder spawned for a
// branch/loop body, so opIDs and cell IDs stay globally monotonic and in
// the same source order the user's Build function runs in.
type counters struct {
	opID int64
	cell int
}

// Builder assembles a shader's IR tree. A Builder instance always appends
// to one particular block (cur); If/Switch/For spawn sub-Builders bound to
// fresh child blocks but sharing the parent's counters.
type Builder struct {
	cur *node
	c   *counters
}

var buildDepth int

// Build runs fn once against a fresh Builder, producing a Program whose
// opIDs were assigned in the exact order fn's builder calls ran (except a
// For loop's top-of-iteration reconverge, numbered after its body): fresh,
// static, deterministic, and numeric, realized without parsing source
// text.
func Build(fn func(b *Builder)) (*Program, error) {
	buildDepth++
	defer func() { buildDepth-- }()
	if buildDepth > 1 {
		return nil, &diag.ShaderStructureError{Reason: "nested shader definition: Build called while already building a shader"}
	}

	root := &node{kind: nBlock}
	b := &Builder{cur: root, c: &counters{}}
	fn(b)
	optimizeBlock(root)
	return &Program{root: root}, nil
}

func (b *Builder) freshOpID() int64 {
	id := b.c.opID
	b.c.opID++
	return id
}

func (b *Builder) freshCell() int {
	id := b.c.cell
	b.c.cell++
	return id
}

func (b *Builder) append(n *node) { b.cur.children = append(b.cur.children, n) }

func (b *Builder) sub(blk *node) *Builder { return &Builder{cur: blk, c: b.c} }

// If runs then when cond is true for a thread; no else branch.
func (b *Builder) If(cond BoolFn, then func(*Builder)) {
	b.IfElse(cond, then, nil)
}

// IfElse runs then or els depending on cond, per thread, and appends a
// reconverge marker after the construct.
func (b *Builder) IfElse(cond BoolFn, then, els func(*Builder)) {
	n := &node{kind: nIf, cond: cond}

	thenBlk := &node{kind: nBlock}
	then(b.sub(thenBlk))
	n.then = thenBlk

	if els != nil {
		elsBlk := &node{kind: nBlock}
		els(b.sub(elsBlk))
		n.els = elsBlk
	}

	b.append(n)
	b.append(&node{kind: nReconverge, opID: b.freshOpID()})
}

// Switch runs the case selected by selector; a selector outside
// [0, len(cases)) runs no case. Appends a reconverge after, as If does.
func (b *Builder) Switch(selector func(*Context) int, cases ...func(*Builder)) {
	n := &node{kind: nSwitch, selector: selector}
	n.cases = make([]*node, len(cases))
	for i, fn := range cases {
		blk := &node{kind: nBlock}
		fn(b.sub(blk))
		n.cases[i] = blk
	}
	b.append(n)
	b.append(&node{kind: nReconverge, opID: b.freshOpID()})
}

// For runs body count(ctx) times per thread (the trip count is evaluated
// once, at loop entry, per thread). A reconverge marker is emitted at the
// top of every iteration (so threads that Continue catch up with threads
// that ran the full body) and again after the loop. The top-of-iteration
// marker is numbered after every site in the body, so a thread that
// continued waits there until the rest of its group has finished the
// iteration.
func (b *Builder) For(count func(*Context) int, body func(*Builder)) {
	n := &node{kind: nFor, count: count}

	bodyBlk := &node{kind: nBlock}
	top := &node{kind: nReconverge}
	bodyBlk.children = append(bodyBlk.children, top)
	body(b.sub(bodyBlk))
	top.opID = b.freshOpID()
	n.body = bodyBlk

	b.append(n)
	b.append(&node{kind: nReconverge, opID: b.freshOpID()})
}

// Continue ends the current loop iteration early for this thread, jumping
// straight to the next iteration's top-of-loop reconverge (or, on the
// last iteration, to the after-loop reconverge).
func (b *Builder) Continue() { b.append(&node{kind: nContinue}) }

func (b *Builder) scalarUnary(op values.Op, v ValueFn) Cell {
	cell := b.freshCell()
	b.append(&node{kind: nCall, op: op, opID: b.freshOpID(), valueFn: v, cellID: cell})
	return Cell{id: cell}
}

func (b *Builder) scalarBinary(op values.Op, v ValueFn, aux IndexFn) Cell {
	cell := b.freshCell()
	b.append(&node{kind: nCall, op: op, opID: b.freshOpID(), valueFn: v, auxFn: aux, cellID: cell})
	return Cell{id: cell}
}

func (b *Builder) boolUnary(op values.Op, cond BoolFn) BoolCell {
	cell := b.freshCell()
	b.append(&node{kind: nCall, op: op, opID: b.freshOpID(), condFn: cond, cellID: cell})
	return BoolCell{id: cell}
}

func (b *Builder) syncOnly(op values.Op) {
	b.append(&node{kind: nCall, op: op, opID: b.freshOpID()})
}

// SubgroupBroadcast returns v from the lane named by id.
func (b *Builder) SubgroupBroadcast(v ValueFn, id IndexFn) Cell { return b.scalarBinary(values.Broadcast, v, id) }

// SubgroupBroadcastFirst returns v from the convergence group's lowest
// active lane.
func (b *Builder) SubgroupBroadcastFirst(v ValueFn) Cell { return b.scalarUnary(values.BroadcastFirst, v) }

// SubgroupAdd reduces v with addition across the convergence group.
func (b *Builder) SubgroupAdd(v ValueFn) Cell { return b.scalarUnary(values.Add, v) }

// SubgroupMin reduces v with min across the convergence group.
func (b *Builder) SubgroupMin(v ValueFn) Cell { return b.scalarUnary(values.Min, v) }

// SubgroupMax reduces v with max across the convergence group.
func (b *Builder) SubgroupMax(v ValueFn) Cell { return b.scalarUnary(values.Max, v) }

// SubgroupInclusiveAdd computes an inclusive prefix sum of v.
func (b *Builder) SubgroupInclusiveAdd(v ValueFn) Cell { return b.scalarUnary(values.InclusiveAdd, v) }

// SubgroupExclusiveAdd computes an exclusive prefix sum of v.
func (b *Builder) SubgroupExclusiveAdd(v ValueFn) Cell { return b.scalarUnary(values.ExclusiveAdd, v) }

// SubgroupShuffle returns v from the lane named by id.
func (b *Builder) SubgroupShuffle(v ValueFn, id IndexFn) Cell { return b.scalarBinary(values.Shuffle, v, id) }

// SubgroupShuffleXor returns v from lane (self XOR mask).
func (b *Builder) SubgroupShuffleXor(v ValueFn, mask IndexFn) Cell {
	return b.scalarBinary(values.ShuffleXor, v, mask)
}

// SubgroupShuffleDown returns v from lane (self + delta).
func (b *Builder) SubgroupShuffleDown(v ValueFn, delta IndexFn) Cell {
	return b.scalarBinary(values.ShuffleDown, v, delta)
}

// SubgroupShuffleUp returns v from lane (self - delta), own value on
// underflow.
func (b *Builder) SubgroupShuffleUp(v ValueFn, delta IndexFn) Cell {
	return b.scalarBinary(values.ShuffleUp, v, delta)
}

// SubgroupAllEqual reports whether every active lane's v is equal.
func (b *Builder) SubgroupAllEqual(v ValueFn) BoolCell {
	cell := b.freshCell()
	b.append(&node{kind: nCall, op: values.AllEqual, opID: b.freshOpID(), valueFn: v, cellID: cell})
	return BoolCell{id: cell}
}

// SubgroupBallot packs cond across the subgroup's lanes into a mask.
func (b *Builder) SubgroupBallot(cond BoolFn) BallotCell {
	cell := b.freshCell()
	b.append(&node{kind: nCall, op: values.Ballot, opID: b.freshOpID(), condFn: cond, cellID: cell})
	return BallotCell{id: cell}
}

// SubgroupElect is true for exactly one lane of the convergence group.
func (b *Builder) SubgroupElect() BoolCell { return b.boolUnary(values.Elect, nil) }

// SubgroupAll reports whether cond holds for every active lane.
func (b *Builder) SubgroupAll(cond BoolFn) BoolCell { return b.boolUnary(values.All, cond) }

// SubgroupAny reports whether cond holds for any active lane.
func (b *Builder) SubgroupAny(cond BoolFn) BoolCell { return b.boolUnary(values.Any, cond) }

// SubgroupBarrier synchronizes and reconverges the subgroup without
// touching the workgroup barrier.
func (b *Builder) SubgroupBarrier() { b.syncOnly(values.SubgroupBarrier) }

// SubgroupMemoryBarrier is SubgroupBarrier plus a process-wide memory
// fence.
func (b *Builder) SubgroupMemoryBarrier() { b.syncOnly(values.SubgroupMemoryBarrier) }

// Barrier is the workgroup-wide synchronization point.
func (b *Builder) Barrier() { b.syncOnly(values.Barrier) }

// MemoryBarrier reconverges the subgroup and issues a process-wide memory
// fence; unlike Barrier it does not wait on the cross-subgroup workgroup
// barrier.
func (b *Builder) MemoryBarrier() { b.syncOnly(values.MemoryBarrier) }

// GroupMemoryBarrier is MemoryBarrier named for parity with the GLSL
// intrinsic of the same name.
func (b *Builder) GroupMemoryBarrier() { b.syncOnly(values.GroupMemoryBarrier) }
