package shader

import "github.com/planetis-m/compute-sim/internal/values"

// optimizeBlock implements a peephole pass over adjacent sync-point IR
// nodes: a reconverge immediately followed by any barrier is redundant
// (the barrier reconverges on its own), and a weaker memory-fence call
// immediately followed by a stronger one is redundant. Recurses into
// nested blocks first so nested redundancy is cleaned up before the
// parent's own adjacency scan runs.
func optimizeBlock(blk *node) {
	for _, c := range blk.children {
		switch c.kind {
		case nIf:
			optimizeBlock(c.then)
			if c.els != nil {
				optimizeBlock(c.els)
			}
		case nSwitch:
			for _, cs := range c.cases {
				optimizeBlock(cs)
			}
		case nFor:
			optimizeBlock(c.body)
		}
	}

	out := blk.children[:0:0]
	for i := 0; i < len(blk.children); i++ {
		cur := blk.children[i]
		if i+1 < len(blk.children) && dropsBefore(cur, blk.children[i+1]) {
			continue
		}
		out = append(out, cur)
	}
	blk.children = out
}

// dropsBefore reports whether cur is made redundant by next immediately
// following it.
func dropsBefore(cur, next *node) bool {
	if cur.kind == nReconverge && next.kind == nCall && next.op.IsBarrier() {
		return true
	}
	if cur.kind == nCall && cur.op.IsMemoryFence() && next.kind == nCall && next.op.IsBarrier() {
		return weakerFence(cur.op, next.op)
	}
	return false
}

// weakerFence orders fence strength: a subgroupMemoryBarrier is redundant
// immediately before any barrier (subgroup or workgroup), and a
// memoryBarrier/groupMemoryBarrier is redundant immediately before a
// full barrier.
func weakerFence(cur, next values.Op) bool {
	switch cur {
	case values.SubgroupMemoryBarrier:
		return next == values.SubgroupBarrier || next == values.Barrier ||
			next == values.MemoryBarrier || next == values.GroupMemoryBarrier
	case values.MemoryBarrier, values.GroupMemoryBarrier:
		return next == values.Barrier
	default:
		return false
	}
}
