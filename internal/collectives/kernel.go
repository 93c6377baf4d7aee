// Package collectives implements the pure per-Op subgroup collective
// kernels: given a convergence group's commands and its active-set,
// produce the matching results. Every kernel is a plain function with no
// shared state, dispatched through a table built once in init.
package collectives

import "github.com/planetis-m/compute-sim/internal/values"

// Kernel computes results for one convergence group. active is the
// ordered (ascending thread index) list of lanes participating in this
// particular group; firstThreadID is active[0]. commands and results are
// indexed by absolute thread index (one entry per thread scheduled into
// the subgroup); a kernel only reads/writes the indices named in active.
type Kernel func(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64)

var kernels = map[values.Op]Kernel{}

func register(op values.Op, k Kernel) { kernels[op] = k }

// Lookup returns the kernel for op, or nil if op has no registered kernel
// (only Invalid). Control and sync ops map to participateOnly; the
// scheduler itself does the barrier waiting and memory fencing.
func Lookup(op values.Op) Kernel { return kernels[op] }

func init() {
	register(values.Broadcast, broadcast)
	register(values.BroadcastFirst, broadcastFirst)
	register(values.Add, reduceAdd)
	register(values.Min, reduceMin)
	register(values.Max, reduceMax)
	register(values.InclusiveAdd, inclusiveAdd)
	register(values.ExclusiveAdd, exclusiveAdd)
	register(values.Shuffle, shuffle)
	register(values.ShuffleXor, shuffleXor)
	register(values.ShuffleDown, shuffleDown)
	register(values.ShuffleUp, shuffleUp)
	register(values.AllEqual, allEqual)
	register(values.Ballot, ballot)
	register(values.All, all)
	register(values.Any, any_)
	register(values.Elect, elect)

	// Sync/control ops still go through the dispatch table so the
	// scheduler can treat every grouped op uniformly; they only record
	// that the group participated, with no payload of their own.
	for _, op := range []values.Op{
		values.Reconverge, values.SubgroupBarrier, values.SubgroupMemoryBarrier,
		values.Barrier, values.MemoryBarrier, values.GroupMemoryBarrier,
	} {
		register(op, participateOnly)
	}
}

func participateOnly(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: commands[t].Op}
	}
}

func isIn(active []int, id int) bool {
	for _, a := range active {
		if a == id {
			return true
		}
	}
	return false
}

func asIndex(u uint32) int { return int(u) }
