// Package scheduler implements the lockstep scheduler: the state machine
// that drives one subgroup's cooperative thread closures in lockstep,
// groups them by current operation ID, dispatches collectives
// (internal/collectives) for each convergence group, resolves
// reconvergence and the two barrier families, and raises deadlock or
// non-uniform-barrier errors when the state machine cannot make progress.
package scheduler

import (
	"math"

	"github.com/planetis-m/compute-sim/internal/collectives"
	"github.com/planetis-m/compute-sim/internal/diag"
	"github.com/planetis-m/compute-sim/internal/shader"
	"github.com/planetis-m/compute-sim/internal/storage"
	"github.com/planetis-m/compute-sim/internal/values"
)

// sentinelOpID stands in for "no pending reconverge/barrier point exists
// yet"; it must compare greater than every real opID, which are assigned
// starting at 0 in source order.
const sentinelOpID = int64(math.MaxInt64)

// Barrier is the workgroup-wide synchronization handle the dispatcher
// provides; one subgroup scheduler call to Wait per barrier command.
type Barrier interface {
	Wait()
}

// Tracer receives a trace line per executed convergence group when debug
// output is enabled for this subgroup's workgroup/subgroup coordinates.
type Tracer func(op values.Op, opID int64, active []int)

type thread struct {
	inv      *shader.Invocation
	state    values.ThreadState
	cmd      values.Command
	res      values.Result
	finished bool
	fresh    bool // produced a new command this tick, not yet executed
}

// Subgroup drives numActive cooperative closures through one subgroup's
// worth of lockstep execution. It is single-threaded: all state belongs
// to the OS thread that calls Run.
type Subgroup struct {
	program   *shader.Program
	threads   []thread
	numActive int

	barrier Barrier
	loc     diag.Location
	trace   Tracer

	minReconvID       int64
	barrierID         int64
	barrierCount      int
	readyToReconverge bool
}

// NewSubgroup builds a scheduler for numActive cooperative closures, all
// freshly constructed via shader.NewInvocation by the caller. barrier is
// the C4-provided workgroup barrier this subgroup will Wait on for every
// workgroup-family barrier command.
func NewSubgroup(program *shader.Program, invocations []*shader.Invocation, barrier Barrier, loc diag.Location, trace Tracer) *Subgroup {
	threads := make([]thread, len(invocations))
	for i, inv := range invocations {
		threads[i] = thread{inv: inv, state: values.Running}
	}
	return &Subgroup{
		program:     program,
		threads:     threads,
		numActive:   len(invocations),
		barrier:     barrier,
		loc:         loc,
		trace:       trace,
		minReconvID: sentinelOpID,
		barrierID:   sentinelOpID,
	}
}

// Run drives every invocation to completion, one outer five-phase tick
// at a time, returning the first fatal error raised (Deadlock,
// NonUniformBarrier, or an InvalidOpResult surfaced by a closure), or
// nil once every thread has finished.
func (s *Subgroup) Run() error {
	for {
		if s.allFinished() {
			return nil
		}

		madeProgress, err := s.resumePhase()
		if err != nil {
			return err
		}

		if err := s.scanPhase(madeProgress); err != nil {
			return err
		}

		group := s.groupPhase()
		s.executePhase(group)
	}
}

func (s *Subgroup) allFinished() bool {
	for i := 0; i < s.numActive; i++ {
		if !s.threads[i].finished {
			return false
		}
	}
	return true
}

// resumePhase resumes every thread eligible this tick, feeding back the
// Result its pending command was resolved to on the previous tick's
// execute phase (or a zero Result, ignored, on a thread's very first
// resume).
func (s *Subgroup) resumePhase() (bool, error) {
	madeProgress := false
	for i := 0; i < s.numActive; i++ {
		t := &s.threads[i]
		if t.finished {
			continue
		}
		if !(t.state == values.Running || s.canReconverge(t) || s.canPassBarrier(t)) {
			continue
		}

		cmd, ok := t.inv.Resume(s.program, t.res)
		madeProgress = true
		if !ok {
			if err := t.inv.Err(); err != nil {
				if inv, ok := err.(*diag.InvalidOpResult); ok {
					inv.Location = s.loc
				}
				return madeProgress, err
			}
			t.finished = true
			t.state = values.Finished
			continue
		}

		t.cmd = cmd
		t.state = stateForOp(cmd.Op)
		t.fresh = true
	}
	return madeProgress, nil
}

// canReconverge reports whether t may resume past its reconverge point.
// readyToReconverge alone isn't enough: threads parked at a barrier
// (AtBarrier) are deliberately excluded from that readiness check, so a
// reconverge point that comes after the pending barrier in program order
// (minReconvID >= barrierID) must still wait — the minReconvID < barrierID
// conjunct gives the barrier priority whenever one is pending.
func (s *Subgroup) canReconverge(t *thread) bool {
	if t.state != values.Halted && t.state != values.AtSubBarrier {
		return false
	}
	return s.readyToReconverge && s.minReconvID < s.barrierID && t.cmd.OpID == s.minReconvID
}

func (s *Subgroup) canPassBarrier(t *thread) bool {
	if t.state != values.AtBarrier {
		return false
	}
	return s.barrierCount == s.numActive && t.cmd.OpID == s.barrierID
}

// scanPhase recomputes the aggregate bookkeeping the next tick's resume
// phase (and this tick's grouping) depends on, and raises NonUniformBarrier
// or Deadlock if the state machine has stalled.
func (s *Subgroup) scanPhase(madeProgress bool) error {
	minReconv := sentinelOpID
	barrierID := sentinelOpID
	barrierCount := 0
	ready := true

	for i := 0; i < s.numActive; i++ {
		t := &s.threads[i]
		if t.finished {
			continue
		}
		switch t.state {
		case values.Halted, values.AtSubBarrier:
			if t.cmd.OpID < minReconv {
				minReconv = t.cmd.OpID
			}
		case values.AtBarrier:
			// atBarrier threads are excluded from the readiness check:
			// canReconverge's minReconvID < barrierID guard is what
			// arbitrates against them, not this flag.
			barrierCount++
			if barrierID == sentinelOpID {
				barrierID = t.cmd.OpID
			} else if barrierID != t.cmd.OpID {
				return &diag.NonUniformBarrier{Location: s.loc, OpIDs: []int64{barrierID, t.cmd.OpID}}
			}
		default:
			ready = false
		}
	}

	s.minReconvID = minReconv
	s.barrierID = barrierID
	s.barrierCount = barrierCount
	s.readyToReconverge = ready

	if !madeProgress && !s.allFinished() {
		return &diag.Deadlock{Location: s.loc, BarrierCount: barrierCount, NumActive: s.numActive}
	}
	return nil
}

// groupPhase partitions the threads that produced a fresh command this
// tick into convergence groups keyed by opID: threads already grouped by
// the source transform's static numbering, in ascending thread-index
// order.
func (s *Subgroup) groupPhase() map[int64][]int {
	groups := map[int64][]int{}
	for i := 0; i < s.numActive; i++ {
		t := &s.threads[i]
		if t.finished || !t.fresh {
			continue
		}
		groups[t.cmd.OpID] = append(groups[t.cmd.OpID], i)
	}
	return groups
}

// executePhase dispatches each convergence group to its collective
// kernel, waiting on the workgroup barrier and issuing a memory fence
// first where the op demands it. A workgroup-barrier group only fires
// once every one of this subgroup's numActive threads has arrived at it
// (s.barrierCount == s.numActive, mirroring canPassBarrier's eligibility
// check) — a partial cohort is left fresh so it regroups with the
// stragglers on a later tick instead of calling the cross-subgroup Wait
// on their behalf. A cohort that never completes (some lanes diverge
// around the barrier entirely) stalls here, and scanPhase's
// no-progress check turns that into a Deadlock rather than a hang.
func (s *Subgroup) executePhase(groups map[int64][]int) {
	results := make([]values.Result, s.numActive)
	commands := make([]values.Command, s.numActive)
	for i := 0; i < s.numActive; i++ {
		commands[i] = s.threads[i].cmd
	}

	for opID, active := range groups {
		op := commands[active[0]].Op

		if op.IsWorkgroupBarrier() && s.barrierCount != s.numActive {
			continue
		}

		if op.IsWorkgroupBarrier() && s.barrier != nil {
			s.barrier.Wait()
		}
		if op.IsMemoryFence() {
			storage.Fence()
		}

		if kernel := collectives.Lookup(op); kernel != nil {
			kernel(results, commands, active, active[0], opID)
		}

		if s.trace != nil {
			s.trace(op, opID, active)
		}

		for _, i := range active {
			s.threads[i].res = results[i]
			s.threads[i].fresh = false
		}
	}
}

// stateForOp maps a freshly yielded command's op onto the thread state it
// puts the thread into. Every op outside the reconverge/barrier families
// leaves the thread Running: in straight-line code (no pending
// divergence) a collective's whole active set always reaches the same
// opID in the same tick, so there is nothing to wait for.
func stateForOp(op values.Op) values.ThreadState {
	switch {
	case op == values.Reconverge:
		return values.Halted
	case op == values.SubgroupBarrier || op == values.SubgroupMemoryBarrier ||
		op == values.MemoryBarrier || op == values.GroupMemoryBarrier:
		return values.AtSubBarrier
	case op.IsWorkgroupBarrier():
		return values.AtBarrier
	default:
		return values.Running
	}
}
