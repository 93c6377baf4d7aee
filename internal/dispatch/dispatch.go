// Package dispatch implements the dispatcher: it materializes the
// workgroup/subgroup topology from numWorkGroups and workGroupSize, runs
// workgroups concurrently up to Config's cap, spawns one lockstep
// scheduler per subgroup, and brokers the workgroup barrier those
// schedulers wait on.
package dispatch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/planetis-m/compute-sim/internal/config"
	"github.com/planetis-m/compute-sim/internal/diag"
	"github.com/planetis-m/compute-sim/internal/scheduler"
	"github.com/planetis-m/compute-sim/internal/shader"
	"github.com/planetis-m/compute-sim/internal/storage"
	"github.com/planetis-m/compute-sim/internal/values"
)

// Run executes program over the full numWorkGroups × workGroupSize grid.
// shared is cloned once per workgroup
// (storage.SharedMemory.Clone's deep copy); pass storage.Empty when the
// shader uses no shared memory.
func Run(cfg config.Config, numWorkGroups, workGroupSize [3]int, program *shader.Program, ssbo *storage.Buffer, shared storage.SharedMemory, args any) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	topo := newTopology(workGroupSize, cfg.SubgroupSize)
	g := grid{numWorkGroups: numWorkGroups}

	poolSize := cfg.PoolSize(topo.numSubgroups)
	if poolSize < 1 {
		return &diag.ConfigError{Reason: "resulting worker pool size is zero"}
	}
	p := newPool(poolSize)
	defer p.Close()

	dispatchID := uuid.New()
	diag.Tracer.Printf("dispatch %s: %d workgroups of %d threads (%d subgroups each)",
		dispatchID, g.total(), topo.threadCount, topo.numSubgroups)

	var (
		mu      sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	// batch bounds live supervisors to MaxConcurrentWorkGroups: the next
	// workgroup in row-major order starts as soon as fewer than that many
	// are running. poolSize is sized for
	// exactly that many concurrent supervisors, each holding one worker
	// for itself plus one per subgroup it spawns; letting more than
	// MaxConcurrentWorkGroups supervisors run at once could fill every
	// worker with supervisors and leave none free to pick up the
	// subgroup tasks those supervisors are blocked on, deadlocking p.Go.
	batch := make(chan struct{}, cfg.MaxConcurrentWorkGroups)

	var outer sync.WaitGroup
	for i := 0; i < g.total(); i++ {
		wgID := g.coord(i)
		batch <- struct{}{}
		outer.Add(1)
		p.Go(func() {
			defer func() { <-batch }()
			defer outer.Done()
			if err := runWorkgroup(cfg, topo, numWorkGroups, wgID, program, ssbo, shared.Clone(), args, p); err != nil {
				fail(err)
			}
		})
	}
	outer.Wait()

	return firstErr
}

// runWorkgroup runs one workgroup's numSubgroups lockstep schedulers
// concurrently, sharing one cyclic barrier and one deep-copied
// shared-memory slot, and waits for all of them to finish.
func runWorkgroup(cfg config.Config, topo topology, numWorkGroups [3]int, wgID values.Vec3, program *shader.Program, ssbo *storage.Buffer, shared storage.SharedMemory, args any, p *pool) error {
	barrier := newCyclicBarrier(topo.numSubgroups)

	wgCtx := values.WorkGroupContext{
		NumWorkGroups: values.Vec3{X: uint32(numWorkGroups[0]), Y: uint32(numWorkGroups[1]), Z: uint32(numWorkGroups[2])},
		WorkGroupSize: values.Vec3{X: uint32(topo.size[0]), Y: uint32(topo.size[1]), Z: uint32(topo.size[2])},
		WorkGroupID:   wgID,
		NumSubgroups:  uint32(topo.numSubgroups),
	}

	var (
		mu      sync.Mutex
		firstErr error
		wg      sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for s := 0; s < topo.numSubgroups; s++ {
		subgroupID := s
		wg.Add(1)
		p.Go(func() {
			defer wg.Done()
			wgCtx := wgCtx
			wgCtx.SubgroupID = uint32(subgroupID)
			if err := runSubgroup(cfg, topo, subgroupID, wgCtx, program, ssbo, shared, args, barrier); err != nil {
				fail(err)
			}
		})
	}
	wg.Wait()

	return firstErr
}

// runSubgroup builds one subgroup's cooperative closures and drives them
// to completion with a lockstep scheduler.
func runSubgroup(cfg config.Config, topo topology, subgroupID int, wgCtx values.WorkGroupContext, program *shader.Program, ssbo *storage.Buffer, shared storage.SharedMemory, args any, barrier *cyclicBarrier) error {
	lo, hi := topo.subgroupRange(subgroupID)
	numActive := hi - lo

	invocations := make([]*shader.Invocation, numActive)
	for lane := 0; lane < numActive; lane++ {
		threadID := lo + lane
		local := topo.localCoord(threadID)
		global := values.Vec3{
			X: wgCtx.WorkGroupID.X*uint32(topo.size[0]) + local.X,
			Y: wgCtx.WorkGroupID.Y*uint32(topo.size[1]) + local.Y,
			Z: wgCtx.WorkGroupID.Z*uint32(topo.size[2]) + local.Z,
		}
		eq, ge, gt, le, lt := values.LaneMasks(lane, cfg.SubgroupSize)
		thread := values.ThreadContext{
			GlobalInvocationID:   global,
			LocalInvocationID:    local,
			SubgroupInvocationID: uint32(lane),
			SubgroupEqMask:       eq,
			SubgroupGeMask:       ge,
			SubgroupGtMask:       gt,
			SubgroupLeMask:       le,
			SubgroupLtMask:       lt,
		}
		invocations[lane] = shader.NewInvocation(program, thread, wgCtx, ssbo, shared, args)
	}

	loc := diag.NewLocation(wgCtx.WorkGroupID.X, wgCtx.WorkGroupID.Y, wgCtx.WorkGroupID.Z, uint32(subgroupID))

	var trace scheduler.Tracer
	if cfg.DebugSelected(int(wgCtx.WorkGroupID.X), int(wgCtx.WorkGroupID.Y), int(wgCtx.WorkGroupID.Z), subgroupID) {
		trace = func(op values.Op, opID int64, active []int) {
			diag.TraceGroup(loc, op, opID, active)
		}
	}

	sg := scheduler.NewSubgroup(program, invocations, barrierAdapter{barrier}, loc, trace)
	return sg.Run()
}

// barrierAdapter satisfies scheduler.Barrier with a *cyclicBarrier.
type barrierAdapter struct{ b *cyclicBarrier }

func (a barrierAdapter) Wait() { a.b.Wait() }
