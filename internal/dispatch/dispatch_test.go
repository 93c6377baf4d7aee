package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planetis-m/compute-sim/internal/config"
	"github.com/planetis-m/compute-sim/internal/shader"
	"github.com/planetis-m/compute-sim/internal/storage"
	"github.com/planetis-m/compute-sim/internal/values"
)

// TestRunWritesEachThreadsGlobalIDIntoItsOwnSlot exercises the full
// dispatcher path end to end: a program writes one word per thread into
// the ssbo as a side effect of a collective's ValueFn, across a grid of
// several concurrently-run workgroups, and every slot must end up holding
// exactly its own global index.
func TestRunWritesEachThreadsGlobalIDIntoItsOwnSlot(t *testing.T) {
	program, err := shader.Build(func(b *shader.Builder) {
		b.SubgroupAdd(func(ctx *shader.Context) (values.ValueType, values.RawValue) {
			ctx.SSBO.StoreI32(int(ctx.Thread.GlobalInvocationID.X), int32(ctx.Thread.GlobalInvocationID.X))
			return values.I32, values.RawValueFromI32(1)
		})
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.SubgroupSize = 4
	cfg.MaxConcurrentWorkGroups = 2

	ssbo := storage.NewBuffer(8)
	err = Run(cfg, [3]int{2, 1, 1}, [3]int{4, 1, 1}, program, ssbo, storage.Empty, nil)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		assert.Equal(t, int32(i), ssbo.LoadI32(i))
	}
}

func TestRunPropagatesConfigValidationError(t *testing.T) {
	program, err := shader.Build(func(b *shader.Builder) {
		b.SubgroupAdd(shader.ConstI32(1))
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.SubgroupSize = 0 // invalid

	err = Run(cfg, [3]int{1, 1, 1}, [3]int{1, 1, 1}, program, storage.NewBuffer(1), storage.Empty, nil)
	assert.Error(t, err)
}

func TestRunWithWorkgroupBarrierAcrossMultipleSubgroups(t *testing.T) {
	// Two subgroups of 4 lanes each in one workgroup; every lane must pass
	// the same Barrier() before continuing to the final SubgroupAdd.
	program, err := shader.Build(func(b *shader.Builder) {
		b.Barrier()
		b.SubgroupAdd(shader.ConstI32(1))
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.SubgroupSize = 4
	cfg.MaxConcurrentWorkGroups = 1

	ssbo := storage.NewBuffer(1)
	err = Run(cfg, [3]int{1, 1, 1}, [3]int{8, 1, 1}, program, ssbo, storage.Empty, nil)
	assert.NoError(t, err)
}

// TestRunWithBarrierGuardedByPerLaneConditionAcrossSubgroupsIsFatal is a
// workgroup with two subgroups of 8 lanes where only one lane in the
// whole workgroup takes the branch that calls Barrier(); its own
// subgroup can never assemble a full arrival cohort for that barrier,
// and the other subgroup never calls it at all. This must surface an
// error in a bounded number of ticks, not block forever inside the
// workgroup barrier.
func TestRunWithBarrierGuardedByPerLaneConditionAcrossSubgroupsIsFatal(t *testing.T) {
	program, err := shader.Build(func(b *shader.Builder) {
		b.If(func(ctx *shader.Context) bool { return ctx.Thread.LocalInvocationID.X == 1 }, func(b *shader.Builder) {
			b.Barrier()
		})
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.SubgroupSize = 8

	ssbo := storage.NewBuffer(1)
	err = Run(cfg, [3]int{1, 1, 1}, [3]int{16, 1, 1}, program, ssbo, storage.Empty, nil)
	assert.Error(t, err)
}

// TestRunHandlesMoreWorkgroupsThanPoolSize dispatches more workgroups than
// the worker pool has capacity for supervisor tasks alone
// (MaxConcurrentWorkGroups*(numSubgroups+1) with numSubgroups=1 gives a
// pool of 4, but 6 workgroups are dispatched here). Without gating live
// supervisors to MaxConcurrentWorkGroups, this fills every worker with a
// blocked supervisor and deadlocks; batching them must let the dispatch
// complete.
func TestRunHandlesMoreWorkgroupsThanPoolSize(t *testing.T) {
	program, err := shader.Build(func(b *shader.Builder) {
		b.SubgroupAdd(func(ctx *shader.Context) (values.ValueType, values.RawValue) {
			ctx.SSBO.StoreI32(int(ctx.Thread.GlobalInvocationID.X), int32(ctx.Thread.GlobalInvocationID.X))
			return values.I32, values.RawValueFromI32(1)
		})
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.SubgroupSize = 4
	cfg.MaxConcurrentWorkGroups = 2

	const numWorkGroups = 6
	ssbo := storage.NewBuffer(numWorkGroups * 4)
	err = Run(cfg, [3]int{numWorkGroups, 1, 1}, [3]int{4, 1, 1}, program, ssbo, storage.Empty, nil)
	require.NoError(t, err)

	for i := 0; i < numWorkGroups*4; i++ {
		assert.Equal(t, int32(i), ssbo.LoadI32(i))
	}
}
