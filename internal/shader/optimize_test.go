package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planetis-m/compute-sim/internal/values"
)

func TestOptimizeDropsReconvergeBeforeBarrier(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.IfElse(func(*Context) bool { return true }, func(b *Builder) {
			b.SubgroupAdd(ConstI32(1))
		}, nil)
		b.Barrier()
	})
	require.NoError(t, err)

	// Without the peephole pass this would be [nIf, nReconverge, nCall(Barrier)].
	require.Len(t, p.root.children, 2)
	assert.Equal(t, nIf, p.root.children[0].kind)
	assert.Equal(t, values.Barrier, p.root.children[1].op)
}

func TestOptimizeKeepsReconvergeWhenNotFollowedByBarrier(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.IfElse(func(*Context) bool { return true }, func(b *Builder) {
			b.SubgroupAdd(ConstI32(1))
		}, nil)
		b.SubgroupAdd(ConstI32(2))
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 3)
	assert.Equal(t, nReconverge, p.root.children[1].kind)
}

func TestOptimizeDropsWeakerFenceBeforeStrongerBarrier(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.SubgroupMemoryBarrier()
		b.Barrier()
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 1)
	assert.Equal(t, values.Barrier, p.root.children[0].op)
}

func TestOptimizeKeepsFenceBeforeNonBarrierOp(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.SubgroupMemoryBarrier()
		b.SubgroupAdd(ConstI32(1))
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 2)
	assert.Equal(t, values.SubgroupMemoryBarrier, p.root.children[0].op)
}

func TestOptimizeDropsSubgroupMemoryBarrierBeforeSubgroupBarrier(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.SubgroupMemoryBarrier()
		b.SubgroupBarrier()
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 1)
	assert.Equal(t, values.SubgroupBarrier, p.root.children[0].op)
}

func TestOptimizeDropsMemoryBarrierBeforeBarrier(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.MemoryBarrier()
		b.Barrier()
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 1)
	assert.Equal(t, values.Barrier, p.root.children[0].op)
}

func TestOptimizeDropsGroupMemoryBarrierBeforeBarrier(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.GroupMemoryBarrier()
		b.Barrier()
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 1)
	assert.Equal(t, values.Barrier, p.root.children[0].op)
}

func TestOptimizeDoesNotDropStrongerFenceBeforeWeakerBarrier(t *testing.T) {
	// MemoryBarrier is not weaker than SubgroupBarrier, so nothing should drop.
	p, err := Build(func(b *Builder) {
		b.MemoryBarrier()
		b.SubgroupBarrier()
	})
	require.NoError(t, err)

	require.Len(t, p.root.children, 2)
}

func TestOptimizeRecursesIntoNestedBlocks(t *testing.T) {
	p, err := Build(func(b *Builder) {
		b.IfElse(func(*Context) bool { return true }, func(b *Builder) {
			b.IfElse(func(*Context) bool { return true }, func(b *Builder) {
				b.SubgroupAdd(ConstI32(1))
			}, nil)
			b.Barrier()
		}, nil)
	})
	require.NoError(t, err)

	outerIf := p.root.children[0]
	require.Len(t, outerIf.then.children, 2, "nested reconverge-before-barrier should have been dropped")
	assert.Equal(t, values.Barrier, outerIf.then.children[1].op)
}
