package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type seed struct {
	Counters []int32
	Nested   *seed
}

func TestCloneDeepCopiesNestedSlicesAndPointers(t *testing.T) {
	s := SharedMemory{Seed: &seed{
		Counters: []int32{1, 2, 3},
		Nested:   &seed{Counters: []int32{4, 5}},
	}}

	clone := s.Clone()
	cloned := clone.Seed.(*seed)
	original := s.Seed.(*seed)

	cloned.Counters[0] = 999
	cloned.Nested.Counters[0] = 999

	assert.Equal(t, int32(1), original.Counters[0])
	assert.Equal(t, int32(4), original.Nested.Counters[0])
}

type deepCopierSeed struct {
	calls int
}

func (s *deepCopierSeed) DeepCopy() any {
	return &deepCopierSeed{calls: s.calls + 1}
}

func TestCloneUsesDeepCopierWhenAvailable(t *testing.T) {
	s := SharedMemory{Seed: &deepCopierSeed{calls: 0}}
	clone := s.Clone().Seed.(*deepCopierSeed)
	assert.Equal(t, 1, clone.calls)
}

func TestCloneOfEmptyIsEmpty(t *testing.T) {
	assert.Nil(t, Empty.Clone().Seed)
}

func TestCloneDeepCopiesMaps(t *testing.T) {
	s := SharedMemory{Seed: map[string][]int32{"a": {1, 2}}}
	clone := s.Clone().Seed.(map[string][]int32)
	clone["a"][0] = 999
	original := s.Seed.(map[string][]int32)
	assert.Equal(t, int32(1), original["a"][0])
}
