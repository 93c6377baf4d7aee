package collectives

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planetis-m/compute-sim/internal/values"
)

func cmdsBool(bs ...bool) []values.Command {
	out := make([]values.Command, len(bs))
	for i, b := range bs {
		out[i] = values.Command{OpID: 1, Op: values.Ballot, Payload: b}
	}
	return out
}

func TestBallotPacksActiveLanesOnly(t *testing.T) {
	commands := cmdsBool(true, true, false, true)
	results := make([]values.Result, len(commands))
	active := []int{0, 2, 3}
	ballot(results, commands, active, 0, 1)
	assert.Equal(t, uint32(0b1001), results[0].Val.U32()) // lane 1 excluded despite true
}

func TestAllAny(t *testing.T) {
	results := make([]values.Result, 4)

	commands := cmdsBool(true, true, true, false)
	all(results, commands, []int{0, 1, 2}, 0, 1)
	assert.True(t, results[0].Payload)
	all(results, commands, []int{0, 1, 2, 3}, 0, 1)
	assert.False(t, results[0].Payload)

	commands = cmdsBool(false, false, true, false)
	any_(results, commands, []int{0, 1, 3}, 0, 1)
	assert.False(t, results[0].Payload)
	any_(results, commands, []int{0, 1, 2, 3}, 0, 1)
	assert.True(t, results[0].Payload)
}

func TestElectPicksFirstThreadOnly(t *testing.T) {
	commands := cmdsBool(false, false, false, false)
	results := make([]values.Result, len(commands))
	active := []int{1, 2, 3}
	elect(results, commands, active, 1, 1)
	assert.True(t, results[1].Payload)
	assert.False(t, results[2].Payload)
	assert.False(t, results[3].Payload)
}
