package collectives

import "github.com/planetis-m/compute-sim/internal/values"

func ballot(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	var mask uint32
	for _, t := range active {
		if commands[t].Payload {
			mask |= 1 << uint(t)
		}
	}
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.Ballot, Type: values.U32, Val: values.RawValueFromU32(mask)}
	}
}

func all(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	v := true
	for _, t := range active {
		if !commands[t].Payload {
			v = false
			break
		}
	}
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.All, Payload: v}
	}
}

func any_(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	v := false
	for _, t := range active {
		if commands[t].Payload {
			v = true
			break
		}
	}
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.Any, Payload: v}
	}
}

func elect(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.Elect, Payload: t == firstThreadID}
	}
}
