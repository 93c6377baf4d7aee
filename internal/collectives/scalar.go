package collectives

import (
	"math"

	"github.com/planetis-m/compute-sim/internal/values"
)

func toNumber(typ values.ValueType, v values.RawValue) any {
	switch typ {
	case values.I32:
		return v.I32()
	case values.U32:
		return v.U32()
	case values.F32:
		return v.F32()
	case values.F64:
		return v.F64()
	default:
		return int32(0)
	}
}

func fromNumber(typ values.ValueType, v any) values.RawValue {
	switch typ {
	case values.I32:
		return values.RawValueFromI32(v.(int32))
	case values.U32:
		return values.RawValueFromU32(v.(uint32))
	case values.F32:
		return values.RawValueFromF32(v.(float32))
	case values.F64:
		return values.RawValueFromF64(v.(float64))
	default:
		return 0
	}
}

// addTyped/minTyped/maxTyped perform the reduction step for one typed
// pair, dispatching monomorphically per ValueType rather than mixing
// types within a single reduction.
func addTyped(typ values.ValueType, a, b any) any {
	switch typ {
	case values.I32:
		return a.(int32) + b.(int32)
	case values.U32:
		return a.(uint32) + b.(uint32)
	case values.F32:
		return a.(float32) + b.(float32)
	case values.F64:
		return a.(float64) + b.(float64)
	default:
		return a
	}
}

func minTyped(typ values.ValueType, a, b any) any {
	switch typ {
	case values.I32:
		if a.(int32) < b.(int32) {
			return a
		}
		return b
	case values.U32:
		if a.(uint32) < b.(uint32) {
			return a
		}
		return b
	case values.F32:
		return float32(math.Min(float64(a.(float32)), float64(b.(float32))))
	case values.F64:
		return math.Min(a.(float64), b.(float64))
	default:
		return a
	}
}

func maxTyped(typ values.ValueType, a, b any) any {
	switch typ {
	case values.I32:
		if a.(int32) > b.(int32) {
			return a
		}
		return b
	case values.U32:
		if a.(uint32) > b.(uint32) {
			return a
		}
		return b
	case values.F32:
		return float32(math.Max(float64(a.(float32)), float64(b.(float32))))
	case values.F64:
		return math.Max(a.(float64), b.(float64))
	default:
		return a
	}
}

// identity returns the identity element for op's reduction over typ:
// 0 for add; the type's maximum for min (so the first real value always
// wins); the type's minimum for max.
func identity(op values.Op, typ values.ValueType) any {
	switch op {
	case values.Add:
		switch typ {
		case values.I32:
			return int32(0)
		case values.U32:
			return uint32(0)
		case values.F32:
			return float32(0)
		default:
			return float64(0)
		}
	case values.Min:
		switch typ {
		case values.I32:
			return int32(math.MaxInt32)
		case values.U32:
			return uint32(math.MaxUint32)
		case values.F32:
			return float32(math.Inf(1))
		default:
			return math.Inf(1)
		}
	case values.Max:
		switch typ {
		case values.I32:
			return int32(math.MinInt32)
		case values.U32:
			return uint32(0)
		case values.F32:
			return float32(math.Inf(-1))
		default:
			return math.Inf(-1)
		}
	default:
		return nil
	}
}

func reduceAdd(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	reduceFold(results, commands, active, opID, values.Add, addTyped)
}

func reduceMin(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	reduceFold(results, commands, active, opID, values.Min, minTyped)
}

func reduceMax(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	reduceFold(results, commands, active, opID, values.Max, maxTyped)
}

func reduceFold(results []values.Result, commands []values.Command, active []int, opID int64, op values.Op, fold func(values.ValueType, any, any) any) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	acc := identity(op, typ)
	for _, t := range active {
		acc = fold(typ, acc, toNumber(typ, commands[t].Val))
	}
	out := values.Result{OpID: opID, Op: op, Type: typ, Val: fromNumber(typ, acc)}
	for _, t := range active {
		results[t] = out
	}
}

// inclusiveAdd/exclusiveAdd are prefix sums over active in ascending lane
// order, so floating-point results stay deterministic for a given
// divergence pattern.
func inclusiveAdd(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	acc := identity(values.Add, typ)
	for _, t := range active {
		acc = addTyped(typ, acc, toNumber(typ, commands[t].Val))
		results[t] = values.Result{OpID: opID, Op: values.InclusiveAdd, Type: typ, Val: fromNumber(typ, acc)}
	}
}

func exclusiveAdd(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	acc := identity(values.Add, typ)
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.ExclusiveAdd, Type: typ, Val: fromNumber(typ, acc)}
		acc = addTyped(typ, acc, toNumber(typ, commands[t].Val))
	}
}

func broadcast(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	for _, t := range active {
		id := asIndex(commands[t].Aux)
		var val values.RawValue
		if isIn(active, id) {
			val = commands[id].Val
		} else {
			val = commands[firstThreadID].Val
		}
		results[t] = values.Result{OpID: opID, Op: values.Broadcast, Type: typ, Val: val}
	}
}

func broadcastFirst(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	val := commands[firstThreadID].Val
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.BroadcastFirst, Type: typ, Val: val}
	}
}

func shuffle(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	shuffleBy(results, commands, active, opID, values.Shuffle, func(self, arg int) int { return arg })
}

func shuffleXor(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	shuffleBy(results, commands, active, opID, values.ShuffleXor, func(self, arg int) int { return self ^ arg })
}

func shuffleDown(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	shuffleBy(results, commands, active, opID, values.ShuffleDown, func(self, arg int) int { return self + arg })
}

func shuffleUp(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	shuffleBy(results, commands, active, opID, values.ShuffleUp, func(self, arg int) int {
		if arg > self {
			return self // underflow guard: returns own value below
		}
		return self - arg
	})
}

func shuffleBy(results []values.Result, commands []values.Command, active []int, opID int64, op values.Op, target func(self, arg int) int) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	for _, t := range active {
		arg := asIndex(commands[t].Aux)
		id := target(t, arg)
		var val values.RawValue
		if isIn(active, id) {
			val = commands[id].Val
		} else {
			val = commands[t].Val
		}
		results[t] = values.Result{OpID: opID, Op: op, Type: typ, Val: val}
	}
}

func allEqual(results []values.Result, commands []values.Command, active []int, firstThreadID int, opID int64) {
	if len(active) == 0 {
		return
	}
	typ := commands[active[0]].Type
	ref := commands[firstThreadID].Val
	eq := true
	for _, t := range active {
		if commands[t].Val != ref {
			eq = false
			break
		}
	}
	for _, t := range active {
		results[t] = values.Result{OpID: opID, Op: values.AllEqual, Type: typ, Payload: eq}
	}
}
