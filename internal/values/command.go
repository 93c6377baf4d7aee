package values

// Command is emitted by a thread at each suspension point. OpID is the
// grouping key the subgroup scheduler uses to form convergence groups:
// every Command and Result for a given suspension carries the same OpID.
//
// Scalar ops carry (Type, Val, Aux); Aux is the second argument (lane id,
// shuffle mask, or shuffle delta) for the binary shuffle/broadcast family.
// Boolean ops carry Payload only. Sync/control ops carry no payload.
type Command struct {
	OpID    int64
	Op      Op
	Type    ValueType
	Val     RawValue
	Aux     uint32
	Payload bool
}

// Result is written back by the scheduler in response to a Command. It
// has the same shape minus Aux (the scheduler never needs to echo the
// second argument back), and uses Payload for the boolean-result ops
// (elect/all/any/allEqual); ballot's packed mask travels in (Type, Val).
type Result struct {
	OpID    int64
	Op      Op
	Type    ValueType
	Val     RawValue
	Payload bool
}
