package diag

import (
	"log"
	"os"
)

// Tracer is a package-level logger for trace output: dispatch.Run logs one
// line per dispatch through it, and when a dispatch's workgroup/subgroup
// coordinates match the configured debug selectors, each convergence
// group the scheduler executes is logged through it as well.
var Tracer = log.New(os.Stderr, "computesim: ", log.LstdFlags)

// TraceGroup logs one convergence group's execution, gated by the caller
// (the scheduler only calls this when the debug selector matches).
func TraceGroup(loc Location, op, opID any, active []int) {
	Tracer.Printf("%s op=%v opID=%v active=%v", loc, op, opID, active)
}
