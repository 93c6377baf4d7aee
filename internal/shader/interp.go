package shader

import (
	"fmt"

	"github.com/planetis-m/compute-sim/internal/values"
)

// execSignal propagates non-local control flow (Continue) up through
// nested blocks/ifs until it is absorbed by the enclosing For.
type execSignal uint8

const (
	sigNone execSignal = iota
	sigContinue
)

// yield is the callback the interpreter uses to suspend a thread at a
// call node: it sends cmd out over the invocation's channel and blocks
// until the scheduler writes back a Result.
type yield func(values.Command) values.Result

func execProgram(p *Program, ctx *Context, y yield) {
	execBlock(p.root, ctx, y)
}

func execBlock(blk *node, ctx *Context, y yield) execSignal {
	for _, c := range blk.children {
		if sig := execNode(c, ctx, y); sig != sigNone {
			return sig
		}
	}
	return sigNone
}

func execNode(n *node, ctx *Context, y yield) execSignal {
	switch n.kind {
	case nBlock:
		return execBlock(n, ctx, y)

	case nCall:
		execCall(n, ctx, y)
		return sigNone

	case nReconverge:
		y(values.Command{OpID: n.opID, Op: values.Reconverge})
		return sigNone

	case nIf:
		if n.cond(ctx) {
			return execBlock(n.then, ctx, y)
		}
		if n.els != nil {
			return execBlock(n.els, ctx, y)
		}
		return sigNone

	case nSwitch:
		idx := n.selector(ctx)
		if idx >= 0 && idx < len(n.cases) {
			return execBlock(n.cases[idx], ctx, y)
		}
		return sigNone

	case nFor:
		count := n.count(ctx)
		for i := 0; i < count; i++ {
			ctx.pushLoop(i)
			sig := execBlock(n.body, ctx, y)
			ctx.popLoop()
			if sig == sigContinue {
				continue
			}
		}
		return sigNone

	case nContinue:
		return sigContinue

	default:
		panic(fmt.Sprintf("shader: unhandled node kind %d", n.kind))
	}
}

// execCall builds this call site's Command from its node, yields it to the
// scheduler, and stores the Result's payload into the thread's cell
// storage. A Result whose Op disagrees with the Command's Op is a
// scheduler/shader-transform bug, not a user shader bug, so it panics
// rather than returning an error — Invocation.run recovers it at the
// goroutine boundary.
func execCall(n *node, ctx *Context, y yield) {
	cmd := values.Command{OpID: n.opID, Op: n.op}

	switch {
	case n.op.IsBoolPayload():
		if n.condFn != nil {
			cmd.Payload = n.condFn(ctx)
		}
	case n.valueFn != nil:
		cmd.Type, cmd.Val = n.valueFn(ctx)
	}
	if n.auxFn != nil {
		cmd.Aux = n.auxFn(ctx)
	}

	res := y(cmd)
	if res.Op != n.op {
		panic(&invalidOpResult{want: n.op.String(), got: res.Op.String()})
	}

	if n.op.IsSyncOnly() {
		return
	}
	if n.op.IsBoolResult() {
		ctx.setBoolCell(n.cellID, res.Payload)
		return
	}
	ctx.setCell(n.cellID, res.Type, res.Val)
}

// invalidOpResult is the panic payload execCall raises on an Op mismatch;
// invocation.go's recover converts it into a diag.InvalidOpResult with
// location context the interpreter itself does not have.
type invalidOpResult struct {
	want, got string
}
