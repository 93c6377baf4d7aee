package shader

import (
	"fmt"

	"github.com/planetis-m/compute-sim/internal/diag"
	"github.com/planetis-m/compute-sim/internal/storage"
	"github.com/planetis-m/compute-sim/internal/values"
)

// Invocation drives one thread's goroutine across a Program. The scheduler
// owns the Resume/Command protocol; Invocation itself is just the
// goroutine/channel plumbing a cooperative thread closure needs.
type Invocation struct {
	ctx     *Context
	started bool
	done    bool
	err     error

	cmdCh chan values.Command
	resCh chan values.Result
	exit  chan struct{}
}

// NewInvocation allocates the per-thread Context, sized for the Program's
// cell count, and an Invocation bound to it. The goroutine is not started
// until the first Resume call, mirroring a cooperative thread closure that
// has not yet been scheduled onto the core.
func NewInvocation(p *Program, thread values.ThreadContext, wg values.WorkGroupContext, ssbo *storage.Buffer, shared storage.SharedMemory, args any) *Invocation {
	ctx := newContext(thread, wg, ssbo, shared, args, cellCount(p))
	return &Invocation{
		ctx:   ctx,
		cmdCh: ctx.cmdCh,
		resCh: ctx.resCh,
		exit:  make(chan struct{}),
	}
}

func (inv *Invocation) run(p *Program) {
	defer close(inv.exit)
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*invalidOpResult); ok {
				inv.err = &diag.InvalidOpResult{Want: e.want, Got: e.got}
				return
			}
			inv.err = fmt.Errorf("computesim: shader panic: %v", r)
		}
	}()
	execProgram(p, inv.ctx, func(cmd values.Command) values.Result {
		inv.cmdCh <- cmd
		return <-inv.resCh
	})
}

// Resume writes back result for the command this invocation last emitted
// (ignored on the first call, which only starts the goroutine) and runs
// the thread until its next suspension point. It returns the next
// Command and true, or a zero Command and false once the thread has run
// off the end of the Program or panicked; Err reports which.
func (inv *Invocation) Resume(p *Program, result values.Result) (values.Command, bool) {
	if inv.done {
		return values.Command{}, false
	}
	if !inv.started {
		inv.started = true
		go inv.run(p)
	} else {
		inv.resCh <- result
	}

	select {
	case cmd := <-inv.cmdCh:
		return cmd, true
	case <-inv.exit:
		inv.done = true
		return values.Command{}, false
	}
}

// Err returns the error that ended the invocation, if any. Only
// meaningful once Resume has returned false.
func (inv *Invocation) Err() error { return inv.err }

// Done reports whether the invocation has run to completion (with or
// without error).
func (inv *Invocation) Done() bool { return inv.done }

func cellCount(p *Program) int {
	n := 0
	var walk func(*node)
	walk = func(blk *node) {
		for _, c := range blk.children {
			switch c.kind {
			case nCall:
				if c.cellID+1 > n {
					n = c.cellID + 1
				}
			case nIf:
				walk(c.then)
				if c.els != nil {
					walk(c.els)
				}
			case nSwitch:
				for _, cs := range c.cases {
					walk(cs)
				}
			case nFor:
				walk(c.body)
			}
		}
	}
	walk(p.root)
	return n
}
