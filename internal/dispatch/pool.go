package dispatch

// pool is a fixed-size goroutine pool: instead of spawning one goroutine
// per task, a fixed set of workers drain a task channel, so the total
// live-goroutine count is bounded and observable as a single number —
// the pool capacity required is MaxConcurrentWorkGroups *
// (numSubgroups + 1), on the assumption (enforced by dispatch.Run's
// batch semaphore) that at most MaxConcurrentWorkGroups supervisor
// tasks are ever live at once.
type pool struct {
	tasks chan func()
	done  chan struct{}
}

func newPool(size int) *pool {
	p := &pool{tasks: make(chan func()), done: make(chan struct{})}
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	for {
		select {
		case fn, ok := <-p.tasks:
			if !ok {
				return
			}
			fn()
		case <-p.done:
			return
		}
	}
}

// Go submits fn to the pool, blocking until a worker picks it up. A
// workgroup supervisor occupying one worker while it submits further
// work to this same pool is exactly what the sizing invariant accounts
// for: one slot for the supervisor, one per subgroup it spawns.
func (p *pool) Go(fn func()) { p.tasks <- fn }

func (p *pool) Close() { close(p.done) }
