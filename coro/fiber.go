package coro

// fiber is the switch-stack-and-jump primitive backing a Context. The
// coroutine body is parked on its own goroutine; the two unbuffered
// channels hand execution across, so exactly one side runs at any
// instant and ordering is strictly alternating.
//
// A context whose entry procedure never finishes keeps its goroutine
// parked for the life of the process, matching the caller-owned
// lifetime of the target ABI: the engine never tears a coroutine down.
type fiber struct {
	in  chan struct{} // Caller hands control to the coroutine.
	out chan handoff  // Coroutine hands control back.
}

type handoff struct {
	value    int32
	finished bool
}

// newFiber parks co's entry procedure on a fresh goroutine. Nothing
// executes until the first resume.
func newFiber(co *Context) (fib *fiber) {
	fib = &fiber{
		in:  make(chan struct{}),
		out: make(chan handoff),
	}

	go func() {
		<-fib.in
		value := co.proc(co)
		fib.out <- handoff{value: value, finished: true}
	}()

	return
}

// resume hands control to the coroutine and blocks until it yields or
// finishes.
func (fib *fiber) resume() (value int32, finished bool) {
	fib.in <- struct{}{}
	ho := <-fib.out

	return ho.value, ho.finished
}

// yield hands control back to the waiting resume and blocks until
// resumed again.
func (fib *fiber) yield(value int32) {
	fib.out <- handoff{value: value}
	<-fib.in
}
