package coro

const (
	// FRAME_WORDS is the register window reserved below the top of
	// stack by Make: the callee-saved registers r4-r11, the link
	// register, and one word of padding for doubleword alignment.
	FRAME_WORDS = 10

	// JOINED is the flag bit packed above the 31-bit stack pointer.
	JOINED = uint32(1) << 31
)

// State of a coroutine context.
type State uint8

const (
	STATE_NOT_STARTED = State(iota) // Made, never resumed.
	STATE_SUSPENDED                 // Stopped at a yield.
	STATE_RUNNING                   // Inside an active resume.
	STATE_FINISHED                  // Entry procedure returned.
)

// String returns the state name.
func (s State) String() (name string) {
	switch s {
	case STATE_NOT_STARTED:
		name = "not-started"
	case STATE_SUSPENDED:
		name = "suspended"
	case STATE_RUNNING:
		name = "running"
	case STATE_FINISHED:
		name = "finished"
	default:
		name = "invalid"
	}

	return
}

// Proc is a coroutine entry procedure. Its return value is handed to
// the final resume, after which the context is joined.
type Proc func(co *Context) int32

// Context is one suspendable execution unit. The packed word holds the
// 31-bit word-aligned stack pointer with the joined flag in the top
// bit. The context and its stack region are caller-owned; the engine
// never allocates or releases either.
type Context struct {
	word uint32

	state State
	proc  Proc
	top   uint32
	fib   *fiber
}

// Sp returns the saved stack pointer. It always lies inside the
// caller-supplied stack region for this context.
func (co *Context) Sp() uint32 {
	return co.word &^ JOINED
}

// Joined reports whether the entry procedure has returned.
func (co *Context) Joined() bool {
	return (co.word & JOINED) != 0
}

// State returns the current lifecycle state.
func (co *Context) State() State {
	return co.state
}

// packSp validates that an address is representable as a packed stack
// pointer: word aligned, within the 31-bit addressable ceiling. No
// silent truncation.
func packSp(sp uint32) (word uint32, err error) {
	if (sp & 3) != 0 {
		err = ErrStackAlign
		return
	}
	if (sp & JOINED) != 0 {
		err = ErrStackRange
		return
	}

	word = sp

	return
}

// Make initializes co so that the first Resume begins proc(co). spTop
// is the TOP of the coroutine's stack region (the stack grows down);
// the initial register window is reserved immediately below it. The
// joined flag is cleared. No code in proc executes until the first
// Resume.
func Make(co *Context, spTop uint32, proc Proc) (err error) {
	word, err := packSp(spTop - FRAME_WORDS*4)
	if err != nil {
		return
	}

	co.word = word
	co.state = STATE_NOT_STARTED
	co.proc = proc
	co.top = spTop
	co.fib = nil

	return
}

// Resume transfers control to the coroutine at its last suspension
// point, or starts the entry procedure on the first call. The caller
// fully yields execution until the coroutine yields or returns; the
// returned value is the one passed to the matching Yield, or the entry
// procedure's return value once the coroutine finishes, at which point
// the context is joined. Resuming a joined context is an error rather
// than a repeat of the final value.
func (co *Context) Resume() (value int32, err error) {
	switch co.state {
	case STATE_FINISHED:
		err = ErrJoined
		return
	case STATE_RUNNING:
		err = ErrRunning
		return
	}

	if co.fib == nil {
		co.fib = newFiber(co)
	}

	co.state = STATE_RUNNING
	value, finished := co.fib.resume()
	if finished {
		co.state = STATE_FINISHED
		co.word |= JOINED
	} else {
		co.state = STATE_SUSPENDED
	}

	return
}

// Yield suspends the coroutine and hands value back to the Resume call
// that is waiting. Callable only from code dynamically nested inside an
// active Resume on co; anywhere else it is a reported error. State
// living on the coroutine's stack survives unchanged across the
// suspension, because the stack is never unwound.
func (co *Context) Yield(value int32) (err error) {
	if co.state != STATE_RUNNING {
		err = ErrNotRunning
		return
	}

	co.state = STATE_SUSPENDED
	co.fib.yield(value)
	co.state = STATE_RUNNING

	return
}
