package main

import (
	"fmt"
	"log"

	"go.starlark.net/starlark"

	"github.com/asiekierka/agbabi/coro"
	"github.com/asiekierka/agbabi/hw"
	"github.com/asiekierka/agbabi/machine"
	"github.com/asiekierka/agbabi/multiboot"
)

// Coroutine stacks are carved downward from the top of the simulated
// work RAM, one region per created coroutine.
const (
	STACK_TOP   = uint32(0x0300_7F00)
	STACK_WORDS = 512
)

// runner holds the machine a scenario script drives.
type runner struct {
	machine *machine.Machine

	nextStack uint32
}

// builtins returns the scenario builtins keyed by script name.
func (r *runner) builtins() map[string]*starlark.Builtin {
	return map[string]*starlark.Builtin{
		"raise_irq": starlark.NewBuiltin("raise_irq", r.raiseIrq),
		"ie":        starlark.NewBuiltin("ie", r.ie),
		"ime":       starlark.NewBuiltin("ime", r.ime),
		"pending":   starlark.NewBuiltin("pending", r.pending),
		"shadow":    starlark.NewBuiltin("shadow", r.shadow),
		"handler":   starlark.NewBuiltin("handler", r.handler),
		"coroutine": starlark.NewBuiltin("coroutine", r.coroutine),
		"rtc_init":  starlark.NewBuiltin("rtc_init", r.rtcInit),
		"rtc_time":  starlark.NewBuiltin("rtc_time", r.rtcTime),
		"multiboot": starlark.NewBuiltin("multiboot", r.multiboot),
	}
}

func (r *runner) raiseIrq(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var lines int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &lines); err != nil {
		return nil, err
	}

	r.machine.Regs.Raise(hw.Irq(lines))

	return starlark.None, nil
}

func (r *runner) ie(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var lines int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0, &lines); err != nil {
		return nil, err
	}

	if len(args) != 0 {
		r.machine.Regs.SetIe(hw.Irq(lines))
	}

	return starlark.MakeInt(int(r.machine.Regs.Ie())), nil
}

func (r *runner) ime(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var enable bool
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0, &enable); err != nil {
		return nil, err
	}

	if len(args) != 0 {
		r.machine.Regs.SetIme(enable)
	}

	return starlark.Bool(r.machine.Regs.Ime()), nil
}

func (r *runner) pending(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.MakeInt(int(r.machine.Regs.Iflag())), nil
}

func (r *runner) shadow(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.MakeInt(int(r.machine.Regs.Shadow())), nil
}

// handler installs a script function as the user interrupt callback.
func (r *runner) handler(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var callback starlark.Callable
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &callback); err != nil {
		return nil, err
	}

	err := r.machine.Dispatcher.Install(func(lines hw.Irq) {
		_, cerr := starlark.Call(thread, callback,
			starlark.Tuple{starlark.MakeInt(int(lines))}, nil)
		if cerr != nil {
			log.Printf("handler: %v", cerr)
		}
	})
	if err != nil {
		return nil, err
	}

	return starlark.None, nil
}

// coroutine creates a coroutine running a script function. The
// function receives the coroutine value and may suspend through it.
func (r *runner) coroutine(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var entry starlark.Callable
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &entry); err != nil {
		return nil, err
	}

	if r.nextStack == 0 {
		r.nextStack = STACK_TOP
	}
	spTop := r.nextStack
	r.nextStack -= STACK_WORDS * 4

	cv := &coroValue{entry: entry}
	err := coro.Make(&cv.co, spTop, cv.run)
	if err != nil {
		return nil, err
	}

	return cv, nil
}

func (r *runner) rtcInit(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	if err := r.machine.Rtc.Init(); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func (r *runner) rtcTime(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var time int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0, &time); err != nil {
		return nil, err
	}

	if len(args) != 0 {
		r.machine.Rtc.SetTime(uint32(time))
	}

	bcd, err := r.machine.Rtc.Time()
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(int(bcd)), nil
}

// multiboot sends a payload to the simulated client bank and returns
// the bytes the clients received and descrambled.
func (r *runner) multiboot(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var data starlark.Bytes
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &data); err != nil {
		return nil, err
	}

	param := &multiboot.Param{
		Header: make([]uint16, multiboot.HEADER_WORDS),
		Data:   []byte(data),
	}
	if err := multiboot.Multiboot(r.machine.Link, param); err != nil {
		return nil, err
	}

	return starlark.Bytes(r.machine.Link.Received), nil
}

// coroValue is a coroutine exposed to a scenario script, with resume
// and suspend methods.
type coroValue struct {
	co    coro.Context
	entry starlark.Callable
}

var _ starlark.HasAttrs = (*coroValue)(nil)

// run is the coroutine entry procedure: it calls the script function
// on its own starlark thread and returns its integer result.
func (cv *coroValue) run(co *coro.Context) int32 {
	thread := &starlark.Thread{
		Name: "coroutine",
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Println(msg)
		},
	}

	value, err := starlark.Call(thread, cv.entry, starlark.Tuple{cv}, nil)
	if err != nil {
		log.Printf("coroutine: %v", err)
		return -1
	}

	if n, ok := value.(starlark.Int); ok {
		v64, _ := n.Int64()
		return int32(v64)
	}

	return 0
}

func (cv *coroValue) String() string {
	return fmt.Sprintf("<coroutine %v>", cv.co.State())
}

func (cv *coroValue) Type() string { return "coroutine" }

func (cv *coroValue) Freeze() {}

func (cv *coroValue) Truth() starlark.Bool {
	return starlark.Bool(!cv.co.Joined())
}

func (cv *coroValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: coroutine")
}

func (cv *coroValue) AttrNames() []string {
	return []string{"joined", "resume", "suspend"}
}

func (cv *coroValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "joined":
		return starlark.Bool(cv.co.Joined()), nil
	case "resume":
		return starlark.NewBuiltin("resume", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			value, err := cv.co.Resume()
			if err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(value)), nil
		}), nil
	case "suspend":
		return starlark.NewBuiltin("suspend", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var value int
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &value); err != nil {
				return nil, err
			}
			if err := cv.co.Yield(int32(value)); err != nil {
				return nil, err
			}
			return starlark.None, nil
		}), nil
	}

	return nil, nil
}
