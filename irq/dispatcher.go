package irq

import (
	"log"

	"github.com/asiekierka/agbabi/hw"
)

// Handler is the user interrupt callback. It is invoked with the
// bitmask of the lines just acknowledged, running with the master
// enable bit set, so any other enabled pending source preempts it.
type Handler func(lines hw.Irq)

// Dispatcher owns the two dispatch entry points and the single user
// callback slot. The slot is written exactly once, before interrupts
// are unmasked; it is never rewritten during dispatch.
type Dispatcher struct {
	Verbose bool // Set to enable verbose logging.

	regs hw.Regs
	fn   Handler
}

// NewDispatcher creates a dispatcher over the given register surface.
func NewDispatcher(regs hw.Regs) (d *Dispatcher) {
	d = &Dispatcher{
		regs: regs,
	}

	return
}

// Install sets the user callback slot. The slot may be written exactly
// once, and only while the master enable bit is still clear.
func (d *Dispatcher) Install(fn Handler) (err error) {
	if fn == nil {
		err = ErrHandlerNil
		return
	}
	if d.fn != nil {
		err = ErrHandlerSet
		return
	}
	if d.regs.Ime() {
		err = ErrUnmasked
		return
	}

	d.fn = fn

	return
}

// EmptyVector returns the acknowledge-only entry point for installation
// into the exception vector table.
func (d *Dispatcher) EmptyVector() hw.Vector {
	return d.empty
}

// UserVector returns the nested dispatch entry point for installation
// into the exception vector table.
func (d *Dispatcher) UserVector() hw.Vector {
	return d.user
}

// empty acknowledges the enabled-and-pending lines in the pending
// register and the firmware shadow, and nothing else. Lowest-latency
// handling for applications that only need acknowledgement.
func (d *Dispatcher) empty() {
	regs := d.regs

	lines := regs.Ie() & regs.Iflag()
	regs.Ack(lines)
	regs.AckShadow(lines)
}

// user is the nested dispatch sequence. The acknowledged lines are
// masked out of the enable register for the duration of the callback,
// so they cannot immediately re-trigger; every other enabled source
// remains live and preempts the callback through the re-enabled master
// bit. Two priority tiers, implemented purely through mode switching.
func (d *Dispatcher) user() {
	regs := d.regs

	lines := regs.Ie() & regs.Iflag()
	regs.Ack(lines)
	regs.AckShadow(lines)

	if d.Verbose {
		log.Printf("irq: dispatch %#04x", uint16(lines))
	}

	regs.SetIe(regs.Ie() &^ lines)
	regs.SetIme(false)

	// System mode preserves the link register across a nested exception
	// and permits the master bit to be set again. The saved status
	// register and the line mask are the register window held across
	// the callback; the host call stack carries them.
	saved := regs.Cpsr()
	regs.SetCpsr(hw.MODE_SYSTEM)

	regs.SetIme(true)
	if fn := d.fn; fn != nil {
		fn(lines)
	}
	// The callback may have toggled the master bit; clear it
	// unconditionally before leaving system mode.
	regs.SetIme(false)

	regs.SetCpsr(saved)

	// Restore the lines masked above. If the callback modified the
	// enable register for these lines, this write races with that
	// modification; the callback contract forbids it.
	regs.SetIe(regs.Ie() | lines)
	regs.SetIme(true)
}
