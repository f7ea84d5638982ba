package irq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asiekierka/agbabi/hw"
)

func TestInstall(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)

	err := d.Install(func(lines hw.Irq) {})
	assert.NoError(err)

	err = d.Install(func(lines hw.Irq) {})
	assert.ErrorIs(err, ErrHandlerSet)
}

func TestInstall_Nil(t *testing.T) {
	assert := assert.New(t)

	d := NewDispatcher(hw.NewRegisterFile())
	err := d.Install(nil)
	assert.ErrorIs(err, ErrHandlerNil)
}

func TestInstall_AfterUnmask(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)

	rf.SetIme(true)
	err := d.Install(func(lines hw.Irq) {})
	assert.ErrorIs(err, ErrUnmasked)
}

// The minimal handler acknowledges exactly the enabled-and-pending
// lines in the pending register and the firmware shadow, and performs
// no other observable register write.
func TestEmpty_AcknowledgesExactly(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)
	rf.InstallVector(d.EmptyVector())

	rf.SetIe(hw.IRQ_VBLANK | hw.IRQ_TIMER0)
	rf.SetIme(true)

	// TIMER1 is pending but not enabled; it must survive untouched.
	rf.Journal = nil
	rf.Raise(hw.IRQ_VBLANK | hw.IRQ_TIMER0 | hw.IRQ_TIMER1)

	lines := hw.IRQ_VBLANK | hw.IRQ_TIMER0
	want := []hw.Write{
		{Addr: hw.REG_IF, Value: uint32(lines)},
		{Addr: hw.MEM_IFBIOS, Value: uint32(lines)},
	}
	assert.Equal(want, rf.Journal)

	assert.Equal(hw.IRQ_TIMER1, rf.Iflag())
	assert.Equal(lines, rf.Shadow())
}

// With a callback that leaves the enable register alone, the nested
// handler restores it byte for byte and invokes the callback exactly
// once with the acknowledged mask.
func TestUser_CallbackOnce(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)
	rf.InstallVector(d.UserVector())

	calls := 0
	var got hw.Irq
	err := d.Install(func(lines hw.Irq) {
		calls++
		got = lines
	})
	assert.NoError(err)

	rf.SetIe(hw.IRQ_VBLANK | hw.IRQ_HBLANK)
	rf.SetIme(true)
	rf.Raise(hw.IRQ_VBLANK | hw.IRQ_HBLANK)

	assert.Equal(1, calls)
	assert.Equal(hw.IRQ_VBLANK|hw.IRQ_HBLANK, got)
	assert.Equal(hw.IRQ_VBLANK|hw.IRQ_HBLANK, rf.Ie())
	assert.Equal(hw.Irq(0), rf.Iflag())
	assert.Equal(hw.IRQ_VBLANK|hw.IRQ_HBLANK, rf.Shadow())
	assert.True(rf.Ime())
}

// During the callback the acknowledged lines are masked out of the
// enable register and the master bit is set; both are restored after.
func TestUser_EnableWindow(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)
	rf.InstallVector(d.UserVector())

	var duringIe hw.Irq
	var duringIme bool
	var duringMode hw.Psr
	err := d.Install(func(lines hw.Irq) {
		duringIe = rf.Ie()
		duringIme = rf.Ime()
		duringMode = rf.Cpsr().Mode()
	})
	assert.NoError(err)

	rf.SetIe(hw.IRQ_VBLANK | hw.IRQ_SERIAL)
	rf.SetIme(true)
	rf.Raise(hw.IRQ_VBLANK)

	assert.Equal(hw.IRQ_SERIAL, duringIe)
	assert.True(duringIme)
	assert.Equal(hw.MODE_SYSTEM, duringMode)

	assert.Equal(hw.IRQ_VBLANK|hw.IRQ_SERIAL, rf.Ie())
	assert.True(rf.Ime())
}

// A source raised while the callback runs preempts it: the nested
// dispatch completes before the preempted callback resumes.
func TestUser_Preemption(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)
	rf.InstallVector(d.UserVector())

	var events []string
	err := d.Install(func(lines hw.Irq) {
		switch lines {
		case hw.IRQ_VBLANK:
			events = append(events, "vblank-begin")
			rf.Raise(hw.IRQ_SERIAL)
			events = append(events, "vblank-end")
		case hw.IRQ_SERIAL:
			events = append(events, "serial")
		}
	})
	assert.NoError(err)

	rf.SetIe(hw.IRQ_VBLANK | hw.IRQ_SERIAL)
	rf.SetIme(true)
	rf.Raise(hw.IRQ_VBLANK)

	assert.Equal([]string{"vblank-begin", "serial", "vblank-end"}, events)
	assert.Equal(hw.IRQ_VBLANK|hw.IRQ_SERIAL, rf.Ie())
	assert.True(rf.Ime())
	assert.Equal(hw.Irq(0), rf.Iflag())
}

// The acknowledged lines cannot preempt their own callback: they are
// masked out of the enable register for its duration.
func TestUser_NoSelfPreemption(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)
	rf.InstallVector(d.UserVector())

	calls := 0
	err := d.Install(func(lines hw.Irq) {
		calls++
		if calls == 1 {
			// Re-raise the same line mid-callback; it stays pending
			// until the handler returns and restores the enable bits.
			rf.Raise(hw.IRQ_TIMER2)
		}
	})
	assert.NoError(err)

	rf.SetIe(hw.IRQ_TIMER2)
	rf.SetIme(true)
	rf.Raise(hw.IRQ_TIMER2)

	// The second dispatch happens after the first completes, not
	// nested inside it.
	assert.Equal(2, calls)
	assert.Equal(hw.Irq(0), rf.Iflag())
	assert.Equal(hw.IRQ_TIMER2, rf.Ie())
}

func TestUser_NoHandlerInstalled(t *testing.T) {
	assert := assert.New(t)

	rf := hw.NewRegisterFile()
	d := NewDispatcher(rf)
	rf.InstallVector(d.UserVector())

	rf.SetIe(hw.IRQ_KEYPAD)
	rf.SetIme(true)
	rf.Raise(hw.IRQ_KEYPAD)

	// Acknowledged and restored, with no callback to run.
	assert.Equal(hw.Irq(0), rf.Iflag())
	assert.Equal(hw.IRQ_KEYPAD, rf.Shadow())
	assert.Equal(hw.IRQ_KEYPAD, rf.Ie())
	assert.True(rf.Ime())
}
