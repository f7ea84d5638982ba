package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asiekierka/agbabi/coro"
	"github.com/asiekierka/agbabi/hw"
	"github.com/asiekierka/agbabi/multiboot"
	"github.com/asiekierka/agbabi/rtc"
)

func TestMachine_Dispatch(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.Reset()

	var lines []hw.Irq
	assert.NoError(m.Dispatcher.Install(func(l hw.Irq) {
		lines = append(lines, l)
	}))

	m.Regs.SetIe(hw.IRQ_VBLANK | hw.IRQ_TIMER0)
	m.Regs.SetIme(true)

	m.Regs.Raise(hw.IRQ_VBLANK)
	m.Regs.Raise(hw.IRQ_TIMER0)
	assert.Equal([]hw.Irq{hw.IRQ_VBLANK, hw.IRQ_TIMER0}, lines)
	assert.Equal(0, m.Regs.Depth())
}

// A coroutine suspends and resumes across interrupt deliveries with its
// stack-held state intact.
func TestMachine_CoroutineUnderInterrupts(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.Reset()

	var handled int
	assert.NoError(m.Dispatcher.Install(func(l hw.Irq) {
		handled++
	}))
	m.Regs.SetIe(hw.IRQ_VBLANK)
	m.Regs.SetIme(true)

	var co coro.Context
	assert.NoError(coro.Make(&co, 0x03007F00, func(co *coro.Context) int32 {
		sum := int32(0)
		for n := int32(1); n <= 3; n++ {
			sum += n
			m.Regs.Raise(hw.IRQ_VBLANK)
			assert.NoError(co.Yield(sum))
		}
		return sum
	}))

	for _, want := range []int32{1, 3, 6} {
		value, err := co.Resume()
		assert.NoError(err)
		assert.Equal(want, value)
	}

	value, err := co.Resume()
	assert.NoError(err)
	assert.Equal(int32(6), value)
	assert.True(co.Joined())
	assert.Equal(3, handled)
}

func TestMachine_RtcAndLink(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.Reset()

	assert.NoError(m.Rtc.Init())
	assert.Equal(rtc.STATUS_24HOUR, m.RtcSim.Status)

	header := make([]uint16, multiboot.HEADER_WORDS)
	data := make([]byte, 8)
	for n := range data {
		data[n] = byte(n + 1)
	}
	assert.NoError(multiboot.Multiboot(m.Link, &multiboot.Param{
		Header: header,
		Data:   data,
	}))
	assert.Equal(data, m.Link.Received)
}

func TestMachine_Defines(t *testing.T) {
	assert := assert.New(t)

	m := New()

	defines := map[string]string{}
	for k, v := range m.Defines() {
		defines[k] = v
	}
	assert.Equal("0x1", defines["IRQ_VBLANK"])
	assert.Equal("0x4000200", defines["REG_IE"])
	assert.Equal("0x80", defines["RTC_STATUS_POWER"])
	assert.Equal("96", defines["MB_HEADER_WORDS"])
}
