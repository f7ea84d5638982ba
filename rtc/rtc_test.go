package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// deadPort is a port with nothing wired to it: the data line floats
// high and every read comes back all ones.
type deadPort struct{}

func (deadPort) Data() uint16        { return PIN_SIO }
func (deadPort) SetData(uint16)      {}
func (deadPort) SetDirection(uint16) {}
func (deadPort) SetControl(uint16)   {}

var _ Port = deadPort{}

func TestInit_NoClock(t *testing.T) {
	assert := assert.New(t)

	rtc := New(deadPort{})
	assert.ErrorIs(rtc.Init(), ErrNoClock)
}

func TestInit_PowerFailure(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	rtc := New(sim)

	// A freshly powered clock carries the power-failure flag; Init
	// resets it and selects 24-hour mode.
	assert.Equal(STATUS_POWER, sim.Status)
	assert.NoError(rtc.Init())
	assert.Equal(STATUS_24HOUR, sim.Status)

	// A second Init finds the clock healthy and leaves it alone.
	sim.Time = [3]uint8{0x12, 0x34, 0x56}
	assert.NoError(rtc.Init())
	assert.Equal([3]uint8{0x12, 0x34, 0x56}, sim.Time)
}

func TestStatus_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	rtc := New(sim)

	rtc.SetStatus(STATUS_24HOUR | STATUS_INTME)
	assert.Equal(STATUS_24HOUR|STATUS_INTME, sim.Status)
	assert.Equal(STATUS_24HOUR|STATUS_INTME, rtc.Status())
}

func TestTime_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	rtc := New(sim)
	assert.NoError(rtc.Init())

	// 23:59:58, raw BCD.
	rtc.SetTime(0x58_59_23)
	assert.Equal([3]uint8{0x23, 0x59, 0x58}, sim.Time)

	time, err := rtc.Time()
	assert.NoError(err)
	assert.Equal(uint32(0x58_59_23), time)
}

func TestTime_TestMode(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	rtc := New(sim)

	sim.Time = [3]uint8{0x80 | 0x23, 0x59, 0x58}
	time, err := rtc.Time()
	assert.ErrorIs(err, ErrTestMode)
	assert.Equal(uint32(0x58_59_A3), time)
}

func TestDateTime_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	rtc := New(sim)
	assert.NoError(rtc.Init())

	// Saturday 2026-08-29, 12:34:56.
	rtc.SetDateTime([2]uint32{0x56_34_12, 0x06_29_08_26})
	assert.Equal([4]uint8{0x26, 0x08, 0x29, 0x06}, sim.Date)
	assert.Equal([3]uint8{0x12, 0x34, 0x56}, sim.Time)

	datetime, err := rtc.DateTime()
	assert.NoError(err)
	assert.Equal([2]uint32{0x56_34_12, 0x06_29_08_26}, datetime)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	sim.Time = [3]uint8{0x12, 0x34, 0x56}
	sim.Date = [4]uint8{0x26, 0x08, 0x29, 0x06}

	rtc := New(sim)
	rtc.Reset()
	assert.Equal(uint8(0), sim.Status)
	assert.Equal([3]uint8{}, sim.Time)
	assert.Equal([4]uint8{}, sim.Date)
}
