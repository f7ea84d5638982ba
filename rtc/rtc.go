package rtc

import (
	"log"
)

// Cartridge GPIO register addresses and pin assignments.
const (
	REG_GPIO_DATA      = uint32(0x0800_00C4)
	REG_GPIO_DIRECTION = uint32(0x0800_00C6)
	REG_GPIO_CONTROL   = uint32(0x0800_00C8)

	PIN_SCK = uint16(1 << 0) // Serial clock
	PIN_SIO = uint16(1 << 1) // Serial data
	PIN_CS  = uint16(1 << 2) // Chip select
)

// S3511A command indexes.
const (
	CMD_RESET    = uint8(0) // Reset all clock registers
	CMD_STATUS   = uint8(1) // One status byte
	CMD_DATETIME = uint8(2) // Seven bytes: date then time
	CMD_TIME     = uint8(3) // Three bytes: hour, minute, second
)

// Status register bits.
const (
	STATUS_INTFE  = uint8(0x02) // Frequency interrupt enable
	STATUS_INTME  = uint8(0x08) // Per-minute interrupt enable
	STATUS_INTAE  = uint8(0x20) // Alarm interrupt enable
	STATUS_24HOUR = uint8(0x40) // 24-hour mode
	STATUS_POWER  = uint8(0x80) // Power-failure flag
)

// TIME_TEST is the test-mode flag carried in the hour byte of a time
// readout.
const TIME_TEST = uint32(0x80)

// Port is the cartridge GPIO register trio the clock is wired to.
// Direction bits are 1 for output; control enables readback.
type Port interface {
	Data() uint16
	SetData(pins uint16)
	SetDirection(pins uint16)
	SetControl(enable uint16)
}

// Rtc is the clock driver over a Port.
type Rtc struct {
	Verbose bool // Set to enable verbose logging.

	port Port
}

// New creates a driver over the given port.
func New(port Port) (rtc *Rtc) {
	rtc = &Rtc{
		port: port,
	}

	return
}

// begin selects the chip: readback enabled, all three lines driven,
// clock high, then select raised.
func (rtc *Rtc) begin() {
	rtc.port.SetControl(1)
	rtc.port.SetDirection(PIN_SCK | PIN_SIO | PIN_CS)
	rtc.port.SetData(PIN_SCK)
	rtc.port.SetData(PIN_SCK | PIN_CS)
}

// end deselects the chip.
func (rtc *Rtc) end() {
	rtc.port.SetData(PIN_SCK)
}

// writeByte shifts a byte out, one bit per clock, sampled by the chip
// on the rising edge. Command bytes pass msbFirst.
func (rtc *Rtc) writeByte(value uint8, msbFirst bool) {
	for n := range 8 {
		bit := (value >> n) & 1
		if msbFirst {
			bit = (value >> (7 - n)) & 1
		}

		sio := uint16(bit) << 1
		rtc.port.SetData(PIN_CS | sio)
		rtc.port.SetData(PIN_CS | PIN_SCK | sio)
	}
}

// readByte shifts a byte in, least-significant bit first. The chip
// drives the data line on the falling edge; the driver samples while
// the clock is low.
func (rtc *Rtc) readByte() (value uint8) {
	for n := range 8 {
		rtc.port.SetData(PIN_CS)
		if (rtc.port.Data() & PIN_SIO) != 0 {
			value |= 1 << n
		}
		rtc.port.SetData(PIN_CS | PIN_SCK)
	}

	return
}

// command issues a command byte: fixed 0110 prefix, three command
// bits, and the read flag.
func (rtc *Rtc) command(cmd uint8, read bool) {
	word := uint8(0x60) | (cmd << 1)
	if read {
		word |= 1
	}

	rtc.writeByte(word, true)
}

// read runs a read command and returns its data bytes.
func (rtc *Rtc) read(cmd uint8, count int) (data []uint8) {
	rtc.begin()
	rtc.command(cmd, true)

	rtc.port.SetDirection(PIN_SCK | PIN_CS)
	data = make([]uint8, count)
	for n := range data {
		data[n] = rtc.readByte()
	}

	rtc.end()

	return
}

// write runs a write command with the given data bytes.
func (rtc *Rtc) write(cmd uint8, data []uint8) {
	rtc.begin()
	rtc.command(cmd, false)

	for _, value := range data {
		rtc.writeByte(value, false)
	}

	rtc.end()
}

// Reset clears every clock register.
func (rtc *Rtc) Reset() {
	rtc.write(CMD_RESET, nil)
}

// Status returns the status byte.
func (rtc *Rtc) Status() (status uint8) {
	return rtc.read(CMD_STATUS, 1)[0]
}

// SetStatus writes the status byte.
func (rtc *Rtc) SetStatus(status uint8) {
	rtc.write(CMD_STATUS, []uint8{status})
}

// Init probes the clock and brings it to a usable state: a clock that
// reads all-ones is absent; a power-failure flag forces a reset and
// 24-hour mode.
func (rtc *Rtc) Init() (err error) {
	status := rtc.Status()
	if status == 0xff {
		err = ErrNoClock
		return
	}

	if (status & STATUS_POWER) != 0 {
		if rtc.Verbose {
			log.Printf("rtc: power failure, resetting")
		}
		rtc.Reset()
		rtc.SetStatus(STATUS_24HOUR)
	}

	return
}

// Time returns the current raw BCD time as hour, minute and second in
// the low three bytes. A clock in test mode is reported, not decoded.
func (rtc *Rtc) Time() (time uint32, err error) {
	data := rtc.read(CMD_TIME, 3)

	time = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	if (uint32(data[0]) & TIME_TEST) != 0 {
		err = ErrTestMode
		return
	}

	return
}

// SetTime writes the raw BCD time: hour, minute and second in the low
// three bytes.
func (rtc *Rtc) SetTime(time uint32) {
	rtc.write(CMD_TIME, []uint8{
		uint8(time),
		uint8(time >> 8),
		uint8(time >> 16),
	})
}

// DateTime returns the raw BCD time and date words. The time word is
// laid out as in Time; the date word carries year, month, day and
// weekday in ascending bytes.
func (rtc *Rtc) DateTime() (datetime [2]uint32, err error) {
	data := rtc.read(CMD_DATETIME, 7)

	datetime[0] = uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16
	datetime[1] = uint32(data[0]) | uint32(data[1])<<8 |
		uint32(data[2])<<16 | uint32(data[3])<<24

	if (datetime[0] & TIME_TEST) != 0 {
		err = ErrTestMode
		return
	}

	return
}

// SetDateTime writes the raw BCD time and date words, laid out as in
// DateTime.
func (rtc *Rtc) SetDateTime(datetime [2]uint32) {
	rtc.write(CMD_DATETIME, []uint8{
		uint8(datetime[1]),
		uint8(datetime[1] >> 8),
		uint8(datetime[1] >> 16),
		uint8(datetime[1] >> 24),
		uint8(datetime[0]),
		uint8(datetime[0] >> 8),
		uint8(datetime[0] >> 16),
	})
}
