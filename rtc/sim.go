package rtc

import (
	"log"
)

// Sim is a simulated S3511A behind the Port interface. It decodes the
// same wire protocol the driver emits: command bits sampled on the
// rising clock edge, response bits driven on the falling edge, write
// data committed when the chip is deselected.
type Sim struct {
	Verbose bool // Set to enable verbose logging.

	Status uint8    // Status register.
	Time   [3]uint8 // Hour, minute, second, raw BCD.
	Date   [4]uint8 // Year, month, day, weekday, raw BCD.

	pins     uint16
	dir      uint16
	selected bool

	cmd     uint8
	cmdBits int
	haveCmd bool

	dataBits []uint8 // Write-data bits, in arrival order.

	resp    []uint8 // Read-response bytes.
	respPos int     // Next response bit index.
	outBit  uint16
}

var _ Port = (*Sim)(nil)

// NewSim creates a freshly powered clock: power-failure flag set,
// everything else clear.
func NewSim() (sim *Sim) {
	sim = &Sim{
		Status: STATUS_POWER,
	}

	return
}

// Data returns the pin state. While a read command is shifting out,
// the data line carries the chip's output bit in place of the last
// driven value.
func (sim *Sim) Data() (pins uint16) {
	pins = sim.pins
	if sim.selected && sim.haveCmd && (sim.cmd&1) != 0 && (sim.dir&PIN_SIO) == 0 {
		pins = (pins &^ PIN_SIO) | (sim.outBit << 1)
	}

	return
}

// SetData drives the pins and advances the protocol state machine on
// select and clock edges.
func (sim *Sim) SetData(pins uint16) {
	prev := sim.pins
	sim.pins = pins

	csRose := (pins&PIN_CS) != 0 && (prev&PIN_CS) == 0
	csFell := (pins&PIN_CS) == 0 && (prev&PIN_CS) != 0
	sckRose := (pins&PIN_SCK) != 0 && (prev&PIN_SCK) == 0
	sckFell := (pins&PIN_SCK) == 0 && (prev&PIN_SCK) != 0

	switch {
	case csRose:
		sim.selected = true
		sim.cmd = 0
		sim.cmdBits = 0
		sim.haveCmd = false
		sim.dataBits = nil
		sim.resp = nil
		sim.respPos = 0
	case csFell:
		if sim.selected {
			sim.commit()
		}
		sim.selected = false
	}

	if !sim.selected {
		return
	}

	if sckRose && (sim.dir&PIN_SIO) != 0 {
		bit := uint8(pins>>1) & 1
		if !sim.haveCmd {
			// Command arrives most-significant bit first.
			sim.cmd = (sim.cmd << 1) | bit
			sim.cmdBits++
			if sim.cmdBits == 8 {
				sim.decode()
			}
		} else if (sim.cmd & 1) == 0 {
			sim.dataBits = append(sim.dataBits, bit)
		}
	}

	if sckFell && sim.haveCmd && (sim.cmd&1) != 0 {
		// Drive the next response bit, least-significant first.
		sim.outBit = 0
		if sim.respPos < len(sim.resp)*8 {
			value := sim.resp[sim.respPos/8]
			sim.outBit = uint16((value >> (sim.respPos % 8)) & 1)
			sim.respPos++
		}
	}
}

func (sim *Sim) SetDirection(pins uint16) {
	sim.dir = pins
}

func (sim *Sim) SetControl(enable uint16) {
	// Readback gating has no observable effect on the simulation.
}

// decode interprets a completed command byte. Commands without the
// fixed 0110 prefix are ignored.
func (sim *Sim) decode() {
	if (sim.cmd >> 4) != 0x6 {
		return
	}
	sim.haveCmd = true

	index := (sim.cmd >> 1) & 7
	read := (sim.cmd & 1) != 0

	if sim.Verbose {
		log.Printf("rtc: sim command %v read %v", index, read)
	}

	if !read {
		if index == CMD_RESET {
			sim.reset()
		}
		return
	}

	switch index {
	case CMD_STATUS:
		sim.resp = []uint8{sim.Status}
	case CMD_TIME:
		sim.resp = []uint8{sim.Time[0], sim.Time[1], sim.Time[2]}
	case CMD_DATETIME:
		sim.resp = []uint8{
			sim.Date[0], sim.Date[1], sim.Date[2], sim.Date[3],
			sim.Time[0], sim.Time[1], sim.Time[2],
		}
	}
}

// commit applies a completed write command once the chip is
// deselected. Short or overlong transfers are discarded.
func (sim *Sim) commit() {
	if !sim.haveCmd || (sim.cmd&1) != 0 {
		return
	}

	var data []uint8
	for n := 0; n+8 <= len(sim.dataBits); n += 8 {
		var value uint8
		for b := range 8 {
			value |= sim.dataBits[n+b] << b
		}
		data = append(data, value)
	}

	switch (sim.cmd >> 1) & 7 {
	case CMD_STATUS:
		if len(data) == 1 {
			sim.Status = data[0]
		}
	case CMD_TIME:
		if len(data) == 3 {
			copy(sim.Time[:], data)
		}
	case CMD_DATETIME:
		if len(data) == 7 {
			copy(sim.Date[:], data[0:4])
			copy(sim.Time[:], data[4:7])
		}
	}
}

func (sim *Sim) reset() {
	sim.Status = 0
	sim.Time = [3]uint8{}
	sim.Date = [4]uint8{}
}
