package multiboot

import (
	"encoding/binary"
	"log"
)

// Sim phases, advancing in lockstep with the master's transfers.
const (
	phaseDetect = iota
	phaseHeader
	phaseHeaderEnd
	phaseConfirmEnd
	phasePalette
	phaseBegin
	phaseLength
	phaseDataLo
	phaseDataHi
	phaseDone
	phaseCrc
)

// Sim is a simulated bank of bootstrap clients behind the Link
// interface. All present clients advance in lockstep, as the real
// multiplayer bus clocks them; each answers from its current phase
// before the master's halfword is processed.
type Sim struct {
	Verbose bool // Set to enable verbose logging.

	Present [MAX_CLIENTS]bool  // Which slots hold a client.
	Keys    [MAX_CLIENTS]uint8 // Per-slot handshake key bytes.

	Header   [HEADER_WORDS]uint16 // Header as received.
	Received []byte               // Payload as received and descrambled.
	Palette  uint8                // Palette selector as received.
	Crc      uint32               // Running checksum.

	phase int
	n     int // Header or payload word index.
	words int
	lo    uint16
	hh    uint8
	seed  uint32
}

var _ Link = (*Sim)(nil)

// NewSim creates a client bank with the given slots populated and
// deterministic per-slot handshake keys.
func NewSim(slots ...int) (sim *Sim) {
	sim = &Sim{}
	for _, slot := range slots {
		sim.Present[slot] = true
		sim.Keys[slot] = 0x20 + uint8(slot)
	}

	return
}

// Transfer answers each present slot from its current phase, then
// processes the master's halfword.
func (sim *Sim) Transfer(send uint16) (recv [3]uint16, err error) {
	for slot := range recv {
		recv[slot] = 0xffff
		if sim.Present[slot] {
			recv[slot] = sim.respond(slot)
		}
	}

	sim.process(send)

	return
}

// respond returns the halfword a client has loaded for the next
// transfer.
func (sim *Sim) respond(slot int) (value uint16) {
	switch sim.phase {
	case phaseDetect:
		value = RESP_CLIENT | clientBit(slot)
	case phaseHeader:
		value = RESP_HEADER | uint16(HEADER_WORDS-sim.n)
	case phaseHeaderEnd:
		value = RESP_HEADER
	case phaseConfirmEnd:
		value = RESP_CLIENT | clientBit(slot)
	case phasePalette, phaseBegin:
		value = RESP_PALETTE | uint16(sim.Keys[slot])
	case phaseDone:
		value = RESP_DONE
	case phaseCrc:
		value = uint16(sim.Crc)
	}

	return
}

// process advances the shared phase on the master's halfword.
func (sim *Sim) process(send uint16) {
	switch sim.phase {
	case phaseDetect:
		if (send & 0xff00) == CMD_CONFIRM {
			sim.phase = phaseHeader
			sim.n = 0
		}
	case phaseHeader:
		sim.Header[sim.n] = send
		sim.n++
		if sim.n == HEADER_WORDS {
			sim.phase = phaseHeaderEnd
		}
	case phaseHeaderEnd:
		if send == CMD_HANDSHAKE {
			sim.phase = phaseConfirmEnd
		}
	case phaseConfirmEnd:
		if (send & 0xff00) == CMD_HANDSHAKE {
			sim.phase = phasePalette
		}
	case phasePalette:
		if (send & 0xff00) == CMD_PALETTE {
			sim.Palette = uint8(send)
			sim.phase = phaseBegin
		}
	case phaseBegin:
		if (send & 0xff00) == CMD_BEGIN {
			sim.hh = uint8(send)
			if sim.Verbose {
				log.Printf("multiboot: sim handshake %#02x", sim.hh)
			}
			sim.phase = phaseLength
		}
	case phaseLength:
		sim.words = int(send)
		sim.n = 0
		sim.seed = SEED_BASE | uint32(sim.hh)<<8 | uint32(sim.Palette)
		sim.Crc = CRC_INIT
		sim.Received = nil
		sim.phase = phaseDataLo
	case phaseDataLo:
		sim.lo = send
		sim.phase = phaseDataHi
	case phaseDataHi:
		enc := uint32(sim.lo) | uint32(send)<<16
		sim.seed = sim.seed*SEED_MULT + SEED_INC
		word := enc ^ sim.seed ^ (LOAD_ADDR + uint32(sim.n)*4) ^ FINAL_XOR

		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], word)
		sim.Received = append(sim.Received, buf[:]...)

		sim.Crc = (sim.Crc + (enc >> 16) + (enc & 0xffff)) & 0xffff
		sim.n++
		if sim.n == sim.words {
			sim.phase = phaseDone
		} else {
			sim.phase = phaseDataLo
		}
	case phaseDone:
		if send == CMD_CRC {
			sim.phase = phaseCrc
		}
	}
}
