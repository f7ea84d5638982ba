package multiboot

import (
	"encoding/binary"
	"log"
)

const (
	HEADER_WORDS = 96 // ROM header, as halfwords
	MAX_CLIENTS  = 3
	DETECT_TRIES = 16

	CMD_HANDSHAKE = uint16(0x6200)
	CMD_CONFIRM   = uint16(0x6100)
	CMD_PALETTE   = uint16(0x6300)
	CMD_BEGIN     = uint16(0x6400)
	CMD_DONE      = uint16(0x0065)
	CMD_CRC       = uint16(0x0066)

	RESP_CLIENT  = uint16(0x7200)
	RESP_HEADER  = uint16(0x6000)
	RESP_PALETTE = uint16(0x7300)
	RESP_DONE    = uint16(0x0075)

	// Payload scrambling, per the firmware scheme: a multiplicative
	// seed stream whitened with the load address and a fixed word.
	SEED_BASE = uint32(0xFFFF_0000)
	SEED_MULT = uint32(0x6F64_6573)
	SEED_INC  = uint32(1)
	FINAL_XOR = uint32(0x4320_2F2F)
	LOAD_ADDR = uint32(0x0200_00C0)

	CRC_INIT = uint32(0xC387)

	HANDSHAKE_BIAS = uint8(0x11)
)

// clientBit returns the slot bit a client answers with: slots 1 to 3
// of the multiplayer bus, bits 1 to 3.
func clientBit(slot int) uint16 {
	return 1 << (slot + 1)
}

// Link is one 16-bit multiplayer transfer: the master clocks send out
// and receives one halfword from each of the three client slots.
type Link interface {
	Transfer(send uint16) (recv [3]uint16, err error)
}

// Param describes one bootstrap transfer. Callbacks may be nil; a
// non-nil progress callback cancels the transfer by returning nonzero,
// and Accept gates the payload phase by returning nonzero.
type Param struct {
	Header  []uint16 // ROM header image, HEADER_WORDS halfwords.
	Data    []byte   // Payload, word-aligned length.
	Palette int      // Client boot palette selector.

	ClientsConnected func(mask int) int
	HeaderProgress   func(prog int) int
	PaletteProgress  func(mask int) int
	Accept           func() int
}

// Multiboot runs a complete bootstrap transfer over the link: detect,
// confirm, header, palette, handshake, scrambled payload, checksum.
func Multiboot(link Link, param *Param) (err error) {
	if len(param.Header) != HEADER_WORDS {
		err = ErrHeaderSize
		return
	}
	if len(param.Data) == 0 || (len(param.Data)%4) != 0 {
		err = ErrDataSize
		return
	}

	// Detect clients.
	var mask uint16
	for range DETECT_TRIES {
		var recv [3]uint16
		recv, err = link.Transfer(CMD_HANDSHAKE)
		if err != nil {
			return
		}

		mask = 0
		for slot, r := range recv {
			if r == RESP_CLIENT|clientBit(slot) {
				mask |= clientBit(slot)
			}
		}
		if mask != 0 {
			break
		}
	}
	if mask == 0 {
		err = ErrNoClients
		return
	}
	if param.ClientsConnected != nil && param.ClientsConnected(int(mask)) != 0 {
		err = ErrCancelled
		return
	}

	// Confirm the detected set.
	recv, err := link.Transfer(CMD_CONFIRM | mask)
	if err != nil {
		return
	}
	err = expect(recv, mask, RESP_CLIENT)
	if err != nil {
		return
	}

	// Header, one halfword per transfer; clients count down the
	// remaining halfwords.
	for n, half := range param.Header {
		recv, err = link.Transfer(half)
		if err != nil {
			return
		}
		remain := RESP_HEADER | uint16(HEADER_WORDS-n)
		for slot := range recv {
			if (mask&clientBit(slot)) != 0 && recv[slot] != remain {
				err = ErrClientFailure
				return
			}
		}
		if param.HeaderProgress != nil && param.HeaderProgress(n+1) != 0 {
			err = ErrCancelled
			return
		}
	}

	// End of header: expect the zero count, then re-confirm.
	recv, err = link.Transfer(CMD_HANDSHAKE)
	if err != nil {
		return
	}
	err = expect(recv, mask, RESP_HEADER)
	if err != nil {
		return
	}
	recv, err = link.Transfer(CMD_HANDSHAKE | mask)
	if err != nil {
		return
	}
	err = expect(recv, mask, RESP_CLIENT)
	if err != nil {
		return
	}

	// Palette: each client answers with its handshake key byte.
	pal := uint16(param.Palette) & 0xff
	recv, err = link.Transfer(CMD_PALETTE | pal)
	if err != nil {
		return
	}
	var keys [MAX_CLIENTS]uint8
	var seen uint16
	for slot := range recv {
		if (mask & clientBit(slot)) == 0 {
			continue
		}
		if (recv[slot] & 0xff00) != RESP_PALETTE {
			err = ErrClientFailure
			return
		}
		keys[slot] = uint8(recv[slot])
		seen |= clientBit(slot)
	}
	if param.PaletteProgress != nil && param.PaletteProgress(int(seen)) != 0 {
		err = ErrCancelled
		return
	}

	// The application decides when the payload may begin.
	if param.Accept != nil && param.Accept() == 0 {
		err = ErrCancelled
		return
	}

	hh := HANDSHAKE_BIAS + keys[0] + keys[1] + keys[2]
	recv, err = link.Transfer(CMD_BEGIN | uint16(hh))
	if err != nil {
		return
	}
	for slot := range recv {
		if (mask&clientBit(slot)) != 0 && recv[slot] != RESP_PALETTE|uint16(keys[slot]) {
			err = ErrClientFailure
			return
		}
	}

	// Payload: word count, then the scrambled word stream as halfword
	// pairs, low half first.
	words := len(param.Data) / 4
	_, err = link.Transfer(uint16(words))
	if err != nil {
		return
	}

	seed := SEED_BASE | uint32(hh)<<8 | uint32(pal)
	crc := CRC_INIT
	for n := range words {
		word := binary.LittleEndian.Uint32(param.Data[n*4:])
		seed = seed*SEED_MULT + SEED_INC
		enc := word ^ seed ^ (LOAD_ADDR + uint32(n)*4) ^ FINAL_XOR

		_, err = link.Transfer(uint16(enc))
		if err != nil {
			return
		}
		_, err = link.Transfer(uint16(enc >> 16))
		if err != nil {
			return
		}

		crc = (crc + (enc >> 16) + (enc & 0xffff)) & 0xffff
	}

	// Final checksum exchange.
	recv, err = link.Transfer(CMD_DONE)
	if err != nil {
		return
	}
	for slot := range recv {
		if (mask&clientBit(slot)) != 0 && recv[slot] != RESP_DONE {
			err = ErrClientFailure
			return
		}
	}
	_, err = link.Transfer(CMD_CRC)
	if err != nil {
		return
	}
	recv, err = link.Transfer(uint16(crc))
	if err != nil {
		return
	}
	for slot := range recv {
		if (mask&clientBit(slot)) != 0 && recv[slot] != uint16(crc) {
			log.Printf("multiboot: slot %v crc %#04x, want %#04x",
				slot, recv[slot], uint16(crc))
			err = ErrChecksum
			return
		}
	}

	return
}

// expect checks that every present client answered base plus its slot
// bit; RESP_HEADER expects the bare base (a zero remaining count).
func expect(recv [3]uint16, mask uint16, base uint16) (err error) {
	for slot := range recv {
		if (mask & clientBit(slot)) == 0 {
			continue
		}
		want := base
		if base != RESP_HEADER {
			want |= clientBit(slot)
		}
		if recv[slot] != want {
			err = ErrClientFailure
			return
		}
	}

	return
}
