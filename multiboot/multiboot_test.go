package multiboot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testHeader() (header []uint16) {
	header = make([]uint16, HEADER_WORDS)
	for n := range header {
		header[n] = uint16(0x1000 + n)
	}

	return
}

func testData(words int) (data []byte) {
	data = make([]byte, words*4)
	for n := range data {
		data[n] = byte(n*13 + 47)
	}

	return
}

func TestMultiboot(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim(0, 2)
	param := &Param{
		Header:  testHeader(),
		Data:    testData(17),
		Palette: 0x81,
	}

	assert.NoError(Multiboot(sim, param))
	assert.Equal(param.Header, sim.Header[:])
	assert.Equal(param.Data, sim.Received)
	assert.Equal(uint8(0x81), sim.Palette)
}

func TestMultiboot_Callbacks(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim(1)
	var clients, headers, palettes, accepts int
	param := &Param{
		Header:  testHeader(),
		Data:    testData(2),
		Palette: 0x01,
		ClientsConnected: func(mask int) int {
			clients = mask
			return 0
		},
		HeaderProgress: func(prog int) int {
			headers = prog
			return 0
		},
		PaletteProgress: func(mask int) int {
			palettes = mask
			return 0
		},
		Accept: func() int {
			accepts++
			return 1
		},
	}

	assert.NoError(Multiboot(sim, param))
	assert.Equal(int(clientBit(1)), clients)
	assert.Equal(HEADER_WORDS, headers)
	assert.Equal(int(clientBit(1)), palettes)
	assert.Equal(1, accepts)
}

func TestMultiboot_NoClients(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim()
	param := &Param{
		Header: testHeader(),
		Data:   testData(1),
	}

	assert.ErrorIs(Multiboot(sim, param), ErrNoClients)
}

func TestMultiboot_BadSizes(t *testing.T) {
	assert := assert.New(t)

	sim := NewSim(0)

	param := &Param{
		Header: make([]uint16, HEADER_WORDS-1),
		Data:   testData(1),
	}
	assert.ErrorIs(Multiboot(sim, param), ErrHeaderSize)

	param = &Param{
		Header: testHeader(),
	}
	assert.ErrorIs(Multiboot(sim, param), ErrDataSize)

	param = &Param{
		Header: testHeader(),
		Data:   make([]byte, 6),
	}
	assert.ErrorIs(Multiboot(sim, param), ErrDataSize)
}

func TestMultiboot_Cancelled(t *testing.T) {
	assert := assert.New(t)

	param := &Param{
		Header: testHeader(),
		Data:   testData(1),
		ClientsConnected: func(mask int) int {
			return 1
		},
	}
	assert.ErrorIs(Multiboot(NewSim(0), param), ErrCancelled)

	param = &Param{
		Header: testHeader(),
		Data:   testData(1),
		Accept: func() int {
			return 0
		},
	}
	assert.ErrorIs(Multiboot(NewSim(0), param), ErrCancelled)
}
