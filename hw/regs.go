package hw

import (
	"fmt"
	"iter"
	"maps"
)

// Irq is a bitmask of hardware interrupt request lines.
type Irq uint16

// Interrupt request lines.
const (
	IRQ_VBLANK  = Irq(1 << 0)  // Vertical blank
	IRQ_HBLANK  = Irq(1 << 1)  // Horizontal blank
	IRQ_VCOUNT  = Irq(1 << 2)  // Scanline match
	IRQ_TIMER0  = Irq(1 << 3)  // Timer 0 overflow
	IRQ_TIMER1  = Irq(1 << 4)  // Timer 1 overflow
	IRQ_TIMER2  = Irq(1 << 5)  // Timer 2 overflow
	IRQ_TIMER3  = Irq(1 << 6)  // Timer 3 overflow
	IRQ_SERIAL  = Irq(1 << 7)  // Serial communication
	IRQ_DMA0    = Irq(1 << 8)  // DMA 0 complete
	IRQ_DMA1    = Irq(1 << 9)  // DMA 1 complete
	IRQ_DMA2    = Irq(1 << 10) // DMA 2 complete
	IRQ_DMA3    = Irq(1 << 11) // DMA 3 complete
	IRQ_KEYPAD  = Irq(1 << 12) // Key input match
	IRQ_GAMEPAK = Irq(1 << 13) // Cartridge removal

	IRQ_ALL = Irq(1<<14 - 1) // All defined lines
)

// Memory-mapped register addresses.
const (
	REG_IE     = uint32(0x0400_0200) // Interrupt enable
	REG_IF     = uint32(0x0400_0202) // Interrupt pending, write-one-to-clear
	REG_IME    = uint32(0x0400_0208) // Interrupt master enable
	MEM_IFBIOS = uint32(0x03FF_FFF8) // Firmware pending-shadow word
)

// Psr is the CPU status register: the processor mode in the low five
// bits, and the IRQ disable flag.
type Psr uint32

const (
	MODE_USER       = Psr(0x10) // User mode
	MODE_FIQ        = Psr(0x11) // Fast interrupt mode
	MODE_IRQ        = Psr(0x12) // Interrupt mode
	MODE_SUPERVISOR = Psr(0x13) // Supervisor mode
	MODE_SYSTEM     = Psr(0x1f) // System mode

	PSR_MODE_MASK = Psr(0x1f)
	PSR_IRQ_OFF   = Psr(1 << 7) // IRQ exceptions masked at the CPU
)

// Mode returns the processor mode bits of the status register.
func (psr Psr) Mode() Psr {
	return psr & PSR_MODE_MASK
}

// IrqOff reports whether IRQ exceptions are masked at the CPU.
func (psr Psr) IrqOff() bool {
	return (psr & PSR_IRQ_OFF) != 0
}

// Regs is the register-access interface interrupt protocol code runs
// against. IF and the firmware shadow are acknowledged by line mask;
// all other registers are plain read/write.
type Regs interface {
	// Ie returns the interrupt enable register.
	Ie() Irq
	// SetIe replaces the interrupt enable register.
	SetIe(lines Irq)
	// Iflag returns the interrupt pending register.
	Iflag() Irq
	// Ack acknowledges lines in the pending register (write-one-to-clear).
	Ack(lines Irq)
	// Ime returns the interrupt master enable bit.
	Ime() bool
	// SetIme sets the interrupt master enable bit.
	SetIme(enable bool)
	// Shadow returns the firmware pending-shadow word.
	Shadow() Irq
	// AckShadow merges lines into the firmware pending-shadow word.
	AckShadow(lines Irq)
	// Cpsr returns the CPU status register.
	Cpsr() Psr
	// SetCpsr replaces the CPU status register.
	SetCpsr(psr Psr)
}

var _hw_defines = map[string]string{
	"IRQ_VBLANK":  fmt.Sprintf("%#x", uint16(IRQ_VBLANK)),
	"IRQ_HBLANK":  fmt.Sprintf("%#x", uint16(IRQ_HBLANK)),
	"IRQ_VCOUNT":  fmt.Sprintf("%#x", uint16(IRQ_VCOUNT)),
	"IRQ_TIMER0":  fmt.Sprintf("%#x", uint16(IRQ_TIMER0)),
	"IRQ_TIMER1":  fmt.Sprintf("%#x", uint16(IRQ_TIMER1)),
	"IRQ_TIMER2":  fmt.Sprintf("%#x", uint16(IRQ_TIMER2)),
	"IRQ_TIMER3":  fmt.Sprintf("%#x", uint16(IRQ_TIMER3)),
	"IRQ_SERIAL":  fmt.Sprintf("%#x", uint16(IRQ_SERIAL)),
	"IRQ_DMA0":    fmt.Sprintf("%#x", uint16(IRQ_DMA0)),
	"IRQ_DMA1":    fmt.Sprintf("%#x", uint16(IRQ_DMA1)),
	"IRQ_DMA2":    fmt.Sprintf("%#x", uint16(IRQ_DMA2)),
	"IRQ_DMA3":    fmt.Sprintf("%#x", uint16(IRQ_DMA3)),
	"IRQ_KEYPAD":  fmt.Sprintf("%#x", uint16(IRQ_KEYPAD)),
	"IRQ_GAMEPAK": fmt.Sprintf("%#x", uint16(IRQ_GAMEPAK)),
	"REG_IE":      fmt.Sprintf("%#x", REG_IE),
	"REG_IF":      fmt.Sprintf("%#x", REG_IF),
	"REG_IME":     fmt.Sprintf("%#x", REG_IME),
	"MEM_IFBIOS":  fmt.Sprintf("%#x", MEM_IFBIOS),
}

// Defines returns the symbolic constants of the register surface.
func Defines() iter.Seq2[string, string] {
	return maps.All(_hw_defines)
}
