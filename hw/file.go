package hw

import (
	"log"
)

// Vector is an exception vector target. It is entered in interrupt mode
// with IRQ exceptions masked at the CPU, and must leave the register
// surface consistent before returning.
type Vector func()

// Write is one observable memory-mapped register write.
type Write struct {
	Addr  uint32
	Value uint32
}

// RegisterFile simulates the interrupt register surface.
//
// Exceptions are delivered synchronously: whenever the master enable bit
// is set, the CPU IRQ mask is clear, and an enabled line is pending, the
// installed vector runs with the status register switched to interrupt
// mode and the IRQ mask set, then the prior status register is restored.
// Any register write that newly satisfies the condition triggers
// delivery, which is what makes nested preemption observable on the
// host: re-enabling the master bit inside a handler immediately services
// any other enabled pending line.
type RegisterFile struct {
	Verbose bool // Set to enable verbose logging.

	Journal []Write // Observable register writes since the last Reset.

	ie     Irq
	iflag  Irq
	shadow Irq
	ime    bool
	cpsr   Psr
	vector Vector
	depth  int // Active exception nesting depth.
}

var _ Regs = (*RegisterFile)(nil)

// NewRegisterFile creates a register file in the post-reset state:
// everything masked and pending-clear, CPU in system mode.
func NewRegisterFile() (rf *RegisterFile) {
	rf = &RegisterFile{}
	rf.Reset()

	return
}

// Reset returns all registers to their post-reset state and clears the
// write journal. The installed vector is retained.
func (rf *RegisterFile) Reset() {
	rf.ie = 0
	rf.iflag = 0
	rf.shadow = 0
	rf.ime = false
	rf.cpsr = MODE_SYSTEM
	rf.depth = 0
	rf.Journal = nil
}

// InstallVector installs the exception vector target. This is the only
// path through which a handler entry point may execute.
func (rf *RegisterFile) InstallVector(v Vector) {
	rf.vector = v
}

// Depth returns the active exception nesting depth.
func (rf *RegisterFile) Depth() int {
	return rf.depth
}

// Raise marks lines pending, as the hardware would on an external
// event, and delivers an exception if the surface permits.
func (rf *RegisterFile) Raise(lines Irq) {
	if rf.Verbose {
		log.Printf("hw: raise %#04x", uint16(lines))
	}

	rf.iflag |= lines
	rf.deliver()
}

func (rf *RegisterFile) Ie() Irq {
	return rf.ie
}

func (rf *RegisterFile) SetIe(lines Irq) {
	rf.ie = lines
	rf.journal(REG_IE, uint32(lines))
	rf.deliver()
}

func (rf *RegisterFile) Iflag() Irq {
	return rf.iflag
}

// Ack clears lines from the pending register. The write-one-to-clear
// convention of the hardware register is preserved.
func (rf *RegisterFile) Ack(lines Irq) {
	rf.iflag &^= lines
	rf.journal(REG_IF, uint32(lines))
}

func (rf *RegisterFile) Ime() bool {
	return rf.ime
}

func (rf *RegisterFile) SetIme(enable bool) {
	rf.ime = enable
	var value uint32
	if enable {
		value = 1
	}
	rf.journal(REG_IME, value)
	rf.deliver()
}

func (rf *RegisterFile) Shadow() Irq {
	return rf.shadow
}

// AckShadow merges lines into the firmware pending-shadow word, the
// acknowledgement convention the platform firmware polls on.
func (rf *RegisterFile) AckShadow(lines Irq) {
	rf.shadow |= lines
	rf.journal(MEM_IFBIOS, uint32(rf.shadow))
}

func (rf *RegisterFile) Cpsr() Psr {
	return rf.cpsr
}

// SetCpsr replaces the status register. Not journaled: the status
// register is CPU-local, not memory-mapped.
func (rf *RegisterFile) SetCpsr(psr Psr) {
	rf.cpsr = psr
	rf.deliver()
}

func (rf *RegisterFile) journal(addr uint32, value uint32) {
	rf.Journal = append(rf.Journal, Write{Addr: addr, Value: value})
}

// deliver runs the installed vector while an enabled line is pending
// and the surface is unmasked. Exception entry saves the status
// register and switches to interrupt mode with the IRQ mask set;
// exception return restores it.
func (rf *RegisterFile) deliver() {
	for rf.vector != nil && rf.ime && !rf.cpsr.IrqOff() && (rf.ie&rf.iflag) != 0 {
		saved := rf.cpsr

		if rf.Verbose {
			log.Printf("hw: exception entry, pending %#04x depth %v",
				uint16(rf.ie&rf.iflag), rf.depth)
		}

		rf.cpsr = MODE_IRQ | PSR_IRQ_OFF
		rf.depth++
		rf.vector()
		rf.depth--
		rf.cpsr = saved

		if rf.Verbose {
			log.Printf("hw: exception return, depth %v", rf.depth)
		}
	}
}
