// Package hw models the interrupt register surface of the ARM7TDMI target.
//
// The surface consists of the interrupt enable (IE), pending (IF) and
// master-enable (IME) registers, the firmware pending-shadow word, and the
// CPU status register (mode bits plus the IRQ disable bit). The Regs
// interface decouples protocol code from register mechanism; RegisterFile
// is the simulated implementation, delivering exceptions synchronously to
// an installed vector whenever the unmasked enabled-and-pending condition
// becomes true.
package hw
