// Package rtc drives the S3511A real-time clock wired to the cartridge
// GPIO port. The protocol is bit-banged over three lines: chip select,
// serial clock, and a bidirectional data line. Command bytes travel
// most-significant bit first; data bytes least-significant bit first.
// All times are raw BCD, as the clock chip stores them.
//
// The Port interface decouples the driver from the memory-mapped GPIO
// register trio; Sim implements Port as a simulated S3511A for testing
// on a host.
package rtc
