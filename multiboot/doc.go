// Package multiboot implements the serial bootstrap transfer: a master
// unit detects up to three clients over the multiplayer link, sends the
// 96-halfword ROM header and a scrambled payload, and verifies a final
// checksum exchange. Application callbacks observe connection, header
// and palette progress, and gate the start of the payload transfer.
//
// The Link interface abstracts one 16-bit multiplayer transfer; Sim
// implements it as a bank of simulated clients for testing on a host.
package multiboot
