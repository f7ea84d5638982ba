// Package mem supplies the alignment-specialized memory copy and fill
// leaf routines of the runtime. Each routine preserves the chunk
// decomposition of its target counterpart: word loops for the aligned
// middle, halfword and byte phases at the edges, and distinct forward
// and backward traversal orders for overlapping moves.
package mem

import (
	"encoding/binary"
)

// Copy2 copies len(src) bytes from src to dst, forward. Both regions
// are assumed halfword aligned; the middle runs a word at a time, with
// a halfword and byte tail.
func Copy2(dst []byte, src []byte) {
	n := len(src)
	i := 0

	for n-i >= 4 {
		binary.LittleEndian.PutUint32(dst[i:], binary.LittleEndian.Uint32(src[i:]))
		i += 4
	}
	if n-i >= 2 {
		binary.LittleEndian.PutUint16(dst[i:], binary.LittleEndian.Uint16(src[i:]))
		i += 2
	}
	if n-i >= 1 {
		dst[i] = src[i]
	}
}

// Copy1 copies len(src) bytes from src to dst, forward, one byte at a
// time. Slow and unaligned; the variant for byte-wide memory. With an
// overlapping dst ahead of src the head bytes propagate, as the
// traversal order guarantees.
func Copy1(dst []byte, src []byte) {
	for i := range src {
		dst[i] = src[i]
	}
}

// RCopy copies len(src) bytes from src to dst, backward, with the same
// word middle as Copy2. Safe when dst overlaps above src.
func RCopy(dst []byte, src []byte) {
	i := len(src)

	for i >= 4 {
		i -= 4
		binary.LittleEndian.PutUint32(dst[i:], binary.LittleEndian.Uint32(src[i:]))
	}
	if i >= 2 {
		i -= 2
		binary.LittleEndian.PutUint16(dst[i:], binary.LittleEndian.Uint16(src[i:]))
	}
	if i >= 1 {
		dst[0] = src[0]
	}
}

// RCopy1 copies len(src) bytes from src to dst, backward, one byte at
// a time. Safe when dst overlaps above src at any alignment.
func RCopy1(dst []byte, src []byte) {
	for i := len(src) - 1; i >= 0; i-- {
		dst[i] = src[i]
	}
}

// WordSet4 fills dst with repetitions of the word c, little endian.
// dst is assumed word aligned; the 1 to 3 trailing bytes are filled
// with the low byte of c.
func WordSet4(dst []byte, c uint32) {
	n := len(dst)
	i := 0

	for n-i >= 4 {
		binary.LittleEndian.PutUint32(dst[i:], c)
		i += 4
	}
	for ; i < n; i++ {
		dst[i] = byte(c)
	}
}

// LwordSet4 fills dst with repetitions of the doubleword c, little
// endian. dst is assumed word aligned; a trailing word is filled with
// the low word of c, and trailing bytes with the low byte of c.
func LwordSet4(dst []byte, c uint64) {
	n := len(dst)
	i := 0

	for n-i >= 8 {
		binary.LittleEndian.PutUint64(dst[i:], c)
		i += 8
	}
	if n-i >= 4 {
		binary.LittleEndian.PutUint32(dst[i:], uint32(c))
		i += 4
	}
	for ; i < n; i++ {
		dst[i] = byte(c)
	}
}
