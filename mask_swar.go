package simdfix

import (
	"encoding/binary"
	"math/bits"
)

// =============================================================================
// SWAR Chunk Compare (SIMD Within A Register)
// =============================================================================
//
// A 64-byte chunk is loaded as eight little-endian uint64 lanes. For each lane:
//
//  1. XOR with the delimiter broadcast to all 8 bytes: matching bytes become 0x00.
//  2. Exact zero-byte detection: ^(((x & 0x7F..) + 0x7F..) | x | 0x7F..) leaves
//     0x80 in exactly the zero bytes. Unlike (x - 0x01..) & ^x & 0x80.., no borrow
//     crosses a byte boundary, so there are no false positives.
//  3. Gather the eight 0x80 flags into one byte with a multiply: byte i's flag
//     lands in bit 56+i, and >> 56 yields an 8-bit lane mask.
//
// Lane k contributes bits 8k..8k+7 of the chunk mask, so bit i of the result
// corresponds to byte i of the chunk, the same layout a hardware compare yields.
//
// =============================================================================

const (
	swarLo7  = 0x7F7F7F7F7F7F7F7F
	swarOnes = 0x0101010101010101

	// swarGather moves bit 8i of a lane to bit 56+i.
	swarGather = 0x0102040810204080
)

// chunkMaskSWAR returns the delimiter match mask of a chunkSize-byte chunk.
// Precondition: len(chunk) >= chunkSize. Loads are unaligned.
func chunkMaskSWAR(chunk []byte, delimiter byte) uint64 {
	_ = chunk[chunkSize-1] // bounds check hint
	pattern := uint64(delimiter) * swarOnes

	var mask uint64
	for lane := 0; lane < chunkSize/8; lane++ {
		x := binary.LittleEndian.Uint64(chunk[lane*8:]) ^ pattern
		zero := ^(((x & swarLo7) + swarLo7) | x | swarLo7)
		laneMask := ((zero >> 7) * swarGather) >> 56
		mask |= laneMask << (lane * 8)
	}
	return mask
}

// wordIs64 reports whether the native word is 64 bits wide. On 32-bit
// targets every SWAR lane operation is emulated, which defeats the point.
func wordIs64() bool {
	return bits.UintSize == 64
}
