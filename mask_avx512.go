//go:build goexperiment.simd && amd64

package simdfix

import (
	"simd/archsimd"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// =============================================================================
// AVX-512 Chunk Compare
// =============================================================================
//
// NOTE: archsimd.Int8x32.Equal().ToBits() lowers to VPMOVB2M, an AVX-512BW
// instruction. It raises SIGILL on CPUs without AVX-512, including most CI
// runners, so chunkMask only takes this path when useAVX512 is set.
//
// The archsimd package has no CPU feature query of its own (as of Go 1.26);
// golang.org/x/sys/cpu fills that role. Its HasAVX512* flags already include
// the XCR0 check that the OS saves the opmask and ZMM state.
//
// =============================================================================

// vectorKernelName identifies the chunk-compare kernel of this build.
const vectorKernelName = "avx512"

// halfChunk is the width of one archsimd.Int8x32 load.
const halfChunk = 32

// useAVX512 gates the archsimd kernel inside chunkMask. It is read from the
// CPU flags at init so an explicit vector parse never executes AVX-512 code
// on hardware that lacks it.
var useAVX512 bool

func init() {
	useAVX512 = detectVector()
}

// detectVector requires all three flags:
//   - AVX512F:  foundation 512-bit operations
//   - AVX512BW: byte granularity (ToBits uses VPMOVB2M)
//   - AVX512VL: AVX-512 encodings of 256-bit vectors
func detectVector() bool {
	return cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL
}

// chunkMask returns the delimiter match mask of a chunkSize-byte chunk.
// Precondition: len(chunk) >= chunkSize.
func chunkMask(chunk []byte, delimiter byte) uint64 {
	if useAVX512 {
		return chunkMaskAVX512(chunk, delimiter)
	}
	return chunkMaskSWAR(chunk, delimiter)
}

// chunkMaskAVX512 compares both 32-byte halves of the chunk against the
// broadcast delimiter and packs the two 32-bit results into one mask.
func chunkMaskAVX512(chunk []byte, delimiter byte) uint64 {
	_ = chunk[chunkSize-1]
	cmp := archsimd.BroadcastInt8x32(int8(delimiter))

	low := archsimd.LoadInt8x32((*[halfChunk]int8)(unsafe.Pointer(&chunk[0])))
	high := archsimd.LoadInt8x32((*[halfChunk]int8)(unsafe.Pointer(&chunk[halfChunk])))

	lowMask := low.Equal(cmp).ToBits()
	highMask := high.Equal(cmp).ToBits()

	return uint64(lowMask) | uint64(highMask)<<32
}
