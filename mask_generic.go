//go:build !(goexperiment.simd && amd64)

package simdfix

import "golang.org/x/sys/cpu"

// vectorKernelName identifies the chunk-compare kernel of this build.
const vectorKernelName = "swar64"

// detectVector reports whether the SWAR kernel should be preferred over the
// byte loop: feature detection must have run and the native word must hold a
// full 8-byte lane.
func detectVector() bool {
	return cpu.Initialized && wordIs64()
}

// chunkMask returns the delimiter match mask of a chunkSize-byte chunk.
// Precondition: len(chunk) >= chunkSize.
func chunkMask(chunk []byte, delimiter byte) uint64 {
	return chunkMaskSWAR(chunk, delimiter)
}
