package simdfix

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// Vector Capability Detection
// =============================================================================
//
// The vector scanner compares a whole chunk against the delimiter in one
// operation. Which kernel does that comparison is fixed at build time:
//
//   - goexperiment.simd && amd64: simd/archsimd with AVX-512BW mask extraction
//   - everything else:            64-bit SWAR (eight 8-byte lanes per chunk)
//
// Each flavor provides detectVector, which reports whether the kernel is usable
// on the running CPU. The answer is computed once per process.
//
// =============================================================================

// vectorSupport memoizes detectVector. Concurrent first calls converge on a
// single detection.
var vectorSupport = sync.OnceValue(func() bool {
	return detectVector()
})

// capabilityOverride holds a test override for the capability flag.
// 0 = no override, 1 = forced off, 2 = forced on.
var capabilityOverride atomic.Int32

// SupportsVector reports whether the vectorized delimiter scan is usable on
// the current hardware. The first call queries the CPU; later calls return
// the cached result. Detection failures report false.
func SupportsVector() bool {
	switch capabilityOverride.Load() {
	case 1:
		return false
	case 2:
		return true
	}
	return vectorSupport()
}

// VectorKernel returns the name of the chunk-compare kernel compiled into
// this binary ("avx512" or "swar64").
func VectorKernel() string {
	return vectorKernelName
}

// SetVectorSupport overrides the value reported by SupportsVector, so tests
// can drive the auto-selecting entry points down either path regardless of
// the hardware. It returns a function that restores the previous state.
func SetVectorSupport(supported bool) (restore func()) {
	v := int32(1)
	if supported {
		v = 2
	}
	prev := capabilityOverride.Swap(v)
	return func() {
		capabilityOverride.Store(prev)
	}
}
