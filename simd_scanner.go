package simdfix

import "math/bits"

// FindDelimitersVector returns the positions of delimiter in data using the
// chunked vector scan. The result is identical to FindDelimitersScalar.
func FindDelimitersVector(data []byte, delimiter byte) []int {
	return AppendDelimitersVector(make([]int, 0, len(data)/avgFieldLenEstimate), data, delimiter)
}

// AppendDelimitersVector appends the positions of delimiter in data to dst.
//
// Full chunkSize-byte chunks are compared in one operation each, producing a
// match mask whose bit i stands for byte base+i. Positions are drained from
// the mask lowest bit first, so they come out in ascending order. The
// len(data) % chunkSize tail bytes go through the scalar loop.
//
// The input needs no particular alignment.
func AppendDelimitersVector(dst []int, data []byte, delimiter byte) []int {
	n := len(data)
	vecEnd := n - n%chunkSize

	for base := 0; base < vecEnd; base += chunkSize {
		mask := chunkMask(data[base:base+chunkSize], delimiter)
		dst = appendMaskPositions(dst, mask, base)
	}

	for i := vecEnd; i < n; i++ {
		if data[i] == delimiter {
			dst = append(dst, i)
		}
	}
	return dst
}

// appendMaskPositions appends base+i for every set bit i of mask, lowest
// first.
func appendMaskPositions(dst []int, mask uint64, base int) []int {
	for mask != 0 {
		dst = append(dst, base+bits.TrailingZeros64(mask))
		mask &= mask - 1 // clear lowest set bit
	}
	return dst
}
