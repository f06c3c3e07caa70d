package simdfix

// =============================================================================
// Delimiter Scanners
// =============================================================================
//
// Both scanners return the ascending byte offsets at which the delimiter
// occurs. The scalar scanner defines the ground truth; the vector scanner
// must reproduce it exactly for every input and delimiter.
//
// =============================================================================

const (
	// chunkSize is the number of bytes compared per vector iteration.
	chunkSize = 64

	// avgFieldLenEstimate is the estimated field length used to pre-size
	// position lists.
	avgFieldLenEstimate = 10
)

// Scanner finds delimiter positions. ScalarScanner and VectorScanner are the
// two implementations; SelectScanner picks one for a Strategy.
type Scanner interface {
	// AppendDelimiters appends the offsets of every delimiter byte in data
	// to dst in ascending order and returns the extended slice.
	AppendDelimiters(dst []int, data []byte, delimiter byte) []int

	// Name identifies the scanner in logs and metrics.
	Name() string
}

// ScalarScanner is the byte-at-a-time Scanner.
type ScalarScanner struct{}

// AppendDelimiters implements Scanner.
func (ScalarScanner) AppendDelimiters(dst []int, data []byte, delimiter byte) []int {
	return AppendDelimitersScalar(dst, data, delimiter)
}

// Name implements Scanner.
func (ScalarScanner) Name() string { return "scalar" }

// VectorScanner is the chunked, width-parallel Scanner.
type VectorScanner struct{}

// AppendDelimiters implements Scanner.
func (VectorScanner) AppendDelimiters(dst []int, data []byte, delimiter byte) []int {
	return AppendDelimitersVector(dst, data, delimiter)
}

// Name implements Scanner.
func (VectorScanner) Name() string { return "vector" }

// FindDelimitersScalar returns the positions of delimiter in data, scanning
// one byte at a time.
func FindDelimitersScalar(data []byte, delimiter byte) []int {
	return AppendDelimitersScalar(make([]int, 0, len(data)/avgFieldLenEstimate), data, delimiter)
}

// AppendDelimitersScalar appends the positions of delimiter in data to dst.
func AppendDelimitersScalar(dst []int, data []byte, delimiter byte) []int {
	for i, b := range data {
		if b == delimiter {
			dst = append(dst, i)
		}
	}
	return dst
}
