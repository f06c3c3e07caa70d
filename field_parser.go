package simdfix

import (
	"bytes"
	"math"
	"sync"
)

// =============================================================================
// Field Tokenizer
// =============================================================================
//
// Given the input and its ascending delimiter positions, fields are the
// slices
//
//   data[0:p0], data[p0+1:p1], ..., data[pn+1:len(data)]
//
// Zero-length fields (leading, doubled or trailing delimiters) are skipped.
// Each remaining field is split at its first '='; a field with no '=' or
// with '=' at offset 0 is malformed and dropped without error.
//
// =============================================================================

// KeyValueSeparator separates the tag from the value inside a field.
const KeyValueSeparator = '='

// Field is an accepted tag=value pair. Value aliases the parsed input.
type Field struct {
	Tag   Tag
	Value []byte
}

// positionBufCap is the initial capacity of pooled position buffers,
// enough for a typical order message without growth.
const positionBufCap = 64

// positionPool recycles delimiter position buffers between parse calls.
// A buffer never escapes the call that took it.
var positionPool = sync.Pool{
	New: func() interface{} {
		buf := make([]int, 0, positionBufCap)
		return &buf
	},
}

// getPositions returns an empty pooled position buffer.
func getPositions() *[]int {
	p := positionPool.Get().(*[]int)
	*p = (*p)[:0]
	return p
}

// putPositions returns a position buffer to the pool. Oversized buffers are
// dropped so one huge input does not pin memory.
func putPositions(p *[]int) {
	if cap(*p) > 64*1024 {
		return
	}
	positionPool.Put(p)
}

// SplitField splits a field at its first '='. It reports false for a
// malformed field (no '=' or '=' at offset 0).
func SplitField(field []byte) (tag Tag, value []byte, ok bool) {
	eq := bytes.IndexByte(field, KeyValueSeparator)
	if eq <= 0 {
		return 0, nil, false
	}
	return tagOf(field[:eq]), field[eq+1:], true
}

// tagOf converts tag text to a Tag. Values that do not fit a uint32 map to
// 0, which no recognized tag uses.
func tagOf(text []byte) Tag {
	v := ParseInt(text)
	if v < 0 || v > math.MaxUint32 {
		return 0
	}
	return Tag(v)
}

// forEachField slices data at positions and calls fn for every accepted
// tag=value pair, in input order.
func forEachField(data []byte, positions []int, fn func(tag Tag, value []byte)) {
	start := 0
	for _, pos := range positions {
		if pos > start {
			if tag, value, ok := SplitField(data[start:pos]); ok {
				fn(tag, value)
			}
		}
		start = pos + 1
	}

	// Trailing content after the last delimiter is one more field.
	if start < len(data) {
		if tag, value, ok := SplitField(data[start:]); ok {
			fn(tag, value)
		}
	}
}

// Fields returns the accepted tag=value pairs of data split on delimiter,
// using the scanner chosen by SupportsVector.
func Fields(data []byte, delimiter byte) []Field {
	if len(data) == 0 {
		return nil
	}

	p := getPositions()
	defer putPositions(p)
	*p = SelectScanner(StrategyAuto).AppendDelimiters(*p, data, delimiter)

	fields := make([]Field, 0, len(*p)+1)
	forEachField(data, *p, func(tag Tag, value []byte) {
		fields = append(fields, Field{Tag: tag, Value: value})
	})
	return fields
}
