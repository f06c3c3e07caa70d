package simdfix

import (
	"bytes"
	"fmt"
	"testing"
)

// =============================================================================
// Delimiter Scan Benchmarks
// =============================================================================

func BenchmarkFindDelimiters(b *testing.B) {
	sizes := []int{64, 1024, 64 * 1024, 1024 * 1024}

	for _, size := range sizes {
		data := spacedDelimiters(size, 10, '|')
		dst := make([]int, 0, size/10+1)

		b.Run(fmt.Sprintf("scalar/size_%d", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			for b.Loop() {
				dst = AppendDelimitersScalar(dst[:0], data, '|')
			}
		})
		b.Run(fmt.Sprintf("vector/size_%d", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			for b.Loop() {
				dst = AppendDelimitersVector(dst[:0], data, '|')
			}
		})
	}
}

func BenchmarkChunkMask(b *testing.B) {
	chunk := []byte(longMessage(2))[:chunkSize]

	b.Run("kernel", func(b *testing.B) {
		for b.Loop() {
			_ = chunkMask(chunk, '|')
		}
	})
	b.Run("swar", func(b *testing.B) {
		for b.Loop() {
			_ = chunkMaskSWAR(chunk, '|')
		}
	})
}

// =============================================================================
// Parse Benchmarks
// =============================================================================

func BenchmarkParse_NewOrderSingle(b *testing.B) {
	msg := []byte(msgNewOrderSingle)

	b.Run("scalar", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		b.ReportAllocs()
		for b.Loop() {
			_ = ParseScalar(msg)
		}
	})
	b.Run("vector", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		b.ReportAllocs()
		for b.Loop() {
			_ = ParseVector(msg)
		}
	})
	b.Run("auto", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		b.ReportAllocs()
		for b.Loop() {
			_ = Parse(msg)
		}
	})
}

func BenchmarkParse_Long(b *testing.B) {
	msg := []byte(longMessage(100))

	b.Run("scalar", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_ = ParseScalar(msg)
		}
	})
	b.Run("vector", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_ = ParseVector(msg)
		}
	})
}

func BenchmarkParse_Batch(b *testing.B) {
	msgs := messageBatch(1000)
	var total int64
	for _, m := range msgs {
		total += int64(len(m))
	}

	b.SetBytes(total)
	b.ReportAllocs()
	for b.Loop() {
		for _, m := range msgs {
			_ = Parse(m)
		}
	}
}

// =============================================================================
// Numeric Benchmarks
// =============================================================================

func BenchmarkParseInt(b *testing.B) {
	text := []byte("999999")
	for b.Loop() {
		_ = ParseInt(text)
	}
}

func BenchmarkParseFloat(b *testing.B) {
	text := []byte("628450.00")
	for b.Loop() {
		_ = ParseFloat(text)
	}
}

// =============================================================================
// Reader / Writer Benchmarks
// =============================================================================

func BenchmarkReader_ReadAll_10K(b *testing.B) {
	var buf bytes.Buffer
	for _, m := range messageBatch(10000) {
		buf.Write(m)
		buf.WriteByte('\n')
	}
	data := buf.Bytes()

	b.SetBytes(int64(len(data)))
	for b.Loop() {
		_, _ = NewReader(bytes.NewReader(data)).ReadAll()
	}
}

func BenchmarkAppendRecord(b *testing.B) {
	rec := ParseScalar([]byte(msgNewOrderSingle))
	dst := make([]byte, 0, 128)

	b.ReportAllocs()
	for b.Loop() {
		dst = AppendRecord(dst[:0], rec, '|')
	}
}
