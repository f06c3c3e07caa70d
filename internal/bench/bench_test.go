package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnnkkk7/go-simdfix"
)

func TestCompare(t *testing.T) {
	c := Compare(MediumMessage, 2000, 100)

	assert.Equal(t, len(MediumMessage), c.MessageBytes)
	assert.Equal(t, 2000, c.Iterations)
	assert.Equal(t, simdfix.VectorKernel(), c.Kernel)
	assert.True(t, c.Record.Valid)
	assert.Equal(t, "AAPL", string(c.Record.Symbol))

	for _, tm := range []Timing{c.Scalar, c.Vector, c.Auto} {
		assert.NotEmpty(t, tm.Path)
		assert.Positive(t, tm.Total)
		assert.LessOrEqual(t, tm.PerMessage, tm.Total)
	}
	assert.Equal(t, "scalar", c.Scalar.Path)
	assert.Equal(t, "vector", c.Vector.Path)
	assert.Positive(t, c.Speedup)
}

func TestCompare_SpeedupUsesTotals(t *testing.T) {
	// Small messages parse in a few nanoseconds, where per-message durations
	// truncate; the ratio must still come from the untruncated totals.
	c := Compare(SmallMessage, 5000, 0)

	require.Positive(t, c.Vector.Total)
	assert.InDelta(t, float64(c.Scalar.Total)/float64(c.Vector.Total), c.Speedup, 1e-9)
	assert.Positive(t, c.Speedup)
}

func TestCompare_ClampsIterations(t *testing.T) {
	c := Compare(SmallMessage, 0, 0)
	assert.Equal(t, 1, c.Iterations)
}

func TestSampleMessagesParse(t *testing.T) {
	require.Len(t, Messages, 4)
	for name, msg := range Messages {
		scalar := simdfix.ParseScalar(msg)
		assert.True(t, scalar.Valid, name)
		assert.True(t, scalar.Equal(simdfix.ParseVector(msg)), name)
	}

	// The extra-large sample repeats the tags; the second order wins.
	rec := simdfix.Parse(XLargeMessage)
	assert.Equal(t, "MSFT", string(rec.Symbol))
	assert.Equal(t, int64(2), rec.Side)
}
