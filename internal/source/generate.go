package source

import (
	"math/rand"

	"github.com/nnnkkk7/go-simdfix"
)

var (
	symbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META"}
	prices  = []float64{150.25, 378.50, 141.75, 178.45, 505.25}
)

// Synthetic returns count order messages cycling through five symbols, with
// alternating sides and quantities in hundreds. Each message starts with a
// BeginString field and ends with the delimiter.
func Synthetic(count int, delimiter byte) [][]byte {
	return generate(count, delimiter, nil)
}

// SyntheticRandom is like Synthetic but draws symbol, side, quantity and a
// price jitter from a generator seeded with seed.
func SyntheticRandom(count int, delimiter byte, seed int64) [][]byte {
	return generate(count, delimiter, rand.New(rand.NewSource(seed))) //nolint:gosec // test data
}

func generate(count int, delimiter byte, rng *rand.Rand) [][]byte {
	msgs := make([][]byte, count)
	buf := make([]byte, 0, count*80)

	for i := 0; i < count; i++ {
		idx := i % len(symbols)
		side := int64(i%2 + 1)
		qty := int64((i%10 + 1) * 100)
		price := prices[idx]
		if rng != nil {
			idx = rng.Intn(len(symbols))
			side = int64(rng.Intn(2) + 1)
			qty = int64(rng.Intn(100)+1) * 100
			price = prices[idx] + float64(rng.Intn(200)-100)/100
		}

		rec := simdfix.Record{
			MsgType:  []byte("D"),
			Sender:   []byte("TEST"),
			Target:   []byte("EXCH"),
			Symbol:   []byte(symbols[idx]),
			Side:     side,
			Quantity: qty,
			Price:    price,
		}

		start := len(buf)
		buf = append(buf, "8=FIX.4.4"...)
		buf = append(buf, delimiter)
		buf = simdfix.AppendRecord(buf, rec, delimiter)
		buf = append(buf, delimiter)
		msgs[i] = buf[start:len(buf):len(buf)]
	}
	return msgs
}
