// Package bench times the scalar and vector parse paths against each other
// on a single message.
package bench

import (
	"time"

	"github.com/nnnkkk7/go-simdfix"
)

// Sample messages of increasing size.
var (
	SmallMessage  = []byte("8=FIX.4.4|35=D|55=SPY|54=1|38=100|44=450.00|")
	MediumMessage = []byte("8=FIX.4.4|35=D|49=TRADER1|56=EXCHANGE|55=AAPL|54=1|38=100|44=150.25|")
	LargeMessage  = []byte("8=FIX.4.4|35=D|49=QUANTITATIVE_HEDGE_FUND|56=PRIMARY_EXCHANGE_NETWORK|" +
		"55=GOOGL|54=1|38=10000|44=141.75|")
	XLargeMessage = []byte("8=FIX.4.4|35=D|49=INSTITUTIONAL_ASSET_MANAGER_ALPHA|" +
		"56=CONSOLIDATED_EXCHANGE_ROUTING_NETWORK|55=BRK.A|54=1|38=5|44=628450.00|" +
		"8=FIX.4.4|35=D|49=SECONDARY_TRADER|56=BACKUP_EXCHANGE|55=MSFT|54=2|38=500|44=378.50|")
)

// Messages maps size names to sample messages.
var Messages = map[string][]byte{
	"small":  SmallMessage,
	"medium": MediumMessage,
	"large":  LargeMessage,
	"xlarge": XLargeMessage,
}

// Timing is the measured cost of one parse path.
type Timing struct {
	Path           string        `json:"path"`
	Total          time.Duration `json:"total_ns"`
	PerMessage     time.Duration `json:"per_message_ns"`
	MessagesPerSec float64       `json:"messages_per_sec"`
	MBPerSec       float64       `json:"mb_per_sec"`
}

// Comparison holds the timings of every path and the vector speedup.
type Comparison struct {
	MessageBytes int            `json:"message_bytes"`
	Iterations   int            `json:"iterations"`
	Scalar       Timing         `json:"scalar"`
	Vector       Timing         `json:"vector"`
	Auto         Timing         `json:"auto"`
	Speedup      float64        `json:"speedup"`
	Kernel       string         `json:"kernel"`
	Record       simdfix.Record `json:"-"`
}

// sink keeps parse results observable so the loops are not optimized away.
var sink simdfix.Record

// Compare parses msg warmup times on each path, then iterations times,
// timing each path separately.
func Compare(msg []byte, iterations, warmup int) Comparison {
	if iterations <= 0 {
		iterations = 1
	}

	c := Comparison{
		MessageBytes: len(msg),
		Iterations:   iterations,
		Kernel:       simdfix.VectorKernel(),
		Record:       simdfix.Parse(msg),
	}
	c.Scalar = measure("scalar", simdfix.ParseScalar, msg, iterations, warmup)
	c.Vector = measure("vector", simdfix.ParseVector, msg, iterations, warmup)
	c.Auto = measure("auto", simdfix.Parse, msg, iterations, warmup)

	// PerMessage is truncated to whole nanoseconds; the totals are not.
	if c.Vector.Total > 0 {
		c.Speedup = float64(c.Scalar.Total) / float64(c.Vector.Total)
	}
	return c
}

func measure(path string, parse func([]byte) simdfix.Record, msg []byte, iterations, warmup int) Timing {
	for i := 0; i < warmup; i++ {
		sink = parse(msg)
	}

	start := time.Now()
	for i := 0; i < iterations; i++ {
		sink = parse(msg)
	}
	total := time.Since(start)

	t := Timing{
		Path:       path,
		Total:      total,
		PerMessage: total / time.Duration(iterations),
	}
	if secs := total.Seconds(); secs > 0 {
		t.MessagesPerSec = float64(iterations) / secs
		t.MBPerSec = float64(iterations*len(msg)) / (1024 * 1024) / secs
	}
	return t
}
