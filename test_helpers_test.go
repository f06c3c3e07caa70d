package simdfix

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

// =============================================================================
// Test Fixtures
// =============================================================================

const (
	msgNewOrderSingle  = "8=FIX.4.4|35=D|49=SENDER|56=TARGET|55=AAPL|54=1|38=100|44=150.25|"
	msgExecutionReport = "8=FIX.4.4|35=8|49=EXCHANGE|56=TRADER|55=MSFT|54=2|38=500|44=378.50|"
	msgOrderCancel     = "8=FIX.4.4|35=F|49=TRADER|56=EXCHANGE|55=GOOGL|54=1|38=200|44=141.75|"
	msgMinimal         = "35=D|55=SPY|"
	msgFull            = "8=FIX.4.4|9=128|35=D|49=HEDGE_FUND|56=DARK_POOL|55=NVDA|54=2|38=1000|44=875.30|"
	msgHighPrice       = "8=FIX.4.4|35=D|55=BRK.A|54=1|38=1|44=628450.00|"
	msgLowPrice        = "8=FIX.4.4|35=D|55=PENNY|54=1|38=100000|44=0.0025|"
	msgLongIDs         = "8=FIX.4.4|35=D|49=VERY_LONG_SENDER_COMPANY_ID|56=VERY_LONG_TARGET_COMPANY_ID|55=TEST|54=1|38=100|44=100.00|"

	msgNoMsgType       = "8=FIX.4.4|55=AAPL|54=1|38=100|44=150.25|"
	msgNoSymbol        = "8=FIX.4.4|35=D|54=1|38=100|44=150.25|"
	msgMalformedField  = "8=FIX.4.4|35D|55=AAPL|54=1|"
	msgEmptyValue      = "8=FIX.4.4|35=|55=AAPL|"
	msgNoDelimiters    = "8=FIX.4.435=D55=AAPL54=1"
	msgOnlyDelimiters  = "||||||||"
	msgDoubleDelimiter = "8=FIX.4.4||35=D|55=AAPL|"
	msgTrailingContent = "8=FIX.4.4|35=D|55=AAPL|extra"
)

// allFixtureMessages lists every fixture, valid or not.
var allFixtureMessages = []string{
	msgNewOrderSingle, msgExecutionReport, msgOrderCancel, msgMinimal, msgFull,
	msgHighPrice, msgLowPrice, msgLongIDs, msgNoMsgType, msgNoSymbol,
	msgMalformedField, msgEmptyValue, msgNoDelimiters, msgOnlyDelimiters,
	msgDoubleDelimiter, msgTrailingContent, "", "|",
}

// longMessage repeats a short order so the input spans many chunks.
func longMessage(repeat int) string {
	const base = "8=FIX.4.4|35=D|55=TEST|54=1|38=100|44=50.00|"
	return strings.Repeat(base, repeat+1)
}

// messageBatch generates count order messages cycling through five symbols.
func messageBatch(count int) [][]byte {
	symbols := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META"}
	prices := []string{"150.25", "378.50", "141.75", "178.45", "505.25"}

	msgs := make([][]byte, count)
	for i := range msgs {
		idx := i % len(symbols)
		msgs[i] = []byte(fmt.Sprintf("8=FIX.4.4|35=D|49=TEST|56=EXCH|55=%s|54=%d|38=%d|44=%s|",
			symbols[idx], i%2+1, (i%10+1)*100, prices[idx]))
	}
	return msgs
}

// spacedDelimiters returns length bytes of 'X' with a delimiter every
// segment bytes, starting at offset segment.
func spacedDelimiters(length, segment int, delim byte) []byte {
	data := make([]byte, length)
	for i := range data {
		if segment > 0 && i > 0 && i%segment == 0 {
			data[i] = delim
		} else {
			data[i] = 'X'
		}
	}
	return data
}

// =============================================================================
// Test Helper Functions
// =============================================================================

// equalPositions compares two slices of positions (nil and empty are equal)
func equalPositions(a, b []int) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// formatRecord renders a record for failure messages.
func formatRecord(r Record) string {
	return fmt.Sprintf("{MsgType:%q Symbol:%q Sender:%q Target:%q Side:%d Price:%s Quantity:%d Valid:%v}",
		r.MsgType, r.Symbol, r.Sender, r.Target, r.Side,
		strconv.FormatFloat(r.Price, 'g', -1, 64), r.Quantity, r.Valid)
}

// assertRecord fails the test if got and want hold different slot values.
func assertRecord(t *testing.T, got, want Record) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("record mismatch:\n got: %s\nwant: %s", formatRecord(got), formatRecord(want))
	}
}

// assertSamePaths parses msg on every path and fails if any two differ.
func assertSamePaths(t *testing.T, msg []byte) {
	t.Helper()
	scalar := ParseScalar(msg)
	vector := ParseVector(msg)
	auto := Parse(msg)
	if !scalar.Equal(vector) {
		t.Errorf("scalar and vector differ for %q:\nscalar: %s\nvector: %s",
			msg, formatRecord(scalar), formatRecord(vector))
	}
	if !scalar.Equal(auto) {
		t.Errorf("scalar and auto differ for %q:\nscalar: %s\n  auto: %s",
			msg, formatRecord(scalar), formatRecord(auto))
	}
}
