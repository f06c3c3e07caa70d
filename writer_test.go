package simdfix

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAppendRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"zero", Record{}, ""},
		{"minimal", Record{MsgType: []byte("D"), Symbol: []byte("SPY")}, "35=D|55=SPY"},
		{
			"full",
			Record{
				MsgType: []byte("D"), Sender: []byte("S"), Target: []byte("T"), Symbol: []byte("AAPL"),
				Side: 1, Quantity: 100, Price: 150.25,
			},
			"35=D|49=S|56=T|55=AAPL|54=1|38=100|44=150.25",
		},
		{"price_only", Record{Price: 0.0025}, "44=0.0025"},
		{"negative_values", Record{Side: -1, Price: -2.5}, "54=-1|44=-2.5"},
		{"integral_price", Record{Symbol: []byte("X"), Price: 628450}, "55=X|44=628450"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(AppendRecord(nil, tt.rec, '|'))
			if got != tt.want {
				t.Errorf("AppendRecord() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendRecord_KeepsPrefix(t *testing.T) {
	got := AppendRecord([]byte("8=FIX.4.4|"), Record{MsgType: []byte("D")}, '|')
	if string(got) != "8=FIX.4.4|35=D" {
		t.Errorf("AppendRecord() = %q", got)
	}
}

func TestAppendRecord_RoundTrip(t *testing.T) {
	inputs := append([]string{}, allFixtureMessages...)
	for _, m := range messageBatch(20) {
		inputs = append(inputs, string(m))
	}
	inputs = append(inputs,
		"35=D|55=X|44=1797693134862315708145274284865717168.5|",
		"35=D|55=X|38=-9223372036854775808|",
		"35=D|55=X|44=0.000000000000000000000001|",
	)

	for _, input := range inputs {
		rec := ParseScalar([]byte(input))
		for _, delim := range []byte{'|', SOH} {
			msg := AppendRecord(nil, rec, delim)
			back := NewParser(WithDelimiter(delim)).Parse(msg)
			if !back.Equal(rec) {
				t.Errorf("%q via %q:\n got: %s\nwant: %s", input, msg, formatRecord(back), formatRecord(rec))
			}
		}
	}
}

func TestAppendRecord_ExtremePrices(t *testing.T) {
	for _, p := range []float64{math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64, 1e-7, 1e21} {
		rec := Record{MsgType: []byte("D"), Symbol: []byte("X"), Price: p, Valid: true}
		back := Parse(AppendRecord(nil, rec, '|'))
		if back.Price != p {
			t.Errorf("price %g came back as %g", p, back.Price)
		}
	}
}

func TestWriter(t *testing.T) {
	records := []Record{
		ParseScalar([]byte(msgNewOrderSingle)),
		ParseScalar([]byte(msgMinimal)),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	want := "35=D|49=SENDER|56=TARGET|55=AAPL|54=1|38=100|44=150.25\n35=D|55=SPY\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	// Reading the output back yields the same records.
	got, err := NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(records) {
		t.Fatalf("read back %d records, want %d", len(got), len(records))
	}
	for i := range got {
		assertRecord(t, got[i], records[i])
	}
}

func TestWriter_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Delimiter = SOH
	if err := w.Write(Record{MsgType: []byte("D"), Symbol: []byte("SPY")}); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if got := buf.String(); got != "35=D\x0155=SPY\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWriter_RejectsUnencodableValues(t *testing.T) {
	tests := []Record{
		{MsgType: []byte("D"), Symbol: []byte("A|B")},
		{MsgType: []byte("D"), Sender: []byte("line\nbreak")},
		{MsgType: []byte("D"), Symbol: []byte("X\r")},
		{MsgType: []byte("D\rE"), Symbol: []byte("SPY")},
	}
	for _, rec := range tests {
		w := NewWriter(&bytes.Buffer{})
		if err := w.Write(rec); !errors.Is(err, ErrFieldDelimiter) {
			t.Errorf("Write(%s) error = %v, want ErrFieldDelimiter", formatRecord(rec), err)
		}
	}
}

func TestWriter_CarriageReturnFromParse(t *testing.T) {
	// The parser keeps a trailing '\r' in the last field; the Reader would
	// strip it on the way back, so writing it must fail.
	rec := Parse([]byte("35=D|55=X\r"))
	if string(rec.Symbol) != "X\r" {
		t.Fatalf("Symbol = %q, want %q", rec.Symbol, "X\r")
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(rec); !errors.Is(err, ErrFieldDelimiter) {
		t.Fatalf("Write() error = %v, want ErrFieldDelimiter", err)
	}
	w.Flush()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing written", buf.String())
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriter_Error(t *testing.T) {
	boom := errors.New("boom")
	w := NewWriter(failingWriter{boom})

	// A small record fits the buffer; the failure surfaces on Flush.
	if err := w.Write(Record{MsgType: []byte("D")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	w.Flush()
	if !errors.Is(w.Error(), boom) {
		t.Errorf("Error() = %v, want %v", w.Error(), boom)
	}
	if err := w.Write(Record{MsgType: []byte("D")}); !errors.Is(err, boom) {
		t.Errorf("Write() after failure = %v, want sticky %v", err, boom)
	}
}

func TestWriter_LargeBatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	var want []Record
	for _, m := range messageBatch(1000) {
		rec := ParseScalar(m)
		want = append(want, rec)
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1000 {
		t.Fatalf("wrote %d lines, want 1000", n)
	}

	got, err := NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		assertRecord(t, got[i], want[i])
	}
}
