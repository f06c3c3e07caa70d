// Package render prints records, delimiter scans and batch statistics as
// text, JSON or NDJSON.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	gojson "github.com/goccy/go-json"

	"github.com/nnnkkk7/go-simdfix"
	"github.com/nnnkkk7/go-simdfix/internal/batch"
)

// RecordView is the serialized form of a Record, with text slots as strings.
type RecordView struct {
	MsgType  string  `json:"msg_type"`
	Symbol   string  `json:"symbol"`
	Sender   string  `json:"sender,omitempty"`
	Target   string  `json:"target,omitempty"`
	Side     int64   `json:"side"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Valid    bool    `json:"valid"`
}

// View copies rec into a RecordView.
func View(rec simdfix.Record) RecordView {
	return RecordView{
		MsgType:  string(rec.MsgType),
		Symbol:   string(rec.Symbol),
		Sender:   string(rec.Sender),
		Target:   string(rec.Target),
		Side:     rec.Side,
		Price:    rec.Price,
		Quantity: rec.Quantity,
		Valid:    rec.Valid,
	}
}

// JSON writes recs as one JSON array.
func JSON(w io.Writer, recs []simdfix.Record, pretty bool) error {
	views := make([]RecordView, len(recs))
	for i, r := range recs {
		views[i] = View(r)
	}

	enc := gojson.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// NDJSON writes one JSON object per record per line.
func NDJSON(w io.Writer, recs []simdfix.Record) error {
	bw := bufio.NewWriter(w)
	enc := gojson.NewEncoder(bw)
	for _, r := range recs {
		if err := enc.Encode(View(r)); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	return bw.Flush()
}

// Text writes rec as an indented block, one slot per line.
func Text(w io.Writer, rec simdfix.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "  Valid:\t%v\n", rec.Valid)
	fmt.Fprintf(tw, "  MsgType:\t%s\n", rec.MsgType)
	fmt.Fprintf(tw, "  Symbol:\t%s\n", rec.Symbol)
	fmt.Fprintf(tw, "  Sender:\t%s\n", rec.Sender)
	fmt.Fprintf(tw, "  Target:\t%s\n", rec.Target)
	fmt.Fprintf(tw, "  Side:\t%s\n", sideName(rec.Side))
	fmt.Fprintf(tw, "  Quantity:\t%d\n", rec.Quantity)
	fmt.Fprintf(tw, "  Price:\t%s\n", strconv.FormatFloat(rec.Price, 'f', 2, 64))
	return tw.Flush()
}

func sideName(side int64) string {
	switch side {
	case 1:
		return "1 (Buy)"
	case 2:
		return "2 (Sell)"
	}
	return strconv.FormatInt(side, 10)
}

// Fields writes the delimiter positions of data and its accepted tag=value
// pairs.
func Fields(w io.Writer, data []byte, delimiter byte, scanner simdfix.Scanner) error {
	positions := scanner.AppendDelimiters(nil, data, delimiter)
	fields := simdfix.Fields(data, delimiter)

	fmt.Fprintf(w, "Message: %q (%d bytes)\n", data, len(data))
	fmt.Fprintf(w, "Scanner: %s\n", scanner.Name())
	fmt.Fprintf(w, "Delimiters (%d): %v\n", len(positions), positions)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TAG\tNAME\tVALUE\n")
	for _, f := range fields {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Tag, f.Tag, f.Value)
	}
	return tw.Flush()
}

// Stats writes s as an aligned table.
func Stats(w io.Writer, s batch.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Messages:\t%d\n", s.Messages)
	fmt.Fprintf(tw, "Valid:\t%d\n", s.Valid)
	fmt.Fprintf(tw, "Invalid:\t%d\n", s.Invalid)
	fmt.Fprintf(tw, "Bytes:\t%d\n", s.Bytes)
	fmt.Fprintf(tw, "Path:\t%s\n", s.Path)
	fmt.Fprintf(tw, "Workers:\t%d\n", s.Workers)
	fmt.Fprintf(tw, "Elapsed:\t%s\n", s.Elapsed)
	fmt.Fprintf(tw, "Throughput:\t%.0f msg/s\n", s.MessagesPerSec)
	fmt.Fprintf(tw, "Bandwidth:\t%.2f MB/s\n", s.MBPerSec)
	return tw.Flush()
}

// StatsJSON writes s as a single JSON object.
func StatsJSON(w io.Writer, s batch.Stats) error {
	if err := gojson.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	return nil
}
