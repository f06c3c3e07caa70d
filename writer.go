package simdfix

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

// ErrFieldDelimiter is returned by [Writer.Write] when a text slot contains
// the delimiter or a line break ('\n' or '\r'), which the message format
// cannot escape.
var ErrFieldDelimiter = errors.New("field value contains delimiter or line break")

// Writer writes records as delimiter-separated tag=value messages, one per
// line.
//
// Tags are written in the order 35, 49, 56, 55, 54, 38, 44. Empty text slots
// and zero numeric slots are omitted. Valid is not written; it is derived
// again when the message is parsed.
//
// The writes of individual records are buffered.
// After all data has been written, the client should call the
// Flush method to guarantee all data has been forwarded to
// the underlying io.Writer. Any errors that occurred should
// be checked by calling the Error method.
type Writer struct {
	Delimiter byte // Field delimiter (set to '|' by NewWriter)

	w   *bufio.Writer
	buf []byte
	err error
}

// NewWriter returns a new Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Delimiter: DefaultDelimiter,
		w:         bufio.NewWriter(w),
	}
}

// Write writes a single record followed by '\n'.
// Writes are buffered, so Flush must eventually be called to ensure
// that the record is written to the underlying io.Writer.
func (w *Writer) Write(rec Record) error {
	if w.err != nil {
		return w.err
	}
	if err := checkTextSlots(rec, w.Delimiter); err != nil {
		return err
	}

	w.buf = AppendRecord(w.buf[:0], rec, w.Delimiter)
	w.buf = append(w.buf, '\n')
	_, w.err = w.w.Write(w.buf)
	return w.err
}

// WriteAll writes multiple records using Write and then calls Flush.
func (w *Writer) WriteAll(records []Record) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Flush writes any buffered data to the underlying io.Writer.
// To check if an error occurred during Flush, call Error.
func (w *Writer) Flush() {
	if w.err != nil {
		return
	}
	w.err = w.w.Flush()
}

// Error reports any error that has occurred during
// a previous Write or Flush.
func (w *Writer) Error() error {
	return w.err
}

func checkTextSlots(rec Record, delimiter byte) error {
	for _, v := range [...][]byte{rec.MsgType, rec.Sender, rec.Target, rec.Symbol} {
		if bytes.IndexByte(v, delimiter) >= 0 || bytes.IndexAny(v, "\r\n") >= 0 {
			return ErrFieldDelimiter
		}
	}
	return nil
}

// AppendRecord appends the message form of rec to dst, without a line
// terminator. The caller is responsible for text slots not containing the
// delimiter.
func AppendRecord(dst []byte, rec Record, delimiter byte) []byte {
	start := len(dst)
	sep := func() {
		if len(dst) > start {
			dst = append(dst, delimiter)
		}
	}

	appendText := func(tag Tag, v []byte) {
		if len(v) == 0 {
			return
		}
		sep()
		dst = strconv.AppendUint(dst, uint64(tag), 10)
		dst = append(dst, KeyValueSeparator)
		dst = append(dst, v...)
	}
	appendInt := func(tag Tag, v int64) {
		if v == 0 {
			return
		}
		sep()
		dst = strconv.AppendUint(dst, uint64(tag), 10)
		dst = append(dst, KeyValueSeparator)
		dst = strconv.AppendInt(dst, v, 10)
	}

	appendText(TagMsgType, rec.MsgType)
	appendText(TagSenderCompID, rec.Sender)
	appendText(TagTargetCompID, rec.Target)
	appendText(TagSymbol, rec.Symbol)
	appendInt(TagSide, rec.Side)
	appendInt(TagOrderQty, rec.Quantity)

	if rec.Price != 0 {
		sep()
		dst = strconv.AppendUint(dst, uint64(TagPrice), 10)
		dst = append(dst, KeyValueSeparator)
		dst = appendPrice(dst, rec.Price)
	}
	return dst
}

// appendPrice formats v in plain decimal notation, which is the only float
// grammar ParseFloat reads back exactly.
func appendPrice(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'f', -1, 64)
}
