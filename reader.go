package simdfix

import (
	"fmt"
	"io"
	"math"
)

// Reader reads records from newline-separated messages.
//
// Each line holds one complete message. A trailing '\r' is stripped and
// blank lines are skipped. The exported fields can be changed to customize
// the details before the first call to Read or ReadAll.
//
// The whole input is read on the first call. Returned records borrow the
// Reader's buffer, which is never reused, so they stay valid after later
// calls.
type Reader struct {
	// Delimiter is the field delimiter.
	// It is set to '|' by NewReader.
	Delimiter byte

	// Strategy selects how delimiters are found, both for line breaks and
	// for the fields inside each message.
	Strategy Strategy

	// MaxInputSize bounds the input read by the first call. Zero means
	// DefaultMaxInputSize.
	MaxInputSize int64

	// Strict makes Read return a *ParseError wrapping ErrInvalidRecord,
	// alongside the record, for messages missing MsgType or Symbol.
	Strict bool

	r io.Reader

	// Internal state
	buf         []byte
	lineEnds    []int
	next        int // index into lineEnds of the next line to read
	lineStart   int // offset of the next line in buf
	numLine     int
	initialized bool
	initErr     error
	parser      *Parser
}

// NewReader returns a new Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		Delimiter: DefaultDelimiter,
		r:         r,
	}
}

// Read returns the next record.
// If there is no data left to be read, Read returns a zero Record and io.EOF.
// In Strict mode an invalid record is returned together with a *ParseError.
func (r *Reader) Read() (Record, error) {
	if !r.initialized {
		r.initErr = r.initialize()
	}
	if r.initErr != nil {
		return Record{}, r.initErr
	}

	for {
		line, ok := r.nextLine()
		if !ok {
			return Record{}, io.EOF
		}
		if len(line) == 0 {
			continue
		}

		rec := r.parser.Parse(line)
		if r.Strict && !rec.Valid {
			return rec, &ParseError{Line: r.numLine, Err: ErrInvalidRecord}
		}
		return rec, nil
	}
}

// ReadAll reads all the remaining records from r.
// A successful call returns err == nil, not err == io.EOF. Because ReadAll is
// defined to read until EOF, it does not treat end of file as an error to be
// reported.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Line returns the 1-indexed line number of the most recently read record.
func (r *Reader) Line() int {
	return r.numLine
}

// initialize reads the whole input and locates every line break.
func (r *Reader) initialize() error {
	r.initialized = true
	r.parser = NewParser(WithDelimiter(r.Delimiter), WithStrategy(r.Strategy))

	limit := r.MaxInputSize
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}

	// One byte past the limit tells an exact fit from an oversized input.
	n := limit
	if n < math.MaxInt64 {
		n++
	}
	buf, err := io.ReadAll(io.LimitReader(r.r, n))
	if err != nil {
		return fmt.Errorf("simdfix: reading input: %w", err)
	}
	if int64(len(buf)) > limit {
		return ErrInputTooLarge
	}

	r.buf = buf
	r.lineEnds = SelectScanner(r.Strategy).AppendDelimiters(
		make([]int, 0, len(buf)/64+1), buf, '\n')
	return nil
}

// nextLine returns the next line without its terminator and any trailing
// '\r'. It reports false once the input is exhausted.
func (r *Reader) nextLine() ([]byte, bool) {
	var end int
	switch {
	case r.next < len(r.lineEnds):
		end = r.lineEnds[r.next]
		r.next++
	case r.lineStart < len(r.buf):
		end = len(r.buf) // final line without terminator
	default:
		return nil, false
	}

	line := r.buf[r.lineStart:end:end]
	r.lineStart = end + 1
	r.numLine++

	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, true
}
