package simdfix

import "fmt"

// =============================================================================
// Record Building - mapping tags onto the fixed output schema
// =============================================================================

// Tag is a numeric FIX field identifier.
type Tag uint32

// Tags known to the parser. BeginString and BodyLength are named for
// writers and diagnostics but are not mapped onto Record.
const (
	TagBeginString  Tag = 8
	TagBodyLength   Tag = 9
	TagOrderQty     Tag = 38
	TagPrice        Tag = 44
	TagMsgType      Tag = 35
	TagSenderCompID Tag = 49
	TagSide         Tag = 54
	TagSymbol       Tag = 55
	TagTargetCompID Tag = 56
)

var tagNames = map[Tag]string{
	TagBeginString:  "BeginString",
	TagBodyLength:   "BodyLength",
	TagOrderQty:     "OrderQty",
	TagPrice:        "Price",
	TagMsgType:      "MsgType",
	TagSenderCompID: "SenderCompID",
	TagSide:         "Side",
	TagSymbol:       "Symbol",
	TagTargetCompID: "TargetCompID",
}

// String returns the FIX field name for known tags and the number otherwise.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint32(t))
}

// Record is the fixed-shape result of a parse.
//
// Text slots alias the parsed input: the caller must keep that buffer alive,
// and unmodified, for as long as it uses them. A zero Record is the result
// for empty input.
type Record struct {
	MsgType  []byte  // tag 35
	Symbol   []byte  // tag 55
	Sender   []byte  // tag 49
	Target   []byte  // tag 56
	Side     int64   // tag 54
	Price    float64 // tag 44
	Quantity int64   // tag 38

	// Valid is true iff MsgType and Symbol are both non-empty.
	Valid bool
}

// Equal reports whether r and o hold the same slot values.
func (r Record) Equal(o Record) bool {
	return string(r.MsgType) == string(o.MsgType) &&
		string(r.Symbol) == string(o.Symbol) &&
		string(r.Sender) == string(o.Sender) &&
		string(r.Target) == string(o.Target) &&
		r.Side == o.Side &&
		r.Price == o.Price &&
		r.Quantity == o.Quantity &&
		r.Valid == o.Valid
}

// recordBuilder accumulates tag=value pairs into a Record.
type recordBuilder struct {
	rec Record
}

// apply writes value into the slot for tag, replacing any earlier value.
// Unrecognized tags are ignored.
func (b *recordBuilder) apply(tag Tag, value []byte) {
	switch tag {
	case TagMsgType:
		b.rec.MsgType = value
	case TagSymbol:
		b.rec.Symbol = value
	case TagSenderCompID:
		b.rec.Sender = value
	case TagTargetCompID:
		b.rec.Target = value
	case TagSide:
		b.rec.Side = ParseInt(value)
	case TagPrice:
		b.rec.Price = ParseFloat(value)
	case TagOrderQty:
		b.rec.Quantity = ParseInt(value)
	}
}

// finish sets the validity flag and returns the record.
func (b *recordBuilder) finish() Record {
	b.rec.Valid = len(b.rec.MsgType) > 0 && len(b.rec.Symbol) > 0
	return b.rec
}

// buildRecord tokenizes data at positions and maps the accepted pairs onto
// a Record.
func buildRecord(data []byte, positions []int) Record {
	var b recordBuilder
	forEachField(data, positions, b.apply)
	return b.finish()
}
