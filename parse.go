// Package simdfix parses flat FIX-style tag=value messages into a
// fixed-shape Record. Delimiter positions are found either byte by byte or
// with a chunked width-parallel scan; the path is chosen at runtime from the
// CPU's capabilities and both produce identical records.
package simdfix

import "fmt"

// DefaultDelimiter separates fields when no other delimiter is configured.
const DefaultDelimiter = '|'

// SOH is the delimiter used on the FIX wire.
const SOH = 0x01

// ============================================================================
// Strategy
// ============================================================================

// Strategy selects how delimiter positions are found.
type Strategy int

const (
	// StrategyAuto uses the vector scan when SupportsVector reports true.
	StrategyAuto Strategy = iota
	// StrategyScalar always scans byte by byte.
	StrategyScalar
	// StrategyVector always uses the chunked scan.
	StrategyVector
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyScalar:
		return "scalar"
	case StrategyVector:
		return "vector"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps "auto", "scalar" or "vector" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "auto", "":
		return StrategyAuto, nil
	case "scalar":
		return StrategyScalar, nil
	case "vector", "simd":
		return StrategyVector, nil
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q", name)
}

// SelectScanner returns the Scanner for s. StrategyAuto resolves through
// SupportsVector on every call, so a SetVectorSupport override is honored.
func SelectScanner(s Strategy) Scanner {
	switch s {
	case StrategyScalar:
		return ScalarScanner{}
	case StrategyVector:
		return VectorScanner{}
	}
	if SupportsVector() {
		return VectorScanner{}
	}
	return ScalarScanner{}
}

// ============================================================================
// Parser
// ============================================================================

// Parser turns one complete message buffer into a Record. A Parser holds no
// per-call state and is safe for concurrent use.
type Parser struct {
	delimiter byte
	strategy  Strategy
}

// Option configures a Parser.
type Option func(*Parser)

// WithDelimiter sets the field delimiter. The default is '|'.
func WithDelimiter(d byte) Option {
	return func(p *Parser) { p.delimiter = d }
}

// WithStrategy sets the scanning strategy. The default is StrategyAuto.
func WithStrategy(s Strategy) Option {
	return func(p *Parser) { p.strategy = s }
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{delimiter: DefaultDelimiter, strategy: StrategyAuto}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Delimiter returns the configured field delimiter.
func (p *Parser) Delimiter() byte { return p.delimiter }

// Strategy returns the configured strategy.
func (p *Parser) Strategy() Strategy { return p.strategy }

// Scanner returns the scanner the next Parse call will use.
func (p *Parser) Scanner() Scanner { return SelectScanner(p.strategy) }

// Parse scans data for delimiters and builds a Record from the accepted
// tag=value pairs. Text slots of the result alias data.
func (p *Parser) Parse(data []byte) Record {
	return p.parseWith(p.Scanner(), data)
}

func (p *Parser) parseWith(s Scanner, data []byte) Record {
	if len(data) == 0 {
		return Record{}
	}

	positions := getPositions()
	defer putPositions(positions)

	*positions = s.AppendDelimiters(*positions, data, p.delimiter)
	return buildRecord(data, *positions)
}

// ============================================================================
// Public API - Direct Parsing
// ============================================================================

var (
	scalarParser = NewParser(WithStrategy(StrategyScalar))
	vectorParser = NewParser(WithStrategy(StrategyVector))
	autoParser   = NewParser()
)

// ParseScalar parses a '|'-delimited message using the byte-at-a-time scan.
func ParseScalar(data []byte) Record {
	return scalarParser.Parse(data)
}

// ParseVector parses a '|'-delimited message using the chunked scan. It does
// not consult SupportsVector; on hardware without the wide kernel the chunk
// compare falls back to the portable one.
func ParseVector(data []byte) Record {
	return vectorParser.Parse(data)
}

// Parse parses a '|'-delimited message, using the vector path when
// SupportsVector reports true and the scalar path otherwise.
func Parse(data []byte) Record {
	return autoParser.Parse(data)
}
