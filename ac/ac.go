// Package ac implements static-frequency interval coding over a fixed alphabet of
// the 256 byte values plus an end-of-stream symbol.
// The interval engine is shared; how settled digits leave the interval is decided by a
// renormalization strategy, see the subpackages witten (bit-oriented arithmetic coding)
// and carryless (byte-oriented range coding).
package ac

import (
	"fmt"
)

const (
	// NumSymbols is the size of the alphabet: 256 byte values and EOS.
	NumSymbols = 257

	// EOS is the end-of-stream symbol. Every stream ends with exactly one EOS.
	EOS = NumSymbols - 1

	// MaxTotal is the ceiling of the sum of a frequency table.
	// Renormalization keeps the range of the interval at or above it, so every symbol
	// with a non-zero count keeps a non-empty sub-interval.
	MaxTotal = 1 << 24

	// StateBits is the width of the low, high and code registers.
	StateBits = 32
)

// ErrFormat is returned when a stream is not in the expected format:
// a wrong magic tag, a table size other than NumSymbols, or a payload that cannot
// have been produced by the encoder.
var ErrFormat = fmt.Errorf("invalid interval coded stream")

// ErrTruncated is returned when a stream ends before its header or its end-of-stream symbol.
var ErrTruncated = fmt.Errorf("truncated interval coded stream")

// ErrSymbol is returned when encoding a symbol outside the alphabet or with zero frequency.
var ErrSymbol = fmt.Errorf("symbol not encodable with the frequency table")

// An Interval is the current coding interval [Low, High] in the [0, 1<<StateBits) continuum.
// High is inclusive and implicitly followed by infinitely many one bits.
type Interval struct {
	Low  uint32
	High uint32
}

// fullInterval is the interval every session starts with.
func fullInterval() Interval {
	return Interval{Low: 0, High: 1<<StateBits - 1}
}

// An Emitter is the encoder half of a renormalization strategy.
// An Emitter owns the output sink of a single encoding session.
type Emitter interface {
	// Renormalize writes out the leading digits of iv that are settled and rescales iv,
	// so that the range of iv is larger than MaxTotal afterwards.
	Renormalize(iv *Interval) error

	// Finish writes enough trailing digits to identify a value inside iv and flushes the sink.
	Finish(iv Interval) error
}

// An Absorber is the decoder half of a renormalization strategy.
// It mirrors the Emitter it is paired with step for step.
type Absorber interface {
	// Prime reads the first StateBits bits of the payload into a code register.
	Prime() (uint32, error)

	// Renormalize rescales iv exactly like the paired Emitter does,
	// shifting fresh payload into code at each step.
	Renormalize(iv *Interval, code *uint32) error

	// Exhausted reports whether the payload ran out and missing units were substituted.
	Exhausted() bool
}
