// Package carryless implements the byte-oriented renormalization of a carryless range coder.
//
// A byte is shifted out only once it is the same in both bounds of the interval, so a carry can never
// reach bytes already written. When the bounds still differ in their top byte but the range has shrunk
// below ac.MaxTotal, the interval is cut down to the part that shares the top byte of low.
package carryless

import (
	"io"

	"github.com/fumin/interval/ac"
	"github.com/fumin/interval/ac/bitio"
	"github.com/pkg/errors"
)

const (
	top   = 1 << (ac.StateBits - 8)
	shift = ac.StateBits - 8
)

// settled reports whether the top byte of iv is fixed, clamping iv first if its range got too small.
func settled(iv *ac.Interval) bool {
	if iv.Low^iv.High < top {
		return true
	}
	if iv.High-iv.Low < top {
		iv.High = iv.Low | (top - 1)
		return true
	}
	return false
}

// An Emitter writes the settled bytes of an encoder's interval.
type Emitter struct {
	w io.ByteWriter
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.ByteWriter) *Emitter {
	return &Emitter{w: w}
}

// Renormalize implements ac.Emitter.
func (e *Emitter) Renormalize(iv *ac.Interval) error {
	for settled(iv) {
		if err := e.w.WriteByte(byte(iv.Low >> shift)); err != nil {
			return errors.Wrap(err, "")
		}
		iv.Low <<= 8
		iv.High = iv.High<<8 | 0xFF
	}
	return nil
}

// Finish implements ac.Emitter. All four bytes of low are written.
func (e *Emitter) Finish(iv ac.Interval) error {
	for i := 0; i < ac.StateBits/8; i++ {
		if err := e.w.WriteByte(byte(iv.Low >> shift)); err != nil {
			return errors.Wrap(err, "")
		}
		iv.Low <<= 8
	}
	return bitio.Flush(e.w)
}

// An Absorber reads payload bytes for a decoder.
// A complete payload is consumed exactly, so running out of bytes always means truncation.
type Absorber struct {
	r io.ByteReader
	n int64
}

// NewAbsorber returns an Absorber reading from r.
func NewAbsorber(r io.ByteReader) *Absorber {
	return &Absorber{r: r}
}

func (a *Absorber) readByte() (uint32, error) {
	b, err := a.r.ReadByte()
	if err == io.EOF {
		return 0, errors.Wrapf(ac.ErrTruncated, "payload ends after %d bytes", a.n)
	}
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	a.n++
	return uint32(b), nil
}

// Prime implements ac.Absorber.
func (a *Absorber) Prime() (uint32, error) {
	var code uint32
	for i := 0; i < ac.StateBits/8; i++ {
		b, err := a.readByte()
		if err != nil {
			return 0, err
		}
		code = code<<8 | b
	}
	return code, nil
}

// Renormalize implements ac.Absorber.
func (a *Absorber) Renormalize(iv *ac.Interval, code *uint32) error {
	for settled(iv) {
		b, err := a.readByte()
		if err != nil {
			return err
		}
		iv.Low <<= 8
		iv.High = iv.High<<8 | 0xFF
		*code = *code<<8 | b
	}
	return nil
}

// Exhausted implements ac.Absorber. Missing bytes are never substituted.
func (a *Absorber) Exhausted() bool {
	return false
}
