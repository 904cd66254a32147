package ac

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

var errClosed = fmt.Errorf("encoder already closed")

// narrow shrinks iv to the sub-interval of the cumulative range [symLow, symHigh) out of total.
// The products fit in 64 bits since the range is at most 1<<StateBits and total at most MaxTotal.
func (iv *Interval) narrow(symLow, symHigh, total uint64) {
	r := uint64(iv.High) - uint64(iv.Low) + 1
	iv.High = iv.Low + uint32(r*symHigh/total-1)
	iv.Low = iv.Low + uint32(r*symLow/total)
}

// An Encoder carries the state of one encoding session.
type Encoder struct {
	iv     Interval
	cum    *Cumulative
	em     Emitter
	closed bool
}

// NewEncoder returns an Encoder that codes symbols with cum and hands settled digits to em.
func NewEncoder(em Emitter, cum *Cumulative) *Encoder {
	return &Encoder{iv: fullInterval(), cum: cum, em: em}
}

// Encode codes a single symbol.
func (e *Encoder) Encode(sym int) error {
	if e.closed {
		return errClosed
	}
	if sym < 0 || sym >= NumSymbols {
		return errors.Wrapf(ErrSymbol, "symbol %d", sym)
	}
	low, high := e.cum.Range(sym)
	if low == high {
		return errors.Wrapf(ErrSymbol, "symbol %d has zero frequency", sym)
	}

	e.iv.narrow(low, high, e.cum.Total())
	if err := e.em.Renormalize(&e.iv); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Write encodes every byte of p as a symbol.
func (e *Encoder) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := e.Encode(int(b)); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Close encodes the end-of-stream symbol and finishes the stream.
// Close does not close the underlying sink.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	if err := e.Encode(EOS); err != nil {
		return err
	}
	e.closed = true
	if err := e.em.Finish(e.iv); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// A Decoder carries the state of one decoding session.
type Decoder struct {
	iv   Interval
	code uint32
	cum  *Cumulative
	ab   Absorber
	eos  bool
}

// NewDecoder returns a Decoder that reads payload through ab and looks symbols up in cum.
func NewDecoder(ab Absorber, cum *Cumulative) (*Decoder, error) {
	code, err := ab.Prime()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &Decoder{iv: fullInterval(), code: code, cum: cum, ab: ab}, nil
}

// Decode returns the next symbol.
// Once EOS has been decoded, Decode keeps returning EOS without reading further.
func (d *Decoder) Decode() (int, error) {
	if d.eos {
		return EOS, nil
	}

	total := d.cum.Total()
	r := uint64(d.iv.High) - uint64(d.iv.Low) + 1
	offset := uint64(d.code - d.iv.Low)
	value := ((offset+1)*total - 1) / r
	if value >= total {
		if d.ab.Exhausted() {
			return 0, errors.Wrap(ErrTruncated, "code register left the interval after the end of stream")
		}
		return 0, errors.Wrapf(ErrFormat, "code %#x outside interval [%#x, %#x]", d.code, d.iv.Low, d.iv.High)
	}

	sym := d.cum.Find(value)
	low, high := d.cum.Range(sym)
	d.iv.narrow(low, high, total)
	if err := d.ab.Renormalize(&d.iv, &d.code); err != nil {
		return 0, errors.Wrap(err, "")
	}
	if sym == EOS {
		d.eos = true
	}
	return sym, nil
}

// Read decodes bytes into p. It returns io.EOF once the end-of-stream symbol is reached.
func (d *Decoder) Read(p []byte) (int, error) {
	for i := range p {
		sym, err := d.Decode()
		if err != nil {
			return i, err
		}
		if sym == EOS {
			return i, io.EOF
		}
		p[i] = byte(sym)
	}
	return len(p), nil
}
