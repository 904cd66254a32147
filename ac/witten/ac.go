// Package witten implements the bit-oriented renormalization of the arithmetic coding algorithm described in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
//
// An interval that straddles the midpoint while lying inside the middle half cannot emit a bit yet.
// It is expanded around the midpoint instead, and the number of such expansions is remembered in fbits:
// once the next bit is known, it is followed by fbits copies of its complement.
package witten

import (
	"io"

	"github.com/fumin/interval/ac"
	"github.com/fumin/interval/ac/bitio"
	"github.com/pkg/errors"
)

const (
	half     = uint32(1) << (ac.StateBits - 1)
	firstQtr = half / 2
	thirdQtr = 3 * firstQtr
)

// An Emitter carries the output state of an encoder.
type Emitter struct {
	w     *bitio.Writer
	fbits uint64
}

// NewEmitter returns an Emitter writing packed bits to w.
func NewEmitter(w io.ByteWriter) *Emitter {
	return &Emitter{w: bitio.NewWriter(w)}
}

func (e *Emitter) bitPlusFollow(bit uint) error {
	if err := e.w.WriteBit(bit); err != nil {
		return errors.Wrap(err, "")
	}
	for ; e.fbits > 0; e.fbits-- {
		if err := e.w.WriteBit(bit ^ 1); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// Renormalize implements ac.Emitter.
func (e *Emitter) Renormalize(iv *ac.Interval) error {
	for {
		if iv.High < half {
			if err := e.bitPlusFollow(0); err != nil {
				return err
			}
		} else if iv.Low >= half {
			if err := e.bitPlusFollow(1); err != nil {
				return err
			}
			iv.Low -= half
			iv.High -= half
		} else if iv.Low >= firstQtr && iv.High < thirdQtr {
			e.fbits++
			iv.Low -= firstQtr
			iv.High -= firstQtr
		} else {
			return nil
		}

		iv.Low <<= 1
		iv.High = iv.High<<1 | 1
	}
}

// Finish implements ac.Emitter.
// Two more bits select the quarter of the interval that lies entirely inside it.
func (e *Emitter) Finish(iv ac.Interval) error {
	e.fbits++
	var bit uint = 1
	if iv.Low < firstQtr {
		bit = 0
	}
	if err := e.bitPlusFollow(bit); err != nil {
		return err
	}
	return e.w.Flush()
}

// An Absorber carries the input state of a decoder.
// Bits past the end of the payload read as zero, up to ac.StateBits-2 of them,
// which is the most a complete payload can leave unwritten.
type Absorber struct {
	r           *bitio.Reader
	garbageBits int
}

// NewAbsorber returns an Absorber reading packed bits from r.
func NewAbsorber(r io.ByteReader) *Absorber {
	return &Absorber{r: bitio.NewReader(r)}
}

func (a *Absorber) readBit() (uint32, error) {
	b, err := a.r.ReadBit()
	if err == nil {
		return uint32(b), nil
	}
	if err != io.EOF {
		return 0, errors.Wrap(err, "")
	}
	a.garbageBits++
	if a.garbageBits > ac.StateBits-2 {
		return 0, errors.Wrapf(ac.ErrTruncated, "%d bits past the end of payload", a.garbageBits)
	}
	return 0, nil
}

// Prime implements ac.Absorber.
func (a *Absorber) Prime() (uint32, error) {
	var code uint32
	for i := 0; i < ac.StateBits; i++ {
		b, err := a.readBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | b
	}
	return code, nil
}

// Renormalize implements ac.Absorber.
func (a *Absorber) Renormalize(iv *ac.Interval, code *uint32) error {
	for {
		if iv.High < half {
			// do nothing
		} else if iv.Low >= half {
			iv.Low -= half
			iv.High -= half
			*code -= half
		} else if iv.Low >= firstQtr && iv.High < thirdQtr {
			iv.Low -= firstQtr
			iv.High -= firstQtr
			*code -= firstQtr
		} else {
			return nil
		}

		iv.Low <<= 1
		iv.High = iv.High<<1 | 1
		b, err := a.readBit()
		if err != nil {
			return err
		}
		*code = *code<<1 | b
	}
}

// Exhausted implements ac.Absorber.
func (a *Absorber) Exhausted() bool {
	return a.garbageBits > 0
}
