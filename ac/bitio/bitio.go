// Package bitio reads and writes single bits, most significant bit first within each byte.
package bitio

import (
	"io"

	"github.com/pkg/errors"
)

// A Writer packs bits into bytes.
type Writer struct {
	w   io.ByteWriter
	acc byte
	n   uint
}

// NewWriter returns a Writer that writes whole bytes to w.
func NewWriter(w io.ByteWriter) *Writer {
	return &Writer{w: w}
}

// WriteBit writes the lowest bit of bit.
func (w *Writer) WriteBit(bit uint) error {
	w.acc = w.acc<<1 | byte(bit&1)
	w.n++
	if w.n < 8 {
		return nil
	}
	if err := w.w.WriteByte(w.acc); err != nil {
		return errors.Wrap(err, "")
	}
	w.acc, w.n = 0, 0
	return nil
}

// Flush pads a partial byte with zero bits and writes it.
// If the underlying writer can be flushed, it is flushed too.
func (w *Writer) Flush() error {
	if w.n > 0 {
		if err := w.w.WriteByte(w.acc << (8 - w.n)); err != nil {
			return errors.Wrap(err, "")
		}
		w.acc, w.n = 0, 0
	}
	return Flush(w.w)
}

// Flush flushes w if it buffers its output.
func Flush(w interface{}) error {
	f, ok := w.(interface{ Flush() error })
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// A Reader unpacks bits from bytes.
type Reader struct {
	r   io.ByteReader
	acc byte
	n   uint
}

// NewReader returns a Reader that reads whole bytes from r.
func NewReader(r io.ByteReader) *Reader {
	return &Reader{r: r}
}

// ReadBit returns the next bit. At the end of the input it returns io.EOF, unwrapped.
func (r *Reader) ReadBit() (uint, error) {
	if r.n == 0 {
		b, err := r.r.ReadByte()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, errors.Wrap(err, "")
		}
		r.acc, r.n = b, 8
	}
	r.n--
	return uint(r.acc>>r.n) & 1, nil
}
