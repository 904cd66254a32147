package interval

import (
	"io"

	"github.com/fumin/interval/ac"
	"github.com/pkg/errors"
)

// Stats describes the outcome of one Encode call.
type Stats struct {
	Variant    Variant
	Original   int64 // size of the input
	Compressed int64 // size of the stream, header included
}

// Payload returns the size of the coded payload, without the header.
func (s Stats) Payload() int64 {
	return s.Compressed - ac.HeaderSize
}

// Ratio returns the compressed size as a fraction of the original size.
func (s Stats) Ratio() float64 {
	if s.Original == 0 {
		return 0
	}
	return float64(s.Compressed) / float64(s.Original)
}

// BitsPerByte returns the payload bits spent per input byte.
func (s Stats) BitsPerByte() float64 {
	if s.Original == 0 {
		return 0
	}
	return 8 * float64(s.Payload()) / float64(s.Original)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// EncodeStats is Encode that also reports the sizes involved.
func EncodeStats(w io.Writer, data []byte, v Variant) (Stats, error) {
	cw := &countingWriter{w: w}
	if err := Encode(cw, data, v); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	return Stats{Variant: v, Original: int64(len(data)), Compressed: cw.n}, nil
}
