package interval

import (
	"bufio"
	"io"

	"github.com/fumin/interval/ac"
	"github.com/pkg/errors"
)

// The header and the payload are read through the same reader, so that no payload is lost to buffering.
type byteReader interface {
	io.Reader
	io.ByteReader
}

// A Reader decompresses a stream produced by Encode.
// Decoding needs no look-ahead beyond the header, so a Reader decodes as it is read.
type Reader struct {
	variant Variant
	freq    ac.Frequencies
	cum     ac.Cumulative
	dec     *ac.Decoder
}

// NewReader reads the header of a compressed stream from r and returns a Reader for its payload.
// The variant is told by the magic tag.
func NewReader(r io.Reader) (*Reader, error) {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	m, err := ac.ReadMagic(br, magics()...)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	v, _ := variantOf(m)
	freq, err := ac.ReadTable(br)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := freq.Validate(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	d := &Reader{variant: v, freq: freq}
	d.cum = freq.Cumulative()
	d.dec, err = ac.NewDecoder(v.absorber(br), &d.cum)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return d, nil
}

// Variant returns the variant the stream was encoded with.
func (d *Reader) Variant() Variant {
	return d.variant
}

// Frequencies returns the frequency table of the stream.
func (d *Reader) Frequencies() ac.Frequencies {
	return d.freq
}

// Read implements io.Reader.
// A stream that ends before its end-of-stream symbol fails with ac.ErrTruncated.
func (d *Reader) Read(p []byte) (int, error) {
	n, err := d.dec.Read(p)
	if err != nil && err != io.EOF {
		return n, errors.Wrap(err, "")
	}
	return n, err
}

// Decode decompresses the whole stream in r.
func Decode(r io.Reader) ([]byte, error) {
	d, err := NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	out, err := io.ReadAll(d)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return out, nil
}

// Decompress decompresses the stream in r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	d, err := NewReader(r)
	if err != nil {
		return errors.Wrap(err, "")
	}
	bw := bufio.NewWriter(w)
	if _, err := io.Copy(bw, d); err != nil {
		return errors.Wrap(err, "")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
