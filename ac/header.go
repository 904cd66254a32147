package ac

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// HeaderSize is the size in bytes of a stream header: the magic tag, the table size
// and NumSymbols little-endian counts.
const HeaderSize = 4 + 4 + 4*NumSymbols

// A Magic is the 4-byte tag a stream starts with. It names the coding variant.
type Magic [4]byte

func (m Magic) String() string {
	return string(m[:])
}

// WriteHeader writes magic followed by the frequency table freq.
func WriteHeader(w io.Writer, magic Magic, freq *Frequencies) error {
	buf := make([]byte, HeaderSize)
	copy(buf, magic[:])
	binary.LittleEndian.PutUint32(buf[4:], NumSymbols)
	for i, c := range freq {
		binary.LittleEndian.PutUint32(buf[8+4*i:], c)
	}
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// ReadHeader reads a header written by WriteHeader with the same magic.
func ReadHeader(r io.Reader, magic Magic) (Frequencies, error) {
	if _, err := ReadMagic(r, magic); err != nil {
		return Frequencies{}, errors.Wrap(err, "")
	}
	freq, err := ReadTable(r)
	if err != nil {
		return Frequencies{}, errors.Wrap(err, "")
	}
	return freq, nil
}

// ReadMagic reads a magic tag and returns it if it is one of known.
// A stream that ends inside a tag that could still become a known one is truncated;
// anything else is not ours.
func ReadMagic(r io.Reader, known ...Magic) (Magic, error) {
	var m Magic
	n, err := io.ReadFull(r, m[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return m, errors.Wrap(err, "")
	}
	for _, k := range known {
		if !bytes.Equal(m[:n], k[:n]) {
			continue
		}
		if n < len(m) {
			return m, errors.Wrapf(ErrTruncated, "stream ends after %d magic bytes", n)
		}
		return m, nil
	}
	return m, errors.Wrapf(ErrFormat, "unknown magic %q", m[:n])
}

// ReadTable reads the table size and the frequency table that follow a magic tag.
func ReadTable(r io.Reader) (Frequencies, error) {
	var freq Frequencies
	var size [4]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return freq, readErr(err)
	}
	if n := binary.LittleEndian.Uint32(size[:]); n != NumSymbols {
		return freq, errors.Wrapf(ErrFormat, "frequency table size %d, want %d", n, NumSymbols)
	}

	buf := make([]byte, 4*NumSymbols)
	if _, err := io.ReadFull(r, buf); err != nil {
		return freq, readErr(err)
	}
	for i := range freq {
		freq[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return freq, nil
}

func readErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrTruncated, err.Error())
	}
	return errors.Wrap(err, "")
}
