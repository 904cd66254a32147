// Package interval compresses byte streams with static-frequency interval coding.
// Two coders share one frequency model and one stream layout:
// Arithmetic, a bit-oriented arithmetic coder in the style of Witten, Neal and Cleary,
// and Range, a byte-oriented carryless range coder.
//
// A compressed stream is self-contained:
//    4 bytes    magic tag, "AENC" (Arithmetic) or "RCNC" (Range)
//    4 bytes    little-endian table size, always 257
//    257*4      little-endian symbol counts, bytes 0..255 then end-of-stream
//    ...        the interval coded payload, terminated by the end-of-stream symbol
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//    go run compress/main.go -variant range testdata/gettysburg.txt > gettys.rcnc
//    cat gettys.rcnc | go run decompress/main.go > gettys.txt
//    diff testdata/gettysburg.txt gettys.txt
package interval

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fumin/interval/ac"
	"github.com/fumin/interval/ac/carryless"
	"github.com/fumin/interval/ac/witten"
	"github.com/pkg/errors"
)

// A Variant selects how the interval coder renormalizes.
type Variant int

const (
	// Range emits whole bytes once the top byte of the interval is settled.
	Range Variant = iota
	// Arithmetic emits single bits and handles underflow with pending bits.
	Arithmetic
)

// Variants lists every Variant.
var Variants = []Variant{Range, Arithmetic}

var variantInfo = [...]struct {
	name  string
	magic ac.Magic
}{
	Range:      {name: "range", magic: ac.Magic{'R', 'C', 'N', 'C'}},
	Arithmetic: {name: "arithmetic", magic: ac.Magic{'A', 'E', 'N', 'C'}},
}

func (v Variant) valid() bool {
	return v >= 0 && int(v) < len(variantInfo)
}

func (v Variant) String() string {
	if !v.valid() {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantInfo[v].name
}

// Magic returns the tag that starts every stream of v.
func (v Variant) Magic() ac.Magic {
	return variantInfo[v].magic
}

// ParseVariant returns the Variant called name.
func ParseVariant(name string) (Variant, error) {
	for _, v := range Variants {
		if v.String() == name {
			return v, nil
		}
	}
	return 0, errors.Errorf("unknown variant %q", name)
}

func variantOf(m ac.Magic) (Variant, bool) {
	for _, v := range Variants {
		if v.Magic() == m {
			return v, true
		}
	}
	return 0, false
}

func magics() []ac.Magic {
	ms := make([]ac.Magic, 0, len(Variants))
	for _, v := range Variants {
		ms = append(ms, v.Magic())
	}
	return ms
}

func (v Variant) emitter(w io.ByteWriter) ac.Emitter {
	if v == Arithmetic {
		return witten.NewEmitter(w)
	}
	return carryless.NewEmitter(w)
}

func (v Variant) absorber(r io.ByteReader) ac.Absorber {
	if v == Arithmetic {
		return witten.NewAbsorber(r)
	}
	return carryless.NewAbsorber(r)
}

// Encode compresses data with v and writes the stream to w.
func Encode(w io.Writer, data []byte, v Variant) error {
	if !v.valid() {
		return errors.Errorf("unknown variant %d", int(v))
	}
	freq := ac.Build(data)
	cum := freq.Cumulative()

	bw := bufio.NewWriter(w)
	if err := ac.WriteHeader(bw, v.Magic(), &freq); err != nil {
		return errors.Wrap(err, "")
	}
	// Finish flushes bw.
	enc := ac.NewEncoder(v.emitter(bw), &cum)
	if _, err := enc.Write(data); err != nil {
		return errors.Wrap(err, "")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Compress compresses the file called name with v and writes the stream to w.
// The whole file is read first, since the frequency table must be known before coding starts.
func Compress(w io.Writer, name string, v Variant) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := Encode(w, data, v); err != nil {
		return errors.Wrap(err, name)
	}
	return nil
}
