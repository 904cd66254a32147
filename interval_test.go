package interval

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/fumin/interval/ac"
	"github.com/pkg/errors"
)

func encode(t testing.TB, data []byte, v Variant) []byte {
	var buf bytes.Buffer
	if err := Encode(&buf, data, v); err != nil {
		t.Fatalf("%+v", err)
	}
	return buf.Bytes()
}

func testRoundTrip(t *testing.T, data []byte, v Variant) []byte {
	encoded := encode(t, data, v)
	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("%s: decoded %d bytes differ from %d original bytes", v, len(decoded), len(data))
	}
	return encoded
}

func randomBytes(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// skewed returns n bytes, nine in ten of which are 'A'.
func skewed(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	for i := range b {
		if rng.Intn(10) == 0 {
			b[i] = byte(rng.Intn(256))
		} else {
			b[i] = 'A'
		}
	}
	return b
}

func TestRoundTrip(t *testing.T) {
	gettys, err := ioutil.ReadFile("testdata/gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	inputs := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single", []byte{0xFF}},
		{"all bytes", all},
		{"gettysburg", gettys},
		{"random", randomBytes(0, 10000)},
		{"skewed", skewed(1, 10000)},
		{"two runs", append(bytes.Repeat([]byte{0}, 5000), bytes.Repeat([]byte{1}, 5000)...)},
	}
	for _, in := range inputs {
		for _, v := range Variants {
			t.Run(in.name+"/"+v.String(), func(t *testing.T) {
				testRoundTrip(t, in.data, v)
			})
		}
	}
}

func TestDeterministic(t *testing.T) {
	data := skewed(2, 3000)
	for _, v := range Variants {
		a, b := encode(t, data, v), encode(t, data, v)
		if !bytes.Equal(a, b) {
			t.Errorf("%s: two encodings differ", v)
		}
	}
}

func TestHeader(t *testing.T) {
	data := []byte("government of the people")
	for _, v := range Variants {
		encoded := encode(t, data, v)
		if !bytes.Equal(encoded[:4], []byte(v.Magic().String())) {
			t.Errorf("%s: magic %q", v, encoded[:4])
		}
		if n := binary.LittleEndian.Uint32(encoded[4:8]); n != ac.NumSymbols {
			t.Errorf("%s: table size %d", v, n)
		}
		if c := binary.LittleEndian.Uint32(encoded[8+4*'e':]); c != 5 {
			t.Errorf("%s: count of 'e' %d", v, c)
		}
	}
}

func TestEmptySize(t *testing.T) {
	tests := []struct {
		v       Variant
		payload []byte
	}{
		{Range, []byte{0, 0, 0, 0}},
		{Arithmetic, []byte{0x40}},
	}
	for _, test := range tests {
		encoded := testRoundTrip(t, nil, test.v)
		if len(encoded) != ac.HeaderSize+len(test.payload) {
			t.Errorf("%s: %d bytes", test.v, len(encoded))
		}
		if !bytes.Equal(encoded[ac.HeaderSize:], test.payload) {
			t.Errorf("%s: payload %#v", test.v, encoded[ac.HeaderSize:])
		}
	}
}

func TestSkewedCompresses(t *testing.T) {
	data := skewed(3, 10000)
	for _, v := range Variants {
		encoded := testRoundTrip(t, data, v)
		t.Logf("%s: %d bytes", v, len(encoded))
		if len(encoded) >= len(data)+ac.HeaderSize {
			t.Errorf("%s: %d bytes", v, len(encoded))
		}
		// The entropy is about 1.3 bits per byte.
		if payload := len(encoded) - ac.HeaderSize; payload >= 2500 {
			t.Errorf("%s: payload %d bytes", v, payload)
		}
	}
}

func TestLongRun(t *testing.T) {
	if testing.Short() {
		t.Skip("long run")
	}
	data := bytes.Repeat([]byte{'x'}, 1000000)
	for _, v := range Variants {
		encoded := testRoundTrip(t, data, v)
		t.Logf("%s: %d bytes", v, len(encoded))
	}
}

func TestTruncatedRange(t *testing.T) {
	encoded := encode(t, []byte("that these dead shall not have died in vain"), Range)
	for n := 0; n < len(encoded); n++ {
		_, err := Decode(bytes.NewReader(encoded[:n]))
		if errors.Cause(err) != ac.ErrTruncated {
			t.Fatalf("%d of %d bytes: %v", n, len(encoded), err)
		}
	}
}

func TestTruncatedArithmetic(t *testing.T) {
	encoded := encode(t, randomBytes(4, 10000), Arithmetic)
	cuts := []int{}
	for n := 0; n <= ac.HeaderSize; n++ {
		cuts = append(cuts, n)
	}
	payload := len(encoded) - ac.HeaderSize
	for _, q := range []int{1, 2, 3} {
		cuts = append(cuts, ac.HeaderSize+payload*q/4)
	}
	for _, n := range cuts {
		_, err := Decode(bytes.NewReader(encoded[:n]))
		if errors.Cause(err) != ac.ErrTruncated {
			t.Fatalf("%d of %d bytes: %v", n, len(encoded), err)
		}
	}
}

func TestMalformed(t *testing.T) {
	valid := encode(t, []byte("new birth of freedom"), Range)
	tests := []struct {
		name   string
		mutate func(b []byte)
	}{
		{"magic", func(b []byte) { copy(b, "GZIP") }},
		{"table size", func(b []byte) { binary.LittleEndian.PutUint32(b[4:], 256) }},
		{"zero total", func(b []byte) {
			for i := 8; i < ac.HeaderSize; i++ {
				b[i] = 0
			}
		}},
		{"no eos", func(b []byte) { binary.LittleEndian.PutUint32(b[8+4*ac.EOS:], 0) }},
		{"over ceiling", func(b []byte) { binary.LittleEndian.PutUint32(b[8:], ac.MaxTotal) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := append([]byte{}, valid...)
			test.mutate(b)
			_, err := Decode(bytes.NewReader(b))
			if errors.Cause(err) != ac.ErrFormat {
				t.Fatalf("%v", err)
			}
		})
	}
}

func TestReader(t *testing.T) {
	data := []byte("we can not dedicate, we can not consecrate, we can not hallow this ground")
	want := ac.Build(data)
	for _, v := range Variants {
		r, err := NewReader(bytes.NewReader(encode(t, data, v)))
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if r.Variant() != v {
			t.Errorf("%s != %s", r.Variant(), v)
		}
		if r.Frequencies() != want {
			t.Errorf("%s: frequencies differ", v)
		}
		// A single byte at a time.
		var got []byte
		p := make([]byte, 1)
		for {
			n, err := r.Read(p)
			got = append(got, p[:n]...)
			if err != nil {
				break
			}
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: %q", v, got)
		}
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range Variants {
		got, err := ParseVariant(v.String())
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if got != v {
			t.Errorf("%s != %s", got, v)
		}
	}
	if _, err := ParseVariant("huffman"); err == nil {
		t.Errorf("no error")
	}
	if s := Variant(7).String(); s != "Variant(7)" {
		t.Errorf("%s", s)
	}
	if err := Encode(ioutil.Discard, nil, Variant(7)); err == nil {
		t.Errorf("no error")
	}
}

func TestStats(t *testing.T) {
	data := skewed(5, 4000)
	for _, v := range Variants {
		var buf bytes.Buffer
		s, err := EncodeStats(&buf, data, v)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if s.Variant != v || s.Original != int64(len(data)) || s.Compressed != int64(buf.Len()) {
			t.Errorf("%+v %d", s, buf.Len())
		}
		if s.Payload() != int64(buf.Len()-ac.HeaderSize) {
			t.Errorf("%d", s.Payload())
		}
		if s.BitsPerByte() <= 0 || s.BitsPerByte() >= 8 {
			t.Errorf("%f", s.BitsPerByte())
		}
	}
	if r := (Stats{}).Ratio(); r != 0 {
		t.Errorf("%f", r)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("abracadabra"))
	f.Add([]byte{0, 0, 0, 255, 255})
	f.Fuzz(func(t *testing.T, data []byte) {
		for _, v := range Variants {
			var buf bytes.Buffer
			if err := Encode(&buf, data, v); err != nil {
				t.Fatalf("%+v", err)
			}
			decoded, err := Decode(&buf)
			if err != nil {
				t.Fatalf("%s: %+v", v, err)
			}
			if !bytes.Equal(decoded, data) {
				t.Fatalf("%s: %q != %q", v, decoded, data)
			}
		}
	})
}

func benchData() []byte {
	b := make([]byte, 1<<20)
	for i := range b {
		b[i] = byte(i*31 + 7)
	}
	return b
}

func BenchmarkEncode(b *testing.B) {
	data := benchData()
	for _, v := range Variants {
		b.Run(v.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if err := Encode(ioutil.Discard, data, v); err != nil {
					b.Fatalf("%+v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	data := benchData()
	for _, v := range Variants {
		encoded := encode(b, data, v)
		b.Run(v.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := Decode(bytes.NewReader(encoded)); err != nil {
					b.Fatalf("%+v", err)
				}
			}
		})
	}
}

func ExampleEncode() {
	var buf bytes.Buffer
	if err := Encode(&buf, []byte("four score"), Range); err != nil {
		fmt.Println(err)
		return
	}
	out, err := Decode(&buf)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s\n", out)
	// Output: four score
}
