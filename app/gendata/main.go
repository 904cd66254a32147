// Command gendata writes the benchmark corpora: random bytes, long runs of repeated bytes,
// and text drawn from a small alphabet.
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var (
	dstDir = flag.String("d", "testdata", "destination directory")
	size   = flag.Int("size", 1<<20, "size of each file in bytes")
)

const textAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ  \n.,;:!?-_"

// A generator sends n bytes of a corpus to dst, stopping early if kill is closed.
type generator func(dst chan<- []byte, kill <-chan struct{}, n int)

var corpora = []struct {
	name string
	gen  generator
}{
	{"random.bin", random},
	{"repetitive.bin", repetitive},
	{"textlike.bin", textlike},
}

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(*dstDir, *size); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(dstDir string, size int) error {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return errors.Wrap(err, "")
	}
	for _, c := range corpora {
		fpath := filepath.Join(dstDir, c.name)
		if info, err := os.Stat(fpath); err == nil && info.Size() == int64(size) {
			continue
		}
		w, err := os.Create(fpath)
		if err != nil {
			return errors.Wrap(err, "")
		}
		err = generate(w, c.gen, size)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrap(err, fpath)
		}
		log.Printf("wrote %s (%d bytes)", fpath, size)
	}
	return nil
}

func generate(w io.Writer, gen generator, n int) error {
	kill := make(chan struct{})
	defer close(kill)
	src := make(chan []byte)
	go func() {
		defer close(src)
		gen(src, kill, n)
	}()

	bw := bufio.NewWriter(w)
	for chunk := range src {
		if _, err := bw.Write(chunk); err != nil {
			return errors.Wrap(err, "")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func send(dst chan<- []byte, kill <-chan struct{}, chunk []byte) bool {
	select {
	case <-kill:
		return false
	case dst <- chunk:
		return true
	}
}

func random(dst chan<- []byte, kill <-chan struct{}, n int) {
	rng := rand.New(rand.NewSource(0))
	for n > 0 {
		chunk := make([]byte, 64<<10)
		if n < len(chunk) {
			chunk = chunk[:n]
		}
		rng.Read(chunk)
		if !send(dst, kill, chunk) {
			return
		}
		n -= len(chunk)
	}
}

// repetitive writes runs of 4 to 4096 copies of a random byte.
func repetitive(dst chan<- []byte, kill <-chan struct{}, n int) {
	rng := rand.New(rand.NewSource(1))
	for n > 0 {
		value := byte(rng.Intn(256))
		runLen := 4 + rng.Intn(4096-4+1)
		if runLen > n {
			runLen = n
		}
		chunk := repeatByte(value, runLen)
		if !send(dst, kill, chunk) {
			return
		}
		n -= runLen
	}
}

func repeatByte(value byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = value
	}
	return b
}

func textlike(dst chan<- []byte, kill <-chan struct{}, n int) {
	rng := rand.New(rand.NewSource(2))
	for n > 0 {
		chunk := make([]byte, 64<<10)
		if n < len(chunk) {
			chunk = chunk[:n]
		}
		for i := range chunk {
			chunk[i] = textAlphabet[rng.Intn(len(textAlphabet))]
		}
		if !send(dst, kill, chunk) {
			return
		}
		n -= len(chunk)
	}
}
