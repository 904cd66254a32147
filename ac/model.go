package ac

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Frequencies is a static frequency table, indexed by symbol.
type Frequencies [NumSymbols]uint32

// Build counts the bytes of data, forces the count of EOS to one and scales the result
// so that the table sums to at most MaxTotal.
func Build(data []byte) Frequencies {
	var counts [NumSymbols]uint64
	for _, b := range data {
		counts[b]++
	}
	counts[EOS] = 1
	return Scale(counts)
}

// Scale fits counts into a frequency table whose total is at most MaxTotal.
// Every symbol with a non-zero count keeps a non-zero frequency.
func Scale(counts [NumSymbols]uint64) Frequencies {
	var freq Frequencies
	var total uint64
	for _, c := range counts {
		total += c
	}

	if total == 0 {
		for i := range freq {
			freq[i] = 1
		}
		return freq
	}
	if total <= MaxTotal {
		for i, c := range counts {
			freq[i] = uint32(c)
		}
		return freq
	}

	var scaled uint64
	for i, c := range counts {
		if c == 0 {
			continue
		}
		// c <= total, so the quotient fits and Div64 does not panic.
		hi, lo := bits.Mul64(c, MaxTotal)
		s, _ := bits.Div64(hi, lo, total)
		if s == 0 {
			s = 1
		}
		freq[i] = uint32(s)
		scaled += s
	}
	if scaled == 0 {
		for i := range freq {
			freq[i] = MaxTotal / NumSymbols
		}
		return freq
	}
	freq.trim(scaled)
	return freq
}

// trim takes the excess of total over MaxTotal back from the largest entries.
// Rounding small counts up to one can overshoot the ceiling by at most NumSymbols.
func (f *Frequencies) trim(total uint64) {
	for total > MaxTotal {
		largest := 0
		for i := range f {
			if f[i] > f[largest] {
				largest = i
			}
		}
		cut := total - MaxTotal
		if room := uint64(f[largest] - 1); cut > room {
			cut = room
		}
		f[largest] -= uint32(cut)
		total -= cut
	}
}

// Total returns the sum of all frequencies.
func (f *Frequencies) Total() uint64 {
	var total uint64
	for _, c := range f {
		total += uint64(c)
	}
	return total
}

// Validate checks that a table read from a stream can drive a decoder.
func (f *Frequencies) Validate() error {
	total := f.Total()
	if total == 0 || total > MaxTotal {
		return errors.Wrapf(ErrFormat, "frequency total %d outside (0, %d]", total, MaxTotal)
	}
	if f[EOS] == 0 {
		return errors.Wrap(ErrFormat, "end-of-stream symbol has zero frequency")
	}
	return nil
}

// Cumulative is the prefix sum of a frequency table: symbol s owns [c[s], c[s+1]).
type Cumulative [NumSymbols + 1]uint32

// Cumulative returns the prefix sums of f.
// An all-zero table yields the identity table, so that the total is never zero.
func (f *Frequencies) Cumulative() Cumulative {
	var c Cumulative
	for i, n := range f {
		c[i+1] = c[i] + n
	}
	if c[NumSymbols] == 0 {
		for i := range f {
			c[i+1] = uint32(i + 1)
		}
	}
	return c
}

// Total returns the sum of the underlying frequencies.
func (c *Cumulative) Total() uint64 {
	return uint64(c[NumSymbols])
}

// Range returns the cumulative range [low, high) of sym.
func (c *Cumulative) Range(sym int) (low, high uint64) {
	return uint64(c[sym]), uint64(c[sym+1])
}

// Find returns the symbol s with c[s] <= value < c[s+1].
// value must be less than Total.
func (c *Cumulative) Find(value uint64) int {
	lo, hi := 0, NumSymbols
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if uint64(c[mid]) > value {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}
