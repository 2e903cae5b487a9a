package huffman

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCountFrequencies(t *testing.T) {
	freqs := CountFrequencies([]byte("AABCBAD"))
	want := map[byte]uint64{'A': 3, 'B': 2, 'C': 1, 'D': 1}
	total := uint64(0)
	for symbol, count := range freqs {
		total += count
		if w := want[byte(symbol)]; count != w {
			t.Errorf("Symbol %d: count %d, want %d", symbol, count, w)
		}
	}
	if total != 7 {
		t.Errorf("Counts sum to %d, want input length 7", total)
	}
}

func TestCountFrequenciesEmpty(t *testing.T) {
	freqs := CountFrequencies(nil)
	if len(freqs) != NumSymbols {
		t.Fatalf("Histogram size %d, want %d", len(freqs), NumSymbols)
	}
	for symbol, count := range freqs {
		if count != 0 {
			t.Errorf("Symbol %d: count %d for empty input", symbol, count)
		}
	}
}

func TestCanonicalCodesKnownDistribution(t *testing.T) {
	// A:3 B:2 C:1 D:1 gives lengths 1,2,3,3 and therefore canonical codes
	// 0, 10, 110, 111.
	enc := NewEncoder(CountFrequencies([]byte("AABCBAD")))
	want := []struct {
		symbol byte
		bits   uint64
		length int
	}{
		{'A', 0x0, 1},
		{'B', 0x2, 2},
		{'C', 0x6, 3},
		{'D', 0x7, 3},
	}
	for _, w := range want {
		c := enc.codes[w.symbol]
		if c.bits != w.bits || c.length != w.length {
			t.Errorf("Symbol %q: code %b/%d, want %b/%d", w.symbol, c.bits, c.length, w.bits, w.length)
		}
	}
}

func TestTieBreakStability(t *testing.T) {
	// Equal frequencies must resolve identically on every run: with
	// A:2 B:2 C:3 the two 2-count leaves combine first, so C gets the
	// single 1-bit code and A, B the 2-bit codes in symbol order.
	input := []byte("AABBCCC")
	var first []uint8
	for run := 0; run < 5; run++ {
		enc := NewEncoder(CountFrequencies(input))
		lengths := enc.CodeLengths()
		if lengths['C'] != 1 || lengths['A'] != 2 || lengths['B'] != 2 {
			t.Fatalf("Run %d: lengths C=%d A=%d B=%d, want 1,2,2",
				run, lengths['C'], lengths['A'], lengths['B'])
		}
		if enc.codes['C'].bits != 0x0 || enc.codes['A'].bits != 0x2 || enc.codes['B'].bits != 0x3 {
			t.Fatalf("Run %d: codes C=%b A=%b B=%b, want 0,10,11",
				run, enc.codes['C'].bits, enc.codes['A'].bits, enc.codes['B'].bits)
		}
		if first == nil {
			first = lengths
			continue
		}
		if !bytes.Equal(first, lengths) {
			t.Fatalf("Run %d: lengths differ from first run", run)
		}
	}
}

// checkKraft verifies that the length set fills the code space exactly
// (single-symbol tables legitimately use half of it).
func checkKraft(t *testing.T, lengths []uint8) {
	t.Helper()
	maxLen := 0
	present := 0
	var count [MaxCodeLen + 1]int
	for _, l := range lengths {
		if l > 0 {
			count[l]++
			present++
			if int(l) > maxLen {
				maxLen = int(l)
			}
		}
	}
	if present == 0 {
		return
	}
	left := uint64(1)
	for l := 1; l <= maxLen; l++ {
		left <<= 1
		if uint64(count[l]) > left {
			t.Fatalf("Lengths over-subscribe code space at length %d", l)
		}
		left -= uint64(count[l])
	}
	if present == 1 {
		if count[1] != 1 {
			t.Fatalf("Single symbol must have length 1, got count[1]=%d", count[1])
		}
		return
	}
	if left != 0 {
		t.Fatalf("Lengths leave %d code slots unused", left)
	}
}

func TestCodeTablePrefixFree(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		freqs := make([]uint64, NumSymbols)
		nsym := 2 + r.Intn(NumSymbols-1)
		for i := 0; i < nsym; i++ {
			freqs[r.Intn(NumSymbols)] = uint64(1 + r.Intn(10000))
		}
		enc := NewEncoder(freqs)
		checkKraft(t, enc.CodeLengths())

		// Check prefix freeness directly: no code may equal the leading
		// bits of another.
		type padded struct {
			bits   uint64
			length int
		}
		var all []padded
		for symbol := 0; symbol < NumSymbols; symbol++ {
			c := enc.codes[symbol]
			if c.length > 0 {
				all = append(all, padded{c.bits << (64 - uint(c.length)), c.length})
			}
		}
		for i := range all {
			for j := range all {
				if i == j {
					continue
				}
				short := all[i]
				if all[j].length < short.length {
					short = all[j]
				}
				mask := ^uint64(0) << (64 - uint(short.length))
				if all[i].bits&mask == all[j].bits&mask {
					t.Fatalf("Trial %d: codes %d and %d share a prefix", trial, i, j)
				}
			}
		}
	}
}

func TestLengthLimiting(t *testing.T) {
	// Fibonacci counts force a maximally skewed tree: 61 of them would
	// yield a 60-bit code without rebalancing.
	freqs := make([]uint64, NumSymbols)
	a, b := uint64(1), uint64(1)
	for i := 0; i < 61; i++ {
		freqs[i] = a
		a, b = b, a+b
	}
	enc := NewEncoder(freqs)
	lengths := enc.CodeLengths()
	for symbol, l := range lengths {
		if int(l) > MaxCodeLen {
			t.Errorf("Symbol %d: length %d exceeds %d", symbol, l, MaxCodeLen)
		}
	}
	checkKraft(t, lengths)

	// The rebalanced table must still round-trip.
	dec, err := NewDecoder(lengths)
	if err != nil {
		t.Fatalf("NewDecoder rejected limited lengths: %v", err)
	}
	data := make([]byte, 500)
	for i := range data {
		data[i] = byte(i % 61)
	}
	decoded, err := dec.Decode(enc.Encode(data), len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("Round trip mismatch after length limiting")
	}
}

func TestEncoderSingleSymbol(t *testing.T) {
	enc := NewEncoder(CountFrequencies([]byte("aaaa")))
	lengths := enc.CodeLengths()
	for symbol, l := range lengths {
		if symbol == 'a' {
			if l != 1 {
				t.Errorf("Symbol 'a': length %d, want 1", l)
			}
		} else if l != 0 {
			t.Errorf("Symbol %d: unexpected length %d", symbol, l)
		}
	}
	payload := enc.Encode([]byte("aaaa"))
	if len(payload) != 1 {
		t.Fatalf("Payload %d bytes, want 1", len(payload))
	}
	if payload[0] != 0x00 {
		t.Errorf("Payload byte %#x, want 0x00", payload[0])
	}
}

func TestEncoderEmpty(t *testing.T) {
	enc := NewEncoder(make([]uint64, NumSymbols))
	if payload := enc.Encode(nil); payload != nil {
		t.Errorf("Encode(nil) = %v, want nil", payload)
	}
	for symbol, l := range enc.CodeLengths() {
		if l != 0 {
			t.Errorf("Symbol %d: length %d for empty histogram", symbol, l)
		}
	}
}

func TestEncodedBits(t *testing.T) {
	data := []byte("AABCBAD")
	enc := NewEncoder(CountFrequencies(data))
	// 3*1 + 2*2 + 1*3 + 1*3 = 13 bits.
	if bits := enc.EncodedBits(data); bits != 13 {
		t.Errorf("EncodedBits = %d, want 13", bits)
	}
	if payload := enc.Encode(data); len(payload) != 2 {
		t.Errorf("Payload %d bytes, want 2", len(payload))
	}
}
