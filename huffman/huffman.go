// Package huffman implements a canonical Huffman compressor and decompressor
// for byte streams.
//
// The codec is a pure function of its input: Compress counts symbol
// frequencies, builds an optimal prefix code, and emits a self-describing
// container from which Decompress reconstructs the original bytes exactly.
// Only code lengths are serialized; the canonical code construction rule
// makes the bit codes reproducible from lengths alone, so the tree shape
// never travels with the data.
package huffman

import (
	"container/heap"
	"errors"
	"sort"

	"github.com/FQAlmeida/Huffman-Coding/internal/bitpack"
)

const (
	// NumSymbols is the size of the symbol alphabet (one byte).
	NumSymbols = 256

	// MaxCodeLen is the longest code length the container format can carry.
	// Trees deeper than this are rebalanced before code assignment.
	MaxCodeLen = 58
)

var (
	ErrBadMagic       = errors.New("huffman: bad container magic")
	ErrMalformed      = errors.New("huffman: malformed container")
	ErrInvalidLengths = errors.New("huffman: invalid code length set")
	ErrInvalidCode    = errors.New("huffman: invalid code in payload")
	ErrTruncated      = errors.New("huffman: truncated payload")
)

// code is a canonical Huffman code: a bit pattern plus its length in bits.
type code struct {
	bits   uint64
	length int
}

// node is one element of the coding tree: a leaf owning a symbol, or an
// internal node owning exactly two children.
type node struct {
	symbol      int // -1 for internal nodes
	count       uint64
	seq         int // heap tie-break: creation order
	left, right *node
}

// nodeHeap implements heap.Interface ordered by (count, seq). The secondary
// key makes heap extraction order, and therefore the tree shape, identical
// across runs for equal frequency tables.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// CountFrequencies returns a 256-entry histogram of the symbols in data.
func CountFrequencies(data []byte) []uint64 {
	freqs := make([]uint64, NumSymbols)
	for _, b := range data {
		freqs[b]++
	}
	return freqs
}

// buildCodeLengths derives per-symbol code lengths from a frequency table.
// A single present symbol gets length 1 so that every code is at least one
// bit wide; an empty table yields all-zero lengths.
func buildCodeLengths(freqs []uint64) []uint8 {
	lengths := make([]uint8, NumSymbols)

	nodes := make(nodeHeap, 0, NumSymbols)
	seq := 0
	for symbol := 0; symbol < NumSymbols && symbol < len(freqs); symbol++ {
		if freqs[symbol] > 0 {
			nodes = append(nodes, &node{symbol: symbol, count: freqs[symbol], seq: seq})
			seq++
		}
	}

	switch len(nodes) {
	case 0:
		return lengths
	case 1:
		lengths[nodes[0].symbol] = 1
		return lengths
	}

	heap.Init(&nodes)
	for nodes.Len() > 1 {
		left := heap.Pop(&nodes).(*node)
		right := heap.Pop(&nodes).(*node)
		parent := &node{symbol: -1, count: left.count + right.count, seq: seq, left: left, right: right}
		seq++
		heap.Push(&nodes, parent)
	}

	measureDepths(nodes[0], 0, lengths)
	limitLengths(lengths, freqs)
	return lengths
}

// measureDepths records each leaf's depth as its symbol's code length.
func measureDepths(n *node, depth int, lengths []uint8) {
	if n.left == nil && n.right == nil {
		lengths[n.symbol] = uint8(depth)
		return
	}
	measureDepths(n.left, depth+1, lengths)
	measureDepths(n.right, depth+1, lengths)
}

// limitLengths rebalances any code lengths above MaxCodeLen. The greedy tree
// exceeds 58 bits only for near-Fibonacci frequency tables whose counts sum
// past 2^58, but the encoder must be total over any histogram.
//
// The over-long codes are clamped to MaxCodeLen and the resulting code-space
// overflow is repaid by moving leaves down from shorter lengths, keeping the
// Kraft equality intact. Lengths are then reassigned shortest-first in
// (frequency descending, symbol ascending) order.
func limitLengths(lengths []uint8, freqs []uint64) {
	overflow := 0
	var blCount [MaxCodeLen + 1]int
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) > MaxCodeLen {
			blCount[MaxCodeLen]++
			overflow++
		} else {
			blCount[l]++
		}
	}
	if overflow == 0 {
		return
	}

	for overflow > 0 {
		bits := MaxCodeLen - 1
		for blCount[bits] == 0 {
			bits--
		}
		blCount[bits]--
		blCount[bits+1] += 2
		blCount[MaxCodeLen]--
		overflow -= 2
	}

	// Reassign: most frequent symbols get the shortest lengths.
	present := make([]int, 0, NumSymbols)
	for symbol, l := range lengths {
		if l > 0 {
			present = append(present, symbol)
		}
	}
	sort.Slice(present, func(i, j int) bool {
		if freqs[present[i]] != freqs[present[j]] {
			return freqs[present[i]] > freqs[present[j]]
		}
		return present[i] < present[j]
	})
	idx := 0
	for bits := 1; bits <= MaxCodeLen; bits++ {
		for k := 0; k < blCount[bits]; k++ {
			lengths[present[idx]] = uint8(bits)
			idx++
		}
	}
}

// generateCanonicalCodes assigns canonical codes to every symbol with a
// non-zero length: symbols sorted by (length ascending, symbol ascending)
// receive consecutive code values, shifting left at each length increase.
// Two implementations given the same lengths produce identical codes.
func generateCanonicalCodes(codes []code, lengths []uint8) {
	maxLen := 0
	var lengthCount [MaxCodeLen + 1]uint64
	for _, l := range lengths {
		if l > 0 {
			lengthCount[l]++
			if int(l) > maxLen {
				maxLen = int(l)
			}
		}
	}
	if maxLen == 0 {
		return
	}

	var nextCode [MaxCodeLen + 1]uint64
	c := uint64(0)
	for bits := 1; bits <= maxLen; bits++ {
		c = (c + lengthCount[bits-1]) << 1
		nextCode[bits] = c
	}

	// Ascending symbol order doubles as ascending order within each length.
	for symbol, l := range lengths {
		if l > 0 {
			codes[symbol] = code{bits: nextCode[l], length: int(l)}
			nextCode[l]++
		}
	}
}

// Encoder holds the canonical code table for one frequency distribution.
type Encoder struct {
	codes   []code
	lengths []uint8
}

// NewEncoder builds the coding tree for freqs (a histogram of up to 256
// entries) and derives the canonical code table from it.
func NewEncoder(freqs []uint64) *Encoder {
	lengths := buildCodeLengths(freqs)
	codes := make([]code, NumSymbols)
	generateCanonicalCodes(codes, lengths)
	return &Encoder{codes: codes, lengths: lengths}
}

// CodeLengths returns the per-symbol code lengths. Index is the symbol value;
// zero means the symbol has no code.
func (e *Encoder) CodeLengths() []uint8 { return e.lengths }

// EncodedBits returns the exact payload size in bits for data under this
// code table.
func (e *Encoder) EncodedBits(data []byte) int {
	bits := 0
	for _, b := range data {
		bits += e.codes[b].length
	}
	return bits
}

// Encode writes each input byte's canonical code to a bit buffer and returns
// the packed payload, zero-padded in the final byte. Symbols without a code
// are skipped; that cannot happen when freqs was counted from data.
func (e *Encoder) Encode(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	w := bitpack.NewWriter((e.EncodedBits(data) + 7) / 8)
	for _, b := range data {
		c := e.codes[b]
		if c.length == 0 {
			continue
		}
		w.WriteBits(c.bits, c.length)
	}
	return w.Bytes()
}
