package huffman

import (
	"github.com/FQAlmeida/Huffman-Coding/internal/bitpack"
)

// decodeTableBits sizes the direct lookup table: codes up to this many bits
// resolve in one probe, longer codes fall back to per-length bounds.
const decodeTableBits = 10

// Decoder rebuilds the canonical code table from code lengths and maps
// payload bits back to symbols.
type Decoder struct {
	// Direct lookup for codes up to decodeTableBits: entry packs
	// length<<16 | symbol, -1 when no code is a prefix of the index.
	table  []int32
	maxLen int

	// Canonical per-length bounds for the fallback path. A code value c of
	// length l is valid iff c - firstCode[l] < codeCount[l]; its symbol is
	// symbols[offset[l] + c - firstCode[l]].
	firstCode [MaxCodeLen + 1]uint64
	codeCount [MaxCodeLen + 1]int
	offset    [MaxCodeLen + 1]int
	symbols   []uint8
}

// NewDecoder validates a code length set and builds a decoder for it.
// A set is rejected if it over-subscribes the code space, or leaves code
// space unused while describing more than one symbol; the canonical
// construction never emits either. An all-zero set is accepted and yields a
// decoder that can only decode zero symbols.
func NewDecoder(lengths []uint8) (*Decoder, error) {
	if len(lengths) > NumSymbols {
		return nil, ErrInvalidLengths
	}

	maxLen := 0
	present := 0
	var count [MaxCodeLen + 1]int
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) > MaxCodeLen {
			return nil, ErrInvalidLengths
		}
		count[l]++
		present++
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}

	d := &Decoder{maxLen: maxLen}
	if present == 0 {
		return d, nil
	}

	// Kraft check: walk the code space level by level.
	left := uint64(1)
	for l := 1; l <= maxLen; l++ {
		left <<= 1
		if uint64(count[l]) > left {
			return nil, ErrInvalidLengths
		}
		left -= uint64(count[l])
	}
	if left != 0 && present > 1 {
		return nil, ErrInvalidLengths
	}

	d.symbols = make([]uint8, present)
	var nextCode [MaxCodeLen + 1]uint64
	c := uint64(0)
	pos := 0
	for l := 1; l <= maxLen; l++ {
		c = (c + uint64(count[l-1])) << 1
		nextCode[l] = c
		d.firstCode[l] = c
		d.codeCount[l] = count[l]
		d.offset[l] = pos
		pos += count[l]
	}

	tb := decodeTableBits
	if maxLen < tb {
		tb = maxLen
	}
	d.table = make([]int32, 1<<tb)
	for i := range d.table {
		d.table[i] = -1
	}

	cursor := d.offset
	for symbol, l := range lengths {
		if l == 0 {
			continue
		}
		cv := nextCode[l]
		nextCode[l]++
		d.symbols[cursor[l]] = uint8(symbol)
		cursor[l]++

		if int(l) <= tb {
			// Fill every table entry whose index starts with this code.
			shift := tb - int(l)
			base := int(cv) << shift
			for i := 0; i < 1<<shift; i++ {
				d.table[base+i] = int32(int(l)<<16 | symbol)
			}
		}
	}

	return d, nil
}

// MaxLen reports the longest code length in the table.
func (d *Decoder) MaxLen() int { return d.maxLen }

// Decode reads codes from payload until exactly n symbols have been emitted.
// It returns ErrTruncated when the payload runs out of bits first and
// ErrInvalidCode when the accumulated bits exceed the longest known code
// without matching any. No partial output is returned on failure.
func (d *Decoder) Decode(payload []byte, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if d.maxLen == 0 {
		return nil, ErrInvalidLengths
	}

	tb := decodeTableBits
	if d.maxLen < tb {
		tb = d.maxLen
	}

	out := make([]byte, n)
	r := bitpack.NewReader(payload)
	for i := 0; i < n; i++ {
		window, avail := r.PeekBits(tb)
		if avail == 0 {
			return nil, ErrTruncated
		}
		if entry := d.table[window]; entry >= 0 {
			length := int(entry >> 16)
			if length > avail {
				// The remaining bits are only a prefix of this code.
				return nil, ErrTruncated
			}
			out[i] = byte(entry & 0xFFFF)
			if err := r.Skip(length); err != nil {
				return nil, ErrTruncated
			}
			continue
		}

		// Longer than the table covers: extend bit by bit and test the
		// canonical bounds at each length.
		cv := uint64(0)
		length := 0
		matched := false
		for length < d.maxLen {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, ErrTruncated
			}
			cv <<= 1
			if bit {
				cv |= 1
			}
			length++
			if cnt := d.codeCount[length]; cnt > 0 && cv >= d.firstCode[length] && cv-d.firstCode[length] < uint64(cnt) {
				out[i] = d.symbols[d.offset[length]+int(cv-d.firstCode[length])]
				matched = true
				break
			}
		}
		if !matched {
			return nil, ErrInvalidCode
		}
	}

	return out, nil
}
