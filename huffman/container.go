package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/icza/bitio"
)

// Container layout (all integers little-endian):
//
//	0   4  magic "HUF1"
//	4   8  original byte count
//	12  1  minSymbol (lowest symbol with a code)
//	13  1  maxSymbol (highest symbol with a code)
//	14  4  packed code length table size in bytes
//	18  t  packed code lengths for minSymbol..maxSymbol
//	18+t   payload bits, MSB-first, zero-padded in the final byte
//
// An empty input is encoded as magic plus a zero count, nothing else.
// The count field is authoritative: decoding stops after exactly that many
// symbols, so the payload needs no end marker.
//
// The table stores only the minSymbol..maxSymbol range, one 6-bit length per
// symbol with zero-run escapes: values 59-62 stand for runs of 2-5 zero
// lengths, value 63 followed by 8 more bits for runs of 6-261.
const (
	containerMagic     = "HUF1"
	headerFixedSize    = 18
	emptyContainerSize = 12

	lenEncBits       = 6
	shortZeroCodeRun = 59
	longZeroCodeRun  = 63
	shortestLongRun  = 2 + longZeroCodeRun - shortZeroCodeRun
	longestLongRun   = 255 + shortestLongRun
)

// Compress encodes data into a self-contained container. It is deterministic:
// the same input always produces byte-identical output.
func Compress(data []byte) []byte {
	if len(data) == 0 {
		out := make([]byte, emptyContainerSize)
		copy(out, containerMagic)
		return out
	}

	enc := NewEncoder(CountFrequencies(data))
	lengths := enc.CodeLengths()

	minSym, maxSym := 0, NumSymbols-1
	for lengths[minSym] == 0 {
		minSym++
	}
	for lengths[maxSym] == 0 {
		maxSym--
	}

	table := packCodeLengths(lengths, minSym, maxSym)
	payload := enc.Encode(data)

	out := make([]byte, 0, headerFixedSize+len(table)+len(payload))
	out = append(out, containerMagic...)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(data)))
	out = append(out, byte(minSym), byte(maxSym))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(table)))
	out = append(out, table...)
	out = append(out, payload...)
	return out
}

// Decompress parses a container and returns the original bytes.
// Failure is all-or-nothing; no partial output accompanies an error.
func Decompress(container []byte) ([]byte, error) {
	if len(container) < emptyContainerSize {
		return nil, fmt.Errorf("%w: %d bytes is below the minimum header", ErrMalformed, len(container))
	}
	if string(container[:4]) != containerMagic {
		return nil, ErrBadMagic
	}
	origLen := binary.LittleEndian.Uint64(container[4:12])
	if origLen == 0 {
		if len(container) != emptyContainerSize {
			return nil, fmt.Errorf("%w: %d trailing bytes after empty container", ErrMalformed, len(container)-emptyContainerSize)
		}
		return nil, nil
	}
	if origLen > math.MaxInt {
		return nil, fmt.Errorf("%w: declared length %d overflows", ErrMalformed, origLen)
	}
	if len(container) < headerFixedSize {
		return nil, fmt.Errorf("%w: header cut short at %d bytes", ErrMalformed, len(container))
	}

	minSym := int(container[12])
	maxSym := int(container[13])
	if minSym > maxSym {
		return nil, fmt.Errorf("%w: symbol range %d..%d", ErrMalformed, minSym, maxSym)
	}
	tableLen := int(binary.LittleEndian.Uint32(container[14:18]))
	if tableLen < 0 || headerFixedSize+tableLen > len(container) {
		return nil, fmt.Errorf("%w: table size %d exceeds container", ErrMalformed, tableLen)
	}

	payload := container[headerFixedSize+tableLen:]

	// Every code spans at least one bit, so the payload bounds the symbol
	// count. Checking here keeps a corrupt length field from driving a
	// huge allocation in Decode.
	if origLen > uint64(len(payload))*8 {
		return nil, fmt.Errorf("%w: %d symbols declared but payload holds %d bits", ErrTruncated, origLen, len(payload)*8)
	}

	lengths, err := unpackCodeLengths(container[headerFixedSize:headerFixedSize+tableLen], minSym, maxSym)
	if err != nil {
		return nil, err
	}

	dec, err := NewDecoder(lengths)
	if err != nil {
		return nil, err
	}
	return dec.Decode(payload, int(origLen))
}

// packCodeLengths serializes lengths[minSym..maxSym] as 6-bit fields with
// zero-run escapes.
func packCodeLengths(lengths []uint8, minSym, maxSym int) []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for i := minSym; i <= maxSym; i++ {
		l := lengths[i]
		if l == 0 {
			zerun := 1
			for i+zerun <= maxSym && zerun < longestLongRun && lengths[i+zerun] == 0 {
				zerun++
			}
			if zerun >= 2 {
				if zerun >= shortestLongRun {
					w.WriteBits(longZeroCodeRun, lenEncBits)
					w.WriteBits(uint64(zerun-shortestLongRun), 8)
				} else {
					w.WriteBits(uint64(shortZeroCodeRun+zerun-2), lenEncBits)
				}
				i += zerun - 1
				continue
			}
		}
		w.WriteBits(uint64(l), lenEncBits)
	}
	w.Close() // pads the final partial byte with zeros
	return buf.Bytes()
}

// unpackCodeLengths reverses packCodeLengths into a full 256-entry length
// table. Lengths outside minSym..maxSym stay zero.
func unpackCodeLengths(table []byte, minSym, maxSym int) ([]uint8, error) {
	lengths := make([]uint8, NumSymbols)
	r := bitio.NewReader(bytes.NewReader(table))
	for i := minSym; i <= maxSym; i++ {
		v, err := r.ReadBits(lenEncBits)
		if err != nil {
			return nil, fmt.Errorf("%w: code length table cut short", ErrMalformed)
		}
		switch {
		case v == longZeroCodeRun:
			run, err := r.ReadBits(8)
			if err != nil {
				return nil, fmt.Errorf("%w: zero run cut short", ErrMalformed)
			}
			zerun := int(run) + shortestLongRun
			if i+zerun-1 > maxSym {
				return nil, fmt.Errorf("%w: zero run of %d overruns symbol range", ErrMalformed, zerun)
			}
			i += zerun - 1
		case v >= shortZeroCodeRun:
			zerun := int(v-shortZeroCodeRun) + 2
			if i+zerun-1 > maxSym {
				return nil, fmt.Errorf("%w: zero run of %d overruns symbol range", ErrMalformed, zerun)
			}
			i += zerun - 1
		default:
			lengths[i] = uint8(v)
		}
	}
	return lengths, nil
}
