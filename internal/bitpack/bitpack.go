// Package bitpack provides MSB-first bit buffer primitives for the Huffman
// codec. The Writer accumulates bits into an in-memory byte slice, padding the
// final partial byte with zeros; the Reader walks a byte slice bit by bit with
// the same bit order. Writer and Reader are the two halves of one contract:
// bits come back out in exactly the order they went in.
package bitpack

import "io"

// Writer appends bits to an in-memory buffer, most significant bit first.
type Writer struct {
	buf   []byte
	bits  uint64 // pending bits, right-aligned
	nbits int    // number of pending bits
	total int    // total bits written, including pending
}

// NewWriter returns a Writer with capacity for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// WriteBits appends the low n bits of v, most significant first.
// n must be in [0, 64].
func (w *Writer) WriteBits(v uint64, n int) {
	// Keep the pending buffer below 64 bits: at most 7 pending plus 32 new.
	if n > 32 {
		w.WriteBits(v>>32, n-32)
		v &= 0xFFFFFFFF
		n = 32
	}
	if n == 0 {
		return
	}
	w.bits = (w.bits << uint(n)) | (v & (1<<uint(n) - 1))
	w.nbits += n
	w.total += n
	for w.nbits >= 8 {
		w.nbits -= 8
		w.buf = append(w.buf, byte(w.bits>>uint(w.nbits)))
	}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(b bool) {
	if b {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

// BitLen reports the total number of bits written so far.
func (w *Writer) BitLen() int { return w.total }

// Bytes flushes any partial byte, padding it with zero bits, and returns the
// buffer. The Writer must not be written to afterwards.
func (w *Writer) Bytes() []byte {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.bits<<uint(8-w.nbits)))
		w.nbits = 0
	}
	return w.buf
}

// Reader extracts bits from a byte slice, most significant bit first.
type Reader struct {
	data []byte
	pos  int // bit cursor
	n    int // total bits
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, n: len(data) * 8}
}

// BitsRemaining reports the number of unread bits.
func (r *Reader) BitsRemaining() int { return r.n - r.pos }

// ReadBit returns the next bit. It returns io.ErrUnexpectedEOF once the
// buffer is exhausted.
func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.n {
		return false, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos>>3]>>(7-uint(r.pos&7))&1 == 1
	r.pos++
	return b, nil
}

// ReadBits returns the next n bits, right-aligned. n must be in [0, 64].
// It returns io.ErrUnexpectedEOF if fewer than n bits remain.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if r.n-r.pos < n {
		return 0, io.ErrUnexpectedEOF
	}
	var v uint64
	for i := 0; i < n; i++ {
		p := r.pos + i
		v = (v << 1) | uint64(r.data[p>>3]>>(7-uint(p&7))&1)
	}
	r.pos += n
	return v, nil
}

// PeekBits returns the next n bits without consuming them, left-aligned
// within an n-bit window: if fewer than n bits remain, the missing low bits
// are zero. The second result is the number of real bits in the window.
// n must be in [0, 64].
func (r *Reader) PeekBits(n int) (uint64, int) {
	avail := r.n - r.pos
	if avail > n {
		avail = n
	}
	var v uint64
	for i := 0; i < avail; i++ {
		p := r.pos + i
		v = (v << 1) | uint64(r.data[p>>3]>>(7-uint(p&7))&1)
	}
	return v << uint(n-avail), avail
}

// Skip consumes n bits. It returns io.ErrUnexpectedEOF if fewer remain.
func (r *Reader) Skip(n int) error {
	if r.n-r.pos < n {
		return io.ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}
