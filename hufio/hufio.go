// Package hufio adapts the huffman container codec to the io.Writer and
// io.Reader interfaces. The codec compresses whole buffers, so the Writer
// collects everything written to it and emits one container on Close, and
// the Reader consumes the underlying stream up front and serves the decoded
// bytes from memory.
package hufio

import (
	"bytes"
	"errors"
	"io"

	"github.com/FQAlmeida/Huffman-Coding/huffman"
)

var ErrClosed = errors.New("hufio: writer is closed")

// Writer buffers written bytes and compresses them into dst on Close.
type Writer struct {
	dst    io.Writer
	buf    bytes.Buffer
	closed bool
}

// NewWriter returns a Writer compressing into dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

// Close compresses the buffered bytes and writes the container to the
// destination. It does not close the destination.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	_, err := w.dst.Write(huffman.Compress(w.buf.Bytes()))
	return err
}

// Reader decompresses a container read from src.
type Reader struct {
	src     io.Reader
	decoded *bytes.Reader
}

// NewReader returns a Reader decompressing from src. The source is consumed
// in full on the first Read.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.decoded == nil {
		container, err := io.ReadAll(r.src)
		if err != nil {
			return 0, err
		}
		data, err := huffman.Decompress(container)
		if err != nil {
			return 0, err
		}
		r.decoded = bytes.NewReader(data)
	}
	return r.decoded.Read(p)
}

// Compress returns data as a single huffman container.
func Compress(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(NewReader(bytes.NewReader(data)))
}
