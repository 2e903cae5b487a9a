package hufio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/FQAlmeida/Huffman-Coding/huffman"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	data := []byte("streams of consciousness compress surprisingly well well well")

	var compressed bytes.Buffer
	w := NewWriter(&compressed)
	if _, err := w.Write(data[:10]); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if _, err := w.Write(data[10:]); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	decoded, err := io.ReadAll(NewReader(&compressed))
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("Round trip mismatch: got %q", decoded)
	}
}

func TestWriterAfterClose(t *testing.T) {
	w := NewWriter(io.Discard)
	if err := w.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := w.Write([]byte("late")); !errors.Is(err, ErrClosed) {
		t.Errorf("Write after Close: err = %v, want ErrClosed", err)
	}
	if err := w.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Second Close: err = %v, want ErrClosed", err)
	}
}

func TestCompressDecompress(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("x"),
		[]byte("aaaa"),
		bytes.Repeat([]byte("roundabout"), 100),
	}
	for _, data := range inputs {
		compressed, err := Compress(data)
		if err != nil {
			t.Fatalf("Compress error: %v", err)
		}
		decoded, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress error: %v", err)
		}
		if !bytes.Equal(decoded, data) {
			t.Errorf("Round trip mismatch for %d input bytes", len(data))
		}
	}
}

func TestReaderPropagatesDecodeErrors(t *testing.T) {
	_, err := Decompress([]byte("not a container at all"))
	if !errors.Is(err, huffman.ErrBadMagic) {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
}

func TestReaderSmallReads(t *testing.T) {
	data := []byte("read me in tiny pieces")
	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	r := NewReader(bytes.NewReader(compressed))
	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read error: %v", err)
		}
	}
	if !bytes.Equal(out, data) {
		t.Errorf("Round trip mismatch: got %q", out)
	}
}
