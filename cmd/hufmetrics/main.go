// hufmetrics measures compression ratio and throughput of the huffman codec
// against deflate and zstd baselines on a representative input file.
//
// Usage:
//
//	hufmetrics [options] inputfile
//
// Options:
//
//	--codec  Codec list: huffman,flate,zstd or "all" (default: all)
//	--passes Number of timing passes, best pass wins (default: 10)
//	--csv    Output in CSV format
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/FQAlmeida/Huffman-Coding/huffman"
)

type codec struct {
	name       string
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

var codecs = []codec{
	{
		name: "huffman",
		compress: func(data []byte) ([]byte, error) {
			return huffman.Compress(data), nil
		},
		decompress: huffman.Decompress,
	},
	{
		name: "flate",
		compress: func(data []byte) ([]byte, error) {
			var buf bytes.Buffer
			w, err := flate.NewWriter(&buf, flate.DefaultCompression)
			if err != nil {
				return nil, err
			}
			if _, err := w.Write(data); err != nil {
				return nil, err
			}
			if err := w.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		decompress: func(data []byte) ([]byte, error) {
			r := flate.NewReader(bytes.NewReader(data))
			defer r.Close()
			return io.ReadAll(r)
		},
	},
	{
		name: "zstd",
		compress: func(data []byte) ([]byte, error) {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				return nil, err
			}
			defer enc.Close()
			return enc.EncodeAll(data, nil), nil
		},
		decompress: func(data []byte) ([]byte, error) {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				return nil, err
			}
			defer dec.Close()
			return dec.DecodeAll(data, nil)
		},
	},
}

type runResult struct {
	Codec          string
	InputBytes     int
	OutputBytes    int
	Ratio          float64
	CompressTime   time.Duration
	DecompressTime time.Duration
}

func main() {
	var (
		codecList = flag.String("codec", "all", "Codec list: huffman,flate,zstd or all")
		passes    = flag.Int("passes", 10, "Number of timing passes, best pass wins")
		csvOutput = flag.Bool("csv", false, "Output in CSV format")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hufmetrics [options] inputfile")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hufmetrics: %v\n", err)
		os.Exit(1)
	}

	selected, err := parseCodecs(*codecList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hufmetrics: %v\n", err)
		os.Exit(1)
	}

	var results []runResult
	for _, c := range selected {
		r, err := measure(c, data, *passes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hufmetrics: %s: %v\n", c.name, err)
			os.Exit(1)
		}
		results = append(results, r)
	}

	if *csvOutput {
		printCSV(results)
	} else {
		printTable(results)
	}
}

func parseCodecs(list string) ([]codec, error) {
	if list == "all" {
		return codecs, nil
	}
	var selected []codec
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		found := false
		for _, c := range codecs {
			if c.name == name {
				selected = append(selected, c)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown codec %q", name)
		}
	}
	return selected, nil
}

// measure runs the codec for the requested number of passes and keeps the
// fastest compress and decompress times. Every pass verifies the round trip.
func measure(c codec, data []byte, passes int) (runResult, error) {
	if passes < 1 {
		passes = 1
	}
	r := runResult{Codec: c.name, InputBytes: len(data)}

	var compressed []byte
	for pass := 0; pass < passes; pass++ {
		start := time.Now()
		out, err := c.compress(data)
		elapsed := time.Since(start)
		if err != nil {
			return r, err
		}
		if pass == 0 || elapsed < r.CompressTime {
			r.CompressTime = elapsed
		}
		compressed = out
	}
	r.OutputBytes = len(compressed)
	if len(data) > 0 {
		r.Ratio = float64(len(compressed)) / float64(len(data))
	}

	for pass := 0; pass < passes; pass++ {
		start := time.Now()
		decoded, err := c.decompress(compressed)
		elapsed := time.Since(start)
		if err != nil {
			return r, err
		}
		if !bytes.Equal(decoded, data) {
			return r, fmt.Errorf("round trip mismatch")
		}
		if pass == 0 || elapsed < r.DecompressTime {
			r.DecompressTime = elapsed
		}
	}
	return r, nil
}

func printCSV(results []runResult) {
	fmt.Println("codec,input_bytes,output_bytes,ratio,compress_ns,decompress_ns")
	for _, r := range results {
		fmt.Printf("%s,%d,%d,%.4f,%d,%d\n",
			r.Codec, r.InputBytes, r.OutputBytes, r.Ratio,
			r.CompressTime.Nanoseconds(), r.DecompressTime.Nanoseconds())
	}
}

func printTable(results []runResult) {
	fmt.Printf("%-10s %12s %12s %8s %14s %14s\n",
		"codec", "in (bytes)", "out (bytes)", "ratio", "compress", "decompress")
	for _, r := range results {
		fmt.Printf("%-10s %12d %12d %8.4f %14s %14s\n",
			r.Codec, r.InputBytes, r.OutputBytes, r.Ratio,
			r.CompressTime, r.DecompressTime)
	}
}
