// huffzip compresses a file (or standard input) into a Huffman container,
// or reverses the process with -d.
//
// Usage:
//
//	huffzip [options] [inputfile]
//
// Options:
//
//	-d       Decompress instead of compress
//	-o FILE  Write output to FILE (default: stdout)
//	--debug  Verbose logging to standard error
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"

	"github.com/FQAlmeida/Huffman-Coding/huffman"
)

var log = logging.MustGetLogger("huffzip")

const progName = "huffzip"

func setupLogging(debug bool) {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatter := logging.MustStringFormatter("%{level:.4s} %{message}")
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	if debug {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.WARNING, "")
	}
	logging.SetBackend(leveled)
}

func main() {
	var (
		decompress = flag.Bool("d", false, "Decompress instead of compress")
		output     = flag.String("o", "", "Output file (default: stdout)")
		debug      = flag.Bool("debug", false, "Verbose logging to standard error")
	)
	flag.Parse()

	setupLogging(*debug)

	input, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	var result []byte
	if *decompress {
		result, err = huffman.Decompress(input)
		if err != nil {
			log.Fatalf("decompress: %v", err)
		}
		log.Debugf("decompressed %d bytes to %d bytes", len(input), len(result))
	} else {
		result = huffman.Compress(input)
		ratio := 0.0
		if len(input) > 0 {
			ratio = float64(len(result)) / float64(len(input))
		}
		log.Debugf("compressed %d bytes to %d bytes (ratio %.3f)", len(input), len(result), ratio)
	}

	if err := writeOutput(*output, result); err != nil {
		log.Fatalf("writing output: %v", err)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
