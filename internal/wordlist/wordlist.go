// Package wordlist loads newline-delimited candidate files.
package wordlist

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// maxLineBytes bounds a single wordlist line.
const maxLineBytes = 1 << 20

// IOError reports a wordlist that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "wordlist " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// Load reads path and returns its non-empty lines, trimmed, in file order.
// Duplicates are kept.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: errors.Wrap(err, "open")}
	}
	defer f.Close()

	words, err := Read(f)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return words, nil
}

// Read parses r the same way Load parses a file.
func Read(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	return words, nil
}
