package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readInputSource reads content from a file path or stdin when source is "-".
func readInputSource(source string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", fmt.Errorf("empty input source")
	}

	var r io.Reader = stdin
	if trimmed != "-" {
		file, err := os.Open(trimmed)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", trimmed, err)
		}
		defer file.Close()
		r = file
	} else if r == nil {
		r = os.Stdin
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// inputHasData reports whether r looks like piped input rather than a terminal.
// Buffers and other non-file readers count as data only when non-empty.
func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	switch v := r.(type) {
	case *os.File:
		stat, err := v.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	case interface{ Len() int }:
		return v.Len() > 0
	}
	return true
}
