// Package input expands argument lists that pull ids from stdin (-) or
// from files (@file syntax), for bulk operations.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	"flagdeck/internal/output"
)

// ExpandArgs expands arguments that use - (stdin) or @file syntax into the
// ids they contain. Returns the expanded list and whether stdin was consumed.
func ExpandArgs(args []string, stdinUsed bool) ([]string, bool) {
	var result []string
	for _, a := range args {
		switch {
		case a == "-":
			if stdinUsed {
				output.Warning("stdin already used, ignoring additional -")
				continue
			}
			stdinUsed = true
			result = append(result, ReadLines(os.Stdin)...)
		case strings.HasPrefix(a, "@"):
			path := strings.TrimPrefix(a, "@")
			file, err := os.Open(path)
			if err != nil {
				output.Warning("failed to read %s: %v", path, err)
				continue
			}
			result = append(result, ReadLines(file)...)
			file.Close()
		default:
			result = append(result, a)
		}
	}
	return result, stdinUsed
}

// ReadLines reads non-empty trimmed lines from a reader.
func ReadLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
