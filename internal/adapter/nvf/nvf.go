// Package nvf reads and writes NAME = VALUE files, the format of satellite
// and grid definitions.
//
// One pair per line, separated by the first '='. Blank lines are ignored,
// '#' starts a comment that runs to the end of the line, and names and values
// are trimmed. Names are case sensitive and must be unique within a file.
package nvf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Comment is the character that begins a comment.
const Comment = "#"

var (
	// ErrMalformedLine is returned for a non-comment line without non-space
	// text on both sides of an '='.
	ErrMalformedLine = errors.New("malformed name/value line")
	// ErrDuplicateName is returned when a name appears more than once.
	ErrDuplicateName = errors.New("duplicate name")
)

// LineError locates a parse failure.
type LineError struct {
	Source string // File name, or empty for anonymous readers.
	Line   int    // 1-based line number.
	Text   string // The offending line, comments stripped.
	Err    error  // ErrMalformedLine or ErrDuplicateName.
}

// Error implements the error interface.
func (e *LineError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	return fmt.Sprintf("%s:%d: %v: %q", src, e.Line, e.Err, e.Text)
}

// Unwrap returns the error kind.
func (e *LineError) Unwrap() error {
	return e.Err
}

// Pair is a single NAME = VALUE entry.
type Pair struct {
	Name  string
	Value string
}

// Parse reads every pair from r.
func Parse(r io.Reader) (map[string]string, error) {
	return parse(r, "")
}

func parse(r io.Reader, source string) (map[string]string, error) {
	params := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, Comment); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, value, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, &LineError{Source: source, Line: lineNo, Text: line, Err: ErrMalformedLine}
		}
		if _, dup := params[name]; dup {
			return nil, &LineError{Source: source, Line: lineNo, Text: line, Err: ErrDuplicateName}
		}
		params[name] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read name/value pairs: %w", err)
	}
	return params, nil
}

// Write writes pairs to w in order, aligning the '=' signs.
func Write(w io.Writer, pairs []Pair) error {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.Name))
	}
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "%-*s = %s\n", width, p.Name, p.Value); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.Name, err)
		}
	}
	return nil
}
