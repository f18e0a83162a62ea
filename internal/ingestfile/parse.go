// Package ingestfile parses on-disk export files into ingesttype.Export
// values, replacing what would be exception-based parse-failure control
// flow with an explicit, file-position-carrying error.
package ingestfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vycdev/activityimport/internal/ingesttype"
)

// ParseError names the file and, for malformed JSON, the line/column at
// which parsing failed (spec §7).
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads and parses one export file.
func Load(path string) (ingesttype.Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ingesttype.Export{}, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse parses export JSON already read into memory, annotating any
// syntax error with the offending line and column.
func Parse(path string, data []byte) (ingesttype.Export, error) {
	var export ingesttype.Export
	if err := json.Unmarshal(data, &export); err != nil {
		line, col := offsetToLineCol(data, syntaxErrorOffset(err))
		return ingesttype.Export{}, &ParseError{Path: path, Line: line, Column: col, Err: err}
	}
	return export, nil
}

func syntaxErrorOffset(err error) int64 {
	switch e := err.(type) {
	case *json.SyntaxError:
		return e.Offset
	case *json.UnmarshalTypeError:
		return e.Offset
	default:
		return 0
	}
}

func offsetToLineCol(data []byte, offset int64) (line, col int) {
	if offset <= 0 {
		return 0, 0
	}
	line = 1
	col = 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
