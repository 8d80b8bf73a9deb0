package parser

import "fmt"

// ParseError reports a violated expectation during parsing, with the cursor
// position where the parse stopped.
type ParseError struct {
	Message string
	Offset  int
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pdxscript: parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
