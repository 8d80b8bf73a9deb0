// Package parser builds a document tree from engine definition source text.
//
// Parsing is recursive descent over a shared read cursor. Leaf values are
// recognized by an ordered list of Recognizer functions; each recognizer
// peeks at the cursor and declines without consuming input when the text does
// not match its grammar. After a leaf parse, a bare text value immediately
// followed by '=' is promoted to a constructor.
package parser

import (
	"fmt"
	"strconv"

	"github.com/pdxkit/pdxscript/ast"
)

// Recognizer is a parsing strategy for one leaf value variant. It returns
// (nil, nil) to decline without consuming input, letting the next recognizer
// try. Returning an error aborts the whole parse.
type Recognizer func(*Parser) (ast.Value, error)

// DefaultRecognizers returns the standard recognizer order:
// Number, Color, Text, Group.
func DefaultRecognizers() []Recognizer {
	return []Recognizer{Number, Color, Text, Group}
}

// Option configures a Parser.
type Option func(*Parser) error

// WithRecognizers replaces the recognizer list. Order is significant: the
// first recognizer to produce a value wins.
func WithRecognizers(rs ...Recognizer) Option {
	return func(p *Parser) error {
		if len(rs) == 0 {
			return fmt.Errorf("pdxscript: at least one recognizer is required")
		}
		p.recognizers = rs
		return nil
	}
}

// Parser holds the source text and the shared read cursor.
type Parser struct {
	src         []byte
	pos         int
	recognizers []Recognizer
}

// New returns a parser over src using the default recognizers unless
// overridden by options.
func New(src []byte, opts ...Option) (*Parser, error) {
	p := &Parser{src: src, recognizers: DefaultRecognizers()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse consumes the entire input and returns the document root. Any
// violated expectation aborts the parse; there is no recovery and no partial
// tree.
func (p *Parser) Parse() (*ast.Root, error) {
	root := ast.NewRoot()
	p.SkipTrivia()
	for !p.EOF() {
		v, err := p.ParseValue()
		if err != nil {
			return nil, err
		}
		if err := root.Add(v); err != nil {
			return nil, err
		}
		p.SkipTrivia()
	}
	return root, nil
}

// ParseValue parses exactly one value at the cursor, applying constructor
// promotion. It fails when no recognizer accepts the current token.
func (p *Parser) ParseValue() (ast.Value, error) {
	p.SkipTrivia()
	v, err := p.dispatch()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, p.Errorf("token must be a value")
	}
	p.SkipTrivia()
	if text, ok := v.(*ast.Text); ok && p.Peek() == '=' {
		p.Advance(1)
		rhs, err := p.ParseValue()
		if err != nil {
			return nil, err
		}
		return ast.NewConstructor(text, rhs)
	}
	return v, nil
}

func (p *Parser) dispatch() (ast.Value, error) {
	for _, recognize := range p.recognizers {
		v, err := recognize(p)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

// EOF reports whether the cursor has reached the end of the input.
func (p *Parser) EOF() bool { return p.pos >= len(p.src) }

// Pos returns the current byte offset of the cursor.
func (p *Parser) Pos() int { return p.pos }

// Seek moves the cursor to byte offset pos. Recognizers use it to rewind
// after peeking past a partial match.
func (p *Parser) Seek(pos int) { p.pos = pos }

// Peek returns the byte under the cursor, or 0 at end of input.
func (p *Parser) Peek() byte { return p.PeekAt(0) }

// PeekAt returns the byte off positions past the cursor, or 0 past the end.
func (p *Parser) PeekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

// Advance moves the cursor n bytes forward, clamping at end of input.
func (p *Parser) Advance(n int) {
	p.pos += n
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
}

// SkipTrivia consumes whitespace and '#' line comments. It is invoked before
// every parse attempt and after every consumed value; comments are discarded,
// never represented in the tree.
func (p *Parser) SkipTrivia() {
	for !p.EOF() {
		switch p.Peek() {
		case ' ', '\t', '\r', '\n':
			p.Advance(1)
		case '#':
			for !p.EOF() && p.Peek() != '\n' {
				p.Advance(1)
			}
		default:
			return
		}
	}
}

// Errorf returns a ParseError at the current cursor position.
func (p *Parser) Errorf(format string, args ...any) error {
	line, column := 1, 1
	for _, ch := range p.src[:p.pos] {
		if ch == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  p.pos,
		Line:    line,
		Column:  column,
	}
}

// Number recognizes integer, float, and date literals: one or more digits,
// optionally followed by one ('.' digits) fractional part for floats, or two
// for dot-separated year.month.day dates. A digit run glued to an identifier
// character is not a number; this is what routes 0xRRGGBB literals past
// Number and on to Color.
func Number(p *Parser) (ast.Value, error) {
	if !isDigit(p.Peek()) {
		return nil, nil
	}
	mark := p.Pos()

	first, ok := p.scanDigits()
	if !ok {
		p.Seek(mark)
		return nil, nil
	}

	if p.Peek() != '.' || !isDigit(p.PeekAt(1)) {
		n, err := strconv.ParseInt(first, 10, 64)
		if err != nil {
			return nil, p.Errorf("invalid integer literal %q: %v", first, err)
		}
		return &ast.Integer{Value: n}, nil
	}
	p.Advance(1)
	second, ok := p.scanDigits()
	if !ok {
		p.Seek(mark)
		return nil, nil
	}

	if p.Peek() != '.' || !isDigit(p.PeekAt(1)) {
		lit := first + "." + second
		f, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			return nil, p.Errorf("invalid float literal %q: %v", lit, err)
		}
		return &ast.Float{Value: float32(f)}, nil
	}
	p.Advance(1)
	third, ok := p.scanDigits()
	if !ok {
		p.Seek(mark)
		return nil, nil
	}

	year, err := strconv.Atoi(first)
	if err != nil {
		return nil, p.Errorf("invalid date year %q: %v", first, err)
	}
	month, err := strconv.Atoi(second)
	if err != nil {
		return nil, p.Errorf("invalid date month %q: %v", second, err)
	}
	day, err := strconv.Atoi(third)
	if err != nil {
		return nil, p.Errorf("invalid date day %q: %v", third, err)
	}
	return &ast.Date{Year: year, Month: month, Day: day}, nil
}

// scanDigits consumes a run of digits. It reports failure when the run is
// immediately followed by an identifier-start character, which marks the
// token as something other than a number.
func (p *Parser) scanDigits() (string, bool) {
	start := p.Pos()
	for isDigit(p.Peek()) {
		p.Advance(1)
	}
	if isIdentStart(p.Peek()) {
		return "", false
	}
	return string(p.src[start:p.Pos()]), true
}

// Color recognizes the hex notation 0xRRGGBB: exactly six hex digits after
// the prefix. Plain rgb triples parse generically as a three-element group
// and are converted explicitly via Container.AsColor.
func Color(p *Parser) (ast.Value, error) {
	if p.Peek() != '0' || p.PeekAt(1) != 'x' {
		return nil, nil
	}
	for i := 0; i < 6; i++ {
		if !isHexDigit(p.PeekAt(2 + i)) {
			return nil, nil
		}
	}
	if isIdentChar(p.PeekAt(8)) {
		return nil, nil
	}
	lit := string(p.src[p.Pos()+2 : p.Pos()+8])
	n, err := strconv.ParseUint(lit, 16, 32)
	if err != nil {
		return nil, p.Errorf("invalid color literal %q: %v", lit, err)
	}
	p.Advance(8)
	return &ast.Color{
		R:        uint8(n >> 16),
		G:        uint8(n >> 8),
		B:        uint8(n),
		Notation: ast.NotationHex,
	}, nil
}

// Text recognizes a double-quoted string (with \= and \\ as the only legal
// escapes) or a bare identifier starting with a letter or underscore. Quoted
// source produces always-quoted text; bare source produces unquoted text, so
// both shapes survive a round trip.
func Text(p *Parser) (ast.Value, error) {
	switch {
	case p.Peek() == '"':
		p.Advance(1)
		var raw []byte
		for {
			if p.EOF() {
				return nil, p.Errorf("unterminated string")
			}
			ch := p.Peek()
			if ch == '"' {
				p.Advance(1)
				return ast.NewText(string(raw), ast.QuoteAlways)
			}
			// A raw line break cannot survive the group renderer's
			// line-based indentation, so it ends the string like EOF does.
			if ch == '\n' || ch == '\r' {
				return nil, p.Errorf("unterminated string")
			}
			if ch == '\\' {
				esc := p.PeekAt(1)
				if esc != '=' && esc != '\\' {
					return nil, p.Errorf("invalid escape sequence \\%c", esc)
				}
				raw = append(raw, esc)
				p.Advance(2)
				continue
			}
			raw = append(raw, ch)
			p.Advance(1)
		}
	case isIdentStart(p.Peek()):
		start := p.Pos()
		for isIdentChar(p.Peek()) {
			p.Advance(1)
		}
		return ast.NewText(string(p.src[start:p.Pos()]), ast.QuoteNever)
	default:
		return nil, nil
	}
}

// Group recognizes a brace-delimited, recursively parsed sequence of values.
// Commas and whitespace both separate elements. End of input before '}' is a
// parse failure.
func Group(p *Parser) (ast.Value, error) {
	if p.Peek() != '{' {
		return nil, nil
	}
	p.Advance(1)
	group := ast.NewGroup()
	for {
		p.SkipTrivia()
		for p.Peek() == ',' {
			p.Advance(1)
			p.SkipTrivia()
		}
		if p.EOF() {
			return nil, p.Errorf("unterminated group")
		}
		if p.Peek() == '}' {
			p.Advance(1)
			return group, nil
		}
		v, err := p.ParseValue()
		if err != nil {
			return nil, err
		}
		if err := group.Add(v); err != nil {
			return nil, err
		}
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '-'
}
