// Package ast defines the document tree for Clausewitz-style engine
// definition files: the value variants, the ordered owning container shared
// by groups and the document root, and the rendering back to source text.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a value variant. The set is closed; hierarchy legality is
// decided by a static capability table rather than per-variant predicates.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindDate
	KindColor
	KindText
	KindGroup
	KindConstructor
	KindRoot
)

var kindNames = [...]string{
	KindInteger:     "integer",
	KindFloat:       "float",
	KindDate:        "date",
	KindColor:       "color",
	KindText:        "text",
	KindGroup:       "group",
	KindConstructor: "constructor",
	KindRoot:        "root",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// capability describes how a kind may participate in the hierarchy.
type capability struct {
	asChild  bool // may be nested inside a parent
	asParent bool // may accept children
}

var capabilities = [...]capability{
	KindInteger:     {asChild: true},
	KindFloat:       {asChild: true},
	KindDate:        {asChild: true},
	KindColor:       {asChild: true},
	KindText:        {asChild: true},
	KindGroup:       {asChild: true, asParent: true},
	KindConstructor: {asChild: true, asParent: true},
	KindRoot:        {asParent: true},
}

// CanBeChild reports whether values of this kind may be nested inside a parent.
func (k Kind) CanBeChild() bool {
	return capabilities[k].asChild
}

// CanHaveChildren reports whether values of this kind may accept children.
func (k Kind) CanHaveChildren() bool {
	return capabilities[k].asParent
}

// Value is the interface implemented by every node in the document tree.
type Value interface {
	// Kind returns the variant tag of the node.
	Kind() Kind
	// Parent returns the owning node, or nil for an unattached node and for
	// the document root.
	Parent() Value
	// Render returns the re-parseable source text for the node.
	Render() (string, error)

	setParent(Value)
}

// node carries the ownership back-reference shared by all variants.
type node struct {
	parent Value
}

func (n *node) Parent() Value     { return n.parent }
func (n *node) setParent(p Value) { n.parent = p }

// adopt is the single gate through which every mutation that attaches a node
// must pass. A value that is already owned must be removed from its old
// container before it can be adopted, so two containers can never both
// believe they own the same child.
func adopt(parent, child Value) error {
	if child == nil {
		return &HierarchyError{Message: "cannot insert a nil value"}
	}
	if !parent.Kind().CanHaveChildren() {
		return &HierarchyError{Message: fmt.Sprintf("%s values cannot have children", parent.Kind())}
	}
	if !child.Kind().CanBeChild() {
		return &HierarchyError{Message: fmt.Sprintf("%s values cannot be nested", child.Kind())}
	}
	if child.Parent() != nil {
		return &HierarchyError{Message: fmt.Sprintf("%s value is already owned by a container", child.Kind())}
	}
	child.setParent(parent)
	return nil
}

// detach releases a node from its owner, making it adoptable again.
func detach(child Value) {
	child.setParent(nil)
}

// Integer represents a whole-number literal such as 42.
type Integer struct {
	node
	Value int64
}

func (i *Integer) Kind() Kind { return KindInteger }

func (i *Integer) Render() (string, error) {
	return strconv.FormatInt(i.Value, 10), nil
}

// Float represents a single-precision decimal literal such as 3.14.
type Float struct {
	node
	Value float32
}

func (f *Float) Kind() Kind { return KindFloat }

// Render always carries a fractional part; a bare "2" would reparse as an
// integer and change the node's variant.
func (f *Float) Render() (string, error) {
	s := strconv.FormatFloat(float64(f.Value), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

// Date represents a dot-separated calendar date such as 1444.11.30.
type Date struct {
	node
	Year  int
	Month int
	Day   int
}

func (d *Date) Kind() Kind { return KindDate }

// Render joins the components as year.month.day without leading zeros,
// matching the order the parser reads them in.
func (d *Date) Render() (string, error) {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day), nil
}

// Notation selects how a Color renders.
type Notation int

const (
	// NotationRGB renders the color as a brace group of the three components.
	NotationRGB Notation = iota
	// NotationHex renders the color as a 0xRRGGBB literal.
	NotationHex
)

// Color represents an RGB triple. The parser produces hex-notation colors
// from 0xRRGGBB literals; rgb-notation colors are built programmatically or
// via Container.AsColor.
type Color struct {
	node
	R, G, B  uint8
	Notation Notation
}

func (c *Color) Kind() Kind { return KindColor }

func (c *Color) Render() (string, error) {
	if c.Notation == NotationHex {
		return fmt.Sprintf("0x%02x%02x%02x", c.R, c.G, c.B), nil
	}
	return fmt.Sprintf("{\n\t%d\n\t%d\n\t%d\n}", c.R, c.G, c.B), nil
}

// Quoting selects how a Text value renders.
type Quoting int

const (
	// QuoteAutomatic quotes only when the raw value is not a safe bare identifier.
	QuoteAutomatic Quoting = iota
	// QuoteAlways wraps the value in double quotes, escaping '=' and '\'.
	QuoteAlways
	// QuoteNever renders the raw value and fails if it would require quoting.
	QuoteNever
)

// Text represents a string literal, either a bare identifier or a quoted
// string. The raw value sits behind an accessor so the unquoted-mode
// invariant holds at mutation time, not just at render time.
type Text struct {
	node
	Quoting Quoting
	value   string
}

// NewText returns a Text value with the given quoting mode. It fails when the
// mode is QuoteNever and the value starts with a double quote.
func NewText(value string, quoting Quoting) (*Text, error) {
	t := &Text{Quoting: quoting}
	if err := t.SetValue(value); err != nil {
		return nil, err
	}
	return t, nil
}

// Value returns the raw string content.
func (t *Text) Value() string { return t.value }

// SetValue replaces the string content. A value explicitly marked unquoted
// must never be silently re-quoted, so a leading '"' is rejected up front.
func (t *Text) SetValue(s string) error {
	if t.Quoting == QuoteNever && strings.HasPrefix(s, `"`) {
		return &RenderError{Message: "unquoted text cannot start with a double quote"}
	}
	t.value = s
	return nil
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Render() (string, error) {
	switch t.Quoting {
	case QuoteNever:
		if requiresQuotes(t.value) {
			return "", &RenderError{Message: fmt.Sprintf("text %q requires quoting but is marked unquoted", t.value)}
		}
		return t.value, nil
	case QuoteAlways:
		return quote(t.value), nil
	default:
		if requiresQuotes(t.value) {
			return quote(t.value), nil
		}
		return t.value, nil
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '=' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// requiresQuotes reports whether s is not a safe bare identifier: empty, not
// starting with a letter or underscore, or containing a character outside
// letter/digit/underscore/hyphen.
func requiresQuotes(s string) bool {
	if s == "" {
		return true
	}
	if !isIdentStart(s[0]) {
		return true
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return true
		}
	}
	return false
}

func isIdentStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9') || ch == '-'
}
