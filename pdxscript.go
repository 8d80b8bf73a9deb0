package pdxscript

import (
	"github.com/pdxkit/pdxscript/ast"
	"github.com/pdxkit/pdxscript/mapper"
	"github.com/pdxkit/pdxscript/parser"
)

// Parse builds a document tree from engine definition source text.
func Parse(data []byte, opts ...Option) (*ast.Root, error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	p, err := parser.New(data, c.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// Render returns the source text for a value. It is shorthand for calling
// Render on the value itself.
func Render(v ast.Value) (string, error) {
	return v.Render()
}

// Unmarshal parses the data and stores the result in the value pointed to
// by v. Constructors map onto struct fields (matched by `pdx` tag, else
// case-insensitive field name) or map entries; groups of plain values map
// onto slices.
func Unmarshal(data []byte, v any, opts ...Option) error {
	root, err := Parse(data, opts...)
	if err != nil {
		return err
	}
	return mapper.Map(root, v)
}
