package pdxscript

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/pdxkit/pdxscript/ast"
	"github.com/pdxkit/pdxscript/parser"
)

// Document ties a parsed root container to its load/save collaborators.
// Files are read and written as UTF-8 with Unix line endings and no trailing
// newline.
type Document struct {
	Root *ast.Root

	cfg *config
}

// NewDocument returns a document with an empty root, for programmatic tree
// construction.
func NewDocument(opts ...Option) (*Document, error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Document{Root: ast.NewRoot(), cfg: c}, nil
}

// Open reads and parses the file at path.
func Open(path string, opts ...Option) (*Document, error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("pdxscript: reading %s: %w", path, err)
	}
	p, err := parser.New(data, c.parserOptions()...)
	if err != nil {
		return nil, err
	}
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return &Document{Root: root, cfg: c}, nil
}

// Save renders the tree and writes it to the file at path.
func (d *Document) Save(path string) error {
	text, err := d.Root.Render()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(d.cfg.fs, path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("pdxscript: writing %s: %w", path, err)
	}
	return nil
}
