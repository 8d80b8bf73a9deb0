package pdxscript

import (
	"github.com/spf13/afero"

	"github.com/pdxkit/pdxscript/parser"
)

type config struct {
	fs          afero.Fs
	recognizers []parser.Recognizer
}

// Option configures parsing and document I/O.
type Option func(*config) error

// WithFs replaces the filesystem used by Open and Document.Save. The default
// is the OS filesystem; tests typically pass afero.NewMemMapFs().
func WithFs(fs afero.Fs) Option {
	return func(c *config) error {
		c.fs = fs
		return nil
	}
}

// WithRecognizers replaces the parser's ordered recognizer list. The default
// is parser.DefaultRecognizers().
func WithRecognizers(rs ...parser.Recognizer) Option {
	return func(c *config) error {
		c.recognizers = rs
		return nil
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{fs: afero.NewOsFs()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *config) parserOptions() []parser.Option {
	if c.recognizers == nil {
		return nil
	}
	return []parser.Option{parser.WithRecognizers(c.recognizers...)}
}
