/*
Package convert moves translation documents between file formats.

Codecs are kept in a Registry keyed by format name so commands can pick one from user
input or from a file extension.
*/
package convert

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/petert82/go-linguist-api/ts"
)

// Codec reads and writes one file format.
type Codec interface {
	Format() string
	Extension() string
	Encode(w io.Writer, doc *ts.Document) error
	Decode(r io.Reader) (*ts.Document, error)
}

type Registry struct {
	byFormat map[string]Codec
}

func New() *Registry { return &Registry{byFormat: map[string]Codec{}} }

// Default returns a registry holding every built-in codec.
func Default() *Registry {
	r := New()
	r.Register(TS{})
	r.Register(XLIFF{})
	r.Register(JSON{})
	r.Register(YAML{})
	return r
}

func (r *Registry) Register(c Codec) { r.byFormat[c.Format()] = c }

func (r *Registry) Get(format string) (Codec, bool) {
	c, ok := r.byFormat[strings.ToLower(format)]
	return c, ok
}

// ForFile picks a codec by file extension.
func (r *Registry) ForFile(file string) (Codec, bool) {
	ext := strings.ToLower(filepath.Ext(file))
	if ext == ".yml" {
		ext = ".yaml"
	}
	for _, c := range r.byFormat {
		if c.Extension() == ext {
			return c, true
		}
	}
	return nil, false
}

// Formats lists the registered format names in alphabetical order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.byFormat))
	for n := range r.byFormat {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
