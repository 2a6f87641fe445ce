package convert

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
	"github.com/petert82/go-linguist-api/xliff"
)

type TS struct{}

func (TS) Format() string    { return "ts" }
func (TS) Extension() string { return ".ts" }

func (TS) Encode(w io.Writer, doc *ts.Document) error { return doc.Write(w) }

func (TS) Decode(r io.Reader) (*ts.Document, error) { return ts.Parse(r) }

type XLIFF struct{}

func (XLIFF) Format() string    { return "xliff" }
func (XLIFF) Extension() string { return ".xliff" }

func (XLIFF) Encode(w io.Writer, doc *ts.Document) error {
	return xliff.FromDocument(doc).Write(w)
}

func (XLIFF) Decode(r io.Reader) (*ts.Document, error) {
	x, err := xliff.Parse(r)
	if err != nil {
		return nil, err
	}
	return x.Document(), nil
}

// catalogFile is the flat layout shared by the JSON and YAML codecs.
type catalogFile struct {
	Language       string         `json:"language" yaml:"language"`
	SourceLanguage string         `json:"sourceLanguage,omitempty" yaml:"sourceLanguage,omitempty"`
	Messages       []catalogEntry `json:"messages" yaml:"messages"`
}

type catalogEntry struct {
	Context           string           `json:"context" yaml:"context"`
	Source            string           `json:"source" yaml:"source"`
	Comment           string           `json:"comment,omitempty" yaml:"comment,omitempty"`
	TranslatorComment string           `json:"translatorComment,omitempty" yaml:"translatorComment,omitempty"`
	ExtraComment      string           `json:"extraComment,omitempty" yaml:"extraComment,omitempty"`
	Translation       string           `json:"translation" yaml:"translation"`
	NumerusForms      []string         `json:"numerusForms,omitempty" yaml:"numerusForms,omitempty"`
	Status            trans.Status     `json:"status,omitempty" yaml:"status,omitempty"`
	Locations         []trans.Location `json:"locations,omitempty" yaml:"locations,omitempty"`
}

func newCatalogFile(doc *ts.Document) catalogFile {
	f := catalogFile{Language: doc.Language, SourceLanguage: doc.SourceLanguage, Messages: []catalogEntry{}}
	for _, r := range doc.Records() {
		f.Messages = append(f.Messages, catalogEntry{
			Context:           r.Context,
			Source:            r.Source,
			Comment:           r.Comment,
			TranslatorComment: r.TranslatorComment,
			ExtraComment:      r.ExtraComment,
			Translation:       r.Translation,
			NumerusForms:      r.NumerusForms,
			Status:            r.Status,
			Locations:         r.Locations,
		})
	}
	return f
}

func (f catalogFile) document() *ts.Document {
	recs := make([]trans.Record, len(f.Messages))
	for i, m := range f.Messages {
		recs[i] = trans.Record{
			Key:               trans.Key{Context: m.Context, Source: m.Source, Comment: m.Comment},
			Locations:         m.Locations,
			TranslatorComment: m.TranslatorComment,
			ExtraComment:      m.ExtraComment,
			Translation:       m.Translation,
			Numerus:           len(m.NumerusForms) > 0,
			NumerusForms:      m.NumerusForms,
			Status:            m.Status,
		}
	}
	return ts.FromRecords(f.Language, f.SourceLanguage, recs)
}

type JSON struct{}

func (JSON) Format() string    { return "json" }
func (JSON) Extension() string { return ".json" }

func (JSON) Encode(w io.Writer, doc *ts.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(newCatalogFile(doc))
}

func (JSON) Decode(r io.Reader) (*ts.Document, error) {
	var f catalogFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "json: malformed catalog")
	}
	return f.document(), nil
}

type YAML struct{}

func (YAML) Format() string    { return "yaml" }
func (YAML) Extension() string { return ".yaml" }

func (YAML) Encode(w io.Writer, doc *ts.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newCatalogFile(doc)); err != nil {
		return err
	}
	return enc.Close()
}

func (YAML) Decode(r io.Reader) (*ts.Document, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "yaml: malformed catalog")
	}
	return f.document(), nil
}
