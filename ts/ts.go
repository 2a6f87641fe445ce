/*
Package ts reads and writes Qt Linguist translation source (.ts) files.

A Document mirrors the XML tree closely enough that Parse followed by Write reproduces
every message, including obsolete ones, numerus forms and relative source locations.
*/
package ts

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/petert82/go-linguist-api/trans"
)

// DefaultVersion is the TS format version written for new documents.
const DefaultVersion = "2.1"

// Document is a parsed TS file.
type Document struct {
	Version        string
	Language       string
	SourceLanguage string
	Contexts       []*Context
}

// Context groups the messages of one UI component.
type Context struct {
	Name     string
	Comment  string
	Messages []*Message
}

// Location is a <location> element exactly as written in the file. Line may be relative
// ("+3") and File may be empty when it repeats the previous location's file.
type Location struct {
	File string
	Line string
}

// Message is a single <message> element.
type Message struct {
	ID                string
	Locations         []Location
	Source            string
	OldSource         string
	Comment           string
	OldComment        string
	ExtraComment      string
	TranslatorComment string
	Translation       string
	Numerus           bool
	NumerusForms      []string
	Type              trans.Status
}

// Key returns the (context, source, comment) triple identifying m within ctx.
func (m *Message) Key(ctx string) trans.Key {
	return trans.Key{Context: ctx, Source: m.Source, Comment: m.Comment}
}

// New creates an empty document for the given target and source languages.
func New(language, sourceLanguage string) *Document {
	return &Document{Version: DefaultVersion, Language: language, SourceLanguage: sourceLanguage}
}

// Context returns the context with the given name, or nil.
func (d *Document) Context(name string) *Context {
	for _, c := range d.Contexts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddContext returns the context with the given name, appending it if it does not exist yet.
func (d *Document) AddContext(name string) *Context {
	if c := d.Context(name); c != nil {
		return c
	}
	c := &Context{Name: name}
	d.Contexts = append(d.Contexts, c)
	return c
}

// Find returns the message identified by k, or nil.
func (d *Document) Find(k trans.Key) *Message {
	c := d.Context(k.Context)
	if c == nil {
		return nil
	}
	for _, m := range c.Messages {
		if m.Source == k.Source && m.Comment == k.Comment {
			return m
		}
	}
	return nil
}

// Len returns the number of messages in the document.
func (d *Document) Len() (n int) {
	for _, c := range d.Contexts {
		n += len(c.Messages)
	}
	return n
}

type xmlTS struct {
	XMLName        xml.Name     `xml:"TS"`
	Version        string       `xml:"version,attr"`
	Language       string       `xml:"language,attr"`
	SourceLanguage string       `xml:"sourcelanguage,attr"`
	Contexts       []xmlContext `xml:"context"`
}

type xmlContext struct {
	Name     text         `xml:"name"`
	Comment  text         `xml:"comment"`
	Messages []xmlMessage `xml:"message"`
}

type xmlMessage struct {
	ID                string         `xml:"id,attr"`
	Numerus           string         `xml:"numerus,attr"`
	Locations         []xmlLocation  `xml:"location"`
	Source            text           `xml:"source"`
	OldSource         text           `xml:"oldsource"`
	Comment           text           `xml:"comment"`
	OldComment        text           `xml:"oldcomment"`
	ExtraComment      text           `xml:"extracomment"`
	TranslatorComment text           `xml:"translatorcomment"`
	Translation       xmlTranslation `xml:"translation"`
}

type xmlLocation struct {
	File string `xml:"filename,attr"`
	Line string `xml:"line,attr"`
}

type xmlTranslation struct {
	Type  string
	Text  string
	Forms []string
}

// text is character data that may contain Qt's <byte value="x1"/> escapes for control
// characters XML 1.0 cannot carry.
type text string

func (t *text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	s, err := readText(d)
	if err != nil {
		return err
	}
	*t = text(s)
	return nil
}

func (t *xmlTranslation) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "type" {
			t.Type = a.Value
		}
	}

	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			b.Write(tt)
		case xml.StartElement:
			switch tt.Name.Local {
			case "numerusform":
				f, err := readText(d)
				if err != nil {
					return err
				}
				t.Forms = append(t.Forms, f)
			case "byte":
				r, err := byteValue(tt)
				if err != nil {
					return err
				}
				b.WriteRune(r)
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				// lengthvariant and friends are not supported
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if len(t.Forms) == 0 {
				t.Text = b.String()
			}
			return nil
		}
	}
}

// readText collects character data up to the end of the current element.
func readText(d *xml.Decoder) (string, error) {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			b.Write(tt)
		case xml.StartElement:
			if tt.Name.Local == "byte" {
				r, err := byteValue(tt)
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
			}
			if err := d.Skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

func byteValue(se xml.StartElement) (rune, error) {
	for _, a := range se.Attr {
		if a.Name.Local != "value" {
			continue
		}
		v, base := a.Value, 10
		if strings.HasPrefix(v, "x") {
			v, base = v[1:], 16
		}
		n, err := strconv.ParseUint(v, base, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "ts: invalid byte value %q", a.Value)
		}
		return rune(n), nil
	}
	return 0, errors.New("ts: byte element without value")
}

// Parse reads a TS document.
func Parse(r io.Reader) (*Document, error) {
	var x xmlTS
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&x); err != nil {
		if err == io.EOF {
			return nil, errors.New("ts: empty document")
		}
		return nil, errors.Wrap(err, "ts: malformed document")
	}

	doc := &Document{Version: x.Version, Language: x.Language, SourceLanguage: x.SourceLanguage}
	for _, xc := range x.Contexts {
		c := &Context{Name: string(xc.Name), Comment: string(xc.Comment)}
		for _, xm := range xc.Messages {
			m := &Message{
				ID:                xm.ID,
				Source:            string(xm.Source),
				OldSource:         string(xm.OldSource),
				Comment:           string(xm.Comment),
				OldComment:        string(xm.OldComment),
				ExtraComment:      string(xm.ExtraComment),
				TranslatorComment: string(xm.TranslatorComment),
				Translation:       xm.Translation.Text,
				Numerus:           xm.Numerus == "yes",
				NumerusForms:      xm.Translation.Forms,
				Type:              trans.Status(xm.Translation.Type),
			}
			if m.Numerus {
				// only numerusform children carry text
				m.Translation = ""
			}
			for _, l := range xm.Locations {
				m.Locations = append(m.Locations, Location{File: l.File, Line: l.Line})
			}
			c.Messages = append(c.Messages, m)
		}
		doc.Contexts = append(doc.Contexts, c)
	}

	return doc, nil
}

// ParseBytes reads a TS document held in memory.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile reads the TS document at the given path.
func ParseFile(file string) (*Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return doc, nil
}
