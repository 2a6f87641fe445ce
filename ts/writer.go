package ts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// protect escapes s the way lupdate does, including <byte/> elements for control characters.
// CR is written as a <byte/> too since XML parsers normalize it away even from &#xd;.
func protect(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '"':
			b.WriteString("&quot;")
		case r == '\'':
			b.WriteString("&apos;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case r < 0x20 && r != '\n' && r != '\t':
			fmt.Fprintf(&b, `<byte value="x%x"/>`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// protectAttr escapes attribute values. Control characters cannot be carried by <byte/>
// elements inside an attribute so they are dropped.
func protectAttr(s string) string {
	return protect(strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

type writer struct {
	w   *bufio.Writer
	err error
}

func (w *writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) element(indent, name, value string) {
	if value == "" {
		return
	}
	w.printf("%v<%v>%v</%v>\n", indent, name, protect(value), name)
}

// Write serializes the document in the layout lupdate produces.
func (d *Document) Write(out io.Writer) error {
	w := &writer{w: bufio.NewWriter(out)}

	w.printf("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n<TS")
	version := d.Version
	if version == "" {
		version = DefaultVersion
	}
	w.printf(" version=\"%v\"", protectAttr(version))
	if d.Language != "" {
		w.printf(" language=\"%v\"", protectAttr(d.Language))
	}
	if d.SourceLanguage != "" {
		w.printf(" sourcelanguage=\"%v\"", protectAttr(d.SourceLanguage))
	}
	w.printf(">\n")

	for _, c := range d.Contexts {
		w.printf("<context>\n")
		w.printf("    <name>%v</name>\n", protect(c.Name))
		w.element("    ", "comment", c.Comment)
		for _, m := range c.Messages {
			w.message(m)
		}
		w.printf("</context>\n")
	}
	w.printf("</TS>\n")

	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *writer) message(m *Message) {
	const indent = "        "

	w.printf("    <message")
	if m.ID != "" {
		w.printf(" id=\"%v\"", protectAttr(m.ID))
	}
	if m.Numerus {
		w.printf(" numerus=\"yes\"")
	}
	w.printf(">\n")

	for _, l := range m.Locations {
		w.printf("%v<location", indent)
		if l.File != "" {
			w.printf(" filename=\"%v\"", protectAttr(l.File))
		}
		if l.Line != "" {
			w.printf(" line=\"%v\"", protectAttr(l.Line))
		}
		w.printf("/>\n")
	}
	w.printf("%v<source>%v</source>\n", indent, protect(m.Source))
	w.element(indent, "oldsource", m.OldSource)
	w.element(indent, "comment", m.Comment)
	w.element(indent, "oldcomment", m.OldComment)
	w.element(indent, "extracomment", m.ExtraComment)
	w.element(indent, "translatorcomment", m.TranslatorComment)

	w.printf("%v<translation", indent)
	if m.Type != "" {
		w.printf(" type=\"%v\"", protectAttr(string(m.Type)))
	}
	if m.Numerus && len(m.NumerusForms) > 0 {
		w.printf(">\n")
		for _, f := range m.NumerusForms {
			w.printf("%v    <numerusform>%v</numerusform>\n", indent, protect(f))
		}
		w.printf("%v</translation>\n", indent)
	} else if m.Numerus {
		w.printf("></translation>\n")
	} else {
		w.printf(">%v</translation>\n", protect(m.Translation))
	}

	w.printf("    </message>\n")
}

// WriteFile writes the document to the given path, replacing it atomically.
func (d *Document) WriteFile(file string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = d.Write(tmp); err != nil {
		return errors.Wrap(err, file)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), file)
}
