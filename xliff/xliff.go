/*
Package xliff converts translation documents to and from XLIFF 1.2.

Each TS context becomes one <file> whose 'original' attribute is the context name. A
trans-unit's resname is the source text, and the disambiguating and translator comments
travel as developer and translator notes. Numerus messages are written as one trans-unit
per form with ids suffixed "[0]", "[1]" and so on. XLIFF has no escape for control
characters, so they come back as U+FFFD.
*/
package xliff

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
)

const (
	Namespace = "urn:oasis:names:tc:xliff:document:1.2"
	Version   = "1.2"

	noteDeveloper  = "developer"
	noteTranslator = "translator"
	noteExtra      = "extra"

	stateTranslated  = "translated"
	stateNeedsReview = "needs-review-translation"
	stateNew         = "new"
	stateObsolete    = "x-obsolete"
)

type Xliff struct {
	XMLName xml.Name `xml:"xliff"`
	Version string   `xml:"version,attr"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	Files   []File   `xml:"file"`
}

type File struct {
	Original   string      `xml:"original,attr"`
	DataType   string      `xml:"datatype,attr"`
	SourceLang string      `xml:"source-language,attr"`
	TargetLang string      `xml:"target-language,attr,omitempty"`
	Header     *Header     `xml:"header"`
	Units      []TransUnit `xml:"body>trans-unit"`
}

type Header struct {
	Tool Tool   `xml:"tool"`
	Note string `xml:"note,omitempty"`
}

type Tool struct {
	Id      string `xml:"tool-id,attr"`
	Name    string `xml:"tool-name,attr"`
	Version string `xml:"tool-version,attr,omitempty"`
}

type TransUnit struct {
	Id            string         `xml:"id,attr"`
	Name          string         `xml:"resname,attr,omitempty"`
	Approved      string         `xml:"approved,attr,omitempty"`
	Source        string         `xml:"source"`
	Target        *Target        `xml:"target"`
	ContextGroups []ContextGroup `xml:"context-group"`
	Notes         []Note         `xml:"note"`
}

type Target struct {
	State   string `xml:"state,attr,omitempty"`
	Content string `xml:",chardata"`
}

type ContextGroup struct {
	Purpose  string        `xml:"purpose,attr"`
	Contexts []ContextItem `xml:"context"`
}

type ContextItem struct {
	Type    string `xml:"context-type,attr"`
	Content string `xml:",chardata"`
}

type Note struct {
	From    string `xml:"from,attr,omitempty"`
	Content string `xml:",chardata"`
}

func (u TransUnit) note(from string) string {
	for _, n := range u.Notes {
		if n.From == from {
			return n.Content
		}
	}
	return ""
}

func (u TransUnit) locations() (locs []trans.Location) {
	for _, g := range u.ContextGroups {
		if g.Purpose != "location" {
			continue
		}
		var l trans.Location
		for _, c := range g.Contexts {
			switch c.Type {
			case "sourcefile":
				l.File = c.Content
			case "linenumber":
				l.Line, _ = strconv.Atoi(c.Content)
			}
		}
		locs = append(locs, l)
	}
	return locs
}

func targetState(s trans.Status, translated bool) string {
	switch {
	case !s.Active():
		return stateObsolete
	case !translated:
		return stateNew
	case s == trans.StatusUnfinished:
		return stateNeedsReview
	}
	return stateTranslated
}

func statusFromState(state string) trans.Status {
	switch state {
	case stateObsolete:
		return trans.StatusVanished
	case stateTranslated, "final", "signed-off":
		return trans.StatusFinished
	}
	return trans.StatusUnfinished
}

// FromDocument converts a TS document to XLIFF.
func FromDocument(doc *ts.Document) *Xliff {
	x := &Xliff{Version: Version, Xmlns: Namespace}
	byContext := make(map[string]int)

	for _, r := range doc.Records() {
		idx, ok := byContext[r.Context]
		if !ok {
			idx = len(x.Files)
			byContext[r.Context] = idx
			x.Files = append(x.Files, File{
				Original:   r.Context,
				DataType:   "plaintext",
				SourceLang: doc.SourceLanguage,
				TargetLang: doc.Language,
				Header:     &Header{Tool: Tool{Id: "go-linguist-api", Name: "go-linguist-api"}},
			})
		}
		f := &x.Files[idx]

		base := TransUnit{Name: r.Source, Source: r.Source}
		for _, l := range r.Locations {
			base.ContextGroups = append(base.ContextGroups, ContextGroup{
				Purpose: "location",
				Contexts: []ContextItem{
					{Type: "sourcefile", Content: l.File},
					{Type: "linenumber", Content: strconv.Itoa(l.Line)},
				},
			})
		}
		if r.Comment != "" {
			base.Notes = append(base.Notes, Note{From: noteDeveloper, Content: r.Comment})
		}
		if r.ExtraComment != "" {
			base.Notes = append(base.Notes, Note{From: noteExtra, Content: r.ExtraComment})
		}
		if r.TranslatorComment != "" {
			base.Notes = append(base.Notes, Note{From: noteTranslator, Content: r.TranslatorComment})
		}

		id := fmt.Sprintf("%v", len(f.Units)+1)
		if !r.Numerus {
			u := base
			u.Id = id
			u.Target = &Target{State: targetState(r.Status, r.Translation != ""), Content: r.Translation}
			if u.Target.State == stateTranslated {
				u.Approved = "yes"
			}
			f.Units = append(f.Units, u)
			continue
		}
		forms := r.NumerusForms
		if len(forms) == 0 {
			forms = []string{""}
		}
		for i, form := range forms {
			u := base
			u.Id = fmt.Sprintf("%v[%v]", id, i)
			u.Target = &Target{State: targetState(r.Status, form != ""), Content: form}
			f.Units = append(f.Units, u)
		}
	}

	return x
}

// splitId separates a numerus form suffix from a trans-unit id.
func splitId(id string) (base string, form int, ok bool) {
	open := strings.LastIndex(id, "[")
	if open < 0 || !strings.HasSuffix(id, "]") {
		return id, 0, false
	}
	n, err := strconv.Atoi(id[open+1 : len(id)-1])
	if err != nil {
		return id, 0, false
	}
	return id[:open], n, true
}

// Document converts the XLIFF content back into a TS document.
func (x *Xliff) Document() *ts.Document {
	doc := ts.New("", "")
	for _, f := range x.Files {
		if doc.Language == "" {
			doc.Language = f.TargetLang
		}
		if doc.SourceLanguage == "" {
			doc.SourceLanguage = f.SourceLang
		}

		c := doc.AddContext(f.Original)
		numerus := make(map[string]*ts.Message)
		for _, u := range f.Units {
			base, _, isForm := splitId(u.Id)
			target, state := "", ""
			if u.Target != nil {
				target, state = u.Target.Content, u.Target.State
			}

			if isForm {
				if m, ok := numerus[base]; ok {
					m.NumerusForms = append(m.NumerusForms, target)
					continue
				}
			}

			source := u.Source
			if source == "" {
				source = u.Name
			}
			m := &ts.Message{
				Source:            source,
				Comment:           u.note(noteDeveloper),
				ExtraComment:      u.note(noteExtra),
				TranslatorComment: u.note(noteTranslator),
				Type:              statusFromState(state),
			}
			for _, l := range u.locations() {
				m.Locations = append(m.Locations, ts.Location{File: l.File, Line: strconv.Itoa(l.Line)})
			}
			if isForm {
				m.Numerus = true
				m.NumerusForms = []string{target}
				numerus[base] = m
			} else {
				m.Translation = target
			}
			c.Messages = append(c.Messages, m)
		}
	}
	return doc
}

// Write serializes the XLIFF document with an XML declaration.
func (x *Xliff) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(x); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Parse reads an XLIFF 1.2 document.
func Parse(r io.Reader) (*Xliff, error) {
	x := &Xliff{}
	if err := xml.NewDecoder(r).Decode(x); err != nil {
		return nil, errors.Wrap(err, "xliff: malformed document")
	}
	if x.Version != "" && x.Version != Version {
		return nil, errors.Errorf("xliff: unsupported version %v", x.Version)
	}
	return x, nil
}

// InfoFromFilename splits a "name.lang.xliff" file name into its catalog name and language.
func InfoFromFilename(filename string) (name string, expectLang string, err error) {
	parts := strings.Split(filename, ".")
	if len(parts) != 3 {
		return "", "", errors.Errorf("catalog name or language missing from filename '%v'", filename)
	}

	return parts[0], parts[1], nil
}

// NewFromFile reads an XLIFF file named "name.lang.xliff" and checks that its target
// language matches the one in the file name.
func NewFromFile(file string) (x *Xliff, name string, err error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	x, err = Parse(f)
	if err != nil {
		return nil, "", errors.Wrap(err, file)
	}

	name, expectLang, err := InfoFromFilename(filepath.Base(file))
	if err != nil {
		return nil, "", err
	}
	for _, xf := range x.Files {
		if xf.TargetLang != "" && xf.TargetLang != expectLang {
			return nil, "", errors.Errorf(
				"found language %v but expected %v based on filename '%v'",
				xf.TargetLang,
				expectLang,
				file)
		}
	}

	return x, name, nil
}

// Export writes doc to dir as "name.lang.xliff" and returns the path written.
func Export(doc *ts.Document, name, dir string) (string, error) {
	lang := doc.Language
	if lang == "" {
		lang = "und"
	}
	file := filepath.Join(dir, fmt.Sprintf("%v.%v.xliff", name, lang))

	f, err := os.Create(file)
	if err != nil {
		return "", err
	}
	if err := FromDocument(doc).Write(f); err != nil {
		f.Close()
		return "", errors.Wrap(err, file)
	}
	return file, f.Close()
}
