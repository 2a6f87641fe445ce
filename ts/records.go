package ts

import (
	"strconv"
	"strings"

	"github.com/petert82/go-linguist-api/trans"
)

// locationResolver turns lupdate's relative locations into absolute ones. A location
// without a filename repeats the previous file, and a line starting with '+' or '-' is an
// offset from the last line seen in that file.
type locationResolver struct {
	file  string
	lines map[string]int
}

func (lr *locationResolver) resolve(l Location) trans.Location {
	if lr.lines == nil {
		lr.lines = make(map[string]int)
	}
	if l.File != "" {
		lr.file = l.File
	}

	line := lr.lines[lr.file]
	switch {
	case strings.HasPrefix(l.Line, "+") || strings.HasPrefix(l.Line, "-"):
		if n, err := strconv.Atoi(l.Line); err == nil {
			line += n
		}
	case l.Line != "":
		if n, err := strconv.Atoi(l.Line); err == nil {
			line = n
		}
	}
	lr.lines[lr.file] = line

	return trans.Location{File: lr.file, Line: line}
}

// Records flattens the document into records in document order. Locations are resolved
// to absolute file and line values.
func (d *Document) Records() []trans.Record {
	recs := make([]trans.Record, 0, d.Len())
	lr := &locationResolver{}

	for _, c := range d.Contexts {
		for _, m := range c.Messages {
			r := trans.Record{
				Key:               m.Key(c.Name),
				TranslatorComment: m.TranslatorComment,
				ExtraComment:      m.ExtraComment,
				Translation:       m.Translation,
				Numerus:           m.Numerus,
				Status:            m.Type,
			}
			if m.Numerus {
				r.NumerusForms = append([]string(nil), m.NumerusForms...)
			}
			for _, l := range m.Locations {
				r.Locations = append(r.Locations, lr.resolve(l))
			}
			recs = append(recs, r)
		}
	}

	return recs
}

// FromRecords builds a document from records. Contexts appear in the order they are first
// seen and all locations are written as absolute.
func FromRecords(language, sourceLanguage string, recs []trans.Record) *Document {
	doc := New(language, sourceLanguage)
	for _, r := range recs {
		c := doc.AddContext(r.Context)
		c.Messages = append(c.Messages, messageFromRecord(r))
	}
	return doc
}

func messageFromRecord(r trans.Record) *Message {
	m := &Message{
		Source:            r.Source,
		Comment:           r.Comment,
		ExtraComment:      r.ExtraComment,
		TranslatorComment: r.TranslatorComment,
		Numerus:           r.Numerus,
		Type:              r.Status,
	}
	if r.Numerus {
		m.NumerusForms = append([]string(nil), r.NumerusForms...)
	} else {
		m.Translation = r.Translation
	}
	for _, l := range r.Locations {
		m.Locations = append(m.Locations, Location{File: l.File, Line: strconv.Itoa(l.Line)})
	}
	return m
}

// Stats summarizes the translation progress of a document.
type Stats struct {
	Contexts     int `json:"contexts"`
	Messages     int `json:"messages"`
	Finished     int `json:"finished"`
	Unfinished   int `json:"unfinished"`
	Untranslated int `json:"untranslated"`
	Obsolete     int `json:"obsolete"`
}

// Stats counts messages by status. Untranslated counts active messages without any
// translation text, whatever their type attribute says.
func (d *Document) Stats() Stats {
	s := Stats{Contexts: len(d.Contexts)}
	for _, r := range d.Records() {
		s.Messages++
		switch {
		case !r.Status.Active():
			s.Obsolete++
		case !r.Translated():
			s.Untranslated++
		case r.Status == trans.StatusUnfinished:
			s.Unfinished++
		default:
			s.Finished++
		}
	}
	return s
}

// Active returns the number of messages that are not obsolete or vanished.
func (s Stats) Active() int {
	return s.Messages - s.Obsolete
}

// Percent returns the share of active messages with a finished translation.
func (s Stats) Percent() float64 {
	if s.Active() == 0 {
		return 100
	}
	return float64(s.Finished) * 100 / float64(s.Active())
}
