/*
Package trans holds the types shared by the TS codec, the runtime catalog and the datastore.

A Record is one translatable message. Records are identified by their Key, the
(context, source, comment) triple a Qt application passes to its translate call.
*/
package trans

import "fmt"

// DefaultContext is the context name lupdate uses for strings extracted outside of a class.
const DefaultContext = "@default"

// Key identifies a message within a catalog.
type Key struct {
	Context string `json:"context"`
	Source  string `json:"source"`
	Comment string `json:"comment,omitempty"`
}

func (k Key) String() string {
	if k.Comment == "" {
		return fmt.Sprintf("%v/%q", k.Context, k.Source)
	}
	return fmt.Sprintf("%v/%q (%v)", k.Context, k.Source, k.Comment)
}

// Status is the state of a translation, as stored in the TS 'type' attribute.
type Status string

const (
	StatusFinished   Status = ""
	StatusUnfinished Status = "unfinished"
	StatusVanished   Status = "vanished"
	StatusObsolete   Status = "obsolete"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusFinished, StatusUnfinished, StatusVanished, StatusObsolete:
		return true
	}
	return false
}

// Active reports whether a message with this status still exists in the application source.
func (s Status) Active() bool {
	return s == StatusFinished || s == StatusUnfinished
}

// Location is the resolved position a message was extracted from.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l Location) String() string {
	return fmt.Sprintf("%v:%v", l.File, l.Line)
}

// Record is a single translatable message and its translation.
type Record struct {
	Key
	Locations         []Location `json:"locations,omitempty"`
	TranslatorComment string     `json:"translatorComment,omitempty"`
	ExtraComment      string     `json:"extraComment,omitempty"`
	Translation       string     `json:"translation"`
	Numerus           bool       `json:"numerus,omitempty"`
	NumerusForms      []string   `json:"numerusForms,omitempty"`
	Status            Status     `json:"status,omitempty"`
}

// Translated reports whether the record carries any non-empty translation text.
func (r Record) Translated() bool {
	if r.Numerus {
		for _, f := range r.NumerusForms {
			if f != "" {
				return true
			}
		}
		return false
	}
	return r.Translation != ""
}

// Language is a language known to the datastore.
type Language struct {
	Id   int64  `json:"-"`
	Code string `json:"code"`
	Name string `json:"name"`
}
