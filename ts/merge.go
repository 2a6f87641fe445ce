package ts

import (
	"github.com/petert82/go-linguist-api/trans"
)

// MergeResult counts what Merge did to the existing document.
type MergeResult struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Vanished int `json:"vanished"`
	Dropped  int `json:"dropped"`
}

// Merge folds freshly extracted messages into an existing translation document, the way
// lupdate refreshes a .ts file:
//   - messages present in both keep their translation and take the extracted locations
//     and extra comment; vanished or obsolete ones come back as unfinished
//   - translated messages missing from the extraction are marked vanished, untranslated
//     ones are dropped
//   - new messages are appended as unfinished
//
// The existing document is not modified.
func Merge(existing, extracted *Document) (*Document, MergeResult) {
	var res MergeResult

	out := &Document{
		Version:        existing.Version,
		Language:       existing.Language,
		SourceLanguage: existing.SourceLanguage,
	}
	if out.Language == "" {
		out.Language = extracted.Language
	}
	if out.SourceLanguage == "" {
		out.SourceLanguage = extracted.SourceLanguage
	}

	fresh := make(map[trans.Key]*Message, extracted.Len())
	for _, c := range extracted.Contexts {
		for _, m := range c.Messages {
			fresh[m.Key(c.Name)] = m
		}
	}
	kept := make(map[trans.Key]bool)

	for _, c := range existing.Contexts {
		nc := &Context{Name: c.Name, Comment: c.Comment}
		for _, m := range c.Messages {
			k := m.Key(c.Name)
			nm := m.clone()
			if f, ok := fresh[k]; ok {
				nm.Locations = append([]Location(nil), f.Locations...)
				nm.ExtraComment = f.ExtraComment
				if f.Numerus && !nm.Numerus {
					nm.Numerus = true
					nm.NumerusForms = []string{nm.Translation}
					nm.Translation = ""
				}
				if !nm.Type.Active() {
					nm.Type = trans.StatusUnfinished
				}
				kept[k] = true
				res.Updated++
			} else {
				if !messageTranslated(m) {
					res.Dropped++
					continue
				}
				if nm.Type != trans.StatusVanished && nm.Type != trans.StatusObsolete {
					res.Vanished++
				}
				nm.Type = trans.StatusVanished
			}
			nc.Messages = append(nc.Messages, &nm)
		}
		if len(nc.Messages) > 0 {
			out.Contexts = append(out.Contexts, nc)
		}
	}

	for _, c := range extracted.Contexts {
		for _, m := range c.Messages {
			k := m.Key(c.Name)
			if kept[k] {
				continue
			}
			kept[k] = true
			nm := m.clone()
			nm.Type = trans.StatusUnfinished
			oc := out.AddContext(c.Name)
			oc.Messages = append(oc.Messages, &nm)
			res.Added++
		}
	}

	return out, res
}

// clone copies m without sharing its slices.
func (m *Message) clone() Message {
	nm := *m
	nm.Locations = append([]Location(nil), m.Locations...)
	nm.NumerusForms = append([]string(nil), m.NumerusForms...)
	return nm
}

func messageTranslated(m *Message) bool {
	if m.Numerus {
		for _, f := range m.NumerusForms {
			if f != "" {
				return true
			}
		}
		return false
	}
	return m.Translation != ""
}
