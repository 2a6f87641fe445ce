package server

import (
	"github.com/petert82/go-linguist-api/datastore"
	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
)

type Catalog struct {
	Name           string              `json:"name"`
	SourceLanguage string              `json:"sourceLanguage,omitempty"`
	Languages      []string            `json:"languages"`
	Stats          map[string]ts.Stats `json:"stats"`
	Messages       []Message           `json:"messages"`
}

func NewCatalog(dc *datastore.Catalog) (c *Catalog) {
	c = &Catalog{
		Name:           dc.Name,
		SourceLanguage: dc.SourceLanguage,
		Languages:      dc.Languages,
		Stats:          make(map[string]ts.Stats, len(dc.Languages)),
		Messages:       make([]Message, len(dc.Messages)),
	}

	for _, code := range dc.Languages {
		c.Stats[code] = dc.Document(code).Stats()
	}

	for i, m := range dc.Messages {
		nm := Message{
			Id:           m.Id,
			Key:          m.Key,
			ExtraComment: m.ExtraComment,
			Numerus:      m.Numerus,
			Translations: make(map[string]Translation, len(m.Translations)),
		}
		for _, l := range m.Locations {
			nm.Locations = append(nm.Locations, l.String())
		}
		for code, t := range m.Translations {
			nm.Translations[code] = Translation{
				Content:           t.Content,
				NumerusForms:      t.NumerusForms,
				Status:            t.Status,
				TranslatorComment: t.TranslatorComment,
			}
		}
		c.Messages[i] = nm
	}

	return c
}

type Message struct {
	Id int64 `json:"id"`
	trans.Key
	ExtraComment string                 `json:"extraComment,omitempty"`
	Locations    []string               `json:"locations,omitempty"`
	Numerus      bool                   `json:"numerus,omitempty"`
	Translations map[string]Translation `json:"translations"`
}

// Translation is both the API view of a stored translation and the request body for
// creating or updating one.
type Translation struct {
	Content           string       `json:"content"`
	NumerusForms      []string     `json:"numerusForms,omitempty"`
	Status            trans.Status `json:"status,omitempty"`
	TranslatorComment string       `json:"translatorComment,omitempty"`
}

func (t Translation) toStore() datastore.Translation {
	return datastore.Translation{
		Content:           t.Content,
		NumerusForms:      t.NumerusForms,
		Status:            t.Status,
		TranslatorComment: t.TranslatorComment,
	}
}
