/*
Package catalog builds the runtime lookup table an application consults to translate its
UI strings.

Lookups use the same (context, source, comment) triple Qt's translate call uses. A
missing or empty translation falls back to the source text.
*/
package catalog

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
)

// Options controls which messages are loaded.
type Options struct {
	// SkipUnfinished leaves out translations still marked unfinished, like lrelease -nounfinished.
	SkipUnfinished bool
}

type entry struct {
	text  string
	forms []string
}

// Catalog is a read-only translation table. It is safe for concurrent use, and Replace
// swaps in a new table while readers keep running.
type Catalog struct {
	opts Options

	mu      sync.RWMutex
	lang    language.Tag
	plural  pluralRule
	entries map[trans.Key]entry
}

// ParseLanguage converts a TS language attribute such as "zh_CN" to a language tag.
// An empty value yields language.Und.
func ParseLanguage(s string) (language.Tag, error) {
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, errors.Wrapf(err, "catalog: invalid language %q", s)
	}
	return tag, nil
}

// New builds a catalog from a parsed document.
func New(doc *ts.Document, opts Options) (*Catalog, error) {
	c := &Catalog{opts: opts}
	if err := c.Replace(doc); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses the TS file at the given path and builds a catalog from it.
func Load(file string, opts Options) (*Catalog, error) {
	doc, err := ts.ParseFile(file)
	if err != nil {
		return nil, err
	}
	return New(doc, opts)
}

// Replace rebuilds the table from doc.
func (c *Catalog) Replace(doc *ts.Document) error {
	tag, err := ParseLanguage(doc.Language)
	if err != nil {
		return err
	}

	entries := make(map[trans.Key]entry, doc.Len())
	var skipped int
	for _, r := range doc.Records() {
		if !r.Status.Active() || !r.Translated() {
			skipped++
			continue
		}
		if c.opts.SkipUnfinished && r.Status == trans.StatusUnfinished {
			skipped++
			continue
		}
		if _, dup := entries[r.Key]; dup {
			log.WithField("key", r.Key.String()).Warn("duplicate message, keeping the first one")
			continue
		}
		entries[r.Key] = entry{text: r.Translation, forms: r.NumerusForms}
	}

	c.mu.Lock()
	c.lang = tag
	c.plural = pluralFor(tag)
	c.entries = entries
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"language": tag.String(),
		"loaded":   len(entries),
		"skipped":  skipped,
	}).Debug("catalog loaded")

	return nil
}

// Language returns the catalog's target language.
func (c *Catalog) Language() language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// Len returns the number of loaded translations.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// lookup tries the exact triple first and then the same source without a comment, which
// is how QTranslator resolves a disambiguated string translated only once.
func (c *Catalog) lookup(ctx, source, comment string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(ctx, source, comment)
}

// lookupLocked is lookup for callers already holding c.mu.
func (c *Catalog) lookupLocked(ctx, source, comment string) (entry, bool) {
	if e, ok := c.entries[trans.Key{Context: ctx, Source: source, Comment: comment}]; ok {
		return e, true
	}
	if comment != "" {
		if e, ok := c.entries[trans.Key{Context: ctx, Source: source}]; ok {
			return e, true
		}
	}
	return entry{}, false
}

// Lookup returns the translation of source and whether one was found.
func (c *Catalog) Lookup(ctx, source, comment string) (string, bool) {
	e, ok := c.lookup(ctx, source, comment)
	if !ok {
		return "", false
	}
	if e.forms != nil {
		if len(e.forms) == 0 || e.forms[0] == "" {
			return "", false
		}
		return e.forms[0], true
	}
	return e.text, true
}

// Translate returns the translation of source, or source itself when there is none.
func (c *Catalog) Translate(ctx, source, comment string) string {
	if t, ok := c.Lookup(ctx, source, comment); ok {
		return t
	}
	return source
}

// Tr translates a string that has no disambiguating comment.
func (c *Catalog) Tr(ctx, source string) string {
	return c.Translate(ctx, source, "")
}

// TranslateN picks the numerus form for n and replaces "%n" with n. When the form is
// missing or empty the source text is used.
func (c *Catalog) TranslateN(ctx, source, comment string, n int) string {
	c.mu.RLock()
	e, ok := c.lookupLocked(ctx, source, comment)
	idx := c.plural(n)
	c.mu.RUnlock()

	out := source
	if ok {
		switch {
		case e.forms == nil:
			out = e.text
		case idx < len(e.forms) && e.forms[idx] != "":
			out = e.forms[idx]
		}
	}
	return strings.ReplaceAll(out, "%n", strconv.Itoa(n))
}
