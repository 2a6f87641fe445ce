/*
Package extract finds translatable strings in application source code, the job lupdate
and pylupdate do.

It recognises calls of the form

	tr("Context", "Text")
	translate("Context", "Text", "disambiguation")

with single or double quoted literals, including adjacent literals that Python and C++
join into one string.
*/
package extract

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
)

var (
	DefaultPatterns  = []string{"*.py", "*.go"}
	DefaultFunctions = []string{"tr", "translate"}
)

// Options configures an Extractor. Empty fields take the package defaults.
type Options struct {
	// File name globs matched against the base name of each file.
	Patterns []string
	// Names of the translate functions to look for.
	Functions []string
	// Directory names skipped while walking.
	SkipDirs []string
}

type Extractor struct {
	re       *regexp.Regexp
	patterns []string
	skipDirs map[string]bool
}

const (
	literal  = `"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'`
	literals = `((?:(?:` + literal + `)\s*)+)`
)

var literalRe = regexp.MustCompile(literal)

func New(opts Options) (*Extractor, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns
	}
	if len(opts.Functions) == 0 {
		opts.Functions = DefaultFunctions
	}
	for _, p := range opts.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, errors.Wrapf(err, "extract: invalid pattern %q", p)
		}
	}

	names := make([]string, len(opts.Functions))
	for i, f := range opts.Functions {
		names[i] = regexp.QuoteMeta(f)
	}
	expr := `\b(?:` + strings.Join(names, "|") + `)\(\s*` + literals + `,\s*` + literals + `(?:,\s*` + literals + `)?[,)]`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(err, "extract: invalid function name")
	}

	skip := map[string]bool{".git": true, "__pycache__": true, "node_modules": true, "vendor": true}
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}

	return &Extractor{re: re, patterns: opts.Patterns, skipDirs: skip}, nil
}

// Matches reports whether a file name matches one of the configured patterns.
func (e *Extractor) Matches(name string) bool {
	base := filepath.Base(name)
	for _, p := range e.patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

// ExtractSource adds the strings found in src to doc, using file as the location name,
// and returns how many calls were found.
func (e *Extractor) ExtractSource(file string, src []byte, doc *ts.Document) int {
	matches := e.re.FindAllSubmatchIndex(src, -1)
	for _, m := range matches {
		line := 1 + bytes.Count(src[:m[0]], []byte("\n"))
		ctx := joinLiterals(string(src[m[2]:m[3]]))
		source := joinLiterals(string(src[m[4]:m[5]]))
		var comment string
		if m[6] >= 0 {
			comment = joinLiterals(string(src[m[6]:m[7]]))
		}
		if source == "" {
			continue
		}

		loc := ts.Location{File: file, Line: strconv.Itoa(line)}
		c := doc.AddContext(ctx)
		found := false
		for _, msg := range c.Messages {
			if msg.Source == source && msg.Comment == comment {
				msg.Locations = append(msg.Locations, loc)
				found = true
				break
			}
		}
		if !found {
			c.Messages = append(c.Messages, &ts.Message{
				Source:    source,
				Comment:   comment,
				Locations: []ts.Location{loc},
				Type:      trans.StatusUnfinished,
			})
		}
	}
	return len(matches)
}

// ExtractDir walks root and extracts every matching file. Locations are relative to root
// and use forward slashes.
func (e *Extractor) ExtractDir(root string) (*ts.Document, error) {
	doc := ts.New("", "")
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && e.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !e.Matches(path) {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		n := e.ExtractSource(filepath.ToSlash(rel), src, doc)
		log.WithFields(log.Fields{"file": rel, "calls": n}).Debug("extracted")
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "extract")
	}
	return doc, nil
}

// joinLiterals concatenates adjacent string literals into one value.
func joinLiterals(s string) string {
	var b strings.Builder
	for _, lit := range literalRe.FindAllString(s, -1) {
		b.WriteString(unescape(lit[1 : len(lit)-1]))
	}
	return b.String()
}

// unescape handles the backslash escapes common to Python and Go string literals.
// Unknown escapes are kept as written.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"', '\'':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
