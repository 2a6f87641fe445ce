package ts

import (
	"fmt"
	"strings"

	"github.com/petert82/go-linguist-api/trans"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Problem is a single structural issue found by Validate.
type Problem struct {
	Severity Severity
	Key      trans.Key
	// Message index within its context, -1 for document level problems.
	Index  int
	Reason string
}

func (p Problem) String() string {
	if p.Index < 0 {
		return fmt.Sprintf("%v: %v", p.Severity, p.Reason)
	}
	return fmt.Sprintf("%v: %v #%v: %v", p.Severity, p.Key.Context, p.Index, p.Reason)
}

// ValidationError is returned by Check when the document has error level problems.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("ts: %v problem(s): %v", len(e.Problems), strings.Join(msgs, "; "))
}

// Validate reports structural problems: empty sources, duplicate (context, source,
// comment) triples, unknown translation types and misplaced numerus forms.
func (d *Document) Validate() (problems []Problem) {
	add := func(sev Severity, k trans.Key, idx int, format string, args ...interface{}) {
		problems = append(problems, Problem{Severity: sev, Key: k, Index: idx, Reason: fmt.Sprintf(format, args...)})
	}

	if d.Language == "" {
		add(SeverityWarning, trans.Key{}, -1, "missing language attribute")
	}

	seen := make(map[trans.Key]int)
	for _, c := range d.Contexts {
		if c.Name == "" {
			add(SeverityError, trans.Key{}, -1, "context without a name")
		}
		for i, m := range c.Messages {
			k := m.Key(c.Name)
			if m.Source == "" {
				add(SeverityError, k, i, "empty source")
			}
			if n, dup := seen[k]; dup {
				add(SeverityError, k, i, "duplicate of message #%v %v", n, k)
			} else {
				seen[k] = i
			}
			if !m.Type.Valid() {
				add(SeverityError, k, i, "unknown translation type %q", m.Type)
			}
			if !m.Numerus && len(m.NumerusForms) > 0 {
				add(SeverityError, k, i, "numerus forms on a message without numerus=\"yes\"")
			}
			if m.Numerus && len(m.NumerusForms) == 0 {
				add(SeverityWarning, k, i, "numerus message without numerus forms")
			}
			if m.Type == trans.StatusFinished && m.Numerus && !allFilled(m.NumerusForms) {
				add(SeverityWarning, k, i, "finished numerus message with empty forms")
			}
		}
	}

	return problems
}

func allFilled(forms []string) bool {
	for _, f := range forms {
		if f == "" {
			return false
		}
	}
	return len(forms) > 0
}

// Check returns a *ValidationError holding the error level problems, or nil.
func (d *Document) Check() error {
	var errs []Problem
	for _, p := range d.Validate() {
		if p.Severity == SeverityError {
			errs = append(errs, p)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Problems: errs}
}
