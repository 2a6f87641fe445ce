package catalog

import (
	"golang.org/x/text/language"
)

// pluralRule maps a count to the index of the numerus form to use.
type pluralRule func(n int) int

func noPlural(n int) int { return 0 }

func oneOther(n int) int {
	if n == 1 {
		return 0
	}
	return 1
}

func zeroOneOther(n int) int {
	if n == 0 || n == 1 {
		return 0
	}
	return 1
}

func slavic(n int) int {
	switch {
	case n%10 == 1 && n%100 != 11:
		return 0
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
		return 1
	}
	return 2
}

func polish(n int) int {
	switch {
	case n == 1:
		return 0
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
		return 1
	}
	return 2
}

func czech(n int) int {
	switch {
	case n == 1:
		return 0
	case n >= 2 && n <= 4:
		return 1
	}
	return 2
}

// Numerus form order follows Qt's numerus rules, which are not CLDR's category order.
var pluralRules = map[string]pluralRule{
	"zh": noPlural, "ja": noPlural, "ko": noPlural, "vi": noPlural, "th": noPlural,
	"id": noPlural, "ms": noPlural, "tr": noPlural,
	"fr": zeroOneOther, "pt-BR": zeroOneOther,
	"ru": slavic, "uk": slavic, "be": slavic, "sr": slavic, "hr": slavic, "bs": slavic,
	"pl": polish,
	"cs": czech, "sk": czech,
}

// pluralFor returns the numerus rule of the given language, defaulting to the
// one/other rule of English and most European languages.
func pluralFor(tag language.Tag) pluralRule {
	base, _ := tag.Base()
	if region, conf := tag.Region(); conf == language.Exact {
		if r, ok := pluralRules[base.String()+"-"+region.String()]; ok {
			return r
		}
	}
	if r, ok := pluralRules[base.String()]; ok {
		return r
	}
	return oneOther
}
