package listing

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// monthTables holds abbreviated month names for the server languages this
// package knows about. Servers print months in their own locale; the table
// for the configured language is threaded through Config so concurrent
// parses never depend on process-global locale state.
var monthTables = map[language.Tag][12]string{
	language.English:    {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	language.German:     {"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
	language.French:     {"janv", "févr", "mars", "avr", "mai", "juin", "juil", "août", "sept", "oct", "nov", "déc"},
	language.Spanish:    {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
	language.Italian:    {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	language.Portuguese: {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	language.Dutch:      {"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"},
	language.Danish:     {"jan", "feb", "mar", "apr", "maj", "jun", "jul", "aug", "sep", "okt", "nov", "dec"},
	language.Swedish:    {"jan", "feb", "mar", "apr", "maj", "jun", "jul", "aug", "sep", "okt", "nov", "dec"},
}

// monthLangs fixes the matcher order. English comes first so it is the
// fallback for unsupported languages.
var monthLangs = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Portuguese,
	language.Dutch,
	language.Danish,
	language.Swedish,
}

var monthMatcher = language.NewMatcher(monthLangs)

// monthsForLanguage resolves a BCP-47 language code ("en", "de", "fr-CA")
// to the month-name table of the best-matching supported language.
func monthsForLanguage(lang string) ([12]string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return [12]string{}, fmt.Errorf("listing: invalid language %q: %w", lang, err)
	}
	_, index, conf := monthMatcher.Match(tag)
	if conf == language.No {
		return [12]string{}, fmt.Errorf("listing: unsupported server language %q", lang)
	}
	return monthTables[monthLangs[index]], nil
}

// normalizeMonthToken lowercases a month token and strips a trailing
// abbreviation dot so "SEPT.", "Sept" and "sept" all compare equal.
func normalizeMonthToken(s string) string {
	return strings.TrimSuffix(strings.ToLower(s), ".")
}

// lookupMonth returns the 1-based month number for a token, or 0 when the
// token names no month in the table. Matching is case-insensitive and
// tolerates an abbreviation dot.
func lookupMonth(token string, months [12]string) int {
	norm := normalizeMonthToken(token)
	if norm == "" {
		return 0
	}
	for i, name := range months {
		if normalizeMonthToken(name) == norm {
			return i + 1
		}
	}
	return 0
}
