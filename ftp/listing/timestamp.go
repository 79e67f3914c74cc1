package listing

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// recentSlack is how far in the future a short-form date may land before
// the year is rolled back, when lenient future dates are enabled. Without
// leniency the tolerance is zero.
const recentSlack = 24 * time.Hour

// dateParts is the outcome of matching a date string against one layout.
// Only the fields the layout mentioned are meaningful; the has* flags say
// which those are.
type dateParts struct {
	year    int
	hasYear bool
	month   int
	day     int
	hour    int
	minute  int
	second  int
	hasTime bool
	hasSec  bool
}

// layoutInfo describes which calendar fields a layout captures.
type layoutInfo struct {
	hasYear  bool
	hasMonth bool
	hasDay   bool
	hasTime  bool
}

// validateLayout checks a date layout without parsing any text. It reports
// which reference-time tokens the layout carries, and rejects digits that
// are not part of any token: a literal digit in a layout can never match
// the varying text of a real date, so the layout is a mistake.
func validateLayout(layout string) (layoutInfo, error) {
	var info layoutInfo
	for j := 0; j < len(layout); {
		rest := layout[j:]
		switch {
		case strings.HasPrefix(rest, "2006"):
			info.hasYear = true
			j += 4
		case strings.HasPrefix(rest, "06"):
			info.hasYear = true
			j += 2
		case strings.HasPrefix(rest, "01"), strings.HasPrefix(rest, "Jan"):
			info.hasMonth = true
			j += len("01")
			if rest[0] == 'J' {
				j++
			}
		case strings.HasPrefix(rest, "02"), strings.HasPrefix(rest, "_2"):
			info.hasDay = true
			j += 2
		case strings.HasPrefix(rest, "15"), strings.HasPrefix(rest, "03"):
			j += 2
		case strings.HasPrefix(rest, "04"):
			info.hasTime = true
			j += 2
		case strings.HasPrefix(rest, "05"):
			j += 2
		case strings.HasPrefix(rest, "PM"), strings.HasPrefix(rest, "pm"):
			j += 2
		case strings.HasPrefix(rest, "1"):
			info.hasMonth = true
			j++
		case strings.HasPrefix(rest, "2"):
			info.hasDay = true
			j++
		default:
			r, size := utf8.DecodeRuneInString(rest)
			if r >= '0' && r <= '9' {
				return layoutInfo{}, fmt.Errorf("stray digit %q is not a reference-time token", r)
			}
			j += size
		}
	}
	return info, nil
}

// readInt consumes between 1 and maxDigits digits from text at *i.
func readInt(text string, i *int, maxDigits int) (int, error) {
	start := *i
	n := 0
	for *i < len(text) && *i-start < maxDigits && text[*i] >= '0' && text[*i] <= '9' {
		n = n*10 + int(text[*i]-'0')
		*i++
	}
	if *i == start {
		return 0, fmt.Errorf("expected digits at %q", text[start:])
	}
	return n, nil
}

// readMonthToken consumes a run of letters (plus an abbreviation dot) from
// text at *i.
func readMonthToken(text string, i *int) string {
	start := *i
	for *i < len(text) {
		r, size := utf8.DecodeRuneInString(text[*i:])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		*i += size
	}
	return text[start:*i]
}

// parseDateText matches text against a Go reference-time layout, with two
// listing-specific twists: the "Jan" token matches the configured locale's
// month names, and a trailing ":05" seconds token is optional because some
// servers print seconds and some do not. Out-of-range field values are
// rejected here, so a date that matches the shape but claims hour 30 fails
// as a whole.
func parseDateText(text, layout string, months [12]string) (dateParts, error) {
	var p dateParts
	var hour12, sawPM, pm bool
	i := 0

	for j := 0; j < len(layout); {
		rest := layout[j:]

		// Seconds are optional when they are the last thing the layout
		// expects and the text has run out.
		if i >= len(text) && rest == ":05" {
			break
		}

		var err error
		switch {
		case strings.HasPrefix(rest, "2006"):
			p.year, err = readInt(text, &i, 4)
			if err == nil && p.year < 1000 {
				err = fmt.Errorf("short year in %q", text)
			}
			p.hasYear = true
			j += 4
		case strings.HasPrefix(rest, "06"):
			var yy int
			yy, err = readInt(text, &i, 2)
			if yy >= 70 {
				p.year = 1900 + yy
			} else {
				p.year = 2000 + yy
			}
			p.hasYear = true
			j += 2
		case strings.HasPrefix(rest, "01"):
			p.month, err = readInt(text, &i, 2)
			j += 2
		case strings.HasPrefix(rest, "02"):
			p.day, err = readInt(text, &i, 2)
			j += 2
		case strings.HasPrefix(rest, "03"):
			p.hour, err = readInt(text, &i, 2)
			hour12 = true
			j += 2
		case strings.HasPrefix(rest, "04"):
			p.minute, err = readInt(text, &i, 2)
			p.hasTime = true
			j += 2
		case strings.HasPrefix(rest, "05"):
			p.second, err = readInt(text, &i, 2)
			p.hasSec = true
			j += 2
		case strings.HasPrefix(rest, "15"):
			p.hour, err = readInt(text, &i, 2)
			j += 2
		case strings.HasPrefix(rest, "Jan"):
			token := readMonthToken(text, &i)
			p.month = lookupMonth(token, months)
			if p.month == 0 {
				err = fmt.Errorf("unrecognized month %q", token)
			}
			j += 3
		case strings.HasPrefix(rest, "PM"), strings.HasPrefix(rest, "pm"):
			if i+2 <= len(text) {
				switch strings.ToUpper(text[i : i+2]) {
				case "AM":
					sawPM = true
				case "PM":
					sawPM, pm = true, true
				}
			}
			if !sawPM {
				err = fmt.Errorf("expected AM/PM in %q", text)
			} else {
				i += 2
			}
			j += 2
		case strings.HasPrefix(rest, "_2"):
			for i < len(text) && text[i] == ' ' {
				i++
			}
			p.day, err = readInt(text, &i, 2)
			j += 2
		case strings.HasPrefix(rest, "1"):
			p.month, err = readInt(text, &i, 2)
			j++
		case strings.HasPrefix(rest, "2"):
			p.day, err = readInt(text, &i, 2)
			j++
		case rest[0] == ' ':
			if i >= len(text) || text[i] != ' ' {
				err = fmt.Errorf("expected space in %q", text)
			}
			for i < len(text) && text[i] == ' ' {
				i++
			}
			j++
		default:
			r, size := utf8.DecodeRuneInString(rest)
			tr, tsize := utf8.DecodeRuneInString(text[i:])
			if i >= len(text) || tr != r {
				err = fmt.Errorf("expected %q in %q", r, text)
			} else {
				i += tsize
			}
			j += size
		}
		if err != nil {
			return dateParts{}, err
		}
	}

	for i < len(text) && text[i] == ' ' {
		i++
	}
	if i != len(text) {
		return dateParts{}, fmt.Errorf("trailing text %q", text[i:])
	}

	if hour12 {
		if p.hour < 1 || p.hour > 12 {
			return dateParts{}, fmt.Errorf("hour %d out of range", p.hour)
		}
		if pm && p.hour != 12 {
			p.hour += 12
		} else if !pm && p.hour == 12 {
			p.hour = 0
		}
	}

	if p.month < 1 || p.month > 12 {
		return dateParts{}, fmt.Errorf("month %d out of range", p.month)
	}
	if p.day < 1 || p.day > 31 {
		return dateParts{}, fmt.Errorf("day %d out of range", p.day)
	}
	if p.hour < 0 || p.hour > 23 {
		return dateParts{}, fmt.Errorf("hour %d out of range", p.hour)
	}
	if p.minute > 59 {
		return dateParts{}, fmt.Errorf("minute %d out of range", p.minute)
	}
	if p.second > 59 {
		return dateParts{}, fmt.Errorf("second %d out of range", p.second)
	}

	return p, nil
}

// makeDate builds a time in loc and reports whether the requested calendar
// fields survived. time.Date normalizes impossible dates (Feb 30 becomes
// Mar 2), so a mismatch after construction means the source date does not
// exist in that year.
func makeDate(year int, p dateParts, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, time.Month(p.month), p.day, p.hour, p.minute, p.second, 0, loc)
	ok := t.Year() == year && t.Month() == time.Month(p.month) && t.Day() == p.day
	return t, ok
}

// ResolveTimestamp converts a matched date string into a fully qualified
// timestamp using the reference instant ref (normally the moment the
// listing was retrieved).
//
// The text is first tried against the config's recent (year-less) layout.
// Short-form dates resolve to the reference year unless that would place
// the file in the future beyond the tolerance, in which case the year
// before is used: servers only print short-form dates for files they
// recently modified, and never for a future time. The comparison happens
// in the server's time zone, so a server a couple of hours ahead does not
// look like it is reporting future files. A February 29 that lands in a
// non-leap candidate year is a parse failure, never a substituted nearby
// date.
//
// Dates matching the default layout are taken literally. If a custom
// default layout carries no year token, the year defaults to 1970 unless
// the config asks for current-year resolution (WithCurrentYearFallback).
func ResolveTimestamp(text string, ref time.Time, cfg *Config) (Timestamp, error) {
	if cfg == nil {
		return Timestamp{}, fmt.Errorf("listing: nil config")
	}
	text = strings.TrimSpace(text)

	if cfg.recentLayout != "" {
		if p, err := parseDateText(text, cfg.recentLayout, cfg.months); err == nil {
			return resolveRecent(p, ref, cfg)
		}
	}

	if cfg.defaultLayout == "" {
		return Timestamp{}, fmt.Errorf("listing: no date layout configured")
	}
	p, err := parseDateText(text, cfg.defaultLayout, cfg.months)
	if err != nil {
		return Timestamp{}, fmt.Errorf("listing: cannot parse date %q: %w", text, err)
	}

	if !p.hasYear {
		if !cfg.epochYear {
			return resolveRecent(p, ref, cfg)
		}
		p.year = 1970
	}

	t, ok := makeDate(p.year, p, cfg.loc)
	if !ok {
		return Timestamp{}, fmt.Errorf("listing: date %q does not exist in year %d", text, p.year)
	}
	return Timestamp{Time: t, Precision: partsPrecision(p)}, nil
}

// resolveRecent qualifies a year-less date against the reference instant.
func resolveRecent(p dateParts, ref time.Time, cfg *Config) (Timestamp, error) {
	now := ref.In(cfg.loc)
	year := now.Year()

	limit := now
	if cfg.lenient {
		limit = now.Add(recentSlack)
	}

	t, ok := makeDate(year, p, cfg.loc)
	if ok && t.After(limit) {
		year--
		t, ok = makeDate(year, p, cfg.loc)
	}
	if !ok {
		return Timestamp{}, fmt.Errorf("listing: %s %d does not exist in year %d",
			time.Month(p.month), p.day, year)
	}
	return Timestamp{Time: t, Precision: partsPrecision(p)}, nil
}

func partsPrecision(p dateParts) Precision {
	switch {
	case p.hasSec:
		return PrecisionSecond
	case p.hasTime:
		return PrecisionMinute
	default:
		return PrecisionDay
	}
}
