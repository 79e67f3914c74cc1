package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// windowsRegexp recognizes the DIR-style listing of Windows/NT FTP
// servers: date, 12-hour time, "<DIR>" or a size, then the name. Both
// separator styles and 2- or 4-digit years appear in the wild.
//
//	09-24-24  10:30AM       <DIR>          logger
//	12-14-23  12:22PM           1037794 large-document.pdf
var windowsRegexp = regexp.MustCompile(
	`^(\d{2})[-/](\d{2})[-/](\d{2}|\d{4})` + // month, day, year
		`\s+(\d{1,2}:\d{2}[AP]M)` + // 12-hour time
		`\s+(<DIR>|\d+)` + // directory marker or size
		`\s+(.+)$`) // name

func parseWindowsLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := windowsRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	lc := cfg.layoutConfig(FormatWindows)
	if len(m[3]) == 4 && !lc.layoutsSet {
		lc = lc.withDefaultLayout("01-02-2006 03:04PM")
	}
	dateText := fmt.Sprintf("%s-%s-%s %s", m[1], m[2], m[3], m[4])
	ts, err := ResolveTimestamp(dateText, ref, lc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	entry := &Entry{
		Raw:  line,
		Name: m[6],
		Time: ts,
	}

	if m[5] == "<DIR>" {
		entry.Type = TypeDirectory
	} else {
		size, err := strconv.ParseUint(m[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size %q", errNoMatch, m[5])
		}
		entry.Type = TypeFile
		entry.Size = size
	}

	return entry, nil
}
