package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// os2Regexp recognizes the listing of OS/2 FTP servers: size, an optional
// attribute column (where "DIR" marks directories), date, 24-hour time,
// name.
//
//	     0           DIR   04-11-95   16:26  ADDRESS
//	  5000      A          11-08-95   16:52  README
var os2Regexp = regexp.MustCompile(
	`^\s*(\d+)\s+` + // size
		`(?:([A-Z]+)\s+)?` + // attributes / DIR marker
		`(\d{2}-\d{2}-\d{2}\s+\d{1,2}:\d{2})\s+` + // date and time
		`(.+)$`) // name

func parseOS2Line(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := os2Regexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	ts, err := ResolveTimestamp(m[3], ref, cfg.layoutConfig(FormatOS2))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	entry := &Entry{
		Raw:  line,
		Name: m[4],
		Type: TypeFile,
		Time: ts,
	}

	if m[2] == "DIR" {
		entry.Type = TypeDirectory
	} else {
		size, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size %q", errNoMatch, m[1])
		}
		entry.Size = size
	}

	return entry, nil
}
