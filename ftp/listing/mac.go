package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// macRegexp recognizes the listing of old Mac OS servers (NetPresenz and
// friends): a loose ls imitation where directories say "folder" instead
// of carrying a size, and files report resource/data fork numbers before
// the total size.
//
//	drwxrwxr-x               folder   2 May 10  1996 network
//	-------r-----         39 1515  1435     0    490 Oct 17 20:04 houses.gif
var macRegexp = regexp.MustCompile(
	`^([d-])([rwxsStTL-]{9,12})?\s+` + // type and optional mode bits
		`(?:folder\s+\d+|(?:\d+\s+)*(\d+))\s+` + // "folder" + count, or fork numbers + size
		`(\S+\s+\d{1,2}\s+(?:\d{4}|\d{1,2}:\d{2}))\s+` + // date
		`(.+)$`) // name

func parseMacLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := macRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	ts, err := ResolveTimestamp(m[4], ref, cfg.layoutConfig(FormatMac))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	entry := &Entry{
		Raw:  line,
		Name: m[5],
		Time: ts,
	}

	if m[3] == "" || m[1] == "d" {
		entry.Type = TypeDirectory
	} else {
		entry.Type = TypeFile
		size, err := strconv.ParseUint(m[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size %q", errNoMatch, m[3])
		}
		entry.Size = size
	}

	if perms := m[2]; len(perms) == 9 {
		entry.Perms = parsePermString(perms)
	}

	return entry, nil
}
