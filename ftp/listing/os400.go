package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// os400Regexp recognizes the IFS listing of OS/400 (IBM i) servers. The
// object type token (*STMF, *DIR, *FILE, *MEM, ...) is the anchor; the
// size and date columns are optional because *MEM entries omit them.
//
//	PEP              4019 04/03/18 18:58:16 *STMF      einladung.zip
//	QSYS            77888 02/05/12 14:18:23 *DIR       QSYS.LIB/
//	ZAIDAJ                                  *MEM       DETAIL.FILE/POLICY.MBR
var os400Regexp = regexp.MustCompile(
	`^(\S+)\s+` + // owner
		`(?:(\d+)\s+)?` + // size
		`(?:(\d{2}/\d{2}/\d{2}\s+\d{1,2}:\d{2}:\d{2})\s+)?` + // date and time
		`(\*[A-Z]+)\s+` + // object type
		`(.+?)/?\s*$`) // name, trailing slash dropped

func os400EntryType(token string) EntryType {
	switch token {
	case "*DIR", "*DDIR", "*LIB", "*FLR":
		return TypeDirectory
	case "*STMF", "*DSTMF", "*FILE", "*MEM":
		return TypeFile
	default:
		return TypeUnknown
	}
}

func parseOS400Line(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := os400Regexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	name := strings.TrimSuffix(m[5], "/")
	if name == "" {
		return nil, fmt.Errorf("%w: empty object name", errNoMatch)
	}

	entry := &Entry{
		Raw:  line,
		User: m[1],
		Type: os400EntryType(m[4]),
		Name: name,
	}

	if m[2] != "" {
		size, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size %q", errNoMatch, m[2])
		}
		entry.Size = size
	}

	if m[3] != "" {
		ts, err := ResolveTimestamp(m[3], ref, cfg.layoutConfig(FormatOS400))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errNoMatch, err)
		}
		entry.Time = ts
	}

	return entry, nil
}
