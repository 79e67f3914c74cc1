package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// netwareRegexp recognizes Novell NetWare listings. The bracketed rights
// string carries NetWare's own flags (SRWCEAFM); only R and W map onto
// the permission matrix, for the owner class. Some servers insert a link
// count before the owner.
//
//	d [R----F--] jsmith                 512 Jan 16 18:53    login
//	- [R----F--] 1 jsmith               362 Aug 28 23:32    login.bat
var netwareRegexp = regexp.MustCompile(
	`^(d|-)\s+` + // type
		`\[([-A-Z]{8})\]\s+` + // rights
		`(?:(\d+)\s+)?` + // link count (optional)
		`(\S+)\s+` + // owner
		`(\d+)\s+` + // size
		`(\S+\s+\d{1,2}\s+(?:\d{4}|\d{1,2}:\d{2}))\s+` + // date
		`(.+)$`) // name

func parseNetwareLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := netwareRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	ts, err := ResolveTimestamp(m[6], ref, cfg.layoutConfig(FormatNetware))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	entry := &Entry{
		Raw:  line,
		Name: m[7],
		User: m[4],
		Type: TypeFile,
		Time: ts,
	}
	if m[1] == "d" {
		entry.Type = TypeDirectory
	}

	size, err := strconv.ParseUint(m[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad size %q", errNoMatch, m[5])
	}
	entry.Size = size

	if m[3] != "" {
		links, err := strconv.ParseUint(m[3], 10, 32)
		if err == nil {
			entry.HardLinks = uint(links)
		}
	}

	rights := m[2]
	entry.Perms.Set(AccessUser, PermRead, strings.Contains(rights, "R"))
	entry.Perms.Set(AccessUser, PermWrite, strings.Contains(rights, "W"))

	return entry, nil
}
