package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// unixRegexp recognizes ls -l output, the most common LIST shape. The
// trailing name is everything after the date, so embedded spaces survive.
// The optional group column covers the 8-field variant some servers emit;
// it grows lazily toward the size column so group names with a single
// embedded space ("domain users") still match. The "maj, min" size
// alternative covers device nodes.
var unixRegexp = regexp.MustCompile(
	`^([-bcdelfmpsS])` + // type
		`([-r][-w][-xsStTL][-r][-w][-xsStTL][-r][-w][-xsStTL])[.+@]?` + // mode bits, optional ACL/xattr marker
		`\s+(\d+)` + // hard links
		`\s+(\S+)` + // user
		`(?:\s+(\S+(?:\s\S+)*?))?` + // group (absent in 8-field listings)
		`\s+(\d+(?:,\s*\d+)?)` + // size, or "major, minor" for devices
		`\s+(\S+\s+\d{1,2}\s+(?:\d{4}|\d{1,2}:\d{2}))` + // date
		`\s+(.+)$`) // name

// parsePermString fills a permission matrix from a 9-character mode
// string. The setuid/sticky letters s and t imply an execute bit; their
// uppercase forms do not.
func parsePermString(s string) Permissions {
	var p Permissions
	for a := range 3 {
		off := a * 3
		p[a][PermRead] = s[off] == 'r'
		p[a][PermWrite] = s[off+1] == 'w'
		switch s[off+2] {
		case 'x', 's', 't':
			p[a][PermExecute] = true
		}
	}
	return p
}

func unixEntryType(c byte) EntryType {
	switch c {
	case 'd':
		return TypeDirectory
	case 'l':
		return TypeSymlink
	case '-', 'f':
		return TypeFile
	default:
		// Devices, pipes, sockets and friends.
		return TypeUnknown
	}
}

func parseUnixLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := unixRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	ts, err := ResolveTimestamp(m[7], ref, cfg.layoutConfig(FormatUnix))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	entry := &Entry{
		Raw:   line,
		Type:  unixEntryType(m[1][0]),
		User:  m[4],
		Group: m[5],
		Perms: parsePermString(m[2]),
		Time:  ts,
	}

	links, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad link count %q", errNoMatch, m[3])
	}
	entry.HardLinks = uint(links)

	// Device nodes report "major, minor" instead of a size.
	if !strings.Contains(m[6], ",") {
		size, err := strconv.ParseUint(m[6], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size %q", errNoMatch, m[6])
		}
		entry.Size = size
	}

	name := m[8]
	if entry.Type == TypeSymlink {
		if before, after, ok := cutLinkTarget(name); ok {
			name, entry.Target = before, after
		}
	}
	entry.Name = name

	return entry, nil
}

// cutLinkTarget splits "name -> target" on the arrow separator.
func cutLinkTarget(s string) (name, target string, ok bool) {
	return strings.Cut(s, " -> ")
}
