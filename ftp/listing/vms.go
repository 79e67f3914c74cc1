package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// vmsBlockSize is the VMS disk block unit; listings report sizes in
// blocks, not bytes.
const vmsBlockSize = 512

// vmsRegexp recognizes OpenVMS listings: versioned name, size in blocks
// (used or used/allocated), date with optional seconds, [owner] or
// [group,owner], and up to four comma-separated protection fields
// (SYSTEM,OWNER,GROUP,WORLD).
//
//	CII-MANUAL.TEX;1  213/216  29-JAN-1996 03:33:12  [ANONYMOU,ANONYMOUS]   (RWED,RWED,RE,)
//	DATA.DIR;1          1/9    2-NOV-1998 04:38:01   [TRAINING,MAURO]       (RWE,RWE,RE,E)
var vmsRegexp = regexp.MustCompile(
	`^(\S+);(\d+)\s+` + // name and version
		`(\d+)(?:/\d+)?\s+` + // blocks used (/allocated)
		`(\d{1,2}-[A-Za-z]+-\d{4}\s+\d{1,2}:\d{2}(?::\d{2})?)\s+` + // date
		`\[([^\]]+)\]\s+` + // owner
		`\(([^)]*)\)\s*$`) // protection

// vmsPerms maps one protection field (e.g. "RWED") onto a permission
// class. D (delete) has no slot in the matrix and is dropped.
func vmsPerms(p *Permissions, a Access, field string) {
	p.Set(a, PermRead, strings.Contains(field, "R"))
	p.Set(a, PermWrite, strings.Contains(field, "W"))
	p.Set(a, PermExecute, strings.Contains(field, "E"))
}

func parseVMSLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	m := vmsRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	ts, err := ResolveTimestamp(m[4], ref, cfg.layoutConfig(FormatVMS))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	blocks, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad block count %q", errNoMatch, m[3])
	}

	entry := &Entry{
		Raw:  line,
		Type: TypeFile,
		Size: blocks * vmsBlockSize,
		Time: ts,
	}

	// Directories are FOO.DIR;1 on the wire; report them as FOO.
	name := m[1]
	if strings.HasSuffix(strings.ToUpper(name), ".DIR") {
		entry.Type = TypeDirectory
		name = name[:len(name)-len(".DIR")]
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", errNoMatch)
	}
	entry.Name = name

	// [owner] or [group,owner].
	if group, owner, ok := strings.Cut(m[5], ","); ok {
		entry.Group = strings.TrimSpace(group)
		entry.User = strings.TrimSpace(owner)
	} else {
		entry.User = strings.TrimSpace(m[5])
	}

	// (SYSTEM,OWNER,GROUP,WORLD); the SYSTEM field is sometimes absent
	// and has no slot in the matrix either way.
	fields := strings.Split(m[6], ",")
	if len(fields) == 4 {
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: bad protection %q", errNoMatch, m[6])
	}
	vmsPerms(&entry.Perms, AccessUser, fields[0])
	vmsPerms(&entry.Perms, AccessGroup, fields[1])
	vmsPerms(&entry.Perms, AccessWorld, fields[2])

	return entry, nil
}
