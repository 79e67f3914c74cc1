package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseMLSxLine handles machine-readable MLSD/MLST lines (RFC 3659): a
// run of key=value facts separated by semicolons, then a single space,
// then the name. Fact keys are case-insensitive. Unknown facts are
// ignored so servers can extend the set freely, but at least one standard
// fact must be present: key=value alone is too weak a shape, and a stray
// header could otherwise bind autodetection to this grammar.
func parseMLSxLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	facts, name, ok := strings.Cut(line, " ")
	if !ok || name == "" || !strings.Contains(facts, "=") {
		return nil, errNoMatch
	}

	entry := &Entry{
		Raw:  line,
		Name: name,
		Type: TypeUnknown,
	}

	standard := 0
	for fact := range strings.SplitSeq(facts, ";") {
		if fact == "" {
			continue
		}
		key, value, ok := strings.Cut(fact, "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed fact %q", errNoMatch, fact)
		}
		key = strings.ToLower(key)
		switch key {
		case "type", "size", "sizd", "modify", "create", "perm", "unique",
			"lang", "media-type", "charset",
			"unix.mode", "unix.owner", "unix.uid", "unix.group", "unix.gid":
			standard++
		}

		switch key {
		case "type":
			switch v := strings.ToLower(value); {
			case v == "file":
				entry.Type = TypeFile
			case v == "dir" || v == "cdir" || v == "pdir":
				entry.Type = TypeDirectory
			case strings.HasPrefix(v, "os.unix=slink"):
				entry.Type = TypeSymlink
				if _, target, ok := strings.Cut(value, ":"); ok {
					entry.Target = target
				}
			}
		case "size", "sizd":
			size, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad size fact %q", errNoMatch, value)
			}
			entry.Size = size
		case "modify":
			ts, err := parseMLSxTime(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", errNoMatch, err)
			}
			entry.Time = ts
		case "unix.mode":
			mode, err := strconv.ParseUint(value, 8, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: bad mode fact %q", errNoMatch, value)
			}
			entry.Perms = permsFromMode(uint32(mode))
		case "unix.owner", "unix.uid":
			if entry.User == "" || key == "unix.owner" {
				entry.User = value
			}
		case "unix.group", "unix.gid":
			if entry.Group == "" || key == "unix.group" {
				entry.Group = value
			}
		}
	}

	if standard == 0 {
		return nil, fmt.Errorf("%w: no standard facts in %q", errNoMatch, facts)
	}

	return entry, nil
}

// parseMLSxTime decodes a time-val: YYYYMMDDHHMMSS with an optional
// fractional part, always UTC.
func parseMLSxTime(value string) (Timestamp, error) {
	base, frac, hasFrac := strings.Cut(value, ".")
	t, err := time.Parse("20060102150405", base)
	if err != nil {
		return Timestamp{}, fmt.Errorf("bad modify fact %q", value)
	}

	ts := Timestamp{Time: t, Precision: PrecisionSecond}
	if hasFrac {
		if frac == "" {
			return Timestamp{}, fmt.Errorf("bad modify fact %q", value)
		}
		// Only the first three fractional digits are kept.
		millis := 0
		for i := range 3 {
			millis *= 10
			if i < len(frac) {
				d := frac[i]
				if d < '0' || d > '9' {
					return Timestamp{}, fmt.Errorf("bad modify fact %q", value)
				}
				millis += int(d - '0')
			}
		}
		ts.Time = t.Add(time.Duration(millis) * time.Millisecond)
		ts.Precision = PrecisionMillisecond
	}
	return ts, nil
}

// permsFromMode expands the low nine bits of a numeric mode into the
// permission matrix.
func permsFromMode(mode uint32) Permissions {
	var p Permissions
	classes := [3]Access{AccessUser, AccessGroup, AccessWorld}
	for i, a := range classes {
		shift := uint(6 - 3*i)
		bits := mode >> shift
		p.Set(a, PermRead, bits&4 != 0)
		p.Set(a, PermWrite, bits&2 != 0)
		p.Set(a, PermExecute, bits&1 != 0)
	}
	return p
}
