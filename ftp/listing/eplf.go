package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseEPLFLine handles "Easily Parsed LIST Format" lines: a leading '+',
// comma-separated facts, then a tab (or the last comma's trailing space)
// and the name. The facts of interest are r (file), / (directory),
// s<size> and m<unix-mtime>.
func parseEPLFLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	rest, ok := strings.CutPrefix(line, "+")
	if !ok {
		return nil, errNoMatch
	}

	facts, name, ok := strings.Cut(rest, "\t")
	if !ok {
		// Some servers separate the name with ",<space>" instead of a tab.
		if facts, name, ok = strings.Cut(rest, " "); ok {
			facts = strings.TrimSuffix(facts, ",")
		}
	}
	if !ok || name == "" {
		return nil, errNoMatch
	}

	entry := &Entry{
		Raw:  line,
		Name: name,
		Type: TypeUnknown,
	}

	for fact := range strings.SplitSeq(facts, ",") {
		if fact == "" {
			continue
		}
		switch fact[0] {
		case 'r':
			entry.Type = TypeFile
		case '/':
			entry.Type = TypeDirectory
		case 's':
			size, err := strconv.ParseUint(fact[1:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad size fact %q", errNoMatch, fact)
			}
			entry.Size = size
		case 'm':
			secs, err := strconv.ParseInt(fact[1:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad mtime fact %q", errNoMatch, fact)
			}
			entry.Time = Timestamp{
				Time:      time.Unix(secs, 0).UTC(),
				Precision: PrecisionSecond,
			}
		}
	}

	if entry.Type == TypeUnknown {
		return nil, fmt.Errorf("%w: neither file nor directory fact", errNoMatch)
	}
	return entry, nil
}
