package listing

import (
	"fmt"
	"regexp"
	"time"
)

// MVS dataset listings have a column header line and one line per dataset.
// The dataset organization column decides the type: partitioned datasets
// (PO, PO-E) behave like directories of members, everything else like a
// file. Migrated and offline datasets drop most columns.
//
//	Volume Unit    Referred Ext Used Recfm Lrecl BlkSz Dsorg Dsname
//	B10142 3390   2006/03/20  2   31  F       80    80  PS  MDI.OKL.WORK
//	Migrated                                                HLQ.DATA.SET
//	ARCIVE Not Direct Access Device                         HLQ.OFFLINE.SET
var (
	mvsDatasetRegexp = regexp.MustCompile(
		`^(\S+)\s+\S+\s+` + // volume, unit
			`(\d{4}/\d{2}/\d{2})\s+` + // referred date
			`\d+\s+\d+\s+\S+\s+\d+\s+\d+\s+` + // ext, used, recfm, lrecl, blksz
			`(PS|PO|PO-E|DA|VSAM)\s+` + // dsorg
			`(\S+)\s*$`) // dsname

	mvsMigratedRegexp = regexp.MustCompile(`^Migrated\s+(\S+)\s*$`)
	mvsOfflineRegexp  = regexp.MustCompile(`^\S+\s+Not Direct Access Device\s+(\S+)\s*$`)
)

func parseMVSLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	if m := mvsMigratedRegexp.FindStringSubmatch(line); m != nil {
		return &Entry{Raw: line, Name: m[1], Type: TypeFile}, nil
	}
	if m := mvsOfflineRegexp.FindStringSubmatch(line); m != nil {
		return &Entry{Raw: line, Name: m[1], Type: TypeFile}, nil
	}

	m := mvsDatasetRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, errNoMatch
	}

	ts, err := ResolveTimestamp(m[2], ref, cfg.layoutConfig(FormatMVS))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNoMatch, err)
	}

	entry := &Entry{
		Raw:  line,
		Name: m[4],
		Time: ts,
	}
	switch m[3] {
	case "PO", "PO-E":
		entry.Type = TypeDirectory
	default:
		entry.Type = TypeFile
	}

	return entry, nil
}
