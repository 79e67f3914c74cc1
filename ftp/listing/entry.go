package listing

import (
	"strings"
	"time"
)

// EntryType describes the kind of filesystem object a listing line refers to.
type EntryType int

// The entry types a listing line can resolve to. Lines describing objects
// with no counterpart in this set (device nodes, pipes, sockets) map to
// TypeUnknown.
const (
	TypeUnknown EntryType = iota
	TypeFile
	TypeDirectory
	TypeSymlink
)

// String returns a short lowercase name for the entry type.
func (t EntryType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDirectory:
		return "dir"
	case TypeSymlink:
		return "link"
	default:
		return "unknown"
	}
}

// Access selects one of the three permission classes of an entry.
type Access int

// Permission classes, in the order they appear in a Unix mode string.
const (
	AccessUser Access = iota
	AccessGroup
	AccessWorld
)

// Perm selects one of the three permission bits within a class.
type Perm int

// Permission bits.
const (
	PermRead Perm = iota
	PermWrite
	PermExecute
)

// Permissions is a 3x3 matrix of permission bits: {user, group, world} x
// {read, write, execute}. The zero value (all false) means "no permission
// bits known" and is a legitimate state for formats that carry none.
type Permissions [3][3]bool

// Has reports whether the given class holds the given permission.
func (p Permissions) Has(a Access, perm Perm) bool {
	return p[a][perm]
}

// Set sets or clears one permission bit.
func (p *Permissions) Set(a Access, perm Perm, v bool) {
	p[a][perm] = v
}

// String renders the matrix in ls -l notation, e.g. "rwxr-x---".
func (p Permissions) String() string {
	var b strings.Builder
	chars := [3]byte{'r', 'w', 'x'}
	for a := range 3 {
		for i := range 3 {
			if p[a][i] {
				b.WriteByte(chars[i])
			} else {
				b.WriteByte('-')
			}
		}
	}
	return b.String()
}

// Precision names the finest calendar unit actually derivable from the
// source text of a timestamp. Fields finer than the precision are left at
// their zero defaults, not invented.
type Precision int

// Precisions, coarsest first.
const (
	PrecisionYear Precision = iota
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
	PrecisionMillisecond
)

// String returns the name of the precision unit.
func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionHour:
		return "hour"
	case PrecisionMinute:
		return "minute"
	case PrecisionSecond:
		return "second"
	case PrecisionMillisecond:
		return "millisecond"
	default:
		return "unknown"
	}
}

// Timestamp is a calendar value tagged with the precision actually known
// from the listing text. The zero value means "no timestamp in the source".
type Timestamp struct {
	Time      time.Time
	Precision Precision
}

// IsZero reports whether the timestamp carries no value at all.
func (ts Timestamp) IsZero() bool {
	return ts.Time.IsZero()
}

// Format renders the timestamp only down to its known precision, so a
// minute-precision time never prints fabricated seconds.
func (ts Timestamp) Format() string {
	if ts.IsZero() {
		return ""
	}
	switch ts.Precision {
	case PrecisionYear:
		return ts.Time.Format("2006")
	case PrecisionMonth:
		return ts.Time.Format("Jan 2006")
	case PrecisionDay:
		return ts.Time.Format("Jan _2 2006")
	case PrecisionHour:
		return ts.Time.Format("Jan _2 2006 15h")
	case PrecisionMinute:
		return ts.Time.Format("Jan _2 2006 15:04")
	case PrecisionSecond:
		return ts.Time.Format("Jan _2 2006 15:04:05")
	default:
		return ts.Time.Format("Jan _2 2006 15:04:05.000")
	}
}

// Entry is the normalized result of parsing one listing line.
type Entry struct {
	// Name is the file or directory name. It may contain embedded spaces.
	Name string

	// Raw is the original unparsed line, retained for diagnostics.
	Raw string

	// Type is the entry type.
	Type EntryType

	// Size is the size in bytes; 0 for directories and for formats that
	// do not report one.
	Size uint64

	// User and Group hold ownership information. Empty when the format
	// carries none (e.g. Windows/NT).
	User  string
	Group string

	// HardLinks is the hard link count; 0 when not applicable.
	HardLinks uint

	// Perms is the permission matrix. All-false means no bits known.
	Perms Permissions

	// Target is the symbolic link target, empty for non-links.
	Target string

	// Time is the modification timestamp with its precision marker.
	Time Timestamp
}
