package listing

import (
	"testing"
	"time"
)

func TestParseMLSxLine(t *testing.T) {
	cfg := utcConfig(t, FormatMLSx)

	tests := []struct {
		name           string
		line           string
		expectedName   string
		expectedType   EntryType
		expectedSize   uint64
		expectedUser   string
		expectedGroup  string
		expectedPerms  string
		expectedTarget string
		expectedTime   time.Time
		expectedPrec   Precision
	}{
		{
			name:         "file with second precision",
			line:         "type=file;size=1024;modify=20010614185840; rfc3659.txt",
			expectedName: "rfc3659.txt",
			expectedType: TypeFile,
			expectedSize: 1024,
			expectedTime: time.Date(2001, time.June, 14, 18, 58, 40, 0, time.UTC),
			expectedPrec: PrecisionSecond,
		},
		{
			name:         "millisecond fraction",
			line:         "type=file;size=8;modify=20010614185840.123; frac.bin",
			expectedName: "frac.bin",
			expectedType: TypeFile,
			expectedSize: 8,
			expectedTime: time.Date(2001, time.June, 14, 18, 58, 40, 123000000, time.UTC),
			expectedPrec: PrecisionMillisecond,
		},
		{
			name:         "short fraction is padded not truncated",
			line:         "type=file;modify=20010614185840.5; half.bin",
			expectedName: "half.bin",
			expectedType: TypeFile,
			expectedTime: time.Date(2001, time.June, 14, 18, 58, 40, 500000000, time.UTC),
			expectedPrec: PrecisionMillisecond,
		},
		{
			name:         "directory",
			line:         "type=dir;modify=20010214155600; incoming",
			expectedName: "incoming",
			expectedType: TypeDirectory,
			expectedTime: time.Date(2001, time.February, 14, 15, 56, 0, 0, time.UTC),
			expectedPrec: PrecisionSecond,
		},
		{
			name:         "current directory marker",
			line:         "type=cdir;modify=20010214155600; .",
			expectedName: ".",
			expectedType: TypeDirectory,
			expectedTime: time.Date(2001, time.February, 14, 15, 56, 0, 0, time.UTC),
			expectedPrec: PrecisionSecond,
		},
		{
			name:           "unix symlink extension",
			line:           "type=OS.unix=slink:/usr/share/doc;size=4; doc",
			expectedName:   "doc",
			expectedType:   TypeSymlink,
			expectedSize:   4,
			expectedTarget: "/usr/share/doc",
		},
		{
			name:          "ownership and mode facts",
			line:          "type=file;size=512;unix.mode=0644;unix.owner=alice;unix.group=staff; data.bin",
			expectedName:  "data.bin",
			expectedType:  TypeFile,
			expectedSize:  512,
			expectedUser:  "alice",
			expectedGroup: "staff",
			expectedPerms: "rw-r--r--",
		},
		{
			name:          "uid and gid fall back when no names",
			line:          "type=file;unix.uid=1000;unix.gid=100; id.bin",
			expectedName:  "id.bin",
			expectedType:  TypeFile,
			expectedUser:  "1000",
			expectedGroup: "100",
		},
		{
			name:         "case-insensitive fact keys",
			line:         "Type=file;Size=99;Modify=20010614185840; upper.txt",
			expectedName: "upper.txt",
			expectedType: TypeFile,
			expectedSize: 99,
			expectedTime: time.Date(2001, time.June, 14, 18, 58, 40, 0, time.UTC),
			expectedPrec: PrecisionSecond,
		},
		{
			name:         "unsurfaced facts are ignored",
			line:         "type=file;size=7;perm=adfrw;unique=AA06U4BA; odd.txt",
			expectedName: "odd.txt",
			expectedType: TypeFile,
			expectedSize: 7,
		},
		{
			name:         "standard facts alone are enough",
			line:         "perm=flcdmpe;unique=AA06U4BB; crates",
			expectedName: "crates",
			expectedType: TypeUnknown,
		},
		{
			name:         "name with spaces",
			line:         "type=file;size=70; annual report.txt",
			expectedName: "annual report.txt",
			expectedType: TypeFile,
			expectedSize: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := parseOne(t, cfg, tt.line)
			if entry.Name != tt.expectedName {
				t.Errorf("Name = %q, want %q", entry.Name, tt.expectedName)
			}
			if entry.Type != tt.expectedType {
				t.Errorf("Type = %v, want %v", entry.Type, tt.expectedType)
			}
			if entry.Size != tt.expectedSize {
				t.Errorf("Size = %d, want %d", entry.Size, tt.expectedSize)
			}
			if entry.User != tt.expectedUser {
				t.Errorf("User = %q, want %q", entry.User, tt.expectedUser)
			}
			if entry.Group != tt.expectedGroup {
				t.Errorf("Group = %q, want %q", entry.Group, tt.expectedGroup)
			}
			if tt.expectedPerms != "" {
				if got := entry.Perms.String(); got != tt.expectedPerms {
					t.Errorf("Perms = %q, want %q", got, tt.expectedPerms)
				}
			}
			if entry.Target != tt.expectedTarget {
				t.Errorf("Target = %q, want %q", entry.Target, tt.expectedTarget)
			}
			if tt.expectedTime.IsZero() {
				if !entry.Time.IsZero() {
					t.Errorf("Time = %v, want zero", entry.Time.Time)
				}
			} else {
				if !entry.Time.Time.Equal(tt.expectedTime) {
					t.Errorf("Time = %v, want %v", entry.Time.Time, tt.expectedTime)
				}
				if entry.Time.Precision != tt.expectedPrec {
					t.Errorf("Precision = %v, want %v", entry.Time.Precision, tt.expectedPrec)
				}
			}
		})
	}
}

func TestParseMLSxLineRejects(t *testing.T) {
	cfg := utcConfig(t, FormatMLSx)

	lines := []string{
		"type=file;modify=2001; short-modify.txt",
		"type=file;modify=20010614185840.; empty-fraction.txt",
		"type=file;size=abc; bad-size.txt",
		"type=file;garbagefact; no-equals.txt",
		"no facts at all",
		"foo=bar baz",
		"x-made-up=1;vendor.thing=2; only-extensions.txt",
	}

	for _, line := range lines {
		sel, err := NewSelector(cfg, refNoon)
		if err != nil {
			t.Fatalf("NewSelector: %v", err)
		}
		if entry, ok := sel.ParseLine(line); ok {
			t.Errorf("line %q parsed unexpectedly: %+v", line, entry)
		}
	}
}
