package listing

import (
	"fmt"
	"strings"
	"time"
)

// Format identifies one of the supported listing grammars. The set is
// closed: every format this package can parse has a constant here, and the
// per-line dispatch is an exhaustive switch over it.
type Format int

// Supported listing formats.
const (
	// FormatAuto selects the format from the first line that parses.
	FormatAuto Format = iota
	FormatUnix
	FormatWindows
	FormatOS2
	FormatOS400
	FormatMVS
	FormatNetware
	FormatVMS
	FormatMac
	FormatMLSx
	FormatEPLF
)

// detectionOrder is the priority order used while a Selector is unbound.
// Most distinctive shapes come first so that a line is unlikely to
// coincidentally match the wrong grammar.
var detectionOrder = [...]Format{
	FormatEPLF,
	FormatMLSx,
	FormatUnix,
	FormatWindows,
	FormatVMS,
	FormatNetware,
	FormatOS400,
	FormatMVS,
	FormatOS2,
	FormatMac,
}

// String returns the canonical key for the format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatUnix:
		return "unix"
	case FormatWindows:
		return "windows"
	case FormatOS2:
		return "os/2"
	case FormatOS400:
		return "os/400"
	case FormatMVS:
		return "mvs"
	case FormatNetware:
		return "netware"
	case FormatVMS:
		return "vms"
	case FormatMac:
		return "mac"
	case FormatMLSx:
		return "mlsx"
	case FormatEPLF:
		return "eplf"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps a configuration key to a Format. Recognized keys are the
// String values plus a few aliases seen in the wild ("nt", "win32", "dos",
// "os400", "os2", "aix", "linux").
func ParseFormat(key string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "auto":
		return FormatAuto, nil
	case "unix", "linux", "aix", "freebsd":
		return FormatUnix, nil
	case "windows", "windows_nt", "nt", "win32", "dos":
		return FormatWindows, nil
	case "os/2", "os2":
		return FormatOS2, nil
	case "os/400", "os400":
		return FormatOS400, nil
	case "mvs", "z/os", "zos":
		return FormatMVS, nil
	case "netware":
		return FormatNetware, nil
	case "vms", "openvms":
		return FormatVMS, nil
	case "mac", "macos":
		return FormatMac, nil
	case "mlsx", "mlsd", "mlst":
		return FormatMLSx, nil
	case "eplf":
		return FormatEPLF, nil
	default:
		return FormatAuto, fmt.Errorf("listing: unknown format key %q", key)
	}
}

// parseLine dispatches one line to the grammar for f. FormatAuto never
// parses a line itself; detection is the Selector's job.
func (f Format) parseLine(line string, cfg *Config, ref time.Time) (*Entry, error) {
	switch f {
	case FormatUnix:
		return parseUnixLine(line, cfg, ref)
	case FormatWindows:
		return parseWindowsLine(line, cfg, ref)
	case FormatOS2:
		return parseOS2Line(line, cfg, ref)
	case FormatOS400:
		return parseOS400Line(line, cfg, ref)
	case FormatMVS:
		return parseMVSLine(line, cfg, ref)
	case FormatNetware:
		return parseNetwareLine(line, cfg, ref)
	case FormatVMS:
		return parseVMSLine(line, cfg, ref)
	case FormatMac:
		return parseMacLine(line, cfg, ref)
	case FormatMLSx:
		return parseMLSxLine(line, cfg, ref)
	case FormatEPLF:
		return parseEPLFLine(line, cfg, ref)
	default:
		return nil, errNoMatch
	}
}

// defaultLayouts returns the default and recent date layouts for a format.
// The recent layout is empty for formats that always carry a year.
func (f Format) defaultLayouts() (defaultLayout, recentLayout string) {
	switch f {
	case FormatWindows:
		return "01-02-06 03:04PM", ""
	case FormatOS2:
		return "01-02-06 15:04", ""
	case FormatOS400:
		return "06/01/02 15:04:05", ""
	case FormatMVS:
		return "2006/01/02", ""
	case FormatVMS:
		return "_2-Jan-2006 15:04:05", ""
	case FormatMLSx, FormatEPLF:
		return "", ""
	default:
		// Unix, NetWare, Mac and autodetection share the ls shapes.
		return "Jan _2 2006", "Jan _2 15:04"
	}
}
