package listing

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// errNoMatch is the internal signal that a line does not belong to a
// grammar: wrong shape, an out-of-range field value, or an unparsable
// date. All three are the same outcome for callers — no entry for this
// line.
var errNoMatch = errors.New("listing: line does not match format")

// ErrNoMatchingFormat is returned when autodetection exhausts a listing
// without any grammar matching any line. It is distinct from per-line
// skips: without a bound format the whole listing is unparsable.
var ErrNoMatchingFormat = errors.New("listing: no format matched any line")

// Selector is the format-binding state machine for one listing. It starts
// unbound; the first line that any grammar accepts binds the selector to
// that grammar, and every later line is parsed only against it. Listings
// from one server session are homogeneous, so re-detecting per line would
// waste work and could mis-parse a line that coincidentally matches a
// different grammar.
//
// A Selector is cheap and carries per-listing state; create one per
// listing and do not share it between goroutines. The Config it reads is
// immutable and safe to share.
type Selector struct {
	cfg    *Config
	ref    time.Time
	logger *slog.Logger

	format Format
	bound  bool

	skipped []string
}

// NewSelector creates a selector for one listing. ref is the reference
// instant used to resolve short-form dates, normally the time the listing
// was retrieved. If the config names a specific format the selector is
// bound to it immediately, bypassing detection.
func NewSelector(cfg *Config, ref time.Time) (*Selector, error) {
	if cfg == nil {
		var err error
		cfg, err = NewConfig(FormatAuto)
		if err != nil {
			return nil, err
		}
	}
	s := &Selector{
		cfg:    cfg,
		ref:    ref,
		logger: slog.Default(),
	}
	if cfg.format != FormatAuto {
		s.format = cfg.format
		s.bound = true
	}
	return s, nil
}

// SetLogger replaces the logger used for skipped-line diagnostics.
func (s *Selector) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Format returns the bound format. ok is false while the selector has not
// committed to one yet.
func (s *Selector) Format() (format Format, ok bool) {
	return s.format, s.bound
}

// Skipped returns the raw lines that produced no entry, in encounter
// order. Headers like "total 1234" end up here; so do genuinely malformed
// lines, which is what makes this useful when debugging a server's output.
func (s *Selector) Skipped() []string {
	return s.skipped
}

// ParseLine parses a single listing line. While unbound it tries each
// format in detection order and commits to the first that accepts the
// line. A false return means the line produced no entry, which is a
// normal, expected outcome for non-entry lines.
func (s *Selector) ParseLine(line string) (*Entry, bool) {
	trimmed := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(trimmed) == "" {
		return nil, false
	}

	if s.bound {
		entry, err := s.format.parseLine(trimmed, s.cfg, s.ref)
		if err != nil {
			s.skip(trimmed, s.format, err)
			return nil, false
		}
		return entry, true
	}

	for _, f := range detectionOrder {
		entry, err := f.parseLine(trimmed, s.cfg, s.ref)
		if err == nil {
			s.format = f
			s.bound = true
			s.logger.Debug("bound listing format", "format", f.String(), "raw", trimmed)
			return entry, true
		}
	}

	s.skip(trimmed, FormatAuto, errNoMatch)
	return nil, false
}

func (s *Selector) skip(line string, f Format, err error) {
	s.skipped = append(s.skipped, line)
	s.logger.Debug("skipping unparsable listing line", "format", f.String(), "raw", line, "error", err)
}

// Parse parses a whole listing. Lines that match no entry shape (headers,
// summaries, malformed output) are skipped silently; they remain available
// on a Selector if diagnostics are needed. The error is non-nil only when
// the listing contained lines but no format could be bound at all.
func Parse(lines []string, cfg *Config, ref time.Time) ([]*Entry, error) {
	sel, err := NewSelector(cfg, ref)
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	sawContent := false
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sawContent = true
		}
		if entry, ok := sel.ParseLine(line); ok {
			entries = append(entries, entry)
		}
	}

	if !sel.bound && sawContent {
		return nil, ErrNoMatchingFormat
	}
	return entries, nil
}
