package listing

import (
	"fmt"
	"time"
)

// Config holds the per-session parsing configuration: the format hint, date
// layouts, the server's language and time zone, and the future-date
// tolerance. A Config is built once by NewConfig, validated there, and is
// read-only afterwards, so one Config may be shared by any number of
// concurrent parses.
type Config struct {
	format Format

	// defaultLayout parses absolute dates (with a year); recentLayout
	// parses short-form dates (without one). Go reference-time layouts.
	// layoutsSet records an explicit override; without one, each grammar
	// falls back to its format's own default layouts during detection.
	defaultLayout string
	recentLayout  string
	layoutsSet    bool

	// months are the short month names used for the "Jan" layout token.
	months [12]string

	// loc is the server's time zone. Recent dates are resolved in it.
	loc *time.Location

	// lenient allows short-form dates up to recentSlack in the future
	// before the year is rolled back.
	lenient bool

	// epochYear keeps the historical behavior for custom default layouts
	// that carry no year token: the year resolves to 1970. When false the
	// year is resolved like a short-form date instead.
	epochYear bool
}

// Option configures a Config under construction.
type Option func(*Config) error

// WithDateLayouts overrides the format's date layouts. defaultLayout parses
// dates that include a year and must be non-empty; recentLayout parses
// short-form dates without a year and may be empty for formats that never
// emit them. Layouts use Go reference-time tokens (see ResolveTimestamp).
func WithDateLayouts(defaultLayout, recentLayout string) Option {
	return func(c *Config) error {
		if defaultLayout == "" {
			return fmt.Errorf("listing: default date layout must not be empty")
		}
		c.defaultLayout = defaultLayout
		c.recentLayout = recentLayout
		c.layoutsSet = true
		return nil
	}
}

// WithLanguage sets the server's language for month-name parsing, as a
// BCP-47 code such as "en", "de" or "fr". The default is English.
func WithLanguage(lang string) Option {
	return func(c *Config) error {
		months, err := monthsForLanguage(lang)
		if err != nil {
			return err
		}
		c.months = months
		return nil
	}
}

// WithShortMonthNames overrides the month-name table directly, for servers
// whose listings use names no built-in language matches. Exactly twelve
// names are required, January first.
func WithShortMonthNames(names []string) Option {
	return func(c *Config) error {
		if len(names) != 12 {
			return fmt.Errorf("listing: short month names need 12 entries, got %d", len(names))
		}
		for i, n := range names {
			if n == "" {
				return fmt.Errorf("listing: short month name %d is empty", i+1)
			}
			c.months[i] = n
		}
		return nil
	}
}

// WithLocation sets the server's time zone. Short-form dates are resolved
// relative to the reference instant converted into this zone, so a server
// a few hours ahead of the client does not trigger a spurious year
// rollback. The default is the client's local zone.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) error {
		if loc == nil {
			return fmt.Errorf("listing: location must not be nil")
		}
		c.loc = loc
		return nil
	}
}

// WithLenientFutureDates tolerates short-form dates up to a day in the
// future before rolling the year back. Useful when server and client clocks
// disagree slightly.
func WithLenientFutureDates() Option {
	return func(c *Config) error {
		c.lenient = true
		return nil
	}
}

// WithCurrentYearFallback resolves custom default layouts that lack a year
// token like short-form dates (current year, rolled back when in the
// future) instead of the historical year-1970 default.
func WithCurrentYearFallback() Option {
	return func(c *Config) error {
		c.epochYear = false
		return nil
	}
}

// NewConfig builds the configuration for parsing one or more listings in
// the given format. All validation happens here: an invalid layout,
// language or month table is reported immediately rather than on first
// use.
func NewConfig(format Format, opts ...Option) (*Config, error) {
	defaultLayout, recentLayout := format.defaultLayouts()
	c := &Config{
		format:        format,
		defaultLayout: defaultLayout,
		recentLayout:  recentLayout,
		months:        monthTables[monthLangs[0]],
		loc:           time.Local,
		epochYear:     true,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.defaultLayout != "" {
		info, err := validateLayout(c.defaultLayout)
		if err != nil {
			return nil, fmt.Errorf("listing: invalid default date layout %q: %w", c.defaultLayout, err)
		}
		if !info.hasMonth || !info.hasDay {
			return nil, fmt.Errorf("listing: default date layout %q must contain month and day", c.defaultLayout)
		}
	}
	if c.recentLayout != "" {
		info, err := validateLayout(c.recentLayout)
		if err != nil {
			return nil, fmt.Errorf("listing: invalid recent date layout %q: %w", c.recentLayout, err)
		}
		if info.hasYear {
			return nil, fmt.Errorf("listing: recent date layout %q must not contain a year", c.recentLayout)
		}
		if !info.hasMonth || !info.hasDay {
			return nil, fmt.Errorf("listing: recent date layout %q must contain month and day", c.recentLayout)
		}
	}

	return c, nil
}

// Format returns the configured format hint.
func (c *Config) Format() Format {
	return c.format
}

// layoutConfig returns a config whose date layouts suit format f. Explicit
// overrides win; otherwise a grammar trying its luck during autodetection
// gets its own format's default layouts rather than the hint format's.
func (c *Config) layoutConfig(f Format) *Config {
	if c.layoutsSet || c.format == f {
		return c
	}
	cc := *c
	cc.defaultLayout, cc.recentLayout = f.defaultLayouts()
	return &cc
}

// withDefaultLayout derives a config using a different default layout, for
// grammars whose date shape varies line by line (e.g. 2- vs 4-digit NT
// years).
func (c *Config) withDefaultLayout(layout string) *Config {
	cc := *c
	cc.defaultLayout = layout
	return &cc
}
