// Package listing parses FTP directory listings into normalized entries.
//
// # Overview
//
// FTP servers return LIST output in whatever shape their host platform
// produces: Unix ls -l, Windows/NT DIR, OS/2, OS/400, MVS dataset listings,
// NetWare, VMS, old Mac servers, or the machine-readable MLSx facts format.
// This package recognizes all of them and converts each line into an *Entry
// with a normalized name, type, size, ownership, permission matrix and a
// precision-tagged timestamp.
//
// # Format binding
//
// A listing produced by one server session is homogeneous, so the format is
// detected once and then held for the rest of the listing. The Selector type
// carries that commitment explicitly:
//
//	cfg, err := listing.NewConfig(listing.FormatAuto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entries, err := listing.Parse(lines, cfg, time.Now())
//
// A specific format can be forced instead of detected:
//
//	cfg, err := listing.NewConfig(listing.FormatVMS)
//
// # Timestamps
//
// Many formats emit "recent" dates without a year ("Mar  2 15:13"). The year
// is resolved against a caller-supplied reference instant: the current year
// unless that would place the file in the future, in which case the previous
// year is used. See ResolveTimestamp for the exact rules, including the
// handling of February 29 and of servers in other time zones.
//
// Each resolved timestamp carries a Precision marker naming the finest
// calendar unit actually present in the source text, so callers can format
// "Mar 2 15:13" as a minute-precision time instead of pretending to know
// the seconds.
package listing
