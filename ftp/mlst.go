package ftp

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/gonzalop/netclients/ftp/listing"
)

// mlsxSelector builds a selector bound to the MLSx grammar, bypassing
// both autodetection and the client's LIST configuration: MLST/MLSD
// output is fully specified by RFC 3659 and never locale-dependent.
func (c *Client) mlsxSelector() (*listing.Selector, error) {
	cfg, err := listing.NewConfig(listing.FormatMLSx)
	if err != nil {
		return nil, err
	}
	sel, err := listing.NewSelector(cfg, time.Now())
	if err != nil {
		return nil, err
	}
	sel.SetLogger(c.logger)
	return sel, nil
}

// MLStat returns information about a single file or directory using the MLST command.
// This implements RFC 3659 - Extensions to FTP.
//
// Example:
//
//	entry, err := client.MLStat("file.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Size: %d, Modified: %s\n", entry.Size, entry.Time.Format())
func (c *Client) MLStat(path string) (*listing.Entry, error) {
	resp, err := c.sendCommand("MLST", path)
	if err != nil {
		return nil, err
	}

	if resp.Code != 250 {
		return nil, &ProtocolError{
			Command:  "MLST",
			Response: resp.Message,
			Code:     resp.Code,
		}
	}

	// MLST returns a multi-line response with the entry on the second line
	// Format: "250-Listing path\n facts entry-name\n250 End"
	if len(resp.Lines) < 2 {
		return nil, fmt.Errorf("invalid MLST response: too few lines")
	}

	// Find the line with the entry (starts with a space)
	var entryLine string
	for _, line := range resp.Lines {
		trimmed := strings.TrimSpace(line)
		// Skip status lines
		if len(line) >= 4 && (line[3] == '-' || line[3] == ' ') {
			continue
		}
		// This should be the entry line
		if trimmed != "" {
			entryLine = trimmed
			break
		}
	}

	if entryLine == "" {
		return nil, fmt.Errorf("no entry found in MLST response")
	}

	sel, err := c.mlsxSelector()
	if err != nil {
		return nil, err
	}
	entry, ok := sel.ParseLine(entryLine)
	if !ok {
		return nil, fmt.Errorf("failed to parse MLST entry: %q", entryLine)
	}

	return entry, nil
}

// MLList returns a machine-readable directory listing using the MLSD command.
// This implements RFC 3659 - Extensions to FTP.
//
// Example:
//
//	entries, err := client.MLList("/pub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range entries {
//	    fmt.Printf("%s: %d bytes\n", entry.Name, entry.Size)
//	}
func (c *Client) MLList(path string) ([]*listing.Entry, error) {
	args := []string{}
	if path != "" {
		args = append(args, path)
	}

	dataConn, err := c.cmdDataConnFrom("MLSD", args...)
	if err != nil {
		return nil, err
	}

	sel, err := c.mlsxSelector()
	if err != nil {
		dataConn.Close()
		return nil, err
	}

	// Read the directory listing; malformed entries are skipped.
	var entries []*listing.Entry
	scanner := bufio.NewScanner(c.listingReader(dataConn))
	for scanner.Scan() {
		if entry, ok := sel.ParseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		dataConn.Close()
		return nil, fmt.Errorf("failed to read directory listing: %w", err)
	}

	// Finish the data connection
	if err := c.finishDataConn(dataConn); err != nil {
		return nil, err
	}

	return entries, nil
}
