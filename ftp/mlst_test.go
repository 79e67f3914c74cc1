package ftp

import (
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gonzalop/netclients/ftp/listing"
)

func TestClient_MLStat(t *testing.T) {
	t.Parallel()
	ms := newMockServer(t)

	ms.handlers["MLST"] = func(c *textproto.Conn, args string) {
		_ = c.PrintfLine("250-Listing %s", args)
		_ = c.PrintfLine(" type=file;size=1234;modify=20231220143000; %s", args)
		_ = c.PrintfLine("250 End")
	}

	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	entry, err := c.MLStat("example.txt")
	if err != nil {
		t.Fatal(err)
	}

	if entry.Name != "example.txt" {
		t.Errorf("Name = %q, want example.txt", entry.Name)
	}
	if entry.Type != listing.TypeFile {
		t.Errorf("Type = %s, want file", entry.Type)
	}
	if entry.Size != 1234 {
		t.Errorf("Size = %d, want 1234", entry.Size)
	}
	wantTime := time.Date(2023, 12, 20, 14, 30, 0, 0, time.UTC)
	if !entry.Time.Time.Equal(wantTime) {
		t.Errorf("Time = %v, want %v", entry.Time.Time, wantTime)
	}
}

func TestClient_MLStat_ErrorCode(t *testing.T) {
	t.Parallel()
	ms := newMockServer(t)

	ms.handlers["MLST"] = func(c *textproto.Conn, args string) {
		_ = c.PrintfLine("550 No such file or directory.")
	}

	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	_, err := c.MLStat("missing.txt")
	pe, ok := err.(*ProtocolError)
	if !ok {
		t.Fatalf("expected *ProtocolError, got %T: %v", err, err)
	}
	if pe.Code != 550 {
		t.Errorf("Code = %d, want 550", pe.Code)
	}
}

func TestClient_MLList(t *testing.T) {
	t.Parallel()
	ms := newMockServer(t)

	epsvL, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ms.dataListener = epsvL

	_, portStr, _ := net.SplitHostPort(epsvL.Addr().String())
	ms.handlers["EPSV"] = func(c *textproto.Conn, args string) {
		_ = c.PrintfLine("229 Entering Extended Passive Mode (|||%s|)", portStr)
	}
	ms.handlers["MLSD"] = func(c *textproto.Conn, args string) {
		_ = c.PrintfLine("150 Opening data connection.")
		dconn, err := ms.dataListener.Accept()
		if err != nil {
			t.Errorf("Mock server failed to accept data conn: %v", err)
			return
		}
		fmt.Fprint(dconn, "type=cdir;modify=20231220143000; .\r\n")
		fmt.Fprint(dconn, "type=dir;modify=20231220143000;perm=flcdmpe; mydir\r\n")
		fmt.Fprint(dconn, "type=file;size=5678;modify=20231220143000; my file.txt\r\n")
		dconn.Close()
		_ = c.PrintfLine("226 Closing data connection.")
	}

	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	entries, err := c.MLList("/pub")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Name != "." || entries[0].Type != listing.TypeDirectory {
		t.Errorf("entry 0 = %q (%s), want . (dir)", entries[0].Name, entries[0].Type)
	}
	if entries[1].Name != "mydir" || entries[1].Type != listing.TypeDirectory {
		t.Errorf("entry 1 = %q (%s), want mydir (dir)", entries[1].Name, entries[1].Type)
	}
	if entries[2].Name != "my file.txt" || entries[2].Size != 5678 {
		t.Errorf("entry 2 = %q size %d, want my file.txt size 5678", entries[2].Name, entries[2].Size)
	}
}

func TestParseFEATResponse(t *testing.T) {
	// Simulate FEAT response parsing
	response := `211-Features:
 MDTM
 REST STREAM
 SIZE
 MLST type*;size*;modify*;
 UTF8
211 End`

	lines := strings.Split(response, "\n")
	features := make(map[string]string)

	for _, line := range lines {
		// Skip the first and last lines (211-... and 211 ...)
		if len(line) < 4 {
			continue
		}
		if len(line) >= 4 && (line[3] == '-' || line[3] == ' ') {
			// This is the status line, skip it
			continue
		}

		// Feature lines start with a space
		featureLine := strings.TrimSpace(line)
		if featureLine == "" {
			continue
		}

		// Split feature name and parameters
		parts := strings.SplitN(featureLine, " ", 2)
		featName := strings.ToUpper(parts[0])
		featParams := ""
		if len(parts) > 1 {
			featParams = parts[1]
		}

		features[featName] = featParams
	}

	// Verify parsed features
	if _, ok := features["MDTM"]; !ok {
		t.Error("MDTM feature not found")
	}

	if _, ok := features["SIZE"]; !ok {
		t.Error("SIZE feature not found")
	}

	if params, ok := features["REST"]; !ok || params != "STREAM" {
		t.Errorf("REST feature = %v, want STREAM", params)
	}

	if params, ok := features["MLST"]; !ok || !strings.Contains(params, "type*") {
		t.Errorf("MLST feature = %v, want to contain type*", params)
	}
}
