package telnet

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

// scriptConn is a net.Conn whose read side is a canned byte stream and
// whose write side records everything the client sends.
type scriptConn struct {
	in  *bytes.Reader
	out bytes.Buffer
}

func newScriptConn(input []byte) *scriptConn {
	return &scriptConn{in: bytes.NewReader(input)}
}

func (c *scriptConn) Read(p []byte) (int, error)         { return c.in.Read(p) }
func (c *scriptConn) Write(p []byte) (int, error)        { return c.out.Write(p) }
func (c *scriptConn) Close() error                       { return nil }
func (c *scriptConn) LocalAddr() net.Addr                { return nil }
func (c *scriptConn) RemoteAddr() net.Addr               { return nil }
func (c *scriptConn) SetDeadline(t time.Time) error      { return nil }
func (c *scriptConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *scriptConn) SetWriteDeadline(t time.Time) error { return nil }

func TestConnRead(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		expected    []byte
		wantReplies []byte
	}{
		{
			name:     "plain data",
			input:    []byte("login: \r\n"),
			expected: []byte("login: \r\n"),
		},
		{
			name:        "IAC WILL refused",
			input:       []byte{cmdIAC, cmdWILL, 0x01, 'A', 'B', 'C'},
			expected:    []byte("ABC"),
			wantReplies: []byte{cmdIAC, cmdDONT, 0x01},
		},
		{
			name:        "IAC DO refused",
			input:       []byte{cmdIAC, cmdDO, 0x03, 'G', 'H', 'I'},
			expected:    []byte("GHI"),
			wantReplies: []byte{cmdIAC, cmdWONT, 0x03},
		},
		{
			name:        "IAC WONT acknowledged",
			input:       []byte{cmdIAC, cmdWONT, 0x02, 'D', 'E', 'F'},
			expected:    []byte("DEF"),
			wantReplies: []byte{cmdIAC, cmdDONT, 0x02},
		},
		{
			name:        "IAC DONT acknowledged",
			input:       []byte{cmdIAC, cmdDONT, 0x04, 'J', 'K', 'L'},
			expected:    []byte("JKL"),
			wantReplies: []byte{cmdIAC, cmdWONT, 0x04},
		},
		{
			name:     "escaped 0xFF kept",
			input:    []byte{'X', cmdIAC, cmdIAC, 'Y'},
			expected: []byte{'X', cmdIAC, 'Y'},
		},
		{
			name:     "subnegotiation skipped",
			input:    []byte{cmdIAC, cmdSB, 0x18, 'x', 'y', cmdIAC, cmdSE, 'O', 'K'},
			expected: []byte("OK"),
		},
		{
			name:     "two-byte command ignored",
			input:    []byte{cmdIAC, 0xF1, 'A'},
			expected: []byte("A"),
		},
		{
			name:        "mixed sequence",
			input:       []byte{cmdIAC, cmdDO, 0x01, 'U', 'S', 'E', 'R', ' ', cmdIAC, cmdIAC, '\r', '\n'},
			expected:    []byte("USER \xff\r\n"),
			wantReplies: []byte{cmdIAC, cmdWONT, 0x01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newScriptConn(tt.input)
			c, err := Client(sc)
			if err != nil {
				t.Fatal(err)
			}

			buf := new(bytes.Buffer)
			if _, err := io.Copy(buf, c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !bytes.Equal(buf.Bytes(), tt.expected) {
				t.Errorf("data = %q, want %q", buf.Bytes(), tt.expected)
			}
			if !bytes.Equal(sc.out.Bytes(), tt.wantReplies) {
				t.Errorf("replies = %v, want %v", sc.out.Bytes(), tt.wantReplies)
			}
		})
	}
}

func TestConnRead_AcceptedOption(t *testing.T) {
	input := []byte{cmdIAC, cmdDO, 0x01, cmdIAC, cmdWILL, 0x01, 'o', 'k'}
	sc := newScriptConn(input)
	c, err := Client(sc, WithAcceptedOption(0x01))
	if err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.String() != "ok" {
		t.Errorf("data = %q, want ok", buf.String())
	}

	wantReplies := []byte{cmdIAC, cmdWILL, 0x01, cmdIAC, cmdDO, 0x01}
	if !bytes.Equal(sc.out.Bytes(), wantReplies) {
		t.Errorf("replies = %v, want %v", sc.out.Bytes(), wantReplies)
	}
}

func TestConnWrite(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		wantWire []byte
	}{
		{
			name:     "plain text",
			input:    []byte("hello"),
			wantWire: []byte("hello"),
		},
		{
			name:     "bare LF becomes CRLF",
			input:    []byte("hello\n"),
			wantWire: []byte("hello\r\n"),
		},
		{
			name:     "existing CRLF untouched",
			input:    []byte("hello\r\n"),
			wantWire: []byte("hello\r\n"),
		},
		{
			name:     "0xFF escaped",
			input:    []byte{'a', cmdIAC, 'b'},
			wantWire: []byte{'a', cmdIAC, cmdIAC, 'b'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newScriptConn(nil)
			c, err := Client(sc)
			if err != nil {
				t.Fatal(err)
			}

			n, err := c.Write(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if n != len(tt.input) {
				t.Errorf("n = %d, want %d", n, len(tt.input))
			}
			if !bytes.Equal(sc.out.Bytes(), tt.wantWire) {
				t.Errorf("wire = %v, want %v", sc.out.Bytes(), tt.wantWire)
			}
		})
	}
}

func TestDial(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte{cmdIAC, cmdWILL, 0x01})
		_, _ = conn.Write([]byte("login: "))
		// Drain the refusal before closing
		buf := make([]byte, 3)
		_, _ = io.ReadFull(conn, buf)
		conn.Close()
	}()

	c, err := Dial(l.Addr().String(), WithTimeout(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	buf := make([]byte, 64)
	n, err := c.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(buf[:n]); got != "login: " {
		t.Errorf("read %q, want %q", got, "login: ")
	}
}
