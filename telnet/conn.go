package telnet

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Telnet protocol bytes, RFC 854.
const (
	cmdSE   = 0xF0 // end of subnegotiation
	cmdSB   = 0xFA // start of subnegotiation
	cmdWILL = 0xFB
	cmdWONT = 0xFC
	cmdDO   = 0xFD
	cmdDONT = 0xFE
	cmdIAC  = 0xFF // Interpret As Command
)

// Conn is a Telnet client connection. It implements io.ReadWriteCloser.
// Reads return the data stream with protocol bytes removed; writes are
// escaped and newline-translated for the wire.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader

	timeout time.Duration
	logger  *slog.Logger

	// accepted holds option codes the client is willing to enable.
	// Everything else is refused during negotiation.
	accepted map[byte]bool

	// writeMu keeps negotiation replies from interleaving with user writes
	writeMu sync.Mutex
}

// Option is a functional option for configuring a Telnet connection.
type Option func(*Conn) error

// WithTimeout sets the timeout for connecting and for each read and write.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Conn) error {
		c.timeout = timeout
		return nil
	}
}

// WithLogger enables debug logging of option negotiation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) error {
		c.logger = logger
		return nil
	}
}

// WithAcceptedOption marks a Telnet option code as acceptable. The client
// answers DO with WILL and WILL with DO for accepted options instead of
// refusing them.
func WithAcceptedOption(opt byte) Option {
	return func(c *Conn) error {
		c.accepted[opt] = true
		return nil
	}
}

// Dial connects to a Telnet server at the given address.
//
// Example:
//
//	conn, err := telnet.Dial("host.example.com:23",
//	    telnet.WithTimeout(10*time.Second),
//	)
func Dial(addr string, options ...Option) (*Conn, error) {
	c := &Conn{
		timeout:  30 * time.Second,
		logger:   slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 1})), // No-op logger by default
		accepted: make(map[byte]bool),
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	conn, err := net.DialTimeout("tcp", addr, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return c, nil
}

// Client wraps an existing connection in a Telnet Conn. It is useful for
// tests and for transports other than plain TCP.
func Client(conn net.Conn, options ...Option) (*Conn, error) {
	c := &Conn{
		logger:   slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 1})),
		accepted: make(map[byte]bool),
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return c, nil
}

// Read reads from the connection, filtering out Telnet commands and
// answering option negotiation as it goes.
func (c *Conn) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	for n < len(p) {
		// Return what we have instead of blocking on the network for more.
		if n > 0 && c.reader.Buffered() == 0 {
			return n, nil
		}

		b, err := c.reader.ReadByte()
		if err != nil {
			// Partial data is returned with nil error; the error
			// surfaces on the next call.
			if n > 0 {
				return n, nil
			}
			return n, err
		}

		if b != cmdIAC {
			p[n] = b
			n++
			continue
		}

		next, err := c.reader.ReadByte()
		if err != nil {
			return n, err
		}

		switch next {
		case cmdIAC:
			// Escaped 0xFF, keep it
			p[n] = cmdIAC
			n++
		case cmdWILL, cmdWONT, cmdDO, cmdDONT:
			opt, err := c.reader.ReadByte()
			if err != nil {
				return n, err
			}
			if err := c.negotiate(next, opt); err != nil {
				return n, err
			}
		case cmdSB:
			// Skip subnegotiation data up to IAC SE
			if err := c.skipSubnegotiation(); err != nil {
				return n, err
			}
		default:
			// Two-byte command (IAC CMD), ignored.
		}
	}

	return n, nil
}

// negotiate answers a single WILL/WONT/DO/DONT. Options on the accept
// list are enabled, everything else is refused. WONT and DONT need no
// answer beyond our matching refusal.
func (c *Conn) negotiate(cmd, opt byte) error {
	var reply byte
	switch cmd {
	case cmdWILL:
		if c.accepted[opt] {
			reply = cmdDO
		} else {
			reply = cmdDONT
		}
	case cmdDO:
		if c.accepted[opt] {
			reply = cmdWILL
		} else {
			reply = cmdWONT
		}
	case cmdWONT:
		reply = cmdDONT
	case cmdDONT:
		reply = cmdWONT
	}

	c.logger.Debug("telnet negotiation", "cmd", cmd, "opt", opt, "reply", reply)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write([]byte{cmdIAC, reply, opt})
	if err != nil {
		return fmt.Errorf("failed to send negotiation reply: %w", err)
	}
	return nil
}

func (c *Conn) skipSubnegotiation() error {
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return err
		}
		if b != cmdIAC {
			continue
		}
		next, err := c.reader.ReadByte()
		if err != nil {
			return err
		}
		if next == cmdSE {
			return nil
		}
	}
}

// Write writes to the connection, escaping 0xFF bytes and translating
// bare LF to CR LF.
func (c *Conn) Write(p []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	// Worst case every byte doubles
	buf := make([]byte, 0, len(p)*2)
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case cmdIAC:
			buf = append(buf, cmdIAC, cmdIAC)
		case '\n':
			if i == 0 || p[i-1] != '\r' {
				buf = append(buf, '\r')
			}
			buf = append(buf, '\n')
		default:
			buf = append(buf, p[i])
		}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(buf); err != nil {
		return 0, err
	}
	// Report the caller's byte count, not the wire count
	return len(p), nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
