package nntp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// Client represents an NNTP client connection.
type Client struct {
	// conn is the underlying network connection
	conn net.Conn

	// text handles the line-oriented protocol framing
	text *textproto.Conn

	// timeout is the timeout for operations
	timeout time.Duration

	// logger is used for debug logging
	logger *slog.Logger

	// dialer is used to establish connections
	dialer *net.Dialer

	// canPost records whether the greeting advertised posting (code 200)
	canPost bool
}

// Group holds the state of a selected newsgroup.
type Group struct {
	// Name of the group (e.g., "comp.lang.go")
	Name string

	// Count is the estimated number of articles in the group
	Count int

	// First and Last bound the article numbers in the group
	First int
	Last  int
}

// GroupInfo is one line of a LIST ACTIVE response.
type GroupInfo struct {
	Name string
	High int
	Low  int

	// Status is the posting flag: "y", "n" or "m" (moderated)
	Status string
}

// Option is a functional option for configuring an NNTP client.
type Option func(*Client) error

// WithTimeout sets the timeout for connection and operations.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.timeout = timeout
		return nil
	}
}

// WithLogger enables debug logging using the provided logger.
// All NNTP commands and responses will be logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithDialer sets a custom net.Dialer for establishing connections.
func WithDialer(dialer *net.Dialer) Option {
	return func(c *Client) error {
		c.dialer = dialer
		return nil
	}
}

// Dial connects to an NNTP server at the given address.
// The address should be in the form "host:port"; 119 is the standard port.
func Dial(addr string, options ...Option) (*Client, error) {
	c, err := newClient(options)
	if err != nil {
		return nil, err
	}

	conn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := c.start(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// DialTLS connects to an NNTP server over TLS, typically on port 563.
// The tls.Config should include the ServerName for certificate validation;
// nil uses the default configuration.
func DialTLS(addr string, config *tls.Config, options ...Option) (*Client, error) {
	c, err := newClient(options)
	if err != nil {
		return nil, err
	}

	conn, err := tls.DialWithDialer(c.dialer, "tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := c.start(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func newClient(options []Option) (*Client, error) {
	c := &Client{
		timeout: 30 * time.Second,
		dialer:  &net.Dialer{},
		logger:  slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 1})), // No-op logger by default
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	c.dialer.Timeout = c.timeout
	return c, nil
}

// start reads the greeting and records the posting capability.
// Code 200 means posting is allowed, 201 means read-only.
func (c *Client) start(conn net.Conn) error {
	c.conn = conn
	c.text = textproto.NewConn(conn)

	if c.timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	code, msg, err := c.text.ReadCodeLine(20)
	if err != nil {
		return protocolError("CONNECT", err)
	}
	c.logger.Debug("nntp greeting", "code", code, "message", msg)
	c.canPost = code == 200
	return nil
}

// CanPost reports whether the server's greeting advertised posting.
func (c *Client) CanPost() bool {
	return c.canPost
}

// protocolError converts a textproto error response into a *ProtocolError,
// passing transport errors through wrapped.
func protocolError(command string, err error) error {
	var te *textproto.Error
	if errors.As(err, &te) {
		return &ProtocolError{
			Command:  command,
			Response: te.Msg,
			Code:     te.Code,
		}
	}
	return fmt.Errorf("failed to read response: %w", err)
}

// cmd sends a command and reads the status line, expecting expectCode
// (see textproto.ReadCodeLine for the matching rules).
func (c *Client) cmd(expectCode int, format string, args ...any) (int, string, error) {
	command := fmt.Sprintf(format, args...)
	c.logger.Debug("nntp command", "cmd", command)

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, "", fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	id, err := c.text.Cmd("%s", command)
	if err != nil {
		return 0, "", fmt.Errorf("failed to send command: %w", err)
	}
	c.text.StartResponse(id)
	defer c.text.EndResponse(id)

	code, msg, err := c.text.ReadCodeLine(expectCode)
	if err != nil {
		return code, msg, protocolError(command, err)
	}
	c.logger.Debug("nntp response", "code", code, "message", msg)
	return code, msg, nil
}

// cmdData sends a command whose success response is followed by a
// dot-terminated data block.
func (c *Client) cmdData(expectCode int, format string, args ...any) (string, []byte, error) {
	command := fmt.Sprintf(format, args...)
	c.logger.Debug("nntp command", "cmd", command)

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return "", nil, fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	id, err := c.text.Cmd("%s", command)
	if err != nil {
		return "", nil, fmt.Errorf("failed to send command: %w", err)
	}
	c.text.StartResponse(id)
	defer c.text.EndResponse(id)

	_, msg, err := c.text.ReadCodeLine(expectCode)
	if err != nil {
		return msg, nil, protocolError(command, err)
	}

	data, err := c.text.ReadDotBytes()
	if err != nil {
		return msg, nil, fmt.Errorf("failed to read data block: %w", err)
	}
	return msg, data, nil
}

// Authenticate logs in using AUTHINFO USER/PASS, RFC 4643.
func (c *Client) Authenticate(username, password string) error {
	if _, _, err := c.cmd(381, "AUTHINFO USER %s", username); err != nil {
		// Some servers accept the user name alone
		var pe *ProtocolError
		if errors.As(err, &pe) && pe.Code == 281 {
			return nil
		}
		return err
	}

	if _, _, err := c.cmd(281, "AUTHINFO PASS %s", password); err != nil {
		return err
	}
	return nil
}

// Capabilities returns the server's capability list.
func (c *Client) Capabilities() ([]string, error) {
	_, data, err := c.cmdData(101, "CAPABILITIES")
	if err != nil {
		return nil, err
	}

	var caps []string
	for line := range strings.SplitSeq(strings.TrimRight(string(data), "\n"), "\n") {
		if line != "" {
			caps = append(caps, line)
		}
	}
	return caps, nil
}

// Group selects a newsgroup and returns its article counts.
func (c *Client) Group(name string) (*Group, error) {
	_, msg, err := c.cmd(211, "GROUP %s", name)
	if err != nil {
		return nil, err
	}

	// 211 count first last group
	fields := strings.Fields(msg)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid GROUP response: %s", msg)
	}

	g := &Group{Name: fields[3]}
	if g.Count, err = strconv.Atoi(fields[0]); err != nil {
		return nil, fmt.Errorf("invalid GROUP response: %s", msg)
	}
	if g.First, err = strconv.Atoi(fields[1]); err != nil {
		return nil, fmt.Errorf("invalid GROUP response: %s", msg)
	}
	if g.Last, err = strconv.Atoi(fields[2]); err != nil {
		return nil, fmt.Errorf("invalid GROUP response: %s", msg)
	}
	return g, nil
}

// List returns the server's active newsgroup list.
func (c *Client) List() ([]GroupInfo, error) {
	_, data, err := c.cmdData(215, "LIST")
	if err != nil {
		return nil, err
	}

	var groups []GroupInfo
	for line := range strings.SplitSeq(strings.TrimRight(string(data), "\n"), "\n") {
		// group high low status
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		high, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		low, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		groups = append(groups, GroupInfo{
			Name:   fields[0],
			High:   high,
			Low:    low,
			Status: fields[3],
		})
	}
	return groups, nil
}

// statLike handles STAT, LAST and NEXT, which all answer
// "223 number message-id".
func (c *Client) statLike(command string) (int, string, error) {
	_, msg, err := c.cmd(223, "%s", command)
	if err != nil {
		return 0, "", err
	}

	fields := strings.Fields(msg)
	if len(fields) < 2 {
		return 0, "", fmt.Errorf("invalid %s response: %s", strings.Fields(command)[0], msg)
	}
	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid article number: %s", fields[0])
	}
	return number, fields[1], nil
}

// Stat checks that an article exists without transferring it. The id may
// be an article number, a message-id in angle brackets, or empty for the
// current article. It returns the article number and message-id.
func (c *Client) Stat(id string) (int, string, error) {
	if id == "" {
		return c.statLike("STAT")
	}
	return c.statLike("STAT " + id)
}

// Last moves the current article pointer to the previous article in the
// selected group.
func (c *Client) Last() (int, string, error) {
	return c.statLike("LAST")
}

// Next moves the current article pointer to the next article in the
// selected group.
func (c *Client) Next() (int, string, error) {
	return c.statLike("NEXT")
}

// Head returns the headers of an article. The id addressing rules are the
// same as for Stat.
func (c *Client) Head(id string) ([]byte, error) {
	if id == "" {
		_, data, err := c.cmdData(221, "HEAD")
		return data, err
	}
	_, data, err := c.cmdData(221, "HEAD %s", id)
	return data, err
}

// Body returns the body of an article.
func (c *Client) Body(id string) ([]byte, error) {
	if id == "" {
		_, data, err := c.cmdData(222, "BODY")
		return data, err
	}
	_, data, err := c.cmdData(222, "BODY %s", id)
	return data, err
}

// Article returns a complete article, headers and body.
func (c *Client) Article(id string) ([]byte, error) {
	if id == "" {
		_, data, err := c.cmdData(220, "ARTICLE")
		return data, err
	}
	_, data, err := c.cmdData(220, "ARTICLE %s", id)
	return data, err
}

// Post submits an article read from r. The article must contain headers,
// an empty line, and the body; dot-stuffing is handled by the transport.
func (c *Client) Post(r io.Reader) error {
	if _, _, err := c.cmd(340, "POST"); err != nil {
		return err
	}

	w := c.text.DotWriter()
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to send article: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish article: %w", err)
	}

	if _, _, err := c.text.ReadCodeLine(240); err != nil {
		return protocolError("POST", err)
	}
	return nil
}

// Quit sends the QUIT command and closes the connection.
func (c *Client) Quit() error {
	if c.conn == nil {
		return nil
	}

	// Ignore the response, we are closing anyway
	_, _, _ = c.cmd(205, "QUIT")
	return c.text.Close()
}
