// Package finger implements a client for the Finger protocol, RFC 1288.
package finger

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"
)

// defaultPort is the IANA-assigned finger port.
const defaultPort = "79"

// options holds the per-query configuration.
type options struct {
	timeout time.Duration
	logger  *slog.Logger
	verbose bool
}

// Option is a functional option for configuring a finger query.
type Option func(*options) error

// WithTimeout sets the timeout for connecting and reading the response.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		o.timeout = timeout
		return nil
	}
}

// WithLogger enables debug logging using the provided logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithVerbose requests the long output format by prefixing the query
// with the /W token.
func WithVerbose() Option {
	return func(o *options) error {
		o.verbose = true
		return nil
	}
}

// Query sends a finger query to host and returns the server's response.
// The query may be a user name, user@host for relaying, or empty to list
// logged-in users. A host without a port uses the standard finger port.
//
// Example:
//
//	out, err := finger.Query("example.com", "alice", finger.WithVerbose())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(out)
func Query(host, query string, opts ...Option) (string, error) {
	o := &options{
		timeout: 30 * time.Second,
		logger:  slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 1})), // No-op logger by default
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return "", fmt.Errorf("failed to apply option: %w", err)
		}
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, defaultPort)
	}

	conn, err := net.DialTimeout("tcp", addr, o.timeout)
	if err != nil {
		return "", fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if o.timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(o.timeout)); err != nil {
			return "", fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	request := query
	if o.verbose {
		request = strings.TrimSpace("/W " + query)
	}
	o.logger.Debug("finger query", "addr", addr, "request", request)

	if _, err := fmt.Fprintf(conn, "%s\r\n", request); err != nil {
		return "", fmt.Errorf("failed to send query: %w", err)
	}

	// The server answers with free-form text and closes the connection.
	response, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(response), nil
}
