package ftp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/text/encoding"

	"github.com/gonzalop/netclients/ftp/listing"
	"github.com/gonzalop/netclients/internal/ratelimit"
)

// Option is a functional option for configuring an FTP client.
type Option func(*Client) error

// WithTimeout sets the timeout for connection and operations.
// This applies to both the initial connection and subsequent read/write operations.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.timeout = timeout
		return nil
	}
}

// WithIdleTimeout sets the maximum idle time before sending NOOP keep-alive.
// If the connection is idle for longer than this duration, a NOOP command
// will be sent automatically to prevent the server from closing the connection.
//
// This is useful for long-running operations or when keeping a connection
// open for extended periods. Set to 0 to disable automatic keep-alive.
//
// Example:
//
//	client, _ := ftp.Dial("ftp.example.com:21",
//	    ftp.WithIdleTimeout(5*time.Minute),
//	)
func WithIdleTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.idleTimeout = timeout
		return nil
	}
}

// WithExplicitTLS enables explicit TLS mode (AUTH TLS).
// The client connects on the standard FTP port (21) and upgrades to TLS
// using the AUTH TLS command. This is the recommended mode for FTPS.
//
// The provided tls.Config should include the ServerName for certificate validation.
// A ClientSessionCache will be automatically added if not present to enable
// TLS session reuse for data connections.
func WithExplicitTLS(config *tls.Config) Option {
	return func(c *Client) error {
		if c.tlsMode == tlsModeImplicit {
			return fmt.Errorf("explicit TLS cannot be combined with implicit TLS")
		}
		if config == nil {
			config = &tls.Config{}
		}
		// Ensure we have a session cache for TLS session reuse
		if config.ClientSessionCache == nil {
			config.ClientSessionCache = tls.NewLRUClientSessionCache(0)
		}
		c.tlsConfig = config
		c.tlsMode = tlsModeExplicit
		return nil
	}
}

// WithImplicitTLS enables implicit TLS mode.
// The client connects directly with TLS, typically on port 990.
// This is a legacy mode but still used by some servers.
//
// The provided tls.Config should include the ServerName for certificate validation.
// A ClientSessionCache will be automatically added if not present to enable
// TLS session reuse for data connections.
func WithImplicitTLS(config *tls.Config) Option {
	return func(c *Client) error {
		if c.tlsMode == tlsModeExplicit {
			return fmt.Errorf("implicit TLS cannot be combined with explicit TLS")
		}
		if config == nil {
			config = &tls.Config{}
		}
		// Ensure we have a session cache for TLS session reuse
		if config.ClientSessionCache == nil {
			config.ClientSessionCache = tls.NewLRUClientSessionCache(0)
		}
		c.tlsConfig = config
		c.tlsMode = tlsModeImplicit
		return nil
	}
}

// WithLogger enables debug logging using the provided logger.
// All FTP commands and responses will be logged at debug level.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	client, _ := ftp.Dial("ftp.example.com:21", ftp.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithDialer sets a custom net.Dialer for establishing connections.
// This can be used to configure source addresses, keep-alive settings, etc.
func WithDialer(dialer *net.Dialer) Option {
	return func(c *Client) error {
		c.dialer = dialer
		return nil
	}
}

// WithCustomDialer sets a custom Dialer implementation for establishing
// connections. It takes precedence over WithDialer. When combined with
// WithSOCKS5Proxy, the connection to the proxy itself is established
// through the custom dialer.
func WithCustomDialer(d Dialer) Option {
	return func(c *Client) error {
		if d == nil {
			return fmt.Errorf("dialer must not be nil")
		}
		c.customDialer = d
		return nil
	}
}

// tlsMode represents the TLS mode for the connection.
type tlsMode int

const (
	tlsModeNone tlsMode = iota
	tlsModeExplicit
	tlsModeImplicit
)

// WithActiveMode enables active mode (PORT) instead of passive mode (PASV/EPSV).
// In active mode, the client opens a port and tells the server to connect to it.
// This is less common than passive mode and may not work behind NAT/firewalls.
//
// Note: Most users should use passive mode (the default). Active mode is mainly
// useful for servers behind firewalls that allow outbound connections.
func WithActiveMode() Option {
	return func(c *Client) error {
		c.activeMode = true
		return nil
	}
}

// WithDisableEPSV disables the use of the EPSV command.
// By default, the client tries EPSV before falling back to PASV.
// This option forces the client to use PASV directly, which can be useful
// for servers that don't support EPSV correctly or are behind firewalls
// that block EPSV.
func WithDisableEPSV() Option {
	return func(c *Client) error {
		c.disableEPSV = true
		return nil
	}
}

// WithListingConfig supplies a pre-built directory listing configuration.
// It overrides WithListingFormat, WithServerLocation, WithServerLanguage
// and WithLenientFutureDates; use it to share one validated configuration
// across several clients.
func WithListingConfig(cfg *listing.Config) Option {
	return func(c *Client) error {
		if cfg == nil {
			return fmt.Errorf("listing config must not be nil")
		}
		c.listingCfg = cfg
		return nil
	}
}

// WithListingFormat fixes the directory listing format instead of
// autodetecting it from the first parsable line. Useful when the server's
// listings are known to be ambiguous, or to fail fast on format drift.
//
// Example:
//
//	client, _ := ftp.Dial("vms.example.com:21",
//	    ftp.WithListingFormat(listing.FormatVMS),
//	)
func WithListingFormat(format listing.Format) Option {
	return func(c *Client) error {
		c.listingFormat = format
		return nil
	}
}

// WithServerLocation sets the server's time zone for resolving the
// year-less dates in directory listings. Without it the client's local
// zone is used, which can shift timestamps by the zone offset and cause
// spurious year rollbacks near midnight.
func WithServerLocation(loc *time.Location) Option {
	return func(c *Client) error {
		c.listingOpts = append(c.listingOpts, listing.WithLocation(loc))
		return nil
	}
}

// WithServerLanguage sets the language of month names in directory
// listings, as a BCP-47 code such as "de" or "fr". The default is English.
func WithServerLanguage(lang string) Option {
	return func(c *Client) error {
		c.listingOpts = append(c.listingOpts, listing.WithLanguage(lang))
		return nil
	}
}

// WithLenientFutureDates tolerates listing dates slightly in the future
// (up to a day) before assuming they belong to the previous year. Enable
// this when the server's clock is known to run ahead.
func WithLenientFutureDates() Option {
	return func(c *Client) error {
		c.listingOpts = append(c.listingOpts, listing.WithLenientFutureDates())
		return nil
	}
}

// WithTextEncoding sets the character encoding of directory listings for
// servers that do not send UTF-8. Listing data is decoded through enc
// before parsing.
//
// Example:
//
//	import "golang.org/x/text/encoding/charmap"
//
//	client, _ := ftp.Dial("legacy.example.com:21",
//	    ftp.WithTextEncoding(charmap.ISO8859_1),
//	)
func WithTextEncoding(enc encoding.Encoding) Option {
	return func(c *Client) error {
		if enc == nil {
			return fmt.Errorf("text encoding must not be nil")
		}
		c.encoding = enc
		return nil
	}
}

// WithSOCKS5Proxy routes the control and data connections through a
// SOCKS5 proxy. Username and password may be empty for proxies that do
// not require authentication.
func WithSOCKS5Proxy(addr, username, password string) Option {
	return func(c *Client) error {
		if addr == "" {
			return fmt.Errorf("proxy address must not be empty")
		}
		c.proxyAddr = addr
		if username != "" || password != "" {
			c.proxyAuth = &proxy.Auth{User: username, Password: password}
		}
		return nil
	}
}

// WithBandwidthLimit throttles data transfers to the given number of
// bytes per second. Zero or negative disables throttling. The limit
// applies per transfer, to uploads and downloads alike.
func WithBandwidthLimit(bytesPerSecond int64) Option {
	return func(c *Client) error {
		c.limiter = ratelimit.New(bytesPerSecond)
		return nil
	}
}
