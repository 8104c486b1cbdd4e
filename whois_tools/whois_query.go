package whois_tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
	"golang.org/x/text/encoding/charmap"
)

// DefaultPort is the standard WHOIS port.
const DefaultPort = 43

// Requester issues a single WHOIS query against server and returns the
// decoded response text.
type Requester interface {
	Request(ctx context.Context, query, server string) (string, error)
}

// TransportError reports a failed connection, write or read against a WHOIS
// server.
type TransportError struct {
	Server string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("whois request to %s failed: %v", e.Server, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TransportOptions configures a Transport.
type TransportOptions struct {
	// Port defaults to 43.
	Port int
	// Timeout bounds the whole request. Zero means no timeout.
	Timeout time.Duration
	// ProxyServer is a SOCKS5 proxy address (host:port). Empty means direct.
	ProxyServer   string
	ProxyUsername string
	ProxyPassword string
	Logger        *zap.Logger
}

// Transport speaks the WHOIS wire protocol: one TCP connection per request,
// the query terminated by CRLF, the response read until the peer closes.
type Transport struct {
	port    int
	timeout time.Duration
	dialer  proxy.ContextDialer
	logger  *zap.Logger
}

// NewTransport returns a Transport dialing directly or through a SOCKS5 proxy.
func NewTransport(opts TransportOptions) (*Transport, error) {
	var dialer proxy.ContextDialer = &net.Dialer{}

	if opts.ProxyServer != "" {
		var auth *proxy.Auth
		if opts.ProxyUsername != "" {
			auth = &proxy.Auth{User: opts.ProxyUsername, Password: opts.ProxyPassword}
		}
		d, err := proxy.SOCKS5("tcp", opts.ProxyServer, auth, &net.Dialer{})
		if err != nil {
			return nil, errors.WithMessagef(err, "can't create proxy dialer for %s", opts.ProxyServer)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, errors.Errorf("proxy dialer for %s does not support contexts", opts.ProxyServer)
		}
		dialer = cd
	}

	return NewTransportWithDialer(dialer, opts), nil
}

// NewTransportWithDialer returns a Transport using dialer for every connection.
func NewTransportWithDialer(dialer proxy.ContextDialer, opts TransportOptions) *Transport {
	port := opts.Port
	if port == 0 {
		port = DefaultPort
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{
		port:    port,
		timeout: opts.Timeout,
		dialer:  dialer,
		logger:  logger,
	}
}

// Request sends query to server and returns the full response text.
func (t *Transport) Request(ctx context.Context, query, server string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(server, strconv.Itoa(t.port))
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", &TransportError{Server: server, Err: errors.WithMessagef(err, "can't connect to %s", addr)}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	// Unblock the read if the caller gives up.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if _, err := io.WriteString(conn, query+"\r\n"); err != nil {
		return "", &TransportError{Server: server, Err: errors.WithMessage(contextError(ctx, err), "can't send query")}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		return "", &TransportError{Server: server, Err: errors.WithMessage(contextError(ctx, err), "can't read response")}
	}

	t.logger.Debug("WHOIS response received",
		zap.String("server", server),
		zap.Int("bytes", buf.Len()),
	)

	return decodeResponse(buf.Bytes()), nil
}

// decodeResponse decodes b as UTF-8, falling back to Latin-1 so a response
// is never rejected for its encoding.
func decodeResponse(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

func contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
