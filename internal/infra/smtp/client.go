package smtp

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"birthday_notifier/internal/infra/config"

	"github.com/pkg/errors"
)

// Rejection is a per-address RCPT refusal returned by the server while
// the message was still accepted for the remaining addresses.
type Rejection struct {
	Addr   string
	Reason string
}

// Client is one authenticated SMTP connection, shared by every send for
// a company/source. Not safe for concurrent use; the dispatcher is
// strictly sequential.
type Client struct {
	conn    net.Conn
	client  *smtp.Client
	timeout time.Duration
}

// Connect dials, secures and authenticates a connection per the company
// config: implicit TLS on the SSL convention port, otherwise a plain
// connection upgraded in place with STARTTLS. A NOOP verifies liveness
// before the connection is handed out.
func Connect(cfg config.CompanyConfig, timeout time.Duration) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	dialer := &net.Dialer{Timeout: timeout}
	tlsConfig := &tls.Config{ServerName: cfg.SMTPHost}

	var conn net.Conn
	var err error
	if cfg.Security == config.SecuritySSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connect to SMTP server %s", addr)
	}

	c := &Client{conn: conn, timeout: timeout}
	c.extendDeadline()

	c.client, err = smtp.NewClient(conn, cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "create SMTP client")
	}

	if cfg.Security == config.SecurityStartTLS {
		if err = c.client.StartTLS(tlsConfig); err != nil {
			c.client.Close()
			return nil, errors.Wrap(err, "start TLS")
		}
	}

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	if err = c.client.Auth(auth); err != nil {
		c.client.Close()
		return nil, errors.Wrap(err, "SMTP authentication")
	}

	if err = c.client.Noop(); err != nil {
		c.client.Close()
		return nil, errors.Wrap(err, "SMTP liveness check")
	}

	return c, nil
}

// Send transmits one message. Addresses the server refuses at RCPT time
// are returned as rejections while delivery proceeds for the rest; an
// error is returned only when the message reached nobody.
func (c *Client) Send(from string, recipients []string, msg []byte) ([]Rejection, error) {
	c.extendDeadline()

	if err := c.client.Mail(from); err != nil {
		c.reset()
		return nil, errors.Wrap(err, "SMTP MAIL command")
	}

	var rejected []Rejection
	accepted := 0
	for _, rcpt := range recipients {
		if err := c.client.Rcpt(rcpt); err != nil {
			rejected = append(rejected, Rejection{Addr: rcpt, Reason: err.Error()})
			continue
		}
		accepted++
	}
	if accepted == 0 {
		c.reset()
		return nil, errors.Errorf("all %d recipients rejected", len(recipients))
	}

	w, err := c.client.Data()
	if err != nil {
		c.reset()
		return nil, errors.Wrap(err, "SMTP DATA command")
	}
	if _, err = w.Write(msg); err != nil {
		return nil, errors.Wrap(err, "write message data")
	}
	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "close message data")
	}

	return rejected, nil
}

// Close ends the session politely, falling back to dropping the
// connection when QUIT fails.
func (c *Client) Close() error {
	if err := c.client.Quit(); err != nil {
		return c.client.Close()
	}
	return nil
}

// reset clears a half-finished transaction so the connection stays
// usable for the next recipient.
func (c *Client) reset() {
	_ = c.client.Reset()
}

// extendDeadline bounds the next network operation by the configured
// timeout.
func (c *Client) extendDeadline() {
	if c.timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	}
}
