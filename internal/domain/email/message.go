package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Attachment is a file carried by a Message, already read into memory.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

// Message is a composed, ready-to-send email. To holds the single
// recipient; CC addresses appear as a visible header, BCC addresses
// only in the envelope.
type Message struct {
	From         string // formatted "Team Name <user@host>"
	EnvelopeFrom string // bare address used for MAIL FROM and Return-Path
	To           string
	CC           []string
	BCC          []string
	ReplyTo      string
	Subject      string
	MessageID    string
	TextBody     string
	HTMLBody     string
	Attachments  []Attachment
}

// AllRecipients returns every envelope recipient: To, CC and BCC.
func (m *Message) AllRecipients() []string {
	out := make([]string, 0, 1+len(m.CC)+len(m.BCC))
	out = append(out, m.To)
	out = append(out, m.CC...)
	out = append(out, m.BCC...)
	return out
}

// Bytes renders the message in wire format: top-level multipart/mixed
// holding a multipart/alternative (plain + HTML) part followed by any
// attachments.
func (m *Message) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(nil)

	mixed := multipart.NewWriter(buf)

	writeHeader(buf, "From", m.From)
	writeHeader(buf, "To", m.To)
	if len(m.CC) > 0 {
		writeHeader(buf, "Cc", strings.Join(m.CC, ", "))
	}
	writeHeader(buf, "Subject", encodeHeaderWord(m.Subject))
	writeHeader(buf, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(buf, "Message-ID", m.MessageID)
	writeHeader(buf, "Reply-To", m.ReplyTo)
	writeHeader(buf, "Sender", m.EnvelopeFrom)
	writeHeader(buf, "Return-Path", m.EnvelopeFrom)
	writeHeader(buf, "MIME-Version", "1.0")
	writeHeader(buf, "Content-Type", "multipart/mixed; boundary="+mixed.Boundary())
	buf.WriteString("\r\n")

	if err := m.writeAlternative(mixed); err != nil {
		return nil, err
	}
	for _, att := range m.Attachments {
		if err := writeAttachment(mixed, att); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart writer")
	}
	return buf.Bytes(), nil
}

func (m *Message) writeAlternative(mixed *multipart.Writer) error {
	boundary := multipart.NewWriter(io.Discard).Boundary()

	part, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + boundary},
	})
	if err != nil {
		return errors.Wrap(err, "create alternative part")
	}

	alt := multipart.NewWriter(part)
	if err := alt.SetBoundary(boundary); err != nil {
		return err
	}

	if err := writeTextPart(alt, "text/plain", m.TextBody); err != nil {
		return err
	}
	if err := writeTextPart(alt, "text/html", m.HTMLBody); err != nil {
		return err
	}
	return alt.Close()
}

func writeTextPart(w *multipart.Writer, contentType, content string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType + "; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return errors.Wrapf(err, "create %s part", contentType)
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(content)); err != nil {
		return errors.Wrapf(err, "write %s content", contentType)
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, att Attachment) error {
	header := textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("%s; name=%q", att.ContentType, att.Filename)},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", att.Filename)},
		"Content-Transfer-Encoding": {"base64"},
	}
	if att.ContentID != "" {
		header.Set("Content-ID", "<"+att.ContentID+">")
	}

	part, err := w.CreatePart(header)
	if err != nil {
		return errors.Wrapf(err, "create attachment part %s", att.Filename)
	}

	encoded := base64.StdEncoding.EncodeToString(att.Data)
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := part.Write([]byte(encoded[:n])); err != nil {
			return errors.Wrapf(err, "write attachment %s", att.Filename)
		}
		if _, err := part.Write([]byte("\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
}

// encodeHeaderWord wraps non-ASCII header values (the default subject
// carries an emoji) in RFC 2047 encoding.
func encodeHeaderWord(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] >= 0x80 {
			return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(v)) + "?="
		}
	}
	return v
}
