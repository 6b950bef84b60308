package email

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"birthday_notifier/internal/domain/employee"
	"birthday_notifier/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// maxGenericAttachmentSize caps the optional generic attachment; larger
// files are skipped without failing the send.
const maxGenericAttachmentSize = 200 * 1024

// Composer renders per-recipient birthday messages with company
// branding, reputation-aligned headers and optional attachments.
type Composer struct {
	attachPath string // optional generic attachment, shared by all companies
	log        *logrus.Logger
}

func NewComposer(attachPath string, log *logrus.Logger) *Composer {
	return &Composer{attachPath: attachPath, log: log}
}

// Compose builds the message for one recipient. The only side effect is
// reading attachment files from disk.
func (c *Composer) Compose(rcpt employee.Recipient, sourceFile, company string, cfg config.CompanyConfig) (*Message, error) {
	teamName := renderTemplate(cfg.TeamNameTemplate, rcpt.DisplayName, company)
	subject := renderTemplate(cfg.SubjectTemplate, rcpt.DisplayName, company)

	from := mail.Address{Name: teamName, Address: cfg.SMTPUser}

	msg := &Message{
		From:         from.String(),
		EnvelopeFrom: cfg.SMTPUser,
		To:           rcpt.Email,
		CC:           cfg.CC,
		BCC:          cfg.BCC,
		ReplyTo:      cfg.SMTPUser,
		Subject:      subject,
		MessageID:    GenerateMessageID(reputationDomain(cfg)),
		TextBody:     textBody(rcpt.DisplayName, company, teamName, cfg.Site),
		HTMLBody:     htmlBody(rcpt.DisplayName, company, teamName, cfg.Site, cfg.SMTPUser),
	}

	c.attachCardImage(msg, company, cfg.CardImage)
	c.attachGenericFile(msg)

	return msg, nil
}

// reputationDomain picks the Message-ID domain: the configured
// reputation domain, else the domain of the SMTP user, else localhost.
func reputationDomain(cfg config.CompanyConfig) string {
	if cfg.ReputationDomain != "" {
		return cfg.ReputationDomain
	}
	if _, domain, ok := strings.Cut(cfg.SMTPUser, "@"); ok && domain != "" {
		return domain
	}
	return "localhost"
}

func renderTemplate(tmpl, firstName, company string) string {
	return strings.NewReplacer(
		"{first_name}", firstName,
		"{company}", company,
	).Replace(tmpl)
}

func (c *Composer) attachCardImage(msg *Message, company, path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.log.Warnf("Could not attach birthday card for %s: %v", company, err)
		return
	}
	msg.Attachments = append(msg.Attachments, Attachment{
		Filename:    filepath.Base(path),
		ContentType: imageContentType(path),
		ContentID:   "birthday_card_" + strings.ToLower(company),
		Data:        data,
	})
	c.log.Infof("Attached birthday card for %s", company)
}

func (c *Composer) attachGenericFile(msg *Message) {
	if c.attachPath == "" {
		return
	}
	info, err := os.Stat(c.attachPath)
	if err != nil {
		return
	}
	if info.Size() > maxGenericAttachmentSize {
		c.log.Debugf("Skipping generic attachment %s: %d bytes exceeds cap", c.attachPath, info.Size())
		return
	}
	data, err := os.ReadFile(c.attachPath)
	if err != nil {
		c.log.Warnf("Could not attach generic file: %v", err)
		return
	}
	msg.Attachments = append(msg.Attachments, Attachment{
		Filename:    filepath.Base(c.attachPath),
		ContentType: "application/octet-stream",
		Data:        data,
	})
}

// imageContentType infers the MIME type from the file extension,
// falling back to generic binary for anything unrecognized.
func imageContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func textBody(firstName, company, teamName, site string) string {
	body := fmt.Sprintf(`Dear %s,

Here's wishing you a very Happy Birthday on behalf of our %s Team. Hope you are having a Blast !!

Be Blessed! Have a Great day!

%s`, firstName, company, teamName)
	if site != "" {
		body += "\n" + site
	}
	return body
}

func htmlBody(firstName, company, teamName, site, contact string) string {
	siteLine := ""
	if site != "" {
		siteLine = fmt.Sprintf(`<p style="margin: 5px 0 0 0; color: #666666;">%s</p>`, site)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Happy Birthday from %s</title>
</head>
<body style="font-family: Arial, Helvetica, sans-serif; line-height: 1.6; color: #333333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="border: 1px solid #e0e0e0; padding: 30px; border-radius: 8px;">
        <p style="margin: 0 0 15px 0;">Dear %s,</p>
        <p style="margin: 0 0 15px 0;">Here's wishing you a very Happy Birthday on behalf of our <strong>%s Team</strong>. Hope you are having a Blast !!</p>
        <p style="margin: 0 0 15px 0;">Be Blessed! Have a Great day!</p>
        <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0;">
            <p style="margin: 0; font-weight: bold;">%s</p>
            %s
        </div>
        <div style="margin-top: 30px; font-size: 12px; color: #888888; text-align: center;">
            <p>Sent with warm wishes from the %s HR Team. Contact: %s</p>
        </div>
    </div>
</body>
</html>`, company, firstName, company, teamName, siteLine, company, contact)
}
