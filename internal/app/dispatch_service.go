package app

import (
	"fmt"
	"strings"
	"time"

	"birthday_notifier/internal/domain/email"
	"birthday_notifier/internal/domain/employee"
	"birthday_notifier/internal/infra/audit"
	"birthday_notifier/internal/infra/config"
	"birthday_notifier/internal/infra/smtp"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Sender is one open SMTP session. Implemented by *smtp.Client and
// faked in tests.
type Sender interface {
	Send(from string, recipients []string, msg []byte) ([]smtp.Rejection, error)
	Close() error
}

// Dialer opens a Sender for a company's SMTP account.
type Dialer interface {
	Connect(cfg config.CompanyConfig) (Sender, error)
}

// NewSMTPDialer returns the production Dialer backed by net/smtp.
func NewSMTPDialer(timeout time.Duration) Dialer {
	return smtpDialer{timeout: timeout}
}

type smtpDialer struct {
	timeout time.Duration
}

func (d smtpDialer) Connect(cfg config.CompanyConfig) (Sender, error) {
	return smtp.Connect(cfg, d.timeout)
}

// SendOutcome is the explicit per-recipient result: a failed send is a
// value here, never a panic, so one failure can't abort the remaining
// recipients.
type SendOutcome struct {
	Recipient employee.Recipient
	Status    string
	Response  string
	MessageID string
}

// DispatchSummary aggregates one source's outcomes.
type DispatchSummary struct {
	Sent   int
	Failed int
	DryRun int
}

// DispatchService sends composed messages over one shared connection
// per company/source, recording every attempt in the audit trail.
type DispatchService struct {
	dialer   Dialer
	composer *email.Composer
	trail    *audit.Trail
	log      *logrus.Logger
	delay    time.Duration // pacing between recipients, anti-throttling
	dryRun   bool
}

func NewDispatchService(
	dialer Dialer,
	composer *email.Composer,
	trail *audit.Trail,
	log *logrus.Logger,
	delay time.Duration,
	dryRun bool,
) *DispatchService {
	return &DispatchService{
		dialer:   dialer,
		composer: composer,
		trail:    trail,
		log:      log,
		delay:    delay,
		dryRun:   dryRun,
	}
}

// Dispatch processes every recipient for one company/source. Connection
// failure aborts the whole source (no recipients attempted); every
// other failure is isolated per recipient. Returns an error only for
// the connection class.
func (s *DispatchService) Dispatch(
	recipients []employee.Recipient,
	sourceFile, company string,
	cfg config.CompanyConfig,
) (DispatchSummary, error) {
	summary := DispatchSummary{}

	s.log.Infof("[%s] Using CC: %v", company, cfg.CC)
	s.log.Infof("[%s] Using BCC: %v", company, cfg.BCC)

	if s.dryRun {
		s.log.Info("DRY RUN MODE - No emails will be sent")
		for _, rcpt := range recipients {
			outcome := s.dryRunOutcome(rcpt, sourceFile, company, cfg)
			s.record(outcome, sourceFile, company)
			if outcome.Status == audit.StatusSentDryRun {
				summary.DryRun++
			} else {
				summary.Failed++
			}
		}
		s.log.Infof("[%s] Email sending summary: DryRun=%d Failed=%d", company, summary.DryRun, summary.Failed)
		return summary, nil
	}

	sender, err := s.dialer.Connect(cfg)
	if err != nil {
		s.log.Errorf("SMTP connection failed for %s: %v", company, err)
		return summary, errors.Wrapf(err, "SMTP connection for %s", company)
	}
	s.log.Infof("Connected to SMTP server for %s (%s:%d - %s)", company, cfg.SMTPHost, cfg.SMTPPort, cfg.Security)

	for i, rcpt := range recipients {
		outcome := s.sendOne(sender, rcpt, sourceFile, company, cfg)
		s.record(outcome, sourceFile, company)
		if outcome.Status == audit.StatusSent {
			summary.Sent++
		} else {
			summary.Failed++
		}

		// Deliberate pacing between recipients to avoid provider
		// throttling and bulk-sending signatures.
		if i < len(recipients)-1 {
			time.Sleep(s.delay)
		}
	}

	if err := sender.Close(); err != nil {
		s.log.Warnf("Error closing SMTP connection for %s: %v", company, err)
	} else {
		s.log.Info("Disconnected from SMTP server")
	}

	s.log.Infof("[%s] Email sending summary: Sent=%d Failed=%d", company, summary.Sent, summary.Failed)
	return summary, nil
}

func (s *DispatchService) sendOne(
	sender Sender,
	rcpt employee.Recipient,
	sourceFile, company string,
	cfg config.CompanyConfig,
) SendOutcome {
	msg, err := s.composer.Compose(rcpt, sourceFile, company, cfg)
	if err != nil {
		s.log.Errorf("Failed to compose email for %s: %v", rcpt.Email, err)
		return SendOutcome{Recipient: rcpt, Status: audit.StatusFailed, Response: err.Error()}
	}

	wire, err := msg.Bytes()
	if err != nil {
		s.log.Errorf("Failed to render email for %s: %v", rcpt.Email, err)
		return SendOutcome{Recipient: rcpt, Status: audit.StatusFailed, Response: err.Error(), MessageID: msg.MessageID}
	}

	rejected, err := sender.Send(msg.EnvelopeFrom, msg.AllRecipients(), wire)
	if err != nil {
		s.log.Errorf("Failed to send email to %s: %v", rcpt.Email, err)
		return SendOutcome{Recipient: rcpt, Status: audit.StatusFailed, Response: err.Error(), MessageID: msg.MessageID}
	}
	if len(rejected) > 0 {
		detail := formatRejections(rejected)
		s.log.Warnf("Partial failure sending to %s: %s", rcpt.Email, detail)
		return SendOutcome{Recipient: rcpt, Status: audit.StatusPartialFailure, Response: detail, MessageID: msg.MessageID}
	}

	s.log.Infof("Sent birthday email to %s (%s) [%s]", rcpt.Email, rcpt.DisplayName, company)
	return SendOutcome{Recipient: rcpt, Status: audit.StatusSent, Response: "Success", MessageID: msg.MessageID}
}

func (s *DispatchService) dryRunOutcome(
	rcpt employee.Recipient,
	sourceFile, company string,
	cfg config.CompanyConfig,
) SendOutcome {
	msg, err := s.composer.Compose(rcpt, sourceFile, company, cfg)
	if err != nil {
		s.log.Errorf("Failed to compose email for %s: %v", rcpt.Email, err)
		return SendOutcome{Recipient: rcpt, Status: audit.StatusFailed, Response: err.Error()}
	}
	s.log.Infof("DRY RUN: Would send to %s (%s) [%s]", rcpt.Email, rcpt.DisplayName, company)
	return SendOutcome{Recipient: rcpt, Status: audit.StatusSentDryRun, Response: "Dry run mode", MessageID: msg.MessageID}
}

func (s *DispatchService) record(o SendOutcome, sourceFile, company string) {
	s.trail.Record(audit.Entry{
		Recipient:  o.Recipient.Email,
		FirstName:  o.Recipient.DisplayName,
		SourceFile: sourceFile,
		Company:    company,
		Status:     o.Status,
		Response:   o.Response,
		MessageID:  o.MessageID,
	})
}

func formatRejections(rejected []smtp.Rejection) string {
	parts := make([]string, 0, len(rejected))
	for _, r := range rejected {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Addr, r.Reason))
	}
	return strings.Join(parts, "; ")
}
