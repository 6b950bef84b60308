package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Statuses recorded in the audit trail.
const (
	StatusSent           = "Sent"
	StatusSentDryRun     = "Sent (Dry Run)"
	StatusPartialFailure = "Partial Failure"
	StatusFailed         = "Failed"
)

var header = []string{
	"Timestamp", "Recipient", "First_Name", "Source_File",
	"Company", "Status", "Response", "Message_ID", "Spam_Score",
}

// Entry is one append-only audit row. SpamScore defaults to "N/A"; the
// pipeline records the column but never computes a score.
type Entry struct {
	Recipient  string
	FirstName  string
	SourceFile string
	Company    string
	Status     string
	Response   string
	MessageID  string
	SpamScore  string
}

// Trail writes one CSV file per calendar day. Each row is written with
// its own open/append/close so no handle is held across the run; that
// is safe for this system's strictly sequential writer but not for
// concurrent ones.
type Trail struct {
	dir string
	log *logrus.Logger
	now func() time.Time
}

func NewTrail(dir string, log *logrus.Logger) *Trail {
	return &Trail{dir: dir, log: log, now: time.Now}
}

// Record appends one row to today's file, creating it (with header) on
// first write. Write failures are logged, never fatal: losing an audit
// row must not abort a send run.
func (t *Trail) Record(e Entry) {
	if e.SpamScore == "" {
		e.SpamScore = "N/A"
	}

	now := t.now()
	path := filepath.Join(t.dir, "birthday_sends_"+now.Format("2006-01-02")+".csv")

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		t.log.Errorf("Error creating audit log directory: %v", err)
		return
	}

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.log.Errorf("Error opening audit log file: %v", err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			t.log.Errorf("Error writing audit log header: %v", err)
			return
		}
	}
	row := []string{
		now.Format("2006-01-02 15:04:05"),
		e.Recipient,
		e.FirstName,
		filepath.Base(e.SourceFile),
		e.Company,
		e.Status,
		e.Response,
		e.MessageID,
		e.SpamScore,
	}
	if err := w.Write(row); err != nil {
		t.log.Errorf("Error writing to audit log file: %v", err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.log.Errorf("Error flushing audit log file: %v", err)
	}
}
