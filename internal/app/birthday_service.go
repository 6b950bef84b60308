package app

import (
	"strings"
	"time"

	"birthday_notifier/internal/domain/employee"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BirthdayService selects today's birthday people and resolves them
// into a validated, deduplicated recipient list.
type BirthdayService struct {
	log    *logrus.Logger
	titler cases.Caser
}

func NewBirthdayService(log *logrus.Logger) *BirthdayService {
	return &BirthdayService{
		log:    log,
		titler: cases.Title(language.English),
	}
}

// FilterTodaysBirthdays selects records whose birth month and day equal
// today's (the year is ignored, so matches recur annually) and applies
// the status policy via a left join on Emp_Id. An empty result is a
// normal stop for the source, not an error.
func (s *BirthdayService) FilterTodaysBirthdays(
	records []employee.Record,
	statuses []employee.StatusRecord,
	today time.Time,
	rawPolicy string,
) []employee.Record {
	policy, recognized := employee.ParseStatusPolicy(rawPolicy)
	if !recognized {
		s.log.Warnf("Invalid P_STATUS_FILTER value: %s. Using A (Active only).", rawPolicy)
	}
	switch policy {
	case employee.PolicyActiveOnly:
		s.log.Info("Filtering for P_Status = 'A' (Active) only")
	case employee.PolicyTerminatedOnly:
		s.log.Info("Filtering for P_Status = 'T' (Terminated) only")
	case employee.PolicyAll:
		s.log.Info("Including all P_Status values (A, T, and others)")
	}

	// First status row per employee wins.
	statusByID := make(map[string]employee.Status, len(statuses))
	for _, st := range statuses {
		if _, seen := statusByID[st.EmpID]; !seen {
			statusByID[st.EmpID] = st.Status
		}
	}

	var matches []employee.Record
	for _, rec := range records {
		if rec.DateOfBirth.Month() != today.Month() || rec.DateOfBirth.Day() != today.Day() {
			continue
		}
		if !policy.Matches(statusByID[rec.EmpID]) {
			continue
		}
		matches = append(matches, rec)
	}

	s.log.Infof("Found %d birthdays on %s", len(matches), today.Format("2006-01-02"))
	for _, rec := range matches {
		s.log.Infof("Birthday Person: Emp_Id=%s, Name=%s %s, DOB=%s, P_Status=%s",
			rec.EmpID, rec.FirstName, rec.LastName,
			rec.DateOfBirth.Format("2006-01-02"), statusByID[rec.EmpID])
	}
	return matches
}

// ResolveRecipients joins the filtered birthday records with the
// contact table, validates email syntax, and deduplicates by address
// (first occurrence wins, order preserved). Invalid addresses are
// logged and excluded without failing the run.
func (s *BirthdayService) ResolveRecipients(
	matches []employee.Record,
	contacts []employee.Contact,
) []employee.Recipient {
	// First contact row per employee wins.
	contactByID := make(map[string]employee.Contact, len(contacts))
	for _, ct := range contacts {
		if _, seen := contactByID[ct.EmpID]; !seen {
			contactByID[ct.EmpID] = ct
		}
	}

	var recipients []employee.Recipient
	seen := make(map[string]bool)
	invalid := 0

	for _, rec := range matches {
		contact, found := contactByID[rec.EmpID]

		name := rec.FirstName
		if found && contact.FirstName != "" {
			name = contact.FirstName
		}
		name = s.titler.String(strings.ToLower(name))

		address := ""
		if found {
			address = contact.PrimaryEmail
		}

		validation := mailvalidate.ValidateEmailSyntax(address)
		if !validation.IsValid {
			invalid++
			s.log.Warnf("Invalid email address: Emp_Id=%s, Name=%s, Email=%q", rec.EmpID, name, address)
			continue
		}

		if seen[address] {
			continue
		}
		seen[address] = true
		recipients = append(recipients, employee.Recipient{DisplayName: name, Email: address})
	}

	s.log.Infof("After email validation and deduplication: %d recipients", len(recipients))
	for _, r := range recipients {
		s.log.Infof("Final recipient: Name=%s, Email=%s", r.DisplayName, r.Email)
	}
	return recipients
}
