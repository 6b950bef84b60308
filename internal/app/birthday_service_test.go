package app

import (
	"testing"
	"time"

	"birthday_notifier/internal/domain/employee"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBirthdayMatchIsYearAgnostic(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewBirthdayService(log)

	records := []employee.Record{
		{EmpID: "100", FirstName: "Jane", DateOfBirth: date(1985, time.October, 24)},
		{EmpID: "101", FirstName: "Bob", DateOfBirth: date(1985, time.October, 25)},
	}
	statuses := []employee.StatusRecord{
		{EmpID: "100", Status: employee.StatusActive},
		{EmpID: "101", Status: employee.StatusActive},
	}

	matches := svc.FilterTodaysBirthdays(records, statuses, date(2026, time.October, 24), "A")
	require.Len(t, matches, 1)
	assert.Equal(t, "100", matches[0].EmpID)
}

func TestStatusPolicyFiltering(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewBirthdayService(log)

	today := date(2026, time.October, 24)
	records := []employee.Record{
		{EmpID: "1", DateOfBirth: date(1980, time.October, 24)},
		{EmpID: "2", DateOfBirth: date(1981, time.October, 24)},
		{EmpID: "3", DateOfBirth: date(1982, time.October, 24)},
	}
	statuses := []employee.StatusRecord{
		{EmpID: "1", Status: employee.StatusActive},
		{EmpID: "2", Status: employee.StatusTerminated},
		{EmpID: "3", Status: employee.StatusOther},
	}

	active := svc.FilterTodaysBirthdays(records, statuses, today, "A")
	require.Len(t, active, 1)
	assert.Equal(t, "1", active[0].EmpID)

	terminated := svc.FilterTodaysBirthdays(records, statuses, today, "T")
	require.Len(t, terminated, 1)
	assert.Equal(t, "2", terminated[0].EmpID)

	all := svc.FilterTodaysBirthdays(records, statuses, today, "BOTH")
	assert.Len(t, all, 3)
}

func TestUnrecognizedPolicyBehavesLikeActiveOnlyWithWarning(t *testing.T) {
	log, hook := test.NewNullLogger()
	svc := NewBirthdayService(log)

	today := date(2026, time.October, 24)
	records := []employee.Record{
		{EmpID: "1", DateOfBirth: date(1980, time.October, 24)},
		{EmpID: "2", DateOfBirth: date(1981, time.October, 24)},
	}
	statuses := []employee.StatusRecord{
		{EmpID: "1", Status: employee.StatusActive},
		{EmpID: "2", Status: employee.StatusTerminated},
	}

	matches := svc.FilterTodaysBirthdays(records, statuses, today, "WHATEVER")
	require.Len(t, matches, 1)
	assert.Equal(t, "1", matches[0].EmpID)

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned, "unrecognized policy should emit a warning")
}

func TestRecordWithoutStatusRowExcludedByActiveOnly(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewBirthdayService(log)

	today := date(2026, time.October, 24)
	records := []employee.Record{
		{EmpID: "9", DateOfBirth: date(1990, time.October, 24)},
	}

	assert.Empty(t, svc.FilterTodaysBirthdays(records, nil, today, "A"))
	assert.Len(t, svc.FilterTodaysBirthdays(records, nil, today, "BOTH"), 1)
}

func TestResolveRecipientsJoinValidateDedup(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewBirthdayService(log)

	matches := []employee.Record{
		{EmpID: "1", FirstName: "jane"},
		{EmpID: "2", FirstName: "bob"},  // same address as 1, dropped by dedup
		{EmpID: "3", FirstName: "ann"},  // invalid address
		{EmpID: "4", FirstName: "carl"}, // no contact row
		{EmpID: "5", FirstName: "eve"},
	}
	contacts := []employee.Contact{
		{EmpID: "1", FirstName: "JANE", PrimaryEmail: "shared@acme.example"},
		{EmpID: "2", FirstName: "Bob", PrimaryEmail: "shared@acme.example"},
		{EmpID: "3", FirstName: "Ann", PrimaryEmail: "foo@@bar"},
		{EmpID: "5", PrimaryEmail: "eve@acme.example"},
	}

	recipients := svc.ResolveRecipients(matches, contacts)
	require.Len(t, recipients, 2)

	// Dedup keeps the first occurrence, with the contact-sheet name
	// title-cased.
	assert.Equal(t, "shared@acme.example", recipients[0].Email)
	assert.Equal(t, "Jane", recipients[0].DisplayName)

	// Contact row without a first name falls back to the confidential
	// sheet's name.
	assert.Equal(t, "eve@acme.example", recipients[1].Email)
	assert.Equal(t, "Eve", recipients[1].DisplayName)
}

func TestInvalidEmailSyntaxNeverReachesRecipients(t *testing.T) {
	log, hook := test.NewNullLogger()
	svc := NewBirthdayService(log)

	matches := []employee.Record{
		{EmpID: "1", FirstName: "Ann"},
		{EmpID: "2", FirstName: "Bob"},
	}
	contacts := []employee.Contact{
		{EmpID: "1", FirstName: "Ann", PrimaryEmail: "foo@@bar"},
		{EmpID: "2", FirstName: "Bob", PrimaryEmail: "notanemail"},
	}

	recipients := svc.ResolveRecipients(matches, contacts)
	assert.Empty(t, recipients)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.GreaterOrEqual(t, warnings, 2)
}

func TestActiveOnlyScenarioOneOfTwoBirthdays(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewBirthdayService(log)

	today := date(2026, time.June, 1)
	records := []employee.Record{
		{EmpID: "10", FirstName: "Active", DateOfBirth: date(1990, time.June, 1)},
		{EmpID: "11", FirstName: "Gone", DateOfBirth: date(1991, time.June, 1)},
	}
	statuses := []employee.StatusRecord{
		{EmpID: "10", Status: employee.StatusActive},
		{EmpID: "11", Status: employee.StatusTerminated},
	}
	contacts := []employee.Contact{
		{EmpID: "10", FirstName: "Active", PrimaryEmail: "active@acme.example"},
		{EmpID: "11", FirstName: "Gone", PrimaryEmail: "gone@acme.example"},
	}

	matches := svc.FilterTodaysBirthdays(records, statuses, today, "A")
	recipients := svc.ResolveRecipients(matches, contacts)

	require.Len(t, recipients, 1)
	assert.Equal(t, "active@acme.example", recipients[0].Email)
}
