package employee

import (
	"time"
)

// Record is one row of the Confidential sheet after normalization.
// Identity is EmpID; records are never mutated after loading.
type Record struct {
	EmpID       string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
}

// Contact is one row of the Contact Details sheet. At most one contact
// is used per employee; when the sheet carries duplicates the first
// match wins.
type Contact struct {
	EmpID        string
	FirstName    string
	LastName     string
	PrimaryEmail string
}

// StatusRecord is one row of the Employee Status sheet.
type StatusRecord struct {
	EmpID  string
	Status Status
}

// Recipient is the final, validated send-list entry derived from a
// Record joined with its Contact.
type Recipient struct {
	DisplayName string
	Email       string
}
