package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalColumn(t *testing.T) {
	cases := []struct {
		in        string
		canonical string
		ok        bool
	}{
		{"Emp_Id", ColEmpID, true},
		{"EMPLOYEE ID", ColEmpID, true},
		{"emp-id", ColEmpID, true},
		{"First_Name", ColFirstName, true},
		{"first name", ColFirstName, true},
		{"Employee First Name", ColFirstName, true},
		{"LastName", ColLastName, true},
		{"LAST_NAME", ColLastName, true},
		{"DOB", ColDOB, true},
		{"D.O.B.", ColDOB, true},
		{"Date of Birth", ColDOB, true},
		{"P_Email1", ColEmail, true},
		{"p email1", ColEmail, true},
		{"Primary Email", ColEmail, true},
		{"P_Status", ColStatus, true},
		{"Status", ColStatus, true},
		{"Shoe Size", "", false},
	}
	for _, tc := range cases {
		got, ok := canonicalColumn(tc.in)
		assert.Equal(t, tc.ok, ok, "column %q", tc.in)
		assert.Equal(t, tc.canonical, got, "column %q", tc.in)
	}
}

func TestHeaderIndexFirstMatchWins(t *testing.T) {
	idx := headerIndex([]string{"Emp ID", "Employee_Id", "First Name"})
	assert.Equal(t, 0, idx[ColEmpID])
	assert.Equal(t, 2, idx[ColFirstName])
}

func TestCellToleratesRaggedRows(t *testing.T) {
	row := []string{"100", " Jane "}
	assert.Equal(t, "100", cell(row, 0))
	assert.Equal(t, "Jane", cell(row, 1))
	assert.Equal(t, "", cell(row, 5))
}

func TestParseDOB(t *testing.T) {
	for _, raw := range []string{"1985-10-24", "10/24/1985", "24-Oct-1985", "October 24, 1985"} {
		dob, ok := parseDOB(raw)
		assert.True(t, ok, "raw %q", raw)
		assert.Equal(t, 1985, dob.Year(), "raw %q", raw)
		assert.Equal(t, 24, dob.Day(), "raw %q", raw)
	}

	_, ok := parseDOB("not a date")
	assert.False(t, ok)
	_, ok = parseDOB("")
	assert.False(t, ok)
}
