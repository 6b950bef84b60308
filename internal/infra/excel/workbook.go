package excel

import (
	"fmt"
	"strconv"
	"time"

	"birthday_notifier/internal/domain/employee"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Sheet names expected in every workbook.
const (
	SheetConfidential = "Confidential"
	SheetContact      = "Contact Details"
	SheetStatus       = "Employee Status"
)

// SchemaError reports a required canonical column missing from a sheet
// after normalization.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column '%s' not found in %s", e.Column, e.Sheet)
}

// Tables holds the three normalized tables of one workbook.
type Tables struct {
	Employees []employee.Record
	Contacts  []employee.Contact
	Statuses  []employee.StatusRecord
}

// Loader reads workbooks into typed, normalized tables.
type Loader struct {
	log *logrus.Logger
}

func NewLoader(log *logrus.Logger) *Loader {
	return &Loader{log: log}
}

// Load opens the workbook and normalizes the three required sheets.
// Rows whose date of birth cannot be parsed are dropped, not errored;
// that leniency is deliberate and mirrors upstream HR exports full of
// free-form dates.
func (l *Loader) Load(path string) (*Tables, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	tables := &Tables{}

	if tables.Employees, err = l.loadConfidential(f); err != nil {
		return nil, err
	}
	if tables.Contacts, err = l.loadContacts(f); err != nil {
		return nil, err
	}
	if tables.Statuses, err = l.loadStatuses(f); err != nil {
		return nil, err
	}

	l.log.Infof("Loaded %d records from %s sheet", len(tables.Employees), SheetConfidential)
	l.log.Infof("Loaded %d records from %s sheet", len(tables.Contacts), SheetContact)
	l.log.Infof("Loaded %d records from %s sheet", len(tables.Statuses), SheetStatus)

	return tables, nil
}

func (l *Loader) loadConfidential(f *excelize.File) ([]employee.Record, error) {
	rows, idx, err := sheetRows(f, SheetConfidential, ColEmpID, ColFirstName, ColLastName, ColDOB)
	if err != nil {
		return nil, err
	}

	var out []employee.Record
	dropped := 0
	for _, row := range rows {
		id := cell(row, idx[ColEmpID])
		if id == "" {
			continue
		}
		dob, ok := parseDOB(cell(row, idx[ColDOB]))
		if !ok {
			dropped++
			l.log.Debugf("Dropping Emp_Id=%s: unparseable DOB %q", id, cell(row, idx[ColDOB]))
			continue
		}
		out = append(out, employee.Record{
			EmpID:       id,
			FirstName:   cell(row, idx[ColFirstName]),
			LastName:    cell(row, idx[ColLastName]),
			DateOfBirth: dob,
		})
	}
	if dropped > 0 {
		l.log.Warnf("Dropped %d %s rows with unparseable DOB values", dropped, SheetConfidential)
	}
	return out, nil
}

func (l *Loader) loadContacts(f *excelize.File) ([]employee.Contact, error) {
	rows, idx, err := sheetRows(f, SheetContact, ColEmpID, ColFirstName, ColLastName, ColEmail)
	if err != nil {
		return nil, err
	}

	var out []employee.Contact
	for _, row := range rows {
		id := cell(row, idx[ColEmpID])
		if id == "" {
			continue
		}
		out = append(out, employee.Contact{
			EmpID:        id,
			FirstName:    cell(row, idx[ColFirstName]),
			LastName:     cell(row, idx[ColLastName]),
			PrimaryEmail: cell(row, idx[ColEmail]),
		})
	}
	return out, nil
}

func (l *Loader) loadStatuses(f *excelize.File) ([]employee.StatusRecord, error) {
	rows, idx, err := sheetRows(f, SheetStatus, ColEmpID, ColFirstName, ColLastName, ColStatus)
	if err != nil {
		return nil, err
	}

	var out []employee.StatusRecord
	for _, row := range rows {
		id := cell(row, idx[ColEmpID])
		if id == "" {
			continue
		}
		out = append(out, employee.StatusRecord{
			EmpID:  id,
			Status: employee.StatusFromCode(cell(row, idx[ColStatus])),
		})
	}
	return out, nil
}

// sheetRows returns the data rows of a sheet plus the canonical column
// index, validating that every required column survived normalization.
func sheetRows(f *excelize.File, sheet string, required ...string) ([][]string, map[string]int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, nil, &SchemaError{Sheet: sheet, Column: required[0]}
	}

	idx := headerIndex(rows[0])
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, nil, &SchemaError{Sheet: sheet, Column: col}
		}
	}
	return rows[1:], idx, nil
}

// dobLayouts covers the date spellings seen in the HR exports. Parsing
// is best effort; anything unmatched drops the row.
var dobLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

func parseDOB(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	// Excel serial date, in case the cell came through unformatted.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
