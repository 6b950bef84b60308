package excel

import "strings"

// Canonical column names shared by the three sheets.
const (
	ColEmpID     = "Emp_Id"
	ColFirstName = "First_Name"
	ColLastName  = "Last_Name"
	ColDOB       = "DOB"
	ColEmail     = "P_Email1"
	ColStatus    = "P_Status"
)

// compactReplacer strips the punctuation and spacing that vary between
// surface header spellings ("Emp ID", "emp_id", "Emp-Id", ...).
var compactReplacer = strings.NewReplacer("_", "", " ", "", "-", "", ".", "")

// canonicalColumn maps a surface header name to its canonical column,
// case- and punctuation-insensitively. The second return is false for
// headers outside the canonical schema; those columns are ignored.
func canonicalColumn(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	compact := compactReplacer.Replace(strings.ToLower(trimmed))

	switch {
	case strings.Contains(compact, "firstname"):
		return ColFirstName, true
	case strings.Contains(compact, "lastname"):
		return ColLastName, true
	case strings.Contains(compact, "emp") && strings.Contains(compact, "id"):
		return ColEmpID, true
	case compact == "dob" || compact == "dateofbirth" || compact == "birthdate":
		return ColDOB, true
	case compact == "pemail1" || compact == "primaryemail":
		return ColEmail, true
	case strings.Contains(compact, "pstatus") || compact == "status":
		return ColStatus, true
	}
	return "", false
}

// headerIndex maps canonical column names to their position in the
// header row. The first header matching a canonical column wins.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		canonical, ok := canonicalColumn(h)
		if !ok {
			continue
		}
		if _, seen := idx[canonical]; !seen {
			idx[canonical] = i
		}
	}
	return idx
}

// cell returns the value at position i, tolerating the ragged rows
// excelize produces when trailing cells are empty.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
