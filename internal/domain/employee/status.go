package employee

import "strings"

// Status is the employment status resolved from the P_Status column.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusTerminated Status = "TERMINATED"
	StatusOther      Status = "OTHER"
)

// StatusFromCode maps the raw sheet code to a Status. The sheets use
// single-letter codes; anything unrecognized becomes StatusOther.
func StatusFromCode(code string) Status {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "A":
		return StatusActive
	case "T":
		return StatusTerminated
	default:
		return StatusOther
	}
}

// StatusPolicy controls which employment statuses pass the birthday
// filter.
type StatusPolicy string

const (
	PolicyActiveOnly     StatusPolicy = "ACTIVE_ONLY"
	PolicyTerminatedOnly StatusPolicy = "TERMINATED_ONLY"
	PolicyAll            StatusPolicy = "ALL"
)

// ParseStatusPolicy maps the P_STATUS_FILTER env value ("A", "T",
// "BOTH") to a StatusPolicy. The second return reports whether the
// value was recognized; callers fall back to PolicyActiveOnly when it
// was not.
func ParseStatusPolicy(raw string) (StatusPolicy, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "A":
		return PolicyActiveOnly, true
	case "T":
		return PolicyTerminatedOnly, true
	case "BOTH":
		return PolicyAll, true
	default:
		return PolicyActiveOnly, false
	}
}

// Matches reports whether a record with the given status passes the
// policy.
func (p StatusPolicy) Matches(s Status) bool {
	switch p {
	case PolicyActiveOnly:
		return s == StatusActive
	case PolicyTerminatedOnly:
		return s == StatusTerminated
	case PolicyAll:
		return true
	default:
		return s == StatusActive
	}
}
