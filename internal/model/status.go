package model

import "strings"

// Status is the policy lifecycle state. The internal tokens are machine
// values; the sheet shows the human spelling (see RenderStatus).
type Status string

const (
	StatusDue        Status = "due"
	StatusRenewed    Status = "renewed"
	StatusInProcess  Status = "inprocess"
	StatusNotRenewed Status = "not-renewed"
)

// ParseStatus maps a sheet cell to the internal status token. "IN PROCESS",
// "in-process" and "INPROCESS" all parse to inprocess. A value outside the
// known vocabulary is kept as-is (lowercased) rather than discarded, so a
// novel sheet value survives the round trip untouched.
func ParseStatus(s string) Status {
	switch squash(s) {
	case "due", "pending":
		return StatusDue
	case "renewed", "done":
		return StatusRenewed
	case "inprocess", "inproc", "processing":
		return StatusInProcess
	case "notrenewed", "lost", "lapsed":
		return StatusNotRenewed
	case "":
		return StatusDue
	default:
		return Status(strings.ToLower(clean(s)))
	}
}

// RenderStatus converts the internal token to the sheet spelling. Only
// inprocess differs: agents read "IN PROCESS" on the sheet.
func RenderStatus(s Status) string {
	if s == StatusInProcess {
		return "IN PROCESS"
	}
	return string(s)
}
