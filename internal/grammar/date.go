package grammar

import (
	"regexp"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

// Free-text grammars emit issue dates as DDMMYYYY; both recognized input
// forms converge on it.
var (
	longDateRe  = regexp.MustCompile(`(\d{1,2})\s*(?:DE|-)\s*([A-ZÑ]+)\s+DEL?\s+(\d{4})`)
	slashDateRe = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
)

// NormalizeDate recognizes either "<day> DE <month-name> DEL <year>" (and
// the OCR variant "<day> - <month-name> DE <year>") or "dd/mm/yyyy", and
// composes the canonical DDMMYYYY string.
func NormalizeDate(raw string) (string, error) {
	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		return m[1] + m[2] + m[3], nil
	}
	if m := longDateRe.FindStringSubmatch(raw); m != nil {
		month, ok := noise.Months[m[2]]
		if !ok {
			return "", common.MalformedDateError("issue_date", raw)
		}
		day := m[1]
		if len(day) == 1 {
			day = "0" + day
		}
		return day + month + m[3], nil
	}
	return "", common.MalformedDateError("issue_date", raw)
}
