package grammar

import (
	"strconv"
	"strings"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

// ParseAmount parses a locale-formatted monetary value: the thousands
// separator '.' is stripped and the decimal separator ',' becomes the
// canonical decimal point. "1.234,56" -> 1234.56, "1.234" -> 1234.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, common.MalformedNumberError("amount", raw)
	}
	return v, nil
}

// MandatoryAmount parses raw for a mandatory field, attributing the error.
func MandatoryAmount(field, raw string) (float64, error) {
	v, err := ParseAmount(raw)
	if err != nil {
		return 0, common.MalformedNumberError(field, raw)
	}
	return v, nil
}

// OptionalAmount parses raw for an optional field; an unparsable or empty
// value is simply absent.
func OptionalAmount(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return nil
	}
	return &v
}
