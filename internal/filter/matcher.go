package filter

import (
	"strings"
	"unicode"

	"go-shift-hunter/internal/scraper"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Criteria are the static rules a listing has to pass before we apply.
type Criteria struct {
	// EmploymentTypes are accepted substrings of the "Type: ..." line.
	EmploymentTypes []string `yaml:"employment_types"`
	// ZeroShiftMarker in the shift line means nothing is bookable.
	ZeroShiftMarker string `yaml:"zero_shift_marker"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		EmploymentTypes: []string{"full time", "flex time"},
		ZeroShiftMarker: "0 shift",
	}
}

type Matcher struct {
	types      []string
	zeroShifts string
}

func NewMatcher(c Criteria) *Matcher {
	m := &Matcher{zeroShifts: normalizeText(c.ZeroShiftMarker)}
	for _, t := range c.EmploymentTypes {
		if t = normalizeText(t); t != "" {
			m.types = append(m.types, t)
		}
	}
	return m
}

func (m *Matcher) Matches(l scraper.Listing) bool {
	return m.Reason(l) == ""
}

// Reason explains why a listing is rejected, or returns "" when it matches.
func (m *Matcher) Reason(l scraper.Listing) string {
	jobType := normalizeText(l.EmploymentType)
	if jobType == "" || !m.acceptedType(jobType) {
		return "invalid type -> " + l.EmploymentType
	}

	shifts := normalizeText(l.ShiftAvailability)
	if shifts == "" || (m.zeroShifts != "" && strings.Contains(shifts, m.zeroShifts)) {
		return "no available shifts"
	}
	return ""
}

func (m *Matcher) acceptedType(jobType string) bool {
	for _, t := range m.types {
		if strings.Contains(jobType, t) {
			return true
		}
	}
	return false
}

// normalizeText lowercases, strips accents and collapses whitespace.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(strings.Join(strings.Fields(result), " "))
}
