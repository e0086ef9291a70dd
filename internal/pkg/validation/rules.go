package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// National identity document - 6 to 12 digits
	DocumentPattern = `^\d{6,12}$`

	// Group code - letters, digits and dashes, e.g. "6A" or "10-2"
	GroupCodePattern = `^[A-Za-z0-9\-]{1,10}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100
)

// Score range for academic grading
const (
	ScoreMin = 0.0
	ScoreMax = 5.0
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	Document  *regexp.Regexp
	GroupCode *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	Document:  regexp.MustCompile(DocumentPattern),
	GroupCode: regexp.MustCompile(GroupCodePattern),
}

// StringValidation validates a string value against composable rules
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// ValidScore reports whether a grade value is inside the allowed range
func ValidScore(value float64) bool {
	return value >= ScoreMin && value <= ScoreMax
}
