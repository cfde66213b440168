package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextRule bounds a free-text field's length and character set
type TextRule struct {
	Label       string
	Min         int
	Max         int
	AllowDigits bool
	Punctuation string
}

var (
	NameRule    = TextRule{Label: "Name", Min: 2, Max: 100, Punctuation: ".'-&"}
	CityRule    = TextRule{Label: "City", Min: 2, Max: 50, Punctuation: ".-"}
	AddressRule = TextRule{
		Label: "Address", Min: 5, Max: 250, AllowDigits: true,
		Punctuation: ",.-/#()&':",
	}
	DescriptionRule = TextRule{
		Label: "Description", Min: 1, Max: 500, AllowDigits: true,
		Punctuation: ",.-/()&':;%!?@#+",
	}
)

// Validate collapses runs of whitespace and checks the rule
func (r TextRule) Validate(raw string) Result {
	v := strings.Join(strings.Fields(raw), " ")
	if v == "" {
		return reject(v, "%s is required", r.Label)
	}
	n := utf8.RuneCountInString(v)
	if n < r.Min {
		return reject(v, "%s must be at least %d characters", r.Label, r.Min)
	}
	if n > r.Max {
		return reject(v, "%s must be at most %d characters", r.Label, r.Max)
	}
	for _, c := range v {
		if !r.allows(c) {
			return reject(v, "%s contains an invalid character %q", r.Label, c)
		}
	}
	return ok(v)
}

func (r TextRule) allows(c rune) bool {
	switch {
	case unicode.IsLetter(c), c == ' ':
		return true
	case unicode.IsDigit(c):
		return r.AllowDigits
	default:
		return strings.ContainsRune(r.Punctuation, c)
	}
}

// ValidateName checks a person or organisation name
func ValidateName(raw string) Result { return NameRule.Validate(raw) }

// ValidateAddress checks a postal address line
func ValidateAddress(raw string) Result { return AddressRule.Validate(raw) }

// ValidateCity checks a city name
func ValidateCity(raw string) Result { return CityRule.Validate(raw) }

// ValidateDescription checks a free-form description
func ValidateDescription(raw string) Result { return DescriptionRule.Validate(raw) }
