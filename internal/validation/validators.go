// Package validation holds the structural field validators used by every
// master-data and invoice-entry form. Validators never fail: they return a
// verdict, a ready-to-display message and the cleaned value.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Result is the verdict for a single field value
type Result struct {
	Valid      bool   `json:"valid"`
	Message    string `json:"message,omitempty"`
	Normalized string `json:"normalized,omitempty"`
}

// Validator validates one raw field value
type Validator func(raw string) Result

func ok(normalized string) Result {
	return Result{Valid: true, Normalized: normalized}
}

func reject(normalized, format string, args ...interface{}) Result {
	return Result{Valid: false, Message: fmt.Sprintf(format, args...), Normalized: normalized}
}

var (
	gstinPattern   = regexp.MustCompile(`^[A-Z0-9]{15}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	accountPattern = regexp.MustCompile(`^[0-9]{9,18}$`)
	micrPattern    = regexp.MustCompile(`^[0-9]{9}$`)
)

// compact uppercases and drops all whitespace
func compact(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
}

func digitsOnly(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// ValidateGSTIN checks a 15-character alphanumeric registration identifier
func ValidateGSTIN(raw string) Result {
	v := compact(raw)
	if v == "" {
		return reject(v, "GSTIN is required")
	}
	if len(v) != 15 {
		return reject(v, "GSTIN must be exactly 15 characters")
	}
	if !gstinPattern.MatchString(v) {
		return reject(v, "GSTIN may contain only letters and digits")
	}
	return ok(v)
}

// ValidatePAN checks a permanent account number: 5 letters, 4 digits and a
// trailing letter other than 'O'
func ValidatePAN(raw string) Result {
	v := compact(raw)
	if v == "" {
		return reject(v, "PAN is required")
	}
	if !panPattern.MatchString(v) {
		return reject(v, "PAN must be 5 letters, 4 digits and 1 letter (e.g. ABCPG1234D)")
	}
	if v[len(v)-1] == 'O' {
		return reject(v, "PAN cannot end with the letter O")
	}
	return ok(v)
}

// ValidatePostalCode checks a 6-digit PIN code
func ValidatePostalCode(raw string) Result {
	v := digitsOnly(raw)
	if v == "" {
		return reject(v, "PIN code is required")
	}
	if len(v) != 6 {
		return reject(v, "PIN code must be exactly 6 digits")
	}
	return ok(v)
}

// ValidateContactNumber checks a 10-digit mobile number starting with 6-9
func ValidateContactNumber(raw string) Result {
	v := digitsOnly(raw)
	if v == "" {
		return reject(v, "Contact number is required")
	}
	if len(v) != 10 {
		return reject(v, "Contact number must be exactly 10 digits")
	}
	if v[0] < '6' {
		return reject(v, "Contact number must start with 6, 7, 8 or 9")
	}
	return ok(v)
}

// ValidateEmail checks the local@domain.tld shape
func ValidateEmail(raw string) Result {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return reject(v, "Email is required")
	}
	if !emailPattern.MatchString(v) {
		return reject(v, "Enter a valid email address")
	}
	return ok(v)
}

// ValidateIFSC checks a bank routing code: 4 letters, '0', 6 alphanumerics
func ValidateIFSC(raw string) Result {
	v := compact(raw)
	if v == "" {
		return reject(v, "IFSC code is required")
	}
	if len(v) != 11 {
		return reject(v, "IFSC code must be exactly 11 characters")
	}
	if !ifscPattern.MatchString(v) {
		return reject(v, "IFSC code must be 4 letters, 0, then 6 letters or digits")
	}
	return ok(v)
}

// ValidateAccountNumber checks a 9-18 digit bank account number
func ValidateAccountNumber(raw string) Result {
	v := compact(raw)
	if v == "" {
		return reject(v, "Account number is required")
	}
	if !accountPattern.MatchString(v) {
		return reject(v, "Account number must be 9 to 18 digits")
	}
	return ok(v)
}

// ValidateMICR checks a 9-digit bank sort code
func ValidateMICR(raw string) Result {
	v := compact(raw)
	if v == "" {
		return reject(v, "MICR code is required")
	}
	if !micrPattern.MatchString(v) {
		return reject(v, "MICR code must be exactly 9 digits")
	}
	return ok(v)
}

// ValidateGSTRate checks a percentage between 0 and 100
func ValidateGSTRate(raw string) Result {
	v := strings.TrimSpace(raw)
	if v == "" {
		return reject(v, "GST rate is required")
	}
	rate, err := decimal.NewFromString(v)
	if err != nil {
		return reject(v, "GST rate must be a number")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return reject(rate.String(), "GST rate must be between 0 and 100")
	}
	return ok(rate.String())
}

// ValidateAmount checks a non-negative amount; thousands separators are ignored
func ValidateAmount(raw string) Result {
	v := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if v == "" {
		return reject(v, "Amount is required")
	}
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return reject(v, "Amount must be a number")
	}
	if amount.IsNegative() {
		return reject(amount.String(), "Amount cannot be negative")
	}
	return ok(amount.String())
}

// ValidateCodeInRange checks an integer code between min and max inclusive.
// The normalized value is zero-padded to the width of max.
func ValidateCodeInRange(raw string, min, max int) Result {
	v := strings.TrimSpace(raw)
	if v == "" {
		return reject(v, "Code is required")
	}
	if digitsOnly(v) != v {
		return reject(v, "Code must contain only digits")
	}
	code, err := decimal.NewFromString(v)
	if err != nil || !code.IsInteger() {
		return reject(v, "Code must be a whole number")
	}
	if code.LessThan(decimal.NewFromInt(int64(min))) || code.GreaterThan(decimal.NewFromInt(int64(max))) {
		return reject(v, "Code must be between %d and %d", min, max)
	}
	width := len(fmt.Sprint(max))
	return ok(fmt.Sprintf("%0*d", width, code.IntPart()))
}

// ValidateStateCode checks a GST jurisdiction code (1-99)
func ValidateStateCode(raw string) Result {
	return ValidateCodeInRange(raw, 1, 99)
}
