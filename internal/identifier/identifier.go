// Package identifier derives structural facts from GSTIN and PAN strings.
//
// Every function is total: missing, short or malformed identifiers yield an
// "unknown" or false result instead of an error.
package identifier

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	minJurisdictionCode = 1
	maxJurisdictionCode = 99

	// governmentFlagPos is the 0-indexed position of the entity-class character
	governmentFlagPos = 3
	governmentFlag    = 'G'

	gstinLength = 15
	panLength   = 10
)

// Facts holds everything derivable from a single identifier
type Facts struct {
	Normalized       string
	JurisdictionCode int
	JurisdictionOK   bool
	StateName        string
	IsGovernment     bool
	EmbeddedPAN      string
}

// Normalize trims, uppercases and strips all whitespace from an identifier
func Normalize(id string) string {
	if id == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, id)
}

// JurisdictionCodeOf parses the two-digit jurisdiction prefix of a GSTIN.
// The boolean is false when the code cannot be established.
func JurisdictionCodeOf(id string) (int, bool) {
	n := Normalize(id)
	if len(n) < 2 {
		return 0, false
	}
	prefix := n[:2]
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < '0' || prefix[i] > '9' {
			return 0, false
		}
	}
	code, err := strconv.Atoi(prefix)
	if err != nil || code < minJurisdictionCode || code > maxJurisdictionCode {
		return 0, false
	}
	return code, true
}

// IsGovernmentEntity reports whether the entity-class character is 'G'.
// Positions count characters, not bytes.
func IsGovernmentEntity(id string) bool {
	runes := []rune(Normalize(id))
	if len(runes) <= governmentFlagPos {
		return false
	}
	return runes[governmentFlagPos] == governmentFlag
}

// SameJurisdiction reports whether both identifiers carry the same known
// jurisdiction code. Unknown on either side means false.
func SameJurisdiction(a, b string) bool {
	codeA, okA := JurisdictionCodeOf(a)
	if !okA {
		return false
	}
	codeB, okB := JurisdictionCodeOf(b)
	if !okB {
		return false
	}
	return codeA == codeB
}

// Parse derives all facts from an identifier at once
func Parse(id string) Facts {
	n := Normalize(id)
	facts := Facts{
		Normalized:   n,
		IsGovernment: IsGovernmentEntity(n),
	}
	if code, ok := JurisdictionCodeOf(n); ok {
		facts.JurisdictionCode = code
		facts.JurisdictionOK = true
		facts.StateName = StateName(code)
	}
	// GSTIN positions 2-11 carry the holder's PAN
	if runes := []rune(n); len(runes) == gstinLength {
		facts.EmbeddedPAN = string(runes[2 : 2+panLength])
	}
	return facts
}
