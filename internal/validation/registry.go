package validation

import "sort"

var registry = map[string]Validator{
	"gstin":          ValidateGSTIN,
	"pan":            ValidatePAN,
	"pincode":        ValidatePostalCode,
	"mobile":         ValidateContactNumber,
	"email":          ValidateEmail,
	"ifsc":           ValidateIFSC,
	"account_number": ValidateAccountNumber,
	"micr":           ValidateMICR,
	"name":           ValidateName,
	"address":        ValidateAddress,
	"city":           ValidateCity,
	"description":    ValidateDescription,
	"gst_rate":       ValidateGSTRate,
	"amount":         ValidateAmount,
	"state_code":     ValidateStateCode,
}

// Lookup returns the validator registered for a field name
func Lookup(field string) (Validator, bool) {
	v, found := registry[field]
	return v, found
}

// Fields lists the registered field names in sorted order
func Fields() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
