package services

import (
	"gst-service/internal/identifier"
	"gst-service/internal/models"
)

// RegimeInput carries the facts the regime rules look at
type RegimeInput struct {
	Declared      models.InvoiceType
	CustomerGSTIN string
	CustomerPAN   string
}

// IsGovernmentCustomer reports whether either customer identifier carries the government flag
func (in RegimeInput) IsGovernmentCustomer() bool {
	return identifier.IsGovernmentEntity(in.CustomerGSTIN) || identifier.IsGovernmentEntity(in.CustomerPAN)
}

// Regime is the resolved tax treatment of an invoice
type Regime struct {
	InvoiceType  models.InvoiceType
	TaxPayableBy models.TaxPayer
	IsGovernment bool
	Rule         string
	Reason       string
}

// regimeRule is one entry of the ordered resolution list
type regimeRule struct {
	name    string
	reason  string
	applies func(RegimeInput) bool
	result  models.InvoiceType
}

// regimeRules are evaluated top to bottom; the first match wins.
// Explicit RCM/FCM must stay ahead of the fallback and behind the
// government exemption check, which itself excludes explicit declarations.
var regimeRules = []regimeRule{
	{
		name:    "declared_exempted",
		reason:  "Invoice declared as exempted",
		applies: func(in RegimeInput) bool { return in.Declared == models.InvoiceTypeExempted },
		result:  models.InvoiceTypeExempted,
	},
	{
		name:   "government_customer",
		reason: "Supply to a government entity is exempted",
		applies: func(in RegimeInput) bool {
			return !in.Declared.IsExplicitCharge() && in.IsGovernmentCustomer()
		},
		result: models.InvoiceTypeExempted,
	},
	{
		name:    "declared_rcm",
		reason:  "Reverse charge: recipient pays the tax",
		applies: func(in RegimeInput) bool { return in.Declared == models.InvoiceTypeRCM },
		result:  models.InvoiceTypeRCM,
	},
	{
		name:    "declared_fcm",
		reason:  "Forward charge: supplier collects the tax",
		applies: func(in RegimeInput) bool { return in.Declared == models.InvoiceTypeFCM },
		result:  models.InvoiceTypeFCM,
	},
	{
		name:    "default_forward_charge",
		reason:  "No charge type declared, forward charge applies",
		applies: func(RegimeInput) bool { return true },
		result:  models.InvoiceTypeFCM,
	},
}

// ResolveRegime picks the tax treatment for an invoice
func ResolveRegime(in RegimeInput) Regime {
	isGov := in.IsGovernmentCustomer()
	for _, rule := range regimeRules {
		if !rule.applies(in) {
			continue
		}
		return Regime{
			InvoiceType:  rule.result,
			TaxPayableBy: TaxPayerFor(rule.result),
			IsGovernment: isGov,
			Rule:         rule.name,
			Reason:       rule.reason,
		}
	}
	// unreachable: the last rule always applies
	return Regime{InvoiceType: models.InvoiceTypeFCM, TaxPayableBy: models.TaxPayerSupplier, IsGovernment: isGov}
}

// TaxPayerFor maps a resolved invoice type to the liable party
func TaxPayerFor(t models.InvoiceType) models.TaxPayer {
	switch t {
	case models.InvoiceTypeRCM:
		return models.TaxPayerRecipient
	case models.InvoiceTypeFCM:
		return models.TaxPayerSupplier
	default:
		return models.TaxPayerNone
	}
}
