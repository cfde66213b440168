package models

import "github.com/shopspring/decimal"

// InvoiceType represents the tax regime declared on (or resolved for) an invoice
type InvoiceType string

const (
	InvoiceTypeExempted InvoiceType = "EXEMPTED"
	InvoiceTypeRCM      InvoiceType = "RCM" // Reverse charge - recipient pays
	InvoiceTypeFCM      InvoiceType = "FCM" // Forward charge - supplier collects
)

// IsExplicitCharge reports whether the type is an explicit RCM/FCM declaration
func (t InvoiceType) IsExplicitCharge() bool {
	return t == InvoiceTypeRCM || t == InvoiceTypeFCM
}

// TaxPayer identifies who is liable to pay the GST on an invoice
type TaxPayer string

const (
	TaxPayerSupplier  TaxPayer = "supplier"
	TaxPayerRecipient TaxPayer = "recipient"
	TaxPayerNone      TaxPayer = "none"
)

// SupplyType describes how the tax is split between central and state components
type SupplyType string

const (
	SupplyTypeIntraState SupplyType = "INTRA_STATE" // CGST + SGST
	SupplyTypeInterState SupplyType = "INTER_STATE" // IGST
	SupplyTypeNone       SupplyType = "NONE"
)

// RateSet holds independent IGST/CGST/SGST percentages
type RateSet struct {
	IGST decimal.Decimal `json:"igst"`
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
}

// RateSource is either a flat GST percentage or a structured rate set.
// The structured set takes precedence when present.
type RateSource struct {
	FlatRate decimal.Decimal `json:"flatRate"`
	RateSet  *RateSet        `json:"rateSet,omitempty"`
}

// InvoiceTaxContext is the input to a single tax computation
type InvoiceTaxContext struct {
	SupplierGSTIN       string          `json:"supplierGstin"`
	CustomerGSTIN       string          `json:"customerGstin"`
	CustomerPAN         string          `json:"customerPan"` // Only used for the government check
	TaxableValue        decimal.Decimal `json:"taxableValue"`
	DeclaredInvoiceType InvoiceType     `json:"declaredInvoiceType"`
	RateSource          RateSource      `json:"rateSource"`
}

// TaxComputationResult is the fully populated outcome of a tax computation
type TaxComputationResult struct {
	TaxableValue        decimal.Decimal `json:"taxableValue"`
	IGST                decimal.Decimal `json:"igst"`
	CGST                decimal.Decimal `json:"cgst"`
	SGST                decimal.Decimal `json:"sgst"`
	GSTAmount           decimal.Decimal `json:"gstAmount"`
	FinalAmount         decimal.Decimal `json:"finalAmount"`
	IsGovernment        bool            `json:"isGovernment"`
	IsSameJurisdiction  bool            `json:"isSameJurisdiction"`
	GSTApplicable       bool            `json:"gstApplicable"`
	ResolvedInvoiceType InvoiceType     `json:"resolvedInvoiceType"`
	TaxPayableBy        TaxPayer        `json:"taxPayableBy"`
	SupplyType          SupplyType      `json:"supplyType"`
	Explanation         string          `json:"explanation"`
}

// ReconciliationStatus represents the outcome of comparing billed and received amounts
type ReconciliationStatus string

const (
	ReconciliationStatusSettled   ReconciliationStatus = "SETTLED"
	ReconciliationStatusShortfall ReconciliationStatus = "SHORTFALL"
	ReconciliationStatusExcess    ReconciliationStatus = "EXCESS"
)

// Reconciliation describes a bill's billed vs received position
type Reconciliation struct {
	BilledAmount       decimal.Decimal      `json:"billedAmount"`
	ReceivedAmount     decimal.Decimal      `json:"receivedAmount"`
	Difference         decimal.Decimal      `json:"difference"` // billed - received
	Status             ReconciliationStatus `json:"status"`
	Eligible           bool                 `json:"eligible"`
	RequiresCreditNote bool                 `json:"requiresCreditNote"`
}
