package models

import "github.com/shopspring/decimal"

// ComputeTaxRequest represents a request to compute GST for an invoice
type ComputeTaxRequest struct {
	// Identifiers are not format-checked here: malformed ones degrade to
	// an unknown jurisdiction instead of failing the request.
	SupplierGSTIN       string          `json:"supplierGstin"`
	CustomerGSTIN       string          `json:"customerGstin"`
	CustomerPAN         string          `json:"customerPan"`
	TaxableValue        decimal.Decimal `json:"taxableValue"`
	DeclaredInvoiceType InvoiceType     `json:"declaredInvoiceType" binding:"omitempty,oneof=EXEMPTED RCM FCM"`
	RateSource          RateSource      `json:"rateSource"`
}

// ToContext converts the request into the engine's input
func (r ComputeTaxRequest) ToContext() InvoiceTaxContext {
	return InvoiceTaxContext{
		SupplierGSTIN:       r.SupplierGSTIN,
		CustomerGSTIN:       r.CustomerGSTIN,
		CustomerPAN:         r.CustomerPAN,
		TaxableValue:        r.TaxableValue,
		DeclaredInvoiceType: r.DeclaredInvoiceType,
		RateSource:          r.RateSource,
	}
}

// ComputeTaxResponse represents the response from a tax computation
type ComputeTaxResponse struct {
	CalculationID string `json:"calculationId"`
	TaxComputationResult
}

// BillEligibilityRequest represents a request to check whether a bill can be closed
type BillEligibilityRequest struct {
	BillID         string           `json:"billId"`
	BilledAmount   *decimal.Decimal `json:"billedAmount" binding:"required"`
	ReceivedAmount *decimal.Decimal `json:"receivedAmount" binding:"required"`
}

// BillEligibilityResponse represents the response from a bill eligibility check
type BillEligibilityResponse struct {
	BillID string `json:"billId,omitempty"`
	Reconciliation
}

// IdentifierResponse represents the structural facts of a tax identifier
type IdentifierResponse struct {
	Identifier       string `json:"identifier"`
	JurisdictionCode *int   `json:"jurisdictionCode"`
	StateName        string `json:"stateName,omitempty"`
	IsGovernment     bool   `json:"isGovernment"`
	EmbeddedPAN      string `json:"embeddedPan,omitempty"`
}

// ValidateFieldRequest represents a request to validate a single field value
type ValidateFieldRequest struct {
	Value string `json:"value"`
}

// ValidateFieldResponse represents the verdict for a single field
type ValidateFieldResponse struct {
	Field      string `json:"field"`
	Valid      bool   `json:"valid"`
	Message    string `json:"message,omitempty"`
	Normalized string `json:"normalized,omitempty"`
}

// ValidateFieldsRequest represents a batch validation request keyed by field name
type ValidateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// ValidateFieldsResponse represents the verdicts for a batch validation request
type ValidateFieldsResponse struct {
	Valid   bool                    `json:"valid"`
	Results []ValidateFieldResponse `json:"results"`
}
