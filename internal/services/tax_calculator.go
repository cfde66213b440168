package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gst-service/internal/identifier"
	"gst-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// MetricsRecorder receives counters for computations and bill checks
type MetricsRecorder interface {
	RecordComputation(invoiceType models.InvoiceType, supply models.SupplyType, gstApplicable bool)
	RecordEligibilityCheck(status models.ReconciliationStatus, eligible bool)
}

// EventPublisher publishes computation outcomes to other services
type EventPublisher interface {
	PublishTaxComputed(ctx context.Context, calculationID string, result models.TaxComputationResult) error
	PublishBillReconciled(ctx context.Context, billID string, rec models.Reconciliation) error
}

// TaxCalculator exposes the GST engine to the HTTP layer
type TaxCalculator struct {
	metrics   MetricsRecorder
	publisher EventPublisher
	logger    *logrus.Entry
}

// NewTaxCalculator creates a new tax calculator. metrics and publisher may be nil.
func NewTaxCalculator(logger *logrus.Logger, metrics MetricsRecorder, publisher EventPublisher) *TaxCalculator {
	if logger == nil {
		logger = logrus.New()
	}
	return &TaxCalculator{
		metrics:   metrics,
		publisher: publisher,
		logger:    logger.WithField("component", "services.tax_calculator"),
	}
}

// CalculateTax computes GST for an invoice and reports the outcome
func (c *TaxCalculator) CalculateTax(ctx context.Context, in models.InvoiceTaxContext) *models.ComputeTaxResponse {
	result := ComputeTax(in)
	calculationID := uuid.New().String()

	if c.metrics != nil {
		c.metrics.RecordComputation(result.ResolvedInvoiceType, result.SupplyType, result.GSTApplicable)
	}

	c.logger.WithFields(logrus.Fields{
		"calculation_id": calculationID,
		"invoice_type":   result.ResolvedInvoiceType,
		"supply_type":    result.SupplyType,
		"gst_applicable": result.GSTApplicable,
		"gst_amount":     result.GSTAmount.String(),
	}).Debug("Tax computed")

	if c.publisher != nil {
		if err := c.publisher.PublishTaxComputed(ctx, calculationID, result); err != nil {
			c.logger.WithError(err).WithField("calculation_id", calculationID).Warn("Failed to publish tax computed event")
		}
	}

	return &models.ComputeTaxResponse{
		CalculationID:        calculationID,
		TaxComputationResult: result,
	}
}

// CheckBill reconciles a bill and reports whether it may be submitted.
// Both amounts must be present; the handler enforces it on binding.
func (c *TaxCalculator) CheckBill(ctx context.Context, req models.BillEligibilityRequest) *models.BillEligibilityResponse {
	rec := ReconcileBill(amountOrZero(req.BilledAmount), amountOrZero(req.ReceivedAmount))

	if c.metrics != nil {
		c.metrics.RecordEligibilityCheck(rec.Status, rec.Eligible)
	}

	if !rec.Eligible {
		c.logger.WithFields(logrus.Fields{
			"bill_id":    req.BillID,
			"status":     rec.Status,
			"difference": rec.Difference.String(),
		}).Info("Bill not eligible for submission")
	}

	if c.publisher != nil {
		if err := c.publisher.PublishBillReconciled(ctx, req.BillID, rec); err != nil {
			c.logger.WithError(err).WithField("bill_id", req.BillID).Warn("Failed to publish bill reconciled event")
		}
	}

	return &models.BillEligibilityResponse{
		BillID:         req.BillID,
		Reconciliation: rec,
	}
}

// ComputeTax determines whether GST applies to an invoice, under which regime,
// and how much is owed. It is pure and never fails: missing amounts give a
// zero result and unknown jurisdictions are taxed as inter-state (IGST).
func ComputeTax(in models.InvoiceTaxContext) models.TaxComputationResult {
	if !in.TaxableValue.IsPositive() {
		return models.TaxComputationResult{
			TaxableValue:        decimal.Zero,
			IGST:                decimal.Zero,
			CGST:                decimal.Zero,
			SGST:                decimal.Zero,
			GSTAmount:           decimal.Zero,
			FinalAmount:         decimal.Zero,
			ResolvedInvoiceType: in.DeclaredInvoiceType,
			TaxPayableBy:        models.TaxPayerNone,
			SupplyType:          models.SupplyTypeNone,
			Explanation:         "No taxable value, GST not applicable",
		}
	}

	regime := ResolveRegime(RegimeInput{
		Declared:      in.DeclaredInvoiceType,
		CustomerGSTIN: in.CustomerGSTIN,
		CustomerPAN:   in.CustomerPAN,
	})
	sameState := identifier.SameJurisdiction(in.SupplierGSTIN, in.CustomerGSTIN)

	result := models.TaxComputationResult{
		TaxableValue:        in.TaxableValue,
		IGST:                decimal.Zero,
		CGST:                decimal.Zero,
		SGST:                decimal.Zero,
		IsGovernment:        regime.IsGovernment,
		IsSameJurisdiction:  sameState,
		ResolvedInvoiceType: regime.InvoiceType,
		TaxPayableBy:        regime.TaxPayableBy,
	}

	if regime.InvoiceType == models.InvoiceTypeExempted {
		result.GSTAmount = decimal.Zero
		result.FinalAmount = in.TaxableValue
		result.SupplyType = models.SupplyTypeNone
		result.Explanation = regime.Reason
		return result
	}

	rates := effectiveRates(in.RateSource)
	if sameState {
		result.CGST = percentOf(in.TaxableValue, rates.CGST)
		result.SGST = percentOf(in.TaxableValue, rates.SGST)
		result.SupplyType = models.SupplyTypeIntraState
		result.Explanation = fmt.Sprintf("%s; intra-state supply taxed as CGST %s%% + SGST %s%%",
			regime.Reason, rates.CGST.String(), rates.SGST.String())
	} else {
		result.IGST = percentOf(in.TaxableValue, rates.IGST)
		result.SupplyType = models.SupplyTypeInterState
		result.Explanation = fmt.Sprintf("%s; inter-state supply taxed as IGST %s%%",
			regime.Reason, rates.IGST.String())
	}

	result.GSTAmount = result.IGST.Add(result.CGST).Add(result.SGST)
	result.FinalAmount = in.TaxableValue.Add(result.GSTAmount)
	result.GSTApplicable = true
	return result
}

// effectiveRates picks the structured rate set when present, otherwise splits
// the flat rate. Negative percentages are treated as zero.
func effectiveRates(src models.RateSource) models.RateSet {
	if src.RateSet != nil {
		return models.RateSet{
			IGST: nonNegative(src.RateSet.IGST),
			CGST: nonNegative(src.RateSet.CGST),
			SGST: nonNegative(src.RateSet.SGST),
		}
	}
	flat := nonNegative(src.FlatRate)
	half := flat.Div(decimal.NewFromInt(2))
	return models.RateSet{IGST: flat, CGST: half, SGST: half}
}

func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
