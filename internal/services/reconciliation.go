package services

import (
	"github.com/shopspring/decimal"
	"gst-service/internal/models"
)

// submissionTolerance absorbs sub-paisa noise; it is not a partial-payment allowance
var submissionTolerance = decimal.New(1, -2)

// IsEligibleForSubmission reports whether the received amount settles the bill
// to within 0.01
func IsEligibleForSubmission(billed, received decimal.Decimal) bool {
	return billed.Sub(received).Abs().LessThanOrEqual(submissionTolerance)
}

// ReconcileBill classifies the gap between billed and received amounts.
// Anything outside the tolerance must go through the credit-note path.
func ReconcileBill(billed, received decimal.Decimal) models.Reconciliation {
	diff := billed.Sub(received)
	rec := models.Reconciliation{
		BilledAmount:   billed,
		ReceivedAmount: received,
		Difference:     diff,
		Eligible:       IsEligibleForSubmission(billed, received),
	}

	switch {
	case rec.Eligible:
		rec.Status = models.ReconciliationStatusSettled
	case diff.IsPositive():
		rec.Status = models.ReconciliationStatusShortfall
	default:
		rec.Status = models.ReconciliationStatusExcess
	}
	rec.RequiresCreditNote = !rec.Eligible
	return rec
}
