package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gst-service/internal/models"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	TaxComputations     *prometheus.CounterVec
	EligibilityChecks   *prometheus.CounterVec
	ValidationRejection *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TaxComputations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gst_tax_computations_total",
			Help: "Total number of GST computations by resolved invoice type and supply type",
		}, []string{"invoice_type", "supply_type", "gst_applicable"}),
		EligibilityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gst_bill_eligibility_checks_total",
			Help: "Total number of bill submission eligibility checks by outcome",
		}, []string{"status", "eligible"}),
		ValidationRejection: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gst_field_validation_rejections_total",
			Help: "Total number of rejected field validations by field",
		}, []string{"field"}),
	}
}

// RecordComputation increments the computation counter
func (m *Metrics) RecordComputation(invoiceType models.InvoiceType, supply models.SupplyType, gstApplicable bool) {
	resolved := string(invoiceType)
	if resolved == "" {
		resolved = "UNSPECIFIED"
	}
	m.TaxComputations.WithLabelValues(resolved, string(supply), strconv.FormatBool(gstApplicable)).Inc()
}

// RecordEligibilityCheck increments the bill check counter
func (m *Metrics) RecordEligibilityCheck(status models.ReconciliationStatus, eligible bool) {
	m.EligibilityChecks.WithLabelValues(string(status), strconv.FormatBool(eligible)).Inc()
}

// RecordValidationRejection increments the rejection counter for a field
func (m *Metrics) RecordValidationRejection(field string) {
	m.ValidationRejection.WithLabelValues(field).Inc()
}
