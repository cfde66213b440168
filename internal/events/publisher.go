package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gst-service/internal/models"
)

// Subjects published by the GST service
const (
	SubjectTaxComputed    = "gst.tax.computed"
	SubjectBillReconciled = "gst.bill.reconciled"
)

// TaxComputedEvent is published after every tax computation
type TaxComputedEvent struct {
	EventType           string             `json:"event_type"`
	CalculationID       string             `json:"calculation_id"`
	ResolvedInvoiceType models.InvoiceType `json:"resolved_invoice_type"`
	TaxPayableBy        models.TaxPayer    `json:"tax_payable_by"`
	SupplyType          models.SupplyType  `json:"supply_type"`
	GSTApplicable       bool               `json:"gst_applicable"`
	TaxableValue        decimal.Decimal    `json:"taxable_value"`
	GSTAmount           decimal.Decimal    `json:"gst_amount"`
	FinalAmount         decimal.Decimal    `json:"final_amount"`
	Timestamp           time.Time          `json:"timestamp"`
}

// BillReconciledEvent is published after every bill eligibility check
type BillReconciledEvent struct {
	EventType          string                      `json:"event_type"`
	BillID             string                      `json:"bill_id,omitempty"`
	Status             models.ReconciliationStatus `json:"status"`
	Eligible           bool                        `json:"eligible"`
	RequiresCreditNote bool                        `json:"requires_credit_note"`
	Difference         decimal.Decimal             `json:"difference"`
	Timestamp          time.Time                   `json:"timestamp"`
}

// Publisher publishes GST events to NATS
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a publisher
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS_URL not set")
	}
	if logger == nil {
		logger = logrus.New()
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("gst-service-publisher"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "events.publisher"),
	}, nil
}

// NewTaxComputedEvent builds the event for a computation result
func NewTaxComputedEvent(calculationID string, result models.TaxComputationResult) TaxComputedEvent {
	return TaxComputedEvent{
		EventType:           SubjectTaxComputed,
		CalculationID:       calculationID,
		ResolvedInvoiceType: result.ResolvedInvoiceType,
		TaxPayableBy:        result.TaxPayableBy,
		SupplyType:          result.SupplyType,
		GSTApplicable:       result.GSTApplicable,
		TaxableValue:        result.TaxableValue,
		GSTAmount:           result.GSTAmount,
		FinalAmount:         result.FinalAmount,
		Timestamp:           time.Now().UTC(),
	}
}

// NewBillReconciledEvent builds the event for a reconciliation
func NewBillReconciledEvent(billID string, rec models.Reconciliation) BillReconciledEvent {
	return BillReconciledEvent{
		EventType:          SubjectBillReconciled,
		BillID:             billID,
		Status:             rec.Status,
		Eligible:           rec.Eligible,
		RequiresCreditNote: rec.RequiresCreditNote,
		Difference:         rec.Difference,
		Timestamp:          time.Now().UTC(),
	}
}

// PublishTaxComputed publishes a gst.tax.computed event
func (p *Publisher) PublishTaxComputed(ctx context.Context, calculationID string, result models.TaxComputationResult) error {
	return p.publish(ctx, SubjectTaxComputed, NewTaxComputedEvent(calculationID, result))
}

// PublishBillReconciled publishes a gst.bill.reconciled event
func (p *Publisher) PublishBillReconciled(ctx context.Context, billID string, rec models.Reconciliation) error {
	return p.publish(ctx, SubjectBillReconciled, NewBillReconciledEvent(billID, rec))
}

func (p *Publisher) publish(ctx context.Context, subject string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", subject, err)
	}
	p.logger.WithField("subject", subject).Debug("Event published")
	return nil
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}
