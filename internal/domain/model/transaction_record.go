package model

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/event"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
	"github.com/bibbank/aml-service/pkg/events"
	"github.com/bibbank/aml-service/pkg/money"
)

// RecordParams carries everything known about a transaction at ingestion.
type RecordParams struct {
	TransactionID      string
	AccountID          string
	ValueDate          civil.Date
	OriginatorName     string
	OriginatorCountry  string
	BeneficiaryName    string
	BeneficiaryCountry string
	Original           money.Money
	SettlementAmount   decimal.Decimal
	SettlementRate     decimal.Decimal
	PaymentNarrative   string
	PaymentType        string
}

// TransactionRecord is the aggregate root persisted for every ingested
// transaction: the payment itself, its verdict, the derived report and the
// analyst review state.
type TransactionRecord struct {
	params       RecordParams
	verdict      RiskVerdict
	report       RiskReport
	reviewStatus valueobject.ReviewStatus
	reviewedBy   string
	reviewedAt   *time.Time
	notes        string
	createdAt    time.Time
	updatedAt    time.Time
	events.EventCollector
}

// NewTransactionRecord creates a freshly scored record in PENDING review and
// raises the scoring events.
func NewTransactionRecord(p RecordParams, verdict RiskVerdict, report RiskReport) (*TransactionRecord, error) {
	if strings.TrimSpace(p.TransactionID) == "" {
		return nil, fmt.Errorf("%w: transaction_id is required", ErrInvalidTransaction)
	}
	if err := p.scoringInput().Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &TransactionRecord{
		params:       p,
		verdict:      verdict,
		report:       report,
		reviewStatus: valueobject.ReviewStatusPending,
		createdAt:    now,
		updatedAt:    now,
	}

	ruleNames := make([]string, 0, len(verdict.TriggeredRules))
	for _, rule := range verdict.TriggeredRules {
		ruleNames = append(ruleNames, rule.Name)
	}

	r.Record(event.NewTransactionScored(
		p.TransactionID, p.AccountID, p.ValueDate.String(),
		p.SettlementAmount, verdict.TotalScore, report.RiskLevel.String(),
		verdict.IsSuspicious, ruleNames,
	))
	if verdict.IsSuspicious {
		r.Record(event.NewSuspiciousTransactionDetected(
			p.TransactionID, p.AccountID, verdict.TotalScore,
			report.Priority.String(), verdict.StructuringDetected, report.Recommendations,
		))
	}

	return r, nil
}

// Review records an analyst decision.
func (r *TransactionRecord) Review(status valueobject.ReviewStatus, reviewer, notes string, at time.Time) error {
	if strings.TrimSpace(reviewer) == "" {
		return fmt.Errorf("%w: reviewer is required", ErrInvalidTransaction)
	}
	next, err := r.reviewStatus.TransitionTo(status)
	if err != nil {
		return err
	}

	at = at.UTC()
	r.reviewStatus = next
	r.reviewedBy = reviewer
	r.reviewedAt = &at
	r.notes = notes
	r.updatedAt = at

	r.Record(event.NewTransactionReviewed(r.params.TransactionID, next.String(), reviewer, at))
	return nil
}

// RecordSnapshot is the persisted form of a TransactionRecord.
type RecordSnapshot struct {
	Params       RecordParams
	Verdict      RiskVerdict
	Report       RiskReport
	ReviewStatus valueobject.ReviewStatus
	ReviewedBy   string
	ReviewedAt   *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Reconstruct rebuilds a record from storage (no validation, no events).
func Reconstruct(s RecordSnapshot) *TransactionRecord {
	return &TransactionRecord{
		params:       s.Params,
		verdict:      s.Verdict,
		report:       s.Report,
		reviewStatus: s.ReviewStatus,
		reviewedBy:   s.ReviewedBy,
		reviewedAt:   s.ReviewedAt,
		notes:        s.Notes,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot exposes the record's state for persistence.
func (r *TransactionRecord) Snapshot() RecordSnapshot {
	return RecordSnapshot{
		Params:       r.params,
		Verdict:      r.verdict,
		Report:       r.report,
		ReviewStatus: r.reviewStatus,
		ReviewedBy:   r.reviewedBy,
		ReviewedAt:   r.reviewedAt,
		Notes:        r.notes,
		CreatedAt:    r.createdAt,
		UpdatedAt:    r.updatedAt,
	}
}

func (p RecordParams) scoringInput() Transaction {
	return Transaction{
		TransactionID:      p.TransactionID,
		AccountID:          p.AccountID,
		ValueDate:          p.ValueDate,
		SettlementAmount:   p.SettlementAmount,
		BeneficiaryCountry: p.BeneficiaryCountry,
		PaymentNarrative:   p.PaymentNarrative,
	}
}

// --- Accessors ---

func (r *TransactionRecord) ID() string                             { return r.params.TransactionID }
func (r *TransactionRecord) AccountID() string                      { return r.params.AccountID }
func (r *TransactionRecord) ValueDate() civil.Date                  { return r.params.ValueDate }
func (r *TransactionRecord) Params() RecordParams                   { return r.params }
func (r *TransactionRecord) Transaction() Transaction               { return r.params.scoringInput() }
func (r *TransactionRecord) Verdict() RiskVerdict                   { return r.verdict }
func (r *TransactionRecord) Report() RiskReport                     { return r.report }
func (r *TransactionRecord) ReviewStatus() valueobject.ReviewStatus { return r.reviewStatus }
func (r *TransactionRecord) ReviewedBy() string                     { return r.reviewedBy }
func (r *TransactionRecord) ReviewedAt() *time.Time                 { return r.reviewedAt }
func (r *TransactionRecord) Notes() string                          { return r.notes }
func (r *TransactionRecord) CreatedAt() time.Time                   { return r.createdAt }
func (r *TransactionRecord) UpdatedAt() time.Time                   { return r.updatedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (r *TransactionRecord) DomainEvents() []events.DomainEvent {
	return r.ClearEvents()
}
