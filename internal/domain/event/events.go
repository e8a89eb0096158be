package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/pkg/events"
)

const aggregateType = "Transaction"

const (
	// EventTypeTransactionScored is emitted for every persisted scoring.
	EventTypeTransactionScored = "aml.transaction.scored"

	// EventTypeSuspiciousTransaction is emitted when the score reaches the suspicion threshold.
	EventTypeSuspiciousTransaction = "aml.transaction.suspicious"

	// EventTypeTransactionReviewed is emitted when an analyst records a review decision.
	EventTypeTransactionReviewed = "aml.transaction.reviewed"
)

// TransactionScored is published once a transaction and its verdict are stored.
type TransactionScored struct {
	events.BaseEvent
	TransactionID    string          `json:"transaction_id"`
	AccountID        string          `json:"account_id"`
	ValueDate        string          `json:"value_date"`
	SettlementAmount decimal.Decimal `json:"settlement_amount"`
	TotalScore       int             `json:"total_score"`
	RiskLevel        string          `json:"risk_level"`
	IsSuspicious     bool            `json:"is_suspicious"`
	TriggeredRules   []string        `json:"triggered_rules"`
}

// NewTransactionScored builds the event for transactionID.
func NewTransactionScored(
	transactionID, accountID, valueDate string,
	amount decimal.Decimal,
	score int,
	riskLevel string,
	suspicious bool,
	rules []string,
) TransactionScored {
	return TransactionScored{
		BaseEvent:        events.NewBaseEvent(EventTypeTransactionScored, transactionID, aggregateType),
		TransactionID:    transactionID,
		AccountID:        accountID,
		ValueDate:        valueDate,
		SettlementAmount: amount,
		TotalScore:       score,
		RiskLevel:        riskLevel,
		IsSuspicious:     suspicious,
		TriggeredRules:   rules,
	}
}

// SuspiciousTransactionDetected routes a flagged transaction to case management.
type SuspiciousTransactionDetected struct {
	events.BaseEvent
	TransactionID       string   `json:"transaction_id"`
	AccountID           string   `json:"account_id"`
	TotalScore          int      `json:"total_score"`
	Priority            string   `json:"priority"`
	StructuringDetected bool     `json:"structuring_detected"`
	Recommendations     []string `json:"recommendations"`
}

// NewSuspiciousTransactionDetected builds the event for transactionID.
func NewSuspiciousTransactionDetected(
	transactionID, accountID string,
	score int,
	priority string,
	structuring bool,
	recommendations []string,
) SuspiciousTransactionDetected {
	return SuspiciousTransactionDetected{
		BaseEvent:           events.NewBaseEvent(EventTypeSuspiciousTransaction, transactionID, aggregateType),
		TransactionID:       transactionID,
		AccountID:           accountID,
		TotalScore:          score,
		Priority:            priority,
		StructuringDetected: structuring,
		Recommendations:     recommendations,
	}
}

// TransactionReviewed records an analyst decision.
type TransactionReviewed struct {
	events.BaseEvent
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"review_status"`
	ReviewedBy    string    `json:"reviewed_by"`
	ReviewedAt    time.Time `json:"reviewed_at"`
}

// NewTransactionReviewed builds the event for transactionID.
func NewTransactionReviewed(transactionID, status, reviewer string, at time.Time) TransactionReviewed {
	return TransactionReviewed{
		BaseEvent:     events.NewBaseEvent(EventTypeTransactionReviewed, transactionID, aggregateType),
		TransactionID: transactionID,
		Status:        status,
		ReviewedBy:    reviewer,
		ReviewedAt:    at,
	}
}
