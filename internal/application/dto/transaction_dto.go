package dto

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
)

// SubmitTransactionRequest is the input DTO for the SubmitTransaction use case.
// Amount is in Currency; TransactionID is assigned when empty.
type SubmitTransactionRequest struct {
	ValueDate          civil.Date      `json:"value_date"`
	Amount             decimal.Decimal `json:"amount"`
	TransactionID      string          `json:"transaction_id,omitempty"`
	AccountID          string          `json:"account_id"`
	Currency           string          `json:"currency"`
	OriginatorName     string          `json:"originator_name,omitempty"`
	OriginatorCountry  string          `json:"originator_country,omitempty"`
	BeneficiaryName    string          `json:"beneficiary_name,omitempty"`
	BeneficiaryCountry string          `json:"beneficiary_country,omitempty"`
	PaymentNarrative   string          `json:"payment_narrative,omitempty"`
	PaymentType        string          `json:"payment_type,omitempty"`
}

// ScoreTransactionRequest scores an amount already in settlement currency.
type ScoreTransactionRequest struct {
	ValueDate          civil.Date      `json:"value_date"`
	SettlementAmount   decimal.Decimal `json:"settlement_amount"`
	TransactionID      string          `json:"transaction_id,omitempty"`
	AccountID          string          `json:"account_id"`
	BeneficiaryCountry string          `json:"beneficiary_country,omitempty"`
	PaymentNarrative   string          `json:"payment_narrative,omitempty"`
}

// ToModel maps the request onto the scoring input. Identifiers are trimmed the
// same way SubmitTransaction trims them.
func (r ScoreTransactionRequest) ToModel() model.Transaction {
	return model.Transaction{
		TransactionID:      strings.TrimSpace(r.TransactionID),
		AccountID:          strings.TrimSpace(r.AccountID),
		ValueDate:          r.ValueDate,
		SettlementAmount:   r.SettlementAmount,
		BeneficiaryCountry: r.BeneficiaryCountry,
		PaymentNarrative:   r.PaymentNarrative,
	}
}

// VerdictResponse is a verdict plus its derived classification.
type VerdictResponse struct {
	StructuringWindowSum  decimal.Decimal    `json:"structuring_window_sum"`
	TriggeredRules        []model.RuleResult `json:"triggered_rules"`
	Recommendations       []string           `json:"recommendations"`
	StructuringBand       string             `json:"structuring_band"`
	RiskLevel             string             `json:"risk_level"`
	Priority              string             `json:"priority"`
	TotalScore            int                `json:"total_score"`
	StructuringCount      int                `json:"structuring_count"`
	IsSuspicious          bool               `json:"is_suspicious"`
	StructuringDetected   bool               `json:"structuring_detected"`
	StructuringSkipped    bool               `json:"structuring_skipped"`
	InvestigationRequired bool               `json:"investigation_required"`
}

// FromVerdict maps a verdict and its report to the response DTO.
func FromVerdict(v model.RiskVerdict, r model.RiskReport) VerdictResponse {
	recs := r.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return VerdictResponse{
		TotalScore:            v.TotalScore,
		TriggeredRules:        v.TriggeredRules,
		IsSuspicious:          v.IsSuspicious,
		StructuringDetected:   v.StructuringDetected,
		StructuringWindowSum:  v.StructuringWindowSum,
		StructuringCount:      v.StructuringCount,
		StructuringBand:       v.StructuringBand,
		StructuringSkipped:    v.StructuringSkipped,
		RiskLevel:             r.RiskLevel.String(),
		Priority:              r.Priority.String(),
		Recommendations:       recs,
		InvestigationRequired: r.InvestigationRequired,
	}
}

// TransactionResponse is the output DTO for a persisted transaction.
type TransactionResponse struct {
	VerdictResponse
	ValueDate          civil.Date      `json:"value_date"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ReviewedAt         *time.Time      `json:"reviewed_at,omitempty"`
	OriginalAmount     decimal.Decimal `json:"original_amount"`
	SettlementAmount   decimal.Decimal `json:"settlement_amount"`
	SettlementRate     decimal.Decimal `json:"usd_rate"`
	TransactionID      string          `json:"transaction_id"`
	AccountID          string          `json:"account_id"`
	Currency           string          `json:"currency"`
	OriginatorName     string          `json:"originator_name,omitempty"`
	OriginatorCountry  string          `json:"originator_country,omitempty"`
	BeneficiaryName    string          `json:"beneficiary_name,omitempty"`
	BeneficiaryCountry string          `json:"beneficiary_country,omitempty"`
	PaymentNarrative   string          `json:"payment_narrative,omitempty"`
	PaymentType        string          `json:"payment_type,omitempty"`
	ReviewStatus       string          `json:"review_status"`
	ReviewedBy         string          `json:"reviewed_by,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// FromModel maps a domain record to the response DTO.
func FromModel(r *model.TransactionRecord) TransactionResponse {
	p := r.Params()
	return TransactionResponse{
		VerdictResponse:    FromVerdict(r.Verdict(), r.Report()),
		TransactionID:      p.TransactionID,
		AccountID:          p.AccountID,
		ValueDate:          p.ValueDate,
		OriginatorName:     p.OriginatorName,
		OriginatorCountry:  p.OriginatorCountry,
		BeneficiaryName:    p.BeneficiaryName,
		BeneficiaryCountry: p.BeneficiaryCountry,
		OriginalAmount:     p.Original.Amount(),
		Currency:           p.Original.Currency().Code(),
		SettlementAmount:   p.SettlementAmount,
		SettlementRate:     p.SettlementRate,
		PaymentNarrative:   p.PaymentNarrative,
		PaymentType:        p.PaymentType,
		ReviewStatus:       r.ReviewStatus().String(),
		ReviewedBy:         r.ReviewedBy(),
		ReviewedAt:         r.ReviewedAt(),
		Notes:              r.Notes(),
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}

// GetTransactionRequest is the input DTO for retrieving a transaction.
type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

// ListTransactionsRequest lists one account's history, or the suspicious
// queue when AccountID is empty.
type ListTransactionsRequest struct {
	AccountID string `json:"account_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ReviewTransactionRequest records an analyst decision.
type ReviewTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Reviewer      string `json:"reviewer"`
	Notes         string `json:"notes,omitempty"`
}

// StatsResponse summarizes the store.
type StatsResponse struct {
	SuspiciousRate decimal.Decimal `json:"suspicious_rate"`
	Total          int64           `json:"total"`
	Suspicious     int64           `json:"suspicious"`
	Normal         int64           `json:"normal"`
}

// FromStats maps store statistics to the response DTO.
func FromStats(s model.TransactionStats) StatsResponse {
	return StatsResponse{
		Total:          s.Total,
		Suspicious:     s.Suspicious,
		Normal:         s.Normal,
		SuspiciousRate: s.SuspiciousRate,
	}
}
