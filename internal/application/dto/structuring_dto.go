package dto

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
)

// DetectStructuringRequest checks one settlement amount against its account's window.
type DetectStructuringRequest struct {
	ValueDate     civil.Date      `json:"value_date"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id,omitempty"`
	AccountID     string          `json:"account_id"`
}

// StructuringResponse is the output DTO of a structuring check.
type StructuringResponse struct {
	WindowSum decimal.Decimal `json:"window_sum"`
	Band      string          `json:"band"`
	Count     int             `json:"count"`
	Detected  bool            `json:"detected"`
	Skipped   bool            `json:"skipped"`
}

// FromStructuringResult maps a detector result to the response DTO.
func FromStructuringResult(r model.StructuringResult) StructuringResponse {
	return StructuringResponse{
		Detected:  r.Detected,
		WindowSum: r.WindowSum,
		Count:     r.Count,
		Band:      r.Band,
		Skipped:   r.Skipped,
	}
}

// ReconcileStructuringRequest selects the account and value-date range to
// analyse. A zero From defaults to 30 days before To.
type ReconcileStructuringRequest struct {
	From      civil.Date `json:"from"`
	To        civil.Date `json:"to"`
	AccountID string     `json:"account_id"`
}

// DailySum is the in-band volume booked on one value date.
type DailySum struct {
	Date  civil.Date      `json:"date"`
	Sum   decimal.Decimal `json:"sum"`
	Count int             `json:"count"`
}

// FlaggedDay is a value date whose trailing window crossed the threshold.
type FlaggedDay struct {
	Date      civil.Date      `json:"date"`
	WindowSum decimal.Decimal `json:"window_sum"`
	Count     int             `json:"count"`
}

// ReconcileStructuringResponse is the structuring analysis for one account.
type ReconcileStructuringResponse struct {
	From              civil.Date      `json:"from"`
	To                civil.Date      `json:"to"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AccountID         string          `json:"account_id"`
	DailySums         []DailySum      `json:"daily_sums"`
	FlaggedDays       []FlaggedDay    `json:"flagged_days"`
	TotalTransactions int             `json:"total_transactions"`
}

// FromStructuringAnalysis maps the analysis to the response DTO.
func FromStructuringAnalysis(a model.StructuringAnalysis) ReconcileStructuringResponse {
	resp := ReconcileStructuringResponse{
		AccountID:         a.AccountID,
		From:              a.From,
		To:                a.To,
		TotalTransactions: a.TotalTransactions,
		TotalAmount:       a.TotalAmount,
		DailySums:         make([]DailySum, 0, len(a.DailySums)),
		FlaggedDays:       make([]FlaggedDay, 0, len(a.FlaggedDays)),
	}
	for _, d := range a.DailySums {
		resp.DailySums = append(resp.DailySums, DailySum{Date: d.Date, Sum: d.Sum, Count: d.Count})
	}
	for _, d := range a.FlaggedDays {
		resp.FlaggedDays = append(resp.FlaggedDays, FlaggedDay{Date: d.Date, WindowSum: d.WindowSum, Count: d.Count})
	}
	return resp
}
