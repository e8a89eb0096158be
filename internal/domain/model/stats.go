package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionStats summarizes the store.
type TransactionStats struct {
	Total          int64
	Suspicious     int64
	Normal         int64
	SuspiciousRate decimal.Decimal // percent, two decimal places
}

// NewTransactionStats derives Normal and SuspiciousRate from the two counts.
func NewTransactionStats(total, suspicious int64) TransactionStats {
	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(suspicious).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(total)).
			Round(2)
	}
	return TransactionStats{
		Total:          total,
		Suspicious:     suspicious,
		Normal:         total - suspicious,
		SuspiciousRate: rate,
	}
}

// DailyBandSum is the in-band volume booked on one value date.
type DailyBandSum struct {
	Date  civil.Date
	Sum   decimal.Decimal
	Count int
}

// FlaggedDay is a date whose trailing structuring window crossed the threshold.
type FlaggedDay struct {
	Date      civil.Date
	WindowSum decimal.Decimal
	Count     int
}

// StructuringAnalysis is the offline reconciliation report for one account.
type StructuringAnalysis struct {
	AccountID         string
	From              civil.Date
	To                civil.Date
	TotalTransactions int
	TotalAmount       decimal.Decimal
	DailySums         []DailyBandSum
	FlaggedDays       []FlaggedDay
}
