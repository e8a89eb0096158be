package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/service"
)

// DefaultReconcileDays is the look-back used when no start date is given.
const DefaultReconcileDays = 30

// ReconcileStructuring re-runs the structuring analysis over stored history.
type ReconcileStructuring struct {
	history port.WindowQuerier
}

// NewReconcileStructuring creates a new ReconcileStructuring use case.
func NewReconcileStructuring(history port.WindowQuerier) *ReconcileStructuring {
	return &ReconcileStructuring{history: history}
}

// Execute reports daily in-band sums for [From, To] and every value date in
// that range whose trailing window exceeds the structuring threshold.
func (uc *ReconcileStructuring) Execute(ctx context.Context, req dto.ReconcileStructuringRequest) (dto.ReconcileStructuringResponse, error) {
	ctx, span := tracer.Start(ctx, "ReconcileStructuring")
	defer span.End()

	account := strings.TrimSpace(req.AccountID)
	if account == "" {
		return dto.ReconcileStructuringResponse{}, fmt.Errorf("%w: account_id is required", model.ErrInvalidTransaction)
	}
	if !req.To.IsValid() {
		return dto.ReconcileStructuringResponse{}, fmt.Errorf("%w: to date is required", model.ErrInvalidTransaction)
	}
	from := req.From
	if from.IsZero() {
		from = req.To.AddDays(-DefaultReconcileDays)
	}
	if req.To.Before(from) {
		return dto.ReconcileStructuringResponse{}, fmt.Errorf("%w: from %s is after to %s", model.ErrInvalidTransaction, from, req.To)
	}

	entries, err := uc.history.RangeQuery(ctx, model.WindowQuery{
		AccountID: account,
		DateFrom:  from.AddDays(-service.StructuringWindowDays),
		DateTo:    req.To,
		AmountMin: service.StructuringBandMin,
		AmountMax: service.StructuringBandMax,
	})
	if err != nil {
		recordSpanError(span, err)
		return dto.ReconcileStructuringResponse{}, fmt.Errorf("failed to load account history: %w", err)
	}

	return dto.FromStructuringAnalysis(analyze(account, from, req.To, entries)), nil
}

func analyze(account string, from, to civil.Date, entries []model.WindowEntry) model.StructuringAnalysis {
	a := model.StructuringAnalysis{
		AccountID:   account,
		From:        from,
		To:          to,
		TotalAmount: decimal.Zero,
	}

	daily := make(map[civil.Date]*model.DailyBandSum)
	for _, e := range entries {
		if e.ValueDate.Before(from) || e.ValueDate.After(to) {
			continue
		}
		a.TotalTransactions++
		a.TotalAmount = a.TotalAmount.Add(e.SettlementAmount)

		d, ok := daily[e.ValueDate]
		if !ok {
			d = &model.DailyBandSum{Date: e.ValueDate, Sum: decimal.Zero}
			daily[e.ValueDate] = d
		}
		d.Sum = d.Sum.Add(e.SettlementAmount)
		d.Count++
	}

	dates := make([]civil.Date, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	slices.SortFunc(dates, func(x, y civil.Date) int {
		switch {
		case x.Before(y):
			return -1
		case y.Before(x):
			return 1
		}
		return 0
	})

	for _, date := range dates {
		a.DailySums = append(a.DailySums, *daily[date])

		q := model.WindowQuery{
			AccountID: account,
			DateFrom:  date.AddDays(-service.StructuringWindowDays),
			DateTo:    date,
			AmountMin: service.StructuringBandMin,
			AmountMax: service.StructuringBandMax,
		}
		sum, count := decimal.Zero, 0
		for _, e := range entries {
			if q.Matches(account, e) {
				sum = sum.Add(e.SettlementAmount)
				count++
			}
		}
		if sum.GreaterThan(service.StructuringThreshold) {
			a.FlaggedDays = append(a.FlaggedDays, model.FlaggedDay{Date: date, WindowSum: sum, Count: count})
		}
	}

	return a
}
