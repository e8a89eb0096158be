package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
	"github.com/bibbank/aml-service/pkg/money"
	pkgpostgres "github.com/bibbank/aml-service/pkg/postgres"
)

// Compile-time assertion that TransactionStore implements port.TransactionStore.
var _ port.TransactionStore = (*TransactionStore)(nil)

const uniqueViolation = "23505"

const selectColumns = `
	transaction_id, account_id, value_date,
	originator_name, originator_country, beneficiary_name, beneficiary_country,
	original_amount, currency, settlement_amount, usd_rate,
	payment_narrative, payment_type,
	total_score, is_suspicious, risk_level, priority, recommendations, investigation_required,
	structuring_detected, structuring_window_sum, structuring_count, structuring_band, structuring_skipped,
	review_status, reviewed_by, reviewed_at, notes,
	created_at, updated_at
`

// TransactionStore implements port.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore creates a new PostgreSQL-backed transaction store.
func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Insert persists a scored record and its triggered rules atomically.
func (s *TransactionStore) Insert(ctx context.Context, record *model.TransactionRecord) error {
	snap := record.Snapshot()
	p := snap.Params

	err := pkgpostgres.WithTransaction(ctx, s.pool, pkgpostgres.ReadCommitted, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (
				transaction_id, account_id, value_date,
				originator_name, originator_country, beneficiary_name, beneficiary_country,
				original_amount, currency, settlement_amount, usd_rate,
				payment_narrative, payment_type,
				total_score, is_suspicious, risk_level, priority, recommendations, investigation_required,
				structuring_detected, structuring_window_sum, structuring_count, structuring_band, structuring_skipped,
				review_status, reviewed_by, reviewed_at, notes,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
			)`,
			p.TransactionID, p.AccountID, dateValue(p.ValueDate),
			p.OriginatorName, p.OriginatorCountry, p.BeneficiaryName, p.BeneficiaryCountry,
			p.Original.Amount(), p.Original.Currency().Code(), p.SettlementAmount, p.SettlementRate,
			p.PaymentNarrative, p.PaymentType,
			snap.Verdict.TotalScore, snap.Verdict.IsSuspicious,
			snap.Report.RiskLevel.String(), snap.Report.Priority.String(),
			nonNil(snap.Report.Recommendations), snap.Report.InvestigationRequired,
			snap.Verdict.StructuringDetected, snap.Verdict.StructuringWindowSum, snap.Verdict.StructuringCount,
			snap.Verdict.StructuringBand, snap.Verdict.StructuringSkipped,
			snap.ReviewStatus.String(), snap.ReviewedBy, snap.ReviewedAt, snap.Notes,
			snap.CreatedAt, snap.UpdatedAt,
		)
		if err != nil {
			return err
		}

		for _, rule := range snap.Verdict.TriggeredRules {
			_, err = tx.Exec(ctx,
				`INSERT INTO rule_results (transaction_id, rule_id, rule_name, points_awarded, detail_text)
				 VALUES ($1, $2, $3, $4, $5)`,
				p.TransactionID, int(rule.RuleID), rule.Name, rule.Points, rule.Detail,
			)
			if err != nil {
				return fmt.Errorf("failed to save rule result: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, p.TransactionID)
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// UpdateReview persists the review fields of an existing record.
func (s *TransactionStore) UpdateReview(ctx context.Context, record *model.TransactionRecord) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET review_status = $2, reviewed_by = $3, reviewed_at = $4, notes = $5, updated_at = $6
		WHERE transaction_id = $1`,
		record.ID(), record.ReviewStatus().String(), record.ReviewedBy(), record.ReviewedAt(),
		record.Notes(), record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrTransactionNotFound, record.ID())
	}
	return nil
}

// FindByID retrieves a record by transaction id, or nil when absent.
func (s *TransactionStore) FindByID(ctx context.Context, id string) (*model.TransactionRecord, error) {
	records, err := s.query(ctx, `SELECT `+selectColumns+` FROM transactions WHERE transaction_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// ListByAccount returns an account's records, newest value date first.
func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string, limit int) ([]*model.TransactionRecord, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM transactions
		WHERE account_id = $1
		ORDER BY value_date DESC, created_at DESC
		LIMIT $2`, accountID, limit)
}

// ListSuspicious returns suspicious records, newest first.
func (s *TransactionStore) ListSuspicious(ctx context.Context, limit int) ([]*model.TransactionRecord, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM transactions
		WHERE is_suspicious
		ORDER BY created_at DESC
		LIMIT $1`, limit)
}

// RangeQuery returns the structuring window projection. Bounds are inclusive.
func (s *TransactionStore) RangeQuery(ctx context.Context, q model.WindowQuery) ([]model.WindowEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT transaction_id, value_date, settlement_amount
		FROM transactions
		WHERE account_id = $1
		  AND value_date BETWEEN $2 AND $3
		  AND settlement_amount BETWEEN $4 AND $5
		ORDER BY value_date, transaction_id`,
		q.AccountID, dateValue(q.DateFrom), dateValue(q.DateTo), q.AmountMin, q.AmountMax,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query window: %w", err)
	}
	defer rows.Close()

	var entries []model.WindowEntry
	for rows.Next() {
		var (
			e         model.WindowEntry
			valueDate time.Time
		)
		if err := rows.Scan(&e.TransactionID, &valueDate, &e.SettlementAmount); err != nil {
			return nil, fmt.Errorf("failed to scan window entry: %w", err)
		}
		e.ValueDate = civil.DateOf(valueDate)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read window: %w", err)
	}
	return entries, nil
}

// Stats counts all and suspicious records.
func (s *TransactionStore) Stats(ctx context.Context) (model.TransactionStats, error) {
	var total, suspicious int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_suspicious) FROM transactions`,
	).Scan(&total, &suspicious)
	if err != nil {
		return model.TransactionStats{}, fmt.Errorf("failed to count transactions: %w", err)
	}
	return model.NewTransactionStats(total, suspicious), nil
}

// query loads records and their rule rows from one snapshot.
func (s *TransactionStore) query(ctx context.Context, sql string, args ...any) ([]*model.TransactionRecord, error) {
	var records []*model.TransactionRecord
	err := pkgpostgres.WithTransaction(ctx, s.pool, pkgpostgres.SnapshotRead, func(tx pgx.Tx) error {
		var err error
		records, err = s.queryWith(ctx, tx, sql, args...)
		return err
	})
	return records, err
}

func (s *TransactionStore) queryWith(ctx context.Context, q pkgpostgres.Querier, sql string, args ...any) ([]*model.TransactionRecord, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var (
		snapshots []*model.RecordSnapshot
		ids       []string
	)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
		ids = append(ids, snap.Params.TransactionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	rules, err := s.loadRules(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	records := make([]*model.TransactionRecord, 0, len(snapshots))
	for _, snap := range snapshots {
		triggered := rules[snap.Params.TransactionID]
		if triggered == nil {
			triggered = []model.RuleResult{}
		}
		snap.Verdict.TriggeredRules = triggered
		records = append(records, model.Reconstruct(*snap))
	}
	return records, nil
}

func (s *TransactionStore) loadRules(ctx context.Context, q pkgpostgres.Querier, ids []string) (map[string][]model.RuleResult, error) {
	rows, err := q.Query(ctx, `
		SELECT transaction_id, rule_id, rule_name, points_awarded, detail_text
		FROM rule_results
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, rule_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query rule results: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.RuleResult, len(ids))
	for rows.Next() {
		var (
			id     string
			ruleID int16
			r      model.RuleResult
		)
		if err := rows.Scan(&id, &ruleID, &r.Name, &r.Points, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan rule result: %w", err)
		}
		r.RuleID = model.RuleID(ruleID)
		out[id] = append(out[id], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rule results: %w", err)
	}
	return out, nil
}

func scanSnapshot(row pgx.Row) (*model.RecordSnapshot, error) {
	var (
		snap            model.RecordSnapshot
		p               = &snap.Params
		v               = &snap.Verdict
		valueDate       time.Time
		originalAmount  decimal.Decimal
		currencyCode    string
		riskLevelStr    string
		priorityStr     string
		reviewStatusStr string
	)

	err := row.Scan(
		&p.TransactionID, &p.AccountID, &valueDate,
		&p.OriginatorName, &p.OriginatorCountry, &p.BeneficiaryName, &p.BeneficiaryCountry,
		&originalAmount, &currencyCode, &p.SettlementAmount, &p.SettlementRate,
		&p.PaymentNarrative, &p.PaymentType,
		&v.TotalScore, &v.IsSuspicious, &riskLevelStr, &priorityStr,
		&snap.Report.Recommendations, &snap.Report.InvestigationRequired,
		&v.StructuringDetected, &v.StructuringWindowSum, &v.StructuringCount, &v.StructuringBand, &v.StructuringSkipped,
		&reviewStatusStr, &snap.ReviewedBy, &snap.ReviewedAt, &snap.Notes,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	p.ValueDate = civil.DateOf(valueDate)

	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse currency: %w", err)
	}
	p.Original = money.New(originalAmount, currency)

	if snap.Report.RiskLevel, err = valueobject.RiskLevelFromString(riskLevelStr); err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}
	if snap.Report.Priority, err = valueobject.PriorityFromString(priorityStr); err != nil {
		return nil, fmt.Errorf("failed to parse priority: %w", err)
	}
	if snap.ReviewStatus, err = valueobject.ReviewStatusFromString(reviewStatusStr); err != nil {
		return nil, fmt.Errorf("failed to parse review status: %w", err)
	}
	snap.Report.TotalScore = v.TotalScore

	return &snap, nil
}

// dateValue maps a calendar date onto the time.Time pgx encodes as DATE.
func dateValue(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
