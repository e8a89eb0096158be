// Package memory holds an in-process TransactionStore for development and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
)

// Compile-time assertion that TransactionStore implements port.TransactionStore.
var _ port.TransactionStore = (*TransactionStore)(nil)

// TransactionStore keeps snapshots in memory and is safe for concurrent use.
// Data is lost on restart.
type TransactionStore struct {
	mu      sync.RWMutex
	records map[string]model.RecordSnapshot
}

// NewTransactionStore creates an empty store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{records: make(map[string]model.RecordSnapshot)}
}

// Insert stores a copy of record.
func (s *TransactionStore) Insert(_ context.Context, record *model.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID()]; exists {
		return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, record.ID())
	}
	s.records[record.ID()] = record.Snapshot()
	return nil
}

// UpdateReview replaces the review fields of a stored record.
func (s *TransactionStore) UpdateReview(_ context.Context, record *model.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, exists := s.records[record.ID()]
	if !exists {
		return fmt.Errorf("%w: %s", model.ErrTransactionNotFound, record.ID())
	}
	snap.ReviewStatus = record.ReviewStatus()
	snap.ReviewedBy = record.ReviewedBy()
	snap.ReviewedAt = record.ReviewedAt()
	snap.Notes = record.Notes()
	snap.UpdatedAt = record.UpdatedAt()
	s.records[record.ID()] = snap
	return nil
}

// FindByID returns the record, or nil when absent.
func (s *TransactionStore) FindByID(_ context.Context, id string) (*model.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.records[id]
	if !exists {
		return nil, nil
	}
	return model.Reconstruct(snap), nil
}

// ListByAccount returns an account's records, newest value date first.
func (s *TransactionStore) ListByAccount(_ context.Context, accountID string, limit int) ([]*model.TransactionRecord, error) {
	return s.list(limit, func(snap model.RecordSnapshot) bool {
		return snap.Params.AccountID == accountID
	}, func(a, b model.RecordSnapshot) int {
		if c := compareDates(b, a); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	}), nil
}

// ListSuspicious returns suspicious records, newest first.
func (s *TransactionStore) ListSuspicious(_ context.Context, limit int) ([]*model.TransactionRecord, error) {
	return s.list(limit, func(snap model.RecordSnapshot) bool {
		return snap.Verdict.IsSuspicious
	}, func(a, b model.RecordSnapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Params.TransactionID, b.Params.TransactionID)
	}), nil
}

// RangeQuery returns the window projection using the same inclusive bounds
// as the SQL store.
func (s *TransactionStore) RangeQuery(_ context.Context, q model.WindowQuery) ([]model.WindowEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []model.WindowEntry
	for _, snap := range s.records {
		e := model.WindowEntry{
			TransactionID:    snap.Params.TransactionID,
			ValueDate:        snap.Params.ValueDate,
			SettlementAmount: snap.Params.SettlementAmount,
		}
		if q.Matches(snap.Params.AccountID, e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Stats counts all and suspicious records.
func (s *TransactionStore) Stats(_ context.Context) (model.TransactionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var suspicious int64
	for _, snap := range s.records {
		if snap.Verdict.IsSuspicious {
			suspicious++
		}
	}
	return model.NewTransactionStats(int64(len(s.records)), suspicious), nil
}

func (s *TransactionStore) list(limit int, keep func(model.RecordSnapshot) bool, order func(a, b model.RecordSnapshot) int) []*model.TransactionRecord {
	s.mu.RLock()
	var matched []model.RecordSnapshot
	for _, snap := range s.records {
		if keep(snap) {
			matched = append(matched, snap)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, order)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*model.TransactionRecord, 0, len(matched))
	for _, snap := range matched {
		out = append(out, model.Reconstruct(snap))
	}
	return out
}

func compareDates(a, b model.RecordSnapshot) int {
	switch {
	case a.Params.ValueDate.Before(b.Params.ValueDate):
		return -1
	case a.Params.ValueDate.After(b.Params.ValueDate):
		return 1
	}
	return 0
}
