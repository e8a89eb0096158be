package port

import (
	"context"

	"github.com/bibbank/aml-service/internal/domain/model"
)

// WindowQuerier is the slice of the transaction store the structuring rule needs.
type WindowQuerier interface {
	// RangeQuery returns the account's history inside the query's date range
	// and amount band, bounds inclusive. It must be safe under concurrent writers.
	RangeQuery(ctx context.Context, q model.WindowQuery) ([]model.WindowEntry, error)
}

// TransactionStore defines the persistence port for scored transactions.
type TransactionStore interface {
	WindowQuerier

	// Insert persists a newly scored record. Reusing an id returns
	// model.ErrDuplicateTransaction.
	Insert(ctx context.Context, record *model.TransactionRecord) error

	// UpdateReview persists the review fields of an existing record.
	UpdateReview(ctx context.Context, record *model.TransactionRecord) error

	// FindByID returns nil, nil when no record exists.
	FindByID(ctx context.Context, id string) (*model.TransactionRecord, error)

	// ListByAccount returns the newest records first by value date.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*model.TransactionRecord, error)

	// ListSuspicious returns the newest suspicious records first by creation time.
	ListSuspicious(ctx context.Context, limit int) ([]*model.TransactionRecord, error)

	// Stats counts all and suspicious records.
	Stats(ctx context.Context) (model.TransactionStats, error)
}
