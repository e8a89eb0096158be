package grpc

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/application/usecase"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
	"github.com/bibbank/aml-service/pkg/auth"
	"github.com/bibbank/aml-service/pkg/money"
)

// Role sets per operation.
var (
	submitRoles = []string{auth.RoleAdmin, auth.RoleIngestClient}
	scoreRoles  = []string{auth.RoleAdmin, auth.RoleAnalyst, auth.RoleIngestClient}
	readRoles   = []string{auth.RoleAdmin, auth.RoleAnalyst, auth.RoleAuditor}
	reviewRoles = []string{auth.RoleAdmin, auth.RoleAnalyst}
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(roles...) {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return claims, nil
}

// Compile-time assertion that AmlServiceHandler implements AmlServiceServer.
var _ AmlServiceServer = (*AmlServiceHandler)(nil)

// UseCases groups the application operations the handler exposes.
type UseCases struct {
	Submit *usecase.SubmitTransaction
	Score  *usecase.ScoreTransaction
	Detect *usecase.DetectStructuring
	Get    *usecase.GetTransaction
	List   *usecase.ListTransactions
	Review *usecase.ReviewTransaction
	Stats  *usecase.GetStats
}

// AmlServiceHandler implements the gRPC AmlServiceServer interface.
type AmlServiceHandler struct {
	UnimplementedAmlServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewAmlServiceHandler creates a new gRPC handler.
func NewAmlServiceHandler(uc UseCases, logger *slog.Logger) *AmlServiceHandler {
	return &AmlServiceHandler{uc: uc, logger: logger}
}

// SubmitTransactionRequest carries a raw transaction. Amounts are decimal
// strings; dates are YYYY-MM-DD.
type SubmitTransactionRequest struct {
	TransactionID      string `json:"transaction_id"`
	AccountID          string `json:"account_id"`
	ValueDate          string `json:"value_date"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	OriginatorName     string `json:"originator_name"`
	OriginatorCountry  string `json:"originator_country"`
	BeneficiaryName    string `json:"beneficiary_name"`
	BeneficiaryCountry string `json:"beneficiary_country"`
	PaymentNarrative   string `json:"payment_narrative"`
	PaymentType        string `json:"payment_type"`
}

// TransactionResponse wraps one persisted transaction.
type TransactionResponse struct {
	Transaction *dto.TransactionResponse `json:"transaction"`
}

// ScoreTransactionRequest scores a settlement amount without persisting it.
type ScoreTransactionRequest struct {
	TransactionID      string `json:"transaction_id"`
	AccountID          string `json:"account_id"`
	ValueDate          string `json:"value_date"`
	SettlementAmount   string `json:"settlement_amount"`
	BeneficiaryCountry string `json:"beneficiary_country"`
	PaymentNarrative   string `json:"payment_narrative"`
}

// ScoreTransactionResponse wraps a verdict.
type ScoreTransactionResponse struct {
	Verdict *dto.VerdictResponse `json:"verdict"`
}

// DetectStructuringRequest checks one settlement amount against the account window.
type DetectStructuringRequest struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	ValueDate     string `json:"value_date"`
	Amount        string `json:"amount"`
}

// DetectStructuringResponse wraps a structuring result.
type DetectStructuringResponse struct {
	Result *dto.StructuringResponse `json:"result"`
}

// GetTransactionRequest selects a transaction by id.
type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

// ListTransactionsRequest lists one account, or the suspicious queue when
// AccountID is empty.
type ListTransactionsRequest struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []dto.TransactionResponse `json:"transactions"`
}

// ReviewTransactionRequest records the caller's review decision.
type ReviewTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// GetStatsRequest is empty.
type GetStatsRequest struct{}

// GetStatsResponse wraps store statistics.
type GetStatsResponse struct {
	Stats *dto.StatsResponse `json:"stats"`
}

// SubmitTransaction converts, scores and stores a raw transaction.
func (h *AmlServiceHandler) SubmitTransaction(ctx context.Context, req *SubmitTransactionRequest) (*TransactionResponse, error) {
	if _, err := requireRole(ctx, submitRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.ValueDate)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Submit.Execute(ctx, dto.SubmitTransactionRequest{
		TransactionID:      req.TransactionID,
		AccountID:          req.AccountID,
		ValueDate:          date,
		Amount:             amount,
		Currency:           req.Currency,
		OriginatorName:     req.OriginatorName,
		OriginatorCountry:  req.OriginatorCountry,
		BeneficiaryName:    req.BeneficiaryName,
		BeneficiaryCountry: req.BeneficiaryCountry,
		PaymentNarrative:   req.PaymentNarrative,
		PaymentType:        req.PaymentType,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "submit transaction", err)
	}
	return &TransactionResponse{Transaction: &result}, nil
}

// ScoreTransaction runs the rules on an amount already in settlement currency.
func (h *AmlServiceHandler) ScoreTransaction(ctx context.Context, req *ScoreTransactionRequest) (*ScoreTransactionResponse, error) {
	if _, err := requireRole(ctx, scoreRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := parseAmount("settlement_amount", req.SettlementAmount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.ValueDate)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Score.Execute(ctx, dto.ScoreTransactionRequest{
		TransactionID:      req.TransactionID,
		AccountID:          req.AccountID,
		ValueDate:          date,
		SettlementAmount:   amount,
		BeneficiaryCountry: req.BeneficiaryCountry,
		PaymentNarrative:   req.PaymentNarrative,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "score transaction", err)
	}
	return &ScoreTransactionResponse{Verdict: &result}, nil
}

// DetectStructuring runs the structuring rule alone.
func (h *AmlServiceHandler) DetectStructuring(ctx context.Context, req *DetectStructuringRequest) (*DetectStructuringResponse, error) {
	if _, err := requireRole(ctx, scoreRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.ValueDate)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Detect.Execute(ctx, dto.DetectStructuringRequest{
		TransactionID: req.TransactionID,
		AccountID:     req.AccountID,
		ValueDate:     date,
		Amount:        amount,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "detect structuring", err)
	}
	return &DetectStructuringResponse{Result: &result}, nil
}

// GetTransaction returns one stored transaction.
func (h *AmlServiceHandler) GetTransaction(ctx context.Context, req *GetTransactionRequest) (*TransactionResponse, error) {
	if _, err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil || req.TransactionID == "" {
		return nil, status.Error(codes.InvalidArgument, "transaction_id is required")
	}

	result, err := h.uc.Get.Execute(ctx, dto.GetTransactionRequest{TransactionID: req.TransactionID})
	if err != nil {
		return nil, h.toStatus(ctx, "get transaction", err)
	}
	return &TransactionResponse{Transaction: &result}, nil
}

// ListTransactions returns an account's history or the suspicious queue.
func (h *AmlServiceHandler) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	if _, err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		req = &ListTransactionsRequest{}
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	result, err := h.uc.List.Execute(ctx, dto.ListTransactionsRequest{
		AccountID: req.AccountID,
		Limit:     int(req.Limit),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "list transactions", err)
	}
	return &ListTransactionsResponse{Transactions: result.Transactions}, nil
}

// ReviewTransaction records a review decision by the authenticated caller.
func (h *AmlServiceHandler) ReviewTransaction(ctx context.Context, req *ReviewTransactionRequest) (*TransactionResponse, error) {
	claims, err := requireRole(ctx, reviewRoles...)
	if err != nil {
		return nil, err
	}
	if req == nil || req.TransactionID == "" {
		return nil, status.Error(codes.InvalidArgument, "transaction_id is required")
	}

	h.logger.InfoContext(ctx, "reviewing transaction",
		slog.String("transaction_id", req.TransactionID),
		slog.String("status", req.Status),
		slog.String("reviewer", claims.Subject),
	)

	result, err := h.uc.Review.Execute(ctx, dto.ReviewTransactionRequest{
		TransactionID: req.TransactionID,
		Status:        req.Status,
		Reviewer:      claims.Subject,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "review transaction", err)
	}
	return &TransactionResponse{Transaction: &result}, nil
}

// GetStats returns totals over every stored transaction.
func (h *AmlServiceHandler) GetStats(ctx context.Context, _ *GetStatsRequest) (*GetStatsResponse, error) {
	if _, err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}

	result, err := h.uc.Stats.Execute(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "get stats", err)
	}
	return &GetStatsResponse{Stats: &result}, nil
}

// toStatus maps domain errors to gRPC codes. Unexpected errors are logged
// and hidden behind a generic Internal status.
func (h *AmlServiceHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidTransaction):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrTransactionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrDuplicateTransaction):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, valueobject.ErrInvalidReviewTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, model.ErrRateUnavailable):
		h.logger.WarnContext(ctx, op+" failed", slog.String("error", err.Error()))
		return status.Error(codes.Unavailable, "exchange rate unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		h.logger.ErrorContext(ctx, op+" failed", slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := money.ParseAmount(s)
	if errors.Is(err, money.ErrEmptyAmount) {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

// parseDate leaves an empty date zero so the use case reports it as missing.
func parseDate(s string) (civil.Date, error) {
	if s == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, status.Errorf(codes.InvalidArgument, "invalid value_date: %v", err)
	}
	return d, nil
}
