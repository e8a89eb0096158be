// Package csvimport parses transaction batch files into import rows.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/pkg/money"
)

// Column names in the batch file header.
const (
	ColTransactionID      = "transaction_id"
	ColAccountID          = "account_id"
	ColTransactionDate    = "transaction_date"
	ColOriginatorName     = "originator_name"
	ColOriginatorCountry  = "originator_country"
	ColBeneficiaryName    = "beneficiary_name"
	ColBeneficiaryCountry = "beneficiary_country"
	ColAmount             = "transaction_amount"
	ColCurrency           = "currency_code"
	ColPaymentInstruction = "payment_instruction"
	ColPaymentType        = "payment_type"
)

var requiredColumns = []string{ColAmount, ColCurrency, ColTransactionDate}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ReadRows parses r. The first record is the header; columns are matched by
// name in any order and unknown columns are ignored. Rows without a usable
// amount, currency or date carry a ParseError instead of failing the file.
func ReadRows(r io.Reader) ([]dto.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var rows []dto.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		rows = append(rows, parseRow(record, cols, line))
	}
	return rows, nil
}

func parseRow(record []string, cols map[string]int, line int) dto.ImportRow {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := dto.ImportRow{
		Line: line,
		Request: dto.SubmitTransactionRequest{
			TransactionID:      field(ColTransactionID),
			AccountID:          field(ColAccountID),
			Currency:           field(ColCurrency),
			OriginatorName:     field(ColOriginatorName),
			OriginatorCountry:  field(ColOriginatorCountry),
			BeneficiaryName:    field(ColBeneficiaryName),
			BeneficiaryCountry: field(ColBeneficiaryCountry),
			PaymentNarrative:   field(ColPaymentInstruction),
			PaymentType:        field(ColPaymentType),
		},
	}

	rawAmount := field(ColAmount)
	rawDate := field(ColTransactionDate)
	switch {
	case rawAmount == "":
		row.ParseError = fmt.Errorf("line %d: %s is empty", line, ColAmount)
		return row
	case row.Request.Currency == "":
		row.ParseError = fmt.Errorf("line %d: %s is empty", line, ColCurrency)
		return row
	case rawDate == "":
		row.ParseError = fmt.Errorf("line %d: %s is empty", line, ColTransactionDate)
		return row
	}

	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		row.ParseError = fmt.Errorf("line %d: invalid %s %q", line, ColAmount, rawAmount)
		return row
	}
	row.Request.Amount = amount

	date, err := ParseDate(rawDate)
	if err != nil {
		row.ParseError = fmt.Errorf("line %d: %w", line, err)
		return row
	}
	row.Request.ValueDate = date
	return row
}

// ParseDate accepts YYYY-MM-DD, DD-MM-YYYY and RFC 3339 timestamps. A
// timestamp contributes only its calendar date.
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse("02-01-2006", s); err == nil {
		return civil.DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), nil
	}
	return civil.Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or DD-MM-YYYY", s)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
