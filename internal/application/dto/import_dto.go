package dto

// Import row outcomes.
const (
	ImportStatusScored  = "scored"
	ImportStatusInvalid = "invalid"
	ImportStatusFailed  = "failed"
)

// ImportRow is one parsed input line. ParseError is set when the line lacks
// a usable amount, currency or date; such rows are counted, never submitted.
type ImportRow struct {
	ParseError error
	Request    SubmitTransactionRequest
	Line       int
}

// ImportRowResult is the outcome of one import row.
type ImportRowResult struct {
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	Line          int    `json:"line"`
	TotalScore    int    `json:"total_score"`
	IsSuspicious  bool   `json:"is_suspicious"`
}

// ImportResult summarizes a batch import. Rows keep input order.
type ImportResult struct {
	Rows       []ImportRowResult `json:"rows"`
	Total      int               `json:"total"`
	Suspicious int               `json:"suspicious"`
	Normal     int               `json:"normal"`
	Invalid    int               `json:"invalid"`
	Failed     int               `json:"failed"`
}
