package quotes

// Quote is the normalized shape served to clients regardless of which
// provider produced it. Optional fields stay pointers: a missing change
// is not a zero change.
type Quote struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"current_price"`
	PreviousClose float64  `json:"previous_close"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Open          *float64 `json:"open"`
	Timestamp     int64    `json:"timestamp"`
}

// QuoteError reports a per-symbol failure inside an otherwise successful
// batch response.
type QuoteError struct {
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// Result is the partial-success envelope: errors never fail the batch.
type Result struct {
	Quotes []Quote      `json:"quotes"`
	Errors []QuoteError `json:"errors"`
}
