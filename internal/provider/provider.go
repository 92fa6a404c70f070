package provider

import (
	"context"
	"errors"
)

// RawQuote is the wire shape returned by the quote provider (Finnhub's
// /quote payload). Optional fields are pointers so an absent field is
// distinguishable from a zero after JSON decoding.
type RawQuote struct {
	Current       *float64 `json:"c"`
	PreviousClose *float64 `json:"pc"`
	Change        *float64 `json:"d"`
	ChangePercent *float64 `json:"dp"`
	High          *float64 `json:"h"`
	Low           *float64 `json:"l"`
	Open          *float64 `json:"o"`
	Timestamp     int64    `json:"t"`
}

// HasData reports whether the payload carries an actual quote. The
// upstream returns 200 with an all-null body for unknown symbols, so a
// payload with neither a current price nor a change is "no data".
func (r RawQuote) HasData() bool {
	return r.Current != nil || r.Change != nil
}

// ErrNoData marks a well-formed provider response that contains no quote.
var ErrNoData = errors.New("no quote data")

type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (RawQuote, error)
}
