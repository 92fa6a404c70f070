package quotes

import "ezanafinance/internal/provider"

// Normalize converts a raw provider payload into the canonical Quote.
// When the provider supplies only one of change/change_percent, the other
// is derived from it and previous_close; a zero previous_close yields 0
// rather than dividing. When both are absent they stay absent; the pair
// is never fabricated from current - previous_close.
func Normalize(symbol string, raw provider.RawQuote) Quote {
	pc := 0.0
	if raw.PreviousClose != nil {
		pc = *raw.PreviousClose
	}

	d := raw.Change
	dp := raw.ChangePercent
	if raw.Current != nil && raw.PreviousClose != nil {
		switch {
		case dp == nil && d != nil:
			v := 0.0
			if pc != 0 {
				v = *d / pc * 100
			}
			dp = &v
		case d == nil && dp != nil:
			v := pc * (*dp / 100)
			d = &v
		}
	}

	return Quote{
		Symbol:        symbol,
		CurrentPrice:  raw.Current,
		PreviousClose: pc,
		Change:        d,
		ChangePercent: dp,
		High:          raw.High,
		Low:           raw.Low,
		Open:          raw.Open,
		Timestamp:     raw.Timestamp,
	}
}
