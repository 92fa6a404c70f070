package quotes

import (
	"math"
	"testing"

	"ezanafinance/internal/provider"
)

func fp(v float64) *float64 { return &v }

func TestNormalizeDerivesChangePercent(t *testing.T) {
	q := Normalize("AAPL", provider.RawQuote{
		Current:       fp(190.5),
		PreviousClose: fp(188.0),
		Change:        fp(2.5),
	})

	if q.Symbol != "AAPL" {
		t.Fatalf("symbol = %q", q.Symbol)
	}
	if q.ChangePercent == nil {
		t.Fatal("change_percent not derived")
	}
	want := 2.5 / 188.0 * 100
	if math.Abs(*q.ChangePercent-want) > 1e-9 {
		t.Fatalf("change_percent = %v, want %v", *q.ChangePercent, want)
	}
}

func TestNormalizeDerivesChange(t *testing.T) {
	q := Normalize("MSFT", provider.RawQuote{
		Current:       fp(404.0),
		PreviousClose: fp(400.0),
		ChangePercent: fp(1.0),
	})

	if q.Change == nil {
		t.Fatal("change not derived")
	}
	if math.Abs(*q.Change-4.0) > 1e-9 {
		t.Fatalf("change = %v, want 4.0", *q.Change)
	}
}

func TestNormalizeZeroPreviousClose(t *testing.T) {
	q := Normalize("NEWIPO", provider.RawQuote{
		Current:       fp(10.0),
		PreviousClose: fp(0),
		Change:        fp(10.0),
	})

	if q.ChangePercent == nil {
		t.Fatal("change_percent absent")
	}
	if *q.ChangePercent != 0 {
		t.Fatalf("change_percent = %v, want 0 when previous close is zero", *q.ChangePercent)
	}
}

func TestNormalizeNeverFabricatesPair(t *testing.T) {
	// Both d and dp missing: nothing is derived from c - pc.
	q := Normalize("AAPL", provider.RawQuote{
		Current:       fp(190.5),
		PreviousClose: fp(188.0),
	})

	if q.Change != nil || q.ChangePercent != nil {
		t.Fatalf("change pair fabricated: d=%v dp=%v", q.Change, q.ChangePercent)
	}
}

func TestNormalizeMissingPreviousClose(t *testing.T) {
	q := Normalize("AAPL", provider.RawQuote{
		Current: fp(190.5),
		Change:  fp(2.5),
	})

	if q.PreviousClose != 0 {
		t.Fatalf("previous_close = %v, want 0", q.PreviousClose)
	}
	// Without a previous close there is nothing to derive against.
	if q.ChangePercent != nil {
		t.Fatalf("change_percent = %v, want nil", *q.ChangePercent)
	}
}

func TestNormalizePassesThroughCompleteQuote(t *testing.T) {
	raw := provider.RawQuote{
		Current:       fp(190.5),
		PreviousClose: fp(188.0),
		Change:        fp(2.5),
		ChangePercent: fp(1.329),
		High:          fp(191.0),
		Low:           fp(187.2),
		Open:          fp(188.4),
		Timestamp:     1700000000,
	}
	q := Normalize("AAPL", raw)

	if *q.Change != 2.5 || *q.ChangePercent != 1.329 {
		t.Fatalf("change pair rewritten: d=%v dp=%v", *q.Change, *q.ChangePercent)
	}
	if *q.High != 191.0 || *q.Low != 187.2 || *q.Open != 188.4 || q.Timestamp != 1700000000 {
		t.Fatal("ohlc/timestamp not passed through")
	}
}
