package quotes

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"ezanafinance/internal/provider"
)

type fakeProvider struct {
	quotes map[string]provider.RawQuote
	errs   map[string]error
	calls  []string
}

func (f *fakeProvider) Name() string { return "Fake" }

func (f *fakeProvider) Quote(_ context.Context, symbol string) (provider.RawQuote, error) {
	f.calls = append(f.calls, symbol)
	if err, ok := f.errs[symbol]; ok {
		return provider.RawQuote{}, err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return provider.RawQuote{}, provider.ErrNoData
	}
	return q, nil
}

func newTestService(p provider.Provider, configured bool) *Service {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	return NewService(p, NewCache(5*time.Second, clock.Now), 20, configured)
}

func TestValidateSymbols(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		max  int
		want []string
	}{
		{"trims and uppercases", []string{"aapl ", "MSFT"}, 20, []string{"AAPL", "MSFT"}},
		{"drops empty", []string{"", "  ", "AAPL"}, 20, []string{"AAPL"}},
		{"drops too long", []string{"TOOLONGSYMBOL123", "AAPL"}, 20, []string{"AAPL"}},
		{"drops bad characters", []string{"AA PL", "DROP;TABLE", "BRK.B", "^GSPC", "BTC-USD"}, 20, []string{"BRK.B", "^GSPC", "BTC-USD"}},
		{"dedupes keeping first", []string{"aapl", "AAPL", "msft", "AAPL"}, 20, []string{"AAPL", "MSFT"}},
		{"caps at max", []string{"A", "B", "C", "D"}, 2, []string{"A", "B"}},
		{"all invalid", []string{"", "aa pl"}, 20, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateSymbols(tc.in, tc.max)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ValidateSymbols(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestGetQuotesPartialSuccess(t *testing.T) {
	fake := &fakeProvider{
		quotes: map[string]provider.RawQuote{
			"AAPL": {Current: fp(190.5), PreviousClose: fp(188.0), Change: fp(2.5)},
			"MSFT": {Current: fp(404.0), PreviousClose: fp(400.0), Change: fp(4.0)},
		},
		errs: map[string]error{"FAIL": errors.New("upstream timeout")},
	}
	svc := newTestService(fake, true)

	res, err := svc.GetQuotes(context.Background(), []string{"AAPL", "FAIL", "MSFT"})
	if err != nil {
		t.Fatalf("GetQuotes: %v", err)
	}
	if len(res.Quotes) != 2 {
		t.Fatalf("quotes = %d, want 2", len(res.Quotes))
	}
	if res.Quotes[0].Symbol != "AAPL" || res.Quotes[1].Symbol != "MSFT" {
		t.Fatalf("quote order = %s, %s", res.Quotes[0].Symbol, res.Quotes[1].Symbol)
	}
	if len(res.Errors) != 1 || res.Errors[0].Symbol != "FAIL" {
		t.Fatalf("errors = %+v, want one entry for FAIL", res.Errors)
	}
}

func TestGetQuotesNoDataMessage(t *testing.T) {
	fake := &fakeProvider{}
	svc := newTestService(fake, true)

	res, err := svc.GetQuotes(context.Background(), []string{"NOPE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if res.Errors[0].Message != "no quote data available" {
		t.Fatalf("message = %q", res.Errors[0].Message)
	}
}

func TestGetQuotesNoValidSymbols(t *testing.T) {
	svc := newTestService(&fakeProvider{}, true)

	_, err := svc.GetQuotes(context.Background(), []string{"", "aa pl"})
	if !errors.Is(err, ErrNoValidSymbols) {
		t.Fatalf("err = %v, want ErrNoValidSymbols", err)
	}
}

func TestGetQuotesUnconfigured(t *testing.T) {
	svc := newTestService(&fakeProvider{}, false)

	_, err := svc.GetQuotes(context.Background(), []string{"AAPL"})
	if !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("err = %v, want ErrUnconfigured", err)
	}
}

func TestGetQuotesUsesCache(t *testing.T) {
	fake := &fakeProvider{
		quotes: map[string]provider.RawQuote{
			"AAPL": {Current: fp(190.5), PreviousClose: fp(188.0)},
		},
	}
	svc := newTestService(fake, true)

	for i := 0; i < 3; i++ {
		if _, err := svc.GetQuotes(context.Background(), []string{"AAPL"}); err != nil {
			t.Fatal(err)
		}
	}
	if len(fake.calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(fake.calls))
	}
}
