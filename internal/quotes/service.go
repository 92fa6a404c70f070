package quotes

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"ezanafinance/internal/provider"
)

var (
	// ErrNoValidSymbols means the request contained nothing fetchable
	// after validation.
	ErrNoValidSymbols = errors.New("at least one valid symbol is required")

	// ErrUnconfigured means no usable provider credential is present.
	ErrUnconfigured = errors.New("market data provider is not configured")
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9^.\-]+$`)

const maxSymbolLen = 10

// ValidateSymbols trims, uppercases and filters the requested symbols,
// dropping anything that is empty, longer than ten characters or carries
// characters outside A-Z, 0-9, ^, . and -. Duplicates keep their first
// position and the result is capped at max entries.
func ValidateSymbols(raw []string, max int) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" || len(sym) > maxSymbolLen || !symbolPattern.MatchString(sym) {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
		if len(out) == max {
			break
		}
	}
	return out
}

// Service answers batch quote requests from the cache, falling through to
// the provider per symbol on a miss.
type Service struct {
	provider   provider.Provider
	cache      *Cache
	maxSymbols int
	configured bool
}

// NewService wires a provider behind the cache. configured=false makes
// every request fail with ErrUnconfigured; the caller decides that from
// its credential state so a misconfigured deploy fails loudly instead of
// serving empty quotes.
func NewService(p provider.Provider, cache *Cache, maxSymbols int, configured bool) *Service {
	return &Service{provider: p, cache: cache, maxSymbols: maxSymbols, configured: configured}
}

// GetQuotes fetches the requested symbols, serving each from cache when
// fresh. Per-symbol provider failures land in Result.Errors; only an
// unconfigured provider or a fully invalid symbol list fail the batch.
func (s *Service) GetQuotes(ctx context.Context, raw []string) (Result, error) {
	if !s.configured || s.provider == nil {
		return Result{}, ErrUnconfigured
	}
	symbols := ValidateSymbols(raw, s.maxSymbols)
	if len(symbols) == 0 {
		return Result{}, ErrNoValidSymbols
	}

	res := Result{Quotes: []Quote{}, Errors: []QuoteError{}}
	for _, sym := range symbols {
		q, err := s.cache.GetOrFetch(sym, func() (Quote, error) {
			rq, err := s.provider.Quote(ctx, sym)
			if err != nil {
				return Quote{}, err
			}
			return Normalize(sym, rq), nil
		})
		if err != nil {
			res.Errors = append(res.Errors, QuoteError{Symbol: sym, Message: quoteErrMessage(err)})
			continue
		}
		res.Quotes = append(res.Quotes, q)
	}
	return res, nil
}

func quoteErrMessage(err error) string {
	if errors.Is(err, provider.ErrNoData) {
		return "no quote data available"
	}
	return err.Error()
}
