package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"ezanafinance/internal/provider"
)

// Quote retrieves the real-time quote for a single symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (provider.RawQuote, error) {
	query := maps.Clone(c.query)
	query.Add("symbol", symbol)

	url := fmt.Sprintf("%s/quote?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return provider.RawQuote{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return provider.RawQuote{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return provider.RawQuote{}, fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return provider.RawQuote{}, fmt.Errorf("rate limited")

	default:
		return provider.RawQuote{}, fmt.Errorf("HTTP %d", res.StatusCode)
	}

	var raw provider.RawQuote
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return provider.RawQuote{}, fmt.Errorf("decoding quote response: %w", err)
	}
	if !raw.HasData() {
		return provider.RawQuote{}, provider.ErrNoData
	}
	return raw, nil
}
