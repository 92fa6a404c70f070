package finnhub_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ezanafinance/internal/provider"
	finnhub "ezanafinance/internal/provider/finnhub"
)

func TestNew(t *testing.T) {
	t.Parallel()

	// Assert: a valid key should return a client.
	client, err := finnhub.New("test")
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")
}

func TestQuote_SendsTokenAndSymbol(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the request carries both the symbol and the token.
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "AAPL", req.URL.Query().Get("symbol"))
			require.Equal(t, "test", req.URL.Query().Get("token"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{
				"c": 190.5, "pc": 188.0, "d": 2.5, "dp": 1.329, "h": 191.0, "l": 187.2, "o": 188.4, "t": 1700000000,
			}))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	client, err := finnhub.New("test", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: fetch a quote through the mock.
	raw, err := client.Quote(t.Context(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, raw.Current)
	require.InDelta(t, 190.5, *raw.Current, 1e-9)
	require.NotNil(t, raw.PreviousClose)
	require.InDelta(t, 188.0, *raw.PreviousClose, 1e-9)
}

func TestQuote_WithBaseURL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080"

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{"c": 1.0}))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	client, err := finnhub.New("test", finnhub.WithHTTPClient(httpClient), finnhub.WithBaseURL(baseURL))
	require.NoError(t, err)

	_, err = client.Quote(t.Context(), "MSFT")
	require.NoError(t, err)
}

func TestQuote_EmptyPayloadIsNoData(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Finnhub answers 200 with null fields for unknown symbols.
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{"c": nil, "d": nil, "t": 0}))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	client, err := finnhub.New("test", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.Quote(t.Context(), "NOPE")
	require.ErrorIs(t, err, provider.ErrNoData)
}

func TestQuote_NonOKStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil).
		Times(1)

	client, err := finnhub.New("test", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.Quote(t.Context(), "AAPL")
	require.Error(t, err)
	require.False(t, errors.Is(err, provider.ErrNoData))
}
