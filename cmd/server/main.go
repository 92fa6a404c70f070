package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ezanafinance/internal/bank"
	"ezanafinance/internal/config"
	"ezanafinance/internal/httpx"
	"ezanafinance/internal/provider"
	"ezanafinance/internal/provider/finnhub"
	"ezanafinance/internal/provider/mockfeed"
	"ezanafinance/internal/provider/ratelimit"
	"ezanafinance/internal/quotes"
	"ezanafinance/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env: %v", err)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(ctx, cfg.Database.URL)
	cancel()
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = st.EnsureSchema(schemaCtx)
	cancel()
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	quotesService := buildQuotesService(cfg)
	bankService := bank.NewService(st, bank.NewMockFeed())

	api := NewAPI(cfg, st, quotesService, bankService)
	if err := api.Start(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildQuotesService(cfg config.Config) *quotes.Service {
	var p provider.Provider
	switch cfg.Market.Provider {
	case "mock":
		p = mockfeed.New()
	default:
		if !cfg.Market.KeyConfigured() {
			log.Println("warning: FINNHUB_API_KEY not set; market quotes will answer 503")
		}
		httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
		client, err := finnhub.New(cfg.Market.APIKey,
			finnhub.WithBaseURL(cfg.Market.Endpoint),
			finnhub.WithHTTPClient(httpClient.HTTP),
			finnhub.WithHeader(http.Header{"User-Agent": []string{httpClient.UserAgent}}),
		)
		if err != nil {
			log.Fatalf("finnhub: %v", err)
		}
		p = client
	}

	if cfg.Market.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.Market.MaxRequestsPerMinute) / 60.0
		burst := cfg.Market.Burst
		if burst <= 0 {
			burst = 1
		}
		p = &ratelimit.TokenBucketProvider{P: p, TB: ratelimit.NewTokenBucket(rate, burst)}
	}

	cache := quotes.NewCache(time.Duration(cfg.Market.RefreshSeconds)*time.Second, nil)
	return quotes.NewService(p, cache, cfg.Market.MaxSymbols, cfg.Market.KeyConfigured())
}
