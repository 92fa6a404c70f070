package mockfeed

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"ezanafinance/internal/provider"
)

// Feed serves deterministic pseudo-quotes so the API stays usable without
// a provider credential. It is selected explicitly via market.provider
// "mock" in config, never as a fallback when the real provider fails.
type Feed struct {
	now func() time.Time
}

func New() *Feed {
	return &Feed{now: time.Now}
}

// NewWithClock is used by tests to pin the drift component.
func NewWithClock(now func() time.Time) *Feed {
	return &Feed{now: now}
}

func (f *Feed) Name() string { return "MockFeed" }

// Quote fabricates a plausible quote. The previous close is a stable
// function of the symbol; the current price drifts with wall time so
// repeated calls look alive without breaking per-symbol determinism.
func (f *Feed) Quote(_ context.Context, symbol string) (provider.RawQuote, error) {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	seed := int64(h.Sum64() & math.MaxInt64)

	faker := gofakeit.New(seed)
	pc := faker.Float64Range(10, 500)

	now := f.now()
	// +-1.5% intraday swing on a 10-minute wave.
	phase := float64(now.Unix()%600) / 600 * 2 * math.Pi
	c := pc * (1 + 0.015*math.Sin(phase))
	d := c - pc
	dp := d / pc * 100
	high := math.Max(c, pc) * 1.004
	low := math.Min(c, pc) * 0.996
	open := pc * 1.001

	return provider.RawQuote{
		Current:       &c,
		PreviousClose: &pc,
		Change:        &d,
		ChangePercent: &dp,
		High:          &high,
		Low:           &low,
		Open:          &open,
		Timestamp:     now.Unix(),
	}, nil
}
