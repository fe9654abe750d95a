package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"divtrack/internal/logger"
	"divtrack/internal/models"
)

const (
	// defaultTTL bounds provider call volume; it does not promise
	// real-time pricing.
	defaultTTL = time.Hour

	// Retry policy for rate-limited provider responses: linear backoff,
	// 2s * attempt number.
	maxFetchAttempts = 3
	retryBackoffStep = 2 * time.Second
)

// defaultUSDCADRate is the fallback when both the cache and the provider
// fail to produce a USD/CAD rate.
var defaultUSDCADRate = decimal.NewFromFloat(1.35)

// CachedQuote is a quote served from the cache layer. Cached reports
// that it came from the persistent cache rather than a fresh fetch;
// Stale that the entry had already expired (served only by FX fallback
// paths, never for quotes).
type CachedQuote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	Currency      string          `json:"currency"`
	FetchedAt     time.Time       `json:"fetched_at"`
	Cached        bool            `json:"cached"`
}

// FxRate is an exchange rate with a staleness flag: Stale means the
// provider could not be reached and the value is a cached-but-expired
// entry or the hardcoded default.
type FxRate struct {
	Rate  decimal.Decimal `json:"rate"`
	Stale bool            `json:"stale"`
}

// Service is the market data cache: a persistent TTL cache over a
// rate-limited provider. All provider failures are absorbed here and
// degrade the result (nil quote, default FX) instead of propagating.
type Service struct {
	db       *gorm.DB
	provider Provider
	limiter  *RateLimiter
	ttl      time.Duration
	fxFloor  decimal.Decimal
	now      func() time.Time
}

// Options tunes the cache service; zero values take defaults.
type Options struct {
	TTL               time.Duration
	MinInterval       time.Duration
	DefaultUSDCADRate decimal.Decimal
	Now               func() time.Time
}

// NewService creates a market data cache over the given store and provider.
func NewService(db *gorm.DB, provider Provider, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.DefaultUSDCADRate.IsZero() {
		opts.DefaultUSDCADRate = defaultUSDCADRate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		db:       db,
		provider: provider,
		limiter:  NewRateLimiter(opts.MinInterval),
		ttl:      opts.TTL,
		fxFloor:  opts.DefaultUSDCADRate,
		now:      opts.Now,
	}
}

// GetQuote returns the quote for one symbol, or nil if it cannot be
// obtained: a valid cache entry wins, otherwise a fresh fetch is
// attempted and cached best-effort.
func (s *Service) GetQuote(ctx context.Context, symbol string) *CachedQuote {
	quotes := s.GetQuotes(ctx, []string{symbol})
	return quotes[symbol]
}

// GetQuotes returns quotes for the given symbols, keyed by symbol.
// Symbols that can be served neither from cache nor from the provider
// are absent from the result.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) map[string]*CachedQuote {
	result := make(map[string]*CachedQuote, len(symbols))
	if len(symbols) == 0 {
		return result
	}
	now := s.now()

	var entries []models.QuoteCache
	if err := s.db.Where("symbol IN ?", symbols).Find(&entries).Error; err != nil {
		logger.Get().Warnw("quote cache read failed", "error", err.Error())
	}
	valid := make(map[string]*models.QuoteCache, len(entries))
	for i := range entries {
		if now.Before(entries[i].ExpiresAt) {
			valid[entries[i].Symbol] = &entries[i]
		}
	}

	var misses []string
	for _, sym := range symbols {
		if entry, ok := valid[sym]; ok {
			result[sym] = &CachedQuote{
				Symbol:        entry.Symbol,
				Price:         entry.Price,
				PreviousClose: entry.PreviousClose,
				Currency:      entry.Currency,
				FetchedAt:     entry.FetchedAt,
				Cached:        true,
			}
			continue
		}
		misses = append(misses, sym)
	}
	if len(misses) == 0 {
		return result
	}

	fresh, err := s.fetchQuotesWithRetry(ctx, misses)
	if err != nil {
		// Exhausted retries: the missing symbols stay absent and the
		// caller degrades to cost-basis valuation.
		logger.Get().Warnw("quote fetch failed, serving partial results",
			"missing", len(misses), "error", err.Error())
		return result
	}

	for _, sym := range misses {
		q, ok := fresh[sym]
		if !ok {
			continue
		}
		s.upsertQuote(q, now)
		result[sym] = &CachedQuote{
			Symbol:        q.Symbol,
			Price:         q.Price,
			PreviousClose: q.PreviousClose,
			Currency:      q.Currency,
			FetchedAt:     now,
		}
	}
	return result
}

// GetFxRate returns the USD/CAD rate. Fallback order on provider
// failure: expired cache entry (flagged stale), then the default rate.
func (s *Service) GetFxRate(ctx context.Context) FxRate {
	now := s.now()

	var entry models.FxRateCache
	err := s.db.First(&entry, "pair = ?", FxPairUSDCAD).Error
	cached := err == nil
	if cached && now.Before(entry.ExpiresAt) {
		return FxRate{Rate: entry.Rate}
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Get().Warnw("fx cache read failed", "error", err.Error())
	}

	rate, err := s.fetchFxWithRetry(ctx)
	if err != nil {
		logger.Get().Warnw("fx fetch failed, using fallback", "error", err.Error())
		if cached {
			return FxRate{Rate: entry.Rate, Stale: true}
		}
		return FxRate{Rate: s.fxFloor, Stale: true}
	}

	s.upsertFx(rate, now)
	return FxRate{Rate: rate}
}

// RefreshAll force-fetches quotes for every given symbol plus the FX
// rate, regardless of cache validity, and returns how many quotes were
// stored. Invoked by the pipeline endpoint and the refresh job.
func (s *Service) RefreshAll(ctx context.Context, symbols []string) (int, error) {
	now := s.now()

	fresh, err := s.fetchQuotesWithRetry(ctx, symbols)
	if err != nil {
		return 0, err
	}
	for _, q := range fresh {
		s.upsertQuote(q, now)
	}

	if rate, err := s.fetchFxWithRetry(ctx); err != nil {
		logger.Get().Warnw("fx refresh failed", "error", err.Error())
	} else {
		s.upsertFx(rate, now)
	}

	return len(fresh), nil
}

// fetchQuotesWithRetry calls the provider through the rate limiter,
// retrying rate-limit responses with linearly increasing backoff.
func (s *Service) fetchQuotesWithRetry(ctx context.Context, symbols []string) (map[string]Quote, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		quotes, err := s.provider.FetchQuotes(ctx, symbols)
		if err == nil {
			return quotes, nil
		}
		lastErr = err
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		if err := s.backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// fetchFxWithRetry mirrors fetchQuotesWithRetry for the FX endpoint.
func (s *Service) fetchFxWithRetry(ctx context.Context) (decimal.Decimal, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return decimal.Zero, err
		}
		rate, err := s.provider.FetchFxRate(ctx, FxPairUSDCAD)
		if err == nil {
			return rate, nil
		}
		lastErr = err
		if !errors.Is(err, ErrRateLimited) {
			return decimal.Zero, err
		}
		if err := s.backoff(ctx, attempt); err != nil {
			return decimal.Zero, err
		}
	}
	return decimal.Zero, lastErr
}

// backoff sleeps for the linear backoff step, honoring cancellation.
func (s *Service) backoff(ctx context.Context, attempt int) error {
	if attempt >= maxFetchAttempts {
		return nil
	}
	timer := time.NewTimer(retryBackoffStep * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// upsertQuote stores a fresh quote best-effort: a write failure degrades
// to an uncached read, it never fails the lookup.
func (s *Service) upsertQuote(q Quote, now time.Time) {
	entry := models.QuoteCache{
		Symbol:        q.Symbol,
		Price:         q.Price,
		PreviousClose: q.PreviousClose,
		Currency:      q.Currency,
		FetchedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		UpdateAll: true,
	}).Create(&entry).Error; err != nil {
		logger.Get().Warnw("quote cache write failed", "symbol", q.Symbol, "error", err.Error())
	}
}

// upsertFx stores a fresh FX rate best-effort.
func (s *Service) upsertFx(rate decimal.Decimal, now time.Time) {
	entry := models.FxRateCache{
		Pair:      FxPairUSDCAD,
		Rate:      rate,
		FetchedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pair"}},
		UpdateAll: true,
	}).Create(&entry).Error; err != nil {
		logger.Get().Warnw("fx cache write failed", "error", err.Error())
	}
}
