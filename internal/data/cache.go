package data

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
	"sofr-analyzer/internal/store"
)

// StoreProvider serves bars straight from the local SQLite cache.
type StoreProvider struct {
	store *store.BarStore
}

// NewStoreProvider creates a cache-only provider.
func NewStoreProvider(st *store.BarStore) *StoreProvider {
	return &StoreProvider{store: st}
}

func (p *StoreProvider) Name() string { return "sqlite" }

func (p *StoreProvider) GetBars(ctx context.Context, contract models.Contract, lookbackDays int) ([]models.Bar, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -lookbackDays)

	bars, err := p.store.GetBars(ctx, contract, from, to)
	if err != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "reading cache", err)
	}
	if len(bars) == 0 {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "no cached bars", apperrors.ErrDataNotFound)
	}
	return bars, nil
}

// cacheMaxAge is how stale the cache may be before the upstream provider is
// consulted again.
const cacheMaxAge = 24 * time.Hour

// CachedProvider layers the SQLite bar cache over an upstream provider.
// Fresh cached data is served directly; otherwise the upstream is fetched
// and the cache refreshed.
type CachedProvider struct {
	upstream Provider
	store    *store.BarStore
	log      zerolog.Logger
}

// NewCachedProvider wraps upstream with the bar cache.
func NewCachedProvider(upstream Provider, st *store.BarStore, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{upstream: upstream, store: st, log: logger}
}

func (p *CachedProvider) Name() string { return p.upstream.Name() + "+cache" }

func (p *CachedProvider) GetBars(ctx context.Context, contract models.Contract, lookbackDays int) ([]models.Bar, error) {
	last, err := p.store.LastTimestamp(ctx, contract)
	if err == nil && time.Since(last) < cacheMaxAge {
		bars, cerr := NewStoreProvider(p.store).GetBars(ctx, contract, lookbackDays)
		if cerr == nil {
			p.log.Debug().Str("contract", string(contract)).Int("bars", len(bars)).Msg("serving cached bars")
			return bars, nil
		}
	}

	bars, err := p.upstream.GetBars(ctx, contract, lookbackDays)
	if err != nil {
		// A stale cache beats no data at all.
		if cached, cerr := NewStoreProvider(p.store).GetBars(ctx, contract, lookbackDays); cerr == nil {
			p.log.Warn().Err(err).Str("contract", string(contract)).Msg("upstream failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}

	if serr := p.store.SaveBars(ctx, contract, bars); serr != nil {
		p.log.Warn().Err(serr).Str("contract", string(contract)).Msg("failed to refresh bar cache")
	}
	return bars, nil
}
