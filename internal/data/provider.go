// Package data acquires historical OHLCV bars for SOFR futures contracts
// from CSV files, Yahoo Finance, the local bar cache or a synthetic
// generator.
package data

import (
	"context"

	"github.com/rs/zerolog"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/models"
	"sofr-analyzer/internal/store"
)

// Provider supplies daily bars for a contract.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// GetBars returns up to lookbackDays of daily bars, oldest first.
	GetBars(ctx context.Context, contract models.Contract, lookbackDays int) ([]models.Bar, error)
}

// New builds the provider selected by the configuration. The bar store is
// optional; when present, network providers are wrapped with the cache
// layer.
func New(cfg config.DataSourceConfig, st *store.BarStore, logger zerolog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "csv":
		return NewCSVProvider(cfg.CSVPath, logger), nil
	case "yahoo":
		p := NewYahooProvider(cfg.TickerMapping, logger)
		if st != nil {
			return NewCachedProvider(p, st, logger), nil
		}
		return p, nil
	case "sqlite":
		if st == nil {
			return nil, apperrors.NewConfigError("data_source.provider", cfg.Provider, "sqlite provider requires a bar store")
		}
		return NewStoreProvider(st), nil
	case "synthetic":
		return NewSyntheticProvider(), nil
	default:
		return nil, apperrors.NewConfigError("data_source.provider", cfg.Provider, "unsupported provider")
	}
}
