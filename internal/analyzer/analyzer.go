// Package analyzer orchestrates one analysis run: bar acquisition, level
// detection, summary statistics and the indicator battery.
package analyzer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sofr-analyzer/internal/analysis/indicators"
	"sofr-analyzer/internal/analysis/levels"
	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/data"
	"sofr-analyzer/internal/models"
)

// ContractAnalysis is the full output for one contract.
type ContractAnalysis struct {
	Contract    models.Contract
	Bars        int
	Result      *levels.Result
	Levels      *models.LevelSet
	Stats       models.Statistics
	Indicators  *indicators.Snapshot
	GeneratedAt time.Time
}

// Analyzer runs the detection pipeline for configured contracts.
type Analyzer struct {
	cfg      *config.Config
	provider data.Provider
	detector *levels.Detector
	log      zerolog.Logger
}

// New creates an analyzer over the given data provider.
func New(cfg *config.Config, provider data.Provider, logger zerolog.Logger) (*Analyzer, error) {
	det, err := levels.NewDetector(cfg.Detection, logger)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		cfg:      cfg,
		provider: provider,
		detector: det,
		log:      logger,
	}, nil
}

// AnalyzeContract fetches bars and runs the full pipeline for one contract.
func (a *Analyzer) AnalyzeContract(ctx context.Context, contract models.Contract) (*ContractAnalysis, error) {
	log := a.log.With().Str("contract", string(contract)).Logger()

	bars, err := a.provider.GetBars(ctx, contract, a.cfg.Detection.LookbackDays)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("bars", len(bars)).Str("provider", a.provider.Name()).Msg("bars acquired")

	result, err := a.detector.Analyze(bars)
	if err != nil {
		return nil, apperrors.Wrapf(err, "analyzing %s", contract)
	}

	// The indicator battery needs more history than the detector; a short
	// series just omits it.
	snap, err := indicators.Compute(bars)
	if err != nil {
		log.Debug().Err(err).Msg("indicator battery skipped")
		snap = nil
	}

	set := result.Nearest(a.cfg.Analysis.MaxLevelsPerSide)
	var atr float64
	if snap != nil {
		atr = snap.ATR14
	}

	return &ContractAnalysis{
		Contract:    contract,
		Bars:        len(bars),
		Result:      result,
		Levels:      set,
		Stats:       computeStatistics(result, atr),
		Indicators:  snap,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// AnalyzeContracts analyzes all contracts concurrently, preserving input
// order. Contracts that fail are logged and skipped; an error is returned
// only when every contract fails.
func (a *Analyzer) AnalyzeContracts(ctx context.Context, contracts []models.Contract) ([]*ContractAnalysis, error) {
	results := make([]*ContractAnalysis, len(contracts))
	errs := make([]error, len(contracts))

	var wg sync.WaitGroup
	for i, c := range contracts {
		wg.Add(1)
		go func(i int, c models.Contract) {
			defer wg.Done()
			results[i], errs[i] = a.AnalyzeContract(ctx, c)
		}(i, c)
	}
	wg.Wait()

	out := make([]*ContractAnalysis, 0, len(contracts))
	var firstErr error
	for i := range contracts {
		if errs[i] != nil {
			a.log.Warn().Err(errs[i]).Str("contract", string(contracts[i])).Msg("contract analysis failed")
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		out = append(out, results[i])
	}

	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
