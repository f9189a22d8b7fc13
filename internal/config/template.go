package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# SOFR Futures Support & Resistance Analyzer configuration

contracts = ["MAR26", "JUN26", "SEP26", "DEC26"]

[contract_specs]
tick_size = 0.0025
tick_value = 6.25
contract_size = 1000000

[detection]
lookback_days = 90
price_tolerance = 0.005
min_touches = 2

[detection.pivot]
left_bars = 5
right_bars = 5

[detection.volume_profile]
enabled = true
bins = 50

[detection.fibonacci]
enabled = false
levels = [0.236, 0.382, 0.5, 0.618, 0.786]

[data_source]
# provider: csv, yahoo, sqlite or synthetic
provider = "csv"
csv_path = "data"

[data_source.ticker_mapping]
# MAR26 = "SR3H26.CME"

[analysis]
max_levels_per_side = 5
strong_level = 3

[logging]
level = "info"
file = true
`

// writeTemplate creates a template config file in the given directory.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0o644)
}
