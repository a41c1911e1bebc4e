// Package settings loads and saves engine configuration from TOML files.
//
// Settings cover the detection bounds, symbol resolution tolerances, and
// report shape. Zero values mean "use the engine default", so a partial
// file overrides only the keys it names.
package settings

import (
	"os"

	"github.com/BurntSushi/toml"

	"pilaster/pkg/batch"
	"pilaster/pkg/detect"
	"pilaster/pkg/errors"
	"pilaster/pkg/symbol"
)

// Settings is the engine configuration file.
type Settings struct {
	// Detection
	Tolerance float64 `toml:"tolerance"`
	MinSize   float64 `toml:"min_size"`
	MaxSize   float64 `toml:"max_size"`

	// Symbol resolution
	SymbolTolerance float64  `toml:"symbol_tolerance"`
	BaseFamily      string   `toml:"base_family"`
	WidthParams     []string `toml:"width_params"`
	HeightParams    []string `toml:"height_params"`

	// Placement
	Elevation float64 `toml:"elevation"`

	// Reporting
	FailurePreview int `toml:"failure_preview"`
}

// Default returns settings with every engine default filled in.
func Default() Settings {
	return Settings{
		Tolerance:       detect.DefaultTolerance,
		MinSize:         detect.DefaultMinSize,
		MaxSize:         detect.DefaultMaxSize,
		SymbolTolerance: symbol.DefaultTolerance,
		WidthParams:     symbol.DefaultWidthParams,
		HeightParams:    symbol.DefaultHeightParams,
		FailurePreview:  batch.DefaultFailurePreview,
	}
}

// Load reads settings from a TOML file at path. Keys absent from the file
// keep their zero value; apply the result with [Settings.Apply] so engine
// defaults fill the gaps.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeSettingsIO, err, "read %s", path)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeSettingsIO, err, "parse %s", path)
	}
	return s, nil
}

// Save writes settings as TOML to path.
func Save(s Settings, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSettingsIO, err, "create %s", path)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeSettingsIO, err, "encode %s", path)
	}
	return nil
}

// Apply copies the non-zero settings onto batch options. Options already
// set by the caller (flags) win over the file.
func (s Settings) Apply(opts *batch.Options) {
	if opts.Tolerance <= 0 {
		opts.Tolerance = s.Tolerance
	}
	if opts.MinSize <= 0 {
		opts.MinSize = s.MinSize
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = s.MaxSize
	}
	if opts.SymbolTolerance <= 0 {
		opts.SymbolTolerance = s.SymbolTolerance
	}
	if opts.BaseFamily == "" {
		opts.BaseFamily = s.BaseFamily
	}
	if len(opts.WidthParams) == 0 {
		opts.WidthParams = s.WidthParams
	}
	if len(opts.HeightParams) == 0 {
		opts.HeightParams = s.HeightParams
	}
	if opts.Elevation == 0 {
		opts.Elevation = s.Elevation
	}
	if opts.FailurePreview <= 0 {
		opts.FailurePreview = s.FailurePreview
	}
}
