package segmentation

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultFitToleranceMultiplier widens epsilon during the final global
// verification so near-border points attach to the committed shape.
const DefaultFitToleranceMultiplier = 3.0

// Config carries the detection parameters.
type Config struct {
	// Probability is the maximum tolerated chance of overlooking a shape
	// with at least MinPoints support, in (0, 1].
	Probability float64
	// MinPoints is the minimum support for a shape to be extracted.
	MinPoints int
	// Epsilon is the maximum absolute distance of a matched point to the
	// fitted surface.
	Epsilon float64
	// NormalThreshold is the maximum normal deviation (1-|cos|) of a
	// matched point, in [0, 1].
	NormalThreshold float64
	// ClusterEpsilon is the maximum gap between matched points within one
	// connected component.
	ClusterEpsilon float64
	// FitToleranceMultiplier scales Epsilon during the final global
	// verification of the winning candidate. Zero selects the default of
	// 3; set 1 for strict verification at Epsilon itself.
	FitToleranceMultiplier float64
}

// withDefaults fills unset optional fields.
func (cfg Config) withDefaults() Config {
	if cfg.FitToleranceMultiplier == 0 {
		cfg.FitToleranceMultiplier = DefaultFitToleranceMultiplier
	}
	return cfg
}

// Validate checks every field, reporting all violations at once.
func (cfg Config) Validate() error {
	var err error
	if cfg.Probability <= 0 || cfg.Probability > 1 {
		err = multierr.Append(err, errors.Errorf("probability must be in (0, 1], got %v", cfg.Probability))
	}
	if cfg.MinPoints <= 0 {
		err = multierr.Append(err, errors.Errorf("min_points must be positive, got %d", cfg.MinPoints))
	}
	if cfg.Epsilon <= 0 {
		err = multierr.Append(err, errors.Errorf("epsilon must be positive, got %v", cfg.Epsilon))
	}
	if cfg.NormalThreshold < 0 || cfg.NormalThreshold > 1 {
		err = multierr.Append(err, errors.Errorf("normal_threshold must be in [0, 1], got %v", cfg.NormalThreshold))
	}
	if cfg.ClusterEpsilon <= 0 {
		err = multierr.Append(err, errors.Errorf("cluster_epsilon must be positive, got %v", cfg.ClusterEpsilon))
	}
	if cfg.FitToleranceMultiplier != 0 && cfg.FitToleranceMultiplier < 1 {
		err = multierr.Append(err, errors.Errorf("fit_tolerance_multiplier must be at least 1, got %v", cfg.FitToleranceMultiplier))
	}
	return err
}
