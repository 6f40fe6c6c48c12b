package segmentation

import (
	"testing"

	"go.viam.com/test"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Probability:     0.05,
		MinPoints:       100,
		Epsilon:         0.01,
		NormalThreshold: 0.2,
		ClusterEpsilon:  0.05,
	}
	test.That(t, valid.Validate(), test.ShouldBeNil)

	t.Run("all violations reported together", func(t *testing.T) {
		err := Config{Probability: 2, MinPoints: -1, Epsilon: 0, NormalThreshold: 3, ClusterEpsilon: -1}.Validate()
		test.That(t, err, test.ShouldNotBeNil)
		for _, fragment := range []string{"probability", "min_points", "epsilon", "normal_threshold", "cluster_epsilon"} {
			test.That(t, err.Error(), test.ShouldContainSubstring, fragment)
		}
	})

	t.Run("multiplier below one rejected", func(t *testing.T) {
		cfg := valid
		cfg.FitToleranceMultiplier = 0.5
		test.That(t, cfg.Validate(), test.ShouldNotBeNil)
	})

	t.Run("strict multiplier allowed", func(t *testing.T) {
		cfg := valid
		cfg.FitToleranceMultiplier = 1
		test.That(t, cfg.Validate(), test.ShouldBeNil)
	})

	t.Run("defaulting fills the multiplier", func(t *testing.T) {
		cfg := valid.withDefaults()
		test.That(t, cfg.FitToleranceMultiplier, test.ShouldEqual, DefaultFitToleranceMultiplier)
	})
}
