package interpret

// #region species
// Species selects the arousal-modulation curve: how strongly
// physiological arousal sharpens memory encoding.
type Species string

const (
	Human   Species = "human"
	Animal  Species = "animal"
	Robotic Species = "robotic"
)

// #endregion species

// #region salience
// SalienceFunc combines a base salience with arousal, valence, a trauma
// flag, and species into the final [0,1] memorability score. Callers
// with their own encoding model pass a replacement; nil selects
// DefaultSalience.
type SalienceFunc func(base, arousal, valence float32, trauma bool, species Species) float32

const (
	// arousalThreshold is where arousal starts sharpening encoding;
	// arousalCeiling is where it tips into impairment instead.
	arousalThreshold = 0.3
	arousalCeiling   = 0.9

	arousalWeightHuman   = 0.3
	arousalWeightAnimal  = 0.45
	arousalWeightRobotic = 0.0

	// extremeArousalImpairment degrades encoding past the ceiling.
	extremeArousalImpairment = 0.7

	// negativityBias over-weights negative events in memory.
	negativityBias = 1.2

	// traumaFloor: capability-raising events are never forgettable.
	traumaFloor = 0.75
)

func arousalWeight(sp Species) float32 {
	switch sp {
	case Animal:
		return arousalWeightAnimal
	case Robotic:
		return arousalWeightRobotic
	default:
		return arousalWeightHuman
	}
}

// DefaultSalience is an inverted-U arousal curve: moderate arousal
// boosts encoding in proportion to the species weight, extreme arousal
// impairs it, negative valence is over-weighted, and trauma events get
// a hard floor.
func DefaultSalience(base, arousal, valence float32, trauma bool, species Species) float32 {
	s := base

	a := arousal
	if a < 0 {
		a = -a
	}
	switch {
	case a > arousalCeiling:
		s *= extremeArousalImpairment
	case a > arousalThreshold:
		s += arousalWeight(species) * (a - arousalThreshold) / (arousalCeiling - arousalThreshold)
	}

	if valence < 0 {
		s *= negativityBias
	}
	if trauma && s < traumaFloor {
		s = traumaFloor
	}

	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}

// #endregion salience
