package state

// ITS (Interpersonal Theory of Suicide) convergence tracking: which of
// the three proximal factors are elevated, and whether they converge.

// #region thresholds
const (
	// TBThreshold marks thwarted belongingness as present.
	TBThreshold float32 = 0.5
	// PBThreshold marks perceived burdensomeness as present.
	PBThreshold float32 = 0.5
	// ACThreshold marks acquired capability as elevated.
	ACThreshold float32 = 0.3
)

// #endregion thresholds

// #region factor
// ProximalFactor identifies one of the three ITS proximal factors.
type ProximalFactor string

const (
	ThwartedBelongingness   ProximalFactor = "TB"
	PerceivedBurdensomeness ProximalFactor = "PB"
	AcquiredCapability      ProximalFactor = "AC"
)

// #endregion factor

// #region convergence
// Convergence records which ITS factors are elevated for a state.
// Three-factor convergence (TB + PB + AC) is the highest-risk pattern.
type Convergence struct {
	TBElevated    bool
	PBElevated    bool
	ACElevated    bool
	ElevatedCount int
	ThreeFactor   bool
	Highest       ProximalFactor // empty when nothing is elevated
}

// ConvergenceFrom classifies raw factor values against the fixed
// thresholds. The factor exceeding its threshold by the largest margin
// is reported as Highest.
func ConvergenceFrom(tb, pb, ac float32) Convergence {
	c := Convergence{
		TBElevated: tb >= TBThreshold,
		PBElevated: pb >= PBThreshold,
		ACElevated: ac >= ACThreshold,
	}
	if c.TBElevated {
		c.ElevatedCount++
	}
	if c.PBElevated {
		c.ElevatedCount++
	}
	if c.ACElevated {
		c.ElevatedCount++
	}
	c.ThreeFactor = c.ElevatedCount == 3

	tbExcess, pbExcess, acExcess := float32(-1), float32(-1), float32(-1)
	if c.TBElevated {
		tbExcess = tb - TBThreshold
	}
	if c.PBElevated {
		pbExcess = pb - PBThreshold
	}
	if c.ACElevated {
		acExcess = ac - ACThreshold
	}

	switch {
	case c.TBElevated && tbExcess >= pbExcess && tbExcess >= acExcess:
		c.Highest = ThwartedBelongingness
	case c.PBElevated && pbExcess >= tbExcess && pbExcess >= acExcess:
		c.Highest = PerceivedBurdensomeness
	case c.ACElevated:
		c.Highest = AcquiredCapability
	}
	return c
}

// HasDesire reports TB and PB both elevated.
func (c Convergence) HasDesire() bool {
	return c.TBElevated && c.PBElevated
}

// DormantCapability reports capability elevated without desire.
func (c Convergence) DormantCapability() bool {
	return c.ACElevated && !c.HasDesire()
}

// #endregion convergence
