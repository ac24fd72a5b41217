// Package dims defines the fixed set of psychological dimensions, their
// decay profiles, and the Vector value type the rest of the engine
// computes over.
package dims

import "time"

// #region dim
// Dim identifies one psychological dimension.
type Dim uint8

const (
	// Mood (PAD)
	Valence Dim = iota
	Arousal
	Dominance

	// Needs
	Fatigue
	Stress
	Purpose

	// Social cognition
	Loneliness
	Caring // perceived reciprocal caring
	Liability
	SelfHate
	Competence

	// Mental health
	Depression
	SelfWorth
	Hopelessness
	InterpersonalHopelessness
	Capability // acquired capability: no decay, never decreases

	// Disposition
	ImpulseControl
	Empathy
	Aggression
	Grievance
	Reactance
	TrustPropensity

	// NumDims is the total dimension count, usable as array length.
	NumDims
)

// #endregion dim

// #region subsystem
// Subsystem groups dimensions for display and alerting.
type Subsystem string

const (
	SubMood            Subsystem = "mood"
	SubNeeds           Subsystem = "needs"
	SubSocialCognition Subsystem = "social_cognition"
	SubMentalHealth    Subsystem = "mental_health"
	SubDisposition     Subsystem = "disposition"
)

// Subsystem returns the group a dimension belongs to.
func (d Dim) Subsystem() Subsystem {
	switch {
	case d <= Dominance:
		return SubMood
	case d <= Purpose:
		return SubNeeds
	case d <= Competence:
		return SubSocialCognition
	case d <= Capability:
		return SubMentalHealth
	default:
		return SubDisposition
	}
}

// #endregion subsystem

// #region names
var names = [NumDims]string{
	Valence:                   "valence",
	Arousal:                   "arousal",
	Dominance:                 "dominance",
	Fatigue:                   "fatigue",
	Stress:                    "stress",
	Purpose:                   "purpose",
	Loneliness:                "loneliness",
	Caring:                    "caring",
	Liability:                 "perceived_liability",
	SelfHate:                  "self_hate",
	Competence:                "perceived_competence",
	Depression:                "depression",
	SelfWorth:                 "self_worth",
	Hopelessness:              "hopelessness",
	InterpersonalHopelessness: "interpersonal_hopelessness",
	Capability:                "acquired_capability",
	ImpulseControl:            "impulse_control",
	Empathy:                   "empathy",
	Aggression:                "aggression",
	Grievance:                 "grievance",
	Reactance:                 "reactance",
	TrustPropensity:           "trust_propensity",
}

// String returns the stable snake_case name used in catalogs and fixtures.
func (d Dim) String() string {
	if d >= NumDims {
		return "unknown"
	}
	return names[d]
}

// ByName resolves a dimension from its snake_case name.
func ByName(name string) (Dim, bool) {
	for d := Dim(0); d < NumDims; d++ {
		if names[d] == name {
			return d, true
		}
	}
	return NumDims, false
}

// All returns every dimension in declaration order.
func All() [NumDims]Dim {
	var out [NumDims]Dim
	for d := Dim(0); d < NumDims; d++ {
		out[d] = d
	}
	return out
}

// #endregion names

// #region profile
// DimProfile fixes a dimension's decay and range constants.
type DimProfile struct {
	FastHalfLife time.Duration // acute offset half-life
	SlowHalfLife time.Duration // chronic offset half-life
	Min, Max     float32       // effective-value clamp range
	Baseline     float32       // base value at entity creation
	NoDecay      bool          // Capability only: no offsets, no decay
}

// slowFactor derives the chronic half-life from the acute one.
const slowFactor = 10

const (
	hour = time.Hour
	day  = 24 * time.Hour
	week = 7 * day
)

func bipolar(fast time.Duration) DimProfile {
	return DimProfile{FastHalfLife: fast, SlowHalfLife: slowFactor * fast, Min: -1, Max: 1}
}

func deficit(fast time.Duration) DimProfile {
	return DimProfile{FastHalfLife: fast, SlowHalfLife: slowFactor * fast, Min: 0, Max: 1}
}

func capacity(fast time.Duration) DimProfile {
	return DimProfile{FastHalfLife: fast, SlowHalfLife: slowFactor * fast, Min: 0, Max: 1, Baseline: 0.5}
}

var profiles = [NumDims]DimProfile{
	Valence:                   bipolar(6 * hour),
	Arousal:                   bipolar(6 * hour),
	Dominance:                 bipolar(6 * hour),
	Fatigue:                   deficit(8 * hour),
	Stress:                    deficit(12 * hour),
	Purpose:                   capacity(3 * day),
	Loneliness:                deficit(1 * day),
	Caring:                    capacity(2 * day),
	Liability:                 deficit(3 * day),
	SelfHate:                  deficit(3 * day),
	Competence:                capacity(1 * week),
	Depression:                deficit(2 * week),
	SelfWorth:                 capacity(2 * week),
	Hopelessness:              deficit(2 * week),
	InterpersonalHopelessness: deficit(2 * week),
	Capability:                {Min: 0, Max: 1, NoDecay: true},
	ImpulseControl:            capacity(3 * day),
	Empathy:                   capacity(4 * week),
	Aggression:                deficit(1 * week),
	Grievance:                 deficit(1 * week),
	Reactance:                 deficit(3 * day),
	TrustPropensity:           capacity(2 * week),
}

// Profile returns the decay/range constants for a dimension.
func Profile(d Dim) DimProfile {
	return profiles[d]
}

// #endregion profile

// #region vector
// Vector holds one float per dimension. Value semantics: assignment copies.
type Vector [NumDims]float32

// Scale returns v with every component multiplied by s.
func (v Vector) Scale(s float32) Vector {
	var out Vector
	for d := range v {
		out[d] = v[d] * s
	}
	return out
}

// Add returns the component-wise sum v + o.
func (v Vector) Add(o Vector) Vector {
	var out Vector
	for d := range v {
		out[d] = v[d] + o[d]
	}
	return out
}

// Sub returns the component-wise difference v - o.
func (v Vector) Sub(o Vector) Vector {
	var out Vector
	for d := range v {
		out[d] = v[d] - o[d]
	}
	return out
}

// IsZero reports whether every component is exactly zero.
func (v Vector) IsZero() bool {
	for d := range v {
		if v[d] != 0 {
			return false
		}
	}
	return true
}

// Clamp limits x to the dimension's valid range.
func Clamp(d Dim, x float32) float32 {
	p := profiles[d]
	if x < p.Min {
		return p.Min
	}
	if x > p.Max {
		return p.Max
	}
	return x
}

// #endregion vector
