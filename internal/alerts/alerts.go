// Package alerts inspects an individual's effective state for risk
// patterns worth surfacing to a supervising system: elevated proximal
// factors, their convergence, and depressive spirals.
package alerts

import (
	"fmt"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

// #region types
// AlertType classifies a raised alert.
type AlertType string

const (
	AlertBelongingness    AlertType = "thwarted_belongingness"
	AlertBurdensomeness   AlertType = "perceived_burdensomeness"
	AlertCapability       AlertType = "acquired_capability"
	AlertConvergence      AlertType = "factor_convergence"
	AlertDepressiveSpiral AlertType = "depressive_spiral"
)

// Alert is one raised risk signal with the value that triggered it.
type Alert struct {
	Type   AlertType
	Reason string
	Value  float32
}

// Config sets the depressive-spiral thresholds. The proximal-factor
// thresholds are fixed in the state package.
type Config struct {
	DepressionThreshold   float32
	HopelessnessThreshold float32
}

// DefaultConfig returns the standard monitoring thresholds.
func DefaultConfig() Config {
	return Config{
		DepressionThreshold:   0.6,
		HopelessnessThreshold: 0.6,
	}
}

// Monitor evaluates states against a fixed configuration.
type Monitor struct {
	config Config
}

// NewMonitor creates a monitor with the given configuration.
func NewMonitor(config Config) *Monitor {
	return &Monitor{config: config}
}

// #endregion types

// #region factors
// Factors derives the three ITS proximal factors from effective state.
// Thwarted belongingness combines loneliness with the absence of
// perceived reciprocal caring; perceived burdensomeness combines felt
// liability with self-hate; capability is read directly.
func Factors(s state.State) (tb, pb, ac float32) {
	tb = (s.Effective(dims.Loneliness) + (1 - s.Effective(dims.Caring))) / 2
	pb = (s.Effective(dims.Liability) + s.Effective(dims.SelfHate)) / 2
	ac = s.Effective(dims.Capability)
	return tb, pb, ac
}

// #endregion factors

// #region check
// Check evaluates one state and returns every alert it raises, in a
// fixed order: individual factors first, then convergence, then the
// depressive spiral. An empty slice means nothing is elevated.
func (m *Monitor) Check(s state.State) []Alert {
	var alerts []Alert

	tb, pb, ac := Factors(s)
	conv := state.ConvergenceFrom(tb, pb, ac)

	if conv.TBElevated {
		alerts = append(alerts, Alert{
			Type:   AlertBelongingness,
			Reason: fmt.Sprintf("thwarted belongingness %.2f at or above %.2f", tb, state.TBThreshold),
			Value:  tb,
		})
	}
	if conv.PBElevated {
		alerts = append(alerts, Alert{
			Type:   AlertBurdensomeness,
			Reason: fmt.Sprintf("perceived burdensomeness %.2f at or above %.2f", pb, state.PBThreshold),
			Value:  pb,
		})
	}
	if conv.ACElevated {
		alerts = append(alerts, Alert{
			Type:   AlertCapability,
			Reason: fmt.Sprintf("acquired capability %.2f at or above %.2f", ac, state.ACThreshold),
			Value:  ac,
		})
	}

	switch {
	case conv.ThreeFactor:
		alerts = append(alerts, Alert{
			Type:   AlertConvergence,
			Reason: "all three proximal factors elevated",
			Value:  float32(conv.ElevatedCount),
		})
	case conv.HasDesire():
		alerts = append(alerts, Alert{
			Type:   AlertConvergence,
			Reason: "desire pattern: belongingness and burdensomeness both elevated",
			Value:  float32(conv.ElevatedCount),
		})
	}

	if a, ok := m.depressiveSpiral(s); ok {
		alerts = append(alerts, a)
	}
	return alerts
}

// depressiveSpiral flags simultaneous high depression and hopelessness
// with collapsed self-worth, a pattern that self-reinforces faster than
// either dimension alone decays.
func (m *Monitor) depressiveSpiral(s state.State) (Alert, bool) {
	depression := s.Effective(dims.Depression)
	hopelessness := s.Effective(dims.Hopelessness)
	selfWorth := s.Effective(dims.SelfWorth)

	if depression < m.config.DepressionThreshold || hopelessness < m.config.HopelessnessThreshold {
		return Alert{}, false
	}
	if selfWorth > 0.3 {
		return Alert{}, false
	}
	return Alert{
		Type: AlertDepressiveSpiral,
		Reason: fmt.Sprintf("depression %.2f and hopelessness %.2f with self-worth %.2f",
			depression, hopelessness, selfWorth),
		Value: (depression + hopelessness) / 2,
	}, true
}

// #endregion check
