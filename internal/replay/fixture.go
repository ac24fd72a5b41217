package replay

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/interpret"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description  string               `json:"description"`
	Personality  FixturePersonality   `json:"personality"`
	Species      string               `json:"species"`
	StartAt      string               `json:"start_at"` // RFC 3339
	Start        FixtureState         `json:"start"`
	Steps        []FixtureStep        `json:"steps"`
	Expectations []FixtureExpectation `json:"expectations"`
}

// FixturePersonality mirrors interpret.Personality with JSON tags.
type FixturePersonality struct {
	Emotionality    float32 `json:"emotionality"`
	HonestyHumility float32 `json:"honesty_humility"`
}

// FixtureState holds per-dimension values keyed by dimension name.
// Dimensions absent from Base keep their baseline.
type FixtureState struct {
	Base map[string]float32 `json:"base"`
	Fast map[string]float32 `json:"fast"`
	Slow map[string]float32 `json:"slow"`
}

// FixtureStep mirrors Step; durations are in hours.
type FixtureStep struct {
	Label        string  `json:"label"`
	AdvanceHours float64 `json:"advance_hours"`
	Kind         string  `json:"kind"`
	Severity     float32 `json:"severity"`
	Source       string  `json:"source"`
}

// FixtureExpectation asserts one effective value, and optionally the
// alert types, after the named step.
type FixtureExpectation struct {
	Label      string   `json:"label"`
	Dimension  string   `json:"dimension"`
	Value      float64  `json:"value"`
	Tolerance  float64  `json:"tolerance"`
	AlertTypes []string `json:"alert_types"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToState converts a FixtureState to a domain State, starting from
// baselines and overlaying the named values.
func (s *FixtureState) ToState() (state.State, error) {
	out := state.New()
	for name, v := range s.Base {
		d, ok := dims.ByName(name)
		if !ok {
			return state.State{}, fmt.Errorf("base: unknown dimension %q", name)
		}
		out.Base[d] = v
	}
	for name, v := range s.Fast {
		d, ok := dims.ByName(name)
		if !ok {
			return state.State{}, fmt.Errorf("fast: unknown dimension %q", name)
		}
		out.Fast[d] = v
	}
	for name, v := range s.Slow {
		d, ok := dims.ByName(name)
		if !ok {
			return state.State{}, fmt.Errorf("slow: unknown dimension %q", name)
		}
		out.Slow[d] = v
	}
	return out, nil
}

// ToTimeline converts the fixture to a runnable Timeline.
func (f *Fixture) ToTimeline() (Timeline, error) {
	start, err := f.Start.ToState()
	if err != nil {
		return Timeline{}, err
	}

	var startAt time.Time
	if f.StartAt != "" {
		startAt, err = time.Parse(time.RFC3339, f.StartAt)
		if err != nil {
			return Timeline{}, fmt.Errorf("parse start_at: %w", err)
		}
	}

	tl := Timeline{
		Personality: interpret.Personality{
			Emotionality:    f.Personality.Emotionality,
			HonestyHumility: f.Personality.HonestyHumility,
		},
		Species: interpret.Species(f.Species),
		StartAt: startAt,
		Start:   start,
		Steps:   make([]Step, 0, len(f.Steps)),
	}
	for _, fs := range f.Steps {
		tl.Steps = append(tl.Steps, Step{
			Label:    fs.Label,
			Advance:  time.Duration(fs.AdvanceHours * float64(time.Hour)),
			Kind:     fs.Kind,
			Severity: fs.Severity,
			Source:   fs.Source,
		})
	}
	return tl, nil
}

// #endregion fixture-loader

// #region verify

// Verify checks every fixture expectation against run results. The
// default tolerance is 1e-3.
func (f *Fixture) Verify(results []StepResult) error {
	byLabel := make(map[string]StepResult, len(results))
	for _, r := range results {
		byLabel[r.Label] = r
	}

	for _, exp := range f.Expectations {
		r, ok := byLabel[exp.Label]
		if !ok {
			return fmt.Errorf("expectation %q: no such step", exp.Label)
		}

		if exp.Dimension != "" {
			d, ok := dims.ByName(exp.Dimension)
			if !ok {
				return fmt.Errorf("expectation %q: unknown dimension %q", exp.Label, exp.Dimension)
			}
			tolerance := exp.Tolerance
			if tolerance == 0 {
				tolerance = 1e-3
			}
			got := float64(r.State.Effective(d))
			if math.Abs(got-exp.Value) > tolerance {
				return fmt.Errorf("expectation %q: %s = %.4f, want %.4f ± %.4f",
					exp.Label, exp.Dimension, got, exp.Value, tolerance)
			}
		}

		for _, want := range exp.AlertTypes {
			found := false
			for _, a := range r.Alerts {
				if string(a.Type) == want {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("expectation %q: alert %q not raised", exp.Label, want)
			}
		}
	}
	return nil
}

// #endregion verify
