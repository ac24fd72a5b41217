// Package replay runs scripted event timelines against a starting
// state, producing per-step results and aggregate stats. Timelines come
// from JSON fixtures or are built in code; the harness operates
// entirely in-memory.
package replay

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/alerts"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/catalog"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/evolve"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/interpret"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

// #region types
// Step is one timeline entry: optional decay time, then optionally one
// event. A step with an empty Kind and no Template is decay-only.
type Step struct {
	Label    string
	Advance  time.Duration // decay applied before the event
	Kind     string
	Severity float32
	Source   string
	Template *spec.Template // overrides the catalog lookup when set
}

// Timeline scripts one individual's history.
type Timeline struct {
	Personality interpret.Personality
	Species     interpret.Species
	StartAt     time.Time
	Start       state.State
	Steps       []Step
}

// RunConfig bundles the harness collaborators. Zero values select the
// defaults: DefaultSalience and a monitor with standard thresholds.
type RunConfig struct {
	Salience interpret.SalienceFunc
	Monitor  *alerts.Monitor
}

// StepResult captures one step's outcome.
type StepResult struct {
	Label       string
	At          time.Time
	Interpreted *interpret.Interpreted // nil for decay-only steps
	Alerts      []alerts.Alert
	State       state.State
}

// Summary aggregates a full run.
type Summary struct {
	TotalSteps    int
	EventsApplied int
	AlertsRaised  int
	Final         state.State
}

// #endregion types

// #region run
// Run executes the timeline step by step: decay, then event
// interpretation and application, then an alert check on the resulting
// state. Unknown event kinds fail the run.
func Run(tl Timeline, cat *catalog.Catalog, config RunConfig) ([]StepResult, Summary, error) {
	monitor := config.Monitor
	if monitor == nil {
		monitor = alerts.NewMonitor(alerts.DefaultConfig())
	}
	species := tl.Species
	if species == "" {
		species = interpret.Human
	}

	current := tl.Start
	cursor := tl.StartAt
	results := make([]StepResult, 0, len(tl.Steps))
	summary := Summary{TotalSteps: len(tl.Steps)}

	for i, step := range tl.Steps {
		if step.Advance < 0 {
			return nil, Summary{}, fmt.Errorf("step %d (%s): negative advance %v", i, step.Label, step.Advance)
		}
		current = evolve.Advance(current, step.Advance)
		cursor = cursor.Add(step.Advance)

		result := StepResult{Label: step.Label, At: cursor}

		if step.Kind != "" || step.Template != nil {
			tmpl, err := resolveTemplate(step, cat)
			if err != nil {
				return nil, Summary{}, fmt.Errorf("step %d (%s): %w", i, step.Label, err)
			}

			ev := interpret.NewBuilder(step.Kind, tmpl).
				Severity(step.Severity).
				Source(step.Source).
				At(cursor).
				Build()

			it := interpret.Interpret(ev, tl.Personality, current.Effective(dims.Arousal), config.Salience, species)
			current = evolve.ApplyEvent(current, it.Deltas)
			result.Interpreted = &it
			summary.EventsApplied++
		}

		result.Alerts = monitor.Check(current)
		summary.AlertsRaised += len(result.Alerts)
		result.State = current
		results = append(results, result)
	}

	summary.Final = current
	return results, summary, nil
}

func resolveTemplate(step Step, cat *catalog.Catalog) (spec.Template, error) {
	if step.Template != nil {
		return *step.Template, nil
	}
	if cat == nil {
		return spec.Template{}, fmt.Errorf("no catalog for kind %q", step.Kind)
	}
	tmpl, ok := cat.Lookup(step.Kind)
	if !ok {
		return spec.Template{}, fmt.Errorf("unknown event kind %q", step.Kind)
	}
	return tmpl, nil
}

// #endregion run
