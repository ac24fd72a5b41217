package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/catalog"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/journal"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to journal db")
	individual := flag.String("individual", "", "individual id to export")
	out := flag.String("out", "", "output path (default stdout)")
	description := flag.String("description", "", "fixture description")
	flag.Parse()

	if *dbPath == "" || *individual == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/journal.db --individual id [--out fixture.json] [--description text]")
		os.Exit(2)
	}

	if err := run(*dbPath, *individual, *out, *description); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run converts one individual's journal history into a self-checking
// replay fixture: the recorded events become steps, and the
// reconstructed final state becomes the expectations.
func run(dbPath, individual, out, description string) error {
	j, err := journal.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ind, err := j.GetIndividual(individual)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	events, err := j.EventsBetween(individual, ind.CreatedAt.Add(-time.Second), now)
	if err != nil {
		return err
	}

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	fixture := replay.Fixture{
		Description: description,
		Personality: replay.FixturePersonality{
			Emotionality:    ind.Personality.Emotionality,
			HonestyHumility: ind.Personality.HonestyHumility,
		},
		Species: string(ind.Species),
		StartAt: ind.CreatedAt.Format(time.RFC3339),
		Start:   stateMaps(ind.Initial.Base, ind.Initial.Fast, ind.Initial.Slow),
	}

	cursor := ind.CreatedAt
	for i, ev := range events {
		if _, ok := cat.Lookup(ev.Kind); !ok {
			return fmt.Errorf("event %s has kind %q not in the default catalog; fixture would not replay", ev.EventID, ev.Kind)
		}
		fixture.Steps = append(fixture.Steps, replay.FixtureStep{
			Label:        fmt.Sprintf("step_%02d_%s", i+1, ev.Kind),
			AdvanceHours: ev.OccurredAt.Sub(cursor).Hours(),
			Kind:         ev.Kind,
			Severity:     ev.Severity,
			Source:       ev.Source,
		})
		cursor = ev.OccurredAt
	}

	if len(fixture.Steps) > 0 {
		last := fixture.Steps[len(fixture.Steps)-1]
		final, err := j.StateAt(individual, cursor)
		if err != nil {
			return err
		}
		for d := dims.Dim(0); d < dims.NumDims; d++ {
			v := final.Effective(d)
			baseline := dims.Profile(d).Baseline
			if v-baseline > 0.01 || baseline-v > 0.01 {
				fixture.Expectations = append(fixture.Expectations, replay.FixtureExpectation{
					Label:     last.Label,
					Dimension: d.String(),
					Value:     float64(v),
					Tolerance: 0.01,
				})
			}
		}
	}

	data, err := json.MarshalIndent(&fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	data = append(data, '\n')

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

func stateMaps(base, fast, slow dims.Vector) replay.FixtureState {
	toMap := func(v dims.Vector, baselines bool) map[string]float32 {
		out := make(map[string]float32)
		for d := dims.Dim(0); d < dims.NumDims; d++ {
			ref := float32(0)
			if baselines {
				ref = dims.Profile(d).Baseline
			}
			if v[d] != ref {
				out[d.String()] = v[d]
			}
		}
		return out
	}
	return replay.FixtureState{
		Base: toMap(base, true),
		Fast: toMap(fast, false),
		Slow: toMap(slow, false),
	}
}

// #endregion export
