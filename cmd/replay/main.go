package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/catalog"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/journal"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	dbPath := flag.String("db", "", "path to journal db (DB mode)")
	individual := flag.String("individual", "", "individual id (DB mode)")
	at := flag.String("at", "", "RFC 3339 instant to reconstruct (DB mode, default now)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if (*fixturePath == "" && *dbPath == "") || (*fixturePath != "" && *dbPath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		fmt.Fprintln(os.Stderr, "       replay --db path/to/journal.db --individual id [--at instant] [--json]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *jsonOut)
	} else {
		exitCode = runDBMode(*dbPath, *individual, *at, *jsonOut)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

type stepReport struct {
	Label    string             `json:"label"`
	At       string             `json:"at"`
	Kind     string             `json:"kind,omitempty"`
	Salience *float32           `json:"salience,omitempty"`
	Alerts   []string           `json:"alerts,omitempty"`
	State    map[string]float32 `json:"state"`
}

func runFixtureMode(path string, jsonOut bool) int {
	fixture, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	tl, err := fixture.ToTimeline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build timeline: %v\n", err)
		return 2
	}
	cat, err := catalog.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		return 2
	}

	results, summary, err := replay.Run(tl, cat, replay.RunConfig{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return 1
	}

	if jsonOut {
		reports := make([]stepReport, 0, len(results))
		for _, r := range results {
			reports = append(reports, reportFor(r))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 1
		}
	} else {
		for _, r := range results {
			printStep(r)
		}
		fmt.Printf("\n%d steps, %d events, %d alerts\n",
			summary.TotalSteps, summary.EventsApplied, summary.AlertsRaised)
	}

	if err := fixture.Verify(results); err != nil {
		fmt.Fprintf(os.Stderr, "expectation failed: %v\n", err)
		return 1
	}
	return 0
}

func reportFor(r replay.StepResult) stepReport {
	rep := stepReport{
		Label: r.Label,
		At:    r.At.Format(time.RFC3339),
		State: r.State.Snapshot(),
	}
	if r.Interpreted != nil {
		rep.Kind = r.Interpreted.Event.Kind
		sal := r.Interpreted.Salience
		rep.Salience = &sal
	}
	for _, a := range r.Alerts {
		rep.Alerts = append(rep.Alerts, string(a.Type))
	}
	return rep
}

func printStep(r replay.StepResult) {
	fmt.Printf("%-24s %s", r.Label, r.At.Format(time.RFC3339))
	if r.Interpreted != nil {
		fmt.Printf("  %s sev=%.2f salience=%.2f",
			r.Interpreted.Event.Kind, r.Interpreted.Event.Severity, r.Interpreted.Salience)
	}
	fmt.Println()
	for _, a := range r.Alerts {
		fmt.Printf("    alert %s: %s\n", a.Type, a.Reason)
	}
}

// #endregion fixture-mode

// #region db-mode

func runDBMode(dbPath, individual, at string, jsonOut bool) int {
	if individual == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/journal.db --individual id [--at instant]")
		return 2
	}

	instant := time.Now().UTC()
	if at != "" {
		var err error
		instant, err = time.Parse(time.RFC3339, at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse --at: %v\n", err)
			return 2
		}
	}

	j, err := journal.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer j.Close()

	s, err := j.StateAt(individual, instant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconstruct state: %v\n", err)
		return 1
	}

	snap := s.Snapshot()
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf("%s at %s\n", individual, instant.Format(time.RFC3339))
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, name := range keys {
		fmt.Printf("  %-28s %+.4f\n", name, snap[name])
	}
	return 0
}

// #endregion db-mode
