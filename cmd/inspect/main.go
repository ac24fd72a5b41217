package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/alerts"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/journal"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to journal db")
	individual := flag.String("individual", "", "show one individual's history and state")
	at := flag.String("at", "", "RFC 3339 instant to reconstruct (default now)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/journal.db [--individual id] [--at instant] [--json]")
		os.Exit(2)
	}

	instant := time.Now().UTC()
	if *at != "" {
		var err error
		instant, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse --at: %v\n", err)
			os.Exit(2)
		}
	}

	j, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer j.Close()

	if *individual != "" {
		if err := runDetailMode(j, *individual, instant, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(j, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	IndividualID string `json:"individual_id"`
	Species      string `json:"species"`
	CreatedAt    string `json:"created_at"`
	Events       int    `json:"events"`
}

func runListMode(j *journal.Journal, jsonOut bool) error {
	rows, err := j.DB().Query(
		`SELECT i.individual_id, i.species, i.created_at, COUNT(e.event_id)
		 FROM individuals i
		 LEFT JOIN events e ON e.individual_id = i.individual_id
		 GROUP BY i.individual_id
		 ORDER BY i.created_at ASC`,
	)
	if err != nil {
		return fmt.Errorf("list individuals: %w", err)
	}
	defer rows.Close()

	var list []listRow
	for rows.Next() {
		var r listRow
		if err := rows.Scan(&r.IndividualID, &r.Species, &r.CreatedAt, &r.Events); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "no individuals found")
		return nil
	}
	for _, r := range list {
		fmt.Printf("%-42s %-8s %s  %d events\n", r.IndividualID, r.Species, r.CreatedAt, r.Events)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailReport struct {
	Individual string         `json:"individual_id"`
	Species    string         `json:"species"`
	At         string         `json:"at"`
	State      []dimensionRow `json:"state"`
	Alerts     []alertReport  `json:"alerts,omitempty"`
	Events     []eventReport  `json:"events,omitempty"`
}

type dimensionRow struct {
	Dimension string  `json:"dimension"`
	Base      float32 `json:"base"`
	Fast      float32 `json:"fast"`
	Slow      float32 `json:"slow"`
	Effective float32 `json:"effective"`
}

type alertReport struct {
	Type   string  `json:"type"`
	Reason string  `json:"reason"`
	Value  float32 `json:"value"`
}

type eventReport struct {
	EventID    string  `json:"event_id"`
	Kind       string  `json:"kind"`
	Severity   float32 `json:"severity"`
	OccurredAt string  `json:"occurred_at"`
	Salience   float32 `json:"salience"`
	Cause      string  `json:"cause"`
}

func runDetailMode(j *journal.Journal, id string, at time.Time, jsonOut bool) error {
	ind, err := j.GetIndividual(id)
	if err != nil {
		return err
	}

	current, err := j.StateAt(id, at)
	if err != nil {
		return err
	}

	events, err := j.EventsBetween(id, ind.CreatedAt.Add(-time.Second), at)
	if err != nil {
		return err
	}

	monitor := alerts.NewMonitor(alerts.DefaultConfig())
	raised := monitor.Check(current)

	rows := make([]dimensionRow, 0, dims.NumDims)
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		rows = append(rows, dimensionRow{
			Dimension: d.String(),
			Base:      current.Base[d],
			Fast:      current.Fast[d],
			Slow:      current.Slow[d],
			Effective: current.Effective(d),
		})
	}

	if jsonOut {
		report := detailReport{
			Individual: ind.ID,
			Species:    string(ind.Species),
			At:         at.Format(time.RFC3339),
			State:      rows,
		}
		for _, a := range raised {
			report.Alerts = append(report.Alerts, alertReport{Type: string(a.Type), Reason: a.Reason, Value: a.Value})
		}
		for _, ev := range events {
			report.Events = append(report.Events, eventReport{
				EventID:    ev.EventID,
				Kind:       ev.Kind,
				Severity:   ev.Severity,
				OccurredAt: ev.OccurredAt.Format(time.RFC3339),
				Salience:   ev.Salience,
				Cause:      string(ev.Attribution.Cause),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("%s (%s), created %s\n", ind.ID, ind.Species, ind.CreatedAt.Format(time.RFC3339))
	fmt.Printf("\nevents (%d):\n", len(events))
	for _, ev := range events {
		fmt.Printf("  %s  %-30s sev=%.2f salience=%.2f %s\n",
			ev.OccurredAt.Format(time.RFC3339), ev.Kind, ev.Severity, ev.Salience, ev.Attribution.Cause)
	}
	fmt.Printf("\nstate at %s:\n", at.Format(time.RFC3339))
	fmt.Printf("  %-28s %9s %9s %9s %10s\n", "dimension", "base", "fast", "slow", "effective")
	for _, row := range rows {
		fmt.Printf("  %-28s %+9.4f %+9.4f %+9.4f %+10.4f\n",
			row.Dimension, row.Base, row.Fast, row.Slow, row.Effective)
	}
	if len(raised) > 0 {
		fmt.Println("\nalerts:")
		for _, a := range raised {
			fmt.Printf("  %-26s %s\n", a.Type, a.Reason)
		}
	}
	return nil
}

// #endregion detail-mode
