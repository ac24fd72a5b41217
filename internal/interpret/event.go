// Package interpret turns raw events into applied state deltas: it runs
// the impact template at the event's severity, modulates the affective
// rows by personality, infers an attribution, and scores salience for
// downstream memory encoding.
package interpret

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
)

// #region event
// Event is one discrete occurrence in an individual's timeline. The
// template is resolved before construction, either from the catalog or
// supplied ad hoc for custom events.
type Event struct {
	ID        string
	Kind      string
	Source    string // entity that caused the event; empty when none
	Target    string
	Severity  float32 // clamped to [0,1] at build time
	Timestamp time.Time
	Template  spec.Template
}

func newEventID() string {
	return fmt.Sprintf("evt_%s", uuid.NewString())
}

// #endregion event

// #region builder
// Builder assembles an Event field by field. Zero-value severity is
// 0.5, matching the convention that an unspecified event is moderate.
type Builder struct {
	ev Event
}

// NewBuilder starts a builder for the given kind and template.
func NewBuilder(kind string, tmpl spec.Template) *Builder {
	return &Builder{ev: Event{
		Kind:     kind,
		Severity: 0.5,
		Template: tmpl,
	}}
}

// ID overrides the generated event id.
func (b *Builder) ID(id string) *Builder {
	b.ev.ID = id
	return b
}

// Source records the entity that caused the event.
func (b *Builder) Source(id string) *Builder {
	b.ev.Source = id
	return b
}

// Target records the entity the event happened to.
func (b *Builder) Target(id string) *Builder {
	b.ev.Target = id
	return b
}

// Severity sets the event severity; Build clamps it to [0,1].
func (b *Builder) Severity(s float32) *Builder {
	b.ev.Severity = s
	return b
}

// At sets the event timestamp.
func (b *Builder) At(t time.Time) *Builder {
	b.ev.Timestamp = t
	return b
}

// Build finalises the event, generating an id if none was set.
func (b *Builder) Build() Event {
	ev := b.ev
	if ev.ID == "" {
		ev.ID = newEventID()
	}
	if ev.Severity < 0 {
		ev.Severity = 0
	} else if ev.Severity > 1 {
		ev.Severity = 1
	}
	return ev
}

// #endregion builder
