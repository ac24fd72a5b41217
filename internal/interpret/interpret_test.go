package interpret

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
)

const tol = 1e-4

func testTemplate() spec.Template {
	var tmpl spec.Template
	tmpl.Impact[dims.Valence] = -0.6
	tmpl.Permanence[dims.Valence] = 0.35
	tmpl.Chronic[dims.Valence] = true
	tmpl.Impact[dims.Arousal] = 0.5
	tmpl.Impact[dims.Stress] = 0.4
	return tmpl
}

func TestBuilderDefaults(t *testing.T) {
	ev := NewBuilder("experience_betrayal_trust", testTemplate()).Build()

	if !strings.HasPrefix(ev.ID, "evt_") {
		t.Fatalf("event id %q missing evt_ prefix", ev.ID)
	}
	if ev.Severity != 0.5 {
		t.Fatalf("default severity = %f, want 0.5", ev.Severity)
	}

	other := NewBuilder("experience_betrayal_trust", testTemplate()).Build()
	if other.ID == ev.ID {
		t.Fatal("two built events share an id")
	}
}

func TestBuilderClampsSeverity(t *testing.T) {
	over := NewBuilder("k", testTemplate()).Severity(2.5).Build()
	if over.Severity != 1 {
		t.Fatalf("severity = %f, want 1", over.Severity)
	}
	under := NewBuilder("k", testTemplate()).Severity(-1).Build()
	if under.Severity != 0 {
		t.Fatalf("severity = %f, want 0", under.Severity)
	}
}

func TestBuilderFields(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := NewBuilder("experience_conflict_family", testTemplate()).
		ID("evt_fixed").
		Source("ent_parent").
		Target("ent_child").
		Severity(0.9).
		At(at).
		Build()

	if ev.ID != "evt_fixed" || ev.Source != "ent_parent" || ev.Target != "ent_child" {
		t.Fatalf("builder dropped fields: %+v", ev)
	}
	if !ev.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", ev.Timestamp, at)
	}
}

func TestAttributionWithSource(t *testing.T) {
	ev := NewBuilder("k", testTemplate()).Source("ent_rival").Severity(0.8).Build()
	got := Interpret(ev, Personality{}, 0, nil, Human).Attribution

	if got.Cause != OtherCaused || got.Agent != "ent_rival" {
		t.Fatalf("attribution = %+v, want other-caused by ent_rival", got)
	}
	if got.Stability != Stable {
		t.Fatalf("severity 0.8 should read as stable, got %s", got.Stability)
	}
}

func TestAttributionByPersonality(t *testing.T) {
	cases := []struct {
		honestyHumility float32
		want            Cause
	}{
		{0.6, SelfCaused},
		{-0.6, Situational},
		{0.0, Unknown},
	}
	for _, tc := range cases {
		ev := NewBuilder("k", testTemplate()).Severity(0.4).Build()
		got := Interpret(ev, Personality{HonestyHumility: tc.honestyHumility}, 0, nil, Human).Attribution
		if got.Cause != tc.want {
			t.Fatalf("honesty-humility %f: cause = %s, want %s", tc.honestyHumility, got.Cause, tc.want)
		}
		if got.Stability != Unstable {
			t.Fatalf("severity 0.4 should read as unstable")
		}
	}
}

func TestEmotionalityModulatesBucketsAndTotals(t *testing.T) {
	ev := NewBuilder("k", testTemplate()).Severity(0.8).Build()
	out := Interpret(ev, Personality{Emotionality: 1}, 0, nil, Human)

	// factor = 1.3; plain total would be -0.48.
	if math.Abs(float64(out.Valence+0.624)) > tol {
		t.Fatalf("valence total = %f, want -0.624", out.Valence)
	}
	if math.Abs(float64(out.Deltas.Permanent[dims.Valence]+0.168*1.3)) > tol {
		t.Fatalf("permanent bucket not modulated: %f", out.Deltas.Permanent[dims.Valence])
	}
	if math.Abs(float64(out.Deltas.Chronic[dims.Valence]+0.312*1.3)) > tol {
		t.Fatalf("chronic bucket not modulated: %f", out.Deltas.Chronic[dims.Valence])
	}

	// Summary and buckets must agree after modulation.
	if math.Abs(float64(out.Valence-out.Deltas.Total(dims.Valence))) > tol {
		t.Fatalf("summary %f disagrees with buckets %f", out.Valence, out.Deltas.Total(dims.Valence))
	}

	// Non-affective dimensions are untouched by emotionality.
	if math.Abs(float64(out.Deltas.Total(dims.Stress)-0.32)) > tol {
		t.Fatalf("stress modulated: %f, want 0.32", out.Deltas.Total(dims.Stress))
	}

	if math.Abs(float64(out.PerceivedSeverity-1.04)) > tol {
		t.Fatalf("perceived severity = %f, want 1.04", out.PerceivedSeverity)
	}
}

func TestBaseSalienceBoosts(t *testing.T) {
	plain := NewBuilder("k", spec.Template{}).Severity(0.8).Build()
	if got := Interpret(plain, Personality{}, 0, nil, Human).BaseSalience; math.Abs(float64(got-0.7)) > tol {
		t.Fatalf("base salience = %f, want 0.7", got)
	}

	var trauma spec.Template
	trauma.Impact[dims.Capability] = 0.85
	ev := NewBuilder("k", trauma).Severity(0.8).Build()
	if got := Interpret(ev, Personality{}, 0, nil, Human).BaseSalience; math.Abs(float64(got-0.9)) > tol {
		t.Fatalf("capability boost: base salience = %f, want 0.9", got)
	}

	var social spec.Template
	social.Impact[dims.Loneliness] = 0.4
	social.Impact[dims.Capability] = 0.85
	ev = NewBuilder("k", social).Severity(0.8).Build()
	if got := Interpret(ev, Personality{}, 0, nil, Human).BaseSalience; got != 1 {
		t.Fatalf("stacked boosts not clamped to 1: %f", got)
	}
}

func TestDefaultSalienceCurve(t *testing.T) {
	if got := DefaultSalience(0.5, 0.6, 0.1, false, Human); math.Abs(float64(got-0.65)) > tol {
		t.Fatalf("human moderate arousal = %f, want 0.65", got)
	}
	if got := DefaultSalience(0.5, 0.6, 0.1, false, Robotic); math.Abs(float64(got-0.5)) > tol {
		t.Fatalf("robotic arousal boost should be zero: %f", got)
	}
	if got := DefaultSalience(0.5, 1.2, 0.1, false, Human); math.Abs(float64(got-0.35)) > tol {
		t.Fatalf("extreme arousal = %f, want 0.35", got)
	}
	if got := DefaultSalience(0.5, 0, -0.3, false, Human); math.Abs(float64(got-0.6)) > tol {
		t.Fatalf("negativity bias = %f, want 0.6", got)
	}
	if got := DefaultSalience(0.2, 0, 0, true, Human); got != traumaFloor {
		t.Fatalf("trauma floor = %f, want %f", got, float32(traumaFloor))
	}
}

func TestInterpretUsesCustomSalience(t *testing.T) {
	called := false
	fn := func(base, arousal, valence float32, trauma bool, species Species) float32 {
		called = true
		if species != Animal {
			t.Fatalf("species = %s, want animal", species)
		}
		return 0.42
	}

	ev := NewBuilder("k", testTemplate()).Severity(0.5).Build()
	out := Interpret(ev, Personality{}, 0.1, fn, Animal)
	if !called || out.Salience != 0.42 {
		t.Fatalf("custom salience not used: called=%v salience=%f", called, out.Salience)
	}
}

func TestRescaleLeavesSalience(t *testing.T) {
	var tmpl spec.Template
	tmpl.Impact[dims.Valence] = -0.6
	tmpl.Impact[dims.Capability] = 0.4
	ev := NewBuilder("k", tmpl).Severity(1).Build()

	out := Interpret(ev, Personality{}, 0, nil, Human)
	scaled := out.Rescale(0.5)

	if math.Abs(float64(scaled.Valence-out.Valence*0.5)) > tol {
		t.Fatalf("valence not rescaled: %f", scaled.Valence)
	}
	if math.Abs(float64(scaled.CapabilityTotal-out.CapabilityTotal*0.5)) > tol {
		t.Fatalf("capability total not rescaled: %f", scaled.CapabilityTotal)
	}
	if math.Abs(float64(scaled.PerceivedSeverity-out.PerceivedSeverity*0.5)) > tol {
		t.Fatalf("perceived severity not rescaled: %f", scaled.PerceivedSeverity)
	}
	if math.Abs(float64(scaled.Deltas.Acute[dims.Valence]-out.Deltas.Acute[dims.Valence]*0.5)) > tol {
		t.Fatalf("delta bucket not rescaled: %f", scaled.Deltas.Acute[dims.Valence])
	}
	if scaled.Salience != out.Salience || scaled.BaseSalience != out.BaseSalience {
		t.Fatal("rescale touched a salience field")
	}
}
