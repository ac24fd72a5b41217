package evolve

import (
	"math"
	"testing"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

const tol = 1e-4

func TestAdvanceHalvesOffsetAtHalfLife(t *testing.T) {
	s := state.Zero()
	s.Fast[dims.Valence] = 0.8

	fast := dims.Profile(dims.Valence).FastHalfLife
	out := Advance(s, fast)

	if math.Abs(float64(out.Fast[dims.Valence]-0.4)) > tol {
		t.Fatalf("fast offset after one half-life = %f, want 0.4", out.Fast[dims.Valence])
	}
}

func TestAdvanceMonotonicNoSignFlip(t *testing.T) {
	s := state.Zero()
	s.Fast[dims.Stress] = 0.6
	s.Slow[dims.Stress] = -0.3

	prevFast, prevSlow := s.Fast[dims.Stress], s.Slow[dims.Stress]
	for _, dt := range []time.Duration{time.Hour, 6 * time.Hour, 24 * time.Hour, 30 * 24 * time.Hour} {
		out := Advance(s, dt)
		f, sl := out.Fast[dims.Stress], out.Slow[dims.Stress]
		if math.Abs(float64(f)) > math.Abs(float64(prevFast))+tol {
			t.Fatalf("fast offset grew under decay at dt=%v", dt)
		}
		if f < 0 {
			t.Fatalf("fast offset flipped sign at dt=%v: %f", dt, f)
		}
		if sl > 0 {
			t.Fatalf("slow offset flipped sign at dt=%v: %f", dt, sl)
		}
		if math.Abs(float64(sl)) > math.Abs(float64(prevSlow))+tol {
			t.Fatalf("slow offset grew under decay at dt=%v", dt)
		}
		prevFast, prevSlow = f, sl
	}
}

func TestAdvanceZeroDurationIdentity(t *testing.T) {
	s := state.Zero()
	s.Fast[dims.Valence] = 0.5
	s.Slow[dims.Depression] = 0.2

	if out := Advance(s, 0); out != s {
		t.Fatal("Advance(state, 0) changed the state")
	}
	if out := Regress(s, 0); out != s {
		t.Fatal("Regress(state, 0) changed the state")
	}
}

func TestAdvanceLeavesCapability(t *testing.T) {
	s := state.Zero()
	s.Base[dims.Capability] = 0.7

	out := Advance(s, 365*24*time.Hour)
	if out.Base[dims.Capability] != 0.7 {
		t.Fatalf("capability decayed: %f", out.Base[dims.Capability])
	}
}

func TestApplyEventWorkedExample(t *testing.T) {
	var tmpl spec.Template
	tmpl.Impact[dims.Valence] = -0.6
	tmpl.Permanence[dims.Valence] = 0.35
	tmpl.Chronic[dims.Valence] = true

	deltas := spec.Apply(tmpl, 0.8)
	s := ApplyEvent(state.Zero(), deltas)

	if math.Abs(float64(s.Base[dims.Valence]+0.168)) > tol {
		t.Fatalf("base = %f, want -0.168", s.Base[dims.Valence])
	}
	if math.Abs(float64(s.Slow[dims.Valence]+0.312)) > tol {
		t.Fatalf("slow = %f, want -0.312", s.Slow[dims.Valence])
	}
	if s.Fast[dims.Valence] != 0 {
		t.Fatalf("fast = %f, want 0", s.Fast[dims.Valence])
	}
	if math.Abs(float64(s.Effective(dims.Valence)+0.48)) > tol {
		t.Fatalf("effective = %f, want -0.48", s.Effective(dims.Valence))
	}
}

func TestApplyEventZeroDeltaNoOp(t *testing.T) {
	s := state.New()
	if out := ApplyEvent(s, spec.Deltas{}); out != s {
		t.Fatal("zero deltas changed the state")
	}
}

func TestDecayRegressRoundTrip(t *testing.T) {
	s := state.Zero()
	s.Fast[dims.Valence] = 0.64
	s.Slow[dims.Valence] = -0.2
	s.Fast[dims.Loneliness] = 0.31

	h := dims.Profile(dims.Valence).FastHalfLife
	back := Regress(Advance(s, h), h)

	for _, d := range []dims.Dim{dims.Valence, dims.Loneliness} {
		if math.Abs(float64(back.Fast[d]-s.Fast[d])) > tol {
			t.Fatalf("fast %s round-trip: %f, want %f", d, back.Fast[d], s.Fast[d])
		}
		if math.Abs(float64(back.Slow[d]-s.Slow[d])) > tol {
			t.Fatalf("slow %s round-trip: %f, want %f", d, back.Slow[d], s.Slow[d])
		}
	}
}

func TestRegressDoublesAfterHalfLife(t *testing.T) {
	s := state.Zero()
	s.Fast[dims.Valence] = 0.25

	out := Regress(s, dims.Profile(dims.Valence).FastHalfLife)
	if v := out.Fast[dims.Valence]; v < 0.4 || v > 0.6 {
		t.Fatalf("regressed offset = %f, want about 0.5", v)
	}
}

func TestRegressSkipsNegligibleAndOverflow(t *testing.T) {
	s := state.Zero()
	out := Regress(s, 6*time.Hour)
	if out != s {
		t.Fatal("regress on zero offsets changed the state")
	}

	// A duration thousands of half-lives long would overflow the
	// exponential; the dimension must be left unchanged instead.
	s.Fast[dims.Valence] = 0.1
	huge := 2000 * dims.Profile(dims.Valence).FastHalfLife
	out = Regress(s, huge)
	if out.Fast[dims.Valence] != 0.1 {
		t.Fatalf("overflow guard failed: %f", out.Fast[dims.Valence])
	}
}

func TestRegressClampsResult(t *testing.T) {
	s := state.Zero()
	s.Fast[dims.Valence] = 0.9

	// ~20 half-lives would multiply the offset by ~1e6; expect the clamp.
	out := Regress(s, 20*dims.Profile(dims.Valence).FastHalfLife)
	if out.Fast[dims.Valence] != 100 {
		t.Fatalf("regressed offset not clamped: %f", out.Fast[dims.Valence])
	}
}

func TestRegressNeverTouchesBase(t *testing.T) {
	s := state.Zero()
	s.Base[dims.Valence] = -0.3
	s.Base[dims.Capability] = 0.4
	s.Fast[dims.Valence] = 0.1

	out := Regress(s, 12*time.Hour)
	if out.Base[dims.Valence] != -0.3 || out.Base[dims.Capability] != 0.4 {
		t.Fatal("regress modified base values")
	}
}

func TestApplyReverseRoundTrip(t *testing.T) {
	var tmpl spec.Template
	tmpl.Impact[dims.Valence] = -0.7
	tmpl.Permanence[dims.Valence] = 0.3
	tmpl.Impact[dims.Stress] = 0.5
	tmpl.Permanence[dims.Stress] = 0.2
	tmpl.Chronic[dims.Stress] = true
	tmpl.Impact[dims.Capability] = 0.4

	deltas := spec.Apply(tmpl, 0.9)
	before := state.New()
	applied := ApplyEvent(before, deltas)
	reversed := ReverseEvent(applied, deltas)

	for _, d := range []dims.Dim{dims.Valence, dims.Stress} {
		if math.Abs(float64(reversed.Fast[d]-before.Fast[d])) > tol {
			t.Fatalf("fast %s not restored: %f", d, reversed.Fast[d])
		}
		if math.Abs(float64(reversed.Slow[d]-before.Slow[d])) > tol {
			t.Fatalf("slow %s not restored: %f", d, reversed.Slow[d])
		}
	}

	// Base and capability keep their post-apply values.
	if reversed.Base[dims.Valence] != applied.Base[dims.Valence] {
		t.Fatal("reverse touched a permanent base shift")
	}
	if reversed.Base[dims.Capability] != applied.Base[dims.Capability] {
		t.Fatal("reverse touched acquired capability")
	}
}

func TestHabituationMonotoneAcrossSequence(t *testing.T) {
	var gain, drain spec.Template
	gain.Impact[dims.Capability] = 0.3
	drain.Impact[dims.Capability] = -0.5

	s := state.New()
	last := s.Effective(dims.Capability)

	steps := []struct {
		deltas spec.Deltas
		dt     time.Duration
	}{
		{spec.Apply(gain, 0.8), 6 * time.Hour},
		{spec.Apply(drain, 1.0), 48 * time.Hour},
		{spec.Apply(gain, 0.2), 0},
		{spec.Apply(drain, 0.6), 14 * 24 * time.Hour},
		{spec.Apply(gain, 1.0), time.Hour},
	}
	for i, step := range steps {
		s = ApplyEvent(s, step.deltas)
		if v := s.Effective(dims.Capability); v < last {
			t.Fatalf("step %d: capability decreased %f -> %f", i, last, v)
		} else {
			last = v
		}
		s = Advance(s, step.dt)
		if v := s.Effective(dims.Capability); v < last {
			t.Fatalf("step %d: capability decayed %f -> %f", i, last, v)
		} else {
			last = v
		}
	}
}
