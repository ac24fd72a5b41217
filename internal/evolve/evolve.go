// Package evolve provides the four pure state-evolution operations:
// advance (decay), apply-event, regress (approximate decay reversal),
// and reverse-event. Each takes a State by value and returns a new one.
//
// The system is continuous-time: two additive exponential-decay modes
// per dimension plus one non-decaying accumulator, perturbed by
// instantaneous event impulses. Advance and ApplyEvent do not commute,
// so callers replaying one individual's history must keep events in
// timestamp order.
package evolve

import (
	"math"
	"time"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

// #region constants
const (
	// epsilon below which an offset is treated as already settled.
	epsilon = 1e-7

	// maxExponent guards the regress exponential against overflow;
	// beyond it the reversal is a per-dimension no-op.
	maxExponent = 700.0

	// regressClamp bounds regressed offsets against numeric blow-up.
	regressClamp = 100.0
)

// #endregion constants

// #region advance
// Advance decays every offset for the elapsed duration. Base values and
// acquired capability are untouched. Non-positive durations return the
// state unchanged.
func Advance(s state.State, dt time.Duration) state.State {
	if dt <= 0 {
		return s
	}
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		p := dims.Profile(d)
		if p.NoDecay {
			continue
		}
		s.Fast[d] = decay(s.Fast[d], dt, p.FastHalfLife)
		s.Slow[d] = decay(s.Slow[d], dt, p.SlowHalfLife)
	}
	return s
}

// decay multiplies an offset by 0.5^(dt/halfLife). The factor is in
// (0,1], so the offset shrinks toward zero and never changes sign.
func decay(offset float32, dt, halfLife time.Duration) float32 {
	if offset == 0 || halfLife <= 0 {
		return offset
	}
	factor := math.Exp2(-float64(dt) / float64(halfLife))
	return float32(float64(offset) * factor)
}

// #endregion advance

// #region apply-event
// ApplyEvent routes bucketed deltas into the state: permanent into base
// (irreversible), acute into the fast offset, chronic into the slow
// offset. Zero contributions are no-ops. Acquired capability only ever
// accumulates: negative permanent contributions are floored at zero so
// its effective value is monotonically non-decreasing.
func ApplyEvent(s state.State, deltas spec.Deltas) state.State {
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		if p := deltas.Permanent[d]; p != 0 {
			if d == dims.Capability && p < 0 {
				continue
			}
			s.Base[d] += p
		}
		if a := deltas.Acute[d]; a != 0 && d != dims.Capability {
			s.Fast[d] += a
		}
		if c := deltas.Chronic[d]; c != 0 && d != dims.Capability {
			s.Slow[d] += c
		}
	}
	return s
}

// #endregion apply-event

// #region regress
// Regress approximately rewinds decay: each non-negligible offset is
// multiplied by exp(ln2 * dt / halfLife), clamped to a bounded range.
// Exponents past the overflow guard leave the offset unchanged. Base
// values and acquired capability are defined immutable under
// time-reversal. Non-positive durations return the state unchanged.
func Regress(s state.State, dt time.Duration) state.State {
	if dt <= 0 {
		return s
	}
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		p := dims.Profile(d)
		if p.NoDecay {
			continue
		}
		s.Fast[d] = reverseDecay(s.Fast[d], dt, p.FastHalfLife)
		s.Slow[d] = reverseDecay(s.Slow[d], dt, p.SlowHalfLife)
	}
	return s
}

func reverseDecay(offset float32, dt, halfLife time.Duration) float32 {
	if halfLife <= 0 || math.Abs(float64(offset)) < epsilon {
		return offset
	}
	exponent := math.Ln2 * float64(dt) / float64(halfLife)
	if exponent > maxExponent {
		return offset
	}
	earlier := float64(offset) * math.Exp(exponent)
	if earlier > regressClamp {
		earlier = regressClamp
	} else if earlier < -regressClamp {
		earlier = -regressClamp
	}
	return float32(earlier)
}

// #endregion regress

// #region reverse-event
// ReverseEvent subtracts an event's acute and chronic buckets from the
// matching offsets. Permanent base shifts and acquired capability are
// never reversed. This is a same-instant inverse of ApplyEvent: it is
// exact only when no Advance ran in between. Arbitrary-time undo needs
// event-history replay, not state inversion.
func ReverseEvent(s state.State, deltas spec.Deltas) state.State {
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		if d == dims.Capability {
			continue
		}
		if a := deltas.Acute[d]; a != 0 {
			s.Fast[d] -= a
		}
		if c := deltas.Chronic[d]; c != 0 {
			s.Slow[d] -= c
		}
	}
	return s
}

// #endregion reverse-event
