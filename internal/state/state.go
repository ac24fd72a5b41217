// Package state defines the per-individual psychological state: one
// decaying scalar per dimension, each split into a permanent base and
// two independently-decaying offsets.
package state

import "github.com/danielpatrickdp/lifecourse/go-core/internal/dims"

// #region state
// State is the full state vector of one individual. Value semantics:
// assignment copies, so the evolution functions can return modified
// copies without touching their input.
//
// Per dimension: Base changes only through explicit permanent shifts,
// Fast decays with the dimension's fast half-life, Slow with the slow
// one. Acquired capability keeps no offsets at all.
type State struct {
	Base dims.Vector
	Fast dims.Vector
	Slow dims.Vector
}

// New returns a fresh state with every dimension at its baseline and
// zero offsets.
func New() State {
	var s State
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		s.Base[d] = dims.Profile(d).Baseline
	}
	return s
}

// Zero returns an all-zero state, used by tests and the worked examples.
func Zero() State {
	return State{}
}

// Effective returns the clamped observable value of one dimension.
// Capability reads base only: it has no offsets by construction.
func (s State) Effective(d dims.Dim) float32 {
	if dims.Profile(d).NoDecay {
		return dims.Clamp(d, s.Base[d])
	}
	return dims.Clamp(d, s.Base[d]+s.Fast[d]+s.Slow[d])
}

// Offset returns the combined fast+slow offset for one dimension.
func (s State) Offset(d dims.Dim) float32 {
	return s.Fast[d] + s.Slow[d]
}

// #endregion state

// #region snapshot
// Snapshot is a read-only effective-value view keyed by dimension name,
// consumed by alerting and the inspect tooling.
type Snapshot map[string]float32

// Snapshot materialises the effective value of every dimension.
func (s State) Snapshot() Snapshot {
	out := make(Snapshot, dims.NumDims)
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		out[d.String()] = s.Effective(d)
	}
	return out
}

// #endregion snapshot
