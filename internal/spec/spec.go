// Package spec defines authored impact templates and the pure algorithm
// that partitions an event's impact into permanent, acute, and chronic
// buckets at a given severity.
package spec

import "github.com/danielpatrickdp/lifecourse/go-core/internal/dims"

// #region template
// Template is the authored per-event-kind impact record: raw impact in
// [-1,1] per dimension, the fraction of each impact that becomes a
// permanent base shift, and a per-dimension flag routing the temporary
// remainder to the slow (chronic) or fast (acute) offset.
type Template struct {
	Impact     dims.Vector
	Permanence dims.Vector
	Chronic    [dims.NumDims]bool
}

// #endregion template

// #region deltas
// Deltas is the output of Apply: three bucketed dimension vectors.
// For every dimension except acquired capability,
// Permanent + Acute + Chronic == Impact * severity.
type Deltas struct {
	Permanent dims.Vector
	Acute     dims.Vector
	Chronic   dims.Vector
}

// Scale returns the deltas with every bucket multiplied by f.
func (d Deltas) Scale(f float32) Deltas {
	return Deltas{
		Permanent: d.Permanent.Scale(f),
		Acute:     d.Acute.Scale(f),
		Chronic:   d.Chronic.Scale(f),
	}
}

// Total returns the summed contribution for one dimension across buckets.
func (d Deltas) Total(dim dims.Dim) float32 {
	return d.Permanent[dim] + d.Acute[dim] + d.Chronic[dim]
}

// #endregion deltas

// #region apply
// Apply partitions a template's impact at the given severity. Severity
// is clamped to [0,1]. Acquired capability is always 100% permanent
// regardless of the authored permanence value. Pure: no side effects,
// no error conditions.
func Apply(t Template, severity float32) Deltas {
	if severity < 0 {
		severity = 0
	}
	if severity > 1 {
		severity = 1
	}

	var out Deltas
	for d := dims.Dim(0); d < dims.NumDims; d++ {
		scaled := t.Impact[d] * severity
		if scaled == 0 {
			continue
		}

		if d == dims.Capability {
			out.Permanent[d] = scaled
			continue
		}

		perm := t.Permanence[d]
		out.Permanent[d] = scaled * perm
		temporary := scaled * (1 - perm)
		if t.Chronic[d] {
			out.Chronic[d] = temporary
		} else {
			out.Acute[d] = temporary
		}
	}
	return out
}

// #endregion apply
