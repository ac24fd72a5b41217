package interpret

import (
	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
)

// #region personality
// Personality carries the two trait axes the interpretation layer reads.
// Both are roughly [-1, 1] around a population mean of zero.
type Personality struct {
	Emotionality    float32
	HonestyHumility float32
}

// emotionalityGain scales how strongly emotionality amplifies the
// affective response to an event.
const emotionalityGain = 0.3

func (p Personality) affectFactor() float32 {
	return 1 + p.Emotionality*emotionalityGain
}

// #endregion personality

// #region attribution
// Cause says who or what the individual blames for an event.
type Cause string

const (
	SelfCaused  Cause = "self"
	OtherCaused Cause = "other"
	Situational Cause = "situational"
	Unknown     Cause = "unknown"
)

// Stability says whether the perceived cause is seen as enduring.
type Stability string

const (
	Stable   Stability = "stable"
	Unstable Stability = "unstable"
)

// Attribution is the inferred explanation for an event. Agent is set
// only for other-caused events.
type Attribution struct {
	Cause     Cause
	Agent     string
	Stability Stability
}

const (
	severeThreshold  = 0.7 // above this an attribution reads as stable
	selfAttribution  = 0.3 // honesty-humility above this self-attributes
	situationalBelow = -0.3
)

// attributionFor infers the attribution from the event and personality.
// A recorded source always wins; otherwise honesty-humility decides
// between self, situational, and unknown. There is no failure mode.
// Stability is derived from severity for every outcome, Unknown
// included; it carries interpretive weight only when the cause is
// resolved.
func attributionFor(ev Event, p Personality) Attribution {
	stability := Unstable
	if ev.Severity > severeThreshold {
		stability = Stable
	}
	if ev.Source != "" {
		return Attribution{Cause: OtherCaused, Agent: ev.Source, Stability: stability}
	}
	switch {
	case p.HonestyHumility > selfAttribution:
		return Attribution{Cause: SelfCaused, Stability: stability}
	case p.HonestyHumility < situationalBelow:
		return Attribution{Cause: Situational, Stability: stability}
	default:
		return Attribution{Cause: Unknown, Stability: stability}
	}
}

// #endregion attribution

// #region interpreted
// Interpreted is an event after personality modulation: the bucketed
// deltas ready for state application, the attribution, and the salience
// scores memory encoding consumes.
type Interpreted struct {
	Event       Event
	Attribution Attribution

	// Deltas has the valence and arousal rows already modulated by
	// emotionality, consistent with the summary fields below.
	Deltas spec.Deltas

	Valence           float32 // modulated valence total across buckets
	Arousal           float32 // modulated arousal total across buckets
	CapabilityTotal   float32
	PerceivedSeverity float32

	BaseSalience float32
	Salience     float32
}

// Trauma reports whether the event raised acquired capability.
func (i Interpreted) Trauma() bool {
	return i.CapabilityTotal > 0
}

// Rescale multiplies every delta bucket and derived numeric field by
// factor, for callers applying developmental amplification. Both
// salience fields stay as computed: memorability is decided at
// interpretation time, not rescaled afterwards.
func (i Interpreted) Rescale(factor float32) Interpreted {
	out := i
	out.Deltas = i.Deltas.Scale(factor)
	out.Valence *= factor
	out.Arousal *= factor
	out.CapabilityTotal *= factor
	out.PerceivedSeverity *= factor
	return out
}

// #endregion interpreted

// #region interpret
// Interpret runs the event's template at its severity and layers on the
// personality-dependent parts. currentArousal is the individual's
// effective arousal at interpretation time; salience may be nil, in
// which case DefaultSalience is used.
func Interpret(ev Event, p Personality, currentArousal float32, salience SalienceFunc, species Species) Interpreted {
	deltas := spec.Apply(ev.Template, ev.Severity)

	factor := p.affectFactor()
	for _, d := range []dims.Dim{dims.Valence, dims.Arousal} {
		deltas.Permanent[d] *= factor
		deltas.Acute[d] *= factor
		deltas.Chronic[d] *= factor
	}

	out := Interpreted{
		Event:             ev,
		Attribution:       attributionFor(ev, p),
		Deltas:            deltas,
		Valence:           deltas.Total(dims.Valence),
		Arousal:           deltas.Total(dims.Arousal),
		CapabilityTotal:   deltas.Total(dims.Capability),
		PerceivedSeverity: ev.Severity * factor,
	}

	out.BaseSalience = baseSalience(ev)
	if salience == nil {
		salience = DefaultSalience
	}
	out.Salience = salience(out.BaseSalience, currentArousal+out.Arousal, out.Valence, out.Trauma(), species)
	return out
}

const (
	salienceFloor        = 0.3
	salienceSeverityGain = 0.5

	capabilityBoostHigh = 0.2 // |capability impact| above 0.5
	capabilityBoostLow  = 0.1 // any non-zero capability impact
	socialBoost         = 0.1
)

// baseSalience scores memorability from the event alone: severity plus
// boosts for capability-raising (trauma) and strong social impact.
func baseSalience(ev Event) float32 {
	s := salienceFloor + ev.Severity*salienceSeverityGain

	switch ac := ev.Template.Impact[dims.Capability]; {
	case ac > 0.5 || ac < -0.5:
		s += capabilityBoostHigh
	case ac > 0:
		s += capabilityBoostLow
	}

	lone, caring := ev.Template.Impact[dims.Loneliness], ev.Template.Impact[dims.Caring]
	if lone > 0.3 || lone < -0.3 || caring > 0.2 || caring < -0.2 {
		s += socialBoost
	}

	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}

// #endregion interpret
