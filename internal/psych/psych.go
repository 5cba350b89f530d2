// Package psych implements the perceived/contributed psychological
// safety feedback pair. Every processed interaction nudges the actor's
// perceived safety by the partner's contributed safety, then contributed
// safety relaxes toward a target derived from perceived safety. The two
// scalars form a coupled control loop across the whole population.
package psych

const (
	// perceptionGain scales how strongly a partner's contributed
	// safety moves the actor's perceived safety per unit speaking time.
	perceptionGain = 0.01
	// relaxRate is the EMA coefficient pulling contributed safety
	// toward its target each interaction.
	relaxRate = 0.05
)

// State holds one agent's psychological safety pair.
//
// Perceived is deliberately unclamped: repeated exposure to
// positive-contribution partners grows it without bound. Contributed
// always stays within [-1, 1].
type State struct {
	Perceived   float64 // pps, nominally in [0,1] but unbounded
	Contributed float64 // cps, clamped to [-1,1]
}

// Observe processes one interaction from this agent's perspective:
// partnerContributed is the partner's cps, speakingTime is
// speaking_percentage × duration. Perceived moves first, then
// Contributed relaxes toward 2×pps−1.
func (s *State) Observe(partnerContributed, speakingTime float64) {
	s.Perceived += partnerContributed * speakingTime * perceptionGain
	target := 2*s.Perceived - 1
	s.Contributed += relaxRate * (target - s.Contributed)
	s.Contributed = clamp(s.Contributed, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ThresholdRule evaluates a safety level against a configured
// threshold.
//
// The rule is a stub: the model exposes its configured safety value to
// the rule, but no behavior is gated on the outcome yet.
type ThresholdRule struct {
	Threshold float64
}

// Evaluate reports whether safety meets the threshold.
func (r ThresholdRule) Evaluate(safety float64) bool {
	return safety >= r.Threshold
}

// CollaborationFactor maps safety to a [0,1] strength relative to the
// threshold.
func (r ThresholdRule) CollaborationFactor(safety float64) float64 {
	if r.Threshold == 0 {
		return 1
	}
	return clamp(safety/r.Threshold, 0, 1)
}
