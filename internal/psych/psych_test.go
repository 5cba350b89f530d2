package psych

import (
	"math"
	"testing"
)

func TestObserveUpdateArithmetic(t *testing.T) {
	s := &State{Perceived: 0.5, Contributed: 0.0}
	// pps += 0.8 * 2.5 * 0.01 = 0.02; target = 2*0.52-1 = 0.04;
	// cps += 0.05 * 0.04 = 0.002.
	s.Observe(0.8, 2.5)
	if math.Abs(s.Perceived-0.52) > 1e-9 {
		t.Fatalf("perceived = %v, want 0.52", s.Perceived)
	}
	if math.Abs(s.Contributed-0.002) > 1e-9 {
		t.Fatalf("contributed = %v, want 0.002", s.Contributed)
	}
}

func TestContributedStaysClamped(t *testing.T) {
	s := &State{Perceived: 50, Contributed: 0.9}
	for i := 0; i < 1000; i++ {
		s.Observe(1.0, 5.0)
		if s.Contributed < -1 || s.Contributed > 1 {
			t.Fatalf("contributed out of range after %d observations: %v", i+1, s.Contributed)
		}
	}
	if s.Contributed != 1 {
		t.Fatalf("contributed = %v, want saturation at 1", s.Contributed)
	}
}

func TestPerceivedSafetyUnbounded(t *testing.T) {
	// Repeated positive-cps partners push pps past 1 with no ceiling;
	// the asymmetry with cps is deliberate.
	s := &State{Perceived: 0.9}
	for i := 0; i < 100; i++ {
		s.Observe(1.0, 5.0)
	}
	if s.Perceived <= 1 {
		t.Fatalf("perceived = %v, expected growth past 1", s.Perceived)
	}
}

func TestNegativePartnersDriveContributedDown(t *testing.T) {
	s := &State{Perceived: 0.2, Contributed: 0.5}
	for i := 0; i < 500; i++ {
		s.Observe(-1.0, 5.0)
	}
	if s.Contributed != -1 {
		t.Fatalf("contributed = %v, want saturation at -1", s.Contributed)
	}
}

func TestThresholdRule(t *testing.T) {
	rule := ThresholdRule{Threshold: 0.7}
	if rule.Evaluate(0.69) {
		t.Fatalf("0.69 should not meet threshold 0.7")
	}
	if !rule.Evaluate(0.7) {
		t.Fatalf("0.7 should meet threshold 0.7")
	}
	if got := rule.CollaborationFactor(0.35); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("factor = %v, want 0.5", got)
	}
	if got := rule.CollaborationFactor(1.4); got != 1 {
		t.Fatalf("factor = %v, want clamp at 1", got)
	}
}
