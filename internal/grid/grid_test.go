package grid

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		if _, err := New(dims[0], dims[1]); err == nil {
			t.Fatalf("New(%d, %d) succeeded", dims[0], dims[1])
		}
	}
}

func TestPlaceAndMove(t *testing.T) {
	g, err := New(5, 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := g.Place(1, Position{X: 2, Y: 2}); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := g.Place(1, Position{X: 9, Y: 0}); err == nil {
		t.Fatal("out of bounds place succeeded")
	}
	// Failed placement keeps the old cell.
	if pos, _ := g.PositionOf(1); pos != (Position{X: 2, Y: 2}) {
		t.Fatalf("position after failed place = %v", pos)
	}
	if err := g.Move(1, Position{X: 3, Y: 2}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := g.Move(2, Position{X: 0, Y: 0}); err == nil {
		t.Fatal("move of unplaced agent succeeded")
	}
}

func TestNeighborhoodClipsAtEdges(t *testing.T) {
	g, _ := New(4, 4)
	if got := len(g.Neighborhood(Position{X: 1, Y: 1})); got != 8 {
		t.Fatalf("interior neighborhood size = %d, want 8", got)
	}
	if got := len(g.Neighborhood(Position{X: 0, Y: 0})); got != 3 {
		t.Fatalf("corner neighborhood size = %d, want 3", got)
	}
	if got := len(g.Neighborhood(Position{X: 0, Y: 2})); got != 5 {
		t.Fatalf("edge neighborhood size = %d, want 5", got)
	}
}

func TestNeighborsSortedExcludingCellmates(t *testing.T) {
	g, _ := New(5, 5)
	g.Place(0, Position{X: 2, Y: 2})
	g.Place(3, Position{X: 1, Y: 2})
	g.Place(1, Position{X: 3, Y: 3})
	g.Place(9, Position{X: 2, Y: 2}) // same cell, not a neighbor
	g.Place(5, Position{X: 0, Y: 0}) // too far

	got := g.Neighbors(0)
	want := []int{1, 3}
	if len(got) != len(want) {
		t.Fatalf("neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbors = %v, want %v", got, want)
		}
	}
}

func TestClosestOfFirstEncounteredTie(t *testing.T) {
	g, _ := New(10, 10)
	g.Place(0, Position{X: 5, Y: 5})
	g.Place(1, Position{X: 5, Y: 8}) // distance 3
	g.Place(2, Position{X: 8, Y: 5}) // distance 3 as well
	g.Place(3, Position{X: 5, Y: 6}) // distance 1

	id, ok := g.ClosestOf(0, []int{1, 2})
	if !ok || id != 1 {
		t.Fatalf("tie broke to %d ok=%v, want first candidate 1", id, ok)
	}
	id, ok = g.ClosestOf(0, []int{1, 3, 2})
	if !ok || id != 3 {
		t.Fatalf("closest = %d ok=%v, want 3", id, ok)
	}
	if _, ok := g.ClosestOf(0, []int{42}); ok {
		t.Fatal("closest of unplaced candidates reported ok")
	}
}

func TestStepTowardConverges(t *testing.T) {
	g, _ := New(12, 12)
	g.Place(0, Position{X: 0, Y: 0})
	target := Position{X: 9, Y: 4}

	for i := 0; i < 20; i++ {
		pos, _ := g.PositionOf(0)
		if pos == target {
			break
		}
		before := pos.DistanceTo(target)
		if !g.StepToward(0, target) {
			t.Fatalf("step %d refused from %v", i, pos)
		}
		after, _ := g.PositionOf(0)
		if after.DistanceTo(target) >= before {
			t.Fatalf("step %d did not reduce distance: %v -> %v", i, pos, after)
		}
	}
	if pos, _ := g.PositionOf(0); pos != target {
		t.Fatalf("did not reach target, at %v", pos)
	}
	// At the target every neighborhood cell is farther.
	if g.StepToward(0, target) {
		t.Fatal("step from target position succeeded")
	}
}

func TestRandomStepStaysInBounds(t *testing.T) {
	g, _ := New(3, 3)
	g.Place(0, Position{X: 0, Y: 0})
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		if !g.RandomStep(0, rng) {
			t.Fatalf("random step %d failed", i)
		}
		pos, _ := g.PositionOf(0)
		if !g.Contains(pos) {
			t.Fatalf("random step left the board: %v", pos)
		}
	}
}

func TestDistanceIsEuclidean(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}
	if got := a.DistanceTo(b); math.Abs(got-5.0) > 1e-9 {
		t.Fatalf("distance = %v, want 5", got)
	}
}
