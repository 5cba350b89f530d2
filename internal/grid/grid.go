// Package grid provides the bounded 2D workspace the engineers move
// around in. Cells hold any number of agents and the edges do not wrap.
package grid

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Position is a cell coordinate.
type Position struct {
	X int
	Y int
}

// DistanceTo returns the Euclidean distance to other.
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Grid tracks agent positions on a width by height board.
type Grid struct {
	width  int
	height int
	cells  map[Position]map[int]struct{}
	agents map[int]Position
}

// New builds an empty grid. Dimensions must be positive.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make(map[Position]map[int]struct{}),
		agents: make(map[int]Position),
	}, nil
}

// Width returns the horizontal cell count.
func (g *Grid) Width() int { return g.width }

// Height returns the vertical cell count.
func (g *Grid) Height() int { return g.height }

// Contains reports whether pos is on the board.
func (g *Grid) Contains(pos Position) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// PositionOf returns the agent's cell. ok is false for unplaced agents.
func (g *Grid) PositionOf(agentID int) (Position, bool) {
	pos, ok := g.agents[agentID]
	return pos, ok
}

// Place puts an agent on a cell, removing it from any previous cell.
func (g *Grid) Place(agentID int, pos Position) error {
	if !g.Contains(pos) {
		return fmt.Errorf("grid: position %v out of bounds", pos)
	}
	if prev, ok := g.agents[agentID]; ok {
		delete(g.cells[prev], agentID)
		if len(g.cells[prev]) == 0 {
			delete(g.cells, prev)
		}
	}
	if g.cells[pos] == nil {
		g.cells[pos] = make(map[int]struct{})
	}
	g.cells[pos][agentID] = struct{}{}
	g.agents[agentID] = pos
	return nil
}

// Move relocates a placed agent. The agent keeps its old cell when the
// target is off the board.
func (g *Grid) Move(agentID int, pos Position) error {
	if _, ok := g.agents[agentID]; !ok {
		return fmt.Errorf("grid: agent %d not placed", agentID)
	}
	return g.Place(agentID, pos)
}

// Neighborhood returns the in-bounds Moore neighborhood of pos, center
// excluded, in row-major order.
func (g *Grid) Neighborhood(pos Position) []Position {
	var cells []Position
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			next := Position{X: pos.X + dx, Y: pos.Y + dy}
			if g.Contains(next) {
				cells = append(cells, next)
			}
		}
	}
	return cells
}

// Neighbors returns the ids of agents in the Moore neighborhood of the
// given agent, ascending. Agents sharing the center cell are not
// neighbors.
func (g *Grid) Neighbors(agentID int) []int {
	pos, ok := g.agents[agentID]
	if !ok {
		return nil
	}
	var ids []int
	for _, cell := range g.Neighborhood(pos) {
		for id := range g.cells[cell] {
			if id != agentID {
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// ClosestOf returns the candidate nearest to the agent by Euclidean
// distance. Ties keep the earliest candidate in slice order. ok is
// false when no candidate is placed.
func (g *Grid) ClosestOf(agentID int, candidates []int) (int, bool) {
	from, ok := g.agents[agentID]
	if !ok {
		return 0, false
	}
	best := -1
	bestDist := math.Inf(1)
	for _, id := range candidates {
		pos, placed := g.agents[id]
		if !placed || id == agentID {
			continue
		}
		if d := from.DistanceTo(pos); d < bestDist {
			best = id
			bestDist = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// StepToward moves the agent one cell toward target, picking the
// neighborhood cell with the smallest Euclidean distance to the target.
// It reports false without moving when no neighborhood cell is strictly
// closer than the current cell.
func (g *Grid) StepToward(agentID int, target Position) bool {
	pos, ok := g.agents[agentID]
	if !ok {
		return false
	}
	best := pos
	bestDist := pos.DistanceTo(target)
	for _, cell := range g.Neighborhood(pos) {
		if d := cell.DistanceTo(target); d < bestDist {
			best = cell
			bestDist = d
		}
	}
	if best == pos {
		return false
	}
	return g.Move(agentID, best) == nil
}

// RandomStep moves the agent to a uniformly chosen in-bounds
// neighborhood cell. Agents in a corner still have three choices so a
// placed agent always moves.
func (g *Grid) RandomStep(agentID int, rng *rand.Rand) bool {
	pos, ok := g.agents[agentID]
	if !ok {
		return false
	}
	cells := g.Neighborhood(pos)
	if len(cells) == 0 {
		return false
	}
	next := cells[rng.Intn(len(cells))]
	return g.Move(agentID, next) == nil
}
