// Package board implements the own-board ship model: placement legality,
// hit resolution, movement, and the Chebyshev-radius-1 visibility rule
// an opponent's shots reveal. See spec §3 and §4.2.
package board

import (
	"fmt"
	"sort"

	"github.com/amalg/go-battleships/internal/protocol"
)

// Width and Height are the fixed grid dimensions for every board.
const (
	Width  = 16
	Height = 10
)

// ShipLengths gives the canonical fleet: index is the stable ship ID.
var ShipLengths = [5]int{5, 4, 3, 2, 2}

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Ship is one vessel: its anchor, fixed heading, and remaining hit points.
type Ship struct {
	X, Y   int
	Length int
	HP     int
	Dir    protocol.Direction
}

// Dead reports whether the ship has been destroyed.
func (s Ship) Dead() bool { return s.HP <= 0 }

// Cells returns the grid points this ship currently occupies.
func (s Ship) Cells() []Point {
	dx, dy := delta(s.Dir)
	cells := make([]Point, s.Length)
	for i := 0; i < s.Length; i++ {
		cells[i] = Point{s.X + dx*i, s.Y + dy*i}
	}
	return cells
}

func delta(d protocol.Direction) (dx, dy int) {
	switch d {
	case protocol.North:
		return 0, -1
	case protocol.East:
		return 1, 0
	case protocol.South:
		return 0, 1
	case protocol.West:
		return -1, 0
	default:
		return 0, 0
	}
}

func inBounds(p Point) bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Height
}

// HitResult is the outcome of a single shot against a Board.
type HitResult int

const (
	Miss HitResult = iota
	Hit
	Destroyed
)

// InvalidPlacementError explains why a placement or move was rejected.
type InvalidPlacementError struct {
	Reason string
}

func (e *InvalidPlacementError) Error() string {
	return fmt.Sprintf("invalid placement: %s", e.Reason)
}

// VisibilityUpdate is one cell whose visibility to the opponent changed.
type VisibilityUpdate struct {
	X, Y    int
	Visible bool
}

// Board is an own-board: the authoritative ship list plus the hit and
// visibility history needed to answer PopUpdates. The cell occupancy map
// is never stored — it is always recomputed from the ship list.
type Board struct {
	Mine        bool
	ships       [len(ShipLengths)]Ship
	shots       map[Point]struct{}
	prevVisible map[Point]bool
}

// TryCreate validates a full 5-ship placement and, if legal, returns the
// resulting Board. Ship i always has length ShipLengths[i] and starts
// with hp == length.
func TryCreate(placement [len(ShipLengths)]protocol.Placement, mine bool) (*Board, error) {
	var ships [len(ShipLengths)]Ship
	for i, p := range placement {
		length := ShipLengths[i]
		ships[i] = Ship{X: p.X, Y: p.Y, Length: length, HP: length, Dir: p.Dir}
	}
	if err := validate(ships); err != nil {
		return nil, err
	}
	return &Board{
		Mine:        mine,
		ships:       ships,
		shots:       make(map[Point]struct{}),
		prevVisible: make(map[Point]bool),
	}, nil
}

// validate checks the own-board invariants from spec §3: every non-dead
// ship lies fully inside the grid and no two ship cells coincide.
func validate(ships [len(ShipLengths)]Ship) error {
	occupied := make(map[Point]int, Width*Height)
	for i, s := range ships {
		if s.Dead() {
			continue
		}
		for _, c := range s.Cells() {
			if !inBounds(c) {
				return &InvalidPlacementError{Reason: "ship crosses the grid boundary"}
			}
			if _, taken := occupied[c]; taken {
				return &InvalidPlacementError{Reason: "ships overlap"}
			}
			occupied[c] = i
		}
	}
	return nil
}

// MoveShip attempts to translate ship id by one cell in dir. It fails
// without mutating the board if the ship is dead, id is out of range, or
// the resulting position is invalid.
func (b *Board) MoveShip(id int, dir protocol.Direction) bool {
	if id < 0 || id >= len(b.ships) {
		return false
	}
	ship := b.ships[id]
	if ship.Dead() {
		return false
	}
	dx, dy := delta(dir)
	ship.X += dx
	ship.Y += dy

	trial := b.ships
	trial[id] = ship
	if err := validate(trial); err != nil {
		return false
	}
	b.ships = trial
	return true
}

// Hit resolves a shot at (x, y) against the live ship occupying that cell,
// if any, and records the shot for visibility purposes regardless of
// outcome.
func (b *Board) Hit(x, y int) HitResult {
	p := Point{X: x, Y: y}
	b.shots[p] = struct{}{}

	for i := range b.ships {
		s := &b.ships[i]
		if s.Dead() {
			continue
		}
		for _, c := range s.Cells() {
			if c != p {
				continue
			}
			s.HP--
			if s.HP <= 0 {
				return Destroyed
			}
			return Hit
		}
	}
	return Miss
}

// Shot reports whether (x, y) has ever been hit against this board. Used
// by a UI to mark spent cells on a player's own board.
func (b *Board) Shot(x, y int) bool {
	_, ok := b.shots[Point{X: x, Y: y}]
	return ok
}

// IsDead reports whether every ship on the board has been destroyed.
func (b *Board) IsDead() bool {
	for _, s := range b.ships {
		if !s.Dead() {
			return false
		}
	}
	return true
}

// Ship returns a copy of ship id's current state.
func (b *Board) Ship(id int) Ship {
	return b.ships[id]
}

// PopUpdates reports, since the last call, every live ship cell whose
// visibility to the opponent changed. A cell is visible to the opponent
// iff some shot ever recorded against this board lies within Chebyshev
// distance 1 of it (the shot cell itself counts, per spec §8).
func (b *Board) PopUpdates() []VisibilityUpdate {
	triggered := make(map[Point]bool, len(b.shots)*9)
	for shot := range b.shots {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				triggered[Point{X: shot.X + dx, Y: shot.Y + dy}] = true
			}
		}
	}

	current := make(map[Point]bool)
	for _, s := range b.ships {
		if s.Dead() {
			continue
		}
		for _, c := range s.Cells() {
			if triggered[c] {
				current[c] = true
			}
		}
	}

	var becameVisible, becameInvisible []Point
	for c := range current {
		if !b.prevVisible[c] {
			becameVisible = append(becameVisible, c)
		}
	}
	for c := range b.prevVisible {
		if !current[c] {
			becameInvisible = append(becameInvisible, c)
		}
	}
	sortPoints(becameVisible)
	sortPoints(becameInvisible)

	updates := make([]VisibilityUpdate, 0, len(becameVisible)+len(becameInvisible))
	for _, c := range becameVisible {
		updates = append(updates, VisibilityUpdate{X: c.X, Y: c.Y, Visible: true})
	}
	for _, c := range becameInvisible {
		updates = append(updates, VisibilityUpdate{X: c.X, Y: c.Y, Visible: false})
	}

	b.prevVisible = current
	return updates
}

func sortPoints(pts []Point) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}

// CanonicalPlacement is the reference layout used in tests: all 5 ships
// along row 0..4, heading east from x=0.
func CanonicalPlacement() [len(ShipLengths)]protocol.Placement {
	var placement [len(ShipLengths)]protocol.Placement
	for i := range placement {
		placement[i] = protocol.Placement{X: 0, Y: i, Dir: protocol.East}
	}
	return placement
}
