package board

// CellState is the opponent-view knowledge about a single grid cell.
type CellState int

const (
	Unknown CellState = iota
	KnownShip
	KnownWater
)

// DumbBoard is the opponent-facing view of a board: it remembers only
// what the owning client has been told (EnemyVisible/Invisible, Miss),
// never a full ship model. See spec §4.5.
type DumbBoard struct {
	cells [Height][Width]CellState
}

// NewDumbBoard returns an opponent view with every cell Unknown.
func NewDumbBoard() *DumbBoard {
	return &DumbBoard{}
}

// SetShip records that (x, y) is currently known to hold a live enemy
// ship cell.
func (d *DumbBoard) SetShip(x, y int) {
	d.cells[y][x] = KnownShip
}

// SetWater records that (x, y) is known water: a miss, or a cell whose
// ship became invisible again.
func (d *DumbBoard) SetWater(x, y int) {
	d.cells[y][x] = KnownWater
}

// At reports what is currently known about (x, y).
func (d *DumbBoard) At(x, y int) CellState {
	return d.cells[y][x]
}
