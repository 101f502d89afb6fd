package snake

// Board geometry. The board is GridSize x GridSize cells of CellUnits
// logical units each.
const (
	GridSize   = 20
	CellUnits  = 20
	BoardUnits = GridSize * CellUnits
)

// Fixed positions used when a session starts.
var (
	StartCell       = Cell{X: 10, Y: 10}
	InitialFoodCell = Cell{X: 5, Y: 5}
)

// Cell is a board coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// InBounds reports whether c lies on the board.
func (c Cell) InBounds() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}
