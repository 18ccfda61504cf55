// Package spatial provides cache-efficient spatial data structures for
// broad-phase collision detection and neighbor queries.
//
// All structures use preallocated slices with integer indices (not
// pointers) to minimize GC pressure and maximize cache locality.
package spatial

// ToroidalGrid computes cell and super-cell coordinates for a 16x16
// wrap-around grid of the kind the proximity/awareness grids use (two
// overlaid instances, one per cell size). It owns no entity storage —
// the caller threads its own intrusive per-cell linked list through its
// own entity type, keeping this package free of any entity knowledge.
type ToroidalGrid struct {
	CellSize int32
	Dim      int32 // cells per axis, e.g. 16
}

// NewToroidalGrid constructs a grid descriptor for the given cell size
// and dimension.
func NewToroidalGrid(cellSize, dim int32) ToroidalGrid {
	return ToroidalGrid{CellSize: cellSize, Dim: dim}
}

// Cell returns the wrapped (col, row) cell coordinate for a world
// position.
func (g ToroidalGrid) Cell(h, v int32) (int32, int32) {
	return wrap(h/g.CellSize, g.Dim), wrap(v/g.CellSize, g.Dim)
}

// SuperCell returns the unwrapped super-cell coordinate (one tier up:
// cell index divided by Dim), used to distinguish a true neighbor from
// its wrapped-around counterpart across the torus.
func (g ToroidalGrid) SuperCell(h, v int32) (int32, int32) {
	return floorDiv(h, g.CellSize*g.Dim), floorDiv(v, g.CellSize*g.Dim)
}

// Index returns the row-major cell index for a (col, row) pair.
func (g ToroidalGrid) Index(col, row int32) int32 {
	return row*g.Dim + col
}

func wrap(v, dim int32) int32 {
	v %= dim
	if v < 0 {
		v += dim
	}
	return v
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// NeighborOffset is one of the five cell offsets tested per cell during
// broad-phase enumeration, paired with the super-cell delta that
// confirms two objects found via wrapped neighbor cells are genuinely
// adjacent rather than torus-wrapped counterparts.
type NeighborOffset struct {
	DCol, DRow       int32
	DSuperH, DSuperV int32
}

// Neighbors is the fixed five-offset scheme: self, +h, -h+v, +v, +h+v.
var Neighbors = [5]NeighborOffset{
	{0, 0, 0, 0},
	{1, 0, 1, 0},
	{-1, 1, -1, 1},
	{0, 1, 0, 1},
	{1, 1, 1, 1},
}
