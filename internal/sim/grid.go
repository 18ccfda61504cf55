package sim

import "antares/internal/sim/spatial"

// ProximityGrid overlays the two toroidal broad-phase grids:
// a collision grid (128-unit cells) and an awareness grid (2048-unit
// cells), both 16×16. Each cell holds the head of a singly-linked list
// threaded through SpaceObject.NextNearObject/NextFarObject — the grid
// itself stores only head-of-list slot indices, matching 's
// "grid-bucket links" field description.
type ProximityGrid struct {
	near spatial.ToroidalGrid
	far  spatial.ToroidalGrid

	nearHeads [GridDim * GridDim]int32
	farHeads  [GridDim * GridDim]int32
}

// NewProximityGrid constructs an empty grid pair.
func NewProximityGrid() *ProximityGrid {
	g := &ProximityGrid{
		near: spatial.NewToroidalGrid(CollisionCellSize, GridDim),
		far:  spatial.NewToroidalGrid(AwarenessCellSize, GridDim),
	}
	g.clear()
	return g
}

func (g *ProximityGrid) clear() {
	for i := range g.nearHeads {
		g.nearHeads[i] = -1
		g.farHeads[i] = -1
	}
}

// Rebuild clears both grids and reinserts every InUse object carrying any
// ConsiderDistanceMask attribute.
func (g *ProximityGrid) Rebuild(a *Arena) {
	g.clear()
	for cur := a.ActiveHead(); cur != -1; {
		o := a.Slot(cur)
		next := o.Next
		o.NextNearObject = -1
		o.NextFarObject = -1
		if o.Base != nil && o.Base.Attrs&ConsiderDistanceMask != 0 {
			o.ClosestDistanceSq = -1
			g.insertNear(a, o)
			g.insertFar(a, o)
		}
		cur = next
	}
}

func (g *ProximityGrid) insertNear(a *Arena, o *SpaceObject) {
	col, row := g.near.Cell(o.Location.H, o.Location.V)
	sh, sv := g.near.SuperCell(o.Location.H, o.Location.V)
	o.CollisionGridH, o.CollisionGridV = sh, sv
	idx := g.near.Index(col, row)
	o.NextNearObject = g.nearHeads[idx]
	g.nearHeads[idx] = o.Slot
}

func (g *ProximityGrid) insertFar(a *Arena, o *SpaceObject) {
	col, row := g.far.Cell(o.Location.H, o.Location.V)
	sh, sv := g.far.SuperCell(o.Location.H, o.Location.V)
	o.DistanceGridH, o.DistanceGridV = sh, sv
	idx := g.far.Index(col, row)
	o.NextFarObject = g.farHeads[idx]
	g.farHeads[idx] = o.Slot
}

// forEachNearCellPair walks every near-grid cell and calls fn once per
// unordered candidate pair found via the five-neighbor-offset scheme,
// after confirming the pair's super-cells actually match (i.e. they
// are true neighbors, not torus-wrapped counterparts).
func (g *ProximityGrid) forEachNearCellPair(a *Arena, fn func(x, y *SpaceObject)) {
	forEachCellPair(a, g.near, g.nearHeads[:], func(o *SpaceObject) (int32, int32) { return o.CollisionGridH, o.CollisionGridV }, func(o *SpaceObject) int32 { return o.NextNearObject }, fn)
}

// forEachFarCellPair is the awareness-grid analogue of forEachNearCellPair.
func (g *ProximityGrid) forEachFarCellPair(a *Arena, fn func(x, y *SpaceObject)) {
	forEachCellPair(a, g.far, g.farHeads[:], func(o *SpaceObject) (int32, int32) { return o.DistanceGridH, o.DistanceGridV }, func(o *SpaceObject) int32 { return o.NextFarObject }, fn)
}

func forEachCellPair(a *Arena, grid spatial.ToroidalGrid, heads []int32, superOf func(*SpaceObject) (int32, int32), nextOf func(*SpaceObject) int32, fn func(x, y *SpaceObject)) {
	for row := int32(0); row < grid.Dim; row++ {
		for col := int32(0); col < grid.Dim; col++ {
			baseIdx := grid.Index(col, row)
			if heads[baseIdx] == -1 {
				continue
			}
			for _, off := range spatial.Neighbors {
				ncol := wrapDim(col+off.DCol, grid.Dim)
				nrow := wrapDim(row+off.DRow, grid.Dim)
				nIdx := grid.Index(ncol, nrow)
				if heads[nIdx] == -1 {
					continue
				}
				// The super-cell offset applies only across the torus seam;
				// an unwrapped neighbor shares the base cell's super-cell.
				dsh, dsv := int32(0), int32(0)
				if ncol != col+off.DCol {
					dsh = off.DSuperH
				}
				if nrow != row+off.DRow {
					dsv = off.DSuperV
				}
				visitCellPair(a, heads[baseIdx], heads[nIdx], baseIdx == nIdx, dsh, dsv, superOf, nextOf, fn)
			}
		}
	}
}

func wrapDim(v, dim int32) int32 {
	v %= dim
	if v < 0 {
		v += dim
	}
	return v
}

// visitCellPair enumerates unordered pairs between the list rooted at
// headA and the list rooted at headB (which may be the same list, in
// which case each unordered pair is visited exactly once). For
// cross-cell comparisons it confirms the expected super-cell offset
// holds between the two objects before calling fn, so a wrapped-around
// neighbor is not mistaken for a genuine spatial neighbor.
func visitCellPair(a *Arena, headA, headB int32, sameList bool, dsh, dsv int32, superOf func(*SpaceObject) (int32, int32), nextOf func(*SpaceObject) int32, fn func(x, y *SpaceObject)) {
	for i := headA; i != -1; i = nextOf(a.Slot(i)) {
		x := a.Slot(i)
		start := headB
		if sameList {
			start = nextOf(x)
		}
		for j := start; j != -1; j = nextOf(a.Slot(j)) {
			if i == j {
				continue
			}
			y := a.Slot(j)
			if !sameList {
				xh, xv := superOf(x)
				yh, yv := superOf(y)
				if xh+dsh != yh || xv+dsv != yv {
					continue
				}
			}
			fn(x, y)
		}
	}
}
