package model

import "github.com/vaultrecon/semrecon/model/reccore"

// Cell is a reconstructed interior or exterior cell.
type Cell struct {
	Common

	Flags *uint8

	// GridX, GridY are set for exterior cells (from the XCLC subrecord, or
	// from the scanner's best-guess grid for dump-mode input).
	GridX, GridY *int32

	IsInterior bool

	WaterHeight *float32

	EncounterZoneFormID OptionFormID
	MusicFormID         OptionFormID
	AcousticSpaceFormID OptionFormID
	ImageSpaceFormID    OptionFormID

	// WorldspaceFormID is set by InferCellWorldspaces/LinkCellsToWorldspaces
	// (spec.md §4.6, §4.10) for exterior cells lacking an explicit mapping.
	WorldspaceFormID OptionFormID

	// PlacedReferenceFormIDs is this cell's placed references, resolved
	// either from the scanner's GRUP-derived cell->ref index or from the
	// proximity-window heuristic (spec.md §4.6).
	PlacedReferenceFormIDs []reccore.FormID `json:",omitempty"`

	// TerrainFormID is this cell's resolved heightmap record, if any.
	TerrainFormID OptionFormID

	// Virtual reports whether this cell was fabricated by CreateVirtualCells
	// rather than read from the image (spec.md §4.6 "Virtual cells").
	Virtual bool
}

// Worldspace is a reconstructed worldspace (exterior world) record.
type Worldspace struct {
	Common

	// CellRangeBounds and WorldUnitBounds are the two optional bounds
	// representations spec.md §4.6 describes; either, both, or neither may
	// be present.
	CellRangeBounds *GridBounds  `json:",omitempty"`
	WorldUnitBounds *UnitBounds  `json:",omitempty"`

	// CellFormIDs is the set of exterior cells assigned to this worldspace,
	// filled in by LinkCellsToWorldspaces (spec.md §4.6, §4.10).
	CellFormIDs []reccore.FormID `json:",omitempty"`
}

// GridBounds is a worldspace's cell-grid bounding box in cell coordinates.
type GridBounds struct {
	MinX, MinY, MaxX, MaxY int32
}

// UnitBounds is a worldspace's bounding box in world units.
type UnitBounds struct {
	MinX, MinY, MaxX, MaxY float32
}

// Area returns the bounds' area in cell units, used as the tiebreaker in
// InferCellWorldspaces (spec.md §4.6: "largest-area worldspace as
// tiebreaker").
func (g GridBounds) Area() int64 {
	return int64(g.MaxX-g.MinX+1) * int64(g.MaxY-g.MinY+1)
}

// PlacedReference is a reconstructed instance of a base object at a
// position in the world.
type PlacedReference struct {
	Common

	BaseFormID OptionFormID
	CellFormID OptionFormID

	Position *reccore.Point3
	Rotation *reccore.Rotation
	Scale    *float32

	EnableParentFormID OptionFormID
	IsMarker           bool

	// ScriptFormID is inherited from BaseFormID during cross-reference
	// building (spec.md §4.8), not read directly off this record.
	ScriptFormID OptionFormID
}

// OrphanCandidate reports whether this reference's position is nonzero
// enough to be considered by the virtual-cell grouping pass: spec.md §8
// "A placed reference with zero position is not considered an orphan
// candidate; the threshold is |x| > 1 or |y| > 1."
func (p *PlacedReference) OrphanCandidate() bool {
	if p.Position == nil {
		return false
	}
	x, y := p.Position.X, p.Position.Y
	return abs32(x) > 1 || abs32(y) > 1
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// TerrainHeightmap is a reconstructed terrain (LAND) record.
type TerrainHeightmap struct {
	Common

	WorldspaceFormID OptionFormID
	GridX, GridY     int32

	// Heights is the raw heightmap blob, kept as-is: spec.md does not ask
	// for height-grid decoding, only for resolving which cell/worldspace it
	// belongs to.
	Heights []byte `json:",omitempty"`
}

// NavMesh is a reconstructed navigation mesh record.
type NavMesh struct {
	Common

	CellFormID OptionFormID
}

// Weather is a reconstructed weather record.
type Weather struct {
	Common
}

// LightingTemplate is a reconstructed lighting template record.
type LightingTemplate struct {
	Common
}
