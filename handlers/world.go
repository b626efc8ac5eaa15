package handlers

import (
	"sort"

	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

var (
	tagXEZN = reccore.NewTag("XEZN") // encounter zone
	tagXCMO = reccore.NewTag("XCMO") // music type
	tagXCAS = reccore.NewTag("XCAS") // acoustic space
	tagXCIM = reccore.NewTag("XCIM") // image space
	tagXCLC = reccore.NewTag("XCLC")
	tagXCLW = reccore.NewTag("XCLW")
	tagNAM0 = reccore.NewTag("NAM0") // worldspace cell-range bounds (min)
	tagNAM9 = reccore.NewTag("NAM9") // worldspace cell-range bounds (max)
)

// CellRefProximityWindow is the fallback proximity window (spec.md §4.6,
// §9 "Open question"): when a cell's placed references can't be resolved
// from the scanner's GRUP-derived index, references are attributed to a
// cell if their main-record offset falls within this many bytes of the
// cell record's own offset. Exported so a caller with ground-truth
// false-positive measurements can override it (spec.md §9).
var CellRefProximityWindow uint64 = 500 * 1024

// ReconstructCells implements C6 for CELL records: grid coordinates,
// flags, water height, and the four zone/music/acoustic-space/image-space
// form-id fields. Placed-reference and worldspace resolution happen in
// ResolveCellPlacedRefs/InferCellWorldspaces/LinkCellsToWorldspaces, since
// those need the full set of cells and worldspaces together.
func ReconstructCells(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Cell, []scankit.TelemetryEvent) {
	var out []*model.Cell
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.MediumBufferPool)
		tel = append(tel, t...)
		c := &model.Cell{Common: baseCommon(h, !ok)}
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				switch sr.Tag {
				case tagDATA:
					if len(data) >= 1 {
						f := data[0]
						c.Flags = &f
					}
				case tagXCLC:
					c.IsInterior = false
					if len(data) >= 8 {
						x := reconio.I32(data, 0, endian)
						y := reconio.I32(data, 4, endian)
						c.GridX, c.GridY = &x, &y
					}
				case tagXCLW:
					if len(data) >= 4 {
						w := reconio.F32(data, 0, endian)
						c.WaterHeight = &w
					}
				case tagXEZN:
					if len(data) >= 4 {
						c.EncounterZoneFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagXCMO:
					if len(data) >= 4 {
						c.MusicFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagXCAS:
					if len(data) >= 4 {
						c.AcousticSpaceFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagXCIM:
					if len(data) >= 4 {
						c.ImageSpaceFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				default:
					decodeFallbackSubrecord(ctx, &c.Common, rectag.TagCell, sr.Tag, data, endian)
				}
			}
			if c.GridX == nil {
				c.IsInterior = true
			}
		}
		finalizeCommon(&c.Common, ctx.Index)
		out = append(out, c)
	}
	return out, tel
}

// ResolveCellPlacedRefs attaches each cell's placed references, preferring
// the scanner's GRUP-derived cell-id -> [ref-id] map when present and
// falling back to a proximity-window heuristic over file offsets when it
// is absent -- the common case for memory-dump input (spec.md §4.6).
func ResolveCellPlacedRefs(cells []*model.Cell, cellRefGroups map[reccore.FormID][]reccore.FormID, refHeaders []reconio.MainRecordHeader) {
	if len(cellRefGroups) > 0 {
		for _, c := range cells {
			if refs, ok := cellRefGroups[c.FormID]; ok {
				c.PlacedReferenceFormIDs = append([]reccore.FormID(nil), refs...)
			}
		}
		return
	}
	if len(refHeaders) == 0 {
		return
	}

	sortedRefs := append([]reconio.MainRecordHeader(nil), refHeaders...)
	sort.Slice(sortedRefs, func(i, j int) bool { return sortedRefs[i].Offset < sortedRefs[j].Offset })
	offsets := make([]uint64, len(sortedRefs))
	for i, h := range sortedRefs {
		offsets[i] = h.Offset
	}

	for _, c := range cells {
		lo := uint64(0)
		if c.Offset > CellRefProximityWindow {
			lo = c.Offset - CellRefProximityWindow
		}
		hiBound := c.Offset + CellRefProximityWindow

		start := sort.Search(len(offsets), func(i int) bool { return offsets[i] >= lo })
		for i := start; i < len(offsets) && offsets[i] <= hiBound; i++ {
			c.PlacedReferenceFormIDs = append(c.PlacedReferenceFormIDs, sortedRefs[i].FormID)
		}
	}
}

// ReconstructWorldspaces implements C6 for WRLD records: the two optional
// bounds representations (spec.md §4.6).
func ReconstructWorldspaces(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Worldspace, []scankit.TelemetryEvent) {
	var out []*model.Worldspace
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.MediumBufferPool)
		tel = append(tel, t...)
		w := &model.Worldspace{Common: baseCommon(h, !ok)}
		if ok {
			endian := h.Endian()
			var cellMin, cellMax *[2]int32
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				switch sr.Tag {
				case tagNAM0:
					if len(data) >= 8 {
						v := [2]int32{reconio.I32(data, 0, endian), reconio.I32(data, 4, endian)}
						cellMin = &v
					}
				case tagNAM9:
					if len(data) >= 8 {
						v := [2]int32{reconio.I32(data, 0, endian), reconio.I32(data, 4, endian)}
						cellMax = &v
					}
				default:
					decodeFallbackSubrecord(ctx, &w.Common, rectag.TagWorldspace, sr.Tag, data, endian)
				}
			}
			if cellMin != nil && cellMax != nil {
				w.CellRangeBounds = &model.GridBounds{MinX: cellMin[0], MinY: cellMin[1], MaxX: cellMax[0], MaxY: cellMax[1]}
				w.WorldUnitBounds = &model.UnitBounds{
					MinX: float32(cellMin[0]) * 4096, MinY: float32(cellMin[1]) * 4096,
					MaxX: float32(cellMax[0]) * 4096, MaxY: float32(cellMax[1]) * 4096,
				}
			}
		}
		finalizeCommon(&w.Common, ctx.Index)
		out = append(out, w)
	}
	return out, tel
}

// InferCellWorldspaces assigns exterior cells lacking an explicit mapping
// to a worldspace by point-in-box test against each worldspace's cell-grid
// bounding box (preferring the explicit cell range over the world-unit
// range at 4096 units/cell), breaking ties by largest area. If no
// worldspace has any bounds data, every exterior cell goes to the first
// worldspace (spec.md §4.6).
func InferCellWorldspaces(cells []*model.Cell, worldspaces []*model.Worldspace) {
	if len(worldspaces) == 0 {
		return
	}

	type box struct {
		ws     *model.Worldspace
		bounds model.GridBounds
	}
	var boxes []box
	anyBounds := false
	for _, ws := range worldspaces {
		if ws.CellRangeBounds != nil {
			boxes = append(boxes, box{ws, *ws.CellRangeBounds})
			anyBounds = true
		} else if ws.WorldUnitBounds != nil {
			b := ws.WorldUnitBounds
			boxes = append(boxes, box{ws, model.GridBounds{
				MinX: int32(b.MinX / 4096), MinY: int32(b.MinY / 4096),
				MaxX: int32(b.MaxX / 4096), MaxY: int32(b.MaxY / 4096),
			}})
			anyBounds = true
		}
	}

	for _, c := range cells {
		if c.IsInterior || c.WorldspaceFormID != nil || c.GridX == nil || c.GridY == nil {
			continue
		}
		if !anyBounds {
			c.WorldspaceFormID = model.SomeFormID(worldspaces[0].FormID)
			continue
		}
		var best *box
		for i := range boxes {
			b := &boxes[i]
			if *c.GridX < b.bounds.MinX || *c.GridX > b.bounds.MaxX || *c.GridY < b.bounds.MinY || *c.GridY > b.bounds.MaxY {
				continue
			}
			if best == nil || b.bounds.Area() > best.bounds.Area() {
				best = b
			}
		}
		if best != nil {
			c.WorldspaceFormID = model.SomeFormID(best.ws.FormID)
		}
	}
}

// LinkCellsToWorldspaces is the inverse direction of InferCellWorldspaces:
// every cell whose WorldspaceFormID is set is appended to that
// worldspace's CellFormIDs, maintaining spec.md §8's cell-linkage
// invariant (every linked cell appears in exactly one worldspace's list).
func LinkCellsToWorldspaces(cells []*model.Cell, worldspaces []*model.Worldspace) {
	byID := make(map[reccore.FormID]*model.Worldspace, len(worldspaces))
	for _, ws := range worldspaces {
		byID[ws.FormID] = ws
	}
	seen := make(map[reccore.FormID]bool)
	for _, c := range cells {
		if c.WorldspaceFormID == nil {
			continue
		}
		if seen[c.FormID] {
			continue
		}
		if ws, ok := byID[*c.WorldspaceFormID]; ok {
			ws.CellFormIDs = append(ws.CellFormIDs, c.FormID)
			seen[c.FormID] = true
		}
	}
}

// VirtualCellGridSize is the world-unit size of one virtual-cell grid
// square (spec.md §4.6 "Virtual cells").
const VirtualCellGridSize = 4096.0

// CreateVirtualCells groups placed references whose base cell is unknown
// by world position into synthetic cells (spec.md §4.6, Scenario F).
// refs is every placed reference considered for grouping; callers pass
// only those with CellFormID unset.
func CreateVirtualCells(refs []*model.PlacedReference) []*model.Cell {
	type gridKey struct{ x, y int32 }
	groups := make(map[gridKey][]*model.PlacedReference)
	var order []gridKey
	for _, r := range refs {
		if r.CellFormID != nil || !r.OrphanCandidate() {
			continue
		}
		gx := floorDiv(r.Position.X, VirtualCellGridSize)
		gy := floorDiv(r.Position.Y, VirtualCellGridSize)
		k := gridKey{gx, gy}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	var out []*model.Cell
	for i, k := range order {
		formID := reccore.SyntheticFormIDBase + reccore.FormID(i+1)
		editorID := virtualCellEditorID(k.x, k.y)
		refIDs := make([]reccore.FormID, 0, len(groups[k]))
		for _, r := range groups[k] {
			refIDs = append(refIDs, r.FormID)
			r.CellFormID = model.SomeFormID(formID)
		}
		out = append(out, &model.Cell{
			Common: model.Common{
				FormID:    formID,
				EditorID:  &editorID,
				FromImage: false,
			},
			IsInterior:             false,
			GridX:                  &k.x,
			GridY:                  &k.y,
			PlacedReferenceFormIDs: refIDs,
			Virtual:                true,
		})
	}
	return out
}

func floorDiv(v float32, step float32) int32 {
	q := v / step
	f := int32(q)
	if q < 0 && float32(f) != q {
		f--
	}
	return f
}

func virtualCellEditorID(x, y int32) string {
	return "[Virtual " + itoa(x) + "," + itoa(y) + "]"
}

func itoa(v int32) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// EnrichPlacedReferences carries each placed reference's cross-references
// in from the scanner's per-reference scan data (position, rotation,
// scale, base object, cell, enable-parent, marker flag), since those
// fields are supplied by the scanner rather than read from a generic
// subrecord walk here (spec.md §6).
func EnrichPlacedReferences(headers []reconio.MainRecordHeader, scans map[reccore.FormID]scankit.PlacedReferenceScan, idx *formindex.Index) []*model.PlacedReference {
	var out []*model.PlacedReference
	for _, h := range headers {
		p := &model.PlacedReference{Common: baseCommon(h, true)}
		if s, ok := scans[h.FormID]; ok {
			p.Shallow = false
			if s.BaseFormID.Valid() {
				p.BaseFormID = model.SomeFormID(s.BaseFormID)
			}
			if s.CellFormID.Valid() {
				p.CellFormID = model.SomeFormID(s.CellFormID)
			}
			p.Position = s.Position
			p.Rotation = s.Rotation
			p.Scale = s.Scale
			if s.EnableParentFormID.Valid() {
				p.EnableParentFormID = model.SomeFormID(s.EnableParentFormID)
			}
			p.IsMarker = s.IsMarker
		}
		finalizeCommon(&p.Common, idx)
		out = append(out, p)
	}
	return out
}

// ReconstructTerrainHeightmaps implements C6 for LAND records: resolves a
// cell's heightmap via (worldspace-id, gridX, gridY), with a (0, gridX,
// gridY) fallback to cover dump-mode input where the worldspace isn't
// known directly (spec.md §4.6).
func ReconstructTerrainHeightmaps(headers []reconio.MainRecordHeader, scans map[reccore.FormID]scankit.TerrainScan, idx *formindex.Index) []*model.TerrainHeightmap {
	var out []*model.TerrainHeightmap
	for _, h := range headers {
		t := &model.TerrainHeightmap{Common: baseCommon(h, true)}
		if s, ok := scans[h.FormID]; ok {
			t.Shallow = false
			t.GridX, t.GridY = s.GridX, s.GridY
			t.Heights = s.Heights
			if s.WorldspaceFormID.Valid() {
				t.WorldspaceFormID = model.SomeFormID(s.WorldspaceFormID)
			}
		}
		finalizeCommon(&t.Common, idx)
		out = append(out, t)
	}
	return out
}

// TerrainKey is the (worldspace-id, gridX, gridY) lookup key for
// ResolveCellTerrain.
type TerrainKey struct {
	Worldspace   reccore.FormID
	GridX, GridY int32
}

// ResolveCellTerrain links each cell to its terrain heightmap, falling
// back to worldspace 0 for dump-mode input (spec.md §4.6).
func ResolveCellTerrain(cells []*model.Cell, terrain []*model.TerrainHeightmap) {
	index := make(map[TerrainKey]reccore.FormID, len(terrain))
	for _, t := range terrain {
		var ws reccore.FormID
		if t.WorldspaceFormID != nil {
			ws = *t.WorldspaceFormID
		}
		index[TerrainKey{ws, t.GridX, t.GridY}] = t.FormID
	}
	for _, c := range cells {
		if c.IsInterior || c.GridX == nil || c.GridY == nil {
			continue
		}
		var ws reccore.FormID
		if c.WorldspaceFormID != nil {
			ws = *c.WorldspaceFormID
		}
		if id, ok := index[TerrainKey{ws, *c.GridX, *c.GridY}]; ok {
			c.TerrainFormID = model.SomeFormID(id)
			continue
		}
		if id, ok := index[TerrainKey{0, *c.GridX, *c.GridY}]; ok {
			c.TerrainFormID = model.SomeFormID(id)
		}
	}
}
