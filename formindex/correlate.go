package formindex

import (
	"sort"

	"github.com/vaultrecon/semrecon/model/reccore"
)

// EditorIDMarker is one editor-id subrecord location detected by the
// scanner (spec.md §6's "detected subrecord markers of well-known tags").
type EditorIDMarker struct {
	Offset uint64
	Text   string
}

// RecordRange describes one main record's byte extent, used to correlate a
// marker to the record it belongs to.
type RecordRange struct {
	FormID reccore.FormID
	Start  uint64
	End    uint64 // exclusive
}

// CorrelateEditorIDs implements spec.md §4.5 source 1: each editor-id
// subrecord marker is attributed to the nearest preceding main record whose
// data range contains it. Markers outside every record's range are
// dropped — a defensive-only outcome, since the scanner is not expected to
// report markers it didn't find inside some record.
func CorrelateEditorIDs(ranges []RecordRange, markers []EditorIDMarker) map[reccore.FormID]string {
	sorted := append([]RecordRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make(map[reccore.FormID]string, len(markers))
	for _, m := range markers {
		if rr, ok := findContaining(sorted, m.Offset); ok {
			if _, exists := out[rr.FormID]; !exists {
				out[rr.FormID] = m.Text
			}
		}
	}
	return out
}

// findContaining binary-searches sorted (by Start) for the last range whose
// Start <= offset, then checks it actually contains offset.
func findContaining(sorted []RecordRange, offset uint64) (RecordRange, bool) {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].Start > offset })
	if i == 0 {
		return RecordRange{}, false
	}
	rr := sorted[i-1]
	if offset >= rr.Start && offset < rr.End {
		return rr, true
	}
	return RecordRange{}, false
}
