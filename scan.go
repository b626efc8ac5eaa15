package semrecon

import (
	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

// ScanResult is the structured summary produced by a separate low-level
// scanner pass and consumed, read-only, by this engine (spec.md §6). It is
// an external collaborator's output type, not something this engine builds
// for itself.
type ScanResult struct {
	// Headers is every detected main record header, across every kind.
	Headers []reconio.MainRecordHeader

	// EditorIDMarkers is every detected EDID subrecord location, used by
	// C5 source 1 (spec.md §4.5).
	EditorIDMarkers []formindex.EditorIDMarker

	// Correlations is the caller-supplied form-id -> editor-id map, C5
	// source 2 (spec.md §4.5).
	Correlations map[reccore.FormID]string

	// PlacedReferences carries the scanner's best-effort position/
	// rotation/scale/enable-parent/marker data for REFR-tagged headers,
	// keyed by form-id, since that data may come from a source separate
	// from the generic subrecord walk (e.g. a runtime object table scan in
	// dump mode).
	PlacedReferences map[reccore.FormID]PlacedReferenceScan

	// TerrainRecords carries the scanner's best-guess cell coordinates and
	// optional heightmap blob for LAND-tagged headers.
	TerrainRecords map[reccore.FormID]TerrainScan

	// RuntimeEntries is the captured runtime hash table, or nil if no
	// memory dump / RuntimeReader is available.
	RuntimeEntries []RuntimeEntry

	// CellRefGroups is the GRUP-derived cell-id -> [ref-id] map, present
	// when the input is a file-mode image with intact groups (spec.md §6).
	CellRefGroups map[reccore.FormID][]reccore.FormID

	// TopicLineGroups is the GRUP-derived topic-id -> [line-id] map.
	TopicLineGroups map[reccore.FormID][]reccore.FormID

	// LandWorldspaceGroups maps a LAND record's form-id to its owning
	// worldspace, when the scanner could determine it directly.
	LandWorldspaceGroups map[reccore.FormID]reccore.FormID
}

// PlacedReferenceScan is the scanner-supplied data for one placed
// reference, ahead of this engine's own subrecord decoding. Defined in
// package scankit alongside RuntimeEntry, for the same import-cycle reason;
// re-exported here so callers only need to import the root package.
type PlacedReferenceScan = scankit.PlacedReferenceScan

// TerrainScan is the scanner-supplied data for one terrain record.
type TerrainScan = scankit.TerrainScan

// RecordsOfKind returns every detected header whose tag matches tag, in
// scan order (spec.md §5's ordering guarantee: image-sourced records are
// emitted in input/scan-result order).
func (sr *ScanResult) RecordsOfKind(tag reccore.Tag) []reconio.MainRecordHeader {
	var out []reconio.MainRecordHeader
	for _, h := range sr.Headers {
		if h.Tag == tag {
			out = append(out, h)
		}
	}
	return out
}

// RuntimeEntriesOfKind returns every runtime entry whose kind-code matches
// any of codes, in runtime-table order.
func (sr *ScanResult) RuntimeEntriesOfKind(codes ...int32) []RuntimeEntry {
	set := make(map[int32]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	var out []RuntimeEntry
	for _, e := range sr.RuntimeEntries {
		if set[e.KindCode] {
			out = append(out, e)
		}
	}
	return out
}

// RecordRanges builds the (form-id, byte-range) list CorrelateEditorIDs
// needs, from the detected headers.
func (sr *ScanResult) RecordRanges() []formindex.RecordRange {
	out := make([]formindex.RecordRange, 0, len(sr.Headers))
	for _, h := range sr.Headers {
		out = append(out, formindex.RecordRange{
			FormID: h.FormID,
			Start:  h.Offset + reconio.MainRecordHeaderLen,
			End:    h.Offset + reconio.MainRecordHeaderLen + uint64(h.DataSize),
		})
	}
	return out
}
