package formindex

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

func TestCorrelateEditorIDsAttributesToContainingRecord(t *testing.T) {
	ranges := []RecordRange{
		{FormID: 1, Start: 100, End: 200},
		{FormID: 2, Start: 200, End: 300},
	}
	markers := []EditorIDMarker{
		{Offset: 150, Text: "FirstEDID"},
		{Offset: 250, Text: "SecondEDID"},
		{Offset: 50, Text: "Orphan"},  // before any record: dropped
		{Offset: 300, Text: "OffEnd"}, // exactly at the exclusive end: dropped
	}

	got := CorrelateEditorIDs(ranges, markers)
	want := map[reccore.FormID]string{1: "FirstEDID", 2: "SecondEDID"}

	if len(got) != len(want) {
		t.Fatalf("CorrelateEditorIDs returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for form, text := range want {
		if got[form] != text {
			t.Errorf("form %v: got %q, want %q", form, got[form], text)
		}
	}
}

func TestCorrelateEditorIDsFirstMarkerWinsPerRecord(t *testing.T) {
	ranges := []RecordRange{{FormID: 1, Start: 0, End: 100}}
	markers := []EditorIDMarker{
		{Offset: 10, Text: "First"},
		{Offset: 20, Text: "Second"},
	}

	got := CorrelateEditorIDs(ranges, markers)
	if got[1] != "First" {
		t.Errorf("got %q, want %q (first marker within a record should win)", got[1], "First")
	}
}

func TestCorrelateEditorIDsUnorderedRanges(t *testing.T) {
	// Ranges arrive out of Start order; CorrelateEditorIDs must sort them
	// itself before binary-searching.
	ranges := []RecordRange{
		{FormID: 2, Start: 200, End: 300},
		{FormID: 1, Start: 0, End: 100},
	}
	markers := []EditorIDMarker{{Offset: 250, Text: "EDID"}}

	got := CorrelateEditorIDs(ranges, markers)
	if got[2] != "EDID" {
		t.Errorf("got %v, want form 2 -> EDID", got)
	}
}
