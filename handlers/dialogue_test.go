package handlers

import (
	"testing"

	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/schema"
)

// fakeAccessor is a minimal in-memory ByteAccessor for handler tests.
type fakeAccessor struct {
	data []byte
}

func (f *fakeAccessor) Read(dst []byte, srcOffset uint64) (int, error) {
	if srcOffset >= uint64(len(f.data)) {
		return 0, nil
	}
	return copy(dst, f.data[srcOffset:]), nil
}

func (f *fakeAccessor) ImageLength() uint64 { return uint64(len(f.data)) }

func subrecord(tag string, data []byte) []byte {
	out := make([]byte, 6)
	copy(out, tag)
	out[4] = byte(len(data))
	out[5] = byte(len(data) >> 8)
	return append(out, data...)
}

// buildRecord prepends a dummy 24-byte main-record header (never read by
// ReadRecordData's body window) to body and returns a MainRecordHeader
// pointing at it within buf.
func buildRecord(buf *[]byte, tag reccore.Tag, form reccore.FormID, body []byte) reconio.MainRecordHeader {
	offset := uint64(len(*buf))
	*buf = append(*buf, make([]byte, reconio.MainRecordHeaderLen)...)
	*buf = append(*buf, body...)
	return reconio.MainRecordHeader{Tag: tag, FormID: form, Offset: offset, DataSize: uint32(len(body))}
}

func newTestContext(accessor reconio.ByteAccessor) *Context {
	return &Context{Accessor: accessor, Index: formindex.New(), Registry: schema.Default}
}

// TestReconstructDialogueLinesMergesSplitFragments exercises spec.md
// Scenario D: two image records sharing one form-id, one carrying only the
// speaker and the other only the response text, merge into a single line.
func TestReconstructDialogueLinesMergesSplitFragments(t *testing.T) {
	var buf []byte

	speakerBody := subrecord("ANAM", []byte{0xc0, 0x2f, 0x01, 0x00}) // 0x00012fc0, little-endian
	h1 := buildRecord(&buf, reccore.NewTag("INFO"), 0x000a3310, speakerBody)

	var responseBody []byte
	responseBody = append(responseBody, subrecord("NAM1", append([]byte("I can help."), 0))...)
	responseBody = append(responseBody, subrecord("TRDT", []byte{0, 0, 0, 0, 0, 0, 0, 0})...)
	h2 := buildRecord(&buf, reccore.NewTag("INFO"), 0x000a3310, responseBody)

	ctx := newTestContext(&fakeAccessor{data: buf})
	lines, _ := ReconstructDialogueLines(ctx, []reconio.MainRecordHeader{h1, h2})

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (the two fragments should merge by form-id)", len(lines))
	}
	line := lines[0]
	if line.SpeakerFormID == nil || *line.SpeakerFormID != 0x00012fc0 {
		t.Errorf("SpeakerFormID = %v, want 0x00012fc0", line.SpeakerFormID)
	}
	if len(line.Responses) != 1 || line.Responses[0].Text != "I can help." {
		t.Fatalf("Responses = %+v, want one response %q", line.Responses, "I can help.")
	}
}

// TestReconstructDialogueLinesUniqueFormIDs exercises invariant 8 (topic
// merge): after merging split fragments, no two lines share a form-id, even
// when three-or-more fragments reference the same form-id.
func TestReconstructDialogueLinesUniqueFormIDs(t *testing.T) {
	var buf []byte
	h1 := buildRecord(&buf, reccore.NewTag("INFO"), 0x7000, subrecord("ANAM", []byte{1, 0, 0, 0}))
	h2 := buildRecord(&buf, reccore.NewTag("INFO"), 0x7000, subrecord("VNAM", []byte{2, 0, 0, 0}))
	h3 := buildRecord(&buf, reccore.NewTag("INFO"), 0x7000, subrecord("FNAM", []byte{3, 0, 0, 0}))
	h4 := buildRecord(&buf, reccore.NewTag("INFO"), 0x8000, subrecord("ANAM", []byte{4, 0, 0, 0}))

	ctx := newTestContext(&fakeAccessor{data: buf})
	lines, _ := ReconstructDialogueLines(ctx, []reconio.MainRecordHeader{h1, h2, h3, h4})

	seen := make(map[reccore.FormID]bool)
	for _, l := range lines {
		if seen[l.FormID] {
			t.Fatalf("form-id %v appears on more than one line", l.FormID)
		}
		seen[l.FormID] = true
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

// TestReconstructDialogueLinesMergeIdempotent exercises the round-trip law
// MergeSplitInfoRecords(xs + xs) = MergeSplitInfoRecords(xs) for duplicated
// fragments sharing a form-id.
func TestReconstructDialogueLinesMergeIdempotent(t *testing.T) {
	var buf []byte
	var body []byte
	body = append(body, subrecord("NAM1", append([]byte("I can help."), 0))...)
	body = append(body, subrecord("TRDT", []byte{0, 0, 0, 0, 0, 0, 0, 0})...)
	h := buildRecord(&buf, reccore.NewTag("INFO"), 0x9000, body)

	ctx := newTestContext(&fakeAccessor{data: buf})
	once, _ := ReconstructDialogueLines(ctx, []reconio.MainRecordHeader{h})
	twice, _ := ReconstructDialogueLines(ctx, []reconio.MainRecordHeader{h, h})

	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("got %d/%d lines, want 1/1", len(once), len(twice))
	}
	if len(once[0].Responses) != 1 {
		t.Fatalf("once: got %d responses, want 1", len(once[0].Responses))
	}
	if len(twice[0].Responses) != 1 {
		t.Fatalf("duplicated fragments produced %d responses, want 1 (MergeSplitInfoRecords(xs+xs) must equal MergeSplitInfoRecords(xs))", len(twice[0].Responses))
	}
	if once[0].Responses[0].Text != twice[0].Responses[0].Text {
		t.Errorf("duplicated fragments changed the merged result: %v vs %v", once[0].Responses[0].Text, twice[0].Responses[0].Text)
	}
}
