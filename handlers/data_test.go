package handlers

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
)

// TestReconstructLeveledListsScriptFormID exercises the SCRI subrecord on a
// leveled NPC list: rectag.ScriptOwningTags names LeveledNPC/LeveledCreature
// as script-owning kinds (spec.md §4.8), so the handler must capture it.
func TestReconstructLeveledListsScriptFormID(t *testing.T) {
	var buf []byte
	body := subrecord("SCRI", []byte{0x34, 0x12, 0x00, 0x00})
	h := buildRecord(&buf, rectag.TagLeveledNPC, 0xa000, body)

	ctx := newTestContext(&fakeAccessor{data: buf})
	out, _ := ReconstructLeveledLists(ctx, []reconio.MainRecordHeader{h}, rectag.TagLeveledNPC)

	if len(out) != 1 {
		t.Fatalf("got %d leveled lists, want 1", len(out))
	}
	if out[0].ScriptFormID == nil || *out[0].ScriptFormID != 0x1234 {
		t.Errorf("ScriptFormID = %v, want 0x1234", out[0].ScriptFormID)
	}
}
