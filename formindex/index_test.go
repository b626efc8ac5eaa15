package formindex

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

func TestTryAddEditorIDFirstWriteWins(t *testing.T) {
	idx := New()
	if !idx.TryAddEditorID(1, "First") {
		t.Fatal("first write should succeed")
	}
	if idx.TryAddEditorID(1, "Second") {
		t.Fatal("second write to the same form-id should be rejected")
	}
	got, ok := idx.EditorID(1)
	if !ok || got != "First" {
		t.Errorf("EditorID(1) = %q, %v, want %q, true", got, ok, "First")
	}
}

func TestTryAddEditorIDRejectsZeroFormOrEmptyName(t *testing.T) {
	idx := New()
	if idx.TryAddEditorID(0, "Whatever") {
		t.Error("zero form-id should be rejected")
	}
	if idx.TryAddEditorID(2, "") {
		t.Error("empty editor-id should be rejected")
	}
}

func TestAddCorrelationsFirstWriteWinsAcrossCalls(t *testing.T) {
	idx := New()
	err := idx.AddCorrelations(map[reccore.FormID]string{1: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Build a batch that disagrees with itself about form-id 2 by calling
	// through a map literal is impossible (maps can't hold two entries for
	// the same key), so exercise the check via two separate calls instead:
	// the first insertion wins, the second is silently dropped, matching
	// the forward TryAdd semantics rather than raising an error.
	if err := idx.AddCorrelations(map[reccore.FormID]string{2: "B"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.AddCorrelations(map[reccore.FormID]string{2: "C"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := idx.EditorID(2)
	if got != "B" {
		t.Errorf("EditorID(2) = %q, want %q (first write wins across calls)", got, "B")
	}
}

func TestFormIDByEditorIDCaseInsensitiveFirstWriteWins(t *testing.T) {
	idx := New()
	idx.TryAddEditorID(1, "PlayerRef")
	idx.TryAddEditorID(2, "playerref")

	form, ok := idx.FormIDByEditorID("PLAYERREF")
	if !ok {
		t.Fatal("expected a case-insensitive match")
	}
	if form != 1 {
		t.Errorf("FormIDByEditorID collision resolved to %v, want 1 (first-seen form-id order)", form)
	}
}

func TestAddWellKnownDoesNotOverrideImageDerivedID(t *testing.T) {
	idx := New()
	idx.TryAddEditorID(0x00000014, "CustomPlayerRefID")
	idx.AddWellKnown()

	got, _ := idx.EditorID(0x00000014)
	if got != "CustomPlayerRefID" {
		t.Errorf("AddWellKnown overrode an existing editor-id: got %q", got)
	}

	got, ok := idx.EditorID(0x00000007)
	if !ok || got != "Player" {
		t.Errorf("EditorID(0x7) = %q, %v, want %q, true", got, ok, "Player")
	}
}

func TestEditorIDMapIsDefensiveCopy(t *testing.T) {
	idx := New()
	idx.TryAddEditorID(1, "A")
	m := idx.EditorIDMap()
	m[1] = "Tampered"

	got, _ := idx.EditorID(1)
	if got != "A" {
		t.Errorf("mutating the returned map affected the index: got %q", got)
	}
}
