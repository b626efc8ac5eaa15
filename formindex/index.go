// Package formindex implements the identifier index (C5): a bidirectional
// form-id/editor-id mapping, an overlay of display names, and a small set
// of hardcoded engine-internal identifiers.
//
// Construction sources are merged in the order spec.md §4.5 lists them:
// editor-id subrecords parsed from the image, then caller-supplied
// correlations, then runtime table entries, then hardcoded identifiers.
// Every source uses TryAdd semantics: first write wins, later writes for
// the same form-id are silently discarded.
package formindex

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/vaultrecon/semrecon/model/reccore"
)

// Index is the owner of the form-id/editor-id/display-name mapping. The
// orchestrator owns one Index per ReconstructAll call; it is not safe for
// concurrent writes (the engine is single-threaded, per spec.md §5).
type Index struct {
	editorIDs   map[reccore.FormID]string
	displayNames map[reccore.FormID]string

	reverse     map[string]reccore.FormID // editor-id (lowercased) -> form-id
	reverseDirty bool
}

// New constructs an empty Index.
func New() *Index {
	return &Index{
		editorIDs:    make(map[reccore.FormID]string),
		displayNames: make(map[reccore.FormID]string),
		reverse:      make(map[string]reccore.FormID),
	}
}

// ErrDuplicateCorrelation is returned by AddCorrelations when the caller
// supplies two different editor-ids for the same form-id in one call; this
// is the one invariant violation in the identifier index that is rejected
// outright rather than silently resolved by first-write-wins (spec.md §7).
type ErrDuplicateCorrelation struct {
	FormID reccore.FormID
	First  string
	Second string
}

func (e *ErrDuplicateCorrelation) Error() string {
	return fmt.Sprintf("formindex: duplicate editor-id correlation for %v: %q vs %q", e.FormID, e.First, e.Second)
}

// TryAddEditorID records id as the editor-id of form, unless form already
// has one (first write wins). Returns true if the write took effect.
func (idx *Index) TryAddEditorID(form reccore.FormID, id string) bool {
	if !form.Valid() || id == "" {
		return false
	}
	if _, exists := idx.editorIDs[form]; exists {
		return false
	}
	idx.editorIDs[form] = id
	idx.reverseDirty = true
	return true
}

// TryAddDisplayName records name as the display name of form (first write
// wins).
func (idx *Index) TryAddDisplayName(form reccore.FormID, name string) bool {
	if !form.Valid() || name == "" {
		return false
	}
	if _, exists := idx.displayNames[form]; exists {
		return false
	}
	idx.displayNames[form] = name
	return true
}

// AddCorrelations merges caller-supplied form-id -> editor-id correlations
// (spec.md §4.5 source 2). Rejects the whole batch if it internally
// disagrees about one form-id's editor-id; otherwise applies TryAddEditorID
// for each entry.
func (idx *Index) AddCorrelations(correlations map[reccore.FormID]string) error {
	seen := make(map[reccore.FormID]string, len(correlations))
	for form, id := range correlations {
		if prev, ok := seen[form]; ok && prev != id {
			return &ErrDuplicateCorrelation{FormID: form, First: prev, Second: id}
		}
		seen[form] = id
	}
	for form, id := range correlations {
		idx.TryAddEditorID(form, id)
	}
	return nil
}

// wellKnownIdentifiers are the hardcoded engine-internal identifiers from
// spec.md §4.5 source 4 (e.g. the player reference).
var wellKnownIdentifiers = map[reccore.FormID]string{
	0x00000014: "PlayerRef",
	0x00000007: "Player",
}

// AddWellKnown injects the hardcoded engine-internal identifiers. Called
// once, last, by the orchestrator, so it never overrides an image- or
// runtime-derived editor-id.
func (idx *Index) AddWellKnown() {
	for form, id := range wellKnownIdentifiers {
		idx.TryAddEditorID(form, id)
	}
}

// EditorID returns the editor-id of form, if known.
func (idx *Index) EditorID(form reccore.FormID) (string, bool) {
	id, ok := idx.editorIDs[form]
	return id, ok
}

// DisplayName returns the display name of form, if known.
func (idx *Index) DisplayName(form reccore.FormID) (string, bool) {
	name, ok := idx.displayNames[form]
	return name, ok
}

// FormIDByEditorID resolves the reverse mapping, case-insensitively.
// Collisions among editor-ids that differ only by case resolve to the
// lowest form-id among them; the order in which editor-ids were written
// to the forward map is not recorded and plays no part. The reverse map is rebuilt lazily from the forward map to avoid
// staleness (spec.md §4.5).
func (idx *Index) FormIDByEditorID(editorID string) (reccore.FormID, bool) {
	idx.ensureReverse()
	form, ok := idx.reverse[strings.ToLower(editorID)]
	return form, ok
}

func (idx *Index) ensureReverse() {
	if !idx.reverseDirty && len(idx.reverse) > 0 {
		return
	}
	// Rebuild in form-id order so collisions resolve to the lowest form-id,
	// regardless of map iteration order.
	forms := lo.Keys(idx.editorIDs)
	sortFormIDs(forms)

	idx.reverse = make(map[string]reccore.FormID, len(forms))
	for _, form := range forms {
		key := strings.ToLower(idx.editorIDs[form])
		if _, exists := idx.reverse[key]; !exists {
			idx.reverse[key] = form
		}
	}
	idx.reverseDirty = false
}

func sortFormIDs(forms []reccore.FormID) {
	for i := 1; i < len(forms); i++ {
		for j := i; j > 0 && forms[j] < forms[j-1]; j-- {
			forms[j], forms[j-1] = forms[j-1], forms[j]
		}
	}
}

// EditorIDMap returns a defensive copy of the full form-id -> editor-id
// map, for assembly into the final result (spec.md §6).
func (idx *Index) EditorIDMap() map[reccore.FormID]string {
	return lo.Assign(map[reccore.FormID]string{}, idx.editorIDs)
}

// DisplayNameMap returns a defensive copy of the full form-id ->
// display-name map.
func (idx *Index) DisplayNameMap() map[reccore.FormID]string {
	return lo.Assign(map[reccore.FormID]string{}, idx.displayNames)
}
