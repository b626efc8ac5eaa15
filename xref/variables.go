package xref

import (
	"strings"

	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
)

// VariableDatabase maps a form-id to the script variables it should be
// considered to own, seeded from every script record and extended along
// the three inheritance paths plus the name-convention heuristic of
// spec.md §4.8 "Variable database".
type VariableDatabase map[reccore.FormID][]model.ScriptVariable

// BuildVariableDatabase implements spec.md §4.8 "Variable database" (also
// reused, unmodified, by scriptpipe's pass-2 decompiler per §4.9).
func BuildVariableDatabase(
	scripts []*model.Script,
	quests []*model.Quest,
	objectScripts map[reccore.FormID]reccore.FormID,
	placedRefs []*model.PlacedReference,
	idx *formindex.Index,
) VariableDatabase {
	db := make(VariableDatabase)

	// Seed: every script record's own variables, keyed by the script's own
	// form-id.
	scriptsByID := byFormID(scripts, func(s *model.Script) reccore.FormID { return s.FormID })
	for _, s := range scripts {
		if len(s.Variables) > 0 {
			db[s.FormID] = s.Variables
		}
	}

	// 1. Quest records whose owning-quest reference points to a script
	// inherit that script's variables.
	for _, q := range quests {
		if q.ScriptFormID == nil {
			continue
		}
		if s, ok := scriptsByID[*q.ScriptFormID]; ok && len(s.Variables) > 0 {
			db[q.FormID] = s.Variables
		}
	}

	// 2. Every object with an attached script inherits the script's
	// variables.
	for obj, script := range objectScripts {
		if _, exists := db[obj]; exists {
			continue
		}
		if s, ok := scriptsByID[script]; ok && len(s.Variables) > 0 {
			db[obj] = s.Variables
		}
	}

	// 3. Every placed reference inherits its base's variables.
	for _, p := range placedRefs {
		if p.BaseFormID == nil {
			continue
		}
		if vars, ok := db[*p.BaseFormID]; ok {
			if _, exists := db[p.FormID]; !exists {
				db[p.FormID] = vars
			}
		}
	}

	// 4. Name-convention heuristic: a placed reference whose editor-id
	// ends with "REF" links to a base whose editor-id is the same string
	// with that suffix removed.
	for _, p := range placedRefs {
		if _, exists := db[p.FormID]; exists {
			continue
		}
		editorID, ok := idx.EditorID(p.FormID)
		if !ok || !strings.HasSuffix(editorID, "REF") {
			continue
		}
		baseName := strings.TrimSuffix(editorID, "REF")
		baseForm, ok := idx.FormIDByEditorID(baseName)
		if !ok {
			continue
		}
		if vars, ok := db[baseForm]; ok {
			db[p.FormID] = vars
		}
	}

	return db
}

// Lookup implements the external-variable resolver C9's pass-2 decompiler
// needs: (owner-form-id, var-index) -> Option<name> (spec.md §4.9).
func (db VariableDatabase) Lookup(owner reccore.FormID, varIndex int32) (string, bool) {
	vars, ok := db[owner]
	if !ok {
		return "", false
	}
	for _, v := range vars {
		if v.Index == varIndex {
			return v.Name, true
		}
	}
	return "", false
}
