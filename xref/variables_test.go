package xref

import (
	"testing"

	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
)

func TestBuildVariableDatabaseSeedsFromScriptRecords(t *testing.T) {
	script := &model.Script{
		Common:    model.Common{FormID: 0x100},
		Variables: []model.ScriptVariable{{Index: 0, Name: "myVar", IsInteger: true}},
	}
	db := BuildVariableDatabase([]*model.Script{script}, nil, nil, nil, formindex.New())

	name, ok := db.Lookup(0x100, 0)
	if !ok || name != "myVar" {
		t.Errorf("Lookup(0x100, 0) = %q, %v, want %q, true", name, ok, "myVar")
	}
}

func TestBuildVariableDatabaseQuestInheritsScriptVariables(t *testing.T) {
	script := &model.Script{
		Common:    model.Common{FormID: 0x100},
		Variables: []model.ScriptVariable{{Index: 0, Name: "questVar"}},
	}
	quest := &model.Quest{
		Common:       model.Common{FormID: 0x200},
		ScriptFormID: model.SomeFormID(0x100),
	}

	db := BuildVariableDatabase([]*model.Script{script}, []*model.Quest{quest}, nil, nil, formindex.New())

	name, ok := db.Lookup(0x200, 0)
	if !ok || name != "questVar" {
		t.Errorf("quest should inherit its script's variables: got %q, %v", name, ok)
	}
}

func TestBuildVariableDatabaseObjectInheritsAttachedScript(t *testing.T) {
	script := &model.Script{
		Common:    model.Common{FormID: 0x100},
		Variables: []model.ScriptVariable{{Index: 0, Name: "objVar"}},
	}
	objectScripts := map[reccore.FormID]reccore.FormID{0x300: 0x100}

	db := BuildVariableDatabase([]*model.Script{script}, nil, objectScripts, nil, formindex.New())

	name, ok := db.Lookup(0x300, 0)
	if !ok || name != "objVar" {
		t.Errorf("object should inherit its attached script's variables: got %q, %v", name, ok)
	}
}

// TestBuildVariableDatabasePlacedRefInheritsBase exercises the scenario
// where a placed reference has no script of its own and must inherit its
// base object's variable set.
func TestBuildVariableDatabasePlacedRefInheritsBase(t *testing.T) {
	script := &model.Script{
		Common:    model.Common{FormID: 0x100},
		Variables: []model.ScriptVariable{{Index: 0, Name: "baseVar"}},
	}
	objectScripts := map[reccore.FormID]reccore.FormID{0x300: 0x100}
	ref := &model.PlacedReference{
		Common:     model.Common{FormID: 0x400},
		BaseFormID: model.SomeFormID(0x300),
	}

	db := BuildVariableDatabase([]*model.Script{script}, nil, objectScripts, []*model.PlacedReference{ref}, formindex.New())

	name, ok := db.Lookup(0x400, 0)
	if !ok || name != "baseVar" {
		t.Errorf("placed ref should inherit its base's variables: got %q, %v", name, ok)
	}
}

func TestBuildVariableDatabaseNameConventionHeuristic(t *testing.T) {
	script := &model.Script{
		Common:    model.Common{FormID: 0x100},
		Variables: []model.ScriptVariable{{Index: 0, Name: "heuristicVar"}},
	}
	objectScripts := map[reccore.FormID]reccore.FormID{0x300: 0x100}
	// The placed ref has no BaseFormID at all, forcing the name-convention
	// fallback: its editor-id "MyThingREF" should resolve to the base
	// editor-id "MyThing".
	ref := &model.PlacedReference{Common: model.Common{FormID: 0x400}}

	idx := formindex.New()
	idx.TryAddEditorID(0x300, "MyThing")
	idx.TryAddEditorID(0x400, "MyThingREF")

	db := BuildVariableDatabase([]*model.Script{script}, nil, objectScripts, []*model.PlacedReference{ref}, idx)

	name, ok := db.Lookup(0x400, 0)
	if !ok || name != "heuristicVar" {
		t.Errorf("name-convention heuristic should have linked 0x400 -> 0x300's script: got %q, %v", name, ok)
	}
}

func TestBuildVariableDatabaseLookupMissingOwner(t *testing.T) {
	db := BuildVariableDatabase(nil, nil, nil, nil, formindex.New())
	if _, ok := db.Lookup(0xDEAD, 0); ok {
		t.Error("Lookup for an unknown owner should return ok=false")
	}
}
