// Package xref implements the cross-reference builder (C8): the
// object-to-script map, the variable database, the dialogue-linking
// cascade, and the final dialogue tree assembly. It runs after every
// handler and the runtime merger (package runtimemerge) have produced
// their slices, operating purely on those already-reconciled values
// (spec.md §4.8).
//
// Grounded on rep.Computed (icza/screp): a derived pass that runs after
// the primary parse, consuming the already-built command list to produce
// WinnerTeam/PlayerDescs. xref plays the same role here: a post-pass that
// derives a graph from already-built records rather than from raw bytes.
package xref

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
)

// ScriptOwnerRef is one object-form-id -> script-form-id pairing, the
// common shape every script-owning kind reduces to for CollectScriptOwners.
type ScriptOwnerRef struct {
	ObjectFormID reccore.FormID
	ScriptFormID reccore.FormID
}

// CollectScriptOwners extracts the ScriptOwnerRef list from one record
// kind's slice, given accessors for its form-id and (optional) script
// form-id fields. Used once per script-owning kind (spec.md §4.8's fixed
// list: NPC, creature, activator, container, door, furniture, weapon,
// armor, misc, book, consumable, key, ammunition, light, faction, quest)
// so package xref never needs to import or switch on each kind's own type.
func CollectScriptOwners[T any](items []T, formID func(T) reccore.FormID, script func(T) *reccore.FormID) []ScriptOwnerRef {
	var out []ScriptOwnerRef
	for _, it := range items {
		if s := script(it); s != nil {
			out = append(out, ScriptOwnerRef{ObjectFormID: formID(it), ScriptFormID: *s})
		}
	}
	return out
}

// PlacedRefBase is the minimal shape BuildObjectScriptMap needs from a
// placed reference: its own form-id and its base object's form-id.
type PlacedRefBase struct {
	FormID     reccore.FormID
	BaseFormID *reccore.FormID
}

// BuildObjectScriptMap assembles the object-form-id -> script-form-id map
// (spec.md §4.8 "Object-to-script map"). owners is the union of every
// script-owning kind's CollectScriptOwners output, collected after the
// runtime merger has already reconciled each kind's own ScriptFormID
// field -- so runtime-derived script references are already folded in by
// the time they reach this function, without xref needing a second,
// runtime-specific pass. placedRefs then extends the map so every placed
// reference inherits its base object's script.
func BuildObjectScriptMap(owners []ScriptOwnerRef, placedRefs []PlacedRefBase) map[reccore.FormID]reccore.FormID {
	m := make(map[reccore.FormID]reccore.FormID, len(owners))
	for _, o := range owners {
		if _, exists := m[o.ObjectFormID]; !exists {
			m[o.ObjectFormID] = o.ScriptFormID
		}
	}
	for _, p := range placedRefs {
		if p.BaseFormID == nil {
			continue
		}
		if script, ok := m[*p.BaseFormID]; ok {
			if _, exists := m[p.FormID]; !exists {
				m[p.FormID] = script
			}
		}
	}
	return m
}

// ApplyPlacedReferenceScripts sets each placed reference's ScriptFormID
// from objectScripts, since model.PlacedReference.ScriptFormID is always
// inherited from its base rather than read off the record itself.
func ApplyPlacedReferenceScripts(refs []*model.PlacedReference, objectScripts map[reccore.FormID]reccore.FormID) {
	for _, p := range refs {
		if p.BaseFormID == nil {
			continue
		}
		if script, ok := objectScripts[*p.BaseFormID]; ok {
			p.ScriptFormID = model.SomeFormID(script)
		}
	}
}

// byFormID indexes items keyed by a caller-supplied form-id accessor.
// Duplicated from runtimemerge's unexported helper of the same shape --
// both packages need it but neither exports one, matching the teacher's
// preference for small explicit helpers over a shared generics package.
func byFormID[T any](items []T, formID func(T) reccore.FormID) map[reccore.FormID]T {
	m := make(map[reccore.FormID]T, len(items))
	for _, it := range items {
		m[formID(it)] = it
	}
	return m
}
