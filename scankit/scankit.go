// Package scankit holds the scan-result and runtime-reader value types
// shared between the root package and the handlers/runtimemerge/xref
// subpackages (C6-C8). They live here, rather than in the root package,
// so the handler packages can depend on them without the root package's
// orchestrator creating an import cycle back into handlers -- the same
// reason the teacher keeps repcore's shared value types (Player, Race,
// PIDPlayers) in their own leaf package instead of on *rep.Replay itself.
package scankit

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
)

// RuntimeEntry is one entry from the captured runtime hash table (spec.md
// §6).
type RuntimeEntry struct {
	FormID        reccore.FormID
	KindCode      int32
	EditorID      string
	TESFormOffset uint64
	DisplayName   string
}

// ProjectilePhysics is the live physics sub-object of a PROJ runtime entry.
type ProjectilePhysics struct {
	Speed   float32
	Gravity float32
}

// QuestInfoList is one (quest, [info pointer]) tuple from a topic's live
// linked list (spec.md §6).
type QuestInfoList struct {
	QuestFormID  reccore.FormID
	InfoPointers []uint64
}

// RuntimeReader reads live C++ objects at an offset given a descriptor. It
// is optional: a nil RuntimeReader simply means C7's runtime merger never
// runs, and every entity is image-sourced only (spec.md §1, §6).
type RuntimeReader interface {
	ReadRuntimeWeapon(entry RuntimeEntry) (*model.Weapon, bool)
	ReadRuntimeNPC(entry RuntimeEntry) (*model.NPC, bool)
	ReadRuntimeCreature(entry RuntimeEntry) (*model.Creature, bool)
	ReadRuntimeContainer(entry RuntimeEntry) (*model.Container, bool)
	ReadRuntimeScript(entry RuntimeEntry) (*model.Script, bool)
	ReadRuntimeDialogTopic(entry RuntimeEntry) (*model.DialogueTopic, bool)
	ReadRuntimeDialogueInfo(entry RuntimeEntry) (*model.DialogueLine, bool)

	// ReadProjectilePhysics materializes the physics sub-object of a
	// projectile at offset.
	ReadProjectilePhysics(offset uint64, form reccore.FormID) (*ProjectilePhysics, bool)

	// WalkTopicQuestInfoList follows a DialogueTopic's live linked list of
	// (quest, [info pointer]) entries (spec.md §4.6 "Dialogue topic /
	// dialogue line").
	WalkTopicQuestInfoList(entry RuntimeEntry) []QuestInfoList

	// ReadDialogueInfoFromVA materializes a DialogueLine from a raw virtual
	// address encountered while walking a topic's linked list.
	ReadDialogueInfoFromVA(va uint64) (*model.DialogueLine, bool)

	// ReadBSStringT reads one BSStringT-shaped inline string field.
	ReadBSStringT(baseOffset, fieldOffset uint64) (string, bool)

	// ReadAllRuntimeLandData reads every requested LAND entry's live
	// heightmap data in one batch call (batched because this is the one
	// RuntimeReader method the engine calls with more than one entry at a
	// time, per spec.md §6).
	ReadAllRuntimeLandData(entries []RuntimeEntry) map[reccore.FormID]*model.TerrainHeightmap

	// DialogueInfoFallbackKindCode returns the build-specific runtime
	// kind-code C7 should also treat as a dialogue-line entry, alongside
	// the ordinary DialogueLine kind-code in model/rectag.Kinds. spec.md §9
	// flags this value ("0x45") as something an implementer must
	// re-verify rather than trust blindly; sourcing it from the
	// RuntimeReader instead of a constant means a caller targeting a
	// different build supplies its own verified value.
	DialogueInfoFallbackKindCode() int32
}

// TelemetryEvent is one recoverable-failure record: a truncation, a failed
// decompression, a decompile failure, or a malformed subrecord (spec.md
// §7). These are expected, high-frequency events on corrupt or
// partially-captured input, so handlers collect them here rather than
// logging them (see SPEC_FULL.md §0).
type TelemetryEvent struct {
	Kind    string // e.g. "truncation", "decompression-failure", "decompile-failure", "malformed-subrecord"
	FormID  reccore.FormID
	Message string
}

// PlacedReferenceScan is the scanner-supplied data for one placed
// reference, ahead of this engine's own subrecord decoding.
type PlacedReferenceScan struct {
	BaseFormID         reccore.FormID
	CellFormID         reccore.FormID // zero if unknown (dump mode)
	Position           *reccore.Point3
	Rotation           *reccore.Rotation
	Scale              *float32
	EnableParentFormID reccore.FormID
	IsMarker           bool
}

// TerrainScan is the scanner-supplied data for one terrain record.
type TerrainScan struct {
	WorldspaceFormID reccore.FormID // zero if unknown
	GridX, GridY     int32
	Heights          []byte
}
