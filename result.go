package semrecon

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/scankit"
)

// TelemetryEvent is one recoverable-failure record: a truncation, a failed
// decompression, a decompile failure, or a malformed subrecord (spec.md
// §7). These are expected, high-frequency events on corrupt or
// partially-captured input, so they are collected here rather than logged
// (see SPEC_FULL.md §0). Defined in package scankit so handler packages can
// emit them without importing the root package; re-exported here.
type TelemetryEvent = scankit.TelemetryEvent

// SemanticReconstructionResult is the engine's output (spec.md §6): one
// slot per record kind, the identifier index maps, the dialogue tree, and
// summary counters.
type SemanticReconstructionResult struct {
	NPCs      []*model.NPC
	Creatures []*model.Creature
	Races     []*model.Race
	Factions  []*model.Faction

	Weapons     []*model.Weapon
	Ammo        []*model.Ammo
	Armors      []*model.Armor
	Consumables []*model.Consumable
	MiscItems   []*model.Misc
	KeyItems    []*model.KeyItem
	Containers  []*model.Container

	Cells             []*model.Cell
	Worldspaces       []*model.Worldspace
	PlacedReferences  []*model.PlacedReference
	TerrainHeightmaps []*model.TerrainHeightmap
	NavMeshes         []*model.NavMesh
	Weathers          []*model.Weather
	LightingTemplates []*model.LightingTemplate

	Perks        []*model.Perk
	Spells       []*model.Spell
	BaseEffects  []*model.BaseEffect
	Enchantments []*model.Enchantment
	Projectiles  []*model.Projectile
	Explosions   []*model.Explosion

	Books     []*model.Book
	Notes     []*model.Note
	Terminals []*model.Terminal
	Messages  []*model.Message
	Scripts   []*model.Script
	Topics    []*model.DialogueTopic
	Lines     []*model.DialogueLine
	Quests    []*model.Quest

	GlobalVariables []*model.GlobalVariable
	GameSettings    []*model.GameSetting
	LeveledLists    []*model.LeveledList
	Classes         []*model.Class
	Challenges      []*model.Challenge
	Reputations     []*model.Reputation
	Recipes         []*model.Recipe
	WeaponMods      []*model.WeaponMod

	Statics         []*model.Static
	Furniture       []*model.Furniture
	Doors           []*model.Door
	Lights          []*model.Light
	Activators      []*model.Activator
	Sounds          []*model.Sound
	TextureSets     []*model.TextureSet
	ArmorAddons     []*model.ArmorAddon
	ActorValueInfos []*model.ActorValueInfo
	Waters          []*model.Water
	BodyPartData    []*model.BodyPartData
	CombatStyles    []*model.CombatStyle

	// EditorIDs and DisplayNames are the final form-id -> string maps
	// (spec.md §6). Every editor-id/display-name produced on an entity
	// above also appears here under the same form-id (spec.md §8 "Index
	// coverage").
	EditorIDs    map[reccore.FormID]string
	DisplayNames map[reccore.FormID]string

	DialogueTree model.DialogueForest

	TotalRecordsProcessed     int
	UnreconstructedTypeCounts map[string]int

	Telemetry []TelemetryEvent
}

// DialogueForest is the per-quest dialogue trees plus the orphan-topic
// bucket (spec.md §4.8 "Dialogue tree"). Defined in package model, since
// package xref (C8) builds it directly and the root package only carries
// the result; re-exported here for callers that only import the root
// package.
type DialogueForest = model.DialogueForest

// QuestDialogueTree is one quest's topics, sorted by priority descending
// then name (spec.md §4.8).
type QuestDialogueTree = model.QuestDialogueTree

// TopicNode is one topic and its lines, sorted by runtime info index
// (spec.md §4.8).
type TopicNode = model.TopicNode

// LineNode is one dialogue line within a TopicNode, with its cross-linked
// choice/add topics resolved to sibling TopicNodes' form-ids.
type LineNode = model.LineNode
