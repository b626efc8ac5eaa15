package model

import "github.com/vaultrecon/semrecon/model/reccore"

// NPC is a reconstructed non-player-character base record.
type NPC struct {
	Common

	RaceFormID    OptionFormID
	FactionFormID OptionFormID
	ScriptFormID  OptionFormID

	Level      *int16
	BaseHealth *int32

	Stats *ActorStats `json:",omitempty"`
}

// Creature is a reconstructed creature base record.
type Creature struct {
	Common

	FactionFormID OptionFormID
	ScriptFormID  OptionFormID

	BaseHealth *int32
	CombatSkill *int8
}

// ActorStats holds the optional SPECIAL/skill block shared by NPCs and
// (partially) creatures. A nil *ActorStats means the DATA subrecord never
// appeared (shallow record or truncated read); spec.md Scenario A requires
// this distinction.
type ActorStats struct {
	Strength, Perception, Endurance, Charisma, Intelligence, Agility, Luck int8
}

// Race describes a playable or NPC race.
type Race struct {
	Common

	StartingStats *ActorStats `json:",omitempty"`
}

// Faction describes a faction and its relations.
type Faction struct {
	Common

	ScriptFormID OptionFormID
	Relations    []FactionRelation `json:",omitempty"`
}

// FactionRelation is one XNAM relation entry within a FACT record.
type FactionRelation struct {
	FactionFormID reccore.FormID
	Modifier      int32
	GroupCombatReaction int32
}
