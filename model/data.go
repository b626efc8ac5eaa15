package model

import "github.com/vaultrecon/semrecon/model/reccore"

// GlobalVariable is a reconstructed global variable (GLOB) record.
type GlobalVariable struct {
	Common

	ValueType *reccore.Enum
	Value     *float32
}

// GameSetting is a reconstructed game setting (GMST) record.
type GameSetting struct {
	Common

	ValueType   *reccore.Enum
	IntValue    *int32
	FloatValue  *float32
	StringValue *string
}

// LeveledList is a reconstructed leveled list. Three parent tags (LVLI,
// LVLN, LVLC) map onto this one family, per spec.md §4.6.
type LeveledList struct {
	Common

	Kind    string // "Item", "NPC", or "Creature"
	ChanceNone *uint8
	Flags   *uint8
	Entries []LeveledEntry `json:",omitempty"`

	// ScriptFormID is set for leveled NPC/creature lists carrying an SCRI
	// subrecord; these are part of spec.md §4.8's fixed script-owning set.
	ScriptFormID *reccore.FormID
}

// LeveledEntry is one LVLO entry: a level threshold and a reference.
type LeveledEntry struct {
	Level  int16
	FormID reccore.FormID
	Count  int16
}

// Class is a reconstructed character class record.
type Class struct {
	Common
}

// Challenge is a reconstructed challenge record.
type Challenge struct {
	Common
}

// Reputation is a reconstructed reputation/karma record.
type Reputation struct {
	Common
}

// Recipe is a reconstructed crafting recipe record.
type Recipe struct {
	Common

	Components []ContainerItem `json:",omitempty"`
	ResultFormID OptionFormID
}

// WeaponMod is a reconstructed weapon-mod (install) record.
type WeaponMod struct {
	Common

	WeaponFormID OptionFormID
}
