package model

import "github.com/vaultrecon/semrecon/model/reccore"

// Weapon is a reconstructed weapon base record.
type Weapon struct {
	Common

	ScriptFormID      OptionFormID
	ProjectileFormID  OptionFormID
	EnchantmentFormID OptionFormID

	// AmmoFormID is the weapon's ammunition type, from its own ANAM
	// subrecord (the same four-byte tag dialogue topics use for a speaker
	// reference; this format's subrecord meaning always depends on the
	// parent record kind). Used by the orchestrator's weapon/ammo
	// cross-enrichment pass (spec.md §4.10).
	AmmoFormID OptionFormID

	Value    *uint32
	Weight   *float32
	Damage   *uint16
	ClipSize *uint8
}

// Ammo is a reconstructed ammunition base record.
type Ammo struct {
	Common

	ScriptFormID OptionFormID

	// ProjectileFormID is populated during the orchestrator's ammo/weapon
	// cross-enrichment pass (spec.md §4.10): each ammo inherits its
	// weapon's projectile.
	ProjectileFormID OptionFormID

	// ProjectileModelPath is inherited alongside ProjectileFormID.
	ProjectileModelPath *string

	Speed      *float32
	Value      *uint32
	ClipRounds *uint8
}

// Armor is a reconstructed armor base record.
type Armor struct {
	Common

	ScriptFormID OptionFormID

	Value  *uint32
	Health *uint32
	Weight *float32
}

// Consumable (ALCH) is a reconstructed consumable/chem/food base record.
type Consumable struct {
	Common

	ScriptFormID      OptionFormID
	EffectFormIDs     []reccore.FormID `json:",omitempty"`
	Value             *uint32
	Weight            *float32
	Addictive         bool
}

// Misc is a reconstructed miscellaneous item base record.
type Misc struct {
	Common

	ScriptFormID OptionFormID
	Value        *uint32
	Weight       *float32
}

// KeyItem is a reconstructed key-item base record.
type KeyItem struct {
	Common

	ScriptFormID OptionFormID
	Value        *uint32
	Weight       *float32
}

// Container is a reconstructed container base record.
type Container struct {
	Common

	ScriptFormID OptionFormID
	Capacity     *float32
	Contents     []ContainerItem `json:",omitempty"`
}

// ContainerItem is one CNTO entry: an item form-id and a count.
type ContainerItem struct {
	ItemFormID reccore.FormID
	Count      int32
}
