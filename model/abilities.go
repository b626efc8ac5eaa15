package model

// Perk is a reconstructed perk record.
type Perk struct {
	Common
}

// Spell is a reconstructed spell record.
type Spell struct {
	Common

	EffectFormIDs []OptionFormID `json:",omitempty"`
}

// BaseEffect (MGEF) is a reconstructed magic-effect definition record.
type BaseEffect struct {
	Common

	ActorValueID *int32
}

// Enchantment is a reconstructed enchantment record.
type Enchantment struct {
	Common
}

// Projectile is a reconstructed projectile record.
type Projectile struct {
	Common

	ModelPath *string
}

// Explosion is a reconstructed explosion record.
type Explosion struct {
	Common
}
