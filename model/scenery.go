package model

// Static is a reconstructed static-scenery record.
type Static struct {
	Common

	ModelPath *string
}

// Furniture is a reconstructed furniture record.
type Furniture struct {
	Common

	ScriptFormID OptionFormID
}

// Door is a reconstructed door record.
type Door struct {
	Common

	ScriptFormID OptionFormID

	// OpenSoundFormID/CloseSoundFormID are explicit optionals: spec.md §9
	// calls doors out by name as a kind where "field present but zero"
	// must be distinguished from "field absent".
	OpenSoundFormID  OptionFormID
	CloseSoundFormID OptionFormID
}

// Light is a reconstructed light record.
type Light struct {
	Common

	ScriptFormID OptionFormID

	Radius *int32
	Color  *uint32
}

// Activator is a reconstructed activator record.
type Activator struct {
	Common

	ScriptFormID OptionFormID
}

// Sound is a reconstructed sound-marker record.
type Sound struct {
	Common

	SoundFilePath *string
}

// TextureSet is a reconstructed texture-set record.
type TextureSet struct {
	Common
}

// ArmorAddon is a reconstructed armor-addon (ARMA) record.
type ArmorAddon struct {
	Common
}

// ActorValueInfo is a reconstructed actor-value-info (AVIF) record.
type ActorValueInfo struct {
	Common
}

// Water is a reconstructed water-type record.
type Water struct {
	Common
}

// BodyPartData is a reconstructed body-part-data record.
type BodyPartData struct {
	Common
}

// CombatStyle is a reconstructed combat-style record.
type CombatStyle struct {
	Common
}
