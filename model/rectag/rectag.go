// Package rectag enumerates the main record kinds this engine reconstructs,
// identified by their four-byte container tag, together with the small
// amount of per-kind metadata (script ownership, runtime kind-code) that
// drives C6/C7/C8 without resorting to virtual dispatch: every record kind
// is a plain value in the Kinds table, and handlers are plain functions
// switching on it.
package rectag

import "github.com/vaultrecon/semrecon/model/reccore"

// Kind identifies one main record kind.
type Kind struct {
	// Tag is the four-byte container tag, e.g. "NPC_".
	Tag reccore.Tag

	// Name is the human-readable kind name.
	Name string

	// RuntimeKindCode is the code the captured runtime hash table uses to
	// classify entries of this kind. -1 means this kind has no runtime
	// counterpart known to this engine (C7 then never enumerates it).
	RuntimeKindCode int32

	// OwnsScript reports whether a record of this kind can carry an SCRI
	// (script reference) subrecord, per spec.md §4.8's fixed ownership set.
	OwnsScript bool
}

// Tag constants for every kind named in spec.md §3, plus the handful the
// cross-reference builder needs by name (dialogue, scripts, cells).
var (
	TagNPC             = reccore.NewTag("NPC_")
	TagCreature        = reccore.NewTag("CREA")
	TagRace            = reccore.NewTag("RACE")
	TagFaction         = reccore.NewTag("FACT")
	TagWeapon          = reccore.NewTag("WEAP")
	TagArmor           = reccore.NewTag("ARMO")
	TagAmmo            = reccore.NewTag("AMMO")
	TagConsumable      = reccore.NewTag("ALCH")
	TagMisc            = reccore.NewTag("MISC")
	TagKey             = reccore.NewTag("KEYM")
	TagContainer       = reccore.NewTag("CONT")
	TagCell            = reccore.NewTag("CELL")
	TagWorldspace      = reccore.NewTag("WRLD")
	TagPlacedRef       = reccore.NewTag("REFR")
	TagLand            = reccore.NewTag("LAND")
	TagNavMesh         = reccore.NewTag("NAVM")
	TagWeather         = reccore.NewTag("WTHR")
	TagLightingTemplate = reccore.NewTag("LTEX")
	TagPerk            = reccore.NewTag("PERK")
	TagSpell           = reccore.NewTag("SPEL")
	TagBaseEffect      = reccore.NewTag("MGEF")
	TagEnchantment     = reccore.NewTag("ENCH")
	TagProjectile      = reccore.NewTag("PROJ")
	TagExplosion       = reccore.NewTag("EXPL")
	TagBook            = reccore.NewTag("BOOK")
	TagNote            = reccore.NewTag("NOTE")
	TagTerminal        = reccore.NewTag("TERM")
	TagMessage         = reccore.NewTag("MESG")
	TagScript          = reccore.NewTag("SCPT")
	TagDialogueTopic   = reccore.NewTag("DIAL")
	TagDialogueLine    = reccore.NewTag("INFO")
	TagQuest           = reccore.NewTag("QUST")
	TagGlobalVariable  = reccore.NewTag("GLOB")
	TagGameSetting     = reccore.NewTag("GMST")
	TagLeveledItem     = reccore.NewTag("LVLI")
	TagLeveledNPC      = reccore.NewTag("LVLN")
	TagLeveledCreature = reccore.NewTag("LVLC")
	TagClass           = reccore.NewTag("CLAS")
	TagChallenge       = reccore.NewTag("CHAL")
	TagReputation      = reccore.NewTag("REPU")
	TagRecipe          = reccore.NewTag("RCPE")
	TagWeaponMod       = reccore.NewTag("IMOD")
	TagStatic          = reccore.NewTag("STAT")
	TagFurniture       = reccore.NewTag("FURN")
	TagDoor            = reccore.NewTag("DOOR")
	TagLight           = reccore.NewTag("LIGH")
	TagActivator       = reccore.NewTag("ACTI")
	TagSound           = reccore.NewTag("SOUN")
	TagTextureSet      = reccore.NewTag("TXST")
	TagArmorAddon      = reccore.NewTag("ARMA")
	TagActorValueInfo  = reccore.NewTag("AVIF")
	TagWater           = reccore.NewTag("WATR")
	TagBodyPartData    = reccore.NewTag("BPTD")
	TagCombatStyle     = reccore.NewTag("CSTY")
)

// ScriptOwningTags is the fixed set of kinds that can own an SCRI subrecord,
// per spec.md §4.8.
var ScriptOwningTags = map[reccore.Tag]bool{
	TagNPC: true, TagCreature: true, TagActivator: true, TagContainer: true,
	TagDoor: true, TagFurniture: true, TagWeapon: true, TagArmor: true,
	TagMisc: true, TagBook: true, TagConsumable: true, TagKey: true,
	TagAmmo: true, TagLight: true, TagLeveledCreature: true, TagLeveledNPC: true,
	TagFaction: true, TagQuest: true,
}

// Kinds is the full registry of record kinds this engine reconstructs.
// RuntimeKindCode values are placeholders consistent with the target
// build's captured hash table layout; -1 marks kinds with no known runtime
// counterpart.
var Kinds = []*Kind{
	{TagNPC, "NPC", 0x2B, true},
	{TagCreature, "Creature", 0x2A, true},
	{TagRace, "Race", -1, false},
	{TagFaction, "Faction", -1, true},
	{TagWeapon, "Weapon", 0x29, true},
	{TagArmor, "Armor", -1, true},
	{TagAmmo, "Ammo", -1, true},
	{TagConsumable, "Consumable", -1, true},
	{TagMisc, "Misc", -1, true},
	{TagKey, "Key", -1, true},
	{TagContainer, "Container", 0x1E, true},
	{TagCell, "Cell", 0x3C, false},
	{TagWorldspace, "Worldspace", -1, false},
	{TagPlacedRef, "PlacedReference", 0x3D, false},
	{TagLand, "TerrainHeightmap", -1, false},
	{TagNavMesh, "NavMesh", -1, false},
	{TagWeather, "Weather", -1, false},
	{TagLightingTemplate, "LightingTemplate", -1, false},
	{TagPerk, "Perk", -1, false},
	{TagSpell, "Spell", -1, false},
	{TagBaseEffect, "BaseEffect", -1, false},
	{TagEnchantment, "Enchantment", -1, false},
	{TagProjectile, "Projectile", -1, false},
	{TagExplosion, "Explosion", -1, false},
	{TagBook, "Book", -1, true},
	{TagNote, "Note", -1, false},
	{TagTerminal, "Terminal", -1, false},
	{TagMessage, "Message", -1, false},
	{TagScript, "Script", 0x1C, false},
	{TagDialogueTopic, "DialogueTopic", 0x27, false},
	{TagDialogueLine, "DialogueLine", 0x45, false},
	{TagQuest, "Quest", -1, true},
	{TagGlobalVariable, "GlobalVariable", -1, false},
	{TagGameSetting, "GameSetting", -1, false},
	{TagLeveledItem, "LeveledList", -1, false},
	{TagLeveledNPC, "LeveledList", -1, false},
	{TagLeveledCreature, "LeveledList", -1, false},
	{TagClass, "Class", -1, false},
	{TagChallenge, "Challenge", -1, false},
	{TagReputation, "Reputation", -1, false},
	{TagRecipe, "Recipe", -1, false},
	{TagWeaponMod, "WeaponMod", -1, false},
	{TagStatic, "Static", -1, false},
	{TagFurniture, "Furniture", -1, true},
	{TagDoor, "Door", -1, true},
	{TagLight, "Light", -1, true},
	{TagActivator, "Activator", -1, true},
	{TagSound, "Sound", -1, false},
	{TagTextureSet, "TextureSet", -1, false},
	{TagArmorAddon, "ArmorAddon", -1, false},
	{TagActorValueInfo, "ActorValueInfo", -1, false},
	{TagWater, "Water", -1, false},
	{TagBodyPartData, "BodyPartData", -1, false},
	{TagCombatStyle, "CombatStyle", -1, false},
}

// ByTag returns the Kind registered for tag, or nil if unknown.
func ByTag(tag reccore.Tag) *Kind {
	for _, k := range Kinds {
		if k.Tag == tag {
			return k
		}
	}
	return nil
}

// DialogueInfoFallbackKindCode is the "empirically verified" (spec.md §9)
// runtime kind-code used to recognize dialogue-line entries in the runtime
// table when the ordinary DialogueLine kind-code above does not match the
// captured build. spec.md explicitly flags this value as something an
// implementer must re-verify against their target build rather than trust
// blindly; this engine honors that by taking the value the orchestrator
// uses from the RuntimeReader (see scankit.RuntimeReader's
// DialogueInfoFallbackKindCode method), not from this constant, so it is
// never a silently-trusted constant baked into handler logic.
const DialogueInfoFallbackKindCode int32 = 0x45
