package reccore

// ActorValue identifies one of the engine's actor-value slots (health,
// skills, SPECIAL stats, ...) referenced from perks, spells, and base
// effects.
type ActorValue struct {
	Enum
	ID int32
}

// ActorValues is the enumeration of actor values this engine knows the
// display name for. It is intentionally not exhaustive: unknown ids still
// decode correctly via ActorValueByID, just without a friendly name.
var ActorValues = []*ActorValue{
	{Enum{"Strength"}, 0},
	{Enum{"Perception"}, 1},
	{Enum{"Endurance"}, 2},
	{Enum{"Charisma"}, 3},
	{Enum{"Intelligence"}, 4},
	{Enum{"Agility"}, 5},
	{Enum{"Luck"}, 6},
	{Enum{"ActionPoints"}, 7},
	{Enum{"CarryWeight"}, 8},
	{Enum{"CritChance"}, 9},
	{Enum{"HealRate"}, 10},
	{Enum{"Health"}, 11},
	{Enum{"DamageResist"}, 12},
	{Enum{"Radiation"}, 14},
}

// ActorValueByID returns the ActorValue for id, synthesizing an Unknown
// entry (preserving id) if none is registered.
func ActorValueByID(id int32) *ActorValue {
	for _, av := range ActorValues {
		if av.ID == id {
			return av
		}
	}
	return &ActorValue{UnknownEnum(id), id}
}

// ValueType classifies a game setting's value (GMST records store one of
// these, discriminated by the first byte of the editor-id).
type ValueType struct {
	Enum
	Prefix byte
}

var (
	ValueTypeInt    = &ValueType{Enum{"Int"}, 'i'}
	ValueTypeFloat  = &ValueType{Enum{"Float"}, 'f'}
	ValueTypeString = &ValueType{Enum{"String"}, 's'}
	ValueTypeBool   = &ValueType{Enum{"Bool"}, 'b'}
	ValueTypeUnknown = &ValueType{Enum{"Unknown"}, 0}
)

// ValueTypeByPrefix classifies a GMST by the first byte of its editor-id.
func ValueTypeByPrefix(prefix byte) *ValueType {
	switch prefix {
	case 'i':
		return ValueTypeInt
	case 'f':
		return ValueTypeFloat
	case 's':
		return ValueTypeString
	case 'b':
		return ValueTypeBool
	default:
		return ValueTypeUnknown
	}
}
