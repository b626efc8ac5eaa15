package schema

import (
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
)

// DefaultLayouts is the compile-time schema table this engine ships with.
// It is not exhaustive of every subrecord in the target format — it covers
// the layouts spec.md calls out plus a few common cross-kind ones (SCRI,
// SCRO, SCRV, ANAM, QNAM, TRDT). EDID, FULL and MODL have no layout here.
// Everything else falls through to the common-tag fallback or raw-byte
// storage in handlers, per spec.md §4.6(b/c).
//
// Per spec.md §9's open question on oversized DATA subrecords: where a
// record kind has more than one DATA layout by size, every variant is
// registered and Registry.Lookup picks the largest MinLength not exceeding
// the observed length, reading that many fields and ignoring the rest.
var DefaultLayouts = []Layout{
	// BOOK.DATA: flags(u8) skill(i8) value(i32) weight(f32) — spec.md Scenario B.
	{
		Tag: tagDATA, Parent: rectag.TagBook, HasParent: true, MinLength: 10,
		Fields: []Field{
			{Name: "flags", Offset: 0, Type: FieldU8},
			{Name: "skill", Offset: 1, Type: FieldI8},
			{Name: "value", Offset: 2, Type: FieldI32},
			{Name: "weight", Offset: 6, Type: FieldF32},
		},
	},
	// GMST.DATA: single 4-byte value, typed by the editor-id prefix; the
	// field is decoded generically here and reinterpreted by the handler.
	{
		Tag: tagDATA, Parent: rectag.TagGameSetting, HasParent: true, MinLength: 4,
		Fields: []Field{
			{Name: "rawValue", Offset: 0, Type: FieldU32},
		},
	},
	// WEAP.DATA: value, weight, damage, clip size.
	{
		Tag: tagDATA, Parent: rectag.TagWeapon, HasParent: true, MinLength: 16,
		Fields: []Field{
			{Name: "value", Offset: 0, Type: FieldU32},
			{Name: "weight", Offset: 4, Type: FieldF32},
			{Name: "damage", Offset: 8, Type: FieldU16},
			{Name: "clipSize", Offset: 10, Type: FieldU8},
		},
	},
	// AMMO.DATA.
	{
		Tag: tagDATA, Parent: rectag.TagAmmo, HasParent: true, MinLength: 13,
		Fields: []Field{
			{Name: "speed", Offset: 0, Type: FieldF32},
			{Name: "flags", Offset: 4, Type: FieldU8},
			{Name: "value", Offset: 5, Type: FieldU32},
			{Name: "clipRounds", Offset: 9, Type: FieldU8},
		},
	},
	// ARMO.DATA.
	{
		Tag: tagDATA, Parent: rectag.TagArmor, HasParent: true, MinLength: 9,
		Fields: []Field{
			{Name: "value", Offset: 0, Type: FieldU32},
			{Name: "health", Offset: 4, Type: FieldU32},
			{Name: "weight", Offset: 8, Type: FieldF32},
		},
	},
	// MISC.DATA / KEYM.DATA share the item (value, weight) shape.
	{
		Tag: tagDATA, Parent: rectag.TagMisc, HasParent: true, MinLength: 8,
		Fields: []Field{
			{Name: "value", Offset: 0, Type: FieldU32},
			{Name: "weight", Offset: 4, Type: FieldF32},
		},
	},
	{
		Tag: tagDATA, Parent: rectag.TagKey, HasParent: true, MinLength: 8,
		Fields: []Field{
			{Name: "value", Offset: 0, Type: FieldU32},
			{Name: "weight", Offset: 4, Type: FieldF32},
		},
	},
	// CELL.DATA: flags(u8).
	{
		Tag: tagDATA, Parent: rectag.TagCell, HasParent: true, MinLength: 1,
		Fields: []Field{
			{Name: "flags", Offset: 0, Type: FieldU8},
		},
	},
	// GLOB.FNAM+FLTV modeled via common GLOB layout (type char + value).
	{
		Tag: reccore.NewTag("FLTV"), Parent: rectag.TagGlobalVariable, HasParent: true, MinLength: 4,
		Fields: []Field{
			{Name: "value", Offset: 0, Type: FieldF32},
		},
	},
	// XCLC (cell grid): gridX(i32) gridY(i32).
	{
		Tag: reccore.NewTag("XCLC"), Parent: rectag.TagCell, HasParent: true, MinLength: 8,
		Fields: []Field{
			{Name: "gridX", Offset: 0, Type: FieldI32},
			{Name: "gridY", Offset: 4, Type: FieldI32},
		},
	},
	// XCLW (cell water height) lives at a fixed offset in the
	// target build's layout.
	{
		Tag: reccore.NewTag("XCLW"), Parent: rectag.TagCell, HasParent: true, MinLength: 4,
		Fields: []Field{
			{Name: "waterHeight", Offset: 0, Type: FieldF32},
		},
	},
	// Common cross-kind subrecords (parent-agnostic).
	{
		Tag: reccore.NewTag("SCRI"), MinLength: 4,
		Fields: []Field{{Name: "scriptFormID", Offset: 0, Type: FieldFormID}},
	},
	{
		Tag: reccore.NewTag("SCRO"), MinLength: 4,
		Fields: []Field{{Name: "formID", Offset: 0, Type: FieldFormID}},
	},
	{
		Tag: reccore.NewTag("SCRV"), MinLength: 4,
		Fields: []Field{{Name: "index", Offset: 0, Type: FieldU32}},
	},
	{
		Tag: reccore.NewTag("ANAM"), MinLength: 4,
		Fields: []Field{{Name: "speakerFormID", Offset: 0, Type: FieldFormID}},
	},
	{
		Tag: reccore.NewTag("QNAM"), MinLength: 4,
		Fields: []Field{{Name: "questFormID", Offset: 0, Type: FieldFormID}},
	},
	{
		Tag: reccore.NewTag("TRDT"), MinLength: 4,
		Fields: []Field{{Name: "emotionValue", Offset: 0, Type: FieldU32}},
	},
}

var tagDATA = reccore.NewTag("DATA")
