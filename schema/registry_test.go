package schema

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

func TestLookupPrefersParentSpecificOverAgnostic(t *testing.T) {
	edid := reccore.NewTag("EDID")
	npc := reccore.NewTag("NPC_")

	r := NewRegistry([]Layout{
		{Tag: edid, MinLength: 0, Fields: []Field{{Name: "generic", Type: FieldU8}}},
		{Tag: edid, Parent: npc, HasParent: true, MinLength: 0, Fields: []Field{{Name: "specific", Type: FieldU8}}},
	})

	layout, ok := r.Lookup(edid, npc, 4)
	if !ok {
		t.Fatal("expected a match")
	}
	if len(layout.Fields) != 1 || layout.Fields[0].Name != "specific" {
		t.Errorf("Lookup with matching parent returned %v, want the parent-specific layout", layout.Fields)
	}

	other := reccore.NewTag("CREA")
	layout, ok = r.Lookup(edid, other, 4)
	if !ok {
		t.Fatal("expected fallback match for an unrelated parent")
	}
	if len(layout.Fields) != 1 || layout.Fields[0].Name != "generic" {
		t.Errorf("Lookup with unrelated parent returned %v, want the parent-agnostic layout", layout.Fields)
	}
}

func TestLookupPicksLargestVariantNotExceedingLength(t *testing.T) {
	data := reccore.NewTag("DATA")
	npc := reccore.NewTag("NPC_")

	r := NewRegistry([]Layout{
		{Tag: data, Parent: npc, HasParent: true, MinLength: 4, Fields: []Field{{Name: "small", Type: FieldU32}}},
		{Tag: data, Parent: npc, HasParent: true, MinLength: 12, Fields: []Field{{Name: "medium", Type: FieldU32}}},
		{Tag: data, Parent: npc, HasParent: true, MinLength: 20, Fields: []Field{{Name: "large", Type: FieldU32}}},
	})

	// An oversized subrecord (spec.md's "oversized DATA" open question):
	// the largest variant whose MinLength still fits should win, trailing
	// bytes ignored.
	layout, ok := r.Lookup(data, npc, 24)
	if !ok || layout.Fields[0].Name != "large" {
		t.Errorf("Lookup(24) = %v, ok=%v, want the 20-byte variant", layout.Fields, ok)
	}

	layout, ok = r.Lookup(data, npc, 15)
	if !ok || layout.Fields[0].Name != "medium" {
		t.Errorf("Lookup(15) = %v, ok=%v, want the 12-byte variant", layout.Fields, ok)
	}

	_, ok = r.Lookup(data, npc, 2)
	if ok {
		t.Error("Lookup(2) should not match any registered variant")
	}
}

func TestHasSchema(t *testing.T) {
	edid := reccore.NewTag("EDID")
	r := NewRegistry([]Layout{{Tag: edid, MinLength: 0, Fields: nil}})

	if !r.HasSchema(edid, reccore.NewTag("NPC_")) {
		t.Error("HasSchema should find the parent-agnostic layout")
	}
	if r.HasSchema(reccore.NewTag("XXXX"), reccore.NewTag("NPC_")) {
		t.Error("HasSchema should report false for an unregistered tag")
	}
}

func TestDecodeLayoutSkipsFieldsPastDataEnd(t *testing.T) {
	layout := Layout{
		Fields: []Field{
			{Name: "present", Offset: 0, Type: FieldU32},
			{Name: "truncated", Offset: 4, Type: FieldU32},
		},
	}
	data := []byte{0x2a, 0x00, 0x00, 0x00} // 4 bytes: only "present" fits

	out := DecodeLayout(layout, data, reccore.LittleEndian)
	if out["present"] != uint32(0x2a) {
		t.Errorf("present = %v, want 42", out["present"])
	}
	if _, ok := out["truncated"]; ok {
		t.Error("truncated field should not appear in the decoded map")
	}
}

func TestDecodeFieldTypesAndEndianness(t *testing.T) {
	layout := Layout{Fields: []Field{
		{Name: "u8", Offset: 0, Type: FieldU8},
		{Name: "i8", Offset: 1, Type: FieldI8},
		{Name: "u16", Offset: 2, Type: FieldU16},
		{Name: "formid", Offset: 4, Type: FieldFormID},
	}}
	data := []byte{0xff, 0xff, 0x01, 0x00, 0x14, 0x00, 0x00, 0x00}

	out := DecodeLayout(layout, data, reccore.LittleEndian)
	if out["u8"] != uint8(0xff) {
		t.Errorf("u8 = %v, want 255", out["u8"])
	}
	if out["i8"] != int8(-1) {
		t.Errorf("i8 = %v, want -1", out["i8"])
	}
	if out["u16"] != uint16(1) {
		t.Errorf("u16 = %v, want 1", out["u16"])
	}
	if out["formid"] != reccore.FormID(0x14) {
		t.Errorf("formid = %v, want 0x14", out["formid"])
	}
}
