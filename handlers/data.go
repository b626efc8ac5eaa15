package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

var (
	tagFNAM = reccore.NewTag("FNAM") // GLOB value-type char
	tagFLTV = reccore.NewTag("FLTV")
	tagLVLO = reccore.NewTag("LVLO")
	tagCNAM = reccore.NewTag("CNAM") // leveled-list chance-none
	tagWNAM = reccore.NewTag("WNAM") // weapon-mod's owning weapon
)

// ReconstructGlobalVariables implements C6 for GLOB records (spec.md
// Scenario C).
func ReconstructGlobalVariables(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.GlobalVariable, []scankit.TelemetryEvent) {
	var out []*model.GlobalVariable
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		g := &model.GlobalVariable{Common: baseCommon(h, !ok)}
		if ok {
			endian := h.Endian()
			var typeChar byte
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				switch sr.Tag {
				case tagFNAM:
					if len(data) >= 1 {
						typeChar = data[0]
					}
				case tagFLTV:
					if len(data) >= 4 {
						v := reconio.F32(data, 0, endian)
						g.Value = &v
					}
				default:
					decodeFallbackSubrecord(ctx, &g.Common, rectag.TagGlobalVariable, sr.Tag, data, endian)
				}
			}
			if typeChar != 0 {
				vt := reccore.ValueTypeByPrefix(typeChar).Enum
				g.ValueType = &vt
			}
		}
		finalizeCommon(&g.Common, ctx.Index)
		out = append(out, g)
	}
	return out, tel
}

// ReconstructGameSettings implements C6 for GMST records. The value type
// is discriminated by the first byte of the editor-id (spec.md §4.6), so
// this handler resolves EditorID before interpreting DATA's raw bytes.
func ReconstructGameSettings(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.GameSetting, []scankit.TelemetryEvent) {
	var out []*model.GameSetting
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		gs := &model.GameSetting{Common: baseCommon(h, !ok)}
		var raw []byte
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				if sr.Tag == tagDATA {
					raw = data
				} else {
					decodeFallbackSubrecord(ctx, &gs.Common, rectag.TagGameSetting, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&gs.Common, ctx.Index)
		if raw != nil && gs.EditorID != nil && len(*gs.EditorID) > 0 {
			vt := reccore.ValueTypeByPrefix((*gs.EditorID)[0])
			gs.ValueType = &vt.Enum
			endian := h.Endian()
			switch vt {
			case reccore.ValueTypeInt, reccore.ValueTypeBool:
				if len(raw) >= 4 {
					v := reconio.I32(raw, 0, endian)
					gs.IntValue = &v
				}
			case reccore.ValueTypeFloat:
				if len(raw) >= 4 {
					v := reconio.F32(raw, 0, endian)
					gs.FloatValue = &v
				}
			case reccore.ValueTypeString:
				s := reconio.CString(raw)
				gs.StringValue = &s
			}
		}
		out = append(out, gs)
	}
	return out, tel
}

// ReconstructLeveledLists implements C6 for LVLI/LVLN/LVLC records: three
// parent tags map to one family (spec.md §4.6).
func ReconstructLeveledLists(ctx *Context, headers []reconio.MainRecordHeader, tag reccore.Tag) ([]*model.LeveledList, []scankit.TelemetryEvent) {
	kind := "Item"
	switch tag {
	case rectag.TagLeveledNPC:
		kind = "NPC"
	case rectag.TagLeveledCreature:
		kind = "Creature"
	}
	var out []*model.LeveledList
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		l := &model.LeveledList{Common: baseCommon(h, !ok), Kind: kind}
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				switch sr.Tag {
				case tagLVLO:
					if len(data) >= 8 {
						l.Entries = append(l.Entries, model.LeveledEntry{
							Level:  reconio.I16(data, 0, endian),
							FormID: reconio.FormID(data, 4, endian),
						})
					}
				case tagCNAM:
					if len(data) >= 1 {
						v := data[0]
						l.ChanceNone = &v
					}
				case tagDATA:
					if len(data) >= 1 {
						v := data[0]
						l.Flags = &v
					}
				case tagSCRI:
					if len(data) >= 4 {
						f := reconio.FormID(data, 0, endian)
						l.ScriptFormID = &f
					}
				default:
					decodeFallbackSubrecord(ctx, &l.Common, tag, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&l.Common, ctx.Index)
		out = append(out, l)
	}
	return out, tel
}

// ReconstructRecipes implements C6 for RCPE records.
func ReconstructRecipes(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Recipe, []scankit.TelemetryEvent) {
	var out []*model.Recipe
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		r := &model.Recipe{Common: baseCommon(h, !ok)}
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				switch sr.Tag {
				case tagCNTO:
					if len(data) >= 8 {
						r.Components = append(r.Components, model.ContainerItem{
							ItemFormID: reconio.FormID(data, 0, endian),
							Count:      reconio.I32(data, 4, endian),
						})
					}
				case tagRNAM:
					if len(data) >= 4 {
						r.ResultFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				default:
					decodeFallbackSubrecord(ctx, &r.Common, rectag.TagRecipe, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&r.Common, ctx.Index)
		out = append(out, r)
	}
	return out, tel
}

// ReconstructWeaponMods implements C6 for IMOD records.
func ReconstructWeaponMods(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.WeaponMod, []scankit.TelemetryEvent) {
	var out []*model.WeaponMod
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		m := &model.WeaponMod{Common: baseCommon(h, !ok)}
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				if sr.Tag == tagWNAM && len(data) >= 4 {
					m.WeaponFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
				} else {
					decodeFallbackSubrecord(ctx, &m.Common, rectag.TagWeaponMod, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&m.Common, ctx.Index)
		out = append(out, m)
	}
	return out, tel
}
