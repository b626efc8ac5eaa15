package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

var (
	tagENAM = reccore.NewTag("ENAM") // enchantment form-id (WEAP)
	tagPNAM = reccore.NewTag("PNAM") // projectile form-id (WEAP)
	tagEITM = reccore.NewTag("EITM") // effect item form-id (ALCH)
)

// ReconstructWeapons implements C6 for WEAP records.
func ReconstructWeapons(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Weapon, []scankit.TelemetryEvent) {
	var out []*model.Weapon
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		w := &model.Weapon{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						w.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagPNAM:
					if len(data) >= 4 {
						w.ProjectileFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagENAM:
					if len(data) >= 4 {
						w.EnchantmentFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagANAM:
					if len(data) >= 4 {
						w.AmmoFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if fields, ok := ctx.Registry.Decode(tagDATA, rectag.TagWeapon, data, endian); ok {
						if v, ok := fields["value"].(uint32); ok {
							w.Value = &v
						}
						if v, ok := fields["weight"].(float32); ok {
							w.Weight = &v
						}
						if v, ok := fields["damage"].(uint16); ok {
							w.Damage = &v
						}
						if v, ok := fields["clipSize"].(uint8); ok {
							w.ClipSize = &v
						}
					}
				default:
					decodeFallbackSubrecord(ctx, &w.Common, rectag.TagWeapon, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&w.Common, ctx.Index)
		out = append(out, w)
	}
	return out, tel
}

// ReconstructAmmo implements C6 for AMMO records. ProjectileFormID and
// ProjectileModelPath are left nil here; they are filled in by the
// orchestrator's weapon/ammo cross-enrichment pass (spec.md §4.10), not by
// this handler.
func ReconstructAmmo(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Ammo, []scankit.TelemetryEvent) {
	var out []*model.Ammo
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		a := &model.Ammo{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						a.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if fields, ok := ctx.Registry.Decode(tagDATA, rectag.TagAmmo, data, endian); ok {
						if v, ok := fields["speed"].(float32); ok {
							a.Speed = &v
						}
						if v, ok := fields["value"].(uint32); ok {
							a.Value = &v
						}
						if v, ok := fields["clipRounds"].(uint8); ok {
							a.ClipRounds = &v
						}
					}
				default:
					decodeFallbackSubrecord(ctx, &a.Common, rectag.TagAmmo, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&a.Common, ctx.Index)
		out = append(out, a)
	}
	return out, tel
}

// ReconstructArmors implements C6 for ARMO records.
func ReconstructArmors(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Armor, []scankit.TelemetryEvent) {
	var out []*model.Armor
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		a := &model.Armor{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						a.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if fields, ok := ctx.Registry.Decode(tagDATA, rectag.TagArmor, data, endian); ok {
						if v, ok := fields["value"].(uint32); ok {
							a.Value = &v
						}
						if v, ok := fields["health"].(uint32); ok {
							a.Health = &v
						}
						if v, ok := fields["weight"].(float32); ok {
							a.Weight = &v
						}
					}
				default:
					decodeFallbackSubrecord(ctx, &a.Common, rectag.TagArmor, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&a.Common, ctx.Index)
		out = append(out, a)
	}
	return out, tel
}

// ReconstructConsumables implements C6 for ALCH records.
func ReconstructConsumables(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Consumable, []scankit.TelemetryEvent) {
	var out []*model.Consumable
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		c := &model.Consumable{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						c.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagEITM:
					if len(data) >= 4 {
						c.EffectFormIDs = append(c.EffectFormIDs, reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if len(data) >= 8 {
						v := reconio.U32(data, 0, endian)
						w := reconio.F32(data, 4, endian)
						c.Value = &v
						c.Weight = &w
					}
				default:
					decodeFallbackSubrecord(ctx, &c.Common, rectag.TagConsumable, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&c.Common, ctx.Index)
		out = append(out, c)
	}
	return out, tel
}

// ReconstructMisc implements C6 for MISC records.
func ReconstructMisc(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Misc, []scankit.TelemetryEvent) {
	var out []*model.Misc
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		m := &model.Misc{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						m.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if len(data) >= 8 {
						v := reconio.U32(data, 0, endian)
						w := reconio.F32(data, 4, endian)
						m.Value = &v
						m.Weight = &w
					}
				default:
					decodeFallbackSubrecord(ctx, &m.Common, rectag.TagMisc, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&m.Common, ctx.Index)
		out = append(out, m)
	}
	return out, tel
}

// ReconstructKeyItems implements C6 for KEYM records.
func ReconstructKeyItems(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.KeyItem, []scankit.TelemetryEvent) {
	var out []*model.KeyItem
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		k := &model.KeyItem{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						k.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if len(data) >= 8 {
						v := reconio.U32(data, 0, endian)
						w := reconio.F32(data, 4, endian)
						k.Value = &v
						k.Weight = &w
					}
				default:
					decodeFallbackSubrecord(ctx, &k.Common, rectag.TagKey, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&k.Common, ctx.Index)
		out = append(out, k)
	}
	return out, tel
}

// ReconstructContainers implements C6 for CONT records.
func ReconstructContainers(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Container, []scankit.TelemetryEvent) {
	var out []*model.Container
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.MediumBufferPool)
		tel = append(tel, t...)
		c := &model.Container{Common: baseCommon(h, !ok)}
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
				case tagSCRI:
					if len(data) >= 4 {
						c.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagCNTO:
					if len(data) >= 8 {
						c.Contents = append(c.Contents, model.ContainerItem{
							ItemFormID: reconio.FormID(data, 0, endian),
							Count:      reconio.I32(data, 4, endian),
						})
					}
				case tagDATA:
					if len(data) >= 4 {
						cap := reconio.F32(data, 0, endian)
						c.Capacity = &cap
					}
				default:
					decodeFallbackSubrecord(ctx, &c.Common, rectag.TagContainer, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&c.Common, ctx.Index)
		out = append(out, c)
	}
	return out, tel
}
