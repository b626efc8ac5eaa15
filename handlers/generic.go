package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

// ReconstructGeneric walks headers for the long-tail kinds that keep no
// named field of their own (Perk, Enchantment, Explosion, Class,
// Challenge, Reputation, TextureSet, ArmorAddon, ActorValueInfo, Water,
// BodyPartData, CombatStyle, Weather, LightingTemplate) and returns the bare Common plus raw
// subrecords, per spec.md §4.6(a-c)'s documented fallback contract: this
// is the behavior the spec prescribes for these kinds, not a shortcut
// around unimplemented functionality.
func ReconstructGeneric(ctx *Context, headers []reconio.MainRecordHeader, parent reccore.Tag, pool *reconio.BufferPool) ([]model.Common, []scankit.TelemetryEvent) {
	var out []model.Common
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, pool)
		tel = append(tel, t...)
		com := baseCommon(h, !ok)
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)
			it.OnMalformed = func(b []byte, at int) {
				tel = append(tel, telem("malformed-subrecord", h.FormID, parent.String()+" subrecord malformed"))
			}
			for {
				sr, more := it.Next()
				if !more {
					break
				}
				data := sr.Data(body)
				if captureCommonSubrecord(ctx, h.FormID, sr.Tag, data) {
					continue
				}
				decodeFallbackSubrecord(ctx, &com, parent, sr.Tag, data, endian)
			}
		}
		finalizeCommon(&com, ctx.Index)
		out = append(out, com)
	}
	return out, tel
}

// ReconstructPerks implements C6 for PERK records.
func ReconstructPerks(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Perk, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagPerk, reconio.SmallBufferPool)
	out := make([]*model.Perk, len(commons))
	for i := range commons {
		out[i] = &model.Perk{Common: commons[i]}
	}
	return out, tel
}

// ReconstructSpells implements C6 for SPEL records.
func ReconstructSpells(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Spell, []scankit.TelemetryEvent) {
	var out []*model.Spell
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		s := &model.Spell{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagEITM && len(data) >= 4 {
					s.EffectFormIDs = append(s.EffectFormIDs, model.SomeFormID(reconio.FormID(data, 0, endian)))
				} else {
					decodeFallbackSubrecord(ctx, &s.Common, rectag.TagSpell, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&s.Common, ctx.Index)
		out = append(out, s)
	}
	return out, tel
}

// ReconstructBaseEffects implements C6 for MGEF records.
func ReconstructBaseEffects(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.BaseEffect, []scankit.TelemetryEvent) {
	var out []*model.BaseEffect
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		e := &model.BaseEffect{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagDATA && len(data) >= 4 {
					v := reconio.I32(data, 0, endian)
					e.ActorValueID = &v
				} else {
					decodeFallbackSubrecord(ctx, &e.Common, rectag.TagBaseEffect, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&e.Common, ctx.Index)
		out = append(out, e)
	}
	return out, tel
}

// ReconstructEnchantments implements C6 for ENCH records.
func ReconstructEnchantments(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Enchantment, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagEnchantment, reconio.SmallBufferPool)
	out := make([]*model.Enchantment, len(commons))
	for i := range commons {
		out[i] = &model.Enchantment{Common: commons[i]}
	}
	return out, tel
}

// ReconstructProjectiles implements C6 for PROJ records. ModelPath is
// inherited from MODL here directly (the orchestrator's weapon/ammo
// cross-enrichment pass later copies it into Ammo.ProjectileModelPath for
// ammo whose weapon fires this projectile, per spec.md §4.10).
func ReconstructProjectiles(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Projectile, []scankit.TelemetryEvent) {
	var out []*model.Projectile
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		p := &model.Projectile{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagMODL {
					s := reconio.CString(data)
					p.ModelPath = &s
				} else {
					decodeFallbackSubrecord(ctx, &p.Common, rectag.TagProjectile, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&p.Common, ctx.Index)
		out = append(out, p)
	}
	return out, tel
}

// ReconstructExplosions implements C6 for EXPL records.
func ReconstructExplosions(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Explosion, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagExplosion, reconio.SmallBufferPool)
	out := make([]*model.Explosion, len(commons))
	for i := range commons {
		out[i] = &model.Explosion{Common: commons[i]}
	}
	return out, tel
}

// ReconstructClasses implements C6 for CLAS records.
func ReconstructClasses(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Class, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagClass, reconio.SmallBufferPool)
	out := make([]*model.Class, len(commons))
	for i := range commons {
		out[i] = &model.Class{Common: commons[i]}
	}
	return out, tel
}

// ReconstructChallenges implements C6 for CHAL records.
func ReconstructChallenges(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Challenge, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagChallenge, reconio.SmallBufferPool)
	out := make([]*model.Challenge, len(commons))
	for i := range commons {
		out[i] = &model.Challenge{Common: commons[i]}
	}
	return out, tel
}

// ReconstructReputations implements C6 for REPU records.
func ReconstructReputations(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Reputation, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagReputation, reconio.SmallBufferPool)
	out := make([]*model.Reputation, len(commons))
	for i := range commons {
		out[i] = &model.Reputation{Common: commons[i]}
	}
	return out, tel
}

// ReconstructStatics implements C6 for STAT records.
func ReconstructStatics(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Static, []scankit.TelemetryEvent) {
	var out []*model.Static
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		s := &model.Static{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagMODL {
					m := reconio.CString(data)
					s.ModelPath = &m
				} else {
					decodeFallbackSubrecord(ctx, &s.Common, rectag.TagStatic, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&s.Common, ctx.Index)
		out = append(out, s)
	}
	return out, tel
}

// reconstructScriptOwningGeneric is shared by the several long-tail kinds
// whose only bespoke field is a script reference (FURN, DOOR open/close
// already handled separately, ACTI).
func reconstructScriptOwningGeneric(ctx *Context, headers []reconio.MainRecordHeader, parent reccore.Tag) (commons []model.Common, scriptIDs []reccore.FormID, tel []scankit.TelemetryEvent) {
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		com := baseCommon(h, !ok)
		var scriptID reccore.FormID
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
				if sr.Tag == tagSCRI && len(data) >= 4 {
					scriptID = reconio.FormID(data, 0, endian)
				} else {
					decodeFallbackSubrecord(ctx, &com, parent, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&com, ctx.Index)
		commons = append(commons, com)
		scriptIDs = append(scriptIDs, scriptID)
	}
	return commons, scriptIDs, tel
}

// ReconstructFurniture implements C6 for FURN records.
func ReconstructFurniture(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Furniture, []scankit.TelemetryEvent) {
	commons, scriptIDs, tel := reconstructScriptOwningGeneric(ctx, headers, rectag.TagFurniture)
	out := make([]*model.Furniture, len(commons))
	for i := range commons {
		f := &model.Furniture{Common: commons[i]}
		if scriptIDs[i].Valid() {
			f.ScriptFormID = model.SomeFormID(scriptIDs[i])
		}
		out[i] = f
	}
	return out, tel
}

// ReconstructDoors implements C6 for DOOR records. OpenSoundFormID and
// CloseSoundFormID are explicit OptionFormID fields per spec.md §9: a
// present-but-zero ANAM/SNAM is never conflated with an absent one here.
func ReconstructDoors(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Door, []scankit.TelemetryEvent) {
	var out []*model.Door
	var tel []scankit.TelemetryEvent
	tagSNAMOpen := reccore.NewTag("SNAM")
	tagANAMClose := reccore.NewTag("ANAM")
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		d := &model.Door{Common: baseCommon(h, !ok)}
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
						d.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagSNAMOpen:
					if len(data) >= 4 {
						d.OpenSoundFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagANAMClose:
					if len(data) >= 4 {
						d.CloseSoundFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				default:
					decodeFallbackSubrecord(ctx, &d.Common, rectag.TagDoor, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&d.Common, ctx.Index)
		out = append(out, d)
	}
	return out, tel
}

// ReconstructLights implements C6 for LIGH records.
func ReconstructLights(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Light, []scankit.TelemetryEvent) {
	var out []*model.Light
	var tel []scankit.TelemetryEvent
	tagPNAMColor := reccore.NewTag("PNAM")
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		l := &model.Light{Common: baseCommon(h, !ok)}
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
						l.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if len(data) >= 4 {
						r := reconio.I32(data, 0, endian)
						l.Radius = &r
					}
				case tagPNAMColor:
					if len(data) >= 4 {
						c := reconio.U32(data, 0, endian)
						l.Color = &c
					}
				default:
					decodeFallbackSubrecord(ctx, &l.Common, rectag.TagLight, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&l.Common, ctx.Index)
		out = append(out, l)
	}
	return out, tel
}

// ReconstructActivators implements C6 for ACTI records.
func ReconstructActivators(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Activator, []scankit.TelemetryEvent) {
	commons, scriptIDs, tel := reconstructScriptOwningGeneric(ctx, headers, rectag.TagActivator)
	out := make([]*model.Activator, len(commons))
	for i := range commons {
		a := &model.Activator{Common: commons[i]}
		if scriptIDs[i].Valid() {
			a.ScriptFormID = model.SomeFormID(scriptIDs[i])
		}
		out[i] = a
	}
	return out, tel
}

// ReconstructSounds implements C6 for SOUN records.
func ReconstructSounds(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Sound, []scankit.TelemetryEvent) {
	var out []*model.Sound
	var tel []scankit.TelemetryEvent
	tagFNAMFile := reccore.NewTag("FNAM")
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		s := &model.Sound{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagFNAMFile {
					p := reconio.CString(data)
					s.SoundFilePath = &p
				} else {
					decodeFallbackSubrecord(ctx, &s.Common, rectag.TagSound, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&s.Common, ctx.Index)
		out = append(out, s)
	}
	return out, tel
}

// ReconstructTextureSets implements C6 for TXST records.
func ReconstructTextureSets(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.TextureSet, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagTextureSet, reconio.SmallBufferPool)
	out := make([]*model.TextureSet, len(commons))
	for i := range commons {
		out[i] = &model.TextureSet{Common: commons[i]}
	}
	return out, tel
}

// ReconstructArmorAddons implements C6 for ARMA records.
func ReconstructArmorAddons(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.ArmorAddon, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagArmorAddon, reconio.SmallBufferPool)
	out := make([]*model.ArmorAddon, len(commons))
	for i := range commons {
		out[i] = &model.ArmorAddon{Common: commons[i]}
	}
	return out, tel
}

// ReconstructActorValueInfos implements C6 for AVIF records.
func ReconstructActorValueInfos(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.ActorValueInfo, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagActorValueInfo, reconio.SmallBufferPool)
	out := make([]*model.ActorValueInfo, len(commons))
	for i := range commons {
		out[i] = &model.ActorValueInfo{Common: commons[i]}
	}
	return out, tel
}

// ReconstructWaters implements C6 for WATR records.
func ReconstructWaters(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Water, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagWater, reconio.SmallBufferPool)
	out := make([]*model.Water, len(commons))
	for i := range commons {
		out[i] = &model.Water{Common: commons[i]}
	}
	return out, tel
}

// ReconstructBodyPartData implements C6 for BPTD records.
func ReconstructBodyPartData(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.BodyPartData, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagBodyPartData, reconio.SmallBufferPool)
	out := make([]*model.BodyPartData, len(commons))
	for i := range commons {
		out[i] = &model.BodyPartData{Common: commons[i]}
	}
	return out, tel
}

// ReconstructCombatStyles implements C6 for CSTY records.
func ReconstructCombatStyles(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.CombatStyle, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagCombatStyle, reconio.SmallBufferPool)
	out := make([]*model.CombatStyle, len(commons))
	for i := range commons {
		out[i] = &model.CombatStyle{Common: commons[i]}
	}
	return out, tel
}

// ReconstructWeathers implements C6 for WTHR records.
func ReconstructWeathers(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Weather, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagWeather, reconio.SmallBufferPool)
	out := make([]*model.Weather, len(commons))
	for i := range commons {
		out[i] = &model.Weather{Common: commons[i]}
	}
	return out, tel
}

// ReconstructLightingTemplates implements C6 for LTEX records.
func ReconstructLightingTemplates(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.LightingTemplate, []scankit.TelemetryEvent) {
	commons, tel := ReconstructGeneric(ctx, headers, rectag.TagLightingTemplate, reconio.SmallBufferPool)
	out := make([]*model.LightingTemplate, len(commons))
	for i := range commons {
		out[i] = &model.LightingTemplate{Common: commons[i]}
	}
	return out, tel
}

// ReconstructNavMeshes implements C6 for NAVM records.
func ReconstructNavMeshes(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.NavMesh, []scankit.TelemetryEvent) {
	var out []*model.NavMesh
	var tel []scankit.TelemetryEvent
	tagXCLC2 := reccore.NewTag("CELL") // NAVM links to its owning cell via a form-id field
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.MediumBufferPool)
		tel = append(tel, t...)
		n := &model.NavMesh{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagXCLC2 && len(data) >= 4 {
					n.CellFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
				} else {
					decodeFallbackSubrecord(ctx, &n.Common, rectag.TagNavMesh, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&n.Common, ctx.Index)
		out = append(out, n)
	}
	return out, tel
}
