package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

// ReconstructNPCs implements C6 for NPC_ records.
func ReconstructNPCs(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.NPC, []scankit.TelemetryEvent) {
	var out []*model.NPC
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		npc, t := reconstructNPC(ctx, h)
		out = append(out, npc)
		tel = append(tel, t...)
	}
	return out, tel
}

func reconstructNPC(ctx *Context, h reconio.MainRecordHeader) (*model.NPC, []scankit.TelemetryEvent) {
	body, ok, tel := readBody(ctx, h, reconio.MediumBufferPool)
	npc := &model.NPC{Common: baseCommon(h, !ok)}
	if !ok {
		finalizeCommon(&npc.Common, ctx.Index)
		return npc, tel
	}

	endian := h.Endian()
	it := reconio.NewSubrecordIterator(body, endian)
	it.OnMalformed = func(b []byte, at int) {
		tel = append(tel, telem("malformed-subrecord", h.FormID, "NPC_ subrecord malformed"))
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
		switch sr.Tag {
		case tagACBS:
			if len(data) >= 4 {
				lvl := int16(reconio.U16(data, 2, endian))
				npc.Level = &lvl
			}
		case tagSCRI:
			if len(data) >= 4 {
				npc.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
			}
		case tagRNAM:
			if len(data) >= 4 {
				npc.RaceFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
			}
		case tagXNAM:
			if len(data) >= 4 {
				npc.FactionFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
			}
		case tagDATA:
			if len(data) >= 8 {
				stats := decodeActorStats(data[:8])
				npc.Stats = &stats
			}
			if len(data) >= 12 {
				health := reconio.I32(data, 8, endian)
				npc.BaseHealth = &health
			}
		default:
			decodeFallbackSubrecord(ctx, &npc.Common, rectag.TagNPC, sr.Tag, data, endian)
		}
	}
	finalizeCommon(&npc.Common, ctx.Index)
	return npc, tel
}

// ReconstructCreatures implements C6 for CREA records.
func ReconstructCreatures(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Creature, []scankit.TelemetryEvent) {
	var out []*model.Creature
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		c, t := reconstructCreature(ctx, h)
		out = append(out, c)
		tel = append(tel, t...)
	}
	return out, tel
}

func reconstructCreature(ctx *Context, h reconio.MainRecordHeader) (*model.Creature, []scankit.TelemetryEvent) {
	body, ok, tel := readBody(ctx, h, reconio.MediumBufferPool)
	cr := &model.Creature{Common: baseCommon(h, !ok)}
	if !ok {
		finalizeCommon(&cr.Common, ctx.Index)
		return cr, tel
	}
	endian := h.Endian()
	it := reconio.NewSubrecordIterator(body, endian)
	it.OnMalformed = func(b []byte, at int) {
		tel = append(tel, telem("malformed-subrecord", h.FormID, "CREA subrecord malformed"))
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
		switch sr.Tag {
		case tagSCRI:
			if len(data) >= 4 {
				cr.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
			}
		case tagXNAM:
			if len(data) >= 4 {
				cr.FactionFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
			}
		case tagDATA:
			if len(data) >= 4 {
				health := reconio.I32(data, 0, endian)
				cr.BaseHealth = &health
			}
			if len(data) >= 5 {
				skill := int8(data[4])
				cr.CombatSkill = &skill
			}
		default:
			decodeFallbackSubrecord(ctx, &cr.Common, rectag.TagCreature, sr.Tag, data, endian)
		}
	}
	finalizeCommon(&cr.Common, ctx.Index)
	return cr, tel
}

func decodeActorStats(data []byte) model.ActorStats {
	return model.ActorStats{
		Strength:     int8(data[0]),
		Perception:   int8(data[1]),
		Endurance:    int8(data[2]),
		Charisma:     int8(data[3]),
		Intelligence: int8(data[4]),
		Agility:      int8(data[5]),
		Luck:         int8(data[6]),
	}
}

// ReconstructRaces implements C6 for RACE records.
func ReconstructRaces(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Race, []scankit.TelemetryEvent) {
	var out []*model.Race
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.MediumBufferPool)
		tel = append(tel, t...)
		r := &model.Race{Common: baseCommon(h, !ok)}
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
				if sr.Tag == tagDATA && len(data) >= 7 {
					stats := decodeActorStats(append(data[:7:7], 0))
					r.StartingStats = &stats
				} else {
					decodeFallbackSubrecord(ctx, &r.Common, rectag.TagRace, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&r.Common, ctx.Index)
		out = append(out, r)
	}
	return out, tel
}

// ReconstructFactions implements C6 for FACT records.
func ReconstructFactions(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Faction, []scankit.TelemetryEvent) {
	var out []*model.Faction
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		f := &model.Faction{Common: baseCommon(h, !ok)}
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
						f.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagXNAM:
					if len(data) >= 12 {
						f.Relations = append(f.Relations, model.FactionRelation{
							FactionFormID:       reconio.FormID(data, 0, endian),
							Modifier:            reconio.I32(data, 4, endian),
							GroupCombatReaction: reconio.I32(data, 8, endian),
						})
					}
				default:
					decodeFallbackSubrecord(ctx, &f.Common, rectag.TagFaction, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&f.Common, ctx.Index)
		out = append(out, f)
	}
	return out, tel
}
