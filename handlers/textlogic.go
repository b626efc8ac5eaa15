package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

var (
	tagDESC = reccore.NewTag("DESC") // free text (NOTE, TERM, MESG)
)

// ReconstructBooks implements C6 for BOOK records (spec.md Scenario B is
// this handler's literal compressed-record test).
func ReconstructBooks(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Book, []scankit.TelemetryEvent) {
	var out []*model.Book
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		b := &model.Book{Common: baseCommon(h, !ok)}
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
						b.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDESC:
					s := reconio.DecodeLocalizedText(data)
					b.Text = &s
				case tagDATA:
					if fields, ok := ctx.Registry.Decode(tagDATA, rectag.TagBook, data, endian); ok {
						if v, ok := fields["flags"].(uint8); ok {
							b.Flags = &v
						}
						if v, ok := fields["skill"].(int8); ok {
							b.Skill = &v
						}
						if v, ok := fields["value"].(int32); ok {
							b.Value = &v
						}
						if v, ok := fields["weight"].(float32); ok {
							b.Weight = &v
						}
					}
				default:
					decodeFallbackSubrecord(ctx, &b.Common, rectag.TagBook, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&b.Common, ctx.Index)
		out = append(out, b)
	}
	return out, tel
}

// reconstructTextOnly is shared by NOTE, TERM, and MESG: an identity plus a
// single free-text subrecord, nothing kind-specific beyond that in
// spec.md's representative kind list.
func reconstructTextOnly(ctx *Context, headers []reconio.MainRecordHeader, parent reccore.Tag) (commons []model.Common, texts []*string, tel []scankit.TelemetryEvent) {
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		com := baseCommon(h, !ok)
		var text *string
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
				if sr.Tag == tagDESC {
					s := reconio.DecodeLocalizedText(data)
					text = &s
				} else {
					decodeFallbackSubrecord(ctx, &com, parent, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&com, ctx.Index)
		commons = append(commons, com)
		texts = append(texts, text)
	}
	return commons, texts, tel
}

// ReconstructNotes implements C6 for NOTE records.
func ReconstructNotes(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Note, []scankit.TelemetryEvent) {
	commons, texts, tel := reconstructTextOnly(ctx, headers, rectag.TagNote)
	out := make([]*model.Note, len(commons))
	for i := range commons {
		out[i] = &model.Note{Common: commons[i], Text: texts[i]}
	}
	return out, tel
}

// ReconstructTerminals implements C6 for TERM records.
func ReconstructTerminals(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Terminal, []scankit.TelemetryEvent) {
	commons, texts, tel := reconstructTextOnly(ctx, headers, rectag.TagTerminal)
	out := make([]*model.Terminal, len(commons))
	for i := range commons {
		out[i] = &model.Terminal{Common: commons[i], Text: texts[i]}
	}
	return out, tel
}

// ReconstructMessages implements C6 for MESG records.
func ReconstructMessages(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Message, []scankit.TelemetryEvent) {
	commons, texts, tel := reconstructTextOnly(ctx, headers, rectag.TagMessage)
	out := make([]*model.Message, len(commons))
	for i := range commons {
		out[i] = &model.Message{Common: commons[i], Text: texts[i]}
	}
	return out, tel
}

// ReconstructQuests implements C6 for QUST records.
func ReconstructQuests(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Quest, []scankit.TelemetryEvent) {
	var out []*model.Quest
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		q := &model.Quest{Common: baseCommon(h, !ok)}
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
						q.ScriptFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if len(data) >= 2 {
						p := int32(data[1])
						q.Priority = &p
					}
				default:
					decodeFallbackSubrecord(ctx, &q.Common, rectag.TagQuest, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&q.Common, ctx.Index)
		out = append(out, q)
	}
	return out, tel
}
