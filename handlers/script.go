package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

var (
	tagSCHR = reccore.NewTag("SCHR")
	tagSCTX = reccore.NewTag("SCTX") // source text
	tagSCDA = reccore.NewTag("SCDA") // compiled bytecode
	tagSLSD = reccore.NewTag("SLSD")
	tagSCVR = reccore.NewTag("SCVR")
	tagSCRO = reccore.NewTag("SCRO")
	tagSCRV = reccore.NewTag("SCRV")
)

// ReconstructScripts implements C9 pass 1 for SCPT records: everything up
// to and including the raw SCRO/SCRV table. Decompilation (pass 2) runs
// later once the cross-reference builder's variable database exists.
func ReconstructScripts(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.Script, []scankit.TelemetryEvent) {
	var out []*model.Script
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.MediumBufferPool)
		tel = append(tel, t...)
		s := &model.Script{Common: baseCommon(h, !ok)}
		if ok {
			endian := h.Endian()
			it := reconio.NewSubrecordIterator(body, endian)

			var pendingSLSDIndex *int32
			var pendingSLSDIsInt bool
			var pendingSCROFormID *reccore.FormID

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
				case tagSCHR:
					decodeScriptHeader(s, data, endian)
				case tagSCTX:
					src := string(data)
					s.SourceText = &src
				case tagSCDA:
					s.CompiledBytecode = append([]byte(nil), data...)
				case tagSLSD:
					if len(data) >= 8 {
						idx := reconio.I32(data, 0, endian)
						pendingSLSDIndex = &idx
						// byte 8 of the original 24-byte SLSD block carries the
						// integer-flag; this engine only stores the subset used
						// downstream, so the flag lives at offset 8 when present.
						pendingSLSDIsInt = len(data) > 8 && data[8] != 0
					}
				case tagSCVR:
					name := reconio.CString(data)
					if pendingSLSDIndex != nil {
						s.Variables = append(s.Variables, model.ScriptVariable{
							Index:     *pendingSLSDIndex,
							IsInteger: pendingSLSDIsInt,
							Name:      name,
						})
						pendingSLSDIndex = nil
					}
				case tagSCRO:
					if len(data) >= 4 {
						id := reconio.FormID(data, 0, endian)
						pendingSCROFormID = &id
					}
				case tagSCRV:
					if len(data) >= 4 {
						raw := reconio.U32(data, 0, endian)
						obj := decodeScriptReferencedObject(raw, pendingSCROFormID)
						s.ReferencedObjects = append(s.ReferencedObjects, obj)
						pendingSCROFormID = nil
					}
				default:
					decodeFallbackSubrecord(ctx, &s.Common, rectag.TagScript, sr.Tag, data, endian)
				}
			}
			// An SCRO with no following SCRV still names a referenced object
			// (the high bit is only meaningful on the SCRV-tagged slot); keep
			// it rather than dropping a valid cross-reference.
			if pendingSCROFormID != nil {
				s.ReferencedObjects = append(s.ReferencedObjects, model.ScriptReferencedObject{
					FormID: *pendingSCROFormID,
				})
			}
		}
		finalizeCommon(&s.Common, ctx.Index)
		out = append(out, s)
	}
	return out, tel
}

func decodeScriptHeader(s *model.Script, data []byte, endian reccore.Endian) {
	if len(data) < 20 {
		return
	}
	s.VariableCount = reconio.U32(data, 0, endian)
	s.ReferencedObjectCount = reconio.U32(data, 4, endian)
	s.CompiledSize = reconio.U32(data, 8, endian)
	s.LastVariableID = reconio.U32(data, 12, endian)
	flagWord := reconio.U32(data, 16, endian)
	s.Flags = [3]bool{flagWord&0x1 != 0, flagWord&0x2 != 0, flagWord&0x4 != 0}
}

// decodeScriptReferencedObject applies the high-bit tagging convention from
// spec.md §4.9: the value stored alongside SCRO's form-id is an SCRV
// variable index when its top bit is set, otherwise SCRO's form-id stands
// alone and the SCRV slot (if any) is a second, separate reference.
func decodeScriptReferencedObject(raw uint32, pendingFormID *reccore.FormID) model.ScriptReferencedObject {
	const highBit = uint32(1) << 31
	if raw&highBit != 0 {
		return model.ScriptReferencedObject{IsVariable: true, VarIndex: raw &^ highBit}
	}
	if pendingFormID != nil {
		return model.ScriptReferencedObject{FormID: *pendingFormID}
	}
	return model.ScriptReferencedObject{FormID: reccore.FormID(raw)}
}
