package handlers

import (
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

var (
	tagANAM = reccore.NewTag("ANAM") // speaker form-id (DIAL, INFO)
	tagQSTI = reccore.NewTag("QSTI") // owning quest form-id
	tagVNAM = reccore.NewTag("VNAM") // voice-type form-id
	tagTCLT = reccore.NewTag("TCLT") // choice topic form-id
	tagTCLF = reccore.NewTag("TCLF") // add topic form-id
	tagNAM1 = reccore.NewTag("NAM1") // response text
	tagTRDT = reccore.NewTag("TRDT") // response data (emotion value)
	tagNAME = reccore.NewTag("NAME") // owning topic form-id, on INFO
)

// ReconstructDialogueTopics implements C6 for DIAL records.
func ReconstructDialogueTopics(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.DialogueTopic, []scankit.TelemetryEvent) {
	var out []*model.DialogueTopic
	var tel []scankit.TelemetryEvent
	for _, h := range headers {
		body, ok, t := readBody(ctx, h, reconio.SmallBufferPool)
		tel = append(tel, t...)
		d := &model.DialogueTopic{Common: baseCommon(h, !ok)}
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
				case tagQSTI:
					if len(data) >= 4 {
						d.QuestFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagANAM:
					if len(data) >= 4 {
						d.SpeakerFormID = model.SomeFormID(reconio.FormID(data, 0, endian))
					}
				case tagDATA:
					if len(data) >= 2 {
						p := int32(data[1])
						d.Priority = &p
					}
				default:
					decodeFallbackSubrecord(ctx, &d.Common, rectag.TagDialogueTopic, sr.Tag, data, endian)
				}
			}
		}
		finalizeCommon(&d.Common, ctx.Index)
		out = append(out, d)
	}
	return out, tel
}

// dialogueLineFragment is one image record's contribution to a dialogue
// line before the merge pass. Xbox 360 image captures sometimes split one
// logical INFO record's subrecords across two main-record headers sharing
// the same form-id (spec.md Scenario D); this engine never assumes one
// header per line for this kind.
type dialogueLineFragment struct {
	header reconio.MainRecordHeader
	ok     bool

	topicFormID     *reccore.FormID
	questFormID     *reccore.FormID
	speakerFormID   *reccore.FormID
	voiceTypeFormID *reccore.FormID
	factionFormID   *reccore.FormID
	emotionValue    *int32
	responses       []model.DialogueResponse
	choiceTopics    []reccore.FormID
	addTopics       []reccore.FormID
	raw             map[string][]byte
}

func decodeDialogueLineFragment(ctx *Context, h reconio.MainRecordHeader) (dialogueLineFragment, []scankit.TelemetryEvent) {
	body, ok, tel := readBody(ctx, h, reconio.SmallBufferPool)
	frag := dialogueLineFragment{header: h, ok: ok}
	if !ok {
		return frag, tel
	}
	endian := h.Endian()
	var pendingEmotion *int32
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
		case tagNAME:
			if len(data) >= 4 {
				id := reconio.FormID(data, 0, endian)
				frag.topicFormID = &id
			}
		case tagQSTI:
			if len(data) >= 4 {
				id := reconio.FormID(data, 0, endian)
				frag.questFormID = &id
			}
		case tagANAM:
			if len(data) >= 4 {
				id := reconio.FormID(data, 0, endian)
				frag.speakerFormID = &id
			}
		case tagVNAM:
			if len(data) >= 4 {
				id := reconio.FormID(data, 0, endian)
				frag.voiceTypeFormID = &id
			}
		case tagFNAM:
			if len(data) >= 4 {
				id := reconio.FormID(data, 0, endian)
				frag.factionFormID = &id
			}
		case tagTCLT:
			if len(data) >= 4 {
				frag.choiceTopics = append(frag.choiceTopics, reconio.FormID(data, 0, endian))
			}
		case tagTCLF:
			if len(data) >= 4 {
				frag.addTopics = append(frag.addTopics, reconio.FormID(data, 0, endian))
			}
		case tagTRDT:
			if len(data) >= 8 {
				v := reconio.I32(data, 4, endian)
				pendingEmotion = &v
			}
		case tagNAM1:
			resp := model.DialogueResponse{Text: reconio.DecodeLocalizedText(data)}
			frag.responses = append(frag.responses, resp)
			if pendingEmotion != nil {
				frag.emotionValue = pendingEmotion
				pendingEmotion = nil
			}
		default:
			if _, handled := commonTagFallback(sr.Tag, data, endian); handled {
				continue
			}
			storeRaw(&frag.raw, sr.Tag, data)
		}
	}
	return frag, tel
}

// ReconstructDialogueLines implements C6 for INFO records, including the
// split-record merge from spec.md Scenario D: every fragment sharing a
// form-id is merged into one DialogueLine, first-fragment-wins for every
// field -- scalars and the response/choice-topic/add-topic lists alike --
// so a fragment with nothing new to contribute never changes the result
// (the §8 round-trip law MergeSplitInfoRecords(xs+xs)=MergeSplitInfoRecords(xs)),
// before group-map and runtime-derived linking (§4.8) ever runs.
func ReconstructDialogueLines(ctx *Context, headers []reconio.MainRecordHeader) ([]*model.DialogueLine, []scankit.TelemetryEvent) {
	var order []reccore.FormID
	fragments := make(map[reccore.FormID][]dialogueLineFragment)
	var tel []scankit.TelemetryEvent

	for _, h := range headers {
		frag, t := decodeDialogueLineFragment(ctx, h)
		tel = append(tel, t...)
		if _, seen := fragments[h.FormID]; !seen {
			order = append(order, h.FormID)
		}
		fragments[h.FormID] = append(fragments[h.FormID], frag)
	}

	out := make([]*model.DialogueLine, 0, len(order))
	for _, formID := range order {
		frags := fragments[formID]
		line := mergeDialogueLineFragments(formID, frags)
		finalizeCommon(&line.Common, ctx.Index)
		out = append(out, line)
	}
	return out, tel
}

func mergeDialogueLineFragments(formID reccore.FormID, frags []dialogueLineFragment) *model.DialogueLine {
	anyOK := false
	for _, f := range frags {
		if f.ok {
			anyOK = true
			break
		}
	}
	line := &model.DialogueLine{Common: baseCommon(frags[0].header, !anyOK)}

	for _, f := range frags {
		if !f.ok {
			continue
		}
		if line.TopicFormID == nil && f.topicFormID != nil {
			line.TopicFormID = model.SomeFormID(*f.topicFormID)
		}
		if line.QuestFormID == nil && f.questFormID != nil {
			line.QuestFormID = model.SomeFormID(*f.questFormID)
		}
		if line.SpeakerFormID == nil && f.speakerFormID != nil {
			line.SpeakerFormID = model.SomeFormID(*f.speakerFormID)
		}
		if line.VoiceTypeFormID == nil && f.voiceTypeFormID != nil {
			line.VoiceTypeFormID = model.SomeFormID(*f.voiceTypeFormID)
		}
		if line.FactionFormID == nil && f.factionFormID != nil {
			line.FactionFormID = model.SomeFormID(*f.factionFormID)
		}
		if line.EmotionValue == nil && f.emotionValue != nil {
			line.EmotionValue = f.emotionValue
		}
		if len(line.Responses) == 0 && len(f.responses) != 0 {
			line.Responses = f.responses
		}
		if len(line.ChoiceTopicFormIDs) == 0 && len(f.choiceTopics) != 0 {
			line.ChoiceTopicFormIDs = f.choiceTopics
		}
		if len(line.AddTopicFormIDs) == 0 && len(f.addTopics) != 0 {
			line.AddTopicFormIDs = f.addTopics
		}
		for tag, raw := range f.raw {
			if line.RawSubrecords == nil {
				line.RawSubrecords = make(map[string][]byte)
			}
			if _, exists := line.RawSubrecords[tag]; !exists {
				line.RawSubrecords[tag] = raw
			}
		}
	}
	return line
}
