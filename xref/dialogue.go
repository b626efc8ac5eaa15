package xref

import (
	"strings"

	"github.com/samber/lo"

	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/scankit"
)

// LinkDialogue runs the dialogue-linking cascade of spec.md §4.8, steps 1
// through 6 in order. It returns the final line slice, which may be
// longer than the input if the runtime topic walk (step 2) discovers
// lines with no image record at all.
func LinkDialogue(
	topics []*model.DialogueTopic,
	lines []*model.DialogueLine,
	quests []*model.Quest,
	topicLineGroups map[reccore.FormID][]reccore.FormID,
	topicRuntimeEntries []scankit.RuntimeEntry,
	reader scankit.RuntimeReader,
) []*model.DialogueLine {
	topicsByID := byFormID(topics, func(t *model.DialogueTopic) reccore.FormID { return t.FormID })
	lineByID := byFormID(lines, func(l *model.DialogueLine) reccore.FormID { return l.FormID })
	order := make([]reccore.FormID, len(lines))
	for i, l := range lines {
		order[i] = l.FormID
	}

	// 1. Group-header-based linking.
	applyGroupHeaderLinks(lineByID, topicsByID, topicLineGroups)

	// 2. Runtime topic walk, discovering lines absent from the image.
	if reader != nil {
		runtimeTopicWalk(lineByID, &order, topicRuntimeEntries, reader)
	}

	out := make([]*model.DialogueLine, len(order))
	for i, form := range order {
		out[i] = lineByID[form]
	}

	// 3. Editor-id convention.
	applyEditorIDConvention(out, quests)

	// 4. Topic-level speaker propagation.
	applyTopicSpeakerPropagation(out, topicsByID)

	// 5. Sibling propagation, per topic, threshold >= 50%.
	bySpeakerThenVoiceThenFaction := []string{"speaker", "voice", "faction"}
	linesByTopic := lo.GroupBy(
		lo.Filter(out, func(l *model.DialogueLine, _ int) bool { return l.TopicFormID != nil }),
		func(l *model.DialogueLine) reccore.FormID { return *l.TopicFormID },
	)
	for _, group := range linesByTopic {
		majorityPropagate(group, 0.5, bySpeakerThenVoiceThenFaction)
	}

	// 6. Quest-level propagation, threshold >= 60%.
	voiceThenFactionThenSpeaker := []string{"voice", "faction", "speaker"}
	linesByQuest := lo.GroupBy(
		lo.Filter(out, func(l *model.DialogueLine, _ int) bool { return l.QuestFormID != nil }),
		func(l *model.DialogueLine) reccore.FormID { return *l.QuestFormID },
	)
	for _, group := range linesByQuest {
		majorityPropagate(group, 0.6, voiceThenFactionThenSpeaker)
	}

	return out
}

func applyGroupHeaderLinks(lineByID map[reccore.FormID]*model.DialogueLine, topicsByID map[reccore.FormID]*model.DialogueTopic, groups map[reccore.FormID][]reccore.FormID) {
	for topicForm, lineIDs := range groups {
		topic, hasTopic := topicsByID[topicForm]
		for _, lineForm := range lineIDs {
			line, ok := lineByID[lineForm]
			if !ok {
				continue
			}
			if line.TopicFormID == nil {
				line.TopicFormID = model.SomeFormID(topicForm)
			}
			if hasTopic && topic.QuestFormID != nil && line.QuestFormID == nil {
				line.QuestFormID = model.SomeFormID(*topic.QuestFormID)
			}
		}
	}
}

// runtimeTopicWalk implements spec.md §4.8 step 2: follow each topic's
// live quest-info linked list, attaching topic/quest to every line
// pointer found, creating the line if no image record produced it.
func runtimeTopicWalk(lineByID map[reccore.FormID]*model.DialogueLine, order *[]reccore.FormID, topicEntries []scankit.RuntimeEntry, reader scankit.RuntimeReader) {
	for _, te := range topicEntries {
		topicForm := te.FormID
		for _, qi := range reader.WalkTopicQuestInfoList(te) {
			for _, va := range qi.InfoPointers {
				rl, ok := reader.ReadDialogueInfoFromVA(va)
				if !ok {
					continue
				}
				if existing, seen := lineByID[rl.FormID]; seen {
					if existing.TopicFormID == nil {
						existing.TopicFormID = model.SomeFormID(topicForm)
					}
					if existing.QuestFormID == nil {
						existing.QuestFormID = model.SomeFormID(qi.QuestFormID)
					}
					continue
				}
				rl.TopicFormID = model.SomeFormID(topicForm)
				rl.QuestFormID = model.SomeFormID(qi.QuestFormID)
				rl.FromRuntime = true
				lineByID[rl.FormID] = rl
				*order = append(*order, rl.FormID)
			}
		}
	}
}

// applyEditorIDConvention implements spec.md §4.8 step 3: a line with no
// quest yet matches its editor-id against the longest quest editor-id
// prefix among all quests.
func applyEditorIDConvention(lines []*model.DialogueLine, quests []*model.Quest) {
	for _, line := range lines {
		if line.QuestFormID != nil || line.EditorID == nil {
			continue
		}
		var best *model.Quest
		bestLen := -1
		for _, q := range quests {
			if q.EditorID == nil {
				continue
			}
			if strings.HasPrefix(*line.EditorID, *q.EditorID) && len(*q.EditorID) > bestLen {
				best = q
				bestLen = len(*q.EditorID)
			}
		}
		if best != nil {
			line.QuestFormID = model.SomeFormID(best.FormID)
		}
	}
}

func applyTopicSpeakerPropagation(lines []*model.DialogueLine, topicsByID map[reccore.FormID]*model.DialogueTopic) {
	for _, line := range lines {
		if line.TopicFormID == nil || line.SpeakerFormID != nil {
			continue
		}
		topic, ok := topicsByID[*line.TopicFormID]
		if !ok || topic.SpeakerFormID == nil {
			continue
		}
		line.SpeakerFormID = model.SomeFormID(*topic.SpeakerFormID)
	}
}

// majorityPropagate implements the shared shape of spec.md §4.8 steps 5
// and 6: for each attribute in attrs, in order, if at least threshold of
// group's lines agree on a non-nil value, propagate it to the lines that
// lack one.
func majorityPropagate(group []*model.DialogueLine, threshold float64, attrs []string) {
	if len(group) == 0 {
		return
	}
	for _, attr := range attrs {
		get, set := lineAttrAccessor(attr)
		counts := make(map[reccore.FormID]int)
		for _, l := range group {
			if v := get(l); v != nil {
				counts[*v]++
			}
		}
		var majority reccore.FormID
		var majorityCount int
		var haveMajority bool
		for v, c := range counts {
			if c > majorityCount || (c == majorityCount && haveMajority && v < majority) {
				majority, majorityCount, haveMajority = v, c, true
			}
		}
		if majorityCount == 0 || float64(majorityCount)/float64(len(group)) < threshold {
			continue
		}
		for _, l := range group {
			if get(l) == nil {
				set(l, majority)
			}
		}
	}
}

func lineAttrAccessor(attr string) (get func(*model.DialogueLine) *reccore.FormID, set func(*model.DialogueLine, reccore.FormID)) {
	switch attr {
	case "speaker":
		return func(l *model.DialogueLine) *reccore.FormID { return l.SpeakerFormID },
			func(l *model.DialogueLine, v reccore.FormID) { l.SpeakerFormID = model.SomeFormID(v) }
	case "voice":
		return func(l *model.DialogueLine) *reccore.FormID { return l.VoiceTypeFormID },
			func(l *model.DialogueLine, v reccore.FormID) { l.VoiceTypeFormID = model.SomeFormID(v) }
	case "faction":
		return func(l *model.DialogueLine) *reccore.FormID { return l.FactionFormID },
			func(l *model.DialogueLine, v reccore.FormID) { l.FactionFormID = model.SomeFormID(v) }
	}
	panic("xref: unknown dialogue attribute " + attr)
}
