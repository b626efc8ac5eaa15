package xref

import (
	"testing"

	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
)

func TestLinkDialogueGroupHeaderLinking(t *testing.T) {
	topic := &model.DialogueTopic{
		Common:      model.Common{FormID: 0x10},
		QuestFormID: model.SomeFormID(0x1),
	}
	line := &model.DialogueLine{Common: model.Common{FormID: 0x20}}

	groups := map[reccore.FormID][]reccore.FormID{0x10: {0x20}}

	out := LinkDialogue([]*model.DialogueTopic{topic}, []*model.DialogueLine{line}, nil, groups, nil, nil)

	if len(out) != 1 {
		t.Fatalf("got %d lines, want 1", len(out))
	}
	if out[0].TopicFormID == nil || *out[0].TopicFormID != 0x10 {
		t.Errorf("TopicFormID = %v, want 0x10", out[0].TopicFormID)
	}
	if out[0].QuestFormID == nil || *out[0].QuestFormID != 0x1 {
		t.Errorf("QuestFormID = %v, want 0x1 (inherited from the topic's quest)", out[0].QuestFormID)
	}
}

func TestLinkDialogueEditorIDConvention(t *testing.T) {
	quest := &model.Quest{Common: model.Common{FormID: 0x1, EditorID: strPtr("MQ100")}}
	line := &model.DialogueLine{Common: model.Common{FormID: 0x20, EditorID: strPtr("MQ100Greeting")}}

	out := LinkDialogue(nil, []*model.DialogueLine{line}, []*model.Quest{quest}, nil, nil, nil)

	if out[0].QuestFormID == nil || *out[0].QuestFormID != 0x1 {
		t.Errorf("QuestFormID = %v, want 0x1 via editor-id prefix match", out[0].QuestFormID)
	}
}

func TestLinkDialogueEditorIDConventionLongestPrefixWins(t *testing.T) {
	short := &model.Quest{Common: model.Common{FormID: 0x1, EditorID: strPtr("MQ")}}
	long := &model.Quest{Common: model.Common{FormID: 0x2, EditorID: strPtr("MQ100")}}
	line := &model.DialogueLine{Common: model.Common{FormID: 0x20, EditorID: strPtr("MQ100Greeting")}}

	out := LinkDialogue(nil, []*model.DialogueLine{line}, []*model.Quest{short, long}, nil, nil, nil)

	if out[0].QuestFormID == nil || *out[0].QuestFormID != 0x2 {
		t.Errorf("QuestFormID = %v, want 0x2 (longest matching prefix)", out[0].QuestFormID)
	}
}

func TestLinkDialogueTopicSpeakerPropagation(t *testing.T) {
	topic := &model.DialogueTopic{
		Common:        model.Common{FormID: 0x10},
		SpeakerFormID: model.SomeFormID(0x99),
	}
	line := &model.DialogueLine{Common: model.Common{FormID: 0x20}, TopicFormID: model.SomeFormID(0x10)}

	out := LinkDialogue([]*model.DialogueTopic{topic}, []*model.DialogueLine{line}, nil, nil, nil, nil)

	if out[0].SpeakerFormID == nil || *out[0].SpeakerFormID != 0x99 {
		t.Errorf("SpeakerFormID = %v, want 0x99 inherited from the topic", out[0].SpeakerFormID)
	}
}

func TestLinkDialogueSiblingMajorityPropagation(t *testing.T) {
	topic := &model.DialogueTopic{Common: model.Common{FormID: 0x10}}
	// Three siblings under the same topic; two agree on a speaker (66%,
	// above the 50% threshold), the third has none.
	a := &model.DialogueLine{Common: model.Common{FormID: 0x21}, TopicFormID: model.SomeFormID(0x10), SpeakerFormID: model.SomeFormID(0x50)}
	b := &model.DialogueLine{Common: model.Common{FormID: 0x22}, TopicFormID: model.SomeFormID(0x10), SpeakerFormID: model.SomeFormID(0x50)}
	c := &model.DialogueLine{Common: model.Common{FormID: 0x23}, TopicFormID: model.SomeFormID(0x10)}

	out := LinkDialogue([]*model.DialogueTopic{topic}, []*model.DialogueLine{a, b, c}, nil, nil, nil, nil)

	var line3 *model.DialogueLine
	for _, l := range out {
		if l.FormID == 0x23 {
			line3 = l
		}
	}
	if line3 == nil {
		t.Fatal("line 0x23 missing from output")
	}
	if line3.SpeakerFormID == nil || *line3.SpeakerFormID != 0x50 {
		t.Errorf("SpeakerFormID = %v, want 0x50 propagated from the sibling majority", line3.SpeakerFormID)
	}
}

func TestLinkDialogueSiblingMinorityDoesNotPropagate(t *testing.T) {
	topic := &model.DialogueTopic{Common: model.Common{FormID: 0x10}}
	// Only one of three siblings has a speaker: 33%, below the 50%
	// threshold, so nothing should propagate.
	a := &model.DialogueLine{Common: model.Common{FormID: 0x21}, TopicFormID: model.SomeFormID(0x10), SpeakerFormID: model.SomeFormID(0x50)}
	b := &model.DialogueLine{Common: model.Common{FormID: 0x22}, TopicFormID: model.SomeFormID(0x10)}
	c := &model.DialogueLine{Common: model.Common{FormID: 0x23}, TopicFormID: model.SomeFormID(0x10)}

	out := LinkDialogue([]*model.DialogueTopic{topic}, []*model.DialogueLine{a, b, c}, nil, nil, nil, nil)

	for _, l := range out {
		if l.FormID != 0x21 && l.SpeakerFormID != nil {
			t.Errorf("line %v unexpectedly got a propagated speaker: %v", l.FormID, *l.SpeakerFormID)
		}
	}
}

func TestLinkDialogueQuestLevelPropagation(t *testing.T) {
	// Three lines share a quest; two agree on a voice type (66%, above the
	// 60% threshold for quest-level propagation).
	a := &model.DialogueLine{Common: model.Common{FormID: 0x21}, QuestFormID: model.SomeFormID(0x1), VoiceTypeFormID: model.SomeFormID(0x77)}
	b := &model.DialogueLine{Common: model.Common{FormID: 0x22}, QuestFormID: model.SomeFormID(0x1), VoiceTypeFormID: model.SomeFormID(0x77)}
	c := &model.DialogueLine{Common: model.Common{FormID: 0x23}, QuestFormID: model.SomeFormID(0x1)}

	out := LinkDialogue(nil, []*model.DialogueLine{a, b, c}, nil, nil, nil, nil)

	var line3 *model.DialogueLine
	for _, l := range out {
		if l.FormID == 0x23 {
			line3 = l
		}
	}
	if line3 == nil || line3.VoiceTypeFormID == nil || *line3.VoiceTypeFormID != 0x77 {
		t.Errorf("expected quest-level voice-type propagation to reach line 0x23, got %v", line3)
	}
}

func strPtr(s string) *string { return &s }
