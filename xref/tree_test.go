package xref

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vaultrecon/semrecon/model"
)

func TestBuildDialogueForestIsDeterministic(t *testing.T) {
	topics := []*model.DialogueTopic{
		{Common: model.Common{FormID: 0x10, EditorID: strPtr("TopicB")}, QuestFormID: model.SomeFormID(0x1), Priority: int32Ptr(5)},
		{Common: model.Common{FormID: 0x11, EditorID: strPtr("TopicA")}, QuestFormID: model.SomeFormID(0x1), Priority: int32Ptr(5)},
		{Common: model.Common{FormID: 0x20}}, // orphan: no quest
	}
	lines := []*model.DialogueLine{
		{Common: model.Common{FormID: 0x30}, TopicFormID: model.SomeFormID(0x10), RuntimeInfoIndex: 1},
		{Common: model.Common{FormID: 0x31}, TopicFormID: model.SomeFormID(0x10), RuntimeInfoIndex: 0},
	}

	forest1 := BuildDialogueForest(topics, lines)
	forest2 := BuildDialogueForest(topics, lines)

	if diff := cmp.Diff(forest1, forest2); diff != "" {
		t.Errorf("BuildDialogueForest is not deterministic across repeated calls (-first +second):\n%s", diff)
	}
}

func TestBuildDialogueForestOrdersTopicsByPriorityThenName(t *testing.T) {
	topics := []*model.DialogueTopic{
		{Common: model.Common{FormID: 0x10, EditorID: strPtr("TopicB")}, QuestFormID: model.SomeFormID(0x1), Priority: int32Ptr(5)},
		{Common: model.Common{FormID: 0x11, EditorID: strPtr("TopicA")}, QuestFormID: model.SomeFormID(0x1), Priority: int32Ptr(5)},
		{Common: model.Common{FormID: 0x12, EditorID: strPtr("TopicHighest")}, QuestFormID: model.SomeFormID(0x1), Priority: int32Ptr(10)},
	}

	forest := BuildDialogueForest(topics, nil)
	if len(forest.Quests) != 1 {
		t.Fatalf("got %d quest trees, want 1", len(forest.Quests))
	}
	nodes := forest.Quests[0].Topics
	want := []uint32{0x12, 0x11, 0x10} // highest priority first, then name ascending among ties
	for i, w := range want {
		if uint32(nodes[i].TopicFormID) != w {
			t.Errorf("topic[%d] = %#x, want %#x (order: %v)", i, uint32(nodes[i].TopicFormID), w, nodes)
		}
	}
}

func TestBuildDialogueForestLinesSortedByRuntimeInfoIndex(t *testing.T) {
	topics := []*model.DialogueTopic{{Common: model.Common{FormID: 0x10}}}
	lines := []*model.DialogueLine{
		{Common: model.Common{FormID: 0x30}, TopicFormID: model.SomeFormID(0x10), RuntimeInfoIndex: 2},
		{Common: model.Common{FormID: 0x31}, TopicFormID: model.SomeFormID(0x10), RuntimeInfoIndex: 0},
		{Common: model.Common{FormID: 0x32}, TopicFormID: model.SomeFormID(0x10), RuntimeInfoIndex: 1},
	}

	forest := BuildDialogueForest(topics, lines)
	if len(forest.OrphanTopics) != 1 {
		t.Fatalf("got %d orphan topics, want 1", len(forest.OrphanTopics))
	}
	node := forest.OrphanTopics[0]
	want := []uint32{0x31, 0x32, 0x30}
	for i, w := range want {
		if uint32(node.Lines[i].LineFormID) != w {
			t.Errorf("line[%d] = %#x, want %#x", i, uint32(node.Lines[i].LineFormID), w)
		}
	}
}

func int32Ptr(v int32) *int32 { return &v }
