package xref

import (
	"sort"

	"github.com/samber/lo"

	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
)

// BuildDialogueForest implements spec.md §4.8 "Dialogue tree": group
// lines by topic, topics by quest; cross-link each line's choice/add
// topics to sibling TopicNodes; sort lines within a topic by runtime
// info index, and topics within a quest by priority descending then
// name. Topics with no quest land in the orphan bucket.
func BuildDialogueForest(topics []*model.DialogueTopic, lines []*model.DialogueLine) model.DialogueForest {
	linesByTopic := lo.GroupBy(
		lo.Filter(lines, func(l *model.DialogueLine, _ int) bool { return l.TopicFormID != nil }),
		func(l *model.DialogueLine) reccore.FormID { return *l.TopicFormID },
	)

	topicNodes := make(map[reccore.FormID]model.TopicNode, len(topics))
	for _, t := range topics {
		topicNodes[t.FormID] = buildTopicNode(t, linesByTopic[t.FormID])
	}

	topicsByQuest := lo.GroupBy(topics, func(t *model.DialogueTopic) reccore.FormID {
		if t.QuestFormID != nil {
			return *t.QuestFormID
		}
		return 0
	})

	var forest model.DialogueForest
	for questForm, questTopics := range topicsByQuest {
		nodes := make([]model.TopicNode, 0, len(questTopics))
		for _, t := range questTopics {
			nodes = append(nodes, topicNodes[t.FormID])
		}
		if questForm == 0 {
			sortTopicNodesByFormID(nodes)
			forest.OrphanTopics = append(forest.OrphanTopics, nodes...)
			continue
		}
		sortTopicsByPriorityThenName(nodes, questTopics)
		forest.Quests = append(forest.Quests, model.QuestDialogueTree{
			QuestFormID: questForm,
			Topics:      nodes,
		})
	}

	sort.Slice(forest.Quests, func(i, j int) bool {
		return forest.Quests[i].QuestFormID < forest.Quests[j].QuestFormID
	})

	return forest
}

func buildTopicNode(t *model.DialogueTopic, lines []*model.DialogueLine) model.TopicNode {
	sorted := append([]*model.DialogueLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RuntimeInfoIndex < sorted[j].RuntimeInfoIndex
	})
	node := model.TopicNode{TopicFormID: t.FormID}
	for _, l := range sorted {
		node.Lines = append(node.Lines, model.LineNode{
			LineFormID:     l.FormID,
			ChoiceTopicIDs: l.ChoiceTopicFormIDs,
			AddTopicIDs:    l.AddTopicFormIDs,
		})
	}
	return node
}

// sortTopicsByPriorityThenName reorders nodes (and the parallel topics
// slice used to read priority/name) by descending priority, then by
// ascending editor-id/display name, matching spec.md §4.8. Topics with no
// priority sort after every topic that has one; topics with no name sort
// by form-id as a final deterministic tiebreaker.
func sortTopicsByPriorityThenName(nodes []model.TopicNode, topics []*model.DialogueTopic) {
	byForm := byFormID(topics, func(t *model.DialogueTopic) reccore.FormID { return t.FormID })
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := byForm[nodes[i].TopicFormID], byForm[nodes[j].TopicFormID]
		pa, pb := topicPriority(a), topicPriority(b)
		if pa != pb {
			return pa > pb
		}
		na, nb := topicName(a), topicName(b)
		if na != nb {
			return na < nb
		}
		return a.FormID < b.FormID
	})
}

func sortTopicNodesByFormID(nodes []model.TopicNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].TopicFormID < nodes[j].TopicFormID
	})
}

func topicPriority(t *model.DialogueTopic) int32 {
	if t == nil || t.Priority == nil {
		return -1 << 31
	}
	return *t.Priority
}

func topicName(t *model.DialogueTopic) string {
	if t == nil {
		return ""
	}
	if t.EditorID != nil {
		return *t.EditorID
	}
	if t.FullName != nil {
		return *t.FullName
	}
	return ""
}
