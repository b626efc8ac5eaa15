package model

import "github.com/vaultrecon/semrecon/model/reccore"

// DialogueForest is the per-quest dialogue trees plus the orphan-topic
// bucket (spec.md §4.8 "Dialogue tree"). Built by package xref (C8) and
// carried on the root result.
type DialogueForest struct {
	Quests       []QuestDialogueTree
	OrphanTopics []TopicNode
}

// QuestDialogueTree is one quest's topics, sorted by priority descending
// then name (spec.md §4.8).
type QuestDialogueTree struct {
	QuestFormID reccore.FormID
	Topics      []TopicNode
}

// TopicNode is one topic and its lines, sorted by runtime info index
// (spec.md §4.8).
type TopicNode struct {
	TopicFormID reccore.FormID
	Lines       []LineNode
}

// LineNode is one dialogue line within a TopicNode, with its cross-linked
// choice/add topics resolved to sibling TopicNodes' form-ids.
type LineNode struct {
	LineFormID     reccore.FormID
	ChoiceTopicIDs []reccore.FormID
	AddTopicIDs    []reccore.FormID
}
