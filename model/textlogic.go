package model

import "github.com/vaultrecon/semrecon/model/reccore"

// Book is a reconstructed book/magazine/skill-book record.
type Book struct {
	Common

	ScriptFormID OptionFormID

	Flags  *uint8
	Skill  *int8
	Value  *int32
	Weight *float32

	Text *string
}

// Note is a reconstructed holotape/note record.
type Note struct {
	Common

	Text *string
}

// Terminal is a reconstructed terminal record.
type Terminal struct {
	Common

	Text *string
}

// Message is a reconstructed in-game message record.
type Message struct {
	Common

	Text *string
}

// Script is a reconstructed script record (spec.md §4.9).
type Script struct {
	Common

	VariableCount         uint32
	ReferencedObjectCount uint32
	CompiledSize          uint32
	LastVariableID        uint32
	Flags                 [3]bool

	SourceText      *string
	CompiledBytecode []byte `json:",omitempty"`

	// Variables is indexed by SLSD's local variable index.
	Variables []ScriptVariable `json:",omitempty"`

	// ReferencedObjects is the SCRO/SCRV table: a form-id (tagged with the
	// high bit clear) or a referenced variable index (tagged with the high
	// bit set), per spec.md §4.9.
	ReferencedObjects []ScriptReferencedObject `json:",omitempty"`

	// DecompiledText is populated by the pass-2 decompiler (C9); nil until
	// that pass runs, or if CompiledBytecode is empty.
	DecompiledText *string
}

// ScriptVariable is one local variable declared by a script (an SLSD/SCVR
// pair).
type ScriptVariable struct {
	Index     int32
	IsInteger bool
	Name      string
}

// ScriptReferencedObject is one SCRO/SCRV entry. Exactly one of FormID or
// VarIndex is meaningful, discriminated by IsVariable — mirroring the
// original encoding's use of the stored value's high bit (spec.md §4.9).
type ScriptReferencedObject struct {
	IsVariable bool
	FormID     reccore.FormID
	VarIndex   uint32
}

// DialogueTopic is a reconstructed dialogue topic (DIAL) record.
type DialogueTopic struct {
	Common

	QuestFormID   OptionFormID
	SpeakerFormID OptionFormID

	// Priority orders this topic within its quest's dialogue tree, from the
	// topic's own DATA subrecord (spec.md §4.8: "sort topics in a quest by
	// priority descending, then name"). Nil if no DATA subrecord was found.
	Priority *int32

	// LineFormIDs is this topic's lines, resolved during cross-reference
	// building (spec.md §4.8).
	LineFormIDs []reccore.FormID `json:",omitempty"`
}

// DialogueLine is a reconstructed dialogue line (INFO) record.
type DialogueLine struct {
	Common

	TopicFormID   OptionFormID
	QuestFormID   OptionFormID
	SpeakerFormID OptionFormID
	VoiceTypeFormID OptionFormID
	FactionFormID OptionFormID

	EmotionValue *int32

	Responses []DialogueResponse `json:",omitempty"`

	// ChoiceTopicFormIDs / AddTopicFormIDs are cross-linked into the
	// dialogue tree (spec.md §4.8 "Dialogue tree").
	ChoiceTopicFormIDs []reccore.FormID `json:",omitempty"`
	AddTopicFormIDs    []reccore.FormID `json:",omitempty"`

	// RuntimeInfoIndex orders lines within a topic (spec.md §4.8).
	RuntimeInfoIndex int32
}

// DialogueResponse is one NAM1 response line under an INFO/TRDT pair.
type DialogueResponse struct {
	Text string
}

// Quest is a reconstructed quest record.
type Quest struct {
	Common

	ScriptFormID OptionFormID
	Priority     *int32
}
