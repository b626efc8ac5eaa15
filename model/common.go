// Package model contains the reconstructed entity types, one struct per
// record kind from spec.md §3, grouped into files by domain area
// (actors, items, world, abilities, textlogic, data, scenery).
//
// Every type follows the "nullable on absent" pattern from spec.md §9:
// optional fields are explicit pointer or Option types, never a zero value
// standing in for "not present". This matters because for several kinds
// (doors, activators, furniture) a present-but-zero field and an
// altogether-absent field are observably different behaviors in the
// original engine.
package model

import "github.com/vaultrecon/semrecon/model/reccore"

// Common is embedded in every reconstructed entity. It carries the fields
// every record kind has regardless of its own fields: identity, the two
// provenance flags, and the optional raw-offset/endianness pair kept for
// shallow records and debugging.
type Common struct {
	// FormID is never zero for a reconstructed entity (spec.md §3).
	FormID reccore.FormID

	// EditorID is nil if no EDID subrecord (or runtime editor-id entry)
	// was found for this form-id.
	EditorID *string

	// FullName is the display/full name, nil if none was found.
	FullName *string

	// FromImage reports whether any field on this entity was populated
	// from a parsed image record.
	FromImage bool

	// FromRuntime reports whether any field on this entity was populated
	// from a runtime-table entry (spec.md §3).
	FromRuntime bool

	// Shallow reports whether this entity is the shallow variant: no
	// accessor was available, or ReadRecordData failed, so only identity
	// fields are populated (spec.md §4.6).
	Shallow bool

	// Offset is the image byte offset of this entity's main record header,
	// if it has one (zero for a purely runtime-sourced entity).
	Offset uint64

	// BigEndian records which endianness this entity's image record (if
	// any) was decoded with.
	BigEndian bool

	// RawSubrecords holds subrecords this engine's schema registry did not
	// recognize and that had no common-tag fallback rule, keyed by tag
	// text (spec.md §4.6(c)).
	RawSubrecords map[string][]byte `json:",omitempty"`
}

// OptionFormID models an Option<form-id> cross-reference field (spec.md
// §3): absence is a normal state, represented as a nil pointer rather than
// the zero form-id, so "absent" and "explicitly zero" (which can't happen
// for a real form-id, but can for a not-yet-resolved field) stay distinct
// in code that walks these graphs.
type OptionFormID = *reccore.FormID

// SomeFormID returns an OptionFormID wrapping id.
func SomeFormID(id reccore.FormID) OptionFormID {
	return &id
}
