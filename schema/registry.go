// Package schema implements the subrecord schema registry (C3): a static
// table keyed on (subrecord-tag, optional parent-record-tag, minimum
// length) returning an ordered list of named, typed fields.
//
// The same four-byte subrecord tag frequently means different things under
// different parents — the DATA subrecord alone has at least twenty distinct
// layouts (spec.md §4.3) — so the key includes the parent tag. A nil parent
// entry matches any parent that has no more specific entry registered,
// letting common subrecords (EDID, FULL, MODL) share one schema across
// every kind that carries them.
package schema

import (
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/reconio"
)

// FieldType is the primitive type of one decoded field.
type FieldType int

const (
	FieldU8 FieldType = iota
	FieldI8
	FieldU16
	FieldI16
	FieldU32
	FieldI32
	FieldF32
	FieldFormID
)

// Field describes one named field within a subrecord layout.
type Field struct {
	Name   string
	Offset int
	Type   FieldType
}

func (t FieldType) size() int {
	switch t {
	case FieldU8, FieldI8:
		return 1
	case FieldU16, FieldI16:
		return 2
	default:
		return 4
	}
}

// Layout is one registered (tag, parent, min-length) -> fields entry.
type Layout struct {
	Tag       reccore.Tag
	Parent    reccore.Tag // zero value means "any parent without a more specific entry"
	HasParent bool
	MinLength int
	Fields    []Field
}

// key identifies one registered layout.
type key struct {
	tag       reccore.Tag
	parent    reccore.Tag
	hasParent bool
}

// Registry is the queryable set of registered layouts.
type Registry struct {
	// byKey groups layouts sharing the same (tag, parent) by descending
	// MinLength, so Lookup can pick the largest variant whose MinLength is
	// still <= the observed length (spec.md §9's "oversized DATA" open
	// question: read the minimum, ignore the trailing bytes).
	byKey map[key][]Layout
}

// NewRegistry builds a Registry from a flat list of layouts.
func NewRegistry(layouts []Layout) *Registry {
	r := &Registry{byKey: make(map[key][]Layout)}
	for _, l := range layouts {
		k := key{tag: l.Tag, parent: l.Parent, hasParent: l.HasParent}
		r.byKey[k] = append(r.byKey[k], l)
	}
	for k, ls := range r.byKey {
		sortLayoutsDesc(ls)
		r.byKey[k] = ls
	}
	return r
}

func sortLayoutsDesc(ls []Layout) {
	for i := 1; i < len(ls); i++ {
		for j := i; j > 0 && ls[j].MinLength > ls[j-1].MinLength; j-- {
			ls[j], ls[j-1] = ls[j-1], ls[j]
		}
	}
}

// HasSchema reports whether any layout is registered for (tag, parent),
// specific or parent-agnostic.
func (r *Registry) HasSchema(tag, parent reccore.Tag) bool {
	_, ok := r.Lookup(tag, parent, 1<<30)
	return ok
}

// Lookup resolves the layout registered for (tag, parent) whose MinLength
// is the largest one not exceeding length. Falls back to the
// parent-agnostic entry for tag if no parent-specific one matches.
func (r *Registry) Lookup(tag, parent reccore.Tag, length int) (Layout, bool) {
	if l, ok := r.lookupKey(key{tag: tag, parent: parent, hasParent: true}, length); ok {
		return l, true
	}
	return r.lookupKey(key{tag: tag, hasParent: false}, length)
}

func (r *Registry) lookupKey(k key, length int) (Layout, bool) {
	for _, l := range r.byKey[k] {
		if length >= l.MinLength {
			return l, true
		}
	}
	return Layout{}, false
}

// Decode resolves the layout for (tag, parent, len(data)) and decodes every
// field into a map keyed by field name. Returns ok=false if no layout
// matches (caller falls back to the common-tag heuristic or raw storage,
// per spec.md §4.6).
func (r *Registry) Decode(tag, parent reccore.Tag, data []byte, endian reccore.Endian) (map[string]any, bool) {
	layout, ok := r.Lookup(tag, parent, len(data))
	if !ok {
		return nil, false
	}
	return DecodeLayout(layout, data, endian), true
}

// DecodeLayout decodes data against an already-resolved layout.
func DecodeLayout(layout Layout, data []byte, endian reccore.Endian) map[string]any {
	out := make(map[string]any, len(layout.Fields))
	for _, f := range layout.Fields {
		if f.Offset+f.Type.size() > len(data) {
			continue
		}
		out[f.Name] = decodeField(f, data, endian)
	}
	return out
}

func decodeField(f Field, data []byte, endian reccore.Endian) any {
	o := f.Offset
	switch f.Type {
	case FieldU8:
		return data[o]
	case FieldI8:
		return int8(data[o])
	case FieldU16:
		return reconio.U16(data, o, endian)
	case FieldI16:
		return reconio.I16(data, o, endian)
	case FieldU32:
		return reconio.U32(data, o, endian)
	case FieldI32:
		return reconio.I32(data, o, endian)
	case FieldF32:
		return reconio.F32(data, o, endian)
	case FieldFormID:
		return reconio.FormID(data, o, endian)
	default:
		return nil
	}
}
