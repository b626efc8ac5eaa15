// Package handlers implements the record handlers (C6): one function
// family per record kind, each walking a record's subrecords and
// populating a typed value from model. Every handler follows the same
// contract (spec.md §4.6): enumerate the scan-result headers for its kind;
// for each, if no accessor is available or ReadRecordData fails, emit the
// shallow variant; otherwise run the subrecord iterator and dispatch on
// tag. A handler never mutates shared state except write-through to the
// identifier index (editor-id from EDID, display-name from FULL); a
// corrupt single record degrades to the shallow variant plus a telemetry
// event rather than aborting enumeration.
package handlers

import (
	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/schema"
	"github.com/vaultrecon/semrecon/scankit"
)

// Context is the shared read-only environment every handler runs with: the
// optional accessor, the identifier index (the one piece of state handlers
// write through to), and the schema registry.
type Context struct {
	Accessor reconio.ByteAccessor // nil means "no accessor available"
	Index    *formindex.Index
	Registry *schema.Registry
}

func telem(kind string, form reccore.FormID, msg string) scankit.TelemetryEvent {
	return scankit.TelemetryEvent{Kind: kind, FormID: form, Message: msg}
}

// readBody reads h's record payload through ctx.Accessor via pool, copying
// it out of the pooled buffer before release. Returns ok=false when no
// accessor is available (no telemetry event) or when the read/decompress
// fails (one "truncation" telemetry event) -- both documented triggers for
// the shallow record shape (spec.md §4.4, §7).
func readBody(ctx *Context, h reconio.MainRecordHeader, pool *reconio.BufferPool) (data []byte, ok bool, tel []scankit.TelemetryEvent) {
	if ctx.Accessor == nil {
		return nil, false, nil
	}
	buf := pool.Acquire()
	defer pool.Release(buf)

	raw, ok := reconio.ReadRecordData(ctx.Accessor, h, buf)
	if !ok {
		return nil, false, []scankit.TelemetryEvent{telem("truncation", h.FormID, "ReadRecordData failed (out of range or decompression failure)")}
	}
	if raw == nil {
		// Zero data-size: a valid, empty body (spec.md §8 "A record whose
		// data-size is zero yields a shallow record with all optional
		// fields absent").
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

// baseCommon builds the Common value every handler starts from.
func baseCommon(h reconio.MainRecordHeader, shallow bool) model.Common {
	return model.Common{
		FormID:    h.FormID,
		FromImage: true,
		Shallow:   shallow,
		Offset:    h.Offset,
		BigEndian: h.IsBigEndian,
	}
}

// finalizeCommon sets EditorID/FullName from the identifier index's final
// view, so a shallow record's "best-effort editor-id/display-name"
// (spec.md §4.6) and a fully-decoded record's own EDID/FULL subrecord
// agree with whatever else contributed to the same form-id.
func finalizeCommon(com *model.Common, idx *formindex.Index) {
	if id, ok := idx.EditorID(com.FormID); ok {
		com.EditorID = &id
	}
	if nm, ok := idx.DisplayName(com.FormID); ok {
		com.FullName = &nm
	}
}

var (
	tagEDID = reccore.NewTag("EDID")
	tagFULL = reccore.NewTag("FULL")
)

// captureCommonSubrecord writes EDID/FULL subrecords through to the
// identifier index. Returns true if tag was one of these two (so the
// caller doesn't also fall through to generic/raw handling for it).
func captureCommonSubrecord(ctx *Context, form reccore.FormID, tag reccore.Tag, data []byte) bool {
	switch tag {
	case tagEDID:
		ctx.Index.TryAddEditorID(form, reconio.CString(data))
		return true
	case tagFULL:
		ctx.Index.TryAddDisplayName(form, reconio.DecodeLocalizedText(data))
		return true
	}
	return false
}

// storeRaw stashes an unrecognized subrecord's bytes under its tag text,
// per spec.md §4.6(c). The map is allocated lazily.
func storeRaw(raw *map[string][]byte, tag reccore.Tag, data []byte) {
	if *raw == nil {
		*raw = make(map[string][]byte)
	}
	(*raw)[tag.String()] = append([]byte(nil), data...)
}

// decodeFallbackSubrecord implements the three-way fallback of spec.md
// §4.6 for a subrecord a bespoke handler's own switch didn't claim:
// (a) if the schema registry recognizes (tag, parent), the subrecord is a
// known shape this handler simply has no dedicated field slot for -- it is
// decoded (so a caller inspecting the registry can still see it was
// understood) and dropped, rather than treated as raw;
// (b) else, the common-tag heuristic (spec.md §4.6(b)): a 4-byte value
// whose tag ends in "NAM" is assumed to be a form-id and is likewise
// dropped (no dedicated slot, but recognized);
// (c) otherwise the bytes are kept raw under the tag, per §4.6(c).
func decodeFallbackSubrecord(ctx *Context, com *model.Common, parent, tag reccore.Tag, data []byte, endian reccore.Endian) {
	if ctx.Registry.HasSchema(tag, parent) {
		_, _ = ctx.Registry.Decode(tag, parent, data, endian)
		return
	}
	if _, ok := commonTagFallback(tag, data, endian); ok {
		return
	}
	storeRaw(&com.RawSubrecords, tag, data)
}

// commonTagFallback implements spec.md §4.6(b): a subrecord with no
// registered schema but whose tag ends in "NAM" and whose length is
// exactly 4 bytes is assumed to carry a form-id, the single most frequent
// unschema'd shape in this record format.
func commonTagFallback(tag reccore.Tag, data []byte, endian reccore.Endian) (reccore.FormID, bool) {
	s := tag.String()
	if len(data) == 4 && len(s) == 4 && s[1] == 'N' && s[2] == 'A' && s[3] == 'M' {
		return reconio.FormID(data, 0, endian), true
	}
	return 0, false
}
