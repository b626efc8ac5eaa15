package semrecon

import (
	"github.com/vaultrecon/semrecon/reconio"
	"github.com/vaultrecon/semrecon/scankit"
)

// ByteAccessor is the random-read interface this engine consumes over the
// backing image (spec.md §6). It is defined in package reconio (the
// primary consumer, C4) and re-exported here so callers only need to
// import the root package to implement it.
type ByteAccessor = reconio.ByteAccessor

// RuntimeEntry is one entry from the captured runtime hash table (spec.md
// §6). Defined in package scankit, which the handlers/runtimemerge/xref
// subpackages also depend on directly (C6-C8 consume it without needing to
// import the root package, avoiding an import cycle); re-exported here so
// callers only need to import the root package.
type RuntimeEntry = scankit.RuntimeEntry

// RuntimeReader reads live C++ objects at an offset given a descriptor. It
// is optional: a nil RuntimeReader simply means C7's runtime merger never
// runs, and every entity is image-sourced only (spec.md §1, §6).
type RuntimeReader = scankit.RuntimeReader

// ProjectilePhysics is the live physics sub-object of a PROJ runtime entry.
type ProjectilePhysics = scankit.ProjectilePhysics

// QuestInfoList is one (quest, [info pointer]) tuple from a topic's live
// linked list (spec.md §6).
type QuestInfoList = scankit.QuestInfoList
