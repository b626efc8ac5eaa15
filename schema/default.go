package schema

// Default is the registry built from DefaultLayouts, ready for use by
// handlers. A caller embedding this engine in a tool targeting a different
// build may construct its own Registry via NewRegistry instead.
var Default = NewRegistry(DefaultLayouts)
