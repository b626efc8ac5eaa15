/*

Package semrecon implements the semantic reconstruction engine for a
Bethesda-style tagged-record game-data image. Given a ByteAccessor over the
raw image and a ScanResult catalog produced by a separate low-level scanner,
ReconstructAll builds a strongly-typed, cross-referenced graph of game
entities: NPCs, creatures, quests, dialogue trees, items, worldspaces with
cells and placed references, scripts with decompiled bytecode, and more.

The engine is single-threaded and cooperative (see package semrecon's
Config and the reconio, schema, formindex, handlers, runtimemerge, xref,
and scriptpipe subpackages for the individual subsystems); it performs no
I/O beyond random reads through the supplied ByteAccessor and, optionally,
one live C++ object read at a time through a RuntimeReader.

*/
package semrecon
