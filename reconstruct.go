package semrecon

import (
	"github.com/vaultrecon/semrecon/formindex"
	"github.com/vaultrecon/semrecon/handlers"
	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/runtimemerge"
	"github.com/vaultrecon/semrecon/scankit"
	"github.com/vaultrecon/semrecon/schema"
	"github.com/vaultrecon/semrecon/scriptpipe"
	"github.com/vaultrecon/semrecon/xref"
)

// Config carries the handful of knobs a caller can override without
// forking the engine. The zero value is the engine's own defaults (spec.md
// §9's Open Questions: the proximity window and the dialogue-kind
// fallback are both sourced from here/the RuntimeReader rather than
// hardcoded, per DESIGN.md's Open Question decisions).
type Config struct {
	// Registry overrides the subrecord schema registry (C3). Nil means
	// schema.Default.
	Registry *schema.Registry

	// CellRefProximityWindow overrides handlers.CellRefProximityWindow for
	// this call only, when non-zero.
	CellRefProximityWindow uint64
}

// ReconstructAll runs the full semantic reconstruction pipeline (C10) in
// the fixed order spec.md §4.10 prescribes, and assembles the result
// (spec.md §6). Grounded on repparser.parse (icza/screp): a fixed sequence
// of section-by-section parsing followed by one assembled return value.
func ReconstructAll(accessor ByteAccessor, scan *ScanResult, reader RuntimeReader, cfg Config) *SemanticReconstructionResult {
	registry := cfg.Registry
	if registry == nil {
		registry = schema.Default
	}
	if cfg.CellRefProximityWindow != 0 {
		prevWindow := handlers.CellRefProximityWindow
		handlers.CellRefProximityWindow = cfg.CellRefProximityWindow
		defer func() { handlers.CellRefProximityWindow = prevWindow }()
	}

	idx := buildIdentifierIndex(scan, reader)
	ctx := &handlers.Context{Accessor: accessor, Index: idx, Registry: registry}

	res := &SemanticReconstructionResult{
		UnreconstructedTypeCounts: make(map[string]int),
	}
	var telemetry []TelemetryEvent
	collect := func(tel []scankit.TelemetryEvent) {
		telemetry = append(telemetry, tel...)
	}

	reconstructActors(ctx, scan, reader, res, collect)
	reconstructItems(ctx, scan, reader, res, collect)
	reconstructWorld(ctx, scan, reader, res, collect)
	reconstructAbilities(ctx, scan, res, collect)
	reconstructTextAndLogic(ctx, scan, reader, res, collect)
	reconstructData(ctx, scan, res, collect)
	reconstructScenery(ctx, scan, res, collect)

	crossEnrichWeaponAmmo(res)

	objectScripts := buildObjectScriptMap(res)
	xref.ApplyPlacedReferenceScripts(res.PlacedReferences, objectScripts)

	linkDialogue(scan, reader, res)
	res.DialogueTree = xref.BuildDialogueForest(res.Topics, res.Lines)

	varDB := xref.BuildVariableDatabase(res.Scripts, res.Quests, objectScripts, res.PlacedReferences, idx)
	collect(scriptpipe.Decompile(res.Scripts, varDB, formNameResolver(idx)))

	res.EditorIDs = idx.EditorIDMap()
	res.DisplayNames = idx.DisplayNameMap()
	res.Telemetry = telemetry
	res.TotalRecordsProcessed = len(scan.Headers)
	tallyUnreconstructed(scan, res)

	return res
}

// buildIdentifierIndex implements C5's construction order (spec.md §4.5):
// image-derived editor-ids, then caller correlations, then runtime
// entries, then the hardcoded well-known identifiers, each via
// first-write-wins TryAdd.
func buildIdentifierIndex(scan *ScanResult, reader RuntimeReader) *formindex.Index {
	idx := formindex.New()

	correlated := formindex.CorrelateEditorIDs(scan.RecordRanges(), scan.EditorIDMarkers)
	for form, id := range correlated {
		idx.TryAddEditorID(form, id)
	}

	if len(scan.Correlations) > 0 {
		_ = idx.AddCorrelations(scan.Correlations)
	}

	if reader != nil {
		runtimemerge.SeedIdentifiers(idx, scan.RuntimeEntries)
	}

	idx.AddWellKnown()
	return idx
}

func formNameResolver(idx *formindex.Index) scriptpipe.FormNameResolver {
	return func(form reccore.FormID) (string, bool) {
		if name, ok := idx.DisplayName(form); ok {
			return name, true
		}
		return idx.EditorID(form)
	}
}

type telemetrySink func([]scankit.TelemetryEvent)

func reconstructActors(ctx *handlers.Context, scan *ScanResult, reader RuntimeReader, res *SemanticReconstructionResult, collect telemetrySink) {
	npcs, tel := handlers.ReconstructNPCs(ctx, scan.RecordsOfKind(rectag.TagNPC))
	collect(tel)
	res.NPCs = runtimemerge.MergeNPCs(npcs, scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagNPC).RuntimeKindCode), reader)

	creatures, tel := handlers.ReconstructCreatures(ctx, scan.RecordsOfKind(rectag.TagCreature))
	collect(tel)
	res.Creatures = runtimemerge.MergeCreatures(creatures, scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagCreature).RuntimeKindCode), reader)

	races, tel := handlers.ReconstructRaces(ctx, scan.RecordsOfKind(rectag.TagRace))
	collect(tel)
	res.Races = races

	factions, tel := handlers.ReconstructFactions(ctx, scan.RecordsOfKind(rectag.TagFaction))
	collect(tel)
	res.Factions = factions
}

func reconstructItems(ctx *handlers.Context, scan *ScanResult, reader RuntimeReader, res *SemanticReconstructionResult, collect telemetrySink) {
	weapons, tel := handlers.ReconstructWeapons(ctx, scan.RecordsOfKind(rectag.TagWeapon))
	collect(tel)
	res.Weapons = runtimemerge.MergeWeapons(weapons, scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagWeapon).RuntimeKindCode), reader)

	ammo, tel := handlers.ReconstructAmmo(ctx, scan.RecordsOfKind(rectag.TagAmmo))
	collect(tel)
	res.Ammo = ammo

	armors, tel := handlers.ReconstructArmors(ctx, scan.RecordsOfKind(rectag.TagArmor))
	collect(tel)
	res.Armors = armors

	consumables, tel := handlers.ReconstructConsumables(ctx, scan.RecordsOfKind(rectag.TagConsumable))
	collect(tel)
	res.Consumables = consumables

	misc, tel := handlers.ReconstructMisc(ctx, scan.RecordsOfKind(rectag.TagMisc))
	collect(tel)
	res.MiscItems = misc

	keys, tel := handlers.ReconstructKeyItems(ctx, scan.RecordsOfKind(rectag.TagKey))
	collect(tel)
	res.KeyItems = keys

	containers, tel := handlers.ReconstructContainers(ctx, scan.RecordsOfKind(rectag.TagContainer))
	collect(tel)
	res.Containers = runtimemerge.MergeContainers(containers, scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagContainer).RuntimeKindCode), reader)
}

// crossEnrichWeaponAmmo implements spec.md §4.10's "reconstruct weapons
// then ammunition then cross-enrich": each ammo record inherits its
// weapon's projectile form-id, and that projectile's model path.
func crossEnrichWeaponAmmo(res *SemanticReconstructionResult) {
	if len(res.Weapons) == 0 || len(res.Ammo) == 0 {
		return
	}
	projectileModel := make(map[reccore.FormID]*string, len(res.Projectiles))
	for _, p := range res.Projectiles {
		projectileModel[p.FormID] = p.ModelPath
	}
	weaponProjectile := make(map[reccore.FormID]reccore.FormID, len(res.Weapons))
	for _, w := range res.Weapons {
		if w.AmmoFormID != nil && w.ProjectileFormID != nil {
			weaponProjectile[*w.AmmoFormID] = *w.ProjectileFormID
		}
	}
	for _, a := range res.Ammo {
		proj, ok := weaponProjectile[a.FormID]
		if !ok {
			continue
		}
		a.ProjectileFormID = model.SomeFormID(proj)
		if path, ok := projectileModel[proj]; ok {
			a.ProjectileModelPath = path
		}
	}
}

func reconstructWorld(ctx *handlers.Context, scan *ScanResult, reader RuntimeReader, res *SemanticReconstructionResult, collect telemetrySink) {
	cells, tel := handlers.ReconstructCells(ctx, scan.RecordsOfKind(rectag.TagCell))
	collect(tel)

	worldspaces, tel := handlers.ReconstructWorldspaces(ctx, scan.RecordsOfKind(rectag.TagWorldspace))
	collect(tel)

	refs := handlers.EnrichPlacedReferences(scan.RecordsOfKind(rectag.TagPlacedRef), scan.PlacedReferences, ctx.Index)
	terrain := handlers.ReconstructTerrainHeightmaps(scan.RecordsOfKind(rectag.TagLand), scan.TerrainRecords, ctx.Index)
	runtimemerge.EnrichTerrainHeightmaps(terrain, scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagLand).RuntimeKindCode), reader)

	handlers.ResolveCellPlacedRefs(cells, scan.CellRefGroups, scan.RecordsOfKind(rectag.TagPlacedRef))
	handlers.InferCellWorldspaces(cells, worldspaces)
	handlers.LinkCellsToWorldspaces(cells, worldspaces)
	handlers.ResolveCellTerrain(cells, terrain)

	virtual := handlers.CreateVirtualCells(refs)
	cells = append(cells, virtual...)

	res.Cells = cells
	res.Worldspaces = worldspaces
	res.PlacedReferences = refs
	res.TerrainHeightmaps = terrain

	navmeshes, tel := handlers.ReconstructNavMeshes(ctx, scan.RecordsOfKind(rectag.TagNavMesh))
	collect(tel)
	res.NavMeshes = navmeshes

	weathers, tel := handlers.ReconstructWeathers(ctx, scan.RecordsOfKind(rectag.TagWeather))
	collect(tel)
	res.Weathers = weathers

	lighting, tel := handlers.ReconstructLightingTemplates(ctx, scan.RecordsOfKind(rectag.TagLightingTemplate))
	collect(tel)
	res.LightingTemplates = lighting
}

func reconstructAbilities(ctx *handlers.Context, scan *ScanResult, res *SemanticReconstructionResult, collect telemetrySink) {
	perks, tel := handlers.ReconstructPerks(ctx, scan.RecordsOfKind(rectag.TagPerk))
	collect(tel)
	res.Perks = perks

	spells, tel := handlers.ReconstructSpells(ctx, scan.RecordsOfKind(rectag.TagSpell))
	collect(tel)
	res.Spells = spells

	baseEffects, tel := handlers.ReconstructBaseEffects(ctx, scan.RecordsOfKind(rectag.TagBaseEffect))
	collect(tel)
	res.BaseEffects = baseEffects

	enchantments, tel := handlers.ReconstructEnchantments(ctx, scan.RecordsOfKind(rectag.TagEnchantment))
	collect(tel)
	res.Enchantments = enchantments

	projectiles, tel := handlers.ReconstructProjectiles(ctx, scan.RecordsOfKind(rectag.TagProjectile))
	collect(tel)
	res.Projectiles = projectiles

	explosions, tel := handlers.ReconstructExplosions(ctx, scan.RecordsOfKind(rectag.TagExplosion))
	collect(tel)
	res.Explosions = explosions
}

func reconstructTextAndLogic(ctx *handlers.Context, scan *ScanResult, reader RuntimeReader, res *SemanticReconstructionResult, collect telemetrySink) {
	books, tel := handlers.ReconstructBooks(ctx, scan.RecordsOfKind(rectag.TagBook))
	collect(tel)
	res.Books = books

	notes, tel := handlers.ReconstructNotes(ctx, scan.RecordsOfKind(rectag.TagNote))
	collect(tel)
	res.Notes = notes

	terminals, tel := handlers.ReconstructTerminals(ctx, scan.RecordsOfKind(rectag.TagTerminal))
	collect(tel)
	res.Terminals = terminals

	messages, tel := handlers.ReconstructMessages(ctx, scan.RecordsOfKind(rectag.TagMessage))
	collect(tel)
	res.Messages = messages

	// Scripts, pass 1 only: decompilation (pass 2) runs once the variable
	// database exists, after cross-reference building (spec.md §4.9).
	scripts, tel := handlers.ReconstructScripts(ctx, scan.RecordsOfKind(rectag.TagScript))
	collect(tel)
	res.Scripts = runtimemerge.MergeScripts(scripts, scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagScript).RuntimeKindCode), reader)

	quests, tel := handlers.ReconstructQuests(ctx, scan.RecordsOfKind(rectag.TagQuest))
	collect(tel)
	res.Quests = quests

	topics, tel := handlers.ReconstructDialogueTopics(ctx, scan.RecordsOfKind(rectag.TagDialogueTopic))
	collect(tel)
	topicKind := rectag.ByTag(rectag.TagDialogueTopic)
	res.Topics = runtimemerge.MergeDialogueTopics(topics, scan.RuntimeEntriesOfKind(topicKind.RuntimeKindCode), reader)

	lines, tel := handlers.ReconstructDialogueLines(ctx, scan.RecordsOfKind(rectag.TagDialogueLine))
	collect(tel)
	lineKind := rectag.ByTag(rectag.TagDialogueLine)
	lineKindCodes := []int32{lineKind.RuntimeKindCode}
	if reader != nil {
		lineKindCodes = append(lineKindCodes, reader.DialogueInfoFallbackKindCode())
	}
	res.Lines = runtimemerge.MergeDialogueLines(lines, scan.RuntimeEntriesOfKind(lineKindCodes...), reader)
}

// linkDialogue runs spec.md §4.8's dialogue-linking cascade over the
// already-merged topics/lines/quests, then writes the (possibly
// lengthened, by the runtime topic walk's discovered lines) result back.
func linkDialogue(scan *ScanResult, reader RuntimeReader, res *SemanticReconstructionResult) {
	topicEntries := scan.RuntimeEntriesOfKind(rectag.ByTag(rectag.TagDialogueTopic).RuntimeKindCode)
	res.Lines = xref.LinkDialogue(res.Topics, res.Lines, res.Quests, scan.TopicLineGroups, topicEntries, reader)
}

func reconstructData(ctx *handlers.Context, scan *ScanResult, res *SemanticReconstructionResult, collect telemetrySink) {
	globals, tel := handlers.ReconstructGlobalVariables(ctx, scan.RecordsOfKind(rectag.TagGlobalVariable))
	collect(tel)
	res.GlobalVariables = globals

	settings, tel := handlers.ReconstructGameSettings(ctx, scan.RecordsOfKind(rectag.TagGameSetting))
	collect(tel)
	res.GameSettings = settings

	var leveled []*model.LeveledList
	for _, tag := range []reccore.Tag{rectag.TagLeveledItem, rectag.TagLeveledNPC, rectag.TagLeveledCreature} {
		ll, tel := handlers.ReconstructLeveledLists(ctx, scan.RecordsOfKind(tag), tag)
		collect(tel)
		leveled = append(leveled, ll...)
	}
	res.LeveledLists = leveled

	classes, tel := handlers.ReconstructClasses(ctx, scan.RecordsOfKind(rectag.TagClass))
	collect(tel)
	res.Classes = classes

	challenges, tel := handlers.ReconstructChallenges(ctx, scan.RecordsOfKind(rectag.TagChallenge))
	collect(tel)
	res.Challenges = challenges

	reputations, tel := handlers.ReconstructReputations(ctx, scan.RecordsOfKind(rectag.TagReputation))
	collect(tel)
	res.Reputations = reputations

	recipes, tel := handlers.ReconstructRecipes(ctx, scan.RecordsOfKind(rectag.TagRecipe))
	collect(tel)
	res.Recipes = recipes

	mods, tel := handlers.ReconstructWeaponMods(ctx, scan.RecordsOfKind(rectag.TagWeaponMod))
	collect(tel)
	res.WeaponMods = mods
}

func reconstructScenery(ctx *handlers.Context, scan *ScanResult, res *SemanticReconstructionResult, collect telemetrySink) {
	statics, tel := handlers.ReconstructStatics(ctx, scan.RecordsOfKind(rectag.TagStatic))
	collect(tel)
	res.Statics = statics

	furniture, tel := handlers.ReconstructFurniture(ctx, scan.RecordsOfKind(rectag.TagFurniture))
	collect(tel)
	res.Furniture = furniture

	doors, tel := handlers.ReconstructDoors(ctx, scan.RecordsOfKind(rectag.TagDoor))
	collect(tel)
	res.Doors = doors

	lights, tel := handlers.ReconstructLights(ctx, scan.RecordsOfKind(rectag.TagLight))
	collect(tel)
	res.Lights = lights

	activators, tel := handlers.ReconstructActivators(ctx, scan.RecordsOfKind(rectag.TagActivator))
	collect(tel)
	res.Activators = activators

	sounds, tel := handlers.ReconstructSounds(ctx, scan.RecordsOfKind(rectag.TagSound))
	collect(tel)
	res.Sounds = sounds

	textureSets, tel := handlers.ReconstructTextureSets(ctx, scan.RecordsOfKind(rectag.TagTextureSet))
	collect(tel)
	res.TextureSets = textureSets

	armorAddons, tel := handlers.ReconstructArmorAddons(ctx, scan.RecordsOfKind(rectag.TagArmorAddon))
	collect(tel)
	res.ArmorAddons = armorAddons

	avInfos, tel := handlers.ReconstructActorValueInfos(ctx, scan.RecordsOfKind(rectag.TagActorValueInfo))
	collect(tel)
	res.ActorValueInfos = avInfos

	waters, tel := handlers.ReconstructWaters(ctx, scan.RecordsOfKind(rectag.TagWater))
	collect(tel)
	res.Waters = waters

	bodyParts, tel := handlers.ReconstructBodyPartData(ctx, scan.RecordsOfKind(rectag.TagBodyPartData))
	collect(tel)
	res.BodyPartData = bodyParts

	combatStyles, tel := handlers.ReconstructCombatStyles(ctx, scan.RecordsOfKind(rectag.TagCombatStyle))
	collect(tel)
	res.CombatStyles = combatStyles
}

// buildObjectScriptMap implements spec.md §4.8's "Object-to-script map":
// every script-owning kind's own ScriptFormID, extended with the
// image-derived placed-ref -> base inheritance.
func buildObjectScriptMap(res *SemanticReconstructionResult) map[reccore.FormID]reccore.FormID {
	var owners []xref.ScriptOwnerRef
	owners = append(owners, xref.CollectScriptOwners(res.NPCs, func(n *model.NPC) reccore.FormID { return n.FormID }, func(n *model.NPC) *reccore.FormID { return n.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Creatures, func(c *model.Creature) reccore.FormID { return c.FormID }, func(c *model.Creature) *reccore.FormID { return c.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Activators, func(a *model.Activator) reccore.FormID { return a.FormID }, func(a *model.Activator) *reccore.FormID { return a.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Containers, func(c *model.Container) reccore.FormID { return c.FormID }, func(c *model.Container) *reccore.FormID { return c.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Doors, func(d *model.Door) reccore.FormID { return d.FormID }, func(d *model.Door) *reccore.FormID { return d.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Furniture, func(f *model.Furniture) reccore.FormID { return f.FormID }, func(f *model.Furniture) *reccore.FormID { return f.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Weapons, func(w *model.Weapon) reccore.FormID { return w.FormID }, func(w *model.Weapon) *reccore.FormID { return w.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Armors, func(a *model.Armor) reccore.FormID { return a.FormID }, func(a *model.Armor) *reccore.FormID { return a.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.MiscItems, func(m *model.Misc) reccore.FormID { return m.FormID }, func(m *model.Misc) *reccore.FormID { return m.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Books, func(b *model.Book) reccore.FormID { return b.FormID }, func(b *model.Book) *reccore.FormID { return b.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Consumables, func(c *model.Consumable) reccore.FormID { return c.FormID }, func(c *model.Consumable) *reccore.FormID { return c.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.KeyItems, func(k *model.KeyItem) reccore.FormID { return k.FormID }, func(k *model.KeyItem) *reccore.FormID { return k.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Ammo, func(a *model.Ammo) reccore.FormID { return a.FormID }, func(a *model.Ammo) *reccore.FormID { return a.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Lights, func(l *model.Light) reccore.FormID { return l.FormID }, func(l *model.Light) *reccore.FormID { return l.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Factions, func(f *model.Faction) reccore.FormID { return f.FormID }, func(f *model.Faction) *reccore.FormID { return f.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.Quests, func(q *model.Quest) reccore.FormID { return q.FormID }, func(q *model.Quest) *reccore.FormID { return q.ScriptFormID })...)
	owners = append(owners, xref.CollectScriptOwners(res.LeveledLists, func(l *model.LeveledList) reccore.FormID { return l.FormID }, func(l *model.LeveledList) *reccore.FormID { return l.ScriptFormID })...)

	var placedRefs []xref.PlacedRefBase
	for _, p := range res.PlacedReferences {
		placedRefs = append(placedRefs, xref.PlacedRefBase{FormID: p.FormID, BaseFormID: p.BaseFormID})
	}

	return xref.BuildObjectScriptMap(owners, placedRefs)
}

// tallyUnreconstructed implements spec.md §6's UnreconstructedTypeCounts:
// any scanned main record whose tag has no registered Kind at all (so no
// handler in this build ever ran for it).
func tallyUnreconstructed(scan *ScanResult, res *SemanticReconstructionResult) {
	for _, h := range scan.Headers {
		if rectag.ByTag(h.Tag) == nil {
			res.UnreconstructedTypeCounts[h.Tag.String()]++
		}
	}
}
