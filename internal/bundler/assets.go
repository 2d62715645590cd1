package bundler

// AssetTable is the in-memory accumulator for one bundling run: five
// coordinated mappings plus the JSON-file and external-source caches. A
// fresh value is created per bundling; the Watch Coordinator holds one
// across rebuilds, invalidating selectively rather than reconstructing it.
type AssetTable struct {
	// order records the position at which an asset name was first written;
	// a later overwrite at the same name (the legacy-to-modern second pass)
	// replaces the bytes but never moves the position — this preserves
	// "second write wins" content without disturbing emission order.
	order []string
	bytes map[string][]byte

	origins map[string]string
	aliases map[string]string

	pendingOrder []string
	pendingReq   map[string]string

	processed map[string]struct{}

	jsonFiles map[string]struct{}
	external  map[string]*ParsedSource
}

// NewAssetTable returns an empty AssetTable.
func NewAssetTable() *AssetTable {
	return &AssetTable{
		bytes:      make(map[string][]byte),
		origins:    make(map[string]string),
		aliases:    make(map[string]string),
		pendingReq: make(map[string]string),
		processed:  make(map[string]struct{}),
		jsonFiles:  make(map[string]struct{}),
		external:   make(map[string]*ParsedSource),
	}
}

// SetOutput writes an asset's bytes, assigning it a new position the first
// time it is seen and overwriting in place thereafter.
func (t *AssetTable) SetOutput(name string, data []byte) {
	if _, exists := t.bytes[name]; !exists {
		t.order = append(t.order, name)
	}
	t.bytes[name] = data
}

// Output returns the bytes for name and whether it exists.
func (t *AssetTable) Output(name string) ([]byte, bool) {
	b, ok := t.bytes[name]
	return b, ok
}

// OutputNames returns every asset name in first-write order.
func (t *AssetTable) OutputNames() []string {
	return append([]string(nil), t.order...)
}

// SetOrigin stamps the provenance host path for an asset name.
func (t *AssetTable) SetOrigin(name, hostPath string) {
	t.origins[name] = hostPath
}

// Origin returns the provenance host path for an asset name, if stamped.
func (t *AssetTable) Origin(name string) (string, bool) {
	p, ok := t.origins[name]
	return p, ok
}

// SetAlias registers name's bare specifier alias.
func (t *AssetTable) SetAlias(name, specifier string) {
	t.aliases[name] = specifier
}

// Alias returns the registered alias for name, if any.
func (t *AssetTable) Alias(name string) (string, bool) {
	a, ok := t.aliases[name]
	return a, ok
}

// Aliases returns the full alias map.
func (t *AssetTable) Aliases() map[string]string {
	return t.aliases
}

// Enqueue adds specifierOrPath to the worklist with requester as its
// requesting module, unless it has already been processed or queued.
func (t *AssetTable) Enqueue(specifierOrPath, requester string) {
	if _, done := t.processed[specifierOrPath]; done {
		return
	}
	if _, queued := t.pendingReq[specifierOrPath]; queued {
		return
	}
	t.pendingOrder = append(t.pendingOrder, specifierOrPath)
	t.pendingReq[specifierOrPath] = requester
}

// PopPending removes and returns the first entry in insertion order, or ok
// == false when the worklist is empty.
func (t *AssetTable) PopPending() (specifierOrPath, requester string, ok bool) {
	if len(t.pendingOrder) == 0 {
		return "", "", false
	}
	specifierOrPath = t.pendingOrder[0]
	t.pendingOrder = t.pendingOrder[1:]
	requester = t.pendingReq[specifierOrPath]
	delete(t.pendingReq, specifierOrPath)
	return specifierOrPath, requester, true
}

// PendingLen reports how many entries remain on the worklist.
func (t *AssetTable) PendingLen() int {
	return len(t.pendingOrder)
}

// MarkProcessed records specifierOrPath as processed, preventing re-entry.
func (t *AssetTable) MarkProcessed(specifierOrPath string) {
	t.processed[specifierOrPath] = struct{}{}
}

// IsProcessed reports whether specifierOrPath has already been processed.
func (t *AssetTable) IsProcessed(specifierOrPath string) bool {
	_, ok := t.processed[specifierOrPath]
	return ok
}

// AddJSONFile records an absolute host path as a JSON module to encode.
func (t *AssetTable) AddJSONFile(hostPath string) {
	t.jsonFiles[hostPath] = struct{}{}
}

// JSONFiles returns the recorded JSON host paths.
func (t *AssetTable) JSONFiles() []string {
	files := make([]string, 0, len(t.jsonFiles))
	for f := range t.jsonFiles {
		files = append(files, f)
	}
	return files
}

// CacheExternalSource stores a parsed source read from disk outside the
// compile step.
func (t *AssetTable) CacheExternalSource(hostPath string, src *ParsedSource) {
	t.external[hostPath] = src
}

// ExternalSource returns the cached parsed source for hostPath, if present.
func (t *AssetTable) ExternalSource(hostPath string) (*ParsedSource, bool) {
	src, ok := t.external[hostPath]
	return src, ok
}

// EvictExternalSource removes hostPath's cached parsed source.
func (t *AssetTable) EvictExternalSource(hostPath string) {
	delete(t.external, hostPath)
}

// ResetProcessed clears processedModules entirely. This forces
// re-discovery of every module on invalidation rather than just the
// changed file's dependents — simpler and safer than tracking a
// dependent closure, at the cost of redundant re-resolution on rebuild.
func (t *AssetTable) ResetProcessed() {
	t.processed = make(map[string]struct{})
}

// RemoveOutput deletes an asset's bytes and origin, used by the Watch
// Coordinator to invalidate a changed file's prior emission.
func (t *AssetTable) RemoveOutput(name string) {
	if _, exists := t.bytes[name]; !exists {
		return
	}
	delete(t.bytes, name)
	delete(t.origins, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// AssetNameForOrigin finds the asset name whose origin matches hostPath, if
// any. Used by the Watch Coordinator to map a changed file back to its
// asset.
func (t *AssetTable) AssetNameForOrigin(hostPath string) (string, bool) {
	for name, origin := range t.origins {
		if origin == hostPath {
			return name, true
		}
	}
	return "", false
}
