package completion

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
)

// TypeEntry is one completable symbol in the type catalog: a concrete
// type, a generic type with its arity, a namespace, or a name-only
// descriptor for types that are not locally loadable.
type TypeEntry struct {
	// FullName is the dotted name, e.g. "net.http.Request".
	FullName string

	Kind TypeEntryKind

	// Arity is the type-parameter count for generic entries.
	Arity int

	// Synopsis is a one-line description shown as the tooltip.
	Synopsis string
}

type TypeEntryKind int

const (
	TypeEntryConcrete TypeEntryKind = iota
	TypeEntryGeneric
	TypeEntryNamespace
	TypeEntryNameOnly
)

// TypeSource supplies symbols for the catalog, typically the builtin type
// table plus every loaded module.
type TypeSource interface {
	TypeEntries() []TypeEntry
}

// typeSnapshot is one immutable, fully built view of the catalog. Entries
// are bucketed by the number of dots in their full name, so a lookup for a
// partial name only scans symbols at the same namespace depth.
type typeSnapshot struct {
	buckets map[int][]TypeEntry
}

// TypeCache is the process-wide type and namespace catalog. Readers take a
// snapshot reference without locking; invalidation clears the pointer and
// the next lookup rebuilds from the sources. Two racing rebuilds compute
// the same result, so last-writer-wins is safe.
type TypeCache struct {
	snapshot atomic.Pointer[typeSnapshot]
	sources  []TypeSource
}

// NewTypeCache builds an empty cache over the given sources. Nothing is
// enumerated until the first lookup.
func NewTypeCache(sources ...TypeSource) *TypeCache {
	return &TypeCache{sources: sources}
}

// Invalidate discards the current snapshot. Call whenever new code is
// loaded; the catalog is rebuilt wholesale on next use rather than patched
// in place.
func (c *TypeCache) Invalidate() {
	c.snapshot.Store(nil)
}

// Lookup returns the entries whose namespace depth matches the partial
// name and whose full name matches it as a case-insensitive glob prefix.
func (c *TypeCache) Lookup(partial string) []TypeEntry {
	snap := c.snapshot.Load()
	if snap == nil {
		snap = c.rebuild()
	}

	depth := strings.Count(partial, ".")
	pattern := strings.ToLower(partial) + "*"

	var out []TypeEntry

	for _, e := range snap.buckets[depth] {
		if ok, err := doublestar.Match(pattern, strings.ToLower(e.FullName)); err == nil && ok {
			out = append(out, e)
		}
	}

	return out
}

func (c *TypeCache) rebuild() *typeSnapshot {
	snap := &typeSnapshot{buckets: make(map[int][]TypeEntry)}

	for _, src := range c.sources {
		for _, e := range src.TypeEntries() {
			depth := strings.Count(e.FullName, ".")
			snap.buckets[depth] = append(snap.buckets[depth], e)
		}
	}

	for _, bucket := range snap.buckets {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].FullName < bucket[j].FullName })
	}

	c.snapshot.Store(snap)

	return snap
}

// candidates renders a lookup as completion candidates.
func (c *TypeCache) candidates(partial string) []Candidate {
	var out []Candidate

	for _, e := range c.Lookup(partial) {
		kind := KindType
		if e.Kind == TypeEntryNamespace {
			kind = KindNamespace
		}

		tooltip := e.Synopsis
		if tooltip == "" {
			tooltip = e.FullName
		}

		out = append(out, Candidate{
			Replacement: e.FullName,
			Display:     e.FullName,
			Kind:        kind,
			Tooltip:     tooltip,
		})
	}

	return out
}
