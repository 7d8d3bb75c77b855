package model

import "sort"

// HashIndex maps a filename to every hash recorded for it, in the order the
// records were encountered. Repeated hashes are kept so that duplicate
// detection can happen at comparison time.
//
// The zero value is not usable; create one with NewHashIndex.
type HashIndex struct {
	hashes map[string][]string
}

// NewHashIndex creates an empty HashIndex.
func NewHashIndex() *HashIndex {
	return &HashIndex{hashes: make(map[string][]string)}
}

// Add appends hash to the list recorded for name.
func (h *HashIndex) Add(name, hash string) {
	h.hashes[name] = append(h.hashes[name], hash)
}

// Has reports whether name has at least one recorded hash.
func (h *HashIndex) Has(name string) bool {
	_, ok := h.hashes[name]
	return ok
}

// Hashes returns a copy of every hash recorded for name, repeats included.
// It returns nil when name is unknown.
func (h *HashIndex) Hashes(name string) []string {
	list, ok := h.hashes[name]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Unique returns the distinct hashes recorded for name, keeping the first
// occurrence of each. [h1 h1 h2] becomes [h1 h2].
func (h *HashIndex) Unique(name string) []string {
	return Dedupe(h.hashes[name])
}

// Names returns all filenames in ascending order.
func (h *HashIndex) Names() []string {
	names := make([]string, 0, len(h.hashes))
	for name := range h.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct filenames.
func (h *HashIndex) Len() int {
	return len(h.hashes)
}

// Records returns the total number of hashes recorded across all filenames.
func (h *HashIndex) Records() int {
	total := 0
	for _, list := range h.hashes {
		total += len(list)
	}
	return total
}

// ProvenanceIndex maps a filename to the raw-corpus directories whose
// manifests mentioned it. A directory is recorded once per mention, so the
// index is a multiset; Locations collapses it for reporting.
//
// Provenance is informational only and never affects a Status.
type ProvenanceIndex struct {
	dirs map[string][]string
}

// NewProvenanceIndex creates an empty ProvenanceIndex.
func NewProvenanceIndex() *ProvenanceIndex {
	return &ProvenanceIndex{dirs: make(map[string][]string)}
}

// Add records that dir contributed an entry for name.
func (p *ProvenanceIndex) Add(name, dir string) {
	p.dirs[name] = append(p.dirs[name], dir)
}

// Locations returns the distinct directories recorded for name, sorted.
// It returns an empty slice when name is unknown.
func (p *ProvenanceIndex) Locations(name string) []string {
	seen := make(map[string]struct{}, len(p.dirs[name]))
	out := make([]string, 0, len(p.dirs[name]))
	for _, d := range p.dirs[name] {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Count returns how many times name was mentioned across the raw corpus.
func (p *ProvenanceIndex) Count(name string) int {
	return len(p.dirs[name])
}

// Dedupe returns the distinct values of list in first-seen order.
// The result is never nil.
func Dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
