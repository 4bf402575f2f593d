// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import "fmt"

// Entry associates a command kind with its outgoing and incoming templates.
// Either template may be empty for receive-only or send-only kinds.
type Entry struct {
	Kind     CommandKind
	Outgoing string
	Incoming string
}

// CatalogLookup is the read-only view of a template catalog used by the Codec.
// Entries must return the same order on every call.
type CatalogLookup interface {
	Lookup(kind CommandKind) (Entry, bool)
	Entries() []Entry
}

// Catalog is an ordered, immutable list of template entries. Order is
// significant: the first entry whose template fits a telegram wins.
type Catalog struct {
	entries []Entry
	byKind  map[CommandKind]int
}

// NewCatalog validates entries and freezes them in the given order
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byKind:  make(map[CommandKind]int, len(entries)),
	}
	for i, e := range entries {
		if !e.Kind.Known() {
			return nil, fmt.Errorf("entry %d: %w: %s", i, ErrUnknownKind, e.Kind)
		}
		if _, exists := c.byKind[e.Kind]; exists {
			return nil, fmt.Errorf("entry %d: %w: %s", i, ErrDuplicateKind, e.Kind)
		}
		if err := ValidateTemplate(e.Outgoing); err != nil {
			return nil, fmt.Errorf("entry %d (%s) outgoing: %w", i, e.Kind, err)
		}
		if err := ValidateTemplate(e.Incoming); err != nil {
			return nil, fmt.Errorf("entry %d (%s) incoming: %w", i, e.Kind, err)
		}
		c.byKind[e.Kind] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on invalid entries
func MustCatalog(entries []Entry) *Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the entry for kind
func (c *Catalog) Lookup(kind CommandKind) (Entry, bool) {
	i, ok := c.byKind[kind]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of the entries in catalog order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}
