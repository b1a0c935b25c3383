// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package collection declares the closed set of syncable collections and the
// bijective mapping between their local and remote identifiers.
//
// The mapping is built once at startup. A name without a mapping is a
// configuration error and is never recovered from at runtime.
package collection

import (
	"fmt"
	"sort"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// Definition binds one local collection name to its remote counterpart and
// the entity kind stored in it.
type Definition struct {
	Local  string
	Remote string
	Kind   models.Kind
}

// Mapper is an immutable bijection between local and remote collection names.
// It is safe for concurrent use.
type Mapper struct {
	defs     []Definition
	byLocal  map[string]Definition
	byRemote map[string]Definition
}

// NewMapper validates defs and builds a Mapper.
//
// Every name must be non-empty, every kind registered, and both the local
// and the remote side must be unique so that ToLocal(ToRemote(x)) == x.
func NewMapper(defs ...Definition) (*Mapper, error) {
	m := &Mapper{
		defs:     make([]Definition, 0, len(defs)),
		byLocal:  make(map[string]Definition, len(defs)),
		byRemote: make(map[string]Definition, len(defs)),
	}

	for _, def := range defs {
		if def.Local == "" || def.Remote == "" {
			return nil, fmt.Errorf("%w: %+v", ErrEmptyName, def)
		}
		if !models.KnownKind(def.Kind) {
			return nil, fmt.Errorf("%w: %q for collection %q", ErrUnknownKind, def.Kind, def.Local)
		}
		if _, dup := m.byLocal[def.Local]; dup {
			return nil, fmt.Errorf("%w: local name %q", ErrDuplicateMapping, def.Local)
		}
		if _, dup := m.byRemote[def.Remote]; dup {
			return nil, fmt.Errorf("%w: remote name %q", ErrDuplicateMapping, def.Remote)
		}

		m.defs = append(m.defs, def)
		m.byLocal[def.Local] = def
		m.byRemote[def.Remote] = def
	}

	return m, nil
}

// MustNewMapper is like NewMapper but panics on invalid definitions.
func MustNewMapper(defs ...Definition) *Mapper {
	m, err := NewMapper(defs...)
	if err != nil {
		panic(err)
	}
	return m
}

// DefaultDefinitions returns the collections synchronised by the application.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Local: "journalEntries", Remote: "journal_entries", Kind: models.KindJournalEntry},
		{Local: "moodEntries", Remote: "mood_entries", Kind: models.KindMoodEntry},
		{Local: "habits", Remote: "habits", Kind: models.KindHabit},
		{Local: "goals", Remote: "goals", Kind: models.KindGoal},
		{Local: "reminders", Remote: "reminders", Kind: models.KindReminder},
		{Local: "chatSessions", Remote: "chat_sessions", Kind: models.KindChatSession},
	}
}

// Default returns a Mapper over DefaultDefinitions.
func Default() *Mapper {
	return MustNewMapper(DefaultDefinitions()...)
}

// Subset returns a Mapper restricted to the given local names, keeping the
// receiver's declaration order. Unknown names fail with ErrUnmappedCollection.
// An empty list returns the receiver unchanged.
func (m *Mapper) Subset(localNames ...string) (*Mapper, error) {
	if len(localNames) == 0 {
		return m, nil
	}

	wanted := make(map[string]struct{}, len(localNames))
	for _, name := range localNames {
		if _, ok := m.byLocal[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedCollection, name)
		}
		wanted[name] = struct{}{}
	}

	defs := make([]Definition, 0, len(wanted))
	for _, def := range m.defs {
		if _, ok := wanted[def.Local]; ok {
			defs = append(defs, def)
		}
	}

	return NewMapper(defs...)
}

// ToRemote returns the remote name for a local collection.
func (m *Mapper) ToRemote(local string) (string, error) {
	def, ok := m.byLocal[local]
	if !ok {
		return "", fmt.Errorf("%w: local %q", ErrUnmappedCollection, local)
	}
	return def.Remote, nil
}

// ToLocal returns the local name for a remote collection.
func (m *Mapper) ToLocal(remote string) (string, error) {
	def, ok := m.byRemote[remote]
	if !ok {
		return "", fmt.Errorf("%w: remote %q", ErrUnmappedCollection, remote)
	}
	return def.Local, nil
}

// Lookup returns the definition for a local name.
func (m *Mapper) Lookup(local string) (Definition, bool) {
	def, ok := m.byLocal[local]
	return def, ok
}

// LookupRemote returns the definition for a remote name.
func (m *Mapper) LookupRemote(remote string) (Definition, bool) {
	def, ok := m.byRemote[remote]
	return def, ok
}

// LocalNames returns local names in declaration order.
func (m *Mapper) LocalNames() []string {
	names := make([]string, 0, len(m.defs))
	for _, def := range m.defs {
		names = append(names, def.Local)
	}
	return names
}

// RemoteNames returns remote names sorted alphabetically.
func (m *Mapper) RemoteNames() []string {
	names := make([]string, 0, len(m.defs))
	for _, def := range m.defs {
		names = append(names, def.Remote)
	}
	sort.Strings(names)
	return names
}

// Definitions returns a copy of the definitions in declaration order.
func (m *Mapper) Definitions() []Definition {
	out := make([]Definition, len(m.defs))
	copy(out, m.defs)
	return out
}
