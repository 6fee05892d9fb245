// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package journal is the persistent interaction journal: the per-contact
// accumulated tangential displacement that must survive across macro steps
// for pairs still in contact, and must be discarded once contact breaks.
// It knows nothing about XML; package xmlio converts to and from the
// AgentInteractions document.
package journal

import "github.com/mechyard/crowdsolve/math/lin"

// PairKey identifies an agent-agent contact: (parent agent, child agent,
// parent disk, child disk). Only i<j (by agent id ordering) is stored,
// per spec.md §4.6.
type PairKey struct {
	AgentI, AgentJ string
	DiskI, DiskJ   string
}

// WallKey identifies an agent-wall contact: (agent, disk, wall, segment).
type WallKey struct {
	Agent   string
	Disk    string
	Wall    string
	Segment int
}

// Entry is the persisted state of one live or recently-live contact.
type Entry struct {
	Xi lin.V2 // accumulated tangential displacement ξ
	Fn lin.V2 // last normal force
	Ft lin.V2 // last tangential force

	touched bool // set by MarkTouched, cleared by Cleanup
}

// Journal is keyed by PairKey for agent-agent contacts and WallKey for
// agent-wall contacts. A missing entry reads as ξ=0, per spec.md §4.6 and
// §7 ("the journal is tolerant").
type Journal struct {
	pairs map[PairKey]*Entry
	walls map[WallKey]*Entry
}

// New returns an empty journal. A missing journal file on first run is not
// an error — this is the empty journal spec.md §4.6 describes.
func New() *Journal {
	return &Journal{
		pairs: make(map[PairKey]*Entry),
		walls: make(map[WallKey]*Entry),
	}
}

// normalize ensures a PairKey always orders AgentI < AgentJ, matching the
// "only i<j is stored" invariant, swapping the disk ids along with the
// agent ids so the key still names (parent-disk, child-disk) consistently.
func normalize(k PairKey) PairKey {
	if k.AgentI > k.AgentJ {
		k.AgentI, k.AgentJ = k.AgentJ, k.AgentI
		k.DiskI, k.DiskJ = k.DiskJ, k.DiskI
	}
	return k
}

// Pair returns the entry for an agent-agent contact, creating one seeded
// with ξ=0 if it is not already present. The returned entry is not yet
// marked touched; callers must call MarkTouched once the contact is
// confirmed live this sub-step.
func (j *Journal) Pair(k PairKey) *Entry {
	k = normalize(k)
	e, ok := j.pairs[k]
	if !ok {
		e = &Entry{}
		j.pairs[k] = e
	}
	return e
}

// Wall returns the entry for an agent-wall contact, creating one seeded
// with ξ=0 if not already present.
func (j *Journal) Wall(k WallKey) *Entry {
	e, ok := j.walls[k]
	if !ok {
		e = &Entry{}
		j.walls[k] = e
	}
	return e
}

// MarkTouched records that an entry saw a live contact during the current
// sub-step. Cleanup drops every entry that was not marked since the last
// cleanup.
func (e *Entry) MarkTouched() { e.touched = true }

// Cleanup drops every pair/wall entry that was not touched since the
// journal was created or last cleaned up, per spec.md §4.4 Step 7. It
// resets the touched flag on every surviving entry so the next macro step
// starts from a clean slate.
func (j *Journal) Cleanup() {
	for k, e := range j.pairs {
		if !e.touched {
			delete(j.pairs, k)
			continue
		}
		e.touched = false
	}
	for k, e := range j.walls {
		if !e.touched {
			delete(j.walls, k)
			continue
		}
		e.touched = false
	}
}

// PairEntries calls fn for every live agent-agent entry, in no particular
// order. Used by xmlio to emit the AgentInteractions document.
func (j *Journal) PairEntries(fn func(PairKey, Entry)) {
	for k, e := range j.pairs {
		fn(k, *e)
	}
}

// WallEntries calls fn for every live agent-wall entry.
func (j *Journal) WallEntries(fn func(WallKey, Entry)) {
	for k, e := range j.walls {
		fn(k, *e)
	}
}

// Seed installs a previously-persisted entry for a pair, used when loading
// the AgentInteractions document at the start of a macro step. Any
// existing entry for the same key is replaced.
func (j *Journal) Seed(k PairKey, e Entry) {
	e.touched = false
	ej := e
	j.pairs[normalize(k)] = &ej
}

// SeedWall installs a previously-persisted entry for a wall contact.
func (j *Journal) SeedWall(k WallKey, e Entry) {
	e.touched = false
	ej := e
	j.walls[k] = &ej
}

// Len returns the number of live entries (pairs + walls), used for
// operational logging.
func (j *Journal) Len() int { return len(j.pairs) + len(j.walls) }
