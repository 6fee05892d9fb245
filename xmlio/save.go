// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package xmlio

import (
	"encoding/xml"
	"os"

	"github.com/mechyard/crowdsolve/journal"
	"github.com/mechyard/crowdsolve/physics"
)

func encode(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return &DocumentLoadError{Path: path, Err: err}
	}
	defer f.Close()

	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &DocumentLoadError{Path: path, Err: err}
	}
	return nil
}

// SaveAgentDynamics writes the post-step AgentDynamics output document: the
// same structure as the input document but without Dynamics tags, since
// driving force/torque is an input-only concept.
func SaveAgentDynamics(path string, w *physics.World) error {
	doc := agentDynamicsDoc{Agents: make([]agentDynamicsXML, 0, len(w.Order))}
	for _, id := range w.Order {
		a := w.Agents[id]
		doc.Agents = append(doc.Agents, agentDynamicsXML{
			Id: id,
			Kinematics: kinematicsXML{
				Position: formatPair(a.Pos),
				Velocity: formatPair(a.Vel),
				Theta:    formatFloat(a.Theta),
				Omega:    formatFloat(a.Omega),
			},
		})
	}
	return encode(path, doc)
}

// SaveInteractions writes the AgentInteractions document from the live
// journal entries only (entries dropped by Journal.Cleanup never reach
// here). Entries are grouped by parent agent id, then by child agent id or
// under a single Wall element per parent, per spec.md §6's document shape.
func SaveInteractions(path string, j *journal.Journal) error {
	byAgent := make(map[string]*interactionAgentXML)
	childIndex := make(map[[2]string]int) // (parent, child) -> index into byAgent[parent].Agents

	getParent := func(id string) *interactionAgentXML {
		p, ok := byAgent[id]
		if !ok {
			p = &interactionAgentXML{Id: id}
			byAgent[id] = p
		}
		return p
	}

	j.PairEntries(func(k journal.PairKey, e journal.Entry) {
		parent := getParent(k.AgentI)
		idx, ok := childIndex[[2]string{k.AgentI, k.AgentJ}]
		if !ok {
			parent.Agents = append(parent.Agents, interactionChildAgentXML{Id: k.AgentJ})
			idx = len(parent.Agents) - 1
			childIndex[[2]string{k.AgentI, k.AgentJ}] = idx
		}
		parent.Agents[idx].Interactions = append(parent.Agents[idx].Interactions, interactionEntryXML{
			ParentShape: k.DiskI, ChildShape: k.DiskJ,
			Xi: formatPair(e.Xi), Fn: formatPair(e.Fn), Ft: formatPair(e.Ft),
		})
	})

	wallIndex := make(map[string]int) // parent -> index of its single Wall element
	j.WallEntries(func(k journal.WallKey, e journal.Entry) {
		parent := getParent(k.Agent)
		idx, ok := wallIndex[k.Agent]
		if !ok {
			parent.Walls = append(parent.Walls, interactionWallXML{})
			idx = len(parent.Walls) - 1
			wallIndex[k.Agent] = idx
		}
		segment := k.Segment
		parent.Walls[idx].Interactions = append(parent.Walls[idx].Interactions, interactionEntryXML{
			ShapeId: k.Disk, WallId: k.Wall, CornerId: &segment,
			Xi: formatPair(e.Xi), Fn: formatPair(e.Fn), Ft: formatPair(e.Ft),
		})
	})

	doc := interactionsDoc{Agents: make([]interactionAgentXML, 0, len(byAgent))}
	for _, a := range byAgent {
		doc.Agents = append(doc.Agents, *a)
	}
	return encode(path, doc)
}
