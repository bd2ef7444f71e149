package graph

import (
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
)

// Context builders are read-only projections of the network. They copy the
// slices they return so a caller cannot reach back into the network.

type subjectsContext struct {
	Subjects []common.Subject `json:"subjects"`
}

func buildSubjectsContext(n *common.Network) subjectsContext {
	return subjectsContext{Subjects: cloneSlice(n.Subjects)}
}

type actionsContext struct {
	Subjects  []common.Subject            `json:"subjects"`
	Actions   []common.BehaviorAction     `json:"actions"`
	Emissions []common.BehavioralEmission `json:"behavioral_emissions"`
}

func buildActionsContext(n *common.Network) actionsContext {
	return actionsContext{
		Subjects:  cloneSlice(n.Subjects),
		Actions:   cloneSlice(n.Actions),
		Emissions: cloneSlice(n.Emissions),
	}
}

type stimuliContext struct {
	Actions           []common.BehaviorAction   `json:"actions"`
	Stimuli           []common.StimulusEvent    `json:"stimuli"`
	TemporalRelations []common.TemporalRelation `json:"temporal_relations"`
}

func buildStimuliContext(n *common.Network) stimuliContext {
	return stimuliContext{
		Actions:           cloneSlice(n.Actions),
		Stimuli:           cloneSlice(n.Stimuli),
		TemporalRelations: cloneSlice(n.TemporalRelations),
	}
}

// adjacencyContext is the slice of the network around temporal relations of
// one temporality: those relations, the stimuli and actions they connect,
// and the functional relations already inferred for them.
type adjacencyContext struct {
	TemporalRelations   []common.TemporalRelation             `json:"relevant_temporal_relations"`
	Stimuli             []common.StimulusEvent                `json:"relevant_stimuli"`
	Actions             []common.BehaviorAction               `json:"relevant_actions"`
	AntecedentRelations []common.AntecedentFunctionalRelation `json:"existing_antecedent_relations,omitempty"`
	ConsequentRelations []common.ConsequentFunctionalRelation `json:"existing_consequent_relations,omitempty"`
}

func buildAdjacencyContext(n *common.Network, t common.Temporality) adjacencyContext {
	relations := n.TemporalRelationsWith(t)

	endpoints := make(map[string]struct{}, 2*len(relations))
	for _, r := range relations {
		endpoints[r.SourceNodeID] = struct{}{}
		endpoints[r.TargetNodeID] = struct{}{}
	}

	return adjacencyContext{
		TemporalRelations: relations,
		Stimuli:           filterByID(n.Stimuli, endpoints),
		Actions:           filterByID(n.Actions, endpoints),
	}
}

// buildAntecedentContext slices the network to stimulus and action pairs
// tagged PRECEDES_IMMEDIATELY.
func buildAntecedentContext(n *common.Network) adjacencyContext {
	c := buildAdjacencyContext(n, common.PrecedesImmediately)
	c.AntecedentRelations = cloneSlice(n.AntecedentRelations)
	return c
}

// buildConsequentContext slices the network to action and stimulus pairs
// tagged FOLLOWS_IMMEDIATELY.
func buildConsequentContext(n *common.Network) adjacencyContext {
	c := buildAdjacencyContext(n, common.FollowsImmediately)
	c.ConsequentRelations = cloneSlice(n.ConsequentRelations)
	return c
}

type conditionsContext struct {
	Subjects            []common.Subject                      `json:"subjects"`
	Actions             []common.BehaviorAction               `json:"actions"`
	Stimuli             []common.StimulusEvent                `json:"stimuli"`
	AntecedentRelations []common.AntecedentFunctionalRelation `json:"antecedent_relations"`
	ConsequentRelations []common.ConsequentFunctionalRelation `json:"consequent_relations"`
	Conditions          []common.StateCondition               `json:"existing_conditions"`
}

func buildConditionsContext(n *common.Network) conditionsContext {
	return conditionsContext{
		Subjects:            cloneSlice(n.Subjects),
		Actions:             cloneSlice(n.Actions),
		Stimuli:             cloneSlice(n.Stimuli),
		AntecedentRelations: cloneSlice(n.AntecedentRelations),
		ConsequentRelations: cloneSlice(n.ConsequentRelations),
		Conditions:          cloneSlice(n.Conditions),
	}
}

type modulatingContext struct {
	Conditions          []common.StateCondition               `json:"conditions"`
	Stimuli             []common.StimulusEvent                `json:"stimuli"`
	Actions             []common.BehaviorAction               `json:"actions"`
	ConsequentRelations []common.ConsequentFunctionalRelation `json:"consequent_relations"`
	ModulatingRelations []common.StateModulatingRelation      `json:"existing_modulating_relations"`
}

func buildModulatingContext(n *common.Network) modulatingContext {
	return modulatingContext{
		Conditions:          cloneSlice(n.Conditions),
		Stimuli:             cloneSlice(n.Stimuli),
		Actions:             cloneSlice(n.Actions),
		ConsequentRelations: cloneSlice(n.ConsequentRelations),
		ModulatingRelations: cloneSlice(n.ModulatingRelations),
	}
}

type hypothesesContext struct {
	Network   *common.Network `json:"network"`
	Timestamp string          `json:"formulation_timestamp"`
}

func buildHypothesesContext(n *common.Network, now time.Time) hypothesesContext {
	return hypothesesContext{
		Network:   n.Clone(),
		Timestamp: now.Format(time.RFC3339Nano),
	}
}

type timelineNode struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

type timelineContext struct {
	Nodes    []timelineNode `json:"nodes"`
	Timeline []string       `json:"current_timeline"`
}

func buildTimelineContext(n *common.Network) timelineContext {
	nodes := make([]timelineNode, 0, n.NodeCount())
	for _, s := range n.Subjects {
		nodes = append(nodes, timelineNode{ID: s.ID, Kind: "subject", Description: s.Description})
	}
	for _, s := range n.Stimuli {
		nodes = append(nodes, timelineNode{ID: s.ID, Kind: "stimulus", Description: s.Description})
	}
	for _, a := range n.Actions {
		nodes = append(nodes, timelineNode{ID: a.ID, Kind: "action", Description: a.Description})
	}
	for _, c := range n.Conditions {
		nodes = append(nodes, timelineNode{ID: c.ID, Kind: "condition", Description: c.Description})
	}
	for _, h := range n.Hypotheses {
		nodes = append(nodes, timelineNode{ID: h.ID, Kind: "hypothesis", Description: h.Description})
	}
	return timelineContext{Nodes: nodes, Timeline: cloneSlice(n.Timeline)}
}

func filterByID[T common.Element](elements []T, ids map[string]struct{}) []T {
	out := make([]T, 0)
	for _, e := range elements {
		if _, ok := ids[e.ElementID()]; ok {
			out = append(out, e)
		}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
