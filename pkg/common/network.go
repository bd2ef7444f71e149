package common

// Element is implemented by every node and edge. ElementID returns the
// caller-assigned identity used for upserts; it is empty for unindexable
// records.
type Element interface {
	ElementID() string
}

// Edge is an Element connecting two node IDs.
type Edge interface {
	Element
	Endpoints() (source string, target string)
	Kind() EdgeKind
}

// Network is the contingency graph extracted from one narrative. It is owned
// by exactly one pipeline run at a time: each stage receives it, mutates it
// and hands it to the next one.
//
// Node collections:
//   - Subjects, Stimuli, Actions, Conditions, Hypotheses
//
// Edge collections:
//   - Emissions (Subject -> Action)
//   - TemporalRelations (Stimulus <-> Action)
//   - AntecedentRelations (Stimulus -> Action)
//   - ConsequentRelations (Action -> Stimulus)
//   - ModulatingRelations (Condition -> Stimulus | Action)
//   - Evidence (Action -> Hypothesis)
//
// Timeline lists node IDs in order of appearance in the narrative.
type Network struct {
	Subjects            []Subject                      `json:"subjects"`
	Actions             []BehaviorAction               `json:"actions"`
	Emissions           []BehavioralEmission           `json:"behavioral_emissions"`
	Stimuli             []StimulusEvent                `json:"stimuli"`
	TemporalRelations   []TemporalRelation             `json:"temporal_relations"`
	Conditions          []StateCondition               `json:"conditions"`
	AntecedentRelations []AntecedentFunctionalRelation `json:"antecedent_relations"`
	ConsequentRelations []ConsequentFunctionalRelation `json:"consequent_relations"`
	ModulatingRelations []StateModulatingRelation      `json:"modulating_relations"`
	Hypotheses          []AnalyticHypothesis           `json:"hypotheses"`
	Evidence            []EvidenceForHypothesis        `json:"evidence"`
	Timeline            []string                       `json:"timeline"`
}

// NewNetwork returns an empty network whose collections serialize as empty
// arrays instead of null.
func NewNetwork() *Network {
	return &Network{
		Subjects:            []Subject{},
		Actions:             []BehaviorAction{},
		Emissions:           []BehavioralEmission{},
		Stimuli:             []StimulusEvent{},
		TemporalRelations:   []TemporalRelation{},
		Conditions:          []StateCondition{},
		AntecedentRelations: []AntecedentFunctionalRelation{},
		ConsequentRelations: []ConsequentFunctionalRelation{},
		ModulatingRelations: []StateModulatingRelation{},
		Hypotheses:          []AnalyticHypothesis{},
		Evidence:            []EvidenceForHypothesis{},
		Timeline:            []string{},
	}
}

// Clone returns a copy of n that shares no collection backing arrays with it.
func (n *Network) Clone() *Network {
	if n == nil {
		return NewNetwork()
	}
	c := &Network{
		Subjects:            append([]Subject{}, n.Subjects...),
		Actions:             make([]BehaviorAction, len(n.Actions)),
		Emissions:           append([]BehavioralEmission{}, n.Emissions...),
		Stimuli:             append([]StimulusEvent{}, n.Stimuli...),
		TemporalRelations:   append([]TemporalRelation{}, n.TemporalRelations...),
		Conditions:          append([]StateCondition{}, n.Conditions...),
		AntecedentRelations: append([]AntecedentFunctionalRelation{}, n.AntecedentRelations...),
		ConsequentRelations: append([]ConsequentFunctionalRelation{}, n.ConsequentRelations...),
		ModulatingRelations: append([]StateModulatingRelation{}, n.ModulatingRelations...),
		Hypotheses:          append([]AnalyticHypothesis{}, n.Hypotheses...),
		Evidence:            make([]EvidenceForHypothesis, len(n.Evidence)),
		Timeline:            append([]string{}, n.Timeline...),
	}
	for i, a := range n.Actions {
		a.HypotheticalFunctionalClasses = append([]string(nil), a.HypotheticalFunctionalClasses...)
		c.Actions[i] = a
	}
	for i, e := range n.Evidence {
		e.SupportingElementIDs = append([]string(nil), e.SupportingElementIDs...)
		c.Evidence[i] = e
	}
	return c
}

// NodeIDs returns the set of IDs of every node in the network.
func (n *Network) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	add := func(id string) {
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	for _, s := range n.Subjects {
		add(s.ID)
	}
	for _, a := range n.Actions {
		add(a.ID)
	}
	for _, s := range n.Stimuli {
		add(s.ID)
	}
	for _, c := range n.Conditions {
		add(c.ID)
	}
	for _, h := range n.Hypotheses {
		add(h.ID)
	}
	return ids
}

// ElementIDs returns the set of IDs of every node and edge in the network.
func (n *Network) ElementIDs() map[string]struct{} {
	ids := n.NodeIDs()
	for _, e := range n.Edges() {
		if id := e.ElementID(); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// Edges returns every edge in the network in collection order.
func (n *Network) Edges() []Edge {
	edges := make([]Edge, 0,
		len(n.Emissions)+len(n.TemporalRelations)+len(n.AntecedentRelations)+
			len(n.ConsequentRelations)+len(n.ModulatingRelations)+len(n.Evidence))
	for _, e := range n.Emissions {
		edges = append(edges, e)
	}
	for _, e := range n.TemporalRelations {
		edges = append(edges, e)
	}
	for _, e := range n.AntecedentRelations {
		edges = append(edges, e)
	}
	for _, e := range n.ConsequentRelations {
		edges = append(edges, e)
	}
	for _, e := range n.ModulatingRelations {
		edges = append(edges, e)
	}
	for _, e := range n.Evidence {
		edges = append(edges, e)
	}
	return edges
}

// NodeCount returns the number of nodes across all node collections.
func (n *Network) NodeCount() int {
	return len(n.Subjects) + len(n.Actions) + len(n.Stimuli) + len(n.Conditions) + len(n.Hypotheses)
}

// TemporalRelationsWith returns the temporal relations tagged with t.
func (n *Network) TemporalRelationsWith(t Temporality) []TemporalRelation {
	out := []TemporalRelation{}
	for _, r := range n.TemporalRelations {
		if r.Temporality == t {
			out = append(out, r)
		}
	}
	return out
}
