package common

// EdgeBase holds the fields shared by every edge kind.
type EdgeBase struct {
	ID           string   `json:"id" jsonschema_description:"Unique edge identifier, e.g. AR1, AR2" validate:"required"`
	SourceNodeID string   `json:"source_node_id" jsonschema_description:"ID of the source node" validate:"required"`
	TargetNodeID string   `json:"target_node_id" jsonschema_description:"ID of the target node" validate:"required"`
	Rationale    string   `json:"rationale" jsonschema_description:"Why this edge matters for the analysis" validate:"required"`
	EdgeType     EdgeKind `json:"edge_type" jsonschema_description:"Edge kind discriminant"`
}

func (e EdgeBase) ElementID() string { return e.ID }

// Endpoints returns the source and target node IDs.
func (e EdgeBase) Endpoints() (string, string) { return e.SourceNodeID, e.TargetNodeID }

func (e EdgeBase) Kind() EdgeKind { return e.EdgeType }

// BehavioralEmission links a subject to an action it emits.
type BehavioralEmission struct {
	EdgeBase
}

// TemporalRelation places a stimulus in time relative to an action.
type TemporalRelation struct {
	EdgeBase
	Temporality         Temporality `json:"temporality" jsonschema:"enum=PRECEDES_IMMEDIATELY,enum=PRECEDES_WITH_DELAY,enum=CO_OCCURS,enum=FOLLOWS_IMMEDIATELY,enum=FOLLOWS_WITH_DELAY" validate:"required,oneof=PRECEDES_IMMEDIATELY PRECEDES_WITH_DELAY CO_OCCURS FOLLOWS_IMMEDIATELY FOLLOWS_WITH_DELAY"`
	PerceivedContiguity string      `json:"perceived_contiguity" jsonschema_description:"High, Medium or Low"`
}

// AntecedentFunctionalRelation assigns a functional role to a stimulus that precedes an action.
type AntecedentFunctionalRelation struct {
	EdgeBase
	Function                   AntecedentFunction `json:"function" jsonschema:"enum=DISCRIMINATIVE_STIMULUS_SD,enum=S_DELTA,enum=CONDITIONAL_STIMULUS,enum=NEUTRAL_STIMULUS,enum=UNCONDITIONED_ELICITING_STIMULUS,enum=CONDITIONED_ELICITING_STIMULUS,enum=TO_BE_DEFINED" validate:"required,oneof=DISCRIMINATIVE_STIMULUS_SD S_DELTA CONDITIONAL_STIMULUS NEUTRAL_STIMULUS UNCONDITIONED_ELICITING_STIMULUS CONDITIONED_ELICITING_STIMULUS TO_BE_DEFINED"`
	ResponseProbabilityPresent float64            `json:"response_probability_present" jsonschema_description:"Probability of the response when the stimulus is present, 0 to 1" validate:"min=0,max=1"`
	ResponseProbabilityAbsent  float64            `json:"response_probability_absent" jsonschema_description:"Probability of the response when the stimulus is absent, 0 to 1" validate:"min=0,max=1"`
}

// ConsequentFunctionalRelation assigns a functional role to a stimulus that follows an action.
type ConsequentFunctionalRelation struct {
	EdgeBase
	Function          ConsequentFunction `json:"function" jsonschema:"enum=POSITIVE_REINFORCEMENT_SR+,enum=NEGATIVE_REINFORCEMENT_SR-,enum=POSITIVE_PUNISHMENT_SP+,enum=NEGATIVE_PUNISHMENT_SP-,enum=EXTINCTION,enum=NO_CONSEQUENCE_IDENTIFIED,enum=TO_BE_DEFINED" validate:"required,oneof=POSITIVE_REINFORCEMENT_SR+ NEGATIVE_REINFORCEMENT_SR- POSITIVE_PUNISHMENT_SP+ NEGATIVE_PUNISHMENT_SP- EXTINCTION NO_CONSEQUENCE_IDENTIFIED TO_BE_DEFINED"`
	Immediacy         Immediacy          `json:"immediacy" jsonschema:"enum=Immediate,enum=Delayed" validate:"omitempty,oneof=Immediate Delayed"`
	Magnitude         string             `json:"magnitude" jsonschema_description:"Low, Medium, High or a scale value"`
	ScheduleParameter string             `json:"schedule_parameter" jsonschema_description:"Delivery schedule parameter, e.g. the ratio of a fixed ratio schedule"`
}

// StateModulatingRelation links a state condition to the stimulus or action it modulates.
type StateModulatingRelation struct {
	EdgeBase
	ModulationType          ModulationType `json:"modulation_type" jsonschema:"enum=ESTABLISHING_OPERATION,enum=ABOLISHING_OPERATION,enum=FACILITATING_CONTEXT,enum=INHIBITING_CONTEXT,enum=INCREASES_REINFORCEMENT_SENSITIVITY,enum=DECREASES_PUNISHMENT_SENSITIVITY,enum=OTHER" validate:"required,oneof=ESTABLISHING_OPERATION ABOLISHING_OPERATION FACILITATING_CONTEXT INHIBITING_CONTEXT INCREASES_REINFORCEMENT_SENSITIVITY DECREASES_PUNISHMENT_SENSITIVITY OTHER"`
	ValueTargetStimulusID   string         `json:"value_target_stimulus_id" jsonschema_description:"ID of the consequent stimulus whose value is altered"`
	ValueEffect             string         `json:"value_effect" jsonschema_description:"Effect on value, e.g. increases the reinforcing value of X"`
	FrequencyTargetActionID string         `json:"frequency_target_action_id" jsonschema_description:"ID of the action whose frequency is altered"`
	FrequencyEffect         string         `json:"frequency_effect" jsonschema_description:"Effect on frequency, e.g. increases the frequency of Y"`
}

// EvidenceForHypothesis links an action to a hypothesis through a set of supporting elements.
type EvidenceForHypothesis struct {
	EdgeBase
	SupportingElementIDs []string     `json:"supporting_element_ids" jsonschema_description:"IDs of the nodes and edges forming the contingency that supports or refutes the hypothesis" validate:"required,min=1,dive,required"`
	EvidenceType         EvidenceType `json:"evidence_type" jsonschema:"enum=DIRECT_SUPPORT,enum=INDIRECT_SUPPORT,enum=PARTIAL_CONTRADICTION,enum=STRONG_CONTRADICTION" validate:"required,oneof=DIRECT_SUPPORT INDIRECT_SUPPORT PARTIAL_CONTRADICTION STRONG_CONTRADICTION"`
}
