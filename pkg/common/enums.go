package common

// Observability classifies whether an action can be seen by a third party.
type Observability string

const (
	ObservabilityObservable Observability = "Observable"
	ObservabilityCovert     Observability = "Covert"
)

// ConditionType classifies a state condition.
type ConditionType string

const (
	ConditionMotivatingOperation         ConditionType = "MotivatingOperation"
	ConditionGeneralEnvironmentalContext ConditionType = "GeneralEnvironmentalContext"
	ConditionPhysiologicalState          ConditionType = "PhysiologicalState"
	ConditionLastingEmotionalState       ConditionType = "LastingEmotionalState"
)

// Confidence is the analyst's confidence in a hypothesis.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Temporality tags the temporal position of a stimulus relative to an action.
type Temporality string

const (
	PrecedesImmediately Temporality = "PRECEDES_IMMEDIATELY"
	PrecedesWithDelay   Temporality = "PRECEDES_WITH_DELAY"
	CoOccurs            Temporality = "CO_OCCURS"
	FollowsImmediately  Temporality = "FOLLOWS_IMMEDIATELY"
	FollowsWithDelay    Temporality = "FOLLOWS_WITH_DELAY"
)

// AntecedentFunction is the functional role of a stimulus preceding an action.
type AntecedentFunction string

const (
	AntecedentDiscriminative         AntecedentFunction = "DISCRIMINATIVE_STIMULUS_SD"
	AntecedentDelta                  AntecedentFunction = "S_DELTA"
	AntecedentConditional            AntecedentFunction = "CONDITIONAL_STIMULUS"
	AntecedentNeutral                AntecedentFunction = "NEUTRAL_STIMULUS"
	AntecedentUnconditionedEliciting AntecedentFunction = "UNCONDITIONED_ELICITING_STIMULUS"
	AntecedentConditionedEliciting   AntecedentFunction = "CONDITIONED_ELICITING_STIMULUS"
	AntecedentToBeDefined            AntecedentFunction = "TO_BE_DEFINED"
)

// ConsequentFunction is the functional role of a stimulus following an action.
type ConsequentFunction string

const (
	PositiveReinforcement   ConsequentFunction = "POSITIVE_REINFORCEMENT_SR+"
	NegativeReinforcement   ConsequentFunction = "NEGATIVE_REINFORCEMENT_SR-"
	PositivePunishment      ConsequentFunction = "POSITIVE_PUNISHMENT_SP+"
	NegativePunishment      ConsequentFunction = "NEGATIVE_PUNISHMENT_SP-"
	Extinction              ConsequentFunction = "EXTINCTION"
	NoConsequenceIdentified ConsequentFunction = "NO_CONSEQUENCE_IDENTIFIED"
	ConsequentToBeDefined   ConsequentFunction = "TO_BE_DEFINED"
)

// IsPunishment reports whether f weakens the action it follows.
func (f ConsequentFunction) IsPunishment() bool {
	return f == PositivePunishment || f == NegativePunishment
}

// IsReinforcement reports whether f strengthens the action it follows.
func (f ConsequentFunction) IsReinforcement() bool {
	return f == PositiveReinforcement || f == NegativeReinforcement
}

// Immediacy describes the delay between an action and its consequence.
type Immediacy string

const (
	ImmediacyImmediate Immediacy = "Immediate"
	ImmediacyDelayed   Immediacy = "Delayed"
)

// ModulationType classifies how a state condition modulates a contingency.
type ModulationType string

const (
	ModulationEstablishingOperation  ModulationType = "ESTABLISHING_OPERATION"
	ModulationAbolishingOperation    ModulationType = "ABOLISHING_OPERATION"
	ModulationFacilitatingContext    ModulationType = "FACILITATING_CONTEXT"
	ModulationInhibitingContext      ModulationType = "INHIBITING_CONTEXT"
	ModulationIncreasesReinforcement ModulationType = "INCREASES_REINFORCEMENT_SENSITIVITY"
	ModulationDecreasesPunishment    ModulationType = "DECREASES_PUNISHMENT_SENSITIVITY"
	ModulationOther                  ModulationType = "OTHER"
)

// EvidenceType states whether evidence supports or contradicts a hypothesis.
type EvidenceType string

const (
	EvidenceDirectSupport        EvidenceType = "DIRECT_SUPPORT"
	EvidenceIndirectSupport      EvidenceType = "INDIRECT_SUPPORT"
	EvidencePartialContradiction EvidenceType = "PARTIAL_CONTRADICTION"
	EvidenceStrongContradiction  EvidenceType = "STRONG_CONTRADICTION"
)

// EdgeKind is the discriminant carried by every edge.
type EdgeKind string

const (
	EdgeBehavioralEmission    EdgeKind = "BEHAVIORAL_EMISSION"
	EdgeTemporalRelation      EdgeKind = "TEMPORAL_RELATION"
	EdgeAntecedentRelation    EdgeKind = "ANTECEDENT_FUNCTIONAL_RELATION"
	EdgeConsequentRelation    EdgeKind = "CONSEQUENT_FUNCTIONAL_RELATION"
	EdgeStateModulating       EdgeKind = "STATE_MODULATING_RELATION"
	EdgeEvidenceForHypothesis EdgeKind = "EVIDENCE_FOR_HYPOTHESIS"
)
