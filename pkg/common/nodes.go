package common

// Subject is a person or organism whose behavior the narrative describes.
type Subject struct {
	ID              string `json:"id" jsonschema_description:"Unique subject identifier, e.g. S1, S2" validate:"required"`
	Description     string `json:"description" jsonschema_description:"Name or short description of the subject"`
	RelevantHistory string `json:"relevant_history" jsonschema_description:"Short summary of contextual history relevant to the analysis"`
	Rationale       string `json:"rationale" jsonschema_description:"Why this subject matters for the analysis" validate:"required"`
}

// StimulusEvent is an environmental change that can precede or follow an action.
type StimulusEvent struct {
	ID          string `json:"id" jsonschema_description:"Unique stimulus identifier, e.g. E1, E2" validate:"required"`
	Description string `json:"description" jsonschema_description:"Objective description of the stimulus or event" validate:"required"`
	Rationale   string `json:"rationale" jsonschema_description:"Why this stimulus matters for the analysis" validate:"required"`
}

// BehaviorAction is a response emitted by a subject.
type BehaviorAction struct {
	ID                            string        `json:"id" jsonschema_description:"Unique action identifier, e.g. AC1, AC2" validate:"required"`
	Description                   string        `json:"description" jsonschema_description:"Objective, measurable description of the form of the action" validate:"required"`
	Observability                 Observability `json:"observability" jsonschema:"enum=Observable,enum=Covert" validate:"omitempty,oneof=Observable Covert"`
	HypotheticalFunctionalClasses []string      `json:"hypothetical_functional_classes" jsonschema_description:"Possible inferred functions, e.g. attention seeking, task escape"`
	Rationale                     string        `json:"rationale" jsonschema_description:"Why this action matters for the analysis" validate:"required"`
}

// StateCondition is a lasting state or context that alters the value of stimuli.
type StateCondition struct {
	ID            string        `json:"id" jsonschema_description:"Unique condition identifier, e.g. CE1, CE2" validate:"required"`
	Description   string        `json:"description" jsonschema_description:"Description of the condition or state" validate:"required"`
	ConditionType ConditionType `json:"condition_type" jsonschema:"enum=MotivatingOperation,enum=GeneralEnvironmentalContext,enum=PhysiologicalState,enum=LastingEmotionalState" validate:"omitempty,oneof=MotivatingOperation GeneralEnvironmentalContext PhysiologicalState LastingEmotionalState"`
	Duration      string        `json:"duration" jsonschema_description:"Duration of the condition, e.g. about two hours, during class"`
	Rationale     string        `json:"rationale" jsonschema_description:"Why this condition matters for the analysis" validate:"required"`
}

// AnalyticHypothesis is a functional hypothesis about the behavior in the narrative.
type AnalyticHypothesis struct {
	ID           string     `json:"id" jsonschema_description:"Unique hypothesis identifier, e.g. H1, H2" validate:"required"`
	Description  string     `json:"description" jsonschema_description:"Text of the functional hypothesis" validate:"required"`
	Confidence   Confidence `json:"confidence" jsonschema:"enum=Low,enum=Medium,enum=High" validate:"omitempty,oneof=Low Medium High"`
	FormulatedAt string     `json:"formulated_at" jsonschema_description:"ISO 8601 timestamp of when the hypothesis was formulated"`
	Rationale    string     `json:"rationale" jsonschema_description:"Reasoning that supports the hypothesis" validate:"required"`
}

func (s Subject) ElementID() string            { return s.ID }
func (s StimulusEvent) ElementID() string      { return s.ID }
func (a BehaviorAction) ElementID() string     { return a.ID }
func (c StateCondition) ElementID() string     { return c.ID }
func (h AnalyticHypothesis) ElementID() string { return h.ID }
