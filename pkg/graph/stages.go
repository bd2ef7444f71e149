package graph

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
)

// Output prototypes. Their JSON schemas are sent to the generator and their
// slice fields are the keys each stage merges.

type subjectsOutput struct {
	Rationale string           `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	Subjects  []common.Subject `json:"subjects"`
}

type actionsOutput struct {
	Rationale string                      `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	Actions   []common.BehaviorAction     `json:"actions"`
	Emissions []common.BehavioralEmission `json:"behavioral_emissions"`
}

type stimuliOutput struct {
	Rationale         string                    `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	Stimuli           []common.StimulusEvent    `json:"stimuli"`
	TemporalRelations []common.TemporalRelation `json:"temporal_relations"`
}

type antecedentOutput struct {
	Rationale           string                                `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	AntecedentRelations []common.AntecedentFunctionalRelation `json:"antecedent_relations"`
	UpdatedStimuli      []common.StimulusEvent                `json:"updated_stimuli"`
	UpdatedActions      []common.BehaviorAction               `json:"updated_actions"`
}

type consequentOutput struct {
	Rationale           string                                `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	ConsequentRelations []common.ConsequentFunctionalRelation `json:"consequent_relations"`
	UpdatedStimuli      []common.StimulusEvent                `json:"updated_stimuli"`
	UpdatedActions      []common.BehaviorAction               `json:"updated_actions"`
}

type conditionsOutput struct {
	Rationale  string                  `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	Conditions []common.StateCondition `json:"conditions"`
}

type modulatingOutput struct {
	Rationale           string                           `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	ModulatingRelations []common.StateModulatingRelation `json:"modulating_relations"`
	UpdatedConditions   []common.StateCondition          `json:"updated_conditions"`
	UpdatedStimuli      []common.StimulusEvent           `json:"updated_stimuli"`
	UpdatedActions      []common.BehaviorAction          `json:"updated_actions"`
}

type hypothesesOutput struct {
	Rationale  string                         `json:"rationale" jsonschema_description:"Reasoning behind the extraction in this step"`
	Hypotheses []common.AnalyticHypothesis    `json:"hypotheses"`
	Evidence   []common.EvidenceForHypothesis `json:"evidence"`
}

type timelineOutput struct {
	Rationale string   `json:"rationale" jsonschema_description:"Reasoning behind the ordering"`
	Timeline  []string `json:"timeline" jsonschema_description:"Node IDs ordered by appearance in the narrative"`
}

var (
	subjectsShape   = ai.NewOutputShape("subjects", "Subjects identified in the narrative", subjectsOutput{})
	actionsShape    = ai.NewOutputShape("actions", "Actions and the subjects that emit them", actionsOutput{})
	stimuliShape    = ai.NewOutputShape("stimuli", "Stimuli and their temporal relations to actions", stimuliOutput{})
	antecedentShape = ai.NewOutputShape("antecedent_relations", "Antecedent functional relations", antecedentOutput{})
	consequentShape = ai.NewOutputShape("consequent_relations", "Consequent functional relations", consequentOutput{})
	conditionsShape = ai.NewOutputShape("conditions", "State conditions", conditionsOutput{})
	modulatingShape = ai.NewOutputShape("modulating_relations", "State modulating relations", modulatingOutput{})
	hypothesesShape = ai.NewOutputShape("hypotheses", "Analytic hypotheses and their evidence", hypothesesOutput{})
	timelineShape   = ai.NewOutputShape("timeline", "Node IDs in narrative order", timelineOutput{})
)

type subjectsStage struct{}

func (subjectsStage) Name() string                { return "subjects" }
func (subjectsStage) Focus() string               { return subjectsFocus }
func (subjectsStage) OutputShape() ai.OutputShape { return subjectsShape }

func (subjectsStage) BuildContext(n *common.Network) (any, error) {
	return buildSubjectsContext(n), nil
}

func (subjectsStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeKey(out, "subjects", &n.Subjects, common.NewSubject, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type actionsStage struct{}

func (actionsStage) Name() string                { return "actions" }
func (actionsStage) Focus() string               { return actionsFocus }
func (actionsStage) OutputShape() ai.OutputShape { return actionsShape }

func (actionsStage) BuildContext(n *common.Network) (any, error) {
	return buildActionsContext(n), nil
}

func (actionsStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeKey(out, "actions", &n.Actions, common.NewBehaviorAction, &summary); err != nil {
		return "", err
	}
	emissions := withEndpoints(n.NodeIDs(), common.NewBehavioralEmission)
	if err := mergeKey(out, "behavioral_emissions", &n.Emissions, emissions, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type stimuliStage struct{}

func (stimuliStage) Name() string                { return "stimuli" }
func (stimuliStage) Focus() string               { return stimuliFocus }
func (stimuliStage) OutputShape() ai.OutputShape { return stimuliShape }

func (stimuliStage) BuildContext(n *common.Network) (any, error) {
	return buildStimuliContext(n), nil
}

func (stimuliStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeKey(out, "stimuli", &n.Stimuli, common.NewStimulusEvent, &summary); err != nil {
		return "", err
	}
	temporal := withEndpoints(n.NodeIDs(), common.NewTemporalRelation)
	if err := mergeKey(out, "temporal_relations", &n.TemporalRelations, temporal, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

// mergeUpdatedNodes merges refined stimuli and actions returned next to
// functional relations.
func mergeUpdatedNodes(n *common.Network, out ai.StructuredOutput, summary *applySummary) error {
	if err := mergeKey(out, "updated_stimuli", &n.Stimuli, common.NewStimulusEvent, summary); err != nil {
		return err
	}
	return mergeKey(out, "updated_actions", &n.Actions, common.NewBehaviorAction, summary)
}

type antecedentStage struct{}

func (antecedentStage) Name() string                { return "antecedent_relations" }
func (antecedentStage) Focus() string               { return antecedentFocus }
func (antecedentStage) OutputShape() ai.OutputShape { return antecedentShape }

func (antecedentStage) BuildContext(n *common.Network) (any, error) {
	return buildAntecedentContext(n), nil
}

func (antecedentStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeUpdatedNodes(n, out, &summary); err != nil {
		return "", err
	}
	relations := withEndpoints(n.NodeIDs(), common.NewAntecedentFunctionalRelation)
	if err := mergeKey(out, "antecedent_relations", &n.AntecedentRelations, relations, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type consequentStage struct{}

func (consequentStage) Name() string                { return "consequent_relations" }
func (consequentStage) Focus() string               { return consequentFocus }
func (consequentStage) OutputShape() ai.OutputShape { return consequentShape }

func (consequentStage) BuildContext(n *common.Network) (any, error) {
	return buildConsequentContext(n), nil
}

func (consequentStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeUpdatedNodes(n, out, &summary); err != nil {
		return "", err
	}
	relations := withEndpoints(n.NodeIDs(), common.NewConsequentFunctionalRelation)
	if err := mergeKey(out, "consequent_relations", &n.ConsequentRelations, relations, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type conditionsStage struct{}

func (conditionsStage) Name() string                { return "conditions" }
func (conditionsStage) Focus() string               { return conditionsFocus }
func (conditionsStage) OutputShape() ai.OutputShape { return conditionsShape }

func (conditionsStage) BuildContext(n *common.Network) (any, error) {
	return buildConditionsContext(n), nil
}

func (conditionsStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeKey(out, "conditions", &n.Conditions, common.NewStateCondition, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type modulatingStage struct{}

func (modulatingStage) Name() string                { return "modulating_relations" }
func (modulatingStage) Focus() string               { return modulatingFocus }
func (modulatingStage) OutputShape() ai.OutputShape { return modulatingShape }

func (modulatingStage) BuildContext(n *common.Network) (any, error) {
	return buildModulatingContext(n), nil
}

func (modulatingStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	var summary applySummary
	if err := mergeKey(out, "updated_conditions", &n.Conditions, common.NewStateCondition, &summary); err != nil {
		return "", err
	}
	if err := mergeUpdatedNodes(n, out, &summary); err != nil {
		return "", err
	}
	relations := withEndpoints(n.NodeIDs(), common.NewStateModulatingRelation)
	if err := mergeKey(out, "modulating_relations", &n.ModulatingRelations, relations, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type hypothesesStage struct {
	now func() time.Time
}

func (hypothesesStage) Name() string                { return "hypotheses" }
func (hypothesesStage) Focus() string               { return hypothesesFocus }
func (hypothesesStage) OutputShape() ai.OutputShape { return hypothesesShape }

func (s hypothesesStage) BuildContext(n *common.Network) (any, error) {
	return buildHypothesesContext(n, s.now()), nil
}

func (s hypothesesStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	formulatedAt := s.now().Format(time.RFC3339Nano)
	hypothesis := func(raw json.RawMessage) (common.AnalyticHypothesis, error) {
		h, err := common.NewAnalyticHypothesis(raw)
		if err == nil && h.FormulatedAt == "" {
			h.FormulatedAt = formulatedAt
		}
		return h, err
	}

	var summary applySummary
	if err := mergeKey(out, "hypotheses", &n.Hypotheses, hypothesis, &summary); err != nil {
		return "", err
	}
	evidence := withEndpoints(n.NodeIDs(), withSupport(n.ElementIDs(), common.NewEvidenceForHypothesis))
	if err := mergeKey(out, "evidence", &n.Evidence, evidence, &summary); err != nil {
		return "", err
	}
	return summary.String(), nil
}

type timelineStage struct{}

func (timelineStage) Name() string                { return "timeline" }
func (timelineStage) Focus() string               { return timelineFocus }
func (timelineStage) OutputShape() ai.OutputShape { return timelineShape }

func (timelineStage) BuildContext(n *common.Network) (any, error) {
	return buildTimelineContext(n), nil
}

// Apply replaces the timeline with the generated ordering. An empty ordering
// keeps the current timeline; either way hypotheses are backfilled.
func (timelineStage) Apply(n *common.Network, out ai.StructuredOutput) (string, error) {
	records, err := out.List("timeline")
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(records))
	for _, raw := range records {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			logger.Warn("[Graph] Skipping non-string timeline entry", "entry", string(raw))
			continue
		}
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = n.Timeline
	}

	n.Timeline = completeTimeline(ids, n)
	return fmt.Sprintf("timeline: %d entries", len(n.Timeline)), nil
}
