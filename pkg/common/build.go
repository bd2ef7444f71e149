package common

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError reports why a raw record could not become a typed element.
type ValidationError struct {
	Kind string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func build[T any](kind string, raw json.RawMessage, normalize func(*T)) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &ValidationError{Kind: kind, Err: err}
	}
	normalize(&v)
	if err := validate.Struct(v); err != nil {
		return v, &ValidationError{Kind: kind, Err: err}
	}
	return v, nil
}

func trimEdge(e *EdgeBase, kind EdgeKind) {
	e.ID = strings.TrimSpace(e.ID)
	e.SourceNodeID = strings.TrimSpace(e.SourceNodeID)
	e.TargetNodeID = strings.TrimSpace(e.TargetNodeID)
	e.EdgeType = kind
}

func NewSubject(raw json.RawMessage) (Subject, error) {
	return build("subject", raw, func(s *Subject) {
		s.ID = strings.TrimSpace(s.ID)
	})
}

func NewStimulusEvent(raw json.RawMessage) (StimulusEvent, error) {
	return build("stimulus", raw, func(s *StimulusEvent) {
		s.ID = strings.TrimSpace(s.ID)
	})
}

func NewBehaviorAction(raw json.RawMessage) (BehaviorAction, error) {
	return build("action", raw, func(a *BehaviorAction) {
		a.ID = strings.TrimSpace(a.ID)
	})
}

func NewStateCondition(raw json.RawMessage) (StateCondition, error) {
	return build("condition", raw, func(c *StateCondition) {
		c.ID = strings.TrimSpace(c.ID)
	})
}

// NewAnalyticHypothesis defaults an empty confidence to Low.
func NewAnalyticHypothesis(raw json.RawMessage) (AnalyticHypothesis, error) {
	return build("hypothesis", raw, func(h *AnalyticHypothesis) {
		h.ID = strings.TrimSpace(h.ID)
		if h.Confidence == "" {
			h.Confidence = ConfidenceLow
		}
	})
}

// Edge constructors overwrite edge_type with the kind of the collection the
// record is built for.

func NewBehavioralEmission(raw json.RawMessage) (BehavioralEmission, error) {
	return build("behavioral emission", raw, func(e *BehavioralEmission) {
		trimEdge(&e.EdgeBase, EdgeBehavioralEmission)
	})
}

func NewTemporalRelation(raw json.RawMessage) (TemporalRelation, error) {
	return build("temporal relation", raw, func(e *TemporalRelation) {
		trimEdge(&e.EdgeBase, EdgeTemporalRelation)
	})
}

func NewAntecedentFunctionalRelation(raw json.RawMessage) (AntecedentFunctionalRelation, error) {
	return build("antecedent relation", raw, func(e *AntecedentFunctionalRelation) {
		trimEdge(&e.EdgeBase, EdgeAntecedentRelation)
	})
}

func NewConsequentFunctionalRelation(raw json.RawMessage) (ConsequentFunctionalRelation, error) {
	return build("consequent relation", raw, func(e *ConsequentFunctionalRelation) {
		trimEdge(&e.EdgeBase, EdgeConsequentRelation)
	})
}

func NewStateModulatingRelation(raw json.RawMessage) (StateModulatingRelation, error) {
	return build("modulating relation", raw, func(e *StateModulatingRelation) {
		trimEdge(&e.EdgeBase, EdgeStateModulating)
	})
}

func NewEvidenceForHypothesis(raw json.RawMessage) (EvidenceForHypothesis, error) {
	return build("evidence", raw, func(e *EvidenceForHypothesis) {
		trimEdge(&e.EdgeBase, EdgeEvidenceForHypothesis)
	})
}
