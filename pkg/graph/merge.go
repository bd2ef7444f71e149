package graph

import (
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
)

// MergeStats counts what one Merge call did with its incoming batch.
type MergeStats struct {
	Added    int
	Replaced int
	Rejected int
}

func (s MergeStats) String() string {
	return fmt.Sprintf("%d new, %d replaced, %d rejected", s.Added, s.Replaced, s.Rejected)
}

// Merge upserts incoming raw records into existing by element ID and returns
// the merged collection; existing is not modified.
//
// A record that fails to build is logged and skipped. A record whose ID
// matches an element already in the collection replaces it in place. A new
// ID is appended, and so is a record without an ID. Later duplicates within
// the same batch replace earlier ones.
func Merge[T common.Element](
	collection string,
	existing []T,
	incoming []json.RawMessage,
	build func(json.RawMessage) (T, error),
) ([]T, MergeStats) {
	merged := make([]T, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, e := range merged {
		if id := e.ElementID(); id != "" {
			index[id] = i
		}
	}

	var stats MergeStats
	for _, raw := range incoming {
		element, err := build(raw)
		if err != nil {
			stats.Rejected++
			logger.Warn("[Graph] Skipping invalid record", "collection", collection, "err", err)
			continue
		}

		id := element.ElementID()
		if id == "" {
			merged = append(merged, element)
			stats.Added++
			continue
		}
		if i, ok := index[id]; ok {
			merged[i] = element
			stats.Replaced++
			continue
		}
		index[id] = len(merged)
		merged = append(merged, element)
		stats.Added++
	}

	return merged, stats
}

// DanglingEdgeError reports an edge endpoint that names no node in the network.
type DanglingEdgeError struct {
	EdgeID   string
	Endpoint string
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %q references unknown node %q", e.EdgeID, e.Endpoint)
}

// withEndpoints wraps an edge constructor so that edges whose source or
// target is not in nodes are rejected.
func withEndpoints[T common.Edge](
	nodes map[string]struct{},
	build func(json.RawMessage) (T, error),
) func(json.RawMessage) (T, error) {
	return func(raw json.RawMessage) (T, error) {
		edge, err := build(raw)
		if err != nil {
			return edge, err
		}
		source, target := edge.Endpoints()
		for _, endpoint := range []string{source, target} {
			if _, ok := nodes[endpoint]; !ok {
				return edge, &DanglingEdgeError{EdgeID: edge.ElementID(), Endpoint: endpoint}
			}
		}
		return edge, nil
	}
}

// withSupport prunes supporting element IDs that resolve to nothing in
// elements and rejects evidence left without support.
func withSupport(
	elements map[string]struct{},
	build func(json.RawMessage) (common.EvidenceForHypothesis, error),
) func(json.RawMessage) (common.EvidenceForHypothesis, error) {
	return func(raw json.RawMessage) (common.EvidenceForHypothesis, error) {
		evidence, err := build(raw)
		if err != nil {
			return evidence, err
		}

		kept := make([]string, 0, len(evidence.SupportingElementIDs))
		for _, id := range evidence.SupportingElementIDs {
			if _, ok := elements[id]; ok {
				kept = append(kept, id)
				continue
			}
			logger.Debug("[Graph] Pruning unknown supporting element", "evidence", evidence.ID, "element", id)
		}
		if len(kept) == 0 {
			return evidence, fmt.Errorf("evidence %q has no supporting element present in the network", evidence.ID)
		}
		evidence.SupportingElementIDs = kept
		return evidence, nil
	}
}
