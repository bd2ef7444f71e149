package graph

import (
	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
)

// completeTimeline drops IDs that name no node and repeated IDs, keeping the
// first occurrence, then appends every hypothesis ID not yet present. It is
// idempotent and never reorders IDs it keeps.
func completeTimeline(timeline []string, n *common.Network) []string {
	nodes := n.NodeIDs()
	seen := make(map[string]struct{}, len(timeline)+len(n.Hypotheses))
	out := make([]string, 0, len(timeline)+len(n.Hypotheses))

	for _, id := range timeline {
		if _, ok := nodes[id]; !ok {
			logger.Debug("[Graph] Dropping unknown timeline entry", "id", id)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, h := range n.Hypotheses {
		if h.ID == "" {
			continue
		}
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, h.ID)
	}

	return out
}
