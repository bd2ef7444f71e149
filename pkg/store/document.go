package store

import (
	"encoding/json"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
)

// Document is the persisted form of an analysis: the network collections at
// the top level next to the narrative they were extracted from.
type Document struct {
	*common.Network
	OriginalText string `json:"texto_original"`
}

// EncodeDocument serialises n together with the narrative text.
func EncodeDocument(n *common.Network, text string) ([]byte, error) {
	if n == nil {
		n = common.NewNetwork()
	}
	return json.MarshalIndent(Document{Network: n, OriginalText: text}, "", "  ")
}

// DecodeDocument parses data written by EncodeDocument.
func DecodeDocument(data []byte) (*Document, error) {
	doc := &Document{Network: common.NewNetwork()}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
