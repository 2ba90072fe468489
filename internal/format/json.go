package format

import "encoding/json"

// jsonNode is the machine-readable mirror of workNode, preserving the same
// hierarchy the text mode renders, per §4.13.
type jsonNode struct {
	Identifier    string      `json:"identifier"`
	Location      string      `json:"location"`
	NodeType      string      `json:"node_type"`
	Signature     string      `json:"signature,omitempty"`
	CriticalLines []string    `json:"critical_lines,omitempty"`
	Context       []string    `json:"context,omitempty"`
	Children      []*jsonNode `json:"children,omitempty"`
}

func renderJSON(n *workNode) string {
	data, err := json.MarshalIndent(toJSONNode(n), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func toJSONNode(n *workNode) *jsonNode {
	j := &jsonNode{
		Identifier:    n.src.Identifier,
		Location:      n.src.Location,
		NodeType:      string(n.src.NodeType),
		Signature:     n.signature,
		CriticalLines: n.criticalLines,
		Context:       n.context,
	}
	for _, c := range n.children {
		j.Children = append(j.Children, toJSONNode(c))
	}
	return j
}
