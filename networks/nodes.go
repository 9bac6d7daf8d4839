package networks

import (
	"os"
	"strings"
)

// GetNodes returns the default nodes of the network plus the node set in the
// network's env var, if any.
func GetNodes(n Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range n.GetDefaultNodes() {
		nodes[name] = url
	}
	if n.GetNodeVariableName() == "" {
		return nodes
	}
	customNode := strings.TrimSpace(os.Getenv(n.GetNodeVariableName()))
	if customNode != "" {
		nodes["custom-node"] = customNode
	}
	return nodes
}
