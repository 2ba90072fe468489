package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL loads a ".repomap.kdl" file from projectRoot, if present, layered
// over Default(projectRoot). A missing file is not an error: the defaults
// apply. This mirrors the teacher's LoadKDL/.lci.kdl convention.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".repomap.kdl")
	content, err := os.ReadFile(kdlPath)
	if os.IsNotExist(err) {
		return Default(projectRoot), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .repomap.kdl: %w", err)
	}

	cfg := Default(projectRoot)
	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse .repomap.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignString(cn, "root", func(v string) { cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, v)) })
				assignString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "scan":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxFileBytes = int64(v)
					}
				case "extensions":
					if v := collectStringArgs(cn); len(v) > 0 {
						cfg.Scan.SupportedExtensions = v
					}
				}
			}
		case "include":
			cfg.Scan.SupportedExtensions = append(cfg.Scan.SupportedExtensions, collectStringArgs(n)...)
		case "exclude":
			cfg.Scan.IgnorePatterns = append(cfg.Scan.IgnorePatterns, collectStringArgs(n)...)
		case "fuzzy":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Fuzzy.Enabled = b
					}
				case "threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Fuzzy.Threshold = v
					}
				case "strategies":
					if v := collectStringArgs(cn); len(v) > 0 {
						cfg.Fuzzy.Strategies = v
					}
				}
			}
		case "semantic":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Semantic.Enabled = b
					}
				case "threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Semantic.Threshold = v
					}
				}
			}
		case "hybrid_alpha":
			if v, ok := firstFloatArg(n); ok {
				cfg.HybridAlpha = v
			}
		case "tree":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_depth":
					if v, ok := firstIntArg(cn); ok {
						cfg.Tree.MaxDepth = v
					}
				case "max_nodes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Tree.MaxNodes = v
					}
				case "fanout":
					if v, ok := firstIntArg(cn); ok {
						cfg.Tree.Fanout = v
					}
				}
			}
		case "cache":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_entries":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.MaxEntries = v
					}
				case "ttl_seconds":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.TTLSeconds = v
					}
				}
			}
		case "workers":
			if v, ok := firstIntArg(n); ok {
				cfg.Workers = v
			}
		case "session_dir":
			if v, ok := firstStringArg(n); ok {
				cfg.SessionDir = v
			}
		case "map_tokens":
			if v, ok := firstIntArg(n); ok {
				cfg.MapTokens = v
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
