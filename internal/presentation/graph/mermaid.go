package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/triage/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromPath marks every node of path as visited and its last node as current.
func OverlayFromPath(path []string) *GraphOverlay {
	o := &GraphOverlay{VisitedNodes: slices.Clone(path)}
	if len(path) > 0 {
		o.CurrentNode = path[len(path)-1]
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a compiled graph.
// It applies semantic styling:
// - Entry: ((Circle))
// - Classifier (writes category or sentiment): {{Hexagon}}
// - Terminal sentinel: (((Double circle)))
// - Default: [Rectangle]
// Conditional edges carry their label; the default route is dotted.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g *domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	endUsed := false
	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == g.Entry():
			opener, closer = "((", "))"
		case isClassifier(node):
			opener, closer = "{{", "}}"
		}

		text := node.ID
		if node.Timeout > 0 {
			text = fmt.Sprintf("%s <br/> ⏱️ %s", node.ID, node.Timeout)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, text, closer)

		if to, ok := g.Edge(node.ID); ok {
			endUsed = endUsed || to == domain.End
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(to))
			continue
		}

		branch, ok := g.Branch(node.ID)
		if !ok {
			continue
		}
		labels := make([]string, 0, len(branch.Routes))
		for label := range branch.Routes {
			labels = append(labels, label)
		}
		slices.Sort(labels)
		for _, label := range labels {
			to := branch.Routes[label]
			endUsed = endUsed || to == domain.End
			safeLabel := strings.ReplaceAll(label, "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, safeLabel, sanitizeMermaidID(to))
		}
		if branch.DefaultRoute != "" {
			endUsed = endUsed || branch.DefaultRoute == domain.End
			fmt.Fprintf(&sb, "    %s -. \"default\" .-> %s\n", safeID, sanitizeMermaidID(branch.DefaultRoute))
		}
	}

	if endUsed {
		fmt.Fprintf(&sb, "    %s(((\"end\")))\n", sanitizeMermaidID(domain.End))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func isClassifier(n domain.Node) bool {
	return slices.Contains(n.Writes, domain.FieldCategory) || slices.Contains(n.Writes, domain.FieldSentiment)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
