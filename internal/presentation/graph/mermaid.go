package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerpath/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	Visited []domain.AgentName
	Current domain.AgentName
}

// GenerateMermaid produces a Mermaid flowchart from the pipeline transitions.
// Shapes:
// - Supervisor: ((Circle))
// - End: ([Stadium])
// - Agents: [Rectangle]
// Supervisor routing edges are dotted; the static chain uses solid arrows.
// Overlay styles (Visited/Current) are applied when overlay is non-nil.
func GenerateMermaid(transitions []domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.AgentName]bool)
	declare := func(n domain.AgentName) {
		if declared[n] {
			return
		}
		declared[n] = true
		opener, closer := "[", "]"
		switch n {
		case domain.Supervisor:
			opener, closer = "((", "))"
		case domain.End:
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(n), opener, label(n), closer))
	}

	for _, t := range transitions {
		declare(t.From)
		declare(t.To)
	}

	for _, t := range transitions {
		arrow := "-->"
		if t.Dynamic {
			arrow = "-. route .->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(t.From), arrow, sanitizeMermaidID(t.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, n := range overlay.Visited {
			id := sanitizeMermaidID(n)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func label(n domain.AgentName) string {
	if n == domain.End {
		return "end"
	}
	return string(n)
}

// sanitizeMermaidID maps End to "done" since "end" is a Mermaid keyword.
func sanitizeMermaidID(n domain.AgentName) string {
	if n == domain.End {
		return "done"
	}
	s := strings.Trim(string(n), "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
