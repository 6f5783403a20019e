package domain

// Transition defines a static edge of the pipeline.
type Transition struct {
	From AgentName `json:"from" yaml:"from"`
	To   AgentName `json:"to" yaml:"to"`

	// Dynamic marks edges chosen at runtime by the supervisor.
	Dynamic bool `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// RouteSource tells where a routing decision came from.
type RouteSource string

const (
	RouteFromOracle    RouteSource = "oracle"
	RouteFromHeuristic RouteSource = "heuristic"
)
