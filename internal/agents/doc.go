// Package agents implements the four pipeline steps (skills, industry,
// learning, resources) and the bounded tool loop used by the resources step.
//
// Each agent asks the oracle for a structured answer, validates it against
// its contract and writes the value it owns into the shared state. When the
// answer is malformed the agent writes its documented fallback instead, so an
// agent run yields a value unless the oracle itself fails.
package agents
