package domain

// ToolCall represents a capability invocation requested by the oracle.
// Compatible with OpenAI/MCP tool call schemas.
type ToolCall struct {
	ID   string         `json:"id" yaml:"id" mapstructure:"id"`                           // Correlation ID from the oracle
	Name string         `json:"name" yaml:"name" mapstructure:"name"`                     // Capability name
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"` // Decoded arguments

	// RawArgs keeps the undecoded argument text when decoding failed.
	RawArgs string `json:"raw_args,omitempty" yaml:"-" mapstructure:"-"`
}

// ToolResult represents the output of executing a ToolCall.
type ToolResult struct {
	ID      string `json:"id"` // Must match the ToolCall.ID
	Name    string `json:"name,omitempty"`
	Result  any    `json:"result,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Tool defines metadata about a capability the oracle may call.
// This is used for generating function schemas.
type Tool struct {
	Name        string         `json:"name" yaml:"name" mapstructure:"name"`
	Description string         `json:"description" yaml:"description" mapstructure:"description"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
}
