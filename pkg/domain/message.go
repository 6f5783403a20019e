package domain

// Role tags a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn exchanged with the oracle.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Name is the tool name for RoleTool turns.
	Name string `json:"name,omitempty"`
	// ToolCallID pairs a RoleTool turn with the call that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolCalls holds the calls requested by an assistant turn.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Turn is a prior conversation exchange supplied by the caller.
type Turn struct {
	Role    string `json:"role" mapstructure:"role"`
	Content string `json:"content" mapstructure:"content"`
}

// OracleRequest is a single call to the reasoning oracle.
// An empty Tools slice disables tool calling for the call.
type OracleRequest struct {
	System string
	Turns  []Message
	Tools  []Tool
}

// OracleResponse is the oracle's answer: free-form content and optional
// tool call requests.
type OracleResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// SearchResult is one ranked hit from the search capability.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}
