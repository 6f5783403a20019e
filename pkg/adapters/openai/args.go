package openai

import (
	"encoding/json"

	"github.com/aretw0/careerpath/pkg/domain"
)

// toolArguments returns the JSON argument string sent back with a tool call turn.
func toolArguments(tc domain.ToolCall) string {
	if tc.RawArgs != "" {
		return tc.RawArgs
	}
	if tc.Args == nil {
		return "{}"
	}
	b, err := json.Marshal(tc.Args)
	if err != nil {
		return "{}"
	}
	return string(b)
}
