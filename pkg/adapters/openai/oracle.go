// Package openai implements ports.Oracle on top of langchaingo's OpenAI client.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Defaults mirror the settings the planner was tuned with.
const (
	DefaultModel       = "gpt-4o-mini-2024-07-18"
	DefaultTemperature = 0.1
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// Config configures the OpenAI oracle.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// Oracle adapts an llms.Model to ports.Oracle. It holds no per-call state and
// is safe for concurrent use.
type Oracle struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

// New creates an Oracle backed by the OpenAI chat completions API.
func New(cfg Config) (*Oracle, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewWithModel(client, cfg.Temperature, cfg.MaxTokens), nil
}

// NewWithModel wraps any langchaingo model. A zero temperature selects
// DefaultTemperature.
func NewWithModel(model llms.Model, temperature float64, maxTokens int) *Oracle {
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	return &Oracle{model: model, temperature: temperature, maxTokens: maxTokens}
}

// Invoke implements ports.Oracle.
func (o *Oracle) Invoke(ctx context.Context, req domain.OracleRequest) (domain.OracleResponse, error) {
	messages := toMessageContent(req)

	callOpts := []llms.CallOption{llms.WithTemperature(o.temperature)}
	if o.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(o.maxTokens))
	}
	if len(req.Tools) > 0 {
		callOpts = append(callOpts, llms.WithTools(toTools(req.Tools)))
	}

	resp, err := o.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return domain.OracleResponse{}, err
	}
	return fromContentResponse(resp), nil
}

func toMessageContent(req domain.OracleRequest) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(req.Turns)+1)
	if req.System != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}

	for _, m := range req.Turns {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case domain.RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if m.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextPart(m.Content))
			}
			for _, tc := range m.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: toolArguments(tc),
					},
				})
			}
			out = append(out, mc)
		case domain.RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: m.ToolCallID,
					Name:       m.Name,
					Content:    m.Content,
				}},
			})
		default:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}
	return out
}

func toTools(tools []domain.Tool) []llms.Tool {
	out := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func fromContentResponse(resp *llms.ContentResponse) domain.OracleResponse {
	if resp == nil || len(resp.Choices) == 0 {
		return domain.OracleResponse{}
	}
	choice := resp.Choices[0]

	out := domain.OracleResponse{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		call := domain.ToolCall{ID: tc.ID}
		if tc.FunctionCall != nil {
			call.Name = tc.FunctionCall.Name
			call.RawArgs = tc.FunctionCall.Arguments
		}
		out.ToolCalls = append(out.ToolCalls, call)
	}
	return out
}
