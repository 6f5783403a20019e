package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mitchellh/mapstructure"
)

// StripFences extracts the body of the first markdown code fence (```json
// or a bare ```) in oracle content, wherever it starts, so prose before or
// after the fence is ignored. Content that is bare JSON or has no fence is
// returned trimmed.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	s = s[start+len("```"):]
	// Drop the info string ("json", "JSON", ...) up to the first newline.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if info := strings.TrimSpace(s[:nl]); !strings.ContainsAny(info, "{[") {
			s = s[nl+1:]
		}
	}
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// Decode parses oracle content against a contract and maps it into T.
// Any returned error is either ErrMalformed or an *AggregateError.
func Decode[T any](content string, c *Contract) (T, error) {
	var out T

	var raw any
	if err := json.Unmarshal([]byte(StripFences(content)), &raw); err != nil {
		return out, fmt.Errorf("%s: %w: %v", c.Name, ErrMalformed, err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return out, fmt.Errorf("%s: %w: expected JSON object, got %T", c.Name, ErrMalformed, raw)
	}

	if err := Validate(c, raw); err != nil {
		return out, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, &AggregateError{
			Contract: c.Name,
			Errors:   []error{&ValidationError{Key: "/", Reason: err.Error()}},
		}
	}
	return out, nil
}

// Validate checks a decoded JSON value against the contract and collects
// every failure.
func Validate(c *Contract, value any) error {
	err := c.Schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	return &AggregateError{Contract: c.Name, Errors: flatten(err, nil)}
}

func flatten(err error, acc []error) []error {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			acc = flatten(e, acc)
		}
		return acc
	}
	return append(acc, toValidationError(err))
}

func toValidationError(err error) error {
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		return &ValidationError{
			Key:    "/" + strings.Join(se.JSONPointer(), "/"),
			Reason: se.Reason,
			Value:  se.Value,
		}
	}
	return &ValidationError{Key: "/", Reason: err.Error()}
}
