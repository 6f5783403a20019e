// Package schema validates structured oracle output against named contracts.
//
// Each agent declares a Contract (a JSON schema built with kin-openapi) and
// decodes the oracle's reply with Decode:
//
//	assessment, err := schema.Decode[domain.SkillsAssessment](content, schema.SkillsContract())
//	if schema.IsRecoverable(err) {
//	    // substitute the agent's fallback value
//	}
//
// Markdown code fences around the JSON are tolerated. Failures are reported
// as ErrMalformed (not JSON at all) or an *AggregateError listing every
// field that violated the contract.
package schema
