package schema_test

import (
	"errors"
	"testing"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skillsJSON = `{
  "currentSkills": ["Go"],
  "requiredSkills": ["Go", "Kubernetes"],
  "skillGaps": ["Kubernetes"],
  "strengths": ["Debugging"],
  "prioritySkills": ["Kubernetes"]
}`

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"upper info", "```JSON\n{\"a\":1}\n```  ", `{"a":1}`},
		{"surrounding space", "  \n```json\n{\"a\":1}\n```\n", `{"a":1}`},
		{"single line", "```{\"a\":1}```", `{"a":1}`},
		{"prose before fence", "Here is the plan:\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around fence", "Sure.\n```\n{\"a\":1}\n```\nLet me know.", `{"a":1}`},
		{"first fence wins", "```json\n{\"a\":1}\n```\nor\n```json\n{\"a\":2}\n```", `{"a":1}`},
		{"no fence", "just text", "just text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.StripFences(tt.in))
		})
	}
}

func TestDecode_Valid(t *testing.T) {
	got, err := schema.Decode[domain.SkillsAssessment](skillsJSON, schema.SkillsContract())
	require.NoError(t, err)
	assert.Equal(t, domain.SkillsAssessment{
		CurrentSkills:  []string{"Go"},
		RequiredSkills: []string{"Go", "Kubernetes"},
		SkillGaps:      []string{"Kubernetes"},
		Strengths:      []string{"Debugging"},
		PrioritySkills: []string{"Kubernetes"},
	}, got)
}

func TestDecode_Fenced(t *testing.T) {
	got, err := schema.Decode[domain.SkillsAssessment]("```json\n"+skillsJSON+"\n```", schema.SkillsContract())
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes"}, got.PrioritySkills)
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{"I think you should learn Go.", "", `["not","an","object"]`, `{"currentSkills": [`} {
		_, err := schema.Decode[domain.SkillsAssessment](in, schema.SkillsContract())
		require.Error(t, err, in)
		assert.ErrorIs(t, err, schema.ErrMalformed, in)
		assert.True(t, schema.IsRecoverable(err))
	}
}

func TestDecode_MissingRequired(t *testing.T) {
	_, err := schema.Decode[domain.SkillsAssessment](`{"currentSkills": ["Go"]}`, schema.SkillsContract())
	require.Error(t, err)

	var aggr *schema.AggregateError
	require.True(t, errors.As(err, &aggr))
	assert.Equal(t, "skills_assessment", aggr.Contract)
	assert.NotEmpty(t, schema.ValidationErrors(err))
	assert.True(t, schema.IsRecoverable(err))
}

func TestDecode_WrongType(t *testing.T) {
	in := `{
	  "industryOverview": "x", "marketDemand": "High",
	  "salaryRange": {"min": "lots", "max": 10, "currency": "USD"},
	  "growthProjection": "5%", "keyCompanies": [], "emergingTrends": [], "jobOpportunities": []
	}`
	_, err := schema.Decode[domain.IndustryInsights](in, schema.IndustryContract())
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	require.NotEmpty(t, errs)
	var ve *schema.ValidationError
	require.True(t, errors.As(errs[0], &ve))
	assert.Contains(t, ve.Key, "salaryRange")
}

func TestDecode_IntegerFromWholeFloat(t *testing.T) {
	in := `{
	  "industryOverview": "x", "marketDemand": "High",
	  "salaryRange": {"min": 90000.0, "max": 150000, "currency": "EUR"},
	  "growthProjection": "5%", "keyCompanies": ["Acme"], "emergingTrends": [], "jobOpportunities": []
	}`
	got, err := schema.Decode[domain.IndustryInsights](in, schema.IndustryContract())
	require.NoError(t, err)
	assert.Equal(t, domain.SalaryRange{Min: 90000, Max: 150000, Currency: "EUR"}, got.SalaryRange)
}

func TestDecode_SalaryOutOfRange(t *testing.T) {
	in := `{
	  "industryOverview": "x", "marketDemand": "High",
	  "salaryRange": {"min": 1e20, "max": -5e19, "currency": "USD"},
	  "growthProjection": "5%", "keyCompanies": [], "emergingTrends": [], "jobOpportunities": []
	}`
	_, err := schema.Decode[domain.IndustryInsights](in, schema.IndustryContract())
	require.Error(t, err)
	assert.True(t, schema.IsRecoverable(err))

	keys := map[string]bool{}
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		require.True(t, errors.As(e, &ve))
		keys[ve.Key] = true
	}
	assert.True(t, keys["/salaryRange/min"])
	assert.True(t, keys["/salaryRange/max"])
}

func TestLearningContract_RefineRequiresChanges(t *testing.T) {
	in := `{"learningPhases": [{"phase": "Basics", "duration": "1mo"}], "timeline": "3mo"}`

	_, err := schema.Decode[domain.LearningPath](in, schema.LearningContract(false))
	require.NoError(t, err, "milestones and changesMade are optional in create mode")

	_, err = schema.Decode[domain.LearningPath](in, schema.LearningContract(true))
	require.Error(t, err)
	assert.True(t, schema.IsRecoverable(err))
}

func TestIsRecoverable(t *testing.T) {
	assert.False(t, schema.IsRecoverable(nil))
	assert.False(t, schema.IsRecoverable(errors.New("connection refused")))
	assert.True(t, schema.IsRecoverable(&schema.ValidationError{Key: "a", Reason: "required"}))
}

func TestValidationError_String(t *testing.T) {
	tests := []struct {
		err  *schema.ValidationError
		want string
	}{
		{
			&schema.ValidationError{Key: "/timeline", Reason: "required", Value: nil},
			`field "/timeline": required`,
		},
		{
			&schema.ValidationError{Key: "/salaryRange/min", Reason: "value must be an integer", Value: "lots"},
			`field "/salaryRange/min": value must be an integer (got string)`,
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestAggregateError_String(t *testing.T) {
	aggr := &schema.AggregateError{
		Contract: "resources",
		Errors: []error{
			&schema.ValidationError{Key: "/books", Reason: "required"},
			&schema.ValidationError{Key: "/courses", Reason: "required"},
		},
	}
	assert.Contains(t, aggr.Error(), "resources: 2 validation errors")
}
