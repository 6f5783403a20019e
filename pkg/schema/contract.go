package schema

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Contract is a named JSON schema that structured oracle output must satisfy.
type Contract struct {
	Name   string
	Schema *openapi3.Schema
}

func stringList() *openapi3.Schema {
	return openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
}

func object(props map[string]*openapi3.Schema, required ...string) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for name, p := range props {
		s.WithProperty(name, p)
	}
	s.Required = required
	return s
}

// SkillsContract describes a skills assessment.
func SkillsContract() *Contract {
	return &Contract{
		Name: "skills_assessment",
		Schema: object(map[string]*openapi3.Schema{
			"currentSkills":  stringList(),
			"requiredSkills": stringList(),
			"skillGaps":      stringList(),
			"strengths":      stringList(),
			"prioritySkills": stringList(),
		}, "currentSkills", "requiredSkills", "skillGaps", "strengths", "prioritySkills"),
	}
}

// maxSalary bounds salary figures to integers a float64 holds exactly, so a
// validated value always decodes without overflow.
const maxSalary = 1 << 53

func salaryAmount() *openapi3.Schema {
	return openapi3.NewInt64Schema().WithMin(-maxSalary).WithMax(maxSalary)
}

// IndustryContract describes industry insights.
func IndustryContract() *Contract {
	salary := object(map[string]*openapi3.Schema{
		"min":      salaryAmount(),
		"max":      salaryAmount(),
		"currency": openapi3.NewStringSchema(),
	}, "min", "max", "currency")

	return &Contract{
		Name: "industry_insights",
		Schema: object(map[string]*openapi3.Schema{
			"industryOverview": openapi3.NewStringSchema(),
			"marketDemand":     openapi3.NewStringSchema(),
			"salaryRange":      salary,
			"growthProjection": openapi3.NewStringSchema(),
			"keyCompanies":     stringList(),
			"emergingTrends":   stringList(),
			"jobOpportunities": stringList(),
		}, "industryOverview", "marketDemand", "salaryRange", "growthProjection",
			"keyCompanies", "emergingTrends", "jobOpportunities"),
	}
}

// LearningContract describes a learning path. In refine mode the summary of
// changes becomes mandatory.
func LearningContract(refine bool) *Contract {
	phase := object(map[string]*openapi3.Schema{
		"phase":       openapi3.NewStringSchema(),
		"duration":    openapi3.NewStringSchema(),
		"skills":      stringList(),
		"description": openapi3.NewStringSchema(),
	}, "phase", "duration")

	props := map[string]*openapi3.Schema{
		"learningPhases": openapi3.NewArraySchema().WithItems(phase),
		"timeline":       openapi3.NewStringSchema(),
		"milestones":     stringList(),
	}
	required := []string{"learningPhases", "timeline"}
	name := "learning_path"
	if refine {
		props["changesMade"] = openapi3.NewStringSchema()
		required = append(required, "changesMade")
		name = "learning_path_refinement"
	}
	return &Contract{Name: name, Schema: object(props, required...)}
}

// ResourcesContract describes resource recommendations.
func ResourcesContract() *Contract {
	course := object(map[string]*openapi3.Schema{
		"title":    openapi3.NewStringSchema(),
		"provider": openapi3.NewStringSchema(),
		"duration": openapi3.NewStringSchema(),
		"level":    openapi3.NewStringSchema(),
		"skills":   stringList(),
		"url":      openapi3.NewStringSchema(),
		"cost":     openapi3.NewStringSchema(),
	}, "title", "provider")

	cert := object(map[string]*openapi3.Schema{
		"title":    openapi3.NewStringSchema(),
		"provider": openapi3.NewStringSchema(),
		"skills":   stringList(),
		"duration": openapi3.NewStringSchema(),
		"cost":     openapi3.NewStringSchema(),
	}, "title", "provider")

	return &Contract{
		Name: "resources",
		Schema: object(map[string]*openapi3.Schema{
			"courses":           openapi3.NewArraySchema().WithItems(course),
			"certifications":    openapi3.NewArraySchema().WithItems(cert),
			"books":             stringList(),
			"practicePlatforms": stringList(),
			"communities":       stringList(),
			"freeResources":     stringList(),
		}, "courses", "certifications", "books", "practicePlatforms", "communities", "freeResources"),
	}
}
