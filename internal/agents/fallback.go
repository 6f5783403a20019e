package agents

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/schema"
)

// RefineMarker is recorded as ChangesMade when a refinement falls back to the
// caller's existing plan.
const RefineMarker = "Applied user's requested modifications"

// ResourcesStamp is the LastUpdated value stamped on every resources output.
const ResourcesStamp = "Real-time web search results"

// decodeOr validates content against the contract, substituting the fallback
// when the output is malformed or violates the contract.
func decodeOr[T any](ctx context.Context, d Deps, st *domain.SharedState, step domain.AgentName, content string, c *schema.Contract, fallback func() T) T {
	v, err := schema.Decode[T](content, c)
	if err == nil {
		return v
	}

	d.logger().Warn("Structured output rejected, using fallback",
		slog.String("run_id", st.RunID),
		slog.String("agent", step.String()),
		slog.String("contract", c.Name),
		slog.Any("error", err),
	)
	if d.Hooks.OnFallback != nil {
		d.Hooks.OnFallback(ctx, &domain.FallbackEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFallback, RunID: st.RunID},
			Agent:     step,
			Reason:    err,
		})
	}
	return fallback()
}

// FallbackSkills is the skills assessment used when the oracle output is unusable.
func FallbackSkills() domain.SkillsAssessment {
	return domain.SkillsAssessment{
		CurrentSkills:  []string{"Basic programming", "Communication"},
		RequiredSkills: []string{"Advanced programming", "Leadership", "Data analysis"},
		SkillGaps:      []string{"Leadership", "Data analysis"},
		Strengths:      []string{"Communication", "Problem solving"},
		PrioritySkills: []string{"Leadership", "Data analysis", "Project management"},
	}
}

// FallbackIndustry is the industry outlook used when the oracle output is unusable.
func FallbackIndustry() domain.IndustryInsights {
	return domain.IndustryInsights{
		IndustryOverview: "Growing technology sector with high demand for skilled professionals",
		MarketDemand:     "High - Strong demand with projected growth",
		SalaryRange:      domain.SalaryRange{Min: 70000, Max: 130000, Currency: "USD"},
		GrowthProjection: "15% annually",
		KeyCompanies:     []string{"Google", "Microsoft", "Amazon", "Meta", "Apple"},
		EmergingTrends:   []string{"AI/ML adoption", "Remote work", "Cloud computing"},
		JobOpportunities: []string{"Senior roles", "Leadership positions", "Specialized consulting"},
	}
}

// FallbackLearningPath is the generic roadmap used in create mode.
func FallbackLearningPath() domain.LearningPath {
	return domain.LearningPath{
		LearningPhases: []domain.LearningPhase{
			{
				Phase:       "Foundation Building",
				Duration:    "1-2 months",
				Skills:      []string{"Advanced Programming", "System Design"},
				Description: "Build core technical skills for seniority.",
			},
			{
				Phase:       "Leadership & Mentoring",
				Duration:    "2-3 months",
				Skills:      []string{"Team Leadership", "Project Management", "Mentoring"},
				Description: "Develop soft skills required for a senior role.",
			},
			{
				Phase:       "Architecture & Specialization",
				Duration:    "2-3 months",
				Skills:      []string{"Software Architecture", "Advanced System Design"},
				Description: "Focus on high-level design and specialization.",
			},
		},
		Timeline:   "6-8 months total",
		Milestones: []string{"Complete system design course", "Lead a small project", "Mentor a junior developer"},
	}
}

// FallbackRefinement keeps the caller's plan and marks it as modified.
// existing must not be nil.
func FallbackRefinement(existing *domain.LearningPath) domain.LearningPath {
	out := existing.Clone()
	out.ChangesMade = RefineMarker
	return *out
}

// FallbackResources is the curated catalog used when the oracle output is unusable.
func FallbackResources() domain.Resources {
	return domain.Resources{
		Courses: []domain.Course{
			{
				Title:    "System Design Interview Course",
				Provider: "Educative",
				Duration: "8 weeks",
				Level:    "Intermediate",
				Skills:   []string{"System Design", "Architecture"},
				URL:      "https://educative.io/system-design",
				Cost:     "Paid",
			},
			{
				Title:    "Tech Lead Essentials",
				Provider: "Pluralsight",
				Duration: "6 weeks",
				Level:    "Advanced",
				Skills:   []string{"Leadership", "Team Management"},
				URL:      "https://pluralsight.com/tech-lead",
				Cost:     "Paid",
			},
		},
		Certifications: []domain.Certification{
			{
				Title:    "AWS Solutions Architect",
				Provider: "Amazon",
				Skills:   []string{"Cloud Architecture", "System Design"},
				Duration: "3-6 months",
				Cost:     "$150",
			},
		},
		Books: []string{
			"Designing Data-Intensive Applications by Martin Kleppmann",
			"The Manager's Path by Camille Fournier",
		},
		PracticePlatforms: []string{
			"LeetCode - Algorithm and data structure practice",
			"System Design Primer - GitHub repository",
		},
		Communities: []string{
			"Engineering Management Slack - Leadership discussions",
			"r/ExperiencedDevs - Reddit community",
		},
		FreeResources: []string{
			"High Scalability Blog - System design case studies",
			"MIT OpenCourseWare - Computer Science courses",
		},
	}
}
