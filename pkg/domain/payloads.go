package domain

// SkillsAssessment is the skills agent output.
type SkillsAssessment struct {
	CurrentSkills  []string `json:"currentSkills"`
	RequiredSkills []string `json:"requiredSkills"`
	SkillGaps      []string `json:"skillGaps"`
	Strengths      []string `json:"strengths"`
	PrioritySkills []string `json:"prioritySkills"`
}

// SalaryRange is an annual compensation band.
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// IndustryInsights is the industry agent output.
type IndustryInsights struct {
	IndustryOverview string      `json:"industryOverview"`
	MarketDemand     string      `json:"marketDemand"`
	SalaryRange      SalaryRange `json:"salaryRange"`
	GrowthProjection string      `json:"growthProjection"`
	KeyCompanies     []string    `json:"keyCompanies"`
	EmergingTrends   []string    `json:"emergingTrends"`
	JobOpportunities []string    `json:"jobOpportunities"`
}

// LearningPhase is one stage of a learning path.
type LearningPhase struct {
	Phase       string   `json:"phase"`
	Duration    string   `json:"duration"`
	Skills      []string `json:"skills,omitempty"`
	Description string   `json:"description,omitempty"`
}

// LearningPath is the learning agent output, and also the shape of a
// previously produced plan supplied by the caller for refinement.
type LearningPath struct {
	LearningPhases []LearningPhase `json:"learningPhases"`
	Timeline       string          `json:"timeline"`
	Milestones     []string        `json:"milestones,omitempty"`

	// ChangesMade summarizes the delta when the path was refined.
	ChangesMade string `json:"changesMade,omitempty"`
}

// Clone returns a deep copy so refinements never alias caller input.
func (p *LearningPath) Clone() *LearningPath {
	if p == nil {
		return nil
	}
	out := &LearningPath{
		Timeline:    p.Timeline,
		ChangesMade: p.ChangesMade,
	}
	if p.LearningPhases != nil {
		out.LearningPhases = make([]LearningPhase, len(p.LearningPhases))
		for i, ph := range p.LearningPhases {
			ph.Skills = cloneStrings(ph.Skills)
			out.LearningPhases[i] = ph
		}
	}
	out.Milestones = cloneStrings(p.Milestones)
	return out
}

// Course is a recommended course.
type Course struct {
	Title    string   `json:"title"`
	Provider string   `json:"provider"`
	Duration string   `json:"duration,omitempty"`
	Level    string   `json:"level,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	URL      string   `json:"url,omitempty"`
	Cost     string   `json:"cost,omitempty"`
}

// Certification is a recommended certification.
type Certification struct {
	Title    string   `json:"title"`
	Provider string   `json:"provider"`
	Skills   []string `json:"skills,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Cost     string   `json:"cost,omitempty"`
}

// Resources is the resources agent output.
type Resources struct {
	Courses           []Course        `json:"courses"`
	Certifications    []Certification `json:"certifications"`
	Books             []string        `json:"books"`
	PracticePlatforms []string        `json:"practicePlatforms"`
	Communities       []string        `json:"communities"`
	FreeResources     []string        `json:"freeResources"`

	// Metadata stamped by the agent after production.
	SearchEnabled bool   `json:"searchEnabled"`
	LastUpdated   string `json:"lastUpdated,omitempty"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
