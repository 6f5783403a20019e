package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/careerpath/pkg/domain"
)

const notSpecified = "Not specified"

// historyWindow is how many prior turns are quoted back to the oracle.
const historyWindow = 6

// FinalAnswerInstruction closes the tool loop and forbids further tool calls.
const FinalAnswerInstruction = "Based on the search results above, provide the resource recommendations in the required JSON format with real, working URLs. Do not make any more tool calls."

const skillsSystemPrompt = `You are a Skills Assessment Agent, an expert career coach who analyzes the gap between a person's current role and their target role.

Identify the skills the person already has, the skills the target role requires, the gaps between them, the person's strengths, and which skills to prioritize first.

Respond with JSON only:
{
  "currentSkills": ["skill"],
  "requiredSkills": ["skill"],
  "skillGaps": ["skill"],
  "strengths": ["strength"],
  "prioritySkills": ["skill"]
}`

const industrySystemPrompt = `You are an Industry Research Agent, an analyst who knows the job market for technology roles.

Describe the industry around the target role: overall outlook, market demand, a realistic annual salary range, growth projection, key hiring companies, emerging trends and job opportunities.

Respond with JSON only:
{
  "industryOverview": "text",
  "marketDemand": "text",
  "salaryRange": {"min": 0, "max": 0, "currency": "USD"},
  "growthProjection": "text",
  "keyCompanies": ["company"],
  "emergingTrends": ["trend"],
  "jobOpportunities": ["opportunity"]
}`

const learningSystemPrompt = `You are a Learning Path Agent, a learning strategist who creates and refines step-by-step career roadmaps.

For a new plan, respond with JSON only:
{
  "learningPhases": [
    {"phase": "name", "duration": "X months", "skills": ["skill"], "description": "focus"}
  ],
  "timeline": "total duration",
  "milestones": ["milestone"]
}

When an existing learning path is provided, refine it instead of replacing it, and add a "changesMade" string summarizing what you modified.

Keep phases practical, actionable and timeline-focused.`

const resourcesSystemPrompt = `You are a Resource Recommendation Agent, a curator of learning resources with access to real-time web search.

Use the search tool when you need current courses, certifications, practice platforms or communities. Match resources to the priority skills and learning phases.

Respond with JSON only, using clickable URLs:
{
  "courses": [
    {"title": "name", "provider": "platform", "duration": "X weeks", "level": "Beginner/Intermediate/Advanced", "skills": ["skill"], "url": "https://...", "cost": "Free/Paid"}
  ],
  "certifications": [
    {"title": "name", "provider": "organization", "skills": ["skill"], "duration": "X months", "cost": "$XXX"}
  ],
  "books": ["Title by Author"],
  "practicePlatforms": ["Name - description"],
  "communities": ["Name - description"],
  "freeResources": ["Name - description"]
}`

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func pretty(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// contextHeader renders the fields every agent prompt starts with.
func contextHeader(st *domain.SharedState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Role: %s\n", orDefault(st.CurrentRole, notSpecified))
	fmt.Fprintf(&b, "Target Role: %s\n", orDefault(st.TargetRole, notSpecified))
	fmt.Fprintf(&b, "Is Follow-up Request: %t\n", st.IsFollowUp)

	if n := len(st.ConversationHistory); n > 0 {
		b.WriteString("\nRecent conversation:\n")
		start := 0
		if n > historyWindow {
			start = n - historyWindow
		}
		for _, t := range st.ConversationHistory[start:] {
			fmt.Fprintf(&b, "- %s: %s\n", t.Role, t.Content)
		}
	}

	fmt.Fprintf(&b, "\nUser's Current Request: %s\n", st.LatestUserMessage())
	return b.String()
}

func skillsPrompt(st *domain.SharedState) string {
	return contextHeader(st) + "\nAssess the skills for this career transition."
}

func industryPrompt(st *domain.SharedState) string {
	var b strings.Builder
	b.WriteString(contextHeader(st))
	if st.SkillsAssessment != nil {
		fmt.Fprintf(&b, "\nSkills Assessment:\n%s\n", pretty(st.SkillsAssessment))
	}
	b.WriteString("\nResearch the industry outlook for the target role.")
	return b.String()
}

func learningPrompt(st *domain.SharedState) string {
	var b strings.Builder
	b.WriteString(contextHeader(st))
	if st.SkillsAssessment != nil {
		fmt.Fprintf(&b, "\nSkills Assessment:\n%s\n", pretty(st.SkillsAssessment))
	}
	if st.IndustryInsights != nil {
		fmt.Fprintf(&b, "\nIndustry Insights:\n%s\n", pretty(st.IndustryInsights))
	}
	if st.RefineMode() {
		fmt.Fprintf(&b, "\nEXISTING LEARNING PATH TO MODIFY:\n%s\n", pretty(st.ExistingLearningPath))
		b.WriteString("\nThe user wants to modify their existing learning path. Focus on their specific request and update it accordingly; do not create a completely new plan. Include \"changesMade\".")
	} else {
		b.WriteString("\nCreate a comprehensive new learning path from scratch.")
	}
	return b.String()
}

func resourcesPrompt(st *domain.SharedState) string {
	target := orDefault(st.TargetRole, notSpecified)
	priority := st.PrioritySkills()

	var b strings.Builder
	fmt.Fprintf(&b, "Target Role: %s\n", target)
	fmt.Fprintf(&b, "Skills to Develop: %s\n", strings.Join(priority, ", "))
	if st.LearningPath != nil {
		fmt.Fprintf(&b, "Learning Phases:\n%s\n", pretty(st.LearningPath.LearningPhases))
	} else if st.ExistingLearningPath != nil {
		fmt.Fprintf(&b, "Learning Phases:\n%s\n", pretty(st.ExistingLearningPath.LearningPhases))
	}
	fmt.Fprintf(&b, "\nUser's Current Request: %s\n", st.LatestUserMessage())

	top := priority
	if len(top) > 5 {
		top = top[:5]
	}
	fmt.Fprintf(&b, `
Search for current, up-to-date learning resources for this career transition. Focus on:
1. Recent courses and certifications for %s
2. Learning platforms for skills: %s
3. Professional communities and networking opportunities

Then provide specific, actionable recommendations with working URLs.`, target, strings.Join(top, ", "))
	return b.String()
}
