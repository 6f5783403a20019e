// Package summary renders the final state of a planning run as markdown.
package summary

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerpath/pkg/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display limits per section.
const (
	maxSkillGaps      = 5
	maxStrengths      = 5
	maxPhases         = 4
	maxCourses        = 3
	maxCertifications = 2
	maxPlatforms      = 3
	maxCommunities    = 2
)

var numbers = message.NewPrinter(language.English)

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Assemble renders the run's outputs. It is pure and deterministic: sections
// whose upstream field is absent are omitted entirely.
func Assemble(st *domain.SharedState) string {
	var parts []string
	add := func(s ...string) { parts = append(parts, s...) }

	if st.IsFollowUp {
		add("## 🔄 Updated Career Plan\n",
			"Based on your follow-up question, I've refined your career roadmap:\n")
	} else if st.CurrentRole != "" && st.TargetRole != "" {
		add("# 🎯 Career Transition Plan\n**" + st.CurrentRole + " → " + st.TargetRole + "**\n")
	}

	if s := st.SkillsAssessment; s != nil {
		add("## 📊 Skills Analysis\n")
		if len(s.SkillGaps) > 0 {
			add("**Key skills to develop:**\n" + bullets(head(s.SkillGaps, maxSkillGaps)) + "\n")
		}
		if len(s.Strengths) > 0 {
			add("**Your strengths:**\n" + bullets(head(s.Strengths, maxStrengths)) + "\n")
		}
	}

	if in := st.IndustryInsights; in != nil {
		add("## 🏢 Industry Outlook\n")
		add("**Market demand:** " + in.MarketDemand + "\n")
		add("**Salary range:** " + FormatSalary(in.SalaryRange) + "\n")
		if in.GrowthProjection != "" {
			add("**Growth projection:** " + in.GrowthProjection + "\n")
		}
	}

	if lp := st.LearningPath; lp != nil {
		if st.IsFollowUp {
			add("## 📚 Refined Learning Path\n")
		} else {
			add("## 📚 Learning Roadmap\n")
		}
		add("**Timeline:** " + lp.Timeline + "\n")
		if len(lp.LearningPhases) > 0 {
			add("**Key phases:**\n")
			for i, ph := range head(lp.LearningPhases, maxPhases) {
				add(fmt.Sprintf("%d. **%s** _%s_", i+1, ph.Phase, ph.Duration))
			}
			add("")
		}
	}

	if r := st.Resources; r != nil {
		add("## 🎓 Recommended Resources")
		if r.SearchEnabled {
			add("_✨ Real-time web search results included_\n")
		}
		if len(r.Courses) > 0 {
			add("### 📖 Courses")
			for _, c := range head(r.Courses, maxCourses) {
				add(courseLine(c))
			}
			add("")
		}
		if len(r.Certifications) > 0 {
			add("### 🏆 Certifications")
			for _, c := range head(r.Certifications, maxCertifications) {
				line := "• **" + c.Title + "** by " + c.Provider
				if details := joinNonEmpty(" • ", c.Duration, c.Cost); details != "" {
					line += " _" + details + "_"
				}
				add(line)
			}
			add("")
		}
		if len(r.PracticePlatforms) > 0 {
			add("### 💻 Practice Platforms", bullets(head(r.PracticePlatforms, maxPlatforms)), "")
		}
		if len(r.Communities) > 0 {
			add("### 👥 Communities", bullets(head(r.Communities, maxCommunities)), "")
		}
	}

	add("---\n")
	if st.IsFollowUp {
		add("✨ **Your career roadmap has been updated!** Check the refined timeline on the interactive chart.\n")
	} else {
		add("✨ **Your personalized career roadmap is ready!** Check the visual timeline on the right panel.\n")
	}

	return strings.Join(parts, "\n")
}

// FormatSalary renders a range as "$70,000 - $130,000 USD".
func FormatSalary(s domain.SalaryRange) string {
	currency := s.Currency
	if currency == "" {
		currency = "USD"
	}
	return numbers.Sprintf("$%d - $%d %s", s.Min, s.Max, currency)
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "• " + it
	}
	return strings.Join(lines, "\n")
}

func courseLine(c domain.Course) string {
	title := "**" + c.Title + "**"
	if c.URL != "" {
		title = "**[" + c.Title + "](" + c.URL + ")**"
	}
	line := "• " + title + " by " + c.Provider
	if details := joinNonEmpty(" • ", c.Level, c.Duration, c.Cost); details != "" {
		line += " _" + details + "_"
	}
	return line
}

// Result builds the boundary output for a completed run.
func Result(st *domain.SharedState) *domain.PlanResult {
	return &domain.PlanResult{
		Summary:          Assemble(st),
		MermaidChart:     st.MermaidChart,
		SkillsAssessment: st.SkillsAssessment,
		IndustryInsights: st.IndustryInsights,
		LearningPath:     st.LearningPath,
		Resources:        st.Resources,
		CurrentRole:      st.CurrentRole,
		TargetRole:       st.TargetRole,
		IsFollowUp:       st.IsFollowUp,
		Route:            st.NextAgent,
	}
}
