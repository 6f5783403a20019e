package careerpath_test

import (
	"context"
	"fmt"

	"github.com/aretw0/careerpath"
	"github.com/aretw0/careerpath/pkg/adapters/memory"
	"github.com/aretw0/careerpath/pkg/adapters/offline"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/session"
)

// The offline oracle never answers with an agent name, so routing falls back
// to keywords: a question about certifications enters at the resources agent
// and the earlier agents are skipped.
func ExampleEngine_Plan() {
	eng, err := careerpath.New(offline.New())
	if err != nil {
		panic(err)
	}

	res, err := eng.Plan(context.Background(), domain.PlanRequest{
		Message: "Which certification should I get for cloud work?",
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Route)
	fmt.Println(res.SkillsAssessment == nil, res.Resources != nil)
	// Output:
	// resources_agent
	// true true
}

func ExampleEngine_Transitions() {
	eng, err := careerpath.New(offline.New())
	if err != nil {
		panic(err)
	}
	for _, t := range eng.Transitions()[4:] {
		fmt.Printf("%s -> %s\n", t.From, t.To)
	}
	// Output:
	// skills_agent -> industry_agent
	// industry_agent -> learning_agent
	// learning_agent -> resources_agent
	// resources_agent -> __end__
}

// A session remembers roles and the learning path, so the second turn is a
// follow-up without the caller resending anything.
func ExampleEngine_session() {
	eng, err := careerpath.New(offline.New())
	if err != nil {
		panic(err)
	}
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	first, err := mgr.Continue(ctx, eng, "demo", domain.PlanRequest{
		Message:     "Help me plan my skills",
		CurrentRole: "Teacher",
		TargetRole:  "Instructional Designer",
	})
	if err != nil {
		panic(err)
	}
	second, err := mgr.Continue(ctx, eng, "demo", domain.PlanRequest{Message: "Can the timeline be shorter?"})
	if err != nil {
		panic(err)
	}

	fmt.Println(first.Result.IsFollowUp, second.Result.IsFollowUp)
	fmt.Println(second.Result.TargetRole)
	fmt.Println(len(second.Conversation.History))
	// Output:
	// false true
	// Instructional Designer
	// 4
}
