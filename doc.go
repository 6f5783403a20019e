/*
Package careerpath plans career transitions with a small pipeline of
specialized reasoning agents.

A supervisor reads the user's request and picks the entry point; the run then
walks a fixed chain (skills, industry, learning path, resources) until the end.
Each agent asks a language model for a structured answer, validates it against
a schema and falls back to a documented default when the answer is malformed.
The resources agent may call a live web search tool, bounded to two model
rounds.

# Usage

	oracle, err := openai.New(openai.Config{APIKey: key, Model: "gpt-4o-mini"})
	if err != nil {
		log.Fatal(err)
	}

	eng, err := careerpath.New(oracle, careerpath.WithSearcher(tavily.New(tavilyKey)))
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Plan(ctx, domain.PlanRequest{
		Message:     "I want to move into platform engineering",
		CurrentRole: "Backend Developer",
		TargetRole:  "Platform Engineer",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Summary)

Follow-up questions pass the previous learning path back with IsFollowUp set;
the learning agent then refines that plan instead of creating a new one.

# Architecture

The library follows a hexagonal layout: pkg/domain holds the models,
pkg/ports the interfaces for the oracle, search and session storage, and
pkg/adapters the concrete implementations (OpenAI via langchaingo, Tavily,
memory, file and Redis session stores, HTTP and MCP transports).
*/
package careerpath
