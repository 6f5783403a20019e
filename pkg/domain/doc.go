/*
Package domain contains the core models of the career planning pipeline.

It defines the shared state threaded through a run, the agent names that
make up the pipeline, the structured payloads each agent produces and the
oracle/tool message shapes. This package is kept pure and free of I/O,
following Hexagonal Architecture principles.

# Key Entities

  - SharedState: the per-run record read and written by agents.
  - AgentName: a pipeline step (supervisor, skills, industry, learning, resources).
  - SkillsAssessment, IndustryInsights, LearningPath, Resources: agent outputs.
  - PlanRequest / PlanResult: the boundary of one orchestration run.
  - Conversation: per-session context kept by transport adapters.
*/
package domain
