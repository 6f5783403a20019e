/*
Package ports defines the driven ports (interfaces) for the careerpath engine.

These interfaces decouple the orchestration core from the reasoning service,
the web search provider and the session storage used by transport adapters.

# Key Interfaces

  - Oracle: the language model consulted for routing and structured outputs.
  - Searcher: live web search used by the resources agent's tools.
  - SessionStore: persists per-session conversation context between turns.
  - DistributedLocker: distributed locking for concurrent session access.
*/
package ports
