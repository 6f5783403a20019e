/*
Package session implements conversational session management on top of a
ports.SessionStore.

Manager serializes access per session ID with reference-counted local locks
and, when configured, a distributed lock so several replicas can share one
store. Continue drives one conversational turn: it merges the stored context
into the request, runs the planner and persists the resulting turn pair.
*/
package session
