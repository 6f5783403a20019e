// Package runtime drives a planning run: the supervisor picks an entry agent
// and the engine walks the static transition table until the end.
package runtime
