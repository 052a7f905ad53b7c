// Package session holds the authoritative state of one editing session.
//
// State changes are expressed as a pure reduction:
//
//	next, effect, err := reducer.Reduce(state, event)
//
// A reduction never performs I/O. Network work (exporting, asking the
// language model) is returned as an Effect; the caller executes it and feeds
// the outcome back as a result event (ExportSucceeded, AssistFailed, ...).
// Refused transitions return a sentinel error and leave the state untouched.
//
// RedisStore persists a snapshot of the state between process restarts.
package session
