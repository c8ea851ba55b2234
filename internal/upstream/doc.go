// Package upstream talks to the external telemetry archive API.
//
// The archive is treated as unreliable: session endpoints 404 for sub-sessions
// that never happened (a sprint at a non-sprint event) and transiently fail
// under rate pressure. Callers distinguish the two cases with ErrNotFound and
// ErrTransient. Responses are cached on disk keyed by (year, round, session
// name) so repeated season runs avoid redundant downloads.
//
// Optional fields in upstream payloads are pointers. Presence is mapped here
// at the boundary; nothing deeper in the pipeline inspects raw payloads.
package upstream
