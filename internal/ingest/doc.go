// Package ingest populates the session database from the telemetry archive.
//
// A season run walks every round of the schedule and, for each requested
// session kind, processes one unit: check which of the five data categories
// already hold rows, fetch the upstream dataset only when something is
// missing, and dispatch exactly the missing category ingesters. Each category
// commits independently, so an interrupted run resumes by re-checking
// completeness rather than replaying work. Failed units are appended to a
// per-season JSON failure log for later reconciliation.
package ingest
