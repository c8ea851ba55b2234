// Package logging builds slog loggers for the ingestion pipeline and exposes
// small attribute helpers so call sites stay terse. Loggers write to stdout
// and, when a log directory is configured, to paddock.log inside it.
package logging
