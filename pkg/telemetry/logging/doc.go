// Package logging constructs the process-wide structured logger.
//
// The service logs with log/slog in JSON (default) or text format. New
// returns the logger together with its slog.LevelVar so the level can be
// raised or lowered at runtime — the config watcher uses this to apply
// log-level changes without a restart.
//
// Components take child loggers via Component, which tags every record with
// a "component" attribute ("listener", "conn", "requestlog", ...).
package logging
