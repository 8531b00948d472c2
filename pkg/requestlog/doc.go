// Package requestlog keeps an audit trail of served requests in SQLite.
//
// # Overview
//
// The Recorder wraps the dispatcher chain: every request that passes
// through is summarized into a Record (ids, timing, outcome, response
// size, protocol metadata) and queued for an asynchronous writer. Writes
// never block the serving path; when the queue is full the record is
// dropped and counted.
//
// Storage is a single SQLite database through the pure-Go modernc.org
// driver — the runtime image has no shell and no dynamic linker, so a cgo
// driver is not an option. Retention is handled by the Pruner (delete by
// age, trim to a row cap) and the cron-driven Scheduler.
//
// The whole subsystem is optional and disabled by default: the deployment
// contract promises the binary works without writable filesystem paths.
package requestlog
