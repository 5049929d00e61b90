// Package tasks runs the catalog import: resolving source records against the target catalog and
// reconciling the results into a collection, with real-time progress reporting.
//
// # Core Operations
//
//  1. [Resolver.Resolve] : two-phase best-candidate search
//     - Phase 1 searches "songs" for every query from [matching.BuildQueries]
//     - Phase 2 repeats with "videos" only when phase 1 found nothing acceptable
//     - A candidate at or above [Options.ConfidentScore] ends the search immediately
//     - The best candidate across all queries of a phase wins; ties keep the first seen
//
//  2. [Driver.EnsureCollection] : choose the target collection
//     - Saved collection id, then reuse by name, then create
//
//  3. [Driver.Run] : reconcile records in input order
//     - Skips keys already in the sync state
//     - Adds matches, likes them (best-effort), persists the state after every add
//     - Sleeps [Options.PostAddDelay] after each add only
//
// # Retries
//
// Every remote call goes through [Retry]: a fixed number of attempts separated by a fixed delay.
// A record whose retries are exhausted is classified [models.OutcomeError] and the run continues,
// unless [Options.FailFast] is set.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for
// rendering. Updates use select with default to prevent blocking.
package tasks
