// Package models defines the domain entities shared by the matcher, the reconciliation driver and the persistence layer.
//
// The package contains three categories of types:
//
// 1. Source side: what is read from the input catalog
//   - [SourceRecord] : title/artist/album/ISRC of a track to import
//
// 2. Target side: what the remote catalog returns
//   - [Candidate] : a single search result, already mapped to a canonical shape
//   - [Collection] : a playlist in the user's library
//   - [MatchResult] : the best candidate chosen for a record
//
// 3. Run bookkeeping
//   - [SyncState] : durable mapping of stable keys to resolved identifiers
//   - [RecordResult] / [RunSummary] : per-record outcomes and the final tally
package models
