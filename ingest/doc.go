// Package ingest names the contracts between the graph engine and its
// two out-of-scope collaborators: a live event-stream adapter (Source)
// and a durable-persistence adapter (Snapshot). Neither is implemented
// here — connecting to relays, deduplicating by event id, and writing
// to a database are someone else's concern. Replay is the one piece of
// glue this package owns: it drives a Source's events into a
// wotstore.Store using the store's own last-write-wins semantics.
package ingest
