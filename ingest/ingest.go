package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/nostrwot/wotgraph/wotstore"
)

// FollowEvent is the shape delivered by the upstream relay collaborator:
// one subject's complete follow list as of one observed event.
type FollowEvent struct {
	Pubkey    string
	Follows   []string
	EventID   string
	CreatedAt int64
}

// Source is implemented by the (out-of-scope) event-stream adapter —
// e.g. a relay pool subscription with its own reconnect and
// deduplication logic. Next blocks until an event is available, ctx is
// canceled, or the stream ends (io.EOF).
type Source interface {
	Next(ctx context.Context) (FollowEvent, error)
}

// Snapshot is implemented by the (out-of-scope) durable-persistence
// adapter. It loads the graph's last-persisted state at startup; the
// engine otherwise never reads or writes durable storage directly.
type Snapshot interface {
	Load(ctx context.Context) ([]FollowEvent, error)
}

// Replay drives every event from src into s via UpdateFollows, in the
// order src produces them, stopping cleanly at io.EOF or ctx
// cancellation. It returns the count of events that were actually
// applied — UpdateFollows silently rejects stale (out-of-order)
// updates, and those are not counted.
//
// Replay does not retry or reconnect; Source implementations own that.
func Replay(ctx context.Context, s *wotstore.Store, src Source) (int, error) {
	applied := 0
	for {
		if err := ctx.Err(); err != nil {
			return applied, err
		}

		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return applied, nil
		}
		if err != nil {
			return applied, err
		}

		if s.UpdateFollows(ev.Pubkey, ev.Follows, ev.EventID, ev.CreatedAt, ev.EventID != "", true) {
			applied++
		}
	}
}
