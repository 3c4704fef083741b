package lockmetrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nostrwot/wotgraph/lockmetrics"
)

func TestSnapshotEmpty(t *testing.T) {
	var m lockmetrics.Metrics
	snap := m.Snapshot()
	require.Zero(t, snap.Reads.Count)
	require.Zero(t, snap.Writes.Count)
}

func TestTimerRecordsReadAndWrite(t *testing.T) {
	var m lockmetrics.Metrics

	func() {
		timer := lockmetrics.StartRead(&m)
		defer timer.Stop()
		time.Sleep(time.Millisecond)
	}()

	func() {
		timer := lockmetrics.StartWrite(&m)
		defer timer.Stop()
		time.Sleep(time.Millisecond)
	}()

	snap := m.Snapshot()
	require.EqualValues(t, 1, snap.Reads.Count)
	require.EqualValues(t, 1, snap.Writes.Count)
	require.Greater(t, snap.Reads.MaxUs, int64(0))
	require.Greater(t, snap.Writes.MaxUs, int64(0))
}

func TestTimerStopsOnPanic(t *testing.T) {
	var m lockmetrics.Metrics

	func() {
		defer func() { _ = recover() }()
		timer := lockmetrics.StartWrite(&m)
		defer timer.Stop()
		panic("boom")
	}()

	snap := m.Snapshot()
	require.EqualValues(t, 1, snap.Writes.Count)
}

func TestReset(t *testing.T) {
	var m lockmetrics.Metrics
	lockmetrics.StartRead(&m).Stop()
	m.Reset()
	snap := m.Snapshot()
	require.Zero(t, snap.Reads.Count)
}
