package oracle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/nostrwot/wotgraph/bfs"
	"github.com/nostrwot/wotgraph/oraclecfg"
	"github.com/nostrwot/wotgraph/querycache"
	"github.com/nostrwot/wotgraph/wotstore"
)

var (
	// ErrInvalidLabel is returned when a pubkey argument is not 64
	// lowercase hex characters.
	ErrInvalidLabel = errors.New("oracle: label must be 64 lowercase hex characters")
	// ErrHopsOutOfRange is returned when a non-zero max_hops falls
	// outside [1, Config.MaxHopsLimit]. A max_hops of zero selects
	// Config.MaxHopsDefault instead.
	ErrHopsOutOfRange = errors.New("oracle: max_hops out of range")
	// ErrBFSTaskFailed is returned when a dispatched BFS task panics; the
	// worker recovers the panic and reports this error instead.
	ErrBFSTaskFailed = errors.New("oracle: bfs task failed to complete")
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("oracle: oracle is closed")
)

var hexLabelPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Oracle glues together the graph store, the query cache, and a
// bounded CPU-tier worker pool behind a single validated query API.
type Oracle struct {
	store *wotstore.Store
	cache *querycache.Cache
	cfg   oraclecfg.Config
	log   *zap.Logger

	sg   singleflight.Group
	jobs chan func()
	wg   sync.WaitGroup

	closeMu sync.RWMutex
	closed  bool
}

// New wires an Oracle over s and c, starting cfg.CPUWorkers (or
// runtime.GOMAXPROCS(0), if zero) background workers.
func New(s *wotstore.Store, c *querycache.Cache, cfg oraclecfg.Config, log *zap.Logger) *Oracle {
	log = log.Named("oracle")

	workers := cfg.CPUWorkers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	o := &Oracle{
		store: s,
		cache: c,
		cfg:   cfg,
		log:   log,
		jobs:  make(chan func(), workers*4),
	}

	o.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go o.runWorker()
	}
	return o
}

func (o *Oracle) runWorker() {
	defer o.wg.Done()
	for job := range o.jobs {
		job()
	}
}

// Close stops the worker pool, waiting for in-flight jobs to drain.
// It is idempotent. A Distance or BatchDistance call made after Close
// that misses the cache returns ErrClosed.
func (o *Oracle) Close() {
	o.closeMu.Lock()
	if o.closed {
		o.closeMu.Unlock()
		return
	}
	o.closed = true
	close(o.jobs)
	o.closeMu.Unlock()

	o.wg.Wait()
}

// Distance validates from, to, and maxHops, serves a cache hit
// directly, and otherwise dispatches one bfs.Distance call to the CPU
// tier, coalescing concurrent identical queries.
func (o *Oracle) Distance(ctx context.Context, from, to string, maxHops int, includeBridges bool) (bfs.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return bfs.DistanceResult{}, err
	}
	if !hexLabelPattern.MatchString(from) || !hexLabelPattern.MatchString(to) {
		return bfs.DistanceResult{}, ErrInvalidLabel
	}

	resolvedHops, err := o.resolveMaxHops(maxHops)
	if err != nil {
		return bfs.DistanceResult{}, err
	}

	if r, ok := o.cacheLookup(from, to, resolvedHops, includeBridges); ok {
		return r, nil
	}

	sfKey := fmt.Sprintf("%s|%s|%d|%t", from, to, resolvedHops, includeBridges)
	v, err, _ := o.sg.Do(sfKey, func() (any, error) {
		if r, ok := o.cacheLookup(from, to, resolvedHops, includeBridges); ok {
			return r, nil
		}
		return o.dispatch(ctx, from, to, resolvedHops, includeBridges)
	})
	if err != nil {
		return bfs.DistanceResult{}, err
	}
	return v.(bfs.DistanceResult), nil
}

// BatchDistance runs Distance for each target, preserving input order
// in the returned slice; each (from, target) pair is cached
// independently, same as a standalone Distance call for that pair.
func (o *Oracle) BatchDistance(ctx context.Context, from string, targets []string, maxHops int, includeBridges bool) ([]bfs.DistanceResult, error) {
	results := make([]bfs.DistanceResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workerCount())

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			r, err := o.Distance(gctx, from, target, maxHops, includeBridges)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Oracle) workerCount() int {
	if o.cfg.CPUWorkers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.cfg.CPUWorkers
}

func (o *Oracle) resolveMaxHops(maxHops int) (int, error) {
	if maxHops == 0 {
		return o.cfg.MaxHopsDefault, nil
	}
	if maxHops < 1 || maxHops > o.cfg.MaxHopsLimit {
		return 0, ErrHopsOutOfRange
	}
	return maxHops, nil
}

func (o *Oracle) cacheLookup(from, to string, maxHops int, includeBridges bool) (bfs.DistanceResult, bool) {
	key, ok := o.key(from, to, maxHops, includeBridges)
	if !ok {
		return bfs.DistanceResult{}, false
	}
	return o.cache.Get(key, o.store)
}

func (o *Oracle) key(from, to string, maxHops int, includeBridges bool) (querycache.Key, bool) {
	fromVid, ok := o.store.IDOf(from)
	if !ok {
		return querycache.Key{}, false
	}
	toVid, ok := o.store.IDOf(to)
	if !ok {
		return querycache.Key{}, false
	}
	return querycache.Key{From: fromVid, To: toVid, MaxHops: uint8(maxHops), IncludeBridges: includeBridges}, true
}

type dispatchOutcome struct {
	result bfs.DistanceResult
	err    error
}

// dispatch submits one BFS task to the worker pool and waits for it,
// honoring ctx cancellation and Close. A successful result is cached
// before it's returned. closeMu is held (read side) across the send so
// Close cannot close o.jobs out from under an in-flight send.
func (o *Oracle) dispatch(ctx context.Context, from, to string, maxHops int, includeBridges bool) (bfs.DistanceResult, error) {
	resultCh := make(chan dispatchOutcome, 1)
	job := func() {
		defer func() {
			if p := recover(); p != nil {
				o.log.Error("bfs task panicked", zap.Any("panic", p))
				resultCh <- dispatchOutcome{err: ErrBFSTaskFailed}
			}
		}()
		resultCh <- dispatchOutcome{result: bfs.Distance(o.store, bfs.DistanceQuery{
			From: from, To: to, MaxHops: maxHops, IncludeBridges: includeBridges,
		})}
	}

	o.closeMu.RLock()
	if o.closed {
		o.closeMu.RUnlock()
		return bfs.DistanceResult{}, ErrClosed
	}
	select {
	case o.jobs <- job:
		o.closeMu.RUnlock()
	case <-ctx.Done():
		o.closeMu.RUnlock()
		return bfs.DistanceResult{}, ctx.Err()
	}

	select {
	case out := <-resultCh:
		if out.err != nil {
			return bfs.DistanceResult{}, out.err
		}
		if key, ok := o.key(from, to, maxHops, includeBridges); ok {
			o.cache.Insert(key, out.result, o.store)
		}
		return out.result, nil
	case <-ctx.Done():
		return bfs.DistanceResult{}, ctx.Err()
	}
}
