package source

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// Snapshot is the observable state of a Query.
type Snapshot struct {
	Status     types.Status
	Records    []types.User
	Err        error
	Generation uint64
	FetchedAt  time.Time
}

// Rows returns the records on success and nil otherwise, so a table fed
// from a pending or failed query shows nothing.
func (s Snapshot) Rows() []types.User {
	if s.Status != types.StatusSuccess {
		return nil
	}
	return s.Records
}

// Query fetches the user array once and caches the settled result. Each
// Refetch starts a new generation; a result arriving for an older
// generation is dropped, so the last fetch started wins. At most one fetch
// per generation is in flight.
//
// Query is safe for concurrent use: UI loops run fetches on background
// goroutines.
type Query struct {
	source types.DataSource
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group

	mu      sync.Mutex
	gen     uint64
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewQuery creates a pending Query over src.
func NewQuery(src types.DataSource, logger *slog.Logger) *Query {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Query{
		source: src,
		logger: logger,
		now:    time.Now,
		snap:   Snapshot{Status: types.StatusPending},
		subs:   make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state without fetching.
func (q *Query) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// Fetch returns the settled result of the current generation, starting the
// fetch or joining the one in flight if there is none yet. A failed fetch
// stays failed until Refetch; errors are not retried here.
func (q *Query) Fetch(ctx context.Context) Snapshot {
	snap := q.Snapshot()
	if snap.Status != types.StatusPending {
		return snap
	}
	return q.run(ctx, snap.Generation)
}

// Refetch discards the cached result and fetches again.
func (q *Query) Refetch(ctx context.Context) Snapshot {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	q.snap = Snapshot{Status: types.StatusPending, Generation: gen}
	snap := q.snap
	subs := q.subscribers()
	q.mu.Unlock()

	q.logger.Debug("refetch requested", slog.Uint64("generation", gen))
	notify(subs, snap)
	return q.run(ctx, gen)
}

// Subscribe registers fn to be called after every state change. fn may be
// called from the goroutine that ran the fetch. The returned function
// removes the subscription.
func (q *Query) Subscribe(fn func(Snapshot)) (cancel func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.subs, id)
	}
}

func (q *Query) run(ctx context.Context, gen uint64) Snapshot {
	v, _, _ := q.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		// A flight for this generation may have settled between the
		// caller's status check and now.
		if snap := q.Snapshot(); snap.Generation == gen && snap.Status != types.StatusPending {
			return snap, nil
		}
		records, err := q.source.FetchRecords(ctx)
		return q.settle(gen, records, err), nil
	})
	return v.(Snapshot)
}

func (q *Query) settle(gen uint64, records []types.User, err error) Snapshot {
	q.mu.Lock()
	if gen != q.gen {
		snap := q.snap
		q.mu.Unlock()
		q.logger.Debug("dropping stale fetch result",
			slog.Uint64("generation", gen), slog.Uint64("current", snap.Generation))
		return snap
	}

	if err != nil {
		if !errors.Is(err, types.ErrFetch) {
			err = &types.FetchError{Message: "failed to fetch users", Err: err}
		}
		q.snap = Snapshot{Status: types.StatusError, Err: err, Generation: gen}
	} else {
		if records == nil {
			records = []types.User{}
		}
		q.snap = Snapshot{
			Status:     types.StatusSuccess,
			Records:    slices.Clone(records),
			Generation: gen,
			FetchedAt:  q.now(),
		}
	}
	snap := q.snap
	subs := q.subscribers()
	q.mu.Unlock()

	if err != nil {
		q.logger.Warn("fetch failed", slog.Uint64("generation", gen), slog.Any("error", err))
	} else {
		q.logger.Debug("fetch settled", slog.Uint64("generation", gen), slog.Int("count", len(records)))
	}
	notify(subs, snap)
	return snap
}

// subscribers returns the callbacks in registration order. Callers hold mu.
func (q *Query) subscribers() []func(Snapshot) {
	ids := make([]int, 0, len(q.subs))
	for id := range q.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		out[i] = q.subs[id]
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
