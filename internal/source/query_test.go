package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/usertable/internal/testutil"
	"github.com/mesh-intelligence/usertable/pkg/types"
)

// funcSource adapts a function to types.DataSource and counts calls.
type funcSource struct {
	calls atomic.Int32
	fn    func(ctx context.Context, call int) ([]types.User, error)
}

func (s *funcSource) FetchRecords(ctx context.Context) ([]types.User, error) {
	return s.fn(ctx, int(s.calls.Add(1)))
}

func TestQueryStartsPending(t *testing.T) {
	q := NewQuery(&testutil.StaticSource{}, nil)

	snap := q.Snapshot()
	assert.Equal(t, types.StatusPending, snap.Status)
	assert.Nil(t, snap.Rows())
	assert.NoError(t, snap.Err)
}

func TestQueryFetchCaches(t *testing.T) {
	src := &testutil.StaticSource{Records: testutil.Users(3)}
	q := NewQuery(src, testutil.NewTestLogger(t))
	ctx := context.Background()

	first := q.Fetch(ctx)
	require.Equal(t, types.StatusSuccess, first.Status)
	assert.Len(t, first.Rows(), 3)
	assert.False(t, first.FetchedAt.IsZero())

	second := q.Fetch(ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.Calls, "a settled result is served from cache")
}

func TestQueryEmptyResult(t *testing.T) {
	q := NewQuery(&testutil.StaticSource{}, nil)

	snap := q.Fetch(context.Background())
	assert.Equal(t, types.StatusSuccess, snap.Status)
	assert.NotNil(t, snap.Rows())
	assert.Empty(t, snap.Rows())
}

func TestQueryErrorIsNotRetried(t *testing.T) {
	fetchErr := &types.FetchError{Message: "failed to fetch users", StatusCode: 500}
	src := &testutil.StaticSource{Err: fetchErr}
	q := NewQuery(src, testutil.NewTestLogger(t))
	ctx := context.Background()

	snap := q.Fetch(ctx)
	assert.Equal(t, types.StatusError, snap.Status)
	assert.Same(t, fetchErr, snap.Err)
	assert.Nil(t, snap.Rows())

	q.Fetch(ctx)
	q.Fetch(ctx)
	assert.Equal(t, 1, src.Calls)
}

func TestQueryWrapsPlainErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	q := NewQuery(&testutil.StaticSource{Err: cause}, nil)

	snap := q.Fetch(context.Background())
	require.Equal(t, types.StatusError, snap.Status)
	assert.ErrorIs(t, snap.Err, types.ErrFetch)
	assert.ErrorIs(t, snap.Err, cause)
	assert.Equal(t, "failed to fetch users: disk on fire", snap.Err.Error())
}

func TestQueryRefetch(t *testing.T) {
	src := &funcSource{fn: func(_ context.Context, call int) ([]types.User, error) {
		if call == 1 {
			return nil, errors.New("offline")
		}
		return testutil.Users(call), nil
	}}
	q := NewQuery(src, nil)
	ctx := context.Background()

	failed := q.Fetch(ctx)
	assert.Equal(t, types.StatusError, failed.Status)

	recovered := q.Refetch(ctx)
	assert.Equal(t, types.StatusSuccess, recovered.Status)
	assert.NoError(t, recovered.Err)
	assert.Len(t, recovered.Rows(), 2)
	assert.Greater(t, recovered.Generation, failed.Generation)

	again := q.Refetch(ctx)
	assert.Len(t, again.Rows(), 3)
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestQuerySubscribe(t *testing.T) {
	q := NewQuery(&testutil.StaticSource{Records: testutil.Users(2)}, nil)
	ctx := context.Background()

	var got []types.Status
	cancel := q.Subscribe(func(s Snapshot) { got = append(got, s.Status) })

	q.Fetch(ctx)
	q.Refetch(ctx)
	assert.Equal(t, []types.Status{
		types.StatusSuccess,
		types.StatusPending,
		types.StatusSuccess,
	}, got)

	cancel()
	q.Refetch(ctx)
	assert.Len(t, got, 3, "no notifications after cancel")
}

func TestQueryLastFetchWins(t *testing.T) {
	release := make(chan struct{})
	src := &funcSource{fn: func(_ context.Context, call int) ([]types.User, error) {
		if call == 1 {
			<-release
			return testutil.Named("Stale"), nil
		}
		return testutil.Named("Fresh"), nil
	}}
	q := NewQuery(src, testutil.NewTestLogger(t))
	ctx := context.Background()

	staleDone := make(chan Snapshot)
	go func() { staleDone <- q.Fetch(ctx) }()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	fresh := q.Refetch(ctx)
	require.Equal(t, types.StatusSuccess, fresh.Status)
	assert.Equal(t, "Fresh", fresh.Rows()[0].Name)

	close(release)
	stale := <-staleDone
	assert.Equal(t, "Fresh", stale.Rows()[0].Name, "the older fetch reports the current state")
	assert.Equal(t, "Fresh", q.Snapshot().Rows()[0].Name)
}

func TestQueryConcurrentFetchSharesOneRequest(t *testing.T) {
	release := make(chan struct{})
	src := &funcSource{fn: func(_ context.Context, _ int) ([]types.User, error) {
		<-release
		return testutil.Users(5), nil
	}}
	q := NewQuery(src, nil)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]Snapshot, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = q.Fetch(ctx)
		}()
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers a chance to join the flight.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, r := range results {
		assert.Equal(t, types.StatusSuccess, r.Status)
		assert.Len(t, r.Rows(), 5)
	}
}

func TestQueryRecordsAreIsolated(t *testing.T) {
	records := testutil.Users(2)
	q := NewQuery(&testutil.StaticSource{Records: records}, nil)

	snap := q.Fetch(context.Background())
	records[0].Name = "mutated"
	assert.Equal(t, "User 01", snap.Rows()[0].Name)
}
