package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/usertable/internal/testutil"
	"github.com/mesh-intelligence/usertable/pkg/types"
)

const usersPayload = `[
 {"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz",
  "address":{"street":"Kulas Light","suite":"Apt. 556","city":"Gwenborough","zipcode":"92998-3874"},
  "phone":"1-770-736-8031 x56442","website":"hildegard.org",
  "company":{"name":"Romaguera-Crona","catchPhrase":"Multi-layered client-server neural-net","bs":"harness real-time e-markets"}},
 {"id":2,"name":"Ervin Howell","username":"Antonette","email":"Shanna@melissa.tv",
  "phone":"010-692-6593 x09125","website":"anastasia.net"}
]`

// scripted serves the given status codes in order, then 200 with body.
func scripted(t *testing.T, body string, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestHTTPSource(t *testing.T, url string, retries int) *HTTPSource {
	return NewHTTPSource(url,
		WithRetries(retries),
		WithBackoff(time.Millisecond),
		WithTimeout(5*time.Second),
		WithLogger(testutil.NewTestLogger(t)),
	)
}

func TestHTTPSourceFetch(t *testing.T) {
	srv, calls := scripted(t, usersPayload)

	users, err := newTestHTTPSource(t, srv.URL, 2).FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, "Leanne Graham", users[0].Name)
	require.NotNil(t, users[0].Company)
	assert.Equal(t, "Romaguera-Crona", users[0].Company.Name)
	assert.Equal(t, "Kulas Light, Apt. 556, Gwenborough, 92998-3874", users[0].AddressLine())

	assert.Nil(t, users[1].Company)
	assert.Nil(t, users[1].Address)
}

func TestHTTPSourceRetries(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		retries    int
		wantErr    bool
		wantStatus int
		wantCalls  int32
	}{
		{
			name:      "server error then success",
			statuses:  []int{http.StatusInternalServerError},
			retries:   2,
			wantCalls: 2,
		},
		{
			name:      "rate limited then success",
			statuses:  []int{http.StatusTooManyRequests, http.StatusBadGateway},
			retries:   2,
			wantCalls: 3,
		},
		{
			name:       "not found is not retried",
			statuses:   []int{http.StatusNotFound},
			retries:    3,
			wantErr:    true,
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
		{
			name:       "retries exhausted",
			statuses:   []int{500, 500, 500, 500},
			retries:    2,
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
			wantCalls:  3,
		},
		{
			name:       "no retries configured",
			statuses:   []int{http.StatusServiceUnavailable},
			retries:    0,
			wantErr:    true,
			wantStatus: http.StatusServiceUnavailable,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := scripted(t, usersPayload, tt.statuses...)

			users, err := newTestHTTPSource(t, srv.URL, tt.retries).FetchRecords(context.Background())
			assert.Equal(t, tt.wantCalls, calls.Load())
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, users, 2)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrFetch)
			var fe *types.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
			assert.Nil(t, users)
		})
	}
}

func TestHTTPSourceInvalidPayload(t *testing.T) {
	srv, calls := scripted(t, `{"not":"an array"}`)

	_, err := newTestHTTPSource(t, srv.URL, 2).FetchRecords(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrFetch)
	assert.Contains(t, err.Error(), "invalid users payload")
	assert.Equal(t, int32(1), calls.Load(), "decode errors are not retried")
}

func TestHTTPSourceTrailingData(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "trailing junk", body: usersPayload + " trailing junk", wantErr: true},
		{name: "second array", body: usersPayload + "[]", wantErr: true},
		{name: "trailing whitespace", body: usersPayload + "\n\n  ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := scripted(t, tt.body)
			users, err := newTestHTTPSource(t, srv.URL, 0).FetchRecords(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, users)
				assert.ErrorIs(t, err, types.ErrFetch)
				assert.Contains(t, err.Error(), "invalid users payload")
				return
			}
			require.NoError(t, err)
			assert.Len(t, users, 2)
		})
	}
}

// countingTransport counts round trips through the wrapped transport.
type countingTransport struct {
	next  http.RoundTripper
	trips atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.trips.Add(1)
	return c.next.RoundTrip(r)
}

func TestHTTPSourceCustomClient(t *testing.T) {
	srv, calls := scripted(t, usersPayload, http.StatusServiceUnavailable)
	transport := &countingTransport{next: srv.Client().Transport}

	s := NewHTTPSource(srv.URL,
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRetries(1),
		WithBackoff(time.Millisecond),
	)
	users, err := s.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(2), transport.trips.Load())
}

func TestHTTPSourceNullPayload(t *testing.T) {
	srv, _ := scripted(t, `null`)

	users, err := newTestHTTPSource(t, srv.URL, 0).FetchRecords(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestHTTPSource(t, url, 1).FetchRecords(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrFetch)
	assert.Contains(t, err.Error(), "failed to fetch users")
}

func TestHTTPSourceCanceledContext(t *testing.T) {
	srv, _ := scripted(t, usersPayload)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestHTTPSource(t, srv.URL, 3).FetchRecords(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrFetch)
}

func TestHTTPSourceString(t *testing.T) {
	s := NewHTTPSource("http://example.test/users")
	assert.Equal(t, "http http://example.test/users", s.String())
}
