package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// maxBodyBytes caps the users payload read from the endpoint.
const maxBodyBytes = 8 << 20

const defaultBackoff = 250 * time.Millisecond

var errTrailingData = errors.New("unexpected data after users array")

// HTTPSource fetches the user array with a single GET request. Transport
// errors, 5xx and 429 responses are retried with exponential backoff; other
// failures are returned at once.
type HTTPSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.client = c }
}

// WithTimeout bounds each attempt. Zero means no per-attempt timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) { s.timeout = d }
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) HTTPOption {
	return func(s *HTTPSource) { s.retries = max(n, 0) }
}

// WithBackoff sets the base delay of the exponential backoff.
func WithBackoff(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.backoff = d
		}
	}
}

// WithLogger sets the logger; nil keeps the discard logger.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHTTPSource creates a source reading the users array from url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:     url,
		client:  http.DefaultClient,
		backoff: defaultBackoff,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchRecords implements types.DataSource.
func (s *HTTPSource) FetchRecords(ctx context.Context) ([]types.User, error) {
	log := s.logger.With(slog.String("fetch_id", newFetchID()), slog.String("url", s.url))
	log.Debug("fetching users")

	backoff := retry.WithMaxRetries(uint64(s.retries), retry.NewExponential(s.backoff))

	var users []types.User
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		got, transient, err := s.fetchOnce(ctx)
		if err != nil {
			if transient {
				log.Warn("fetch attempt failed", slog.Int("attempt", attempt), slog.Any("error", err))
				return retry.RetryableError(err)
			}
			return err
		}
		users = got
		return nil
	})
	if err != nil {
		log.Error("fetch failed", slog.Int("attempts", attempt), slog.Any("error", err))
		if errors.Is(err, types.ErrFetch) {
			return nil, err
		}
		return nil, &types.FetchError{Message: "failed to fetch users", Err: err}
	}

	log.Info("fetched users", slog.Int("count", len(users)), slog.Int("attempts", attempt))
	return users, nil
}

// fetchOnce performs one GET. transient reports whether retrying may help.
func (s *HTTPSource) fetchOnce(ctx context.Context) (users []types.User, transient bool, err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, &types.FetchError{Message: "invalid users url", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, &types.FetchError{Message: "failed to fetch users", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, &types.FetchError{Message: "failed to fetch users", StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if err := dec.Decode(&users); err != nil {
		return nil, false, &types.FetchError{Message: "invalid users payload", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false, &types.FetchError{Message: "invalid users payload", Err: errTrailingData}
	}
	if users == nil {
		users = []types.User{}
	}
	return users, false, nil
}

// newFetchID returns a time-ordered id used to correlate log lines of one
// fetch.
func newFetchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// String describes the source for logs and status lines.
func (s *HTTPSource) String() string {
	return fmt.Sprintf("http %s", s.url)
}
