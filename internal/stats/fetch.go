package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Reasons shown for failures that carry no provider message.
const (
	ReasonTransport = "Network response was not ok"
	ReasonUpstream  = "Upstream reported an error"
	ReasonParse     = "Failed to parse response"
	ReasonNoHandle  = "No handle configured"
)

// maxBodyBytes bounds how much of a response is read. Codeforces submission
// histories for active users run to a few megabytes.
const maxBodyBytes = 32 << 20

// Doer is the subset of *http.Client used to issue requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher queries sources. It keeps no state between calls.
type Fetcher struct {
	client    Doer
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout bounds each fetch. Zero disables the bound.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = d }
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithLogger sets the logger used to report failed fetches.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher. A nil client means a plain *http.Client.
func NewFetcher(client Doer, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	f := &Fetcher{
		client:    client,
		userAgent: "statboard",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues exactly one request to src for handle and returns its
// outcome. It never retries and never returns a partial record.
func (f *Fetcher) Fetch(ctx context.Context, src Source, handle string) Outcome {
	out := f.fetch(ctx, src, handle)
	if !out.OK() {
		f.logger.WarnContext(ctx, "fetching stats failed",
			"source", src.Name,
			"class", ErrorClass(out.Err),
			"error", out.Err,
		)
	}
	return out
}

func (f *Fetcher) fetch(ctx context.Context, src Source, handle string) Outcome {
	if handle == "" {
		return Failure(src.Name, ReasonNoHandle, fmt.Errorf("%w: empty handle", ErrTransport))
	}
	if src.Parse == nil {
		return Failure(src.Name, ReasonParse, Malformed("source %s has no parser", src.Name))
	}

	endpoint, err := src.URL(handle)
	if err != nil {
		return Failure(src.Name, ReasonTransport, fmt.Errorf("%w: %v", ErrTransport, err))
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	body, err := f.get(ctx, src, endpoint)
	if err != nil {
		return Failure(src.Name, ReasonTransport, err)
	}

	rec, err := src.Parse(body)
	if err != nil {
		var upstream *UpstreamError
		switch {
		case errors.As(err, &upstream):
			return Failure(src.Name, upstream.Message, err)
		case errors.Is(err, ErrUpstream):
			return Failure(src.Name, ReasonUpstream, err)
		case errors.Is(err, ErrParse):
			return Failure(src.Name, ReasonParse, err)
		default:
			return Failure(src.Name, ReasonParse, fmt.Errorf("%w: %v", ErrParse, err))
		}
	}
	if err := src.conform(rec); err != nil {
		return Failure(src.Name, ReasonParse, err)
	}

	return Success(src.Name, rec)
}

func (f *Fetcher) get(ctx context.Context, src Source, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	client := f.client
	if src.Client != nil {
		client = src.Client
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %v", ErrTransport, src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, src.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", ErrTransport, src.Name, err)
	}
	return body, nil
}
