package authority

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/service/link"
	"github.com/oshokin/card-gate/internal/version"
)

const (
	// DefaultTimeout bounds each hop of a request.
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps the response body; a larger body fails the request.
	maxBodySize = 1 << 20

	headerRequestID = "X-Request-ID"
	headerUserAgent = "User-Agent"
)

var (
	// ErrLinkDown is reported when a request is refused because the link is down.
	ErrLinkDown = errors.New("network link is down")
	// errMissingLocation is logged when a redirect has no usable Location.
	errMissingLocation = errors.New("redirect without location")
	errBodyTooLarge    = errors.New("response body exceeds size limit")
)

// LinkState reports the last observed link state.
type LinkState interface {
	State() link.State
}

// Engine issues authority requests.
type Engine struct {
	link      LinkState
	client    *http.Client
	timeout   time.Duration
	userAgent string
	newID     func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-hop timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithTransport sets the round tripper used for every hop.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Engine) {
		if rt != nil {
			e.client.Transport = rt
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(e *Engine) {
		if userAgent != "" {
			e.userAgent = userAgent
		}
	}
}

// NewEngine creates an Engine gated by state. A nil state never blocks.
func NewEngine(state LinkState, opts ...Option) *Engine {
	engine := &Engine{
		link: state,
		client: &http.Client{
			// Redirects are followed by hand so the hop count stays at one.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:   DefaultTimeout,
		userAgent: version.UserAgent(),
		newID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// hop is one completed HTTP exchange.
type hop struct {
	status   int
	body     string
	location *url.URL
}

// Get performs the logical request to rawURL.
func (e *Engine) Get(ctx context.Context, rawURL string) Outcome {
	requestID := e.newID()
	ctx = logger.WithKV(ctx, "request_id", requestID)

	if e.link != nil && e.link.State() != link.Connected {
		logger.Warn(ctx, "Link is down, request skipped")

		return transportFailure(requestID, ErrLinkDown)
	}

	first, err := e.fetch(ctx, rawURL, requestID)
	if err != nil {
		logger.WarnKV(ctx, "Request failed", "error", err)

		return transportFailure(requestID, err)
	}

	if !isRedirect(first.status) {
		return fromStatus(requestID, first.status, first.body)
	}

	if first.location == nil {
		logger.WarnKV(ctx, "Redirect not followed", "status", first.status, "error", errMissingLocation)

		return fromStatus(requestID, first.status, "")
	}

	logger.DebugKV(ctx, "Following redirect", "status", first.status, "location", first.location.String())

	second, err := e.fetch(ctx, first.location.String(), requestID)
	if err != nil {
		logger.WarnKV(ctx, "Redirect request failed", "error", err)

		return transportFailure(requestID, err)
	}

	// Only one hop is followed; a further redirect is a failure status.
	return fromStatus(requestID, second.status, second.body)
}

func (e *Engine) fetch(ctx context.Context, target, requestID string) (*hop, error) {
	hopCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(hopCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set(headerUserAgent, e.userAgent)
	req.Header.Set(headerRequestID, requestID)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", req.URL.Redacted(), err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	result := &hop{status: resp.StatusCode}

	if isRedirect(resp.StatusCode) {
		if location, locErr := resp.Location(); locErr == nil {
			result.location = location
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

		return result, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if len(body) > maxBodySize {
		return nil, fmt.Errorf("get %s: %w", req.URL.Redacted(), errBodyTooLarge)
	}

	result.body = string(body)

	logger.DebugKV(ctx, "Response received", "status", resp.StatusCode, "bytes", len(body))

	return result, nil
}

func isRedirect(status int) bool {
	return status == http.StatusMovedPermanently || status == http.StatusFound
}
