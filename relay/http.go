package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/log"
	"github.com/zees-dev/zeth/metrics"
)

const (
	// DefaultHTTPRequestTimeout bounds a whole upstream round trip, body included.
	DefaultHTTPRequestTimeout = 30 * time.Second

	// Parsed upstream URLs are cached; an endpoint update changes the key so stale entries just expire.
	parsedURLCacheExpiration = 10 * time.Minute
	parsedURLCacheCleanup    = 20 * time.Minute
)

// hopByHopHeaders describe a single connection and must not be forwarded.
// Host and Content-Length are recomputed by the client for the upstream request.
var hopByHopHeaders = []string{
	"Host",
	"Content-Length",
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// HTTPConfig controls upstream calls made by HTTPRelay.
type HTTPConfig struct {
	RequestTimeout       time.Duration
	MaxResponseBodyBytes int64
	// MaxConcurrentRequests bounds in-flight upstream requests; callers beyond it wait.
	MaxConcurrentRequests int
	EnforceEnabled        bool
}

// Response is an upstream response, relayed to the caller unchanged.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPRelay forwards one-shot requests to an endpoint's HTTP RPC URL.
// Every upstream response body is also published, whatever its status code.
type HTTPRelay struct {
	logger    polylog.Logger
	resolver  resolver
	publisher Publisher

	httpClient *http.Client
	bufferPool *bufferPool
	limiter    *concurrencyLimiter

	// parsedURLs caches rpc_http strings to their parsed form.
	parsedURLs *cache.Cache
}

// NewHTTPRelay returns a relay that resolves targets through directory and publishes to publisher.
func NewHTTPRelay(
	logger polylog.Logger,
	directory endpoint.Getter,
	publisher Publisher,
	config HTTPConfig,
) *HTTPRelay {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultHTTPRequestTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 100

	return &HTTPRelay{
		logger:    logger.With("component", "http_relay"),
		resolver:  resolver{directory: directory, enforceEnabled: config.EnforceEnabled},
		publisher: publisher,

		httpClient: &http.Client{
			Transport: transport,
			Timeout:   config.RequestTimeout,
		},
		bufferPool: newBufferPool(config.MaxResponseBodyBytes),
		limiter:    newConcurrencyLimiter(config.MaxConcurrentRequests),
		parsedURLs: cache.New(parsedURLCacheExpiration, parsedURLCacheCleanup),
	}
}

// Forward relays inbound to the endpoint's rpc_http URL and returns the upstream response.
//
// Method, body and end-to-end headers are forwarded verbatim; the query string of inbound is dropped
// since the path is fixed to rpc_http. Publishing the body never fails the relay.
func (r *HTTPRelay) Forward(ctx context.Context, endpointID endpoint.ID, inbound *http.Request) (*Response, error) {
	e, err := r.resolver.resolve(ctx, endpointID)
	if err != nil {
		metrics.HTTPRelayFailed(string(endpointID), resultLabel(err))
		return nil, err
	}

	target, err := r.parseURL(e.RPCHTTP)
	if err != nil {
		metrics.HTTPRelayFailed(string(endpointID), resultLabel(err))
		return nil, err
	}

	outbound, err := http.NewRequestWithContext(ctx, inbound.Method, target.String(), inbound.Body)
	if err != nil {
		return nil, fmt.Errorf("Forward: build upstream request: %w", err)
	}
	outbound.Header = forwardHeaders(inbound.Header)
	outbound.ContentLength = inbound.ContentLength

	logger := r.logger.With("endpoint_id", string(endpointID))

	if err := r.limiter.acquire(ctx); err != nil {
		metrics.HTTPRelayFailed(string(endpointID), resultLabel(err))
		return nil, fmt.Errorf("Forward: wait for relay slot: %w", err)
	}
	defer r.limiter.release()

	startedAt := time.Now()

	resp, err := r.httpClient.Do(outbound)
	if err != nil {
		metrics.HTTPRelayFailed(string(endpointID), resultLabel(ErrUpstreamUnreachable))
		logger.Info().Err(err).Msg("upstream request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := r.bufferPool.readAll(resp.Body)
	if err != nil {
		if !errors.Is(err, ErrResponseTooLarge) {
			err = fmt.Errorf("%w: read response: %v", ErrUpstreamUnreachable, err)
		}
		metrics.HTTPRelayFailed(string(endpointID), resultLabel(err))
		logger.Info().Err(err).Msg("failed to read upstream response")
		return nil, err
	}

	metrics.HTTPRelayCompleted(string(endpointID), time.Since(startedAt), len(body))
	logger.Debug().
		Int("status_code", resp.StatusCode).
		Str("response_preview", log.Preview(string(body))).
		Msg("relayed HTTP request")

	r.publisher.Publish(endpointID, body)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     forwardHeaders(resp.Header),
		Body:       body,
	}, nil
}

func (r *HTTPRelay) parseURL(rawURL string) (*url.URL, error) {
	if cached, ok := r.parsedURLs.Get(rawURL); ok {
		return cached.(*url.URL), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rpc_http %q: %v", ErrUpstreamUnreachable, rawURL, err)
	}

	r.parsedURLs.Set(rawURL, u, cache.DefaultExpiration)
	return u, nil
}

// forwardHeaders copies h without hop-by-hop headers, including any named in its Connection header.
func forwardHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		return http.Header{}
	}

	for _, connectionHeader := range h.Values("Connection") {
		for _, name := range strings.Split(connectionHeader, ",") {
			if name = textproto.TrimString(name); name != "" {
				out.Del(name)
			}
		}
	}
	for _, name := range hopByHopHeaders {
		out.Del(name)
	}
	return out
}

// resultLabel classifies err for the relay metrics.
func resultLabel(err error) string {
	switch {
	case errors.Is(err, endpoint.ErrEndpointNotFound):
		return "not_found"
	case errors.Is(err, endpoint.ErrEndpointDisabled):
		return "disabled"
	case errors.Is(err, ErrUnsupportedTransport):
		return "unsupported_transport"
	case errors.Is(err, ErrResponseTooLarge):
		return "response_too_large"
	case errors.Is(err, ErrUpstreamUnreachable):
		return "upstream_unreachable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
