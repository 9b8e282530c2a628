package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
	"github.com/secmon-lab/segmentor/pkg/utils/safe"
)

const (
	// DefaultEndpoint is the segment collection endpoint used when none is configured
	DefaultEndpoint = "https://webhook.site/8407f37a-d223-4a40-9046-6f280e7d140a"
	// DefaultTimeout bounds a single POST
	DefaultTimeout = 10 * time.Second

	// maxLoggedBody caps how much of the response body is logged
	maxLoggedBody = 4 * 1024
)

// client posts segments as JSON to a fixed endpoint
type client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

var _ interfaces.SegmentSender = (*client)(nil)

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeout sets the timeout of a single request
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a SegmentSender for endpoint
func New(endpoint string, opts ...Option) (interfaces.SegmentSender, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid webhook endpoint", goerr.V("endpoint", endpoint))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, goerr.New("webhook endpoint must be an absolute http(s) URL", goerr.V("endpoint", endpoint))
	}

	c := &client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Send posts payload once. Transport errors, timeouts and non-2xx responses
// are all returned as an error; there is no retry.
func (c *client) Send(ctx context.Context, payload *model.SegmentPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal segment payload")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to build segment request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to post segment",
			goerr.V("segment_name", payload.SegmentName))
	}
	defer safe.Close(ctx, resp.Body)

	respBody := safe.ReadLimited(ctx, resp.Body, maxLoggedBody)
	logging.From(ctx).Info("Segment endpoint responded",
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"body", string(respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("segment endpoint returned non-2xx status",
			goerr.V("status", resp.StatusCode),
			goerr.V("segment_name", payload.SegmentName))
	}

	return nil
}
