package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/config"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/metrics"
)

var (
	errBaseURLRequired = errors.New("upstream base url is required")
	errLoggerRequired  = errors.New("upstream logger is required")
)

// maxErrorBodyBytes caps how much of a failed response is kept for logging.
const maxErrorBodyBytes = 2 << 10

// Client wraps the commerce backend REST API with centralized auth
// forwarding, logging, and error mapping.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
	metrics *metrics.UpstreamMetrics
}

// NewClient validates the configuration and builds the upstream client.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logger:  logg,
		metrics: m,
	}, nil
}

// do performs one authenticated JSON round-trip against the upstream API.
// A nil out skips decoding; a malformed JSON body with a 2xx status is
// tolerated by leaving out untouched, never failing the caller.
func (c *Client) do(ctx context.Context, ac auth.Context, method, endpoint, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upstream request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(ac.UpstreamToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveDuration(endpoint, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(endpoint, "transport")
		c.logError(ctx, endpoint, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("upstream %s failed", endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.metrics.IncFailure(endpoint, "unauthorized")
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, c.upstreamError(resp, endpoint), "session expired, please sign in again")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncFailure(endpoint, "status")
		upstream := c.upstreamError(resp, endpoint)
		c.logError(ctx, endpoint, upstream)
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), upstream, fmt.Sprintf("upstream %s failed", endpoint))
	}

	if out == nil {
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(endpoint, "read")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read upstream %s response", endpoint))
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		// Upstream occasionally serves malformed bodies on success paths;
		// the contract is to act as if the body were empty.
		fields := map[string]any{"endpoint": endpoint, "decode_error": err.Error()}
		c.logger.Warn(c.logger.WithFields(ctx, fields), "upstream response not decodable, treating as empty")
	}
	return nil
}

func (c *Client) upstreamError(resp *http.Response, endpoint string) *pkgerrors.UpstreamError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &pkgerrors.UpstreamError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (c *Client) logError(ctx context.Context, endpoint string, err error) {
	if c.logger == nil {
		return
	}
	ctx = c.logger.WithField(ctx, "endpoint", endpoint)
	c.logger.Error(ctx, "upstream request failed", err)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}
