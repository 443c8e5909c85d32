package authorizer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nathanyu/payment-transfer/internal/telemetry"
)

// Client consults the external authorization oracle. Any non-200 answer,
// timeout, or transport failure counts as a denial; there are no retries.
type Client struct {
	endpoint string
	http     *http.Client
}

func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Authorize reports whether the oracle allows the transfer to proceed.
func (c *Client) Authorize(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		telemetry.AuthorizationsTotal.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "failed to build authorization request", "error", err)
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.AuthorizationsTotal.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "authorization service unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		telemetry.AuthorizationsTotal.WithLabelValues("denied").Inc()
		return false
	}

	telemetry.AuthorizationsTotal.WithLabelValues("allowed").Inc()
	return true
}
