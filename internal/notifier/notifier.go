package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/nathanyu/payment-transfer/internal/telemetry"
)

// Client posts transfer notifications to the external sink. Delivery is
// best-effort: the orchestrator logs and swallows any error returned here.
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

type notifyPayload struct {
	TransferID string `json:"transfer_id"`
}

// Notify delivers a single notification for the given transfer.
func (c *Client) Notify(ctx context.Context, transferID uuid.UUID) error {
	body, err := json.Marshal(notifyPayload{TransferID: transferID.String()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.NotificationsTotal.WithLabelValues("failed").Inc()
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		telemetry.NotificationsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("notification sink returned status %d", resp.StatusCode)
	}

	telemetry.NotificationsTotal.WithLabelValues("sent").Inc()
	return nil
}
