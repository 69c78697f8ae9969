// Package publish is the write-path side of the fan-out contract: after
// a durable insert succeeds, the owning handler posts the serialized
// row to the room responsible for its topic key. Delivery is
// best-effort; the row is already stored, so gateway unavailability is
// never fatal to the write.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/picfeed/realtime/internal/domain"
)

type Client struct {
	base string
	http *http.Client
}

// NewClient builds a publisher against the gateway base URL. timeout
// bounds the whole publish call; keep it short, the caller is inside a
// user-facing request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Publish posts payload to Room(kind, key). A non-200 status is an
// error so callers can log it, but it carries no rollback obligation.
func (c *Client) Publish(ctx context.Context, kind domain.Kind, key domain.TopicKey, payload []byte) error {
	url := fmt.Sprintf("%s/rooms/%s/%s/broadcast", c.base, kind, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("publish %s/%s: %w", kind, key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish %s/%s: unexpected status %d", kind, key, resp.StatusCode)
	}
	return nil
}

// TryPublish is Publish with the failure policy applied: log and move
// on.
func (c *Client) TryPublish(ctx context.Context, kind domain.Kind, key domain.TopicKey, payload []byte) {
	if err := c.Publish(ctx, kind, key, payload); err != nil {
		log.Warn().Err(err).Str("module", "publish").Str("kind", string(kind)).Str("key", string(key)).Msg("realtime publish failed, message remains stored")
	}
}
