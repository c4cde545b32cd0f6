package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPPusher delivers payloads by POSTing them to a connection-management
// endpoint, one URL path segment per connection ID. A 410 response marks the
// connection as gone for good; any other non-2xx status or network failure
// is a transient delivery error.
type HTTPPusher struct {
	client   *http.Client
	endpoint string
}

var _ Pusher = (*HTTPPusher)(nil)

// NewHTTPPusher creates an [HTTPPusher] posting to endpoint. A nil client
// falls back to [http.DefaultClient]; deadlines come from the Push ctx.
func NewHTTPPusher(endpoint string, client *http.Client) *HTTPPusher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPusher{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

// Push posts the payload to endpoint/<connectionID>.
func (p *HTTPPusher) Push(ctx context.Context, connectionID string, payload []byte) error {
	target := p.endpoint + "/" + url.PathEscape(connectionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusGone:
		return ErrConnectionGone
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
}
