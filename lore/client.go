package lore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches lore from a Handler over HTTP. It works unchanged in the
// browser, where net/http rides on fetch.
type Client struct {
	base string
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a client for the server at base, e.g. "http://localhost:8080".
func NewClient(base string, hc *http.Client, logger *slog.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: hc,
		log:  logger,
	}
}

// Lore implements Source. Any transport or decoding failure yields Fallback.
func (c *Client) Lore(ctx context.Context, req Request) Lore {
	l, err := c.fetch(ctx, req.ID)
	if err != nil {
		c.log.Error("lore fetch failed", "building", req.ID, "error", err)
		return Fallback(req, err)
	}
	return l
}

func (c *Client) fetch(ctx context.Context, id string) (Lore, error) {
	u := c.base + "/api/lore?id=" + url.QueryEscape(id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Lore{}, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Lore{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Lore{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Lore{}, fmt.Errorf("lore endpoint returned %s", resp.Status)
	}

	var l Lore
	if err := json.Unmarshal(body, &l); err != nil {
		return Lore{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := l.validate(); err != nil {
		return Lore{}, err
	}
	return l, nil
}
