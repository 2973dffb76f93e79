// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://wikidata.org/w/api.php"

// the wbgetentities API caps unauthenticated requests at 50 ids
const chunkSize = 49

// Client queries the wikidata API for entity redirects.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a wikidata API client. An empty endpoint selects
// the public API.
func NewClient(endpoint, userAgent string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &Client{
		endpoint:  endpoint,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type entitiesResponse struct {
	Entities map[string]struct {
		ID        string `json:"id"`
		Redirects *struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"redirects,omitempty"`
	} `json:"entities"`
}

// CheckRedirects looks up the given entity ids in batches. It returns
// a map from old id to new id for every entity that is a redirect, and
// the ids that resolved to live (non-redirect) entities. A failed
// batch aborts the whole call; the batch is small and re-runnable.
func (c *Client) CheckRedirects(ctx context.Context, qIDs []string) (redirects map[string]string, live []string, err error) {
	redirects = map[string]string{}

	for start := 0; start < len(qIDs); start += chunkSize {
		end := min(start+chunkSize, len(qIDs))

		chunkRedirects, chunkLive, err := c.fetchChunk(ctx, qIDs[start:end])
		if err != nil {
			return nil, nil, fmt.Errorf("checking redirects for batch starting at %d: %w", start, err)
		}

		for from, to := range chunkRedirects {
			redirects[from] = to
		}

		live = append(live, chunkLive...)
	}

	return redirects, live, nil
}

func (c *Client) fetchChunk(ctx context.Context, qIDs []string) (map[string]string, []string, error) {
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("format", "json")
	params.Set("props", "info")
	params.Set("ids", strings.Join(qIDs, "|"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("wikidata returned status %d", resp.StatusCode)
	}

	var parsed entitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil, fmt.Errorf("decoding response: %w", err)
	}

	redirects := map[string]string{}

	var live []string

	for _, entity := range parsed.Entities {
		if entity.Redirects != nil {
			redirects[entity.Redirects.From] = entity.Redirects.To
		} else {
			live = append(live, entity.ID)
		}
	}

	return redirects, live, nil
}
