package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// walkPages requests path page by page, starting at page 1, and accumulates every item.
// The walk ends at the first page that is empty or not a JSON list.
// Pages are fetched sequentially; any failure discards what was collected so far.
func walkPages[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	if query.Get("per_page") == "" {
		query.Set("per_page", strconv.Itoa(c.pageSize))
	}

	var all []T
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))

		var raw json.RawMessage
		if err := c.doRequest(ctx, path, query, &raw); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		items, ok, err := decodePage[T](raw)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if !ok || len(items) == 0 {
			return all, nil
		}

		all = append(all, items...)
	}
}

// decodePage decodes raw as a list of T. ok is false when raw is not a list.
func decodePage[T any](raw json.RawMessage) (items []T, ok bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false, nil
	}

	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, true, fmt.Errorf("failed to decode page: %w", err)
	}
	return items, true, nil
}
