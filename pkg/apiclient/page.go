package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/go-faster/errors"
)

// Page is the one list shape callers see, whether or not the backend
// paginated the response.
type Page[T any] struct {
	Results  []T     `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
}

// DecodePage accepts a paginated envelope or a bare JSON array.
func DecodePage[T any](raw []byte) (Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page[T]{Results: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, errors.Wrap(err, "decode list")
		}
		return Page[T]{Results: items, Count: len(items)}, nil
	}

	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return Page[T]{}, errors.Wrap(err, "decode page")
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	if page.Count < len(page.Results) {
		page.Count = len(page.Results)
	}
	return page, nil
}

func List[T any](ctx context.Context, c *Client, path string, query url.Values) (Page[T], error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, query, &raw); err != nil {
		return Page[T]{}, err
	}
	return DecodePage[T](raw)
}
