package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Search queries the catalog for a free-text term and returns up to limit
// projected documents in the provider's relevance order.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]SearchDoc, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	query := url.Values{}
	query.Set("q", term)
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/search.json", query)
	if err != nil {
		return nil, wrapError("search", term, err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", term, fmt.Errorf("parse response: %w", err))
	}

	docs := resp.Docs
	if len(docs) > limit {
		docs = docs[:limit]
	}

	results := make([]SearchDoc, 0, len(docs))
	for i := range docs {
		d := &docs[i]

		var author string
		if len(d.AuthorName) > 0 {
			author = d.AuthorName[0]
		}

		results = append(results, SearchDoc{
			WorkKey:     d.Key,
			Title:       d.Title,
			Author:      author,
			PublishYear: d.FirstPublishYear,
			CoverID:     d.CoverI,
		})
	}

	return results, nil
}
