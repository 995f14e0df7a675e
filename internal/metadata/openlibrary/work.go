package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
)

// GetWorkDetail fetches the publish-date fields of a work.
// workKey is the full provider path, e.g. "/works/OL45883W".
func (c *Client) GetWorkDetail(ctx context.Context, workKey string) (*WorkDetail, error) {
	body, err := c.doRequest(ctx, workKey+".json", nil)
	if err != nil {
		return nil, wrapError("getWorkDetail", workKey, err)
	}

	var raw rawWork
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("getWorkDetail", workKey, fmt.Errorf("parse response: %w", err))
	}

	return &WorkDetail{
		FirstPublishYear:     raw.FirstPublishYear,
		FirstPublishDateText: raw.FirstPublishDate,
	}, nil
}

// GetFirstEdition fetches a work's first listed edition. Returns nil without
// error when the work has no editions.
func (c *Client) GetFirstEdition(ctx context.Context, workKey string) (*Edition, error) {
	query := url.Values{}
	query.Set("limit", "1")

	body, err := c.doRequest(ctx, workKey+"/editions.json", query)
	if err != nil {
		return nil, wrapError("getFirstEdition", workKey, err)
	}

	var raw rawEditions
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("getFirstEdition", workKey, fmt.Errorf("parse response: %w", err))
	}

	if len(raw.Entries) == 0 {
		return nil, nil
	}
	return &Edition{PublishDateText: raw.Entries[0].PublishDate}, nil
}
