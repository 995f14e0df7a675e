package openlibrary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// CoverURL builds the public covers-service URL for a cover ID, suitable for
// handing to clients that fetch the image themselves.
func (c *Client) CoverURL(coverID int64, size CoverSize) string {
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", c.coversBaseURL, coverID, size)
}

// FetchCover downloads a cover image from the covers service.
// The mime type is taken from the response Content-Type, defaulting to
// image/jpeg when the server omits it.
func (c *Client) FetchCover(ctx context.Context, coverID int64, size CoverSize) (*CoverImage, error) {
	key := strconv.FormatInt(coverID, 10)

	if err := c.limiter.Wait(ctx, coversHostKey); err != nil {
		return nil, wrapError("fetchCover", key, fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CoverURL(coverID, size), nil)
	if err != nil {
		return nil, wrapError("fetchCover", key, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", "Shelfmark/1.0")

	c.logger.Debug("openlibrary cover fetch", "cover_id", coverID, "size", size)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError("fetchCover", key, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, wrapError("fetchCover", key, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, wrapError("fetchCover", key, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError("fetchCover", key, fmt.Errorf("read response: %w", err))
	}
	if len(body) == 0 {
		return nil, wrapError("fetchCover", key, ErrNotFound)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/jpeg"
	}

	return &CoverImage{Bytes: body, MimeType: mime}, nil
}
