// Package reddit wraps the reddit content API behind the two bounded
// listing calls the indexer needs: newest submissions and newest
// comments for a subreddit.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goreddit "github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"

	"github.com/crushack/Reddit-Indexer/pkg/models"
)

// Client fetches subreddit listings. When credentials are configured it
// uses the authenticated API for submissions; comment listings and the
// credential-less mode go through reddit's public JSON endpoints. One
// token-bucket limiter covers both paths.
type Client struct {
	api        *goreddit.Client // nil without credentials
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// listingResponse is the envelope of reddit's public listing endpoints.
// Submissions carry Title, comments carry Body.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Body       string  `json:"body"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewClient builds a Client. id and secret may be empty, in which case
// every listing goes through the public endpoints at the slower public
// rate limit.
func NewClient(id, secret, userAgent string) (*Client, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("a user agent is required by reddit's API rules")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  userAgent,
		// Public JSON limit: 1 req / 2 seconds
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}

	if id != "" && secret != "" {
		creds := goreddit.Credentials{ID: id, Secret: secret}
		api, err := goreddit.NewClient(creds, goreddit.WithUserAgent(userAgent))
		if err != nil {
			return nil, fmt.Errorf("reddit api client: %w", err)
		}
		c.api = api
		// API rate limit: ~60 reqs/min (safe buffer)
		c.limiter = rate.NewLimiter(rate.Every(1*time.Second), 1)
	}
	return c, nil
}

// NewSubmissions returns up to limit of the newest submissions in sub.
// No sort or gap-free guarantee is made across calls.
func (c *Client) NewSubmissions(ctx context.Context, sub string, limit int) ([]models.Item, error) {
	if c.api == nil {
		return c.publicListing(ctx, sub, "new", limit)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	posts, _, err := c.api.Subreddit.NewPosts(ctx, sub, &goreddit.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list submissions r/%s: %w", sub, err)
	}

	items := make([]models.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, models.Item{
			Subreddit: sub,
			Body:      p.Title,
			Created:   p.Created.Time.Unix(),
		})
	}
	return items, nil
}

// NewComments returns up to limit of the newest comments in sub. The
// subreddit-wide comment feed is only exposed by the public endpoint.
func (c *Client) NewComments(ctx context.Context, sub string, limit int) ([]models.Item, error) {
	return c.publicListing(ctx, sub, "comments", limit)
}

func (c *Client) publicListing(ctx context.Context, sub, feed string, limit int) ([]models.Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://www.reddit.com/r/%s/%s.json?limit=%d", sub, feed, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s r/%s: %w", feed, sub, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s r/%s: status %d", feed, sub, resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode %s listing r/%s: %w", feed, sub, err)
	}

	items := make([]models.Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		body := d.Body
		if body == "" {
			body = d.Title
		}
		items = append(items, models.Item{
			Subreddit: sub,
			Body:      body,
			Created:   int64(d.CreatedUTC),
		})
	}
	return items, nil
}
