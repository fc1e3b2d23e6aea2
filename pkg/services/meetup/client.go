package meetup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultPageSize = 200

// Group is one chapter-program group as returned by the group service.
// Join dates are milliseconds since the epoch.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	MemberCount int    `json:"member_count"`
	ProJoinDate int64  `json:"pro_join_date"`
}

// JoinedAt returns the group's chapter join time.
func (g Group) JoinedAt() time.Time {
	return time.Unix(g.ProJoinDate/1000, 0).UTC()
}

// Client fetches chapter groups from the group service. It exhausts
// pagination and backs off when the service signals it is near its rate
// limit, so a single call returns the complete, deduplicated collection or
// an error.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *http.Client
	sleep    func(time.Duration)
}

type groupsPage struct {
	Results []Group `json:"results"`
	Meta    struct {
		Next string `json:"next"`
	} `json:"meta"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: defaultPageSize,
		http:     &http.Client{Timeout: 60 * time.Second},
		sleep:    time.Sleep,
	}
}

// Groups returns every chapter group matching filters.
func (c *Client) Groups(ctx context.Context, filters url.Values) ([]Group, error) {
	logger := zerolog.Ctx(ctx)

	query := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("page", strconv.Itoa(c.pageSize))
	query.Set("key", c.apiKey)
	query.Set("sign", "true")

	next := fmt.Sprintf("%s/pro/groups?%s", c.baseURL, query.Encode())

	seen := make(map[int64]bool)
	var groups []Group

	for next != "" {
		page, throttle, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}

		for _, g := range page.Results {
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			groups = append(groups, g)
		}

		next = page.Meta.Next
		if next != "" && throttle > 0 {
			logger.Debug().Dur("wait", throttle).Msg("throttling group fetch")
			c.sleep(throttle)
		}
	}

	return groups, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*groupsPage, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build group request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch groups: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("group service returned status %d", resp.StatusCode)
	}

	var page groupsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, 0, fmt.Errorf("decode group response: %w", err)
	}

	return &page, throttleWait(resp.Header), nil
}

// throttleWait derives a pause from the service's rate-limit headers: when
// fewer than half the window's requests remain, wait a proportional share
// of the reset period.
func throttleWait(h http.Header) time.Duration {
	remaining, err1 := strconv.Atoi(h.Get("X-RateLimit-Remaining"))
	limit, err2 := strconv.Atoi(h.Get("X-RateLimit-Limit"))
	reset, err3 := strconv.Atoi(h.Get("X-RateLimit-Reset"))
	if err1 != nil || err2 != nil || err3 != nil || limit == 0 {
		return 0
	}
	if remaining > limit/2 {
		return 0
	}
	if remaining == 0 {
		return time.Duration(reset) * time.Second
	}
	return time.Duration(reset) * time.Second / time.Duration(remaining)
}
