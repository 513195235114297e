package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Google Custom Search API 单次最多返回 10 条
const maxPerRequest = 10

// Client Google Custom Search API 客户端
type Client struct {
	apiKey  string
	cx      string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Google 搜索客户端
func NewClient(apiKey, cx string) *Client {
	return &Client{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// searchResponse Google CSE 响应
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
	Pagemap     struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

// 常见的发布时间 meta 标签，按优先级排列
var dateMetaTags = []string{"article:published_time", "date", "og:published_time", "datePublished"}

// Search 实现 search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	days := req.Days
	if days <= 0 {
		days = 1
	}
	num := req.MaxResults
	if num <= 0 || num > maxPerRequest {
		num = maxPerRequest
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.cx)
	// 追加 news 关键词使结果偏向新闻
	q.Set("q", req.Query+" news")
	q.Set("dateRestrict", fmt.Sprintf("d%d", days))
	q.Set("num", fmt.Sprintf("%d", num))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("google api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	var results []search.Result
	for _, item := range searchResp.Items {
		source := item.DisplayLink
		if source == "" {
			if u, err := url.Parse(item.Link); err == nil {
				source = u.Hostname()
			}
		}

		// 尝试从 meta 标签提取发布时间
		var pubDate string
		if len(item.Pagemap.Metatags) > 0 {
			meta := item.Pagemap.Metatags[0]
			for _, tag := range dateMetaTags {
				if v, ok := meta[tag]; ok && v != "" {
					pubDate = v
					break
				}
			}
		}

		results = append(results, search.Result{
			Title:         item.Title,
			URL:           item.Link,
			Snippet:       item.Snippet,
			Source:        source,
			PublishedDate: pubDate,
		})
	}

	return &search.Response{Results: results}, nil
}
