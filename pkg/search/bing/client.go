package bing

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

const defaultBaseURL = "https://api.bing.microsoft.com/v7.0/news/search"

// Bing News Search API 单次最多返回 50 条
const maxPerRequest = 50

// Client Bing News Search API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Bing 搜索客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// searchResponse Bing News 响应
type searchResponse struct {
	Value []newsItem `json:"value"`
}

type newsItem struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Provider    []struct {
		Name string `json:"name"`
	} `json:"provider"`
	DatePublished string `json:"datePublished"`
}

// Search 实现 search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	days := req.Days
	if days <= 0 {
		days = 1
	}
	count := req.MaxResults
	if count <= 0 || count > maxPerRequest {
		count = maxPerRequest
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("count", fmt.Sprintf("%d", count))
	q.Set("freshness", fmt.Sprintf("Day-%d", days))
	q.Set("textFormat", "Raw")

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("bing api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	var results []search.Result
	for _, item := range searchResp.Value {
		var source string
		if len(item.Provider) > 0 {
			source = item.Provider[0].Name
		}

		results = append(results, search.Result{
			Title:         item.Name,
			URL:           item.URL,
			Snippet:       item.Description,
			Source:        source,
			PublishedDate: item.DatePublished,
		})
	}

	return &search.Response{Results: results}, nil
}
