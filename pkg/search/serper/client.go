package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

const defaultBaseURL = "https://google.serper.dev/search"

// Serper API 建议单次不超过 20 条
const maxPerRequest = 20

// Client Serper.dev API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Serper 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// searchRequest Serper 搜索请求参数
type searchRequest struct {
	Q   string `json:"q"`
	GL  string `json:"gl,omitempty"`
	HL  string `json:"hl,omitempty"`
	Num int    `json:"num,omitempty"`
	TBS string `json:"tbs,omitempty"`
}

// searchResponse Serper 搜索响应，新闻结果优先于普通结果
type searchResponse struct {
	News    []searchItem `json:"news"`
	Organic []searchItem `json:"organic"`
}

type searchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

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

	payload, err := json.Marshal(searchRequest{
		Q:   req.Query + " news",
		GL:  "cn",
		HL:  "zh-cn",
		Num: num,
		TBS: fmt.Sprintf("qdr:d%d", days),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("serper api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	items := append(searchResp.News, searchResp.Organic...)
	if len(items) > num {
		items = items[:num]
	}

	var results []search.Result
	for _, item := range items {
		source := item.Source
		if source == "" {
			if u, err := url.Parse(item.Link); err == nil {
				source = u.Hostname()
			}
		}

		results = append(results, search.Result{
			Title:         item.Title,
			URL:           item.Link,
			Snippet:       item.Snippet,
			Source:        source,
			PublishedDate: item.Date,
		})
	}

	return &search.Response{Results: results}, nil
}
