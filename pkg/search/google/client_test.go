package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

const sampleResponse = `{
	"items": [
		{
			"title": "AI 新闻标题",
			"link": "https://example.com/news/1",
			"snippet": "新闻摘要内容",
			"displayLink": "example.com",
			"pagemap": {
				"metatags": [{"article:published_time": "2026-08-25T09:00:00Z"}]
			}
		},
		{
			"title": "无元数据的新闻",
			"link": "https://news.example.com/2",
			"snippet": "另一条摘要",
			"displayLink": ""
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	c := NewClient("test-key", "test-cx")
	c.baseURL = server.URL

	resp, err := c.Search(context.Background(), &search.Request{Query: "deepseek", MaxResults: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got := gotQuery["q"][0]; got != "deepseek news" {
		t.Errorf("查询词 = %q, want %q", got, "deepseek news")
	}
	if got := gotQuery["dateRestrict"][0]; got != "d1" {
		t.Errorf("dateRestrict = %q, want d1", got)
	}
	if got := gotQuery["num"][0]; got != "5" {
		t.Errorf("num = %q, want 5", got)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("结果数 = %d, want 2", len(resp.Results))
	}
	first := resp.Results[0]
	if first.Title != "AI 新闻标题" || first.URL != "https://example.com/news/1" {
		t.Errorf("第一条结果错误: %+v", first)
	}
	if first.Source != "example.com" {
		t.Errorf("Source = %q, want example.com", first.Source)
	}
	if first.PublishedDate != "2026-08-25T09:00:00Z" {
		t.Errorf("PublishedDate = %q", first.PublishedDate)
	}
	// displayLink 为空时应回退到链接主机名
	if resp.Results[1].Source != "news.example.com" {
		t.Errorf("Source 回退错误: %q", resp.Results[1].Source)
	}
}

func TestSearch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	c := NewClient("test-key", "test-cx")
	c.baseURL = server.URL

	if _, err := c.Search(context.Background(), &search.Request{Query: "deepseek"}); err == nil {
		t.Error("Search() 非 200 响应时应返回错误")
	}
}
