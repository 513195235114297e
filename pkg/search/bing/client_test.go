package bing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

const sampleResponse = `{
	"value": [
		{
			"name": "必应新闻标题",
			"url": "https://example.com/bing/1",
			"description": "新闻描述",
			"provider": [{"name": "示例媒体"}],
			"datePublished": "2026-08-25T08:00:00Z"
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotKey, gotFreshness string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotFreshness = r.URL.Query().Get("freshness")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	c := NewClient("bing-key")
	c.baseURL = server.URL

	resp, err := c.Search(context.Background(), &search.Request{Query: "AI芯片", MaxResults: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotKey != "bing-key" {
		t.Errorf("订阅 key = %q", gotKey)
	}
	if gotFreshness != "Day-1" {
		t.Errorf("freshness = %q, want Day-1", gotFreshness)
	}

	if len(resp.Results) != 1 {
		t.Fatalf("结果数 = %d, want 1", len(resp.Results))
	}
	got := resp.Results[0]
	if got.Title != "必应新闻标题" || got.Source != "示例媒体" || got.PublishedDate != "2026-08-25T08:00:00Z" {
		t.Errorf("结果映射错误: %+v", got)
	}
}
