package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

const sampleResponse = `{
	"news": [
		{"title": "新闻结果", "link": "https://example.com/n1", "snippet": "新闻摘要", "source": "示例新闻", "date": "1 hour ago"}
	],
	"organic": [
		{"title": "普通结果", "link": "https://example.com/o1", "snippet": "普通摘要"}
	]
}`

func TestSearch(t *testing.T) {
	var gotReq searchRequest
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	c := NewClient("serper-key")
	c.baseURL = server.URL

	resp, err := c.Search(context.Background(), &search.Request{Query: "大语言模型", Days: 2, MaxResults: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotKey != "serper-key" {
		t.Errorf("X-API-KEY = %q", gotKey)
	}
	if gotReq.Q != "大语言模型 news" {
		t.Errorf("查询词 = %q", gotReq.Q)
	}
	if gotReq.TBS != "qdr:d2" {
		t.Errorf("tbs = %q, want qdr:d2", gotReq.TBS)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("结果数 = %d, want 2", len(resp.Results))
	}
	// 新闻结果排在普通结果之前
	if resp.Results[0].Title != "新闻结果" || resp.Results[0].Source != "示例新闻" {
		t.Errorf("第一条结果错误: %+v", resp.Results[0])
	}
	// 无来源时回退到链接主机名
	if resp.Results[1].Source != "example.com" {
		t.Errorf("Source 回退错误: %q", resp.Results[1].Source)
	}
}

func TestSearch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Unauthorized"}`))
	}))
	defer server.Close()

	c := NewClient("bad-key")
	c.baseURL = server.URL

	if _, err := c.Search(context.Background(), &search.Request{Query: "ai"}); err == nil {
		t.Error("Search() 非 200 响应时应返回错误")
	}
}
