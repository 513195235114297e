package collector

import (
	"context"
	"testing"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

// mockSearcher 模拟搜索客户端，按关键词返回固定结果
type mockSearcher struct {
	results map[string][]search.Result
	queries []string
	err     error
}

func (m *mockSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	m.queries = append(m.queries, req.Query)
	if m.err != nil {
		return nil, m.err
	}
	return &search.Response{Results: m.results[req.Query]}, nil
}

func testConfig(rawCount int, keywords ...string) *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			RawCount: rawCount,
		},
		Keywords:      keywords,
		BlockKeywords: []string{"政治", "赌博"},
	}
}

func TestCollect_DedupeByLink(t *testing.T) {
	searcher := &mockSearcher{results: map[string][]search.Result{
		"openai": {
			{Title: "新闻A", URL: "https://example.com/a", Snippet: "AI新闻"},
			{Title: "新闻A重复", URL: "https://example.com/a", Snippet: "AI新闻"},
		},
		"deepseek": {
			{Title: "新闻A再现", URL: "https://example.com/a", Snippet: "AI新闻"},
			{Title: "新闻B", URL: "https://example.com/b", Snippet: "AI新闻"},
		},
	}}

	c := New(testConfig(10, "openai", "deepseek"), searcher)
	candidates := c.Collect(context.Background())

	if len(candidates) != 2 {
		t.Fatalf("Collect() len = %d, want 2: %+v", len(candidates), candidates)
	}
	if candidates[0].Link != "https://example.com/a" || candidates[1].Link != "https://example.com/b" {
		t.Errorf("Collect() 去重结果错误: %+v", candidates)
	}
}

func TestCollect_BlockKeywords(t *testing.T) {
	searcher := &mockSearcher{results: map[string][]search.Result{
		"openai": {
			{Title: "AI新进展", URL: "https://example.com/ok", Snippet: "大模型发布"},
			{Title: "某政治事件", URL: "https://example.com/blocked", Snippet: "无关内容"},
			{Title: "正常标题", URL: "https://example.com/blocked2", Snippet: "涉及赌博的内容"},
		},
	}}

	c := New(testConfig(10, "openai"), searcher)
	candidates := c.Collect(context.Background())

	if len(candidates) != 1 {
		t.Fatalf("Collect() len = %d, want 1: %+v", len(candidates), candidates)
	}
	if candidates[0].Link != "https://example.com/ok" {
		t.Errorf("Collect() 屏蔽过滤错误: %+v", candidates)
	}
}

func TestCollect_StopsAtRawCount(t *testing.T) {
	searcher := &mockSearcher{results: map[string][]search.Result{
		"a": {
			{Title: "1", URL: "https://example.com/1", Snippet: "x"},
			{Title: "2", URL: "https://example.com/2", Snippet: "x"},
			{Title: "3", URL: "https://example.com/3", Snippet: "x"},
		},
		"b": {
			{Title: "4", URL: "https://example.com/4", Snippet: "x"},
		},
	}}

	c := New(testConfig(2, "a", "b"), searcher)
	candidates := c.Collect(context.Background())

	if len(candidates) != 2 {
		t.Errorf("Collect() len = %d, want 2", len(candidates))
	}
	// 凑满预算后不应再发起后续查询
	if len(searcher.queries) != 1 {
		t.Errorf("Collect() 查询次数 = %d, want 1: %v", len(searcher.queries), searcher.queries)
	}
}

func TestCollect_InvalidLinks(t *testing.T) {
	searcher := &mockSearcher{results: map[string][]search.Result{
		"openai": {
			{Title: "合法", URL: "https://example.com/ok", Snippet: "x"},
			{Title: "非法协议", URL: "ftp://example.com/bad", Snippet: "x"},
			{Title: "未知顶级域", URL: "https://example.internal/bad", Snippet: "x"},
			{Title: "空链接", URL: "", Snippet: "x"},
		},
	}}

	c := New(testConfig(10, "openai"), searcher)
	candidates := c.Collect(context.Background())

	if len(candidates) != 1 {
		t.Fatalf("Collect() len = %d, want 1: %+v", len(candidates), candidates)
	}
}

func TestCollect_SourceFromHost(t *testing.T) {
	searcher := &mockSearcher{results: map[string][]search.Result{
		"openai": {
			{Title: "无来源", URL: "https://news.example.com/x", Snippet: "x"},
		},
	}}

	c := New(testConfig(10, "openai"), searcher)
	candidates := c.Collect(context.Background())

	if len(candidates) != 1 || candidates[0].Source != "news.example.com" {
		t.Errorf("Collect() 来源提取错误: %+v", candidates)
	}
}
