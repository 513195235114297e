package search

import "context"

// Searcher 定义通用的新闻搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	Days       int // 检索最近 N 天，0 表示默认过去 1 天
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Snippet       string
	Source        string
	PublishedDate string
}
