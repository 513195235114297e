package collector

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/gg/gson"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	"github.com/iWorld-y/ai_news_agent/pkg/logger"
	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
	"github.com/iWorld-y/ai_news_agent/pkg/search"
)

// 常见的有效顶级域名，命中之外的链接视为无效
var validDomains = []string{
	".com", ".cn", ".org", ".net", ".edu", ".gov", ".io",
	".ai", ".tech", ".news", ".info", ".co", ".me",
}

// 抓取正文时的截断与触发阈值
const (
	minSnippetLen = 500
	maxContentLen = 5000
)

// Collector 负责拉取并清洗候选新闻
type Collector struct {
	cfg        *config.Config
	searcher   search.Searcher
	headClient *http.Client // 用于 VALIDATE_URLS 的 HEAD 探测
}

// New 创建采集器
func New(cfg *config.Config, searcher search.Searcher) *Collector {
	return &Collector{
		cfg:        cfg,
		searcher:   searcher,
		headClient: &http.Client{Timeout: 3 * time.Second},
	}
}

// Collect 依次用关键词发起搜索，按链接去重，直到凑满 RAW_SEARCH_COUNT 或关键词耗尽。
// 单条查询失败只记日志并跳过，允许降级返回更少的候选。
func (c *Collector) Collect(ctx context.Context) []dm.Candidate {
	var candidates []dm.Candidate
	seen := make(map[string]bool)

	for _, keyword := range c.cfg.Keywords {
		remaining := c.cfg.Search.RawCount - len(candidates)
		if remaining <= 0 {
			break
		}

		req := &search.Request{
			Query:      keyword,
			Days:       1,
			MaxResults: remaining,
		}

		resp, err := c.searcher.Search(ctx, req)
		if err != nil {
			logger.Log.Errorf("搜索关键词失败 [%s]: %v", keyword, err)
			continue
		}
		logger.Log.Debugf("搜索关键词 [%s] 返回 %d 条: %s", keyword, len(resp.Results), gson.ToString(resp))

		for _, item := range resp.Results {
			if len(candidates) >= c.cfg.Search.RawCount {
				break
			}
			if item.URL == "" || seen[item.URL] {
				continue
			}
			seen[item.URL] = true

			if !c.validateLink(ctx, item.URL) {
				logger.Log.Debugf("丢弃无效链接: %s", item.URL)
				continue
			}
			if c.blocked(item.Title, item.Snippet) {
				logger.Log.Infof("命中屏蔽关键词，丢弃: %s", item.Title)
				continue
			}

			source := item.Source
			if source == "" {
				if u, err := url.Parse(item.URL); err == nil {
					source = u.Hostname()
				}
			}

			candidates = append(candidates, dm.Candidate{
				Title:   item.Title,
				Link:    item.URL,
				Source:  source,
				PubDate: item.PublishedDate,
				Snippet: item.Snippet,
			})
		}
	}

	if c.cfg.Search.FetchContent {
		c.enrichContent(candidates)
	}

	logger.Log.Infof("采集完成，共 %d 条候选新闻", len(candidates))
	return candidates
}

// enrichContent 对摘要过短的候选抓取正文，供 LLM 分析使用
func (c *Collector) enrichContent(candidates []dm.Candidate) {
	for i := range candidates {
		if len(candidates[i].Snippet) >= minSnippetLen {
			continue
		}
		content, err := fetchAndCleanContent(candidates[i].Link)
		if err != nil {
			logger.Log.Warnf("原文抓取失败，使用搜索摘要 [%s]: %v", candidates[i].Title, err)
			continue
		}
		if len(content) > maxContentLen {
			content = content[:maxContentLen]
		}
		if len(content) > len(candidates[i].Snippet) {
			candidates[i].Content = content
		}
	}
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(link string) (string, error) {
	article, err := readability.FromURL(link, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// blocked 标题或摘要包含屏蔽关键词
func (c *Collector) blocked(title, snippet string) bool {
	content := strings.ToLower(title + " " + snippet)
	for _, keyword := range c.cfg.BlockKeywords {
		if strings.Contains(content, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// validateLink 验证链接格式；开启 VALIDATE_URLS 时额外发送 HEAD 请求确认可访问
func (c *Collector) validateLink(ctx context.Context, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return false
	}

	host := u.Hostname()
	hasValidDomain := false
	for _, domain := range validDomains {
		if strings.HasSuffix(host, domain) {
			hasValidDomain = true
			break
		}
	}
	if !hasValidDomain {
		return false
	}

	if c.cfg.Search.ValidateURLs {
		req, err := http.NewRequestWithContext(ctx, "HEAD", link, nil)
		if err != nil {
			return false
		}
		res, err := c.headClient.Do(req)
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode < 400
	}

	return true
}
