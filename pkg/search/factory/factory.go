package factory

import (
	"fmt"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	"github.com/iWorld-y/ai_news_agent/pkg/search"
	"github.com/iWorld-y/ai_news_agent/pkg/search/bing"
	"github.com/iWorld-y/ai_news_agent/pkg/search/google"
	"github.com/iWorld-y/ai_news_agent/pkg/search/serper"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg config.SearchConfig) (search.Searcher, error) {
	switch cfg.APIType {
	case "google":
		if cfg.APIKey == "" || cfg.EngineID == "" {
			return nil, fmt.Errorf("google search api key or engine id is missing")
		}
		return google.NewClient(cfg.APIKey, cfg.EngineID), nil

	case "bing":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("bing search api key is missing")
		}
		return bing.NewClient(cfg.APIKey), nil

	case "serper":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("serper api key is missing")
		}
		return serper.NewClient(cfg.APIKey), nil

	default:
		return nil, fmt.Errorf("unknown search api type: %s", cfg.APIType)
	}
}
