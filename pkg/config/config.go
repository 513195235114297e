package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 默认的 AI 相关搜索关键词，可通过 KEYWORDS_FILE 覆盖
var defaultKeywords = []string{
	"openai", "anthropic", "gemini", "nvidia nim", "grok", "ollama", "watson",
	"bedrock", "azure", "cerebras", "sambanova", "deepseek", "qwen", "xAI",
	"文心一言", "豆包", "元宝",
	"人工智能", "机器学习", "深度学习", "生成式ai", "大语言模型", "神经网络",
	"计算机视觉", "自然语言处理", "强化学习", "多模态ai", "ai芯片",
	"量子计算", "自动驾驶",
}

// 默认的屏蔽关键词，命中的新闻直接丢弃
var defaultBlockKeywords = []string{
	"色情", "成人", "裸体", "性", "政治", "政府", "选举", "抗议", "违法", "毒品",
	"赌博", "邪教", "宗教", "恐怖主义", "暴力", "战争",
}

// Config 项目配置结构体
type Config struct {
	LLM           LLMConfig
	Search        SearchConfig
	Filter        FilterConfig
	Report        ReportConfig
	WeChat        WeChatConfig
	Log           LogConfig
	Concurrency   ConcurrencyConfig
	OutputDir     string
	DatabaseURL   string
	Keywords      []string
	BlockKeywords []string
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	APIType      string // google | bing | serper
	APIKey       string
	EngineID     string // 仅 google 需要
	RawCount     int    // 原始候选数量上限
	ValidateURLs bool   // 是否对链接发送 HEAD 请求验证
	FetchContent bool   // 是否抓取正文供 LLM 分析
}

// FilterConfig 评分过滤相关配置
type FilterConfig struct {
	MinScore    int
	MinCount    int
	MaxCount    int
	TargetCount int
}

// ReportConfig 报告渲染相关配置
type ReportConfig struct {
	IncludeSource bool
	IncludeLink   bool
}

// WeChatConfig 企业微信推送相关配置
type WeChatConfig struct {
	Enabled    bool
	WebhookKey string
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level     string
	File      string
	MaxSizeMB int
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int
	RPM int
}

// keywordsFile KEYWORDS_FILE 指向的 YAML 文件结构
type keywordsFile struct {
	Keywords      []string `yaml:"keywords"`
	BlockKeywords []string `yaml:"block_keywords"`
}

// Load 加载配置：先尝试读取 .env，再从环境变量取值
func Load() (*Config, error) {
	// .env 不存在不是错误
	_ = godotenv.Load()

	cfg := &Config{
		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "https://api.deepseek.com/v1"),
			APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
			Model:   getEnv("LLM_MODEL", "deepseek-chat"),
		},
		Search: SearchConfig{
			APIType:      strings.ToLower(getEnv("SEARCH_API_TYPE", "google")),
			APIKey:       os.Getenv("SEARCH_API_KEY"),
			EngineID:     os.Getenv("SEARCH_ENGINE_ID"),
			RawCount:     getEnvInt("RAW_SEARCH_COUNT", 30),
			ValidateURLs: getEnvBool("VALIDATE_URLS", false),
			FetchContent: getEnvBool("FETCH_CONTENT", false),
		},
		Filter: FilterConfig{
			MinScore:    getEnvInt("MIN_NEWS_SCORE", 6),
			MinCount:    getEnvInt("MIN_NEWS_COUNT", 5),
			MaxCount:    getEnvInt("MAX_NEWS_COUNT", 20),
			TargetCount: getEnvInt("TARGET_NEWS_COUNT", 12),
		},
		Report: ReportConfig{
			IncludeSource: getEnvBool("INCLUDE_SOURCE", true),
			IncludeLink:   getEnvBool("INCLUDE_LINK", true),
		},
		WeChat: WeChatConfig{
			Enabled:    getEnvBool("INCLUDE_WECHAT", false),
			WebhookKey: os.Getenv("WECHAT_WEBHOOK_KEY"),
		},
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			File:      os.Getenv("LOG_FILE"),
			MaxSizeMB: getEnvInt("LOG_MAX_SIZE_MB", 0),
		},
		Concurrency: ConcurrencyConfig{
			QPS: getEnvInt("LLM_QPS", 2),
			RPM: getEnvInt("LLM_RPM", 60),
		},
		OutputDir:     getEnv("OUTPUT_DIR", "Outputs"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Keywords:      defaultKeywords,
		BlockKeywords: defaultBlockKeywords,
	}

	// 兼容：使用 serper 时允许从 SERPER_API_KEY 读取
	if cfg.Search.APIKey == "" && cfg.Search.APIType == "serper" {
		cfg.Search.APIKey = os.Getenv("SERPER_API_KEY")
	}

	// 可选：从 YAML 文件覆盖关键词列表
	if path := os.Getenv("KEYWORDS_FILE"); path != "" {
		if err := cfg.loadKeywords(path); err != nil {
			return nil, fmt.Errorf("加载关键词文件失败 [%s]: %w", path, err)
		}
	}

	return cfg, nil
}

// loadKeywords 从 YAML 文件读取关键词，文件未给出的列表保持默认值
func (c *Config) loadKeywords(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return err
	}

	if len(kf.Keywords) > 0 {
		c.Keywords = kf.Keywords
	}
	if len(kf.BlockKeywords) > 0 {
		c.BlockKeywords = kf.BlockKeywords
	}
	return nil
}

// Validate 校验必填项并修正数量边界，必须在任何网络调用之前执行
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 DEEPSEEK_API_KEY")
	}

	switch c.Search.APIType {
	case "google":
		if c.Search.APIKey == "" || c.Search.EngineID == "" {
			return fmt.Errorf("配置错误: 使用 Google 搜索时必须设置 SEARCH_API_KEY 和 SEARCH_ENGINE_ID")
		}
	case "bing", "serper":
		if c.Search.APIKey == "" {
			return fmt.Errorf("配置错误: 使用 %s 搜索时必须设置 SEARCH_API_KEY", c.Search.APIType)
		}
	default:
		return fmt.Errorf("配置错误: 不支持的搜索 API 类型: %s", c.Search.APIType)
	}

	if c.Filter.MinScore < 1 || c.Filter.MinScore > 10 {
		return fmt.Errorf("配置错误: MIN_NEWS_SCORE 必须在 1-10 之间，当前为 %d", c.Filter.MinScore)
	}
	if c.Filter.MinCount < 1 || c.Filter.MinCount > c.Filter.MaxCount {
		return fmt.Errorf("配置错误: 数量边界不合法 (MIN=%d, MAX=%d)", c.Filter.MinCount, c.Filter.MaxCount)
	}

	// TARGET 收敛到 [MIN, MAX] 区间内
	if c.Filter.TargetCount < c.Filter.MinCount {
		c.Filter.TargetCount = c.Filter.MinCount
	}
	if c.Filter.TargetCount > c.Filter.MaxCount {
		c.Filter.TargetCount = c.Filter.MaxCount
	}
	// 原始候选数量至少要够填满上限
	if c.Search.RawCount < c.Filter.MaxCount {
		c.Search.RawCount = c.Filter.MaxCount
	}

	if c.WeChat.Enabled && c.WeChat.WebhookKey == "" {
		return fmt.Errorf("配置错误: INCLUDE_WECHAT=true 时必须设置 WECHAT_WEBHOOK_KEY")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return strings.ToLower(v) == "true"
}
