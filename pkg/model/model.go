package model

// Candidate 搜索得到的候选新闻（未评分）
type Candidate struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	PubDate string `json:"pub_date,omitempty"`
	Snippet string `json:"snippet"`
	Content string `json:"-"` // 临时存储用于 LLM 分析，不写入产物
}

// ScoredArticle 候选新闻 + LLM 评分与摘要
type ScoredArticle struct {
	Candidate
	Score    int    `json:"score"`              // 1-10
	Summary  string `json:"summary"`            // 中文摘要
	Fallback bool   `json:"fallback,omitempty"` // 低于阈值但被保底策略收录
	Selected bool   `json:"selected"`           // 是否进入最终日报
}

// Report 最终日报
type Report struct {
	Date     string // YYYY-MM-DD
	Articles []ScoredArticle
	Fallback bool // 本次运行是否触发了保底策略
}
