package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	"github.com/iWorld-y/ai_news_agent/pkg/logger"
	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
)

const systemPrompt = "你是一个 JSON 生成器。请只输出 JSON 字符串，不要输出任何其他内容。"

const scorePrompt = `你是一个专注于AI行业新闻的分析师。请阅读用户提供的新闻标题和内容，生成一份简明的中文摘要，并对其与AI行业的相关性和重要性进行评分。

请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记（如 '''json）：
{
	"summary": "中文摘要（80-150字），提取核心事件、技术要点或行业影响。",
	"score": 8
}
评分说明：score 为 1-10 的整数，10分为重大AI行业新闻，1分为与AI基本无关。

新闻标题：
%s

新闻内容：
%s`

// Scorer 调用 LLM 为候选新闻评分并生成摘要
type Scorer struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// llmResult LLM 返回的 JSON 结构
type llmResult struct {
	Summary string `json:"summary"`
	Score   int    `json:"score"`
}

// New 创建评分器
func New(ctx context.Context, llmCfg config.LLMConfig, conc config.ConcurrencyConfig) (*Scorer, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: llmCfg.BaseURL,
		APIKey:  llmCfg.APIKey,
		Model:   llmCfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// Limit 设置为 RPM/60，Burst 设置为 QPS
	limit := rate.Limit(float64(conc.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, conc.QPS)

	return &Scorer{chatModel: chatModel, limiter: limiter}, nil
}

// ScoreAll 并发为所有候选评分，单条失败只记日志并跳过
func (s *Scorer) ScoreAll(ctx context.Context, candidates []dm.Candidate) []dm.ScoredArticle {
	var scored []dm.ScoredArticle
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, cand := range candidates {
		wg.Add(1)
		go func(cand dm.Candidate) {
			defer wg.Done()

			result, err := s.scoreOne(ctx, cand)
			if err != nil {
				logger.Log.Errorf("评分失败，跳过 [%s]: %v", cand.Title, err)
				return
			}

			mu.Lock()
			scored = append(scored, dm.ScoredArticle{
				Candidate: cand,
				Score:     result.Score,
				Summary:   result.Summary,
			})
			mu.Unlock()
			logger.Log.Infof("已评分: %s (Score: %d)", cand.Title, result.Score)
		}(cand)
	}

	wg.Wait()
	return scored
}

// scoreOne 单条评分，带限流与 429 指数退避重试
func (s *Scorer) scoreOne(ctx context.Context, cand dm.Candidate) (*llmResult, error) {
	content := cand.Content
	if content == "" {
		content = cand.Snippet
	}

	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("limiter wait error: %w", err)
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: systemPrompt},
			{Role: schema.User, Content: fmt.Sprintf(scorePrompt, cand.Title, content)},
		}

		resp, err := s.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					delay := baseDelay * time.Duration(1<<i) // 指数退避
					logger.Log.Warnf("触发 429 限流，等待 %v 后重试 (%d/%d)...", delay, i+1, maxRetries)
					select {
					case <-ctx.Done():
						return nil, ctx.Err()
					case <-time.After(delay):
						continue
					}
				}
			}
			return nil, err
		}

		// 清理可能的 markdown 标记
		cleanContent := strings.TrimSpace(resp.Content)
		cleanContent = strings.TrimPrefix(cleanContent, "```json")
		cleanContent = strings.TrimPrefix(cleanContent, "```")
		cleanContent = strings.TrimSuffix(cleanContent, "```")

		var result llmResult
		if err := json.Unmarshal([]byte(cleanContent), &result); err != nil {
			lastErr = fmt.Errorf("json unmarshal error: %w, content: %s", err, cleanContent)
			if i < maxRetries {
				logger.Log.Warnf("JSON 解析失败，重试 (%d/%d): %v", i+1, maxRetries, lastErr)
				continue
			}
			return nil, lastErr
		}

		if result.Score < 1 {
			result.Score = 1
		}
		if result.Score > 10 {
			result.Score = 10
		}
		return &result, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %v", lastErr)
}
