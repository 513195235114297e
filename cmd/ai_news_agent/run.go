package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/ai_news_agent/pkg/collector"
	"github.com/iWorld-y/ai_news_agent/pkg/config"
	"github.com/iWorld-y/ai_news_agent/pkg/logger"
	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
	"github.com/iWorld-y/ai_news_agent/pkg/report"
	"github.com/iWorld-y/ai_news_agent/pkg/scorer"
	"github.com/iWorld-y/ai_news_agent/pkg/search/factory"
	"github.com/iWorld-y/ai_news_agent/pkg/storage"
	"github.com/iWorld-y/ai_news_agent/pkg/wechat"
)

// runPipeline 执行一次完整流水线：搜索 → 评分 → 过滤 → 渲染 → 落盘 → 推送
func runPipeline(cmd *cobra.Command, args []string) error {
	// 1. 加载并校验配置，任何网络调用之前完成
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.MaxSizeMB); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	logger.Log.Info("启动AI新闻日报生成...")

	ctx := context.Background()
	now := time.Now()
	runDate := now.Format(time.DateOnly)
	dateKey := now.Format("20060102")

	// 3. 初始化搜索客户端
	searcher, err := factory.NewSearcher(cfg.Search)
	if err != nil {
		return fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	// 4. 采集候选新闻
	candidates := collector.New(cfg, searcher).Collect(ctx)
	if len(candidates) == 0 {
		return fmt.Errorf("未采集到任何候选新闻，本次运行终止")
	}

	// 5. LLM 评分与摘要
	sc, err := scorer.New(ctx, cfg.LLM, cfg.Concurrency)
	if err != nil {
		return err
	}
	scored := sc.ScoreAll(ctx, candidates)
	if len(scored) == 0 {
		return fmt.Errorf("所有候选评分均失败，本次运行终止")
	}
	logger.Log.Infof("评分完成: %d/%d 条成功", len(scored), len(candidates))

	// 6. 按阈值与数量边界筛选
	selected, fallback := scorer.Filter(scored, cfg.Filter)
	if fallback {
		logger.Log.Warnf("合格新闻不足 %d 条，已触发保底补足策略", cfg.Filter.MinCount)
	}
	logger.Log.Infof("最终入选 %d 条新闻", len(selected))

	// 7. 渲染日报
	rep := &dm.Report{Date: runDate, Articles: selected, Fallback: fallback}
	content := report.Render(rep, cfg.Report)

	// 8. 落盘：原始数据 + 日报，写失败视为致命错误
	files, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		return err
	}

	raw := markSelected(scored, selected)
	rawPath, err := files.WriteRaw(dateKey, raw)
	if err != nil {
		return err
	}
	reportPath, err := files.WriteReport(dateKey, content)
	if err != nil {
		return err
	}
	logger.Log.Infof("产物已生成: %s, %s", rawPath, reportPath)

	// 9. 可选：镜像到 Postgres，连接失败只降级为文件输出
	if cfg.DatabaseURL != "" {
		saveToDatabase(cfg.DatabaseURL, runDate, raw)
	}

	// 10. 可选：推送到企业微信，失败不影响退出码
	if cfg.WeChat.Enabled {
		if err := wechat.NewClient(cfg.WeChat.WebhookKey).Send(ctx, content); err != nil {
			logger.Log.Errorf("企业微信推送失败: %v", err)
		} else {
			logger.Log.Info("日报已推送到企业微信")
		}
	}

	logger.Log.Info("✅ 本次运行完成")
	return nil
}

// markSelected 返回按评分排序的全量数据，并标记入选条目及保底标志
func markSelected(scored, selected []dm.ScoredArticle) []dm.ScoredArticle {
	picked := make(map[string]dm.ScoredArticle, len(selected))
	for _, a := range selected {
		picked[a.Link] = a
	}

	raw := scorer.SortByScore(scored)
	for i := range raw {
		if sel, ok := picked[raw[i].Link]; ok {
			raw[i].Selected = true
			raw[i].Fallback = sel.Fallback
		}
	}
	return raw
}

// saveToDatabase 将本次运行镜像到 Postgres
func saveToDatabase(databaseURL, runDate string, articles []dm.ScoredArticle) {
	store, err := storage.NewStorage(databaseURL)
	if err != nil {
		logger.Log.Errorf("无法连接数据库: %v. 本次仅保留文件产物。", err)
		return
	}
	defer store.Close()

	runID, err := store.CreateRun(runDate)
	if err != nil {
		logger.Log.Errorf("无法创建运行记录: %v", err)
		return
	}
	if err := store.SaveArticles(runID, articles); err != nil {
		logger.Log.Errorf("保存文章到数据库失败: %v", err)
		return
	}
	logger.Log.Infof("已保存到数据库 (run_id=%d)", runID)
}
