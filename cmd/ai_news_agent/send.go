package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	"github.com/iWorld-y/ai_news_agent/pkg/logger"
	"github.com/iWorld-y/ai_news_agent/pkg/storage"
	"github.com/iWorld-y/ai_news_agent/pkg/wechat"
)

var sendCmd = &cobra.Command{
	Use:   "send [报告文件路径]",
	Short: "将已生成的日报重新推送到企业微信",
	Long:  "读取指定的日报文件并推送到企业微信机器人。不指定路径时使用当天的日报文件。",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.MaxSizeMB); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}

	if !cfg.WeChat.Enabled {
		return fmt.Errorf("INCLUDE_WECHAT 设置为 false，跳过企业微信发送")
	}
	if cfg.WeChat.WebhookKey == "" {
		return fmt.Errorf("配置错误: 未设置 WECHAT_WEBHOOK_KEY")
	}

	// 默认使用当天的日报文件
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		files, err := storage.NewFileStore(cfg.OutputDir)
		if err != nil {
			return err
		}
		path = files.ReportPath(time.Now().Format("20060102"))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("找不到报告文件 [%s]: %w", path, err)
	}

	if err := wechat.NewClient(cfg.WeChat.WebhookKey).Send(context.Background(), string(content)); err != nil {
		return fmt.Errorf("发送报告失败: %w", err)
	}

	logger.Log.Infof("报告已成功发送到企业微信: %s", path)
	return nil
}
