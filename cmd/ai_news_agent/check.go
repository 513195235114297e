package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "检查环境变量与生效配置",
	Long:  "打印各项配置的加载结果与生效阈值，用于诊断环境变量问题。不会发起任何网络调用。",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	wd, _ := os.Getwd()
	fmt.Printf("当前工作目录: %s\n", wd)

	if _, err := os.Stat(".env"); err == nil {
		fmt.Println("找到 .env 文件")
	} else {
		fmt.Println("未找到 .env 文件")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println("\n凭证:")
	fmt.Printf("- DEEPSEEK_API_KEY:   %s\n", mask(cfg.LLM.APIKey))
	fmt.Printf("- SEARCH_API_KEY:     %s\n", mask(cfg.Search.APIKey))
	fmt.Printf("- SEARCH_ENGINE_ID:   %s\n", mask(cfg.Search.EngineID))
	fmt.Printf("- WECHAT_WEBHOOK_KEY: %s\n", mask(cfg.WeChat.WebhookKey))

	fmt.Println("\n生效配置:")
	fmt.Printf("- SEARCH_API_TYPE:    %s\n", cfg.Search.APIType)
	fmt.Printf("- RAW_SEARCH_COUNT:   %d\n", cfg.Search.RawCount)
	fmt.Printf("- MIN_NEWS_SCORE:     %d\n", cfg.Filter.MinScore)
	fmt.Printf("- MIN_NEWS_COUNT:     %d\n", cfg.Filter.MinCount)
	fmt.Printf("- MAX_NEWS_COUNT:     %d\n", cfg.Filter.MaxCount)
	fmt.Printf("- TARGET_NEWS_COUNT:  %d\n", cfg.Filter.TargetCount)
	fmt.Printf("- INCLUDE_SOURCE:     %t\n", cfg.Report.IncludeSource)
	fmt.Printf("- INCLUDE_LINK:       %t\n", cfg.Report.IncludeLink)
	fmt.Printf("- INCLUDE_WECHAT:     %t\n", cfg.WeChat.Enabled)
	fmt.Printf("- VALIDATE_URLS:      %t\n", cfg.Search.ValidateURLs)
	fmt.Printf("- FETCH_CONTENT:      %t\n", cfg.Search.FetchContent)
	fmt.Printf("- OUTPUT_DIR:         %s\n", cfg.OutputDir)
	fmt.Printf("- 搜索关键词:         %d 个\n", len(cfg.Keywords))
	fmt.Printf("- 屏蔽关键词:         %d 个\n", len(cfg.BlockKeywords))

	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n校验未通过: %v\n", err)
	} else {
		fmt.Println("\n配置校验通过。")
	}
	return nil
}

// mask 掩码展示凭证，只保留首尾各 4 位
func mask(s string) string {
	if s == "" {
		return "(未设置)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
