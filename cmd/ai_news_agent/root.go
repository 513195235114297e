package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ai_news_agent",
	Short: "AI行业新闻日报生成器",
	Long: "ai_news_agent 搜索最近的AI行业新闻，调用 DeepSeek 评分与摘要，" +
		"生成按日期命名的 markdown 日报，并可选推送到企业微信机器人。",
	SilenceUsage: true,
	RunE:         runPipeline,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ai_news_agent %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// Execute 运行根命令，失败时以非零状态码退出
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
