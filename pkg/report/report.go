package report

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
)

// Render 渲染 markdown 日报：标题含日期，每条新闻一个编号小节，
// 来源/链接按配置开关输出。相同输入与配置下输出逐字节一致。
func Render(rep *dm.Report, cfg config.ReportConfig) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# 【AI日报】%s AI行业新闻速递\n\n", rep.Date)
	fmt.Fprintf(&sb, "> 共收录 %d 条新闻", len(rep.Articles))
	if rep.Fallback {
		sb.WriteString("（注：本期合格新闻不足，已按评分顺位补足）")
	}
	sb.WriteString("\n")

	for i, a := range rep.Articles {
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, a.Title)
		fmt.Fprintf(&sb, "%s\n", a.Summary)

		if cfg.IncludeSource || cfg.IncludeLink {
			sb.WriteString("\n")
			if cfg.IncludeSource {
				fmt.Fprintf(&sb, "- 来源：%s\n", a.Source)
			}
			if cfg.IncludeLink {
				fmt.Fprintf(&sb, "- 链接：%s\n", a.Link)
			}
		}
	}

	return sb.String()
}
