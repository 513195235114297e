package report

import (
	"strings"
	"testing"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
)

func testReport() *dm.Report {
	return &dm.Report{
		Date: "2026-08-25",
		Articles: []dm.ScoredArticle{
			{
				Candidate: dm.Candidate{
					Title:  "DeepSeek 发布新一代推理模型",
					Link:   "https://example.com/deepseek",
					Source: "example.com",
				},
				Score:   9,
				Summary: "DeepSeek 发布了新一代推理模型，性能大幅提升。",
			},
			{
				Candidate: dm.Candidate{
					Title:  "开源大模型生态迎来新进展",
					Link:   "https://example.com/oss",
					Source: "news.example.com",
				},
				Score:   7,
				Summary: "多个开源大模型项目发布重要更新。",
			},
		},
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := config.ReportConfig{IncludeSource: true, IncludeLink: true}
	rep := testReport()

	first := Render(rep, cfg)
	second := Render(rep, cfg)
	if first != second {
		t.Error("Render() 相同输入两次渲染结果不一致")
	}
}

func TestRender_Content(t *testing.T) {
	cfg := config.ReportConfig{IncludeSource: true, IncludeLink: true}
	out := Render(testReport(), cfg)

	if !strings.HasPrefix(out, "# 【AI日报】2026-08-25") {
		t.Errorf("Render() 标题缺少日期: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "## 1. DeepSeek 发布新一代推理模型") {
		t.Error("Render() 缺少第一条编号小节")
	}
	if !strings.Contains(out, "## 2. 开源大模型生态迎来新进展") {
		t.Error("Render() 缺少第二条编号小节")
	}
	if !strings.Contains(out, "- 来源：example.com") {
		t.Error("Render() 缺少来源信息")
	}
	if !strings.Contains(out, "- 链接：https://example.com/deepseek") {
		t.Error("Render() 缺少链接信息")
	}
	if strings.Contains(out, "保底") || strings.Contains(out, "补足") {
		t.Error("Render() 未触发保底时不应出现补足提示")
	}
}

func TestRender_ExcludeSourceAndLink(t *testing.T) {
	cfg := config.ReportConfig{IncludeSource: false, IncludeLink: false}
	out := Render(testReport(), cfg)

	if strings.Contains(out, "来源：") {
		t.Error("Render() INCLUDE_SOURCE=false 时不应输出来源")
	}
	if strings.Contains(out, "链接：") {
		t.Error("Render() INCLUDE_LINK=false 时不应输出链接")
	}
}

func TestRender_FallbackNotice(t *testing.T) {
	rep := testReport()
	rep.Fallback = true
	out := Render(rep, config.ReportConfig{})

	if !strings.Contains(out, "已按评分顺位补足") {
		t.Error("Render() 触发保底时应有明确提示")
	}
}
