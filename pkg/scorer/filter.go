package scorer

import (
	"sort"

	"github.com/iWorld-y/ai_news_agent/pkg/config"
	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
)

// SortByScore 返回按评分从高到低排序的副本，同分按链接字典序，保证输出确定
func SortByScore(articles []dm.ScoredArticle) []dm.ScoredArticle {
	sorted := make([]dm.ScoredArticle, len(articles))
	copy(sorted, articles)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Link < sorted[j].Link
	})
	return sorted
}

// Filter 按评分阈值与数量边界筛选最终入选的新闻。
// 策略：
//   - 保留 score >= MinScore 的条目；
//   - 合格条目超过 MaxCount 时截断到 TargetCount；
//   - 合格条目不足 MinCount 时，按评分顺位从剩余条目补足（不降低阈值），
//     补足的条目标记 Fallback=true。
// 返回入选列表与是否触发保底策略。
func Filter(articles []dm.ScoredArticle, cfg config.FilterConfig) ([]dm.ScoredArticle, bool) {
	sorted := SortByScore(articles)

	var qualified, remainder []dm.ScoredArticle
	for _, a := range sorted {
		if a.Score >= cfg.MinScore {
			qualified = append(qualified, a)
		} else {
			remainder = append(remainder, a)
		}
	}

	if len(qualified) > cfg.MaxCount {
		return qualified[:cfg.TargetCount], false
	}

	if len(qualified) >= cfg.MinCount {
		return qualified, false
	}

	// 保底补足：remainder 已按评分降序
	selected := qualified
	fallback := false
	for _, a := range remainder {
		if len(selected) >= cfg.MinCount {
			break
		}
		a.Fallback = true
		selected = append(selected, a)
		fallback = true
	}
	return selected, fallback
}
