package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const defaultBaseURL = "https://qyapi.weixin.qq.com/cgi-bin/webhook/send"

// 企业微信 markdown 消息长度上限约 4096 字符，留出余量
const maxContentLen = 4000

// Client 企业微信机器人 webhook 客户端
type Client struct {
	webhookKey string
	baseURL    string
	client     *http.Client
}

// NewClient 创建一个新的企业微信客户端
func NewClient(webhookKey string) *Client {
	return &Client{
		webhookKey: webhookKey,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// message webhook 请求体
type message struct {
	MsgType  string `json:"msgtype"`
	Markdown struct {
		Content string `json:"content"`
	} `json:"markdown"`
}

// sendResponse webhook 响应体
type sendResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Send 将 markdown 内容推送到企业微信机器人
func (c *Client) Send(ctx context.Context, content string) error {
	var msg message
	msg.MsgType = "markdown"
	msg.Markdown.Content = formatContent(content)

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message failed: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.baseURL, c.webhookKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	var sendResp sendResponse
	if err := json.NewDecoder(res.Body).Decode(&sendResp); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}

	if sendResp.ErrCode != 0 {
		return fmt.Errorf("wechat webhook error (errcode %d): %s", sendResp.ErrCode, sendResp.ErrMsg)
	}
	return nil
}

// formatContent 将报告内容整理成适合企业微信 markdown 消息的形式：
// 去掉代码块包裹，提取首行标题，截断过长内容，降级不支持的四级标题。
func formatContent(content string) string {
	content = stripFence(content)

	// 提取首行作为标题
	lines := strings.Split(content, "\n")
	var title string
	processed := content
	if len(lines) > 0 {
		switch {
		case strings.HasPrefix(lines[0], "# "):
			title = strings.TrimPrefix(lines[0], "# ")
			processed = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		case strings.HasPrefix(lines[0], "【AI日报】"):
			title = lines[0]
			processed = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}

	// 截断过长内容
	if len(processed) > maxContentLen {
		processed = truncateValidUTF8(processed, maxContentLen) + "...\n\n*[内容过长，已截断]*"
	}

	final := processed
	if title != "" {
		final = fmt.Sprintf("## %s\n\n%s", title, processed)
	}

	// 企业微信 markdown 不支持四级标题
	final = strings.ReplaceAll(final, "####", "###")

	return final
}

// stripFence 去掉开头的 ```markdown 与结尾的 ``` 包裹
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(content, "```markdown") && strings.HasSuffix(content, "```"):
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(content, "```markdown"), "```"))
	case strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```"):
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```"))
	}
	return content
}

// truncateValidUTF8 按字节上限截断，避免截断在多字节字符中间
func truncateValidUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
