package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
)

// FileStore 负责按运行日期落盘原始数据与日报
type FileStore struct {
	dir string
}

// NewFileStore 创建文件存储，dir 不存在时自动创建
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败 [%s]: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// RawPath 原始数据文件路径，dateKey 为 YYYYMMDD
func (s *FileStore) RawPath(dateKey string) string {
	return filepath.Join(s.dir, fmt.Sprintf("raw_news_data_%s.json", dateKey))
}

// ReportPath 日报文件路径，dateKey 为 YYYYMMDD
func (s *FileStore) ReportPath(dateKey string) string {
	return filepath.Join(s.dir, fmt.Sprintf("ai_news_report_%s.md", dateKey))
}

// WriteRaw 写入全部已评分文章（含未入选的），同日期重复运行直接覆盖
func (s *FileStore) WriteRaw(dateKey string, articles []dm.ScoredArticle) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return "", fmt.Errorf("序列化原始数据失败: %w", err)
	}

	path := s.RawPath(dateKey)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("写入原始数据失败 [%s]: %w", path, err)
	}
	return path, nil
}

// WriteReport 写入渲染好的 markdown 日报，同日期重复运行直接覆盖
func (s *FileStore) WriteReport(dateKey string, content string) (string, error) {
	path := s.ReportPath(dateKey)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("写入日报失败 [%s]: %w", path, err)
	}
	return path, nil
}
