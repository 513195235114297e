package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	dm "github.com/iWorld-y/ai_news_agent/pkg/model"
)

// Postgres 建表语句，首次连接时执行
const schemaDDL = `
CREATE TABLE IF NOT EXISTS report_run (
	id         SERIAL PRIMARY KEY,
	run_date   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS news_article (
	id       SERIAL PRIMARY KEY,
	run_id   INTEGER NOT NULL REFERENCES report_run(id),
	title    TEXT NOT NULL,
	link     TEXT NOT NULL,
	source   TEXT,
	pub_date TEXT,
	summary  TEXT,
	score    INTEGER NOT NULL,
	fallback BOOLEAN NOT NULL DEFAULT FALSE,
	selected BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (run_id, link)
);
`

// Storage 可选的 Postgres 持久化，未配置 DATABASE_URL 时不会创建
type Storage struct {
	db *sql.DB
}

// NewStorage 连接数据库并确保表结构存在
func NewStorage(databaseURL string) (*Storage, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close 关闭数据库连接
func (s *Storage) Close() error {
	return s.db.Close()
}

// CreateRun 创建一次运行记录，返回运行 ID
func (s *Storage) CreateRun(runDate string) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO report_run(run_date) VALUES($1) RETURNING id`, runDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SaveArticles 保存本次运行的全部已评分文章，同一运行内按链接去重
func (s *Storage) SaveArticles(runID int64, articles []dm.ScoredArticle) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, a := range articles {
		_, err := tx.Exec(`
			INSERT INTO news_article(run_id, title, link, source, pub_date, summary, score, fallback, selected)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (run_id, link) DO NOTHING
		`, runID, a.Title, a.Link, a.Source, a.PubDate, a.Summary, a.Score, a.Fallback, a.Selected)
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
			return err
		}
	}

	return tx.Commit()
}
