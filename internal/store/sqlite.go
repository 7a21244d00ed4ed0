package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/models"
)

// archiveDateLayouts are the date formats seen in exported archives, tried in order.
var archiveDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"Mon Jan 02 15:04:05 -0700 2006",
	"2006-01-02",
	"2006/01/02",
}

// SQLitePostStore reads the local post archive. The archive only tracks
// likes, reposts and replies; rows sharing account and date collapse to the
// last imported one.
type SQLitePostStore struct {
	db     *sql.DB
	loc    *time.Location
	logger logger.Logger
}

// NewSQLitePostStore reads archive dates without a zone in loc (UTC when nil).
func NewSQLitePostStore(db *sql.DB, loc *time.Location, log logger.Logger) *SQLitePostStore {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SQLitePostStore{db: db, loc: loc, logger: logger.Component(log, "sqlite-post-store")}
}

func (s *SQLitePostStore) Driver() string { return config.StoreDriverSQLite }

func (s *SQLitePostStore) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	query := "SELECT account, text, likes, retweets, replies, impressions, date FROM posts"
	var args []interface{}
	if filter.Account != "" {
		query += " WHERE account = ?"
		args = append(args, filter.Account)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, readError(ctx, s.Driver(), err)
	}
	defer rows.Close()

	var (
		posts   []models.Post
		index   = map[string]int{}
		skipped int
	)
	for rows.Next() {
		var (
			account, text, date                   sql.NullString
			likes, retweets, replies, impressions sql.NullInt64
		)
		if err := rows.Scan(&account, &text, &likes, &retweets, &replies, &impressions, &date); err != nil {
			return nil, readError(ctx, s.Driver(), err)
		}

		publishedAt, ok := parseArchiveDate(date.String, s.loc)
		if !ok {
			skipped++
			continue
		}

		p := models.Post{
			Account:     account.String,
			Text:        text.String,
			PublishedAt: publishedAt,
			Impressions: impressions.Int64,
			Counts: models.Counts{
				models.InteractionLike:   likes.Int64,
				models.InteractionRepost: retweets.Int64,
				models.InteractionReply:  replies.Int64,
			},
		}
		if err := checkCounts(p); err != nil {
			return nil, err
		}
		if !filter.Matches(p) {
			continue
		}

		if i, dup := index[p.Key()]; dup {
			posts[i] = p
			continue
		}
		index[p.Key()] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(ctx, s.Driver(), err)
	}

	if skipped > 0 {
		s.logger.Warn("skipped archive rows without a usable date", map[string]interface{}{
			"skipped": skipped,
		})
	}
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func parseArchiveDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range archiveDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
