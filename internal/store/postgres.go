package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/models"
)

// countColumns maps the posts table columns to interaction kinds, in SELECT order.
var countColumns = []struct {
	column string
	kind   models.InteractionKind
}{
	{"author_replies", models.InteractionAuthorReply},
	{"replies", models.InteractionReply},
	{"profile_clicks", models.InteractionProfileClick},
	{"conversation_clicks", models.InteractionConversationClick},
	{"bookmarks", models.InteractionBookmark},
	{"reposts", models.InteractionRepost},
	{"likes", models.InteractionLike},
	{"dwells", models.InteractionDwell},
	{"negatives", models.InteractionNegative},
	{"reports", models.InteractionReport},
}

type PostgresPostStore struct {
	db *sql.DB
}

func NewPostgresPostStore(db *sql.DB) *PostgresPostStore {
	return &PostgresPostStore{db: db}
}

func (s *PostgresPostStore) Driver() string { return config.StoreDriverPostgres }

func postgresListQuery(filter models.PostFilter) (string, []interface{}) {
	cols := []string{"account", "text", "published_at", "is_thread", "impressions"}
	for _, c := range countColumns {
		cols = append(cols, c.column)
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.Account != "" {
		args = append(args, filter.Account)
		where = append(where, fmt.Sprintf("account = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("published_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("published_at <= $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM posts")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY published_at, account")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func (s *PostgresPostStore) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	query, args := postgresListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, readError(ctx, s.Driver(), err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var (
			p        models.Post
			isThread sql.NullBool
			counts   = make([]int64, len(countColumns))
		)
		dest := []interface{}{&p.Account, &p.Text, &p.PublishedAt, &isThread, &p.Impressions}
		for i := range counts {
			dest = append(dest, &counts[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, readError(ctx, s.Driver(), err)
		}

		if isThread.Valid {
			v := isThread.Bool
			p.IsThread = &v
		}
		p.Counts = make(models.Counts, len(countColumns))
		for i, c := range countColumns {
			p.Counts[c.kind] = counts[i]
		}
		if err := checkCounts(p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(ctx, s.Driver(), err)
	}
	return posts, nil
}
