package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// PostRepositoryPG implements domain.PostRepository.
type PostRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewPostRepository(sql infra.SQLExecutor) *PostRepositoryPG {
	return &PostRepositoryPG{sql: sql}
}

var _ domain.PostRepository = (*PostRepositoryPG)(nil)

// Create inserts the post behind its (author, media type, media id) dedupe
// key. inserted=false means an earlier attempt already persisted this item.
func (r *PostRepositoryPG) Create(ctx context.Context, post *domain.BlogPost) (bool, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPost,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.Tags,
		string(post.MediaType),
		post.MediaID,
		post.MediaTitle,
		post.PosterPath,
		post.ReadingTime,
		post.Published,
	)
	var id string
	if err := row.Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert post: %w", err)
	}
	return true, nil
}

// SlugExists reports whether a persisted post already claims the slug.
func (r *PostRepositoryPG) SlugExists(ctx context.Context, slug string) (bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSlugExists, slug)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}
