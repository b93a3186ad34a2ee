package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/propidesk/listings-module/internal/domain/model"
)

// BlogPostRepository — интерфейс CRUD для таблицы blog_posts.
type BlogPostRepository interface {
	// Create создаёт запись блога.
	Create(ctx context.Context, post *model.BlogPost) error
	// GetByID возвращает запись по UUID.
	GetByID(ctx context.Context, id string) (*model.BlogPost, error)
	// List возвращает страницу записей, новые первыми.
	// publishedOnly — только опубликованные (публичный путь).
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.BlogPost, error)
	// Update обновляет запись.
	Update(ctx context.Context, post *model.BlogPost) error
	// Delete удаляет запись.
	Delete(ctx context.Context, id string) error
}

// blogPostRepo — реализация BlogPostRepository.
type blogPostRepo struct {
	db DBTX
}

// NewBlogPostRepository создаёт репозиторий записей блога.
func NewBlogPostRepository(db DBTX) BlogPostRepository {
	return &blogPostRepo{db: db}
}

func (r *blogPostRepo) Create(ctx context.Context, post *model.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, title, excerpt, body, category, cover_image,
			has_videos, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Excerpt, post.Body, post.Category, post.CoverImage,
		post.HasVideos, post.Published, post.PublishedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: запись блога с таким id уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания записи блога: %w", err)
	}
	return nil
}

func (r *blogPostRepo) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	query := `
		SELECT id, title, excerpt, body, category, cover_image,
			has_videos, published, published_at, created_at, updated_at
		FROM blog_posts
		WHERE id = $1`

	post := &model.BlogPost{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Excerpt, &post.Body, &post.Category, &post.CoverImage,
		&post.HasVideos, &post.Published, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи блога: %w", err)
	}
	return post, nil
}

func (r *blogPostRepo) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.BlogPost, error) {
	where := ""
	if publishedOnly {
		where = "WHERE published"
	}

	query := fmt.Sprintf(`
		SELECT id, title, excerpt, body, category, cover_image,
			has_videos, published, published_at, created_at, updated_at
		FROM blog_posts
		%s
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT $1 OFFSET $2`, where)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей блога: %w", err)
	}
	defer rows.Close()

	var result []*model.BlogPost
	for rows.Next() {
		post := &model.BlogPost{}
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Excerpt, &post.Body, &post.Category, &post.CoverImage,
			&post.HasVideos, &post.Published, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи блога: %w", err)
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

func (r *blogPostRepo) Update(ctx context.Context, post *model.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, excerpt = $3, body = $4, category = $5, cover_image = $6,
			has_videos = $7, published = $8, published_at = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Excerpt, post.Body, post.Category, post.CoverImage,
		post.HasVideos, post.Published, post.PublishedAt,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления записи блога: %w", err)
	}
	return nil
}

func (r *blogPostRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи блога: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
