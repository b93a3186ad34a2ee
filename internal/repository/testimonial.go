package repository

import (
	"context"
	"fmt"

	"github.com/propidesk/listings-module/internal/domain/model"
)

// TestimonialRepository — интерфейс для таблицы testimonials.
type TestimonialRepository interface {
	// Create создаёт отзыв.
	Create(ctx context.Context, tm *model.Testimonial) error
	// List возвращает все отзывы, новые первыми.
	List(ctx context.Context) ([]*model.Testimonial, error)
	// Delete удаляет отзыв.
	Delete(ctx context.Context, id string) error
}

// testimonialRepo — реализация TestimonialRepository.
type testimonialRepo struct {
	db DBTX
}

// NewTestimonialRepository создаёт репозиторий отзывов.
func NewTestimonialRepository(db DBTX) TestimonialRepository {
	return &testimonialRepo{db: db}
}

func (r *testimonialRepo) Create(ctx context.Context, tm *model.Testimonial) error {
	query := `
		INSERT INTO testimonials (id, client_name, client_role, comment, rating,
			client_image, property_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		tm.ID, tm.ClientName, tm.ClientRole, tm.Comment, tm.Rating,
		tm.ClientImage, tm.PropertyImage,
	).Scan(&tm.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: отзыв с таким id уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания отзыва: %w", err)
	}
	return nil
}

func (r *testimonialRepo) List(ctx context.Context) ([]*model.Testimonial, error) {
	query := `
		SELECT id, client_name, client_role, comment, rating,
			client_image, property_image, created_at
		FROM testimonials
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отзывов: %w", err)
	}
	defer rows.Close()

	var result []*model.Testimonial
	for rows.Next() {
		tm := &model.Testimonial{}
		if err := rows.Scan(
			&tm.ID, &tm.ClientName, &tm.ClientRole, &tm.Comment, &tm.Rating,
			&tm.ClientImage, &tm.PropertyImage, &tm.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отзыва: %w", err)
		}
		result = append(result, tm)
	}
	return result, rows.Err()
}

func (r *testimonialRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления отзыва: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
