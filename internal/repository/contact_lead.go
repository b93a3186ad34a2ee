package repository

import (
	"context"
	"fmt"

	"github.com/propidesk/listings-module/internal/domain/model"
)

// ContactLeadRepository — интерфейс для таблицы contact_leads.
type ContactLeadRepository interface {
	// Create сохраняет обращение.
	Create(ctx context.Context, lead *model.ContactLead) error
	// List возвращает страницу обращений, новые первыми.
	List(ctx context.Context, limit, offset int) ([]*model.ContactLead, error)
	// Count возвращает количество обращений.
	Count(ctx context.Context) (int, error)
}

// contactLeadRepo — реализация ContactLeadRepository.
type contactLeadRepo struct {
	db DBTX
}

// NewContactLeadRepository создаёт репозиторий обращений.
func NewContactLeadRepository(db DBTX) ContactLeadRepository {
	return &contactLeadRepo{db: db}
}

func (r *contactLeadRepo) Create(ctx context.Context, lead *model.ContactLead) error {
	query := `
		INSERT INTO contact_leads (id, name, email, phone, message, propertie_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Message, lead.PropertieID,
	).Scan(&lead.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: обращение с таким id уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка сохранения обращения: %w", err)
	}
	return nil
}

func (r *contactLeadRepo) List(ctx context.Context, limit, offset int) ([]*model.ContactLead, error) {
	query := `
		SELECT id, name, email, phone, message, propertie_id, created_at
		FROM contact_leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения обращений: %w", err)
	}
	defer rows.Close()

	var result []*model.ContactLead
	for rows.Next() {
		lead := &model.ContactLead{}
		if err := rows.Scan(
			&lead.ID, &lead.Name, &lead.Email, &lead.Phone,
			&lead.Message, &lead.PropertieID, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования обращения: %w", err)
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func (r *contactLeadRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта обращений: %w", err)
	}
	return count, nil
}
