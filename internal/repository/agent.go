package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/propidesk/listings-module/internal/domain/model"
)

// AgentRepository — интерфейс для таблицы agents.
type AgentRepository interface {
	// Create создаёт сотрудника.
	Create(ctx context.Context, a *model.Agent) error
	// GetByID возвращает сотрудника по UUID.
	GetByID(ctx context.Context, id string) (*model.Agent, error)
	// List возвращает всех сотрудников в порядке создания.
	List(ctx context.Context) ([]*model.Agent, error)
	// Update обновляет сотрудника.
	Update(ctx context.Context, a *model.Agent) error
	// Delete удаляет сотрудника.
	Delete(ctx context.Context, id string) error
}

// agentRepo — реализация AgentRepository.
type agentRepo struct {
	db DBTX
}

// NewAgentRepository создаёт репозиторий сотрудников.
func NewAgentRepository(db DBTX) AgentRepository {
	return &agentRepo{db: db}
}

func (r *agentRepo) Create(ctx context.Context, a *model.Agent) error {
	query := `
		INSERT INTO agents (id, name, position, experience, description,
			image, phone, whatsapp, email, specialties)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	specialties := a.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	err := r.db.QueryRow(ctx, query,
		a.ID, a.Name, a.Position, a.Experience, a.Description,
		a.Image, a.Phone, a.WhatsApp, a.Email, specialties,
	).Scan(&a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: сотрудник с таким id уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания сотрудника: %w", err)
	}
	return nil
}

func (r *agentRepo) GetByID(ctx context.Context, id string) (*model.Agent, error) {
	query := `
		SELECT id, name, position, experience, description,
			image, phone, whatsapp, email, specialties, created_at
		FROM agents
		WHERE id = $1`

	a := &model.Agent{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Position, &a.Experience, &a.Description,
		&a.Image, &a.Phone, &a.WhatsApp, &a.Email, &a.Specialties, &a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}
	return a, nil
}

func (r *agentRepo) List(ctx context.Context) ([]*model.Agent, error) {
	query := `
		SELECT id, name, position, experience, description,
			image, phone, whatsapp, email, specialties, created_at
		FROM agents
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудников: %w", err)
	}
	defer rows.Close()

	var result []*model.Agent
	for rows.Next() {
		a := &model.Agent{}
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Position, &a.Experience, &a.Description,
			&a.Image, &a.Phone, &a.WhatsApp, &a.Email, &a.Specialties, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *agentRepo) Update(ctx context.Context, a *model.Agent) error {
	query := `
		UPDATE agents
		SET name = $2, position = $3, experience = $4, description = $5,
			image = $6, phone = $7, whatsapp = $8, email = $9, specialties = $10
		WHERE id = $1`

	specialties := a.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	tag, err := r.db.Exec(ctx, query,
		a.ID, a.Name, a.Position, a.Experience, a.Description,
		a.Image, a.Phone, a.WhatsApp, a.Email, specialties,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления сотрудника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *agentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления сотрудника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
