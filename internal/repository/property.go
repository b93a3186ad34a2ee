package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/propidesk/listings-module/internal/domain/model"
)

// PropertyRepository — интерфейс CRUD для таблицы properties.
type PropertyRepository interface {
	// Create создаёт объект недвижимости, заполняет PropertieID.
	Create(ctx context.Context, p *model.Property) error
	// GetByID возвращает объект по идентификатору.
	GetByID(ctx context.Context, id int64) (*model.Property, error)
	// ListAll возвращает все объекты, новые первыми.
	// Используется публичным каталогом: без пагинации.
	ListAll(ctx context.Context) ([]*model.Property, error)
	// List возвращает страницу объектов с фильтрацией по категории и операции.
	List(ctx context.Context, category, operation *string, limit, offset int) ([]*model.Property, error)
	// Update обновляет объект.
	Update(ctx context.Context, p *model.Property) error
	// Delete удаляет объект.
	Delete(ctx context.Context, id int64) error
	// Count возвращает количество объектов с фильтрацией.
	Count(ctx context.Context, category, operation *string) (int, error)
}

// propertyRepo — реализация PropertyRepository.
type propertyRepo struct {
	db DBTX
}

// NewPropertyRepository создаёт репозиторий объектов недвижимости.
func NewPropertyRepository(db DBTX) PropertyRepository {
	return &propertyRepo{db: db}
}

// propertyColumns — список колонок для SELECT, порядок совпадает со scanProperty.
const propertyColumns = `propertie_id, title, description, category, operation, location,
	area, builded_area, price, currency, cover_image, has_videos,
	bathrooms, parking_spots, ceiling_height, dock_doors, air_conditioning,
	office_area, maintenance_cost, features, created_at, updated_at`

// scanProperty сканирует строку в model.Property в порядке propertyColumns.
func scanProperty(row pgx.Row) (*model.Property, error) {
	p := &model.Property{}
	err := row.Scan(
		&p.PropertieID, &p.Title, &p.Description, &p.Category, &p.Operation, &p.Location,
		&p.Area, &p.BuildedArea, &p.Price, &p.Currency, &p.CoverImage, &p.HasVideos,
		&p.Bathrooms, &p.ParkingSpots, &p.CeilingHeight, &p.DockDoors, &p.AirConditioning,
		&p.OfficeArea, &p.MaintenanceCost, &p.Features, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, p *model.Property) error {
	query := `
		INSERT INTO properties (title, description, category, operation, location,
			area, builded_area, price, currency, cover_image, has_videos,
			bathrooms, parking_spots, ceiling_height, dock_doors, air_conditioning,
			office_area, maintenance_cost, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING propertie_id, created_at, updated_at`

	features := p.Features
	if features == nil {
		features = map[string]any{}
	}

	err := r.db.QueryRow(ctx, query,
		p.Title, p.Description, p.Category, p.Operation, p.Location,
		p.Area, p.BuildedArea, p.Price, p.Currency, p.CoverImage, p.HasVideos,
		p.Bathrooms, p.ParkingSpots, p.CeilingHeight, p.DockDoors, p.AirConditioning,
		p.OfficeArea, p.MaintenanceCost, features,
	).Scan(&p.PropertieID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания объекта: %w", err)
	}
	return nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE propertie_id = $1`, propertyColumns)

	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения объекта: %w", err)
	}
	return p, nil
}

func (r *propertyRepo) ListAll(ctx context.Context) ([]*model.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		ORDER BY created_at DESC`, propertyColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка объектов: %w", err)
	}
	defer rows.Close()

	var result []*model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования объекта: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *propertyRepo) List(ctx context.Context, category, operation *string, limit, offset int) ([]*model.Property, error) {
	// Динамическое построение WHERE
	where, args, argNum := propertyFilter(category, operation)

	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, propertyColumns, where, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка объектов: %w", err)
	}
	defer rows.Close()

	var result []*model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования объекта: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *propertyRepo) Update(ctx context.Context, p *model.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, category = $4, operation = $5, location = $6,
			area = $7, builded_area = $8, price = $9, currency = $10, cover_image = $11,
			has_videos = $12, bathrooms = $13, parking_spots = $14, ceiling_height = $15,
			dock_doors = $16, air_conditioning = $17, office_area = $18,
			maintenance_cost = $19, features = $20, updated_at = now()
		WHERE propertie_id = $1
		RETURNING updated_at`

	features := p.Features
	if features == nil {
		features = map[string]any{}
	}

	err := r.db.QueryRow(ctx, query,
		p.PropertieID, p.Title, p.Description, p.Category, p.Operation, p.Location,
		p.Area, p.BuildedArea, p.Price, p.Currency, p.CoverImage,
		p.HasVideos, p.Bathrooms, p.ParkingSpots, p.CeilingHeight,
		p.DockDoors, p.AirConditioning, p.OfficeArea,
		p.MaintenanceCost, features,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления объекта: %w", err)
	}
	return nil
}

func (r *propertyRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE propertie_id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления объекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *propertyRepo) Count(ctx context.Context, category, operation *string) (int, error) {
	where, args, _ := propertyFilter(category, operation)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM properties %s`, where)

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта объектов: %w", err)
	}
	return count, nil
}

// propertyFilter строит WHERE по категории и операции.
// Возвращает условие, аргументы и номер следующего placeholder.
func propertyFilter(category, operation *string) (string, []any, int) {
	var conditions []string
	var args []any
	argNum := 1

	if category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argNum))
		args = append(args, *category)
		argNum++
	}
	if operation != nil {
		conditions = append(conditions, fmt.Sprintf("operation = $%d", argNum))
		args = append(args, *operation)
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args, argNum
}
