package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/propidesk/listings-module/internal/domain/model"
)

// AssetsRow — сырая строка properties_assets: images неразобранным
// JSONB. Используется на пути чтения каталога, где некорректная форма
// images одной записи не должна прерывать выборку.
type AssetsRow struct {
	PropertiesAssetsID int64
	PropertieID        int64
	RawImages          []byte
	CoverImage         *string
	UpdatedAt          time.Time
}

// PropertyAssetsRepository — интерфейс для таблицы properties_assets.
type PropertyAssetsRepository interface {
	// Create создаёт запись изображений, заполняет PropertiesAssetsID.
	Create(ctx context.Context, a *model.PropertyAssets) error
	// GetByPropertyID возвращает запись изображений объекта.
	// При нескольких записях — первая по идентификатору.
	GetByPropertyID(ctx context.Context, propertieID int64) (*model.PropertyAssets, error)
	// ListAll возвращает все записи без разбора images.
	ListAll(ctx context.Context) ([]AssetsRow, error)
	// Update обновляет запись изображений.
	Update(ctx context.Context, a *model.PropertyAssets) error
	// DeleteByPropertyID удаляет все записи изображений объекта.
	// Отсутствие записей ошибкой не считается.
	DeleteByPropertyID(ctx context.Context, propertieID int64) error
}

// propertyAssetsRepo — реализация PropertyAssetsRepository.
type propertyAssetsRepo struct {
	db DBTX
}

// NewPropertyAssetsRepository создаёт репозиторий изображений объектов.
func NewPropertyAssetsRepository(db DBTX) PropertyAssetsRepository {
	return &propertyAssetsRepo{db: db}
}

func (r *propertyAssetsRepo) Create(ctx context.Context, a *model.PropertyAssets) error {
	query := `
		INSERT INTO properties_assets (propertie_id, images, cover_image)
		VALUES ($1, $2, $3)
		RETURNING properties_assets_id, updated_at`

	images := a.Images
	if images == nil {
		images = model.ImageSet{}
	}

	err := r.db.QueryRow(ctx, query,
		a.PropertieID, images, a.CoverImage,
	).Scan(&a.PropertiesAssetsID, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи изображений: %w", err)
	}
	return nil
}

func (r *propertyAssetsRepo) GetByPropertyID(ctx context.Context, propertieID int64) (*model.PropertyAssets, error) {
	query := `
		SELECT properties_assets_id, propertie_id, images, cover_image, updated_at
		FROM properties_assets
		WHERE propertie_id = $1
		ORDER BY properties_assets_id
		LIMIT 1`

	a := &model.PropertyAssets{}
	var raw []byte
	err := r.db.QueryRow(ctx, query, propertieID).Scan(
		&a.PropertiesAssetsID, &a.PropertieID, &raw, &a.CoverImage, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи изображений: %w", err)
	}

	a.Images, err = model.ParseImageSet(raw)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора images объекта %d: %w", propertieID, err)
	}
	return a, nil
}

func (r *propertyAssetsRepo) ListAll(ctx context.Context) ([]AssetsRow, error) {
	query := `
		SELECT properties_assets_id, propertie_id, images, cover_image, updated_at
		FROM properties_assets
		ORDER BY properties_assets_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей изображений: %w", err)
	}
	defer rows.Close()

	var result []AssetsRow
	for rows.Next() {
		var a AssetsRow
		if err := rows.Scan(
			&a.PropertiesAssetsID, &a.PropertieID, &a.RawImages, &a.CoverImage, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи изображений: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *propertyAssetsRepo) Update(ctx context.Context, a *model.PropertyAssets) error {
	query := `
		UPDATE properties_assets
		SET images = $2, cover_image = $3, updated_at = now()
		WHERE properties_assets_id = $1
		RETURNING updated_at`

	images := a.Images
	if images == nil {
		images = model.ImageSet{}
	}

	err := r.db.QueryRow(ctx, query,
		a.PropertiesAssetsID, images, a.CoverImage,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления записи изображений: %w", err)
	}
	return nil
}

func (r *propertyAssetsRepo) DeleteByPropertyID(ctx context.Context, propertieID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM properties_assets WHERE propertie_id = $1`, propertieID)
	if err != nil {
		return fmt.Errorf("ошибка удаления записей изображений: %w", err)
	}
	return nil
}
