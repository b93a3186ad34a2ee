// properties.go — сервис записи объектов недвижимости.
// Запись двухфазная и без транзакции: сначала строка properties,
// затем строка properties_assets. Откат фазы не предусмотрен —
// неуспех второй фазы оставляет объект без изображений и
// сигнализируется отдельной ошибкой ErrAssetsWriteFailed.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/repository"
)

// CreatePropertyInput — форма создания объекта. Числовые поля приходят
// строками, как их отдаёт форма админки: обязательные при пустом или
// неразборном значении становятся 0, необязательные — NULL.
type CreatePropertyInput struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	Operation       string            `json:"operation"`
	Location        string            `json:"location"`
	Area            string            `json:"area"`
	BuildedArea     string            `json:"builded_area"`
	Price           string            `json:"price"`
	Currency        string            `json:"currency"`
	HasVideos       bool              `json:"has_videos"`
	Bathrooms       string            `json:"bathrooms"`
	ParkingSpots    string            `json:"parking_spots"`
	CeilingHeight   string            `json:"ceiling_height"`
	DockDoors       string            `json:"dock_doors"`
	AirConditioning string            `json:"air_conditioning"`
	OfficeArea      string            `json:"office_area"`
	MaintenanceCost string            `json:"maintenance_cost"`
	Features        map[string]any    `json:"features"`
	Images          map[string]string `json:"images"`
	CoverImage      string            `json:"cover_image"`
}

// UpdatePropertyInput — форма обновления объекта. Семантика числовых
// полей та же, что и у CreatePropertyInput.
type UpdatePropertyInput struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	Operation       string            `json:"operation"`
	Location        string            `json:"location"`
	Area            string            `json:"area"`
	BuildedArea     string            `json:"builded_area"`
	Price           string            `json:"price"`
	Currency        string            `json:"currency"`
	HasVideos       bool              `json:"has_videos"`
	Bathrooms       string            `json:"bathrooms"`
	ParkingSpots    string            `json:"parking_spots"`
	CeilingHeight   string            `json:"ceiling_height"`
	DockDoors       string            `json:"dock_doors"`
	AirConditioning string            `json:"air_conditioning"`
	OfficeArea      string            `json:"office_area"`
	MaintenanceCost string            `json:"maintenance_cost"`
	Features        map[string]any    `json:"features"`
	Images          map[string]string `json:"images"`
	CoverImage      string            `json:"cover_image"`
}

// PropertyService — сервис записи объектов недвижимости.
type PropertyService struct {
	propRepo   repository.PropertyRepository
	assetsRepo repository.PropertyAssetsRepository
	logger     *slog.Logger
}

// NewPropertyService создаёт сервис записи объектов.
func NewPropertyService(
	propRepo repository.PropertyRepository,
	assetsRepo repository.PropertyAssetsRepository,
	logger *slog.Logger,
) *PropertyService {
	return &PropertyService{
		propRepo:   propRepo,
		assetsRepo: assetsRepo,
		logger:     logger.With(slog.String("component", "property_service")),
	}
}

// --- Разбор числовых полей формы ---

// parseRequiredFloat — обязательное числовое поле: пустое или
// неразборное значение становится 0.
func parseRequiredFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseOptionalFloat — необязательное числовое поле: пустое или
// неразборное значение становится NULL.
func parseOptionalFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseOptionalInt — необязательное целое поле, семантика как у
// parseOptionalFloat.
func parseOptionalInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

// parseRequiredInt — обязательное целое поле, пустое или неразборное → 0.
func parseRequiredInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// validateInput проверяет обязательные текстовые поля и допустимость
// категории, операции и валюты.
func validateInput(title, category, operation, currency string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: заголовок обязателен", ErrValidation)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: категория обязательна", ErrValidation)
	}
	if operation != model.OperationSale && operation != model.OperationRent {
		return fmt.Errorf("%w: операция должна быть sale или rent", ErrValidation)
	}
	if currency != model.CurrencyMXN && currency != model.CurrencyUSD {
		return fmt.Errorf("%w: валюта должна быть MXN или USD", ErrValidation)
	}
	return nil
}

// buildProperty преобразует поля формы в модель.
func buildProperty(title, description, category, operation, location,
	area, buildedArea, price, currency string, hasVideos bool,
	bathrooms, parkingSpots, ceilingHeight, dockDoors, airConditioning,
	officeArea, maintenanceCost string, features map[string]any,
) *model.Property {
	return &model.Property{
		Title:           strings.TrimSpace(title),
		Description:     description,
		Category:        category,
		Operation:       operation,
		Location:        strings.TrimSpace(location),
		Area:            parseRequiredFloat(area),
		BuildedArea:     parseRequiredFloat(buildedArea),
		Price:           parseRequiredFloat(price),
		Currency:        currency,
		HasVideos:       hasVideos,
		Bathrooms:       parseOptionalFloat(bathrooms),
		ParkingSpots:    parseOptionalInt(parkingSpots),
		CeilingHeight:   parseOptionalFloat(ceilingHeight),
		DockDoors:       parseOptionalInt(dockDoors),
		AirConditioning: parseRequiredInt(airConditioning),
		OfficeArea:      parseOptionalFloat(officeArea),
		MaintenanceCost: parseOptionalFloat(maintenanceCost),
		Features:        features,
	}
}

// Create создаёт объект и, при наличии изображений или обложки,
// запись properties_assets. Неуспех первой фазы прерывает всё;
// неуспех второй оставляет объект в базе и возвращает
// ErrAssetsWriteFailed вместе с уже сохранённым объектом.
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (*model.Property, error) {
	if err := validateInput(input.Title, input.Category, input.Operation, input.Currency); err != nil {
		return nil, err
	}

	p := buildProperty(input.Title, input.Description, input.Category, input.Operation,
		input.Location, input.Area, input.BuildedArea, input.Price, input.Currency,
		input.HasVideos, input.Bathrooms, input.ParkingSpots, input.CeilingHeight,
		input.DockDoors, input.AirConditioning, input.OfficeArea, input.MaintenanceCost,
		input.Features)

	// Фаза 1: строка properties
	if err := s.propRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("создание объекта: %w", err)
	}

	s.logger.Info("Объект создан",
		slog.Int64("propertie_id", p.PropertieID),
		slog.String("title", p.Title),
	)

	// Фаза 2: строка properties_assets (только при наличии изображений)
	images := model.ImageSet(input.Images)
	cover := resolveCover(input.CoverImage, images)
	if len(images) == 0 && cover == "" {
		return p, nil
	}

	a := &model.PropertyAssets{
		PropertieID: p.PropertieID,
		Images:      images,
	}
	if cover != "" {
		a.CoverImage = &cover
	}
	if err := s.assetsRepo.Create(ctx, a); err != nil {
		// Объект уже в базе, отката нет
		s.logger.Error("Объект сохранён, но запись изображений не удалась",
			slog.Int64("propertie_id", p.PropertieID),
			slog.String("error", err.Error()),
		)
		return p, fmt.Errorf("%w: %w", ErrAssetsWriteFailed, err) //nolint:errorlint // намеренный двойной wrap
	}

	return p, nil
}

// Update обновляет объект, затем запись изображений: существующая
// обновляется на месте, отсутствующая создаётся. Транзакции между
// фазами нет.
func (s *PropertyService) Update(ctx context.Context, id int64, input UpdatePropertyInput) (*model.Property, error) {
	if err := validateInput(input.Title, input.Category, input.Operation, input.Currency); err != nil {
		return nil, err
	}

	p := buildProperty(input.Title, input.Description, input.Category, input.Operation,
		input.Location, input.Area, input.BuildedArea, input.Price, input.Currency,
		input.HasVideos, input.Bathrooms, input.ParkingSpots, input.CeilingHeight,
		input.DockDoors, input.AirConditioning, input.OfficeArea, input.MaintenanceCost,
		input.Features)
	p.PropertieID = id

	// Фаза 1: строка properties
	if err := s.propRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление объекта: %w", err)
	}

	s.logger.Info("Объект обновлён",
		slog.Int64("propertie_id", id),
	)

	// Фаза 2: строка properties_assets
	images := model.ImageSet(input.Images)
	cover := resolveCover(input.CoverImage, images)

	existing, err := s.assetsRepo.GetByPropertyID(ctx, id)
	switch {
	case err == nil:
		existing.Images = images
		existing.CoverImage = nil
		if cover != "" {
			existing.CoverImage = &cover
		}
		if err := s.assetsRepo.Update(ctx, existing); err != nil {
			s.logger.Error("Объект обновлён, но запись изображений не удалась",
				slog.Int64("propertie_id", id),
				slog.String("error", err.Error()),
			)
			return p, fmt.Errorf("%w: %w", ErrAssetsWriteFailed, err) //nolint:errorlint // намеренный двойной wrap
		}
	case errors.Is(err, repository.ErrNotFound):
		if len(images) == 0 && cover == "" {
			break
		}
		a := &model.PropertyAssets{PropertieID: id, Images: images}
		if cover != "" {
			a.CoverImage = &cover
		}
		if err := s.assetsRepo.Create(ctx, a); err != nil {
			s.logger.Error("Объект обновлён, но запись изображений не удалась",
				slog.Int64("propertie_id", id),
				slog.String("error", err.Error()),
			)
			return p, fmt.Errorf("%w: %w", ErrAssetsWriteFailed, err) //nolint:errorlint // намеренный двойной wrap
		}
	default:
		return p, fmt.Errorf("%w: %w", ErrAssetsWriteFailed, err) //nolint:errorlint // намеренный двойной wrap
	}

	return p, nil
}

// Delete удаляет объект: сначала записи изображений, затем сам объект.
// Неуспех удаления изображений прерывает операцию до удаления объекта.
func (s *PropertyService) Delete(ctx context.Context, id int64) error {
	if err := s.assetsRepo.DeleteByPropertyID(ctx, id); err != nil {
		return fmt.Errorf("удаление изображений объекта: %w", err)
	}

	if err := s.propRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление объекта: %w", err)
	}

	s.logger.Info("Объект удалён",
		slog.Int64("propertie_id", id),
	)
	return nil
}

// AddImage добавляет URL в набор изображений объекта и сразу
// записывает новое состояние. Если обложки нет — добавленное
// изображение становится обложкой.
func (s *PropertyService) AddImage(ctx context.Context, id int64, url string) (*model.PropertyAssets, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: URL изображения обязателен", ErrValidation)
	}

	a, err := s.assetsRepo.GetByPropertyID(ctx, id)
	switch {
	case err == nil:
		a.Images.Add(url)
		if a.CoverImage == nil || *a.CoverImage == "" {
			a.CoverImage = &url
		}
		if err := s.assetsRepo.Update(ctx, a); err != nil {
			return nil, fmt.Errorf("запись изображений: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		// Проверяем, что сам объект существует
		if _, err := s.propRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("получение объекта: %w", err)
		}
		a = &model.PropertyAssets{
			PropertieID: id,
			Images:      model.ImageSet{},
			CoverImage:  &url,
		}
		a.Images.Add(url)
		if err := s.assetsRepo.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("запись изображений: %w", err)
		}
	default:
		return nil, fmt.Errorf("получение изображений объекта: %w", err)
	}

	s.logger.Info("Изображение добавлено",
		slog.Int64("propertie_id", id),
		slog.Int("images", len(a.Images)),
	)
	return a, nil
}

// RemoveImage удаляет изображение по ключу и сразу записывает новое
// состояние, не дожидаясь отправки формы. Если удалена обложка —
// обложкой становится первый оставшийся URL, при пустом наборе
// обложка сбрасывается.
func (s *PropertyService) RemoveImage(ctx context.Context, id int64, key string) (*model.PropertyAssets, error) {
	a, err := s.assetsRepo.GetByPropertyID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение изображений объекта: %w", err)
	}

	removed := a.Images[key]
	if !a.Images.Remove(key) {
		return nil, fmt.Errorf("%w: изображение с ключом %q", ErrNotFound, key)
	}

	// Пересчёт обложки при удалении текущей
	if a.CoverImage != nil && *a.CoverImage == removed {
		a.CoverImage = nil
		if first := a.Images.FirstURL(); first != "" {
			a.CoverImage = &first
		}
	}

	if err := s.assetsRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("запись изображений: %w", err)
	}

	s.logger.Info("Изображение удалено",
		slog.Int64("propertie_id", id),
		slog.String("key", key),
		slog.Int("images", len(a.Images)),
	)
	return a, nil
}

// resolveCover выбирает обложку: явная из формы либо первый URL набора.
// Пустой набор изображений означает отсутствие обложки, явное поле
// формы в этом случае игнорируется.
func resolveCover(explicit string, images model.ImageSet) string {
	if len(images) == 0 {
		return ""
	}
	if explicit != "" {
		return explicit
	}
	return images.FirstURL()
}
