// catalog.go — читающий путь каталога: объекты + изображения.
// Два независимых запроса и соединение в памяти по propertie_id.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/repository"
)

// Prometheus-метрики каталога.
var (
	catalogFetchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lm_catalog_fetch_total",
		Help: "Общее количество выборок каталога.",
	})
	catalogFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lm_catalog_fetch_errors_total",
		Help: "Количество неуспешных выборок каталога.",
	})
	catalogFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lm_catalog_fetch_duration_seconds",
		Help:    "Длительность выборки каталога.",
		Buckets: prometheus.DefBuckets,
	})
	catalogDegradedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lm_catalog_degraded_records_total",
		Help: "Записи каталога с неразборной колонкой images.",
	})
)

// CatalogService — выборка каталога: объекты с изображениями.
type CatalogService struct {
	propRepo   repository.PropertyRepository
	assetsRepo repository.PropertyAssetsRepository
	logger     *slog.Logger
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(
	propRepo repository.PropertyRepository,
	assetsRepo repository.PropertyAssetsRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		propRepo:   propRepo,
		assetsRepo: assetsRepo,
		logger:     logger.With(slog.String("component", "catalog_service")),
	}
}

// FetchAll возвращает весь каталог, новые объекты первыми.
// Сначала properties, затем properties_assets; ошибка любого из двух
// запросов прерывает выборку целиком — частичный успех не отдаётся.
// Некорректная форма images отдельной записи каталог не прерывает:
// запись деградирует до пустого списка изображений.
func (s *CatalogService) FetchAll(ctx context.Context) ([]*model.PropertyCard, error) {
	start := time.Now()
	catalogFetchTotal.Inc()

	props, err := s.propRepo.ListAll(ctx)
	if err != nil {
		catalogFetchErrors.Inc()
		return nil, fmt.Errorf("выборка объектов: %w", err)
	}

	assets, err := s.assetsRepo.ListAll(ctx)
	if err != nil {
		catalogFetchErrors.Inc()
		return nil, fmt.Errorf("выборка изображений: %w", err)
	}

	// Соединение по propertie_id; при нескольких записях
	// изображений побеждает последняя
	byProperty := make(map[int64]*repository.AssetsRow, len(assets))
	for i := range assets {
		byProperty[assets[i].PropertieID] = &assets[i]
	}

	cards := make([]*model.PropertyCard, 0, len(props))
	for _, p := range props {
		cards = append(cards, s.buildCard(p, byProperty[p.PropertieID]))
	}

	catalogFetchDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("Каталог выбран",
		slog.Int("properties", len(props)),
		slog.Int("assets", len(assets)),
		slog.Duration("duration", time.Since(start)),
	)

	return cards, nil
}

// Get возвращает один объект каталога с изображениями.
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.PropertyCard, error) {
	p, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение объекта: %w", err)
	}

	a, err := s.assetsRepo.GetByPropertyID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("получение изображений объекта: %w", err)
	}

	var images model.ImageSet
	var assetCover string
	if a != nil {
		images = a.Images
		if a.CoverImage != nil {
			assetCover = *a.CoverImage
		}
	}
	return assembleCard(p, images, assetCover), nil
}

// buildCard разбирает сырую строку изображений и собирает карточку.
func (s *CatalogService) buildCard(p *model.Property, row *repository.AssetsRow) *model.PropertyCard {
	var images model.ImageSet
	var assetCover string
	if row != nil {
		var err error
		images, err = model.ParseImageSet(row.RawImages)
		if err != nil {
			// Деградация записи: изображения пустые, выборка продолжается
			catalogDegradedRecords.Inc()
			s.logger.Warn("Неразборная колонка images, запись деградирует",
				slog.Int64("propertie_id", p.PropertieID),
				slog.String("error", err.Error()),
			)
			images = model.ImageSet{}
		}
		if row.CoverImage != nil {
			assetCover = *row.CoverImage
		}
	}
	return assembleCard(p, images, assetCover)
}

// assembleCard разрешает обложку и строит итоговый список изображений.
func assembleCard(p *model.Property, images model.ImageSet, assetCover string) *model.PropertyCard {
	card := &model.PropertyCard{Property: *p}

	// Обложка: assets.cover_image → историческое properties.cover_image → placeholder
	switch {
	case assetCover != "":
		card.Cover = assetCover
	case p.CoverImage != nil && *p.CoverImage != "":
		card.Cover = *p.CoverImage
	default:
		card.Cover = model.PlaceholderImage
	}

	card.Images = images.URLs()

	// Обложка открывает список, если её там нет
	if card.Cover != model.PlaceholderImage && !contains(card.Images, card.Cover) {
		card.Images = append([]string{card.Cover}, card.Images...)
	}

	return card
}

func contains(items []string, target string) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}
