// properties.go — публичные обработчики каталога /api/v1/properties.
// Список с фильтрами витрины и карточка объекта.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/propidesk/listings-module/internal/api/errors"
	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/service"
)

// propertyCard — представление карточки объекта во внешнем API.
// Имена полей исторические (propertie_id, builded_area).
type propertyCard struct {
	PropertieID     int64          `json:"propertie_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Category        string         `json:"category"`
	Operation       string         `json:"operation"`
	Location        string         `json:"location"`
	Area            float64        `json:"area"`
	BuildedArea     float64        `json:"builded_area"`
	Price           float64        `json:"price"`
	Currency        string         `json:"currency"`
	CoverImage      string         `json:"cover_image"`
	Images          []string       `json:"images"`
	HasVideos       bool           `json:"has_videos"`
	Bathrooms       *float64       `json:"bathrooms,omitempty"`
	ParkingSpots    *int           `json:"parking_spots,omitempty"`
	CeilingHeight   *float64       `json:"ceiling_height,omitempty"`
	DockDoors       *int           `json:"dock_doors,omitempty"`
	AirConditioning int            `json:"air_conditioning"`
	OfficeArea      *float64       `json:"office_area,omitempty"`
	MaintenanceCost *float64       `json:"maintenance_cost,omitempty"`
	Features        map[string]any `json:"features"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// mapPropertyCard конвертирует domain model в API type.
func mapPropertyCard(card *model.PropertyCard) propertyCard {
	return propertyCard{
		PropertieID:     card.PropertieID,
		Title:           card.Title,
		Description:     card.Description,
		Category:        card.Category,
		Operation:       card.Operation,
		Location:        card.Location,
		Area:            card.Area,
		BuildedArea:     card.BuildedArea,
		Price:           card.Price,
		Currency:        card.Currency,
		CoverImage:      card.Cover,
		Images:          card.Images,
		HasVideos:       card.HasVideos,
		Bathrooms:       card.Bathrooms,
		ParkingSpots:    card.ParkingSpots,
		CeilingHeight:   card.CeilingHeight,
		DockDoors:       card.DockDoors,
		AirConditioning: card.AirConditioning,
		OfficeArea:      card.OfficeArea,
		MaintenanceCost: card.MaintenanceCost,
		Features:        card.Features,
		CreatedAt:       card.CreatedAt,
		UpdatedAt:       card.UpdatedAt,
	}
}

// mapPropertyCards конвертирует срез карточек.
func mapPropertyCards(cards []*model.PropertyCard) []propertyCard {
	items := make([]propertyCard, len(cards))
	for i, c := range cards {
		items[i] = mapPropertyCard(c)
	}
	return items
}

// ListProperties — GET /api/v1/properties.
// Возвращает каталог с применёнными фильтрами витрины.
// Query-параметры: category (вкладка категории), location и operation
// (параметры поисковой формы). Непустой location/operation означает
// отправку формы: категория в этом случае действует как параметр формы,
// а не как вкладка.
func (h *APIHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.FetchAll(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения каталога", "error", err)
		apierrors.InternalError(w, "Ошибка получения каталога")
		return
	}

	q := r.URL.Query()
	state := service.NewSearchState()

	params := service.SearchParams{
		Location:  q.Get("location"),
		Category:  q.Get("category"),
		Operation: q.Get("operation"),
	}
	if q.Get("location") != "" || q.Get("operation") != "" {
		state.SubmitSearch(params)
	} else {
		state.SelectCategory(q.Get("category"))
	}

	filtered := state.Apply(cards)

	writeJSON(w, http.StatusOK, listResponse{
		Items:   mapPropertyCards(filtered),
		Total:   len(filtered),
		Limit:   len(filtered),
		Offset:  0,
		HasMore: false,
	})
}

// GetProperty — GET /api/v1/properties/{id}.
// Возвращает карточку объекта с изображениями.
func (h *APIHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := parsePropertyID(r)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный идентификатор объекта")
		return
	}

	card, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Объект не найден")
			return
		}
		h.logger.Error("Ошибка получения объекта", "propertie_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка получения объекта")
		return
	}

	writeJSON(w, http.StatusOK, mapPropertyCard(card))
}

// parsePropertyID извлекает числовой идентификатор объекта из URL.
func parsePropertyID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
