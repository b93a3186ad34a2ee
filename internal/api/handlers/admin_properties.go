// admin_properties.go — обработчики /api/v1/admin/properties.
// CRUD объектов недвижимости и операции с изображениями.
// Доступ ограничен на уровне маршрутов: JWT + роль admin для мутаций.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/propidesk/listings-module/internal/api/errors"
	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/service"
)

// propertyAssets — представление записи изображений во внешнем API.
type propertyAssets struct {
	PropertieID int64             `json:"propertie_id"`
	Images      map[string]string `json:"images"`
	CoverImage  string            `json:"cover_image,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// mapPropertyAssets конвертирует domain model в API type.
func mapPropertyAssets(a *model.PropertyAssets) propertyAssets {
	result := propertyAssets{
		PropertieID: a.PropertieID,
		Images:      a.Images,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.CoverImage != nil {
		result.CoverImage = *a.CoverImage
	}
	if result.Images == nil {
		result.Images = map[string]string{}
	}
	return result
}

// mapProperty конвертирует объект без изображений (ответ мутаций).
func mapProperty(p *model.Property) propertyCard {
	card := mapPropertyCard(&model.PropertyCard{Property: *p})
	if p.CoverImage != nil {
		card.CoverImage = *p.CoverImage
	}
	card.Images = []string{}
	return card
}

// ListAdminProperties — GET /api/v1/admin/properties.
// Полный каталог для админки, включая объекты с деградировавшими
// записями изображений.
func (h *APIHandler) ListAdminProperties(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.FetchAll(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения каталога", "error", err)
		apierrors.InternalError(w, "Ошибка получения каталога")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:   mapPropertyCards(cards),
		Total:   len(cards),
		Limit:   len(cards),
		Offset:  0,
		HasMore: false,
	})
}

// CreateProperty — POST /api/v1/admin/properties.
// Двухфазное создание: сначала запись объекта, затем запись изображений.
// Если вторая фаза упала — объект уже в базе, клиент получает
// ASSETS_WRITE_FAILED и может повторить загрузку изображений.
func (h *APIHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePropertyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	p, err := h.properties.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrAssetsWriteFailed) {
			apierrors.AssetsWriteFailed(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания объекта", "error", err)
		apierrors.InternalError(w, "Ошибка создания объекта")
		return
	}

	writeJSON(w, http.StatusCreated, mapProperty(p))
}

// UpdateProperty — PUT /api/v1/admin/properties/{id}.
func (h *APIHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := parsePropertyID(r)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный идентификатор объекта")
		return
	}

	var input service.UpdatePropertyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	p, err := h.properties.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Объект не найден")
			return
		}
		if errors.Is(err, service.ErrAssetsWriteFailed) {
			apierrors.AssetsWriteFailed(w, err.Error())
			return
		}
		h.logger.Error("Ошибка обновления объекта", "propertie_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка обновления объекта")
		return
	}

	writeJSON(w, http.StatusOK, mapProperty(p))
}

// DeleteProperty — DELETE /api/v1/admin/properties/{id}.
// Сначала удаляется запись изображений, затем объект: при падении
// между фазами объект остаётся видимым и операцию можно повторить.
func (h *APIHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := parsePropertyID(r)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный идентификатор объекта")
		return
	}

	if err := h.properties.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Объект не найден")
			return
		}
		h.logger.Error("Ошибка удаления объекта", "propertie_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка удаления объекта")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// addImageRequest — тело запроса добавления изображения.
type addImageRequest struct {
	URL string `json:"url"`
}

// AddPropertyImage — POST /api/v1/admin/properties/{id}/images.
// Добавляет изображение со следующим порядковым ключом.
func (h *APIHandler) AddPropertyImage(w http.ResponseWriter, r *http.Request) {
	id, err := parsePropertyID(r)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный идентификатор объекта")
		return
	}

	var req addImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if req.URL == "" {
		apierrors.ValidationError(w, "URL изображения обязателен")
		return
	}

	assets, err := h.properties.AddImage(r.Context(), id, req.URL)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Объект не найден")
			return
		}
		h.logger.Error("Ошибка добавления изображения", "propertie_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка добавления изображения")
		return
	}

	writeJSON(w, http.StatusOK, mapPropertyAssets(assets))
}

// RemovePropertyImage — DELETE /api/v1/admin/properties/{id}/images/{key}.
// Удаляет изображение по ключу. Если удалённый URL был обложкой,
// обложка немедленно пересчитывается и записывается.
func (h *APIHandler) RemovePropertyImage(w http.ResponseWriter, r *http.Request) {
	id, err := parsePropertyID(r)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный идентификатор объекта")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		apierrors.ValidationError(w, "Ключ изображения обязателен")
		return
	}

	assets, err := h.properties.RemoveImage(r.Context(), id, key)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Изображение не найдено")
			return
		}
		h.logger.Error("Ошибка удаления изображения",
			"propertie_id", id, "key", key, "error", err)
		apierrors.InternalError(w, "Ошибка удаления изображения")
		return
	}

	writeJSON(w, http.StatusOK, mapPropertyAssets(assets))
}
