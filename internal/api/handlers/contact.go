// contact.go — обработчики контактной воронки.
// POST /api/v1/contact — публичная отправка обращения.
// GET /api/v1/admin/leads — список обращений для админки.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/propidesk/listings-module/internal/api/errors"
	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/service"
)

// contactLead — представление обращения во внешнем API.
type contactLead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Message     string    `json:"message"`
	PropertieID *int64    `json:"propertie_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func mapContactLead(l *model.ContactLead) contactLead {
	return contactLead{
		ID:          l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		Message:     l.Message,
		PropertieID: l.PropertieID,
		CreatedAt:   l.CreatedAt,
	}
}

// leadResponse — ответ на отправку обращения: сохранённое обращение
// плюс готовые ссылки для связи.
type leadResponse struct {
	Lead        contactLead `json:"lead"`
	WhatsAppURL string      `json:"whatsapp_url,omitempty"`
	MailtoURL   string      `json:"mailto_url,omitempty"`
}

// SubmitLead — POST /api/v1/contact.
// Сохраняет обращение и возвращает ссылки WhatsApp и mailto.
func (h *APIHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var input service.ContactLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	result, err := h.contact.SubmitLead(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка сохранения обращения", "error", err)
		apierrors.InternalError(w, "Ошибка сохранения обращения")
		return
	}

	writeJSON(w, http.StatusCreated, leadResponse{
		Lead:        mapContactLead(result.Lead),
		WhatsAppURL: result.WhatsAppURL,
		MailtoURL:   result.MailtoURL,
	})
}

// ListLeads — GET /api/v1/admin/leads.
func (h *APIHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationDefaults(r)

	leads, total, err := h.contact.ListLeads(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Ошибка получения обращений", "error", err)
		apierrors.InternalError(w, "Ошибка получения обращений")
		return
	}

	items := make([]contactLead, len(leads))
	for i, l := range leads {
		items[i] = mapContactLead(l)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	})
}
