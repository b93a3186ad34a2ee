// contact.go — контактная воронка: сохранение обращений и построение
// ссылок WhatsApp (wa.me) и mailto.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/repository"
)

// ContactLeadInput — форма обращения с сайта.
type ContactLeadInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	PropertieID *int64 `json:"propertie_id"`
}

// LeadResult — сохранённое обращение вместе с контактными ссылками
// для фронтенда.
type LeadResult struct {
	Lead *model.ContactLead
	// WhatsAppURL — диплинк https://wa.me/<номер>?text=<текст>,
	// пустой если номер WhatsApp не настроен
	WhatsAppURL string
	// MailtoURL — ссылка mailto с темой и телом,
	// пустая если почта не настроена
	MailtoURL string
}

// ContactService — контактная воронка.
type ContactService struct {
	leadRepo repository.ContactLeadRepository
	// whatsApp — номер в международном формате без знаков (5215512345678)
	whatsApp string
	email    string
	logger   *slog.Logger
}

// NewContactService создаёт сервис контактной воронки.
func NewContactService(
	leadRepo repository.ContactLeadRepository,
	whatsApp, email string,
	logger *slog.Logger,
) *ContactService {
	return &ContactService{
		leadRepo: leadRepo,
		whatsApp: whatsApp,
		email:    email,
		logger:   logger.With(slog.String("component", "contact_service")),
	}
}

// SubmitLead сохраняет обращение и возвращает ссылки для связи.
func (s *ContactService) SubmitLead(ctx context.Context, input ContactLeadInput) (*LeadResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: имя обязательно", ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: почта обязательна", ErrValidation)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: сообщение обязательно", ErrValidation)
	}

	lead := &model.ContactLead{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Message:     input.Message,
		PropertieID: input.PropertieID,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("сохранение обращения: %w", err)
	}

	s.logger.Info("Обращение сохранено",
		slog.String("lead_id", lead.ID),
		slog.String("email", lead.Email),
	)

	return &LeadResult{
		Lead:        lead,
		WhatsAppURL: s.WhatsAppLink(whatsAppText(lead)),
		MailtoURL:   s.mailtoLink(lead),
	}, nil
}

// ListLeads возвращает страницу обращений и общее количество (админка).
func (s *ContactService) ListLeads(ctx context.Context, limit, offset int) ([]*model.ContactLead, int, error) {
	leads, err := s.leadRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение обращений: %w", err)
	}
	total, err := s.leadRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт обращений: %w", err)
	}
	return leads, total, nil
}

// WhatsAppLink строит диплинк https://wa.me/<номер>?text=<текст>.
// Возвращает пустую строку, если номер не настроен.
func (s *ContactService) WhatsAppLink(text string) string {
	if s.whatsApp == "" {
		return ""
	}
	link := "https://wa.me/" + s.whatsApp
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}

// whatsAppText — предзаполненный текст сообщения WhatsApp.
func whatsAppText(lead *model.ContactLead) string {
	if lead.PropertieID != nil {
		return fmt.Sprintf("Hola, soy %s. Me interesa la propiedad #%d. %s",
			lead.Name, *lead.PropertieID, lead.Message)
	}
	return fmt.Sprintf("Hola, soy %s. %s", lead.Name, lead.Message)
}

// mailtoLink строит ссылку mailto с темой и телом.
func (s *ContactService) mailtoLink(lead *model.ContactLead) string {
	if s.email == "" {
		return ""
	}
	subject := "Contacto desde el sitio"
	if lead.PropertieID != nil {
		subject = fmt.Sprintf("Contacto: propiedad #%d", *lead.PropertieID)
	}
	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", lead.Message)
	return "mailto:" + s.email + "?" + q.Encode()
}
