package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/repository"
)

// fakeLeadRepo — репозиторий обращений в памяти.
type fakeLeadRepo struct {
	leads     []*model.ContactLead
	createErr error
}

func (f *fakeLeadRepo) Create(_ context.Context, lead *model.ContactLead) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *lead
	f.leads = append(f.leads, &cp)
	return nil
}

func (f *fakeLeadRepo) List(_ context.Context, limit, offset int) ([]*model.ContactLead, error) {
	result := make([]*model.ContactLead, len(f.leads))
	copy(result, f.leads)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeLeadRepo) Count(_ context.Context) (int, error) {
	return len(f.leads), nil
}

var _ repository.ContactLeadRepository = (*fakeLeadRepo)(nil)

// TestSubmitLead: обращение сохраняется, ссылки построены.
func TestSubmitLead(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := NewContactService(repo, "5215512345678", "ventas@propidesk.mx", testLogger())

	pid := int64(42)
	result, err := svc.SubmitLead(context.Background(), ContactLeadInput{
		Name:        "Ana López",
		Email:       "ana@example.com",
		Phone:       "+52 55 1234 5678",
		Message:     "Me interesa la propiedad",
		PropertieID: &pid,
	})
	if err != nil {
		t.Fatalf("SubmitLead() ошибка: %v", err)
	}

	if len(repo.leads) != 1 {
		t.Fatalf("Сохранено %d обращений, хотели 1", len(repo.leads))
	}
	if result.Lead.ID == "" {
		t.Error("ID обращения не сгенерирован")
	}

	// wa.me диплинк с URL-кодированным текстом
	if !strings.HasPrefix(result.WhatsAppURL, "https://wa.me/5215512345678?text=") {
		t.Errorf("WhatsAppURL = %q", result.WhatsAppURL)
	}
	if !strings.Contains(result.WhatsAppURL, "%2342") { // "#42" кодируется
		t.Errorf("WhatsAppURL не содержит номер объекта: %q", result.WhatsAppURL)
	}
	if strings.Contains(result.WhatsAppURL, " ") {
		t.Errorf("WhatsAppURL содержит пробелы: %q", result.WhatsAppURL)
	}

	// mailto с темой
	if !strings.HasPrefix(result.MailtoURL, "mailto:ventas@propidesk.mx?") {
		t.Errorf("MailtoURL = %q", result.MailtoURL)
	}
}

// TestSubmitLead_Validation.
func TestSubmitLead_Validation(t *testing.T) {
	svc := NewContactService(&fakeLeadRepo{}, "", "", testLogger())

	tests := []struct {
		name  string
		input ContactLeadInput
	}{
		{name: "Без имени", input: ContactLeadInput{Email: "a@b.c", Message: "x"}},
		{name: "Без почты", input: ContactLeadInput{Name: "Ana", Message: "x"}},
		{name: "Без сообщения", input: ContactLeadInput{Name: "Ana", Email: "a@b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitLead(context.Background(), tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("SubmitLead() = %v, хотели ErrValidation", err)
			}
		})
	}
}

// TestSubmitLead_NoContactsConfigured: без настроенных контактов
// ссылки пустые, обращение всё равно сохраняется.
func TestSubmitLead_NoContactsConfigured(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := NewContactService(repo, "", "", testLogger())

	result, err := svc.SubmitLead(context.Background(), ContactLeadInput{
		Name: "Ana", Email: "a@b.c", Message: "Hola",
	})
	if err != nil {
		t.Fatalf("SubmitLead() ошибка: %v", err)
	}
	if result.WhatsAppURL != "" || result.MailtoURL != "" {
		t.Errorf("Ссылки не пустые: %q, %q", result.WhatsAppURL, result.MailtoURL)
	}
	if len(repo.leads) != 1 {
		t.Error("Обращение не сохранено")
	}
}

// TestWhatsAppLink.
func TestWhatsAppLink(t *testing.T) {
	svc := NewContactService(&fakeLeadRepo{}, "5215512345678", "", testLogger())

	link := svc.WhatsAppLink("Hola, ¿cómo está?")
	want := "https://wa.me/5215512345678?text=" + "Hola%2C+%C2%BFc%C3%B3mo+est%C3%A1%3F"
	if link != want {
		t.Errorf("WhatsAppLink() = %q, хотели %q", link, want)
	}

	// Без текста — без параметра
	if got := svc.WhatsAppLink(""); got != "https://wa.me/5215512345678" {
		t.Errorf("WhatsAppLink(\"\") = %q", got)
	}
}
