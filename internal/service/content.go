// content.go — сервис контента сайта: блог, отзывы, сотрудники.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/repository"
)

// ContentService — блог, отзывы и сотрудники.
type ContentService struct {
	blogRepo  repository.BlogPostRepository
	tmRepo    repository.TestimonialRepository
	agentRepo repository.AgentRepository
	logger    *slog.Logger
}

// NewContentService создаёт сервис контента.
func NewContentService(
	blogRepo repository.BlogPostRepository,
	tmRepo repository.TestimonialRepository,
	agentRepo repository.AgentRepository,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		blogRepo:  blogRepo,
		tmRepo:    tmRepo,
		agentRepo: agentRepo,
		logger:    logger.With(slog.String("component", "content_service")),
	}
}

// --- Блог ---

// BlogPostInput — форма создания и обновления записи блога.
type BlogPostInput struct {
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	Category   string `json:"category"`
	CoverImage string `json:"cover_image"`
	HasVideos  bool   `json:"has_videos"`
	Published  bool   `json:"published"`
}

// ListPublishedPosts возвращает опубликованные записи, новые первыми.
func (s *ContentService) ListPublishedPosts(ctx context.Context, limit, offset int) ([]*model.BlogPost, error) {
	posts, err := s.blogRepo.List(ctx, true, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("получение записей блога: %w", err)
	}
	return posts, nil
}

// ListAllPosts возвращает все записи, включая черновики (админка).
func (s *ContentService) ListAllPosts(ctx context.Context, limit, offset int) ([]*model.BlogPost, error) {
	posts, err := s.blogRepo.List(ctx, false, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("получение записей блога: %w", err)
	}
	return posts, nil
}

// GetPost возвращает запись блога по идентификатору.
func (s *ContentService) GetPost(ctx context.Context, id string) (*model.BlogPost, error) {
	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи блога: %w", err)
	}
	return post, nil
}

// CreatePost создаёт запись блога.
func (s *ContentService) CreatePost(ctx context.Context, input BlogPostInput) (*model.BlogPost, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: заголовок обязателен", ErrValidation)
	}

	post := &model.BlogPost{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(input.Title),
		Excerpt:    input.Excerpt,
		Body:       input.Body,
		Category:   input.Category,
		CoverImage: input.CoverImage,
		HasVideos:  input.HasVideos,
		Published:  input.Published,
	}
	if input.Published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.blogRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("создание записи блога: %w", err)
	}

	s.logger.Info("Запись блога создана",
		slog.String("post_id", post.ID),
		slog.Bool("published", post.Published),
	)
	return post, nil
}

// UpdatePost обновляет запись блога. Публикация черновика
// проставляет published_at.
func (s *ContentService) UpdatePost(ctx context.Context, id string, input BlogPostInput) (*model.BlogPost, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: заголовок обязателен", ErrValidation)
	}

	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи блога: %w", err)
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Excerpt = input.Excerpt
	post.Body = input.Body
	post.Category = input.Category
	post.CoverImage = input.CoverImage
	post.HasVideos = input.HasVideos
	if input.Published && !post.Published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	post.Published = input.Published

	if err := s.blogRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление записи блога: %w", err)
	}

	s.logger.Info("Запись блога обновлена", slog.String("post_id", id))
	return post, nil
}

// DeletePost удаляет запись блога.
func (s *ContentService) DeletePost(ctx context.Context, id string) error {
	if err := s.blogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление записи блога: %w", err)
	}
	s.logger.Info("Запись блога удалена", slog.String("post_id", id))
	return nil
}

// --- Отзывы ---

// TestimonialInput — форма создания отзыва.
type TestimonialInput struct {
	ClientName    string `json:"client_name"`
	ClientRole    string `json:"client_role"`
	Comment       string `json:"comment"`
	Rating        int    `json:"rating"`
	ClientImage   string `json:"client_image"`
	PropertyImage string `json:"property_image"`
}

// ListTestimonials возвращает все отзывы, новые первыми.
func (s *ContentService) ListTestimonials(ctx context.Context) ([]*model.Testimonial, error) {
	list, err := s.tmRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение отзывов: %w", err)
	}
	return list, nil
}

// CreateTestimonial создаёт отзыв.
func (s *ContentService) CreateTestimonial(ctx context.Context, input TestimonialInput) (*model.Testimonial, error) {
	if strings.TrimSpace(input.ClientName) == "" || strings.TrimSpace(input.Comment) == "" {
		return nil, fmt.Errorf("%w: имя клиента и текст отзыва обязательны", ErrValidation)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: оценка должна быть от 1 до 5", ErrValidation)
	}

	tm := &model.Testimonial{
		ID:            uuid.New().String(),
		ClientName:    strings.TrimSpace(input.ClientName),
		ClientRole:    input.ClientRole,
		Comment:       input.Comment,
		Rating:        input.Rating,
		ClientImage:   input.ClientImage,
		PropertyImage: input.PropertyImage,
	}
	if err := s.tmRepo.Create(ctx, tm); err != nil {
		return nil, fmt.Errorf("создание отзыва: %w", err)
	}

	s.logger.Info("Отзыв создан", slog.String("testimonial_id", tm.ID))
	return tm, nil
}

// DeleteTestimonial удаляет отзыв.
func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	if err := s.tmRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление отзыва: %w", err)
	}
	s.logger.Info("Отзыв удалён", slog.String("testimonial_id", id))
	return nil
}

// --- Сотрудники ---

// AgentInput — форма создания и обновления сотрудника.
type AgentInput struct {
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	Experience  string   `json:"experience"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Phone       string   `json:"phone"`
	WhatsApp    string   `json:"whatsapp"`
	Email       string   `json:"email"`
	Specialties []string `json:"specialties"`
}

// ListAgents возвращает всех сотрудников.
func (s *ContentService) ListAgents(ctx context.Context) ([]*model.Agent, error) {
	list, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение сотрудников: %w", err)
	}
	return list, nil
}

// CreateAgent создаёт сотрудника.
func (s *ContentService) CreateAgent(ctx context.Context, input AgentInput) (*model.Agent, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: имя сотрудника обязательно", ErrValidation)
	}

	a := &model.Agent{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Position:    input.Position,
		Experience:  input.Experience,
		Description: input.Description,
		Image:       input.Image,
		Phone:       input.Phone,
		WhatsApp:    input.WhatsApp,
		Email:       input.Email,
		Specialties: input.Specialties,
	}
	if err := s.agentRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("создание сотрудника: %w", err)
	}

	s.logger.Info("Сотрудник создан", slog.String("agent_id", a.ID))
	return a, nil
}

// UpdateAgent обновляет сотрудника.
func (s *ContentService) UpdateAgent(ctx context.Context, id string, input AgentInput) (*model.Agent, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: имя сотрудника обязательно", ErrValidation)
	}

	a, err := s.agentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	a.Name = strings.TrimSpace(input.Name)
	a.Position = input.Position
	a.Experience = input.Experience
	a.Description = input.Description
	a.Image = input.Image
	a.Phone = input.Phone
	a.WhatsApp = input.WhatsApp
	a.Email = input.Email
	a.Specialties = input.Specialties

	if err := s.agentRepo.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление сотрудника: %w", err)
	}

	s.logger.Info("Сотрудник обновлён", slog.String("agent_id", id))
	return a, nil
}

// DeleteAgent удаляет сотрудника.
func (s *ContentService) DeleteAgent(ctx context.Context, id string) error {
	if err := s.agentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление сотрудника: %w", err)
	}
	s.logger.Info("Сотрудник удалён", slog.String("agent_id", id))
	return nil
}
