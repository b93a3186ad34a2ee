// content.go — обработчики контента сайта: блог, отзывы, сотрудники.
// Публичные endpoints отдают только опубликованное, админские — всё.
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

// blogPost — представление записи блога во внешнем API.
type blogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	Category    string     `json:"category"`
	CoverImage  string     `json:"cover_image"`
	HasVideos   bool       `json:"has_videos"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func mapBlogPost(p *model.BlogPost) blogPost {
	return blogPost{
		ID:          p.ID,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Body:        p.Body,
		Category:    p.Category,
		CoverImage:  p.CoverImage,
		HasVideos:   p.HasVideos,
		Published:   p.Published,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// testimonial — представление отзыва во внешнем API.
type testimonial struct {
	ID            string    `json:"id"`
	ClientName    string    `json:"client_name"`
	ClientRole    string    `json:"client_role"`
	Comment       string    `json:"comment"`
	Rating        int       `json:"rating"`
	ClientImage   string    `json:"client_image"`
	PropertyImage string    `json:"property_image"`
	CreatedAt     time.Time `json:"created_at"`
}

func mapTestimonial(t *model.Testimonial) testimonial {
	return testimonial{
		ID:            t.ID,
		ClientName:    t.ClientName,
		ClientRole:    t.ClientRole,
		Comment:       t.Comment,
		Rating:        t.Rating,
		ClientImage:   t.ClientImage,
		PropertyImage: t.PropertyImage,
		CreatedAt:     t.CreatedAt,
	}
}

// agent — представление сотрудника во внешнем API.
type agent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	Experience  string    `json:"experience"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Phone       string    `json:"phone"`
	WhatsApp    string    `json:"whatsapp"`
	Email       string    `json:"email"`
	Specialties []string  `json:"specialties"`
	CreatedAt   time.Time `json:"created_at"`
}

func mapAgent(a *model.Agent) agent {
	specialties := a.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return agent{
		ID:          a.ID,
		Name:        a.Name,
		Position:    a.Position,
		Experience:  a.Experience,
		Description: a.Description,
		Image:       a.Image,
		Phone:       a.Phone,
		WhatsApp:    a.WhatsApp,
		Email:       a.Email,
		Specialties: specialties,
		CreatedAt:   a.CreatedAt,
	}
}

// --- Блог ---

// ListBlogPosts — GET /api/v1/blog. Только опубликованные записи.
func (h *APIHandler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationDefaults(r)

	posts, err := h.content.ListPublishedPosts(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Ошибка получения записей блога", "error", err)
		apierrors.InternalError(w, "Ошибка получения записей блога")
		return
	}

	items := make([]blogPost, len(posts))
	for i, p := range posts {
		items[i] = mapBlogPost(p)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:   items,
		Total:   len(items),
		Limit:   limit,
		Offset:  offset,
		HasMore: len(items) == limit,
	})
}

// GetBlogPost — GET /api/v1/blog/{id}.
func (h *APIHandler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Запись блога не найдена")
			return
		}
		h.logger.Error("Ошибка получения записи блога", "post_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка получения записи блога")
		return
	}

	writeJSON(w, http.StatusOK, mapBlogPost(post))
}

// ListAdminBlogPosts — GET /api/v1/admin/blog. Включая черновики.
func (h *APIHandler) ListAdminBlogPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationDefaults(r)

	posts, err := h.content.ListAllPosts(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Ошибка получения записей блога", "error", err)
		apierrors.InternalError(w, "Ошибка получения записей блога")
		return
	}

	items := make([]blogPost, len(posts))
	for i, p := range posts {
		items[i] = mapBlogPost(p)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:   items,
		Total:   len(items),
		Limit:   limit,
		Offset:  offset,
		HasMore: len(items) == limit,
	})
}

// CreateBlogPost — POST /api/v1/admin/blog.
func (h *APIHandler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var input service.BlogPostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	post, err := h.content.CreatePost(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания записи блога", "error", err)
		apierrors.InternalError(w, "Ошибка создания записи блога")
		return
	}

	writeJSON(w, http.StatusCreated, mapBlogPost(post))
}

// UpdateBlogPost — PUT /api/v1/admin/blog/{id}.
func (h *APIHandler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input service.BlogPostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	post, err := h.content.UpdatePost(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Запись блога не найдена")
			return
		}
		h.logger.Error("Ошибка обновления записи блога", "post_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка обновления записи блога")
		return
	}

	writeJSON(w, http.StatusOK, mapBlogPost(post))
}

// DeleteBlogPost — DELETE /api/v1/admin/blog/{id}.
func (h *APIHandler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.content.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Запись блога не найдена")
			return
		}
		h.logger.Error("Ошибка удаления записи блога", "post_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка удаления записи блога")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Отзывы ---

// ListTestimonials — GET /api/v1/testimonials.
func (h *APIHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	list, err := h.content.ListTestimonials(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения отзывов", "error", err)
		apierrors.InternalError(w, "Ошибка получения отзывов")
		return
	}

	items := make([]testimonial, len(list))
	for i, t := range list {
		items[i] = mapTestimonial(t)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:   items,
		Total:   len(items),
		Limit:   len(items),
		Offset:  0,
		HasMore: false,
	})
}

// CreateTestimonial — POST /api/v1/admin/testimonials.
func (h *APIHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var input service.TestimonialInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	tm, err := h.content.CreateTestimonial(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания отзыва", "error", err)
		apierrors.InternalError(w, "Ошибка создания отзыва")
		return
	}

	writeJSON(w, http.StatusCreated, mapTestimonial(tm))
}

// DeleteTestimonial — DELETE /api/v1/admin/testimonials/{id}.
func (h *APIHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.content.DeleteTestimonial(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Отзыв не найден")
			return
		}
		h.logger.Error("Ошибка удаления отзыва", "testimonial_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка удаления отзыва")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Сотрудники ---

// ListAgents — GET /api/v1/agents.
func (h *APIHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	list, err := h.content.ListAgents(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения сотрудников", "error", err)
		apierrors.InternalError(w, "Ошибка получения сотрудников")
		return
	}

	items := make([]agent, len(list))
	for i, a := range list {
		items[i] = mapAgent(a)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:   items,
		Total:   len(items),
		Limit:   len(items),
		Offset:  0,
		HasMore: false,
	})
}

// CreateAgent — POST /api/v1/admin/agents.
func (h *APIHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var input service.AgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	a, err := h.content.CreateAgent(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания сотрудника", "error", err)
		apierrors.InternalError(w, "Ошибка создания сотрудника")
		return
	}

	writeJSON(w, http.StatusCreated, mapAgent(a))
}

// UpdateAgent — PUT /api/v1/admin/agents/{id}.
func (h *APIHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input service.AgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	a, err := h.content.UpdateAgent(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Сотрудник не найден")
			return
		}
		h.logger.Error("Ошибка обновления сотрудника", "agent_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка обновления сотрудника")
		return
	}

	writeJSON(w, http.StatusOK, mapAgent(a))
}

// DeleteAgent — DELETE /api/v1/admin/agents/{id}.
func (h *APIHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.content.DeleteAgent(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Сотрудник не найден")
			return
		}
		h.logger.Error("Ошибка удаления сотрудника", "agent_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка удаления сотрудника")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
