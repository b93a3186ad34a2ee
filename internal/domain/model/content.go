package model

import "time"

// BlogPost — запись блога.
// Хранится в таблице blog_posts.
type BlogPost struct {
	// ID — UUID записи
	ID string
	// Title — заголовок
	Title string
	// Excerpt — краткое описание для списка
	Excerpt string
	// Body — полный текст
	Body string
	// Category — рубрика
	Category string
	// CoverImage — URL обложки
	CoverImage string
	// HasVideos — есть ли видео в записи
	HasVideos bool
	// Published — опубликована ли запись
	Published bool
	// PublishedAt — время публикации (nil для черновиков)
	PublishedAt *time.Time
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// Testimonial — отзыв клиента.
type Testimonial struct {
	// ID — UUID записи
	ID string
	// ClientName — имя клиента
	ClientName string
	// ClientRole — должность / компания клиента
	ClientRole string
	// Comment — текст отзыва
	Comment string
	// Rating — оценка 1–5
	Rating int
	// ClientImage — URL фотографии клиента
	ClientImage string
	// PropertyImage — URL фотографии объекта
	PropertyImage string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// Agent — сотрудник агентства.
type Agent struct {
	// ID — UUID записи
	ID string
	// Name — имя
	Name string
	// Position — должность
	Position string
	// Experience — стаж (свободный текст)
	Experience string
	// Description — описание
	Description string
	// Image — URL фотографии
	Image string
	// Phone — телефон
	Phone string
	// WhatsApp — номер WhatsApp в международном формате
	WhatsApp string
	// Email — электронная почта
	Email string
	// Specialties — специализации
	Specialties []string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// ContactLead — обращение через контактную форму.
type ContactLead struct {
	// ID — UUID записи
	ID string
	// Name — имя отправителя
	Name string
	// Email — электронная почта отправителя
	Email string
	// Phone — телефон отправителя
	Phone string
	// Message — текст обращения
	Message string
	// PropertieID — объект недвижимости, о котором спрашивают (может быть nil)
	PropertieID *int64
	// CreatedAt — время создания записи
	CreatedAt time.Time
}
