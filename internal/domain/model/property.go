package model

import "time"

// Категории объектов недвижимости.
const (
	CategoryNaves    = "naves"
	CategoryCasas    = "casas"
	CategoryLocales  = "locales comerciales"
	CategoryOficinas = "oficinas"
	CategoryTerrenos = "terrenos"
	CategoryAll      = "all"
)

// Типы операций.
const (
	OperationSale = "sale"
	OperationRent = "rent"
	OperationAll  = "all"
)

// Валюты.
const (
	CurrencyMXN = "MXN"
	CurrencyUSD = "USD"
)

// PlaceholderImage — обложка по умолчанию, когда у объекта нет изображений.
const PlaceholderImage = "/placeholder-property.jpg"

// Property — объект недвижимости.
// Хранится в таблице properties. Имена колонок исторические
// (propertie_id, builded_area) и сохраняются во внешнем API.
type Property struct {
	// PropertieID — идентификатор объекта (BIGSERIAL)
	PropertieID int64
	// Title — заголовок объявления
	Title string
	// Description — описание
	Description string
	// Category — категория (naves, casas, locales comerciales, oficinas, terrenos)
	Category string
	// Operation — тип операции (sale, rent)
	Operation string
	// Location — расположение (город, штат)
	Location string
	// Area — площадь участка, м²
	Area float64
	// BuildedArea — площадь застройки, м²
	BuildedArea float64
	// Price — цена
	Price float64
	// Currency — валюта (MXN, USD)
	Currency string
	// CoverImage — историческое inline-поле обложки, fallback
	CoverImage *string
	// HasVideos — есть ли видео у объекта
	HasVideos bool
	// Bathrooms — количество санузлов (может быть nil)
	Bathrooms *float64
	// ParkingSpots — количество парковочных мест (может быть nil)
	ParkingSpots *int
	// CeilingHeight — высота потолков, м (может быть nil)
	CeilingHeight *float64
	// DockDoors — количество погрузочных доков (может быть nil)
	DockDoors *int
	// AirConditioning — количество кондиционеров
	AirConditioning int
	// OfficeArea — площадь офисной части, м² (может быть nil)
	OfficeArea *float64
	// MaintenanceCost — стоимость обслуживания (может быть nil)
	MaintenanceCost *float64
	// Features — открытый набор дополнительных атрибутов
	Features map[string]any
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// PropertyCard — объект недвижимости вместе с разрешёнными
// изображениями: результат соединения properties и properties_assets.
type PropertyCard struct {
	Property
	// Cover — разрешённая обложка: cover_image из assets →
	// историческое поле properties.cover_image → placeholder
	Cover string
	// Images — список URL изображений в порядке ключей
	Images []string
}
