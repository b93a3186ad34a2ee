// search.go — фильтрация каталога и состояние поиска.
// Поиск по категории и свободный текстовый поиск взаимоисключающие:
// выбор категории сбрасывает текстовые параметры и наоборот.
package service

import (
	"github.com/propidesk/listings-module/internal/domain/model"
)

// SearchParams — параметры поисковой формы.
type SearchParams struct {
	// Location — текст поиска по расположению (а также заголовку и описанию)
	Location string
	// Category — категория из поисковой формы (подстрочное сравнение)
	Category string
	// Operation — тип операции (sale, rent, all)
	Operation string
}

// IsEmpty сообщает, задан ли хотя бы один параметр, сужающий выборку.
func (p SearchParams) IsEmpty() bool {
	return Normalize(p.Location) == "" &&
		(p.Category == "" || Normalize(p.Category) == model.CategoryAll) &&
		(p.Operation == "" || Normalize(p.Operation) == model.OperationAll)
}

// matchesParams проверяет объект против параметров поисковой формы.
func matchesParams(card *model.PropertyCard, p SearchParams) bool {
	if loc := Normalize(p.Location); loc != "" {
		if !normContains(card.Location, p.Location) &&
			!normContains(card.Title, p.Location) &&
			!normContains(card.Description, p.Location) {
			return false
		}
	}
	if !matchesCategory(card, p.Category) {
		return false
	}
	if op := Normalize(p.Operation); op != "" && op != model.OperationAll {
		if Normalize(card.Operation) != op {
			return false
		}
	}
	return true
}

// matchesCategory проверяет объект против выбранной категории.
// Подстрочное сравнение в обе стороны: метка "Locales" совпадает
// с категорией "locales comerciales" и наоборот.
func matchesCategory(card *model.PropertyCard, category string) bool {
	cat := Normalize(category)
	if cat == "" || cat == model.CategoryAll {
		return true
	}
	own := Normalize(card.Category)
	return normContains(own, cat) || normContains(cat, own)
}

// FilterByCategory возвращает объекты выбранной категории,
// порядок входа сохраняется.
func FilterByCategory(cards []*model.PropertyCard, category string) []*model.PropertyCard {
	result := make([]*model.PropertyCard, 0, len(cards))
	for _, c := range cards {
		if matchesCategory(c, category) {
			result = append(result, c)
		}
	}
	return result
}

// FilterByParams возвращает объекты, удовлетворяющие текстовым
// параметрам поиска, порядок входа сохраняется.
func FilterByParams(cards []*model.PropertyCard, p SearchParams) []*model.PropertyCard {
	result := make([]*model.PropertyCard, 0, len(cards))
	for _, c := range cards {
		if matchesParams(c, p) {
			result = append(result, c)
		}
	}
	return result
}

// SearchState — текущее состояние поиска каталога.
// Активен либо фильтр по категории, либо текстовый поиск, но не оба:
// SelectCategory сбрасывает параметры, SubmitSearch сбрасывает категорию.
type SearchState struct {
	category string
	params   SearchParams
}

// NewSearchState создаёт состояние без фильтров (категория "all").
func NewSearchState() *SearchState {
	return &SearchState{category: model.CategoryAll}
}

// Category возвращает текущую категорию.
func (st *SearchState) Category() string {
	return st.category
}

// Params возвращает текущие текстовые параметры.
func (st *SearchState) Params() SearchParams {
	return st.params
}

// SelectCategory выбирает категорию и сбрасывает текстовые параметры.
func (st *SearchState) SelectCategory(category string) {
	if Normalize(category) == "" {
		category = model.CategoryAll
	}
	st.category = category
	st.params = SearchParams{}
}

// SubmitSearch применяет текстовый поиск и сбрасывает категорию в "all".
func (st *SearchState) SubmitSearch(p SearchParams) {
	st.params = p
	st.category = model.CategoryAll
}

// Reset сбрасывает оба фильтра.
func (st *SearchState) Reset() {
	st.category = model.CategoryAll
	st.params = SearchParams{}
}

// Apply фильтрует объекты согласно активному фильтру.
func (st *SearchState) Apply(cards []*model.PropertyCard) []*model.PropertyCard {
	if Normalize(st.category) != model.CategoryAll {
		return FilterByCategory(cards, st.category)
	}
	return FilterByParams(cards, st.params)
}
