package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ImageSet — набор изображений объекта: ключ → URL.
// Ключи синтетические ("1", "2", ...), хранится как JSONB-объект
// в колонке properties_assets.images.
type ImageSet map[string]string

// Add добавляет URL под следующим синтетическим ключом (len+1)
// и возвращает этот ключ.
func (s ImageSet) Add(url string) string {
	key := strconv.Itoa(len(s) + 1)
	s[key] = url
	return key
}

// Remove удаляет изображение по ключу. Возвращает true,
// если ключ присутствовал.
func (s ImageSet) Remove(key string) bool {
	if _, ok := s[key]; !ok {
		return false
	}
	delete(s, key)
	return true
}

// SortedKeys возвращает ключи набора: числовые ключи по возрастанию,
// затем остальные лексикографически.
func (s ImageSet) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// URLs возвращает URL изображений в порядке SortedKeys.
func (s ImageSet) URLs() []string {
	keys := s.SortedKeys()
	urls := make([]string, 0, len(keys))
	for _, k := range keys {
		if s[k] != "" {
			urls = append(urls, s[k])
		}
	}
	return urls
}

// FirstURL возвращает первый URL в порядке ключей или пустую строку.
func (s ImageSet) FirstURL() string {
	for _, k := range s.SortedKeys() {
		if s[k] != "" {
			return s[k]
		}
	}
	return ""
}

// ParseImageSet разбирает значение колонки images. Исторически в ней
// встречаются три формы: JSONB-объект ключ → URL, строка с
// сериализованным внутри JSON-объектом и голый массив URL.
// Пустые значения отбрасываются, для массива ключи синтезируются.
func ParseImageSet(raw []byte) (ImageSet, error) {
	if len(raw) == 0 {
		return ImageSet{}, nil
	}

	// Обычная форма: объект ключ → URL
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err == nil {
		return cleanImageSet(obj), nil
	}

	// Строка с сериализованным JSON внутри
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if inner == "" {
			return ImageSet{}, nil
		}
		if err := json.Unmarshal([]byte(inner), &obj); err == nil {
			return cleanImageSet(obj), nil
		}
		var arr []string
		if err := json.Unmarshal([]byte(inner), &arr); err == nil {
			return imageSetFromSlice(arr), nil
		}
		return nil, fmt.Errorf("неизвестная форма images внутри строки: %q", inner)
	}

	// Голый массив URL
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return imageSetFromSlice(arr), nil
	}

	return nil, fmt.Errorf("неизвестная форма images: %s", raw)
}

// cleanImageSet отбрасывает пустые значения.
func cleanImageSet(m map[string]string) ImageSet {
	s := make(ImageSet, len(m))
	for k, v := range m {
		if v != "" {
			s[k] = v
		}
	}
	return s
}

// imageSetFromSlice синтезирует ключи "1".."n" для массива URL.
func imageSetFromSlice(urls []string) ImageSet {
	s := make(ImageSet, len(urls))
	for _, u := range urls {
		if u != "" {
			s.Add(u)
		}
	}
	return s
}

// PropertyAssets — изображения объекта недвижимости.
// Хранится в таблице properties_assets. На практике одна запись
// на объект; уникального ограничения по propertie_id в схеме нет.
type PropertyAssets struct {
	// PropertiesAssetsID — идентификатор записи (BIGSERIAL)
	PropertiesAssetsID int64
	// PropertieID — идентификатор объекта недвижимости
	PropertieID int64
	// Images — набор изображений (ключ → URL)
	Images ImageSet
	// CoverImage — URL обложки (может быть nil)
	CoverImage *string
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
