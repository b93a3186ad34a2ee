package model

import (
	"reflect"
	"testing"
)

// TestImageSetAdd проверяет добавление изображений под синтетическими ключами.
func TestImageSetAdd(t *testing.T) {
	s := ImageSet{}

	key := s.Add("https://cdn.example.com/a.jpg")
	if key != "1" {
		t.Errorf("Add() вернул ключ %q, ожидали %q", key, "1")
	}
	key = s.Add("https://cdn.example.com/b.jpg")
	if key != "2" {
		t.Errorf("Add() вернул ключ %q, ожидали %q", key, "2")
	}
	if len(s) != 2 {
		t.Errorf("len(s) = %d, ожидали 2", len(s))
	}
}

// TestImageSetRemove проверяет удаление по ключу.
func TestImageSetRemove(t *testing.T) {
	s := ImageSet{"1": "a.jpg", "2": "b.jpg"}

	if !s.Remove("1") {
		t.Error("Remove(\"1\") вернул false для существующего ключа")
	}
	if s.Remove("1") {
		t.Error("Повторный Remove(\"1\") вернул true")
	}
	if _, ok := s["1"]; ok {
		t.Error("Ключ \"1\" не удалён")
	}
	if s["2"] != "b.jpg" {
		t.Error("Remove удалил чужой ключ")
	}
}

// TestImageSetSortedKeys проверяет порядок ключей: числовые по
// возрастанию, затем остальные лексикографически.
func TestImageSetSortedKeys(t *testing.T) {
	s := ImageSet{
		"10":    "j.jpg",
		"2":     "b.jpg",
		"1":     "a.jpg",
		"extra": "x.jpg",
	}

	got := s.SortedKeys()
	want := []string{"1", "2", "10", "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, ожидали %v", got, want)
	}
}

// TestImageSetFirstURL проверяет выбор первого URL в порядке ключей.
func TestImageSetFirstURL(t *testing.T) {
	tests := []struct {
		name string
		set  ImageSet
		want string
	}{
		{
			name: "Пустой набор",
			set:  ImageSet{},
			want: "",
		},
		{
			name: "Первый числовой ключ",
			set:  ImageSet{"2": "b.jpg", "1": "a.jpg"},
			want: "a.jpg",
		},
		{
			name: "Пустые значения пропускаются",
			set:  ImageSet{"1": "", "2": "b.jpg"},
			want: "b.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.FirstURL(); got != tt.want {
				t.Errorf("FirstURL() = %q, ожидали %q", got, tt.want)
			}
		})
	}
}

// TestParseImageSet проверяет разбор трёх исторических форм колонки images.
func TestParseImageSet(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ImageSet
		wantErr bool
	}{
		{
			name: "Объект ключ → URL",
			raw:  `{"1":"a.jpg","2":"b.jpg"}`,
			want: ImageSet{"1": "a.jpg", "2": "b.jpg"},
		},
		{
			name: "Объект с пустыми значениями",
			raw:  `{"1":"a.jpg","2":""}`,
			want: ImageSet{"1": "a.jpg"},
		},
		{
			name: "Строка с сериализованным объектом",
			raw:  `"{\"1\":\"a.jpg\"}"`,
			want: ImageSet{"1": "a.jpg"},
		},
		{
			name: "Строка с сериализованным массивом",
			raw:  `"[\"a.jpg\",\"b.jpg\"]"`,
			want: ImageSet{"1": "a.jpg", "2": "b.jpg"},
		},
		{
			name: "Голый массив",
			raw:  `["a.jpg","b.jpg"]`,
			want: ImageSet{"1": "a.jpg", "2": "b.jpg"},
		},
		{
			name: "Пустой вход",
			raw:  "",
			want: ImageSet{},
		},
		{
			name: "Пустая строка внутри",
			raw:  `""`,
			want: ImageSet{},
		},
		{
			name:    "Число — неизвестная форма",
			raw:     `42`,
			wantErr: true,
		},
		{
			name:    "Мусор внутри строки",
			raw:     `"not json"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImageSet([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseImageSet(%q) не вернул ошибку", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseImageSet(%q) вернул ошибку: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseImageSet(%q) = %v, ожидали %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestImageSetURLs проверяет список URL в порядке ключей.
func TestImageSetURLs(t *testing.T) {
	s := ImageSet{"3": "c.jpg", "1": "a.jpg", "2": ""}

	got := s.URLs()
	want := []string{"a.jpg", "c.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, ожидали %v", got, want)
	}
}
