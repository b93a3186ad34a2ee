package service

import "testing"

// TestNormalize проверяет регистр, диакритику и пробелы.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Нижний регистр", in: "QUERETARO", want: "queretaro"},
		{name: "Диакритика", in: "Querétaro", want: "queretaro"},
		{name: "Ñ", in: "Cañada", want: "canada"},
		{name: "Обрезка пробелов", in: "  naves  ", want: "naves"},
		{name: "Схлопывание пробелов", in: "locales   comerciales", want: "locales comerciales"},
		{name: "Всё сразу", in: "  Ciudad   de  MÉXICO ", want: "ciudad de mexico"},
		{name: "Пустая строка", in: "", want: ""},
		{name: "Только пробелы", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, хотели %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeIdempotent проверяет идемпотентность нормализации.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Querétaro",
		"  Nave   Industrial  ",
		"LOCALES COMERCIALES",
		"Cañón del Sumidero",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize не идемпотентна для %q: %q != %q", in, once, twice)
		}
	}
}

// TestNormalizeDiacriticEquivalence: строки с диакритикой и без
// нормализуются в одно и то же значение.
func TestNormalizeDiacriticEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"Querétaro", "Queretaro"},
		{"México", "mexico"},
		{"Cañada", "CANADA"},
		{"San Luis Potosí", "san   luis potosi"},
	}
	for _, p := range pairs {
		if Normalize(p[0]) != Normalize(p[1]) {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q; хотели равенство",
				p[0], Normalize(p[0]), p[1], Normalize(p[1]))
		}
	}
}

func TestNormContains(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"Querétaro, Querétaro", "queretaro", true},
		{"Nave en Cañada", "CANADA", true},
		{"Guadalajara", "monterrey", false},
		{"cualquier texto", "", true},
	}
	for _, tt := range tests {
		if got := normContains(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("normContains(%q, %q) = %v, хотели %v",
				tt.haystack, tt.needle, got, tt.want)
		}
	}
}
