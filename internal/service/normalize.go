// normalize.go — нормализация строк для поиска.
// Сравнения каталога нечувствительны к регистру, диакритике
// и лишним пробелам: "Querétaro" и "  queretaro " эквивалентны.
package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize приводит строку к канонической форме для сравнения:
// нижний регистр, без диакритики (NFD + удаление Mn), без ведущих,
// хвостовых и повторяющихся пробелов. Идемпотентна.
func Normalize(s string) string {
	// Цепочка не потокобезопасна, создаём на каждый вызов
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		// Некорректный UTF-8 — сравниваем как есть
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// normContains сообщает, содержит ли haystack подстроку needle
// после нормализации обеих сторон.
func normContains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
