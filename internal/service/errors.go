// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrAssetsWriteFailed — объект сохранён, но запись изображений
	// не удалась. Отката нет: объект остаётся в базе без изображений.
	ErrAssetsWriteFailed = errors.New("объект сохранён, но изображения записать не удалось")
)
