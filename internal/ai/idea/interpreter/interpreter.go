// Package interpreter разбирает текстовый ответ модели в структуру.
package interpreter

import (
	"encoding/json"
	"strings"
)

// RawFallback возвращается, когда ответ не удалось разобрать ни напрямую,
// ни после извлечения объекта из текста.
type RawFallback struct {
	Raw          string
	ParseError   string
	ExtractError string
}

func (f *RawFallback) Error() string {
	return "Failed to parse AI response"
}

// Interpret разбирает raw в T.
// 1) строгий разбор всего текста;
// 2) разбор подстроки от первой "{" до последней "}" включительно.
// check проверяет структуру; несоответствие схеме считается ошибкой разбора.
func Interpret[T any](raw string, check func(T) error) (T, *RawFallback) {
	v, err := decode(raw, check)
	if err == nil {
		return v, nil
	}
	fb := &RawFallback{Raw: raw, ParseError: err.Error()}

	candidate, ok := Extract(raw)
	if !ok {
		var zero T
		return zero, fb
	}
	v, err = decode(candidate, check)
	if err == nil {
		return v, nil
	}
	fb.ExtractError = err.Error()

	var zero T
	return zero, fb
}

// Extract возвращает текст от первой "{" до последней "}".
// Баланс скобок не проверяется.
func Extract(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func decode[T any](text string, check func(T) error) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return v, err
	}
	if check != nil {
		if err := check(v); err != nil {
			var zero T
			return zero, err
		}
	}
	return v, nil
}
