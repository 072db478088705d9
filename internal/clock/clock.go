package clock

import "time"

// Clock отдает текущее время приложению.
// Интерфейс позволяет подменять время в тестах.
type Clock interface {
	Now() time.Time
}

// Real использует системные часы и локальный часовой пояс
type Real struct{}

// Now возвращает текущее локальное время
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed всегда возвращает один и тот же момент
type Fixed struct {
	T time.Time
}

// Now возвращает замороженный момент
func (f Fixed) Now() time.Time {
	return f.T
}
