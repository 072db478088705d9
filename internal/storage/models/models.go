package models

import (
	"fmt"
	"time"
)

// Pick представляет одну запись журнала: куда пал выбор при запуске
type Pick struct {
	ID          int64     `json:"id" db:"id"`
	PickedAt    time.Time `json:"picked_at" db:"picked_at"`
	LocalHour   int       `json:"local_hour" db:"local_hour"`
	LocalMinute int       `json:"local_minute" db:"local_minute"`
	Zone        string    `json:"zone" db:"zone"`
	ZoneHour    int       `json:"zone_hour" db:"zone_hour"`
	ZoneMinute  int       `json:"zone_minute" db:"zone_minute"`
	Candidates  int       `json:"candidates" db:"candidates"`
	Info        string    `json:"info" db:"info"`
}

// GetFormattedLocalTime возвращает локальное время запуска
func (p *Pick) GetFormattedLocalTime() string {
	return fmt.Sprintf("%d:%02d", p.LocalHour, p.LocalMinute)
}

// GetFormattedZoneTime возвращает время в выбранном поясе
func (p *Pick) GetFormattedZoneTime() string {
	return fmt.Sprintf("%d:%02d", p.ZoneHour, p.ZoneMinute)
}
