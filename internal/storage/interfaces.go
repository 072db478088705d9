package storage

import (
	"context"

	"github.com/region23/apero/internal/storage/models"
)

// PickRepository определяет интерфейс журнала запусков
type PickRepository interface {
	SavePick(ctx context.Context, pick *models.Pick) error
	RecentPicks(ctx context.Context, limit int) ([]*models.Pick, error)
	CountPicksByZone(ctx context.Context) (map[string]int, error)
}

// Storage объединяет репозитории в единый интерфейс
type Storage interface {
	PickRepository
	Close() error
	Ping(ctx context.Context) error
}
