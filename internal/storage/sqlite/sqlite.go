package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/region23/apero/internal/storage/models"

	_ "modernc.org/sqlite"
)

// SQLiteStorage реализует интерфейс Storage для SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New открывает журнал в SQLite базе данных
func New(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite поддерживает только одно write-подключение
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	storage := &SQLiteStorage{db: db}

	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return storage, nil
}

// migrate выполняет миграции базы данных
func (s *SQLiteStorage) migrate() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS picks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			picked_at DATETIME NOT NULL,
			local_hour INTEGER NOT NULL,
			local_minute INTEGER NOT NULL,
			zone TEXT NOT NULL,
			zone_hour INTEGER NOT NULL,
			zone_minute INTEGER NOT NULL,
			candidates INTEGER NOT NULL DEFAULT 0,
			info TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_picks_picked_at ON picks(picked_at)`,
		`CREATE INDEX IF NOT EXISTS idx_picks_zone ON picks(zone)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

// Close закрывает подключение к базе данных
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping проверяет подключение к базе данных
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SavePick сохраняет запись журнала и проставляет ей ID
func (s *SQLiteStorage) SavePick(ctx context.Context, pick *models.Pick) error {
	query := `INSERT INTO picks (picked_at, local_hour, local_minute, zone, zone_hour, zone_minute, candidates, info)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		pick.PickedAt.UTC(), pick.LocalHour, pick.LocalMinute,
		pick.Zone, pick.ZoneHour, pick.ZoneMinute, pick.Candidates, pick.Info)
	if err != nil {
		return fmt.Errorf("failed to save pick: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get pick id: %w", err)
	}
	pick.ID = id

	return nil
}

// RecentPicks возвращает последние записи, новые первыми
func (s *SQLiteStorage) RecentPicks(ctx context.Context, limit int) ([]*models.Pick, error) {
	query := `SELECT id, picked_at, local_hour, local_minute, zone, zone_hour, zone_minute, candidates, info
			  FROM picks
			  ORDER BY id DESC
			  LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		pick := &models.Pick{}
		err := rows.Scan(&pick.ID, &pick.PickedAt, &pick.LocalHour, &pick.LocalMinute,
			&pick.Zone, &pick.ZoneHour, &pick.ZoneMinute, &pick.Candidates, &pick.Info)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return picks, nil
}

// CountPicksByZone возвращает, сколько раз выпадал каждый пояс
func (s *SQLiteStorage) CountPicksByZone(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT zone, COUNT(*) FROM picks GROUP BY zone`)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var zone string
		var n int
		if err := rows.Scan(&zone, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[zone] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return counts, nil
}
