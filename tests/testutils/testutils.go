package testutils

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/region23/apero/internal/clock"
	"github.com/region23/apero/internal/config"
	"github.com/region23/apero/internal/storage/sqlite"
	"github.com/region23/apero/pkg/logger"
)

// SetupTestDB создает in-memory SQLite базу данных для тестов
func SetupTestDB(t *testing.T) *sqlite.SQLiteStorage {
	t.Helper()
	storage, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		storage.Close()
	})

	return storage
}

// SetupTestLogger создает тестовый логгер, который ничего не печатает
func SetupTestLogger() *logger.Logger {
	return logger.NewWithWriter(logger.LevelDebug, io.Discard)
}

// SetupTestConfig возвращает конфигурацию по умолчанию для документа docPath
func SetupTestConfig(docPath string) *config.Config {
	return &config.Config{
		Document: config.DocumentConfig{Path: docPath},
		Log:      config.LogConfig{Level: "debug"},
		History:  config.HistoryConfig{Limit: 10},
		Telegram: config.TelegramConfig{Timeout: time.Second},
	}
}

// TestContext создает контекст для тестов
func TestContext() context.Context {
	return context.Background()
}

// ParisEvening момент, когда в Париже 18:00 (летнее время, UTC+2)
func ParisEvening() time.Time {
	return time.Date(2024, time.June, 21, 18, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
}

// FixedClock возвращает часы, остановленные на t
func FixedClock(t time.Time) clock.Clock {
	return clock.Fixed{T: t}
}

// WriteDocument сохраняет документ во временный файл и возвращает путь
func WriteDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apero.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

// DocumentFor строит вложенный документ, где у каждого пояса есть запись
func DocumentFor(t *testing.T, zones []string) string {
	t.Helper()
	root := map[string]interface{}{}
	for _, zone := range zones {
		segments := strings.Split(zone, "/")
		node := root
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[seg] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = "info about " + zone
	}
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}
	return string(data)
}

// AssertEqual проверяет равенство значений
func AssertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertNoError проверяет отсутствие ошибки
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// AssertError проверяет наличие ошибки
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error, got nil", msg)
	}
}

// AssertContains проверяет, что строка содержит подстроку
func AssertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: %q does not contain %q", msg, s, substr)
	}
}
