package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry собирает метрики одного запуска.
// Отдельный реестр, чтобы в textfile не попадали метрики рантайма Go.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Метрики запуска
var (
	RunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apero_runs_total",
			Help: "Количество запусков по результату",
		},
		[]string{"status"},
	)

	RunDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apero_run_duration_seconds",
			Help:    "Длительность запуска в секундах",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Сколько часовых поясов сейчас показывают 18 часов
	Candidates = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "apero_candidates",
			Help: "Количество часовых поясов, где сейчас время аперитива",
		},
	)

	CatalogSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "apero_catalog_zones",
			Help: "Количество часовых поясов в каталоге",
		},
	)

	LookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apero_lookups_total",
			Help: "Количество поисков в документе с информацией",
		},
		[]string{"result"},
	)

	ErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apero_errors_total",
			Help: "Количество ошибок по компонентам",
		},
		[]string{"component", "error_type"},
	)
)

// RecordRun записывает результат запуска и его длительность
func RecordRun(status string, seconds float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(seconds)
}

// RecordLookup записывает результат поиска в документе
func RecordLookup(result string) {
	LookupsTotal.WithLabelValues(result).Inc()
}

// RecordError записывает метрику ошибки
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// SetCandidates устанавливает количество найденных поясов
func SetCandidates(count int) {
	Candidates.Set(float64(count))
}

// SetCatalogSize устанавливает размер каталога
func SetCatalogSize(count int) {
	CatalogSize.Set(float64(count))
}

// WriteTextfile сохраняет метрики в формате textfile collector node_exporter
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
