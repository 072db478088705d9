package app

import (
	"context"
	"io"
	"time"

	"github.com/region23/apero/internal/apero"
	"github.com/region23/apero/internal/clock"
	"github.com/region23/apero/internal/config"
	"github.com/region23/apero/internal/infodoc"
	"github.com/region23/apero/internal/notify"
	"github.com/region23/apero/internal/report"
	"github.com/region23/apero/internal/storage"
	"github.com/region23/apero/internal/storage/models"
	"github.com/region23/apero/internal/tz"
	"github.com/region23/apero/pkg/errors"
	"github.com/region23/apero/pkg/logger"
	"github.com/region23/apero/pkg/metrics"
)

// App связывает шаги поиска аперитива и необязательные приемники
type App struct {
	config   *config.Config
	logger   *logger.Logger
	clock    clock.Clock
	catalog  *tz.Catalog
	selector *apero.Selector
	source   infodoc.Source
	storage  storage.Storage
	sender   notify.Sender
}

// New создает приложение. storage и sender могут быть nil.
func New(
	cfg *config.Config,
	log *logger.Logger,
	clk clock.Clock,
	catalog *tz.Catalog,
	selector *apero.Selector,
	storage storage.Storage,
	sender notify.Sender,
) *App {
	return &App{
		config:   cfg,
		logger:   log,
		clock:    clk,
		catalog:  catalog,
		selector: selector,
		source:   infodoc.FileSource{Path: cfg.Document.Path},
		storage:  storage,
		sender:   sender,
	}
}

// WithSource подменяет источник документа
func (a *App) WithSource(src infodoc.Source) *App {
	a.source = src
	return a
}

// Run выполняет полный запуск и пишет отчет в w.
// Отчет выводится только если все шаги прошли успешно.
func (a *App) Run(ctx context.Context, w io.Writer) (err error) {
	started := time.Now()
	defer func() {
		a.finish(err, time.Since(started))
	}()

	hour, minute := apero.LocalTime(a.clock)
	a.logger.Debug("Local time read", logger.Int("hour", hour), logger.Int("minute", minute))

	candidates := apero.Scan(a.clock.Now(), a.catalog)
	metrics.SetCatalogSize(a.catalog.Len())
	metrics.SetCandidates(len(candidates))
	a.logger.Info("Catalog scanned",
		logger.Int("zones", a.catalog.Len()),
		logger.Int("candidates", len(candidates)))

	zone, err := a.selector.Choose(candidates)
	if err != nil {
		return err
	}
	zlog := a.logger.WithFields(logger.String("zone", zone))
	zlog.Info("Zone selected")

	sighting, err := apero.Lookup(a.clock, zone, a.source)
	if err != nil {
		metrics.RecordLookup("failed")
		zlog.Debug("Lookup failed", logger.String("document", a.source.Location()), logger.Error(err))
		return err
	}
	metrics.RecordLookup("found")

	rep := report.Report{
		LocalHour:   hour,
		LocalMinute: minute,
		Sighting:    sighting,
	}
	if err := report.Render(w, rep); err != nil {
		return err
	}

	a.savePick(ctx, zlog, rep, len(candidates))
	a.notify(ctx, zlog, rep)

	return nil
}

// ListZones выводит все пояса, где сейчас время аперитива
func (a *App) ListZones(ctx context.Context, w io.Writer) error {
	candidates := apero.Scan(a.clock.Now(), a.catalog)
	return report.RenderZones(w, candidates)
}

// ShowHistory выводит последние limit записей журнала
func (a *App) ShowHistory(ctx context.Context, w io.Writer, limit int) error {
	if a.storage == nil {
		return errors.ErrConfigurationInvalid.WithContext("APERO_HISTORY_DB is not set")
	}
	if limit <= 0 {
		limit = a.config.History.Limit
	}

	picks, err := a.storage.RecentPicks(ctx, limit)
	if err != nil {
		return errors.ErrHistoryStorage.WithError(err)
	}
	counts, err := a.storage.CountPicksByZone(ctx)
	if err != nil {
		return errors.ErrHistoryStorage.WithError(err)
	}

	if err := report.RenderHistory(w, picks); err != nil {
		return err
	}
	return report.RenderTally(w, counts)
}

// savePick пишет запуск в журнал. Ошибка журнала не отменяет отчет.
func (a *App) savePick(ctx context.Context, log *logger.FieldLogger, rep report.Report, candidates int) {
	if a.storage == nil {
		return
	}

	pick := &models.Pick{
		PickedAt:    a.clock.Now(),
		LocalHour:   rep.LocalHour,
		LocalMinute: rep.LocalMinute,
		Zone:        rep.Sighting.Zone,
		ZoneHour:    rep.Sighting.Hour,
		ZoneMinute:  rep.Sighting.Minute,
		Candidates:  candidates,
		Info:        infodoc.Display(rep.Sighting.Info),
	}
	if err := a.storage.SavePick(ctx, pick); err != nil {
		metrics.RecordError("history", errors.CodeHistoryStorage)
		log.Warn("Failed to save pick", logger.Error(err))
		return
	}
	log.Debug("Pick saved", logger.Any("id", pick.ID))
}

// notify пересылает отчет. Ошибка отправки не отменяет отчет.
func (a *App) notify(ctx context.Context, log *logger.FieldLogger, rep report.Report) {
	if a.sender == nil {
		return
	}
	if err := a.sender.Send(ctx, report.Text(rep)); err != nil {
		metrics.RecordError("notify", errors.CodeNotifier)
		log.Warn("Failed to forward report", logger.Error(errors.ErrNotifier.WithError(err)))
	}
}

// finish фиксирует метрики запуска и при необходимости пишет textfile
func (a *App) finish(err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "failed"
		code := "UNKNOWN"
		if aerr, ok := errors.GetAperoError(err); ok {
			code = aerr.Code
		}
		metrics.RecordError("run", code)
	}
	metrics.RecordRun(status, elapsed.Seconds())
	a.logger.Debug("Run finished", logger.String("status", status), logger.Duration("elapsed", elapsed))

	if !a.config.Metrics.Enabled() {
		return
	}
	if werr := metrics.WriteTextfile(a.config.Metrics.TextfilePath); werr != nil {
		a.logger.Warn("Failed to write metrics textfile",
			logger.String("path", a.config.Metrics.TextfilePath), logger.Error(werr))
	}
}
