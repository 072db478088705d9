package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/region23/apero/internal/apero"
	"github.com/region23/apero/internal/infodoc"
	"github.com/region23/apero/internal/report"
	"github.com/region23/apero/internal/tz"
	apperrors "github.com/region23/apero/pkg/errors"
	"github.com/region23/apero/pkg/logger"
	"github.com/region23/apero/tests/testutils"
)

type recordingSender struct {
	texts []string
	err   error
}

func (s *recordingSender) Send(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func newTestApp(t *testing.T, doc string, zones []string, now time.Time) (*App, string) {
	t.Helper()
	cat, err := tz.New(zones)
	testutils.AssertNoError(t, err, "catalog")

	path := testutils.WriteDocument(t, doc)
	cfg := testutils.SetupTestConfig(path)
	a := New(cfg, testutils.SetupTestLogger(), testutils.FixedClock(now), cat,
		apero.NewSelector(rand.NewPCG(1, 2)), nil, nil)
	return a, path
}

func TestRun_EndToEnd(t *testing.T) {
	a, _ := newTestApp(t,
		`{"Europe": {"Paris": "info-text"}, "America": {"New_York": "bagels"}}`,
		[]string{"America/New_York", "Europe/Paris"},
		testutils.ParisEvening())

	var out bytes.Buffer
	err := a.Run(testutils.TestContext(), &out)
	testutils.AssertNoError(t, err, "run should succeed")

	want := strings.Join([]string{
		"Il est actuellement 18:00 chez toi.",
		"Comme tu es chanceux, c'est déjà l'heure de l'apéro. Yec'hed mad !",
		"C'est l'heure de l'apéro à Paris (Europe), il est déjà 18:00 et voici quelques infos sur ce lieu : info-text",
		"Buvons à leur santé, yec'hed mad !",
	}, "\n") + "\n"
	testutils.AssertEqual(t, want, out.String(), "report output")
}

func TestRun_NoAperoZone(t *testing.T) {
	a, _ := newTestApp(t, `{"America": {"New_York": "bagels"}}`,
		[]string{"America/New_York"}, testutils.ParisEvening())

	var out bytes.Buffer
	err := a.Run(testutils.TestContext(), &out)

	if !errors.Is(err, apperrors.ErrNoAperoZone) {
		t.Fatalf("Expected ErrNoAperoZone, got %v", err)
	}
	testutils.AssertEqual(t, "", out.String(), "nothing printed on failure")
}

func TestRun_PathNotFound(t *testing.T) {
	a, path := newTestApp(t, `{"Europe": {"Berlin": "currywurst"}}`,
		[]string{"Europe/Paris"}, testutils.ParisEvening())

	var out bytes.Buffer
	err := a.Run(testutils.TestContext(), &out)

	if !errors.Is(err, apperrors.ErrPathNotFound) {
		t.Fatalf("Expected ErrPathNotFound, got %v", err)
	}
	testutils.AssertContains(t, err.Error(), "Europe/Paris", "zone in error")
	testutils.AssertContains(t, err.Error(), path, "document in error")
	testutils.AssertEqual(t, "", out.String(), "nothing printed on failure")
}

func TestRun_DocumentUnreadable(t *testing.T) {
	a, _ := newTestApp(t, `{}`, []string{"Europe/Paris"}, testutils.ParisEvening())
	a.WithSource(infodoc.FileSource{Path: filepath.Join(t.TempDir(), "missing.json")})

	err := a.Run(testutils.TestContext(), &bytes.Buffer{})

	if !errors.Is(err, apperrors.ErrDocumentUnreadable) {
		t.Fatalf("Expected ErrDocumentUnreadable, got %v", err)
	}
}

func TestRun_SavesPickAndNotifies(t *testing.T) {
	a, _ := newTestApp(t, `{"Europe": {"Paris": {"drink": "pastis"}}}`,
		[]string{"Europe/Paris"}, testutils.ParisEvening())
	store := testutils.SetupTestDB(t)
	sender := &recordingSender{}
	a.storage = store
	a.sender = sender

	err := a.Run(testutils.TestContext(), &bytes.Buffer{})
	testutils.AssertNoError(t, err, "run should succeed")

	picks, err := store.RecentPicks(testutils.TestContext(), 5)
	testutils.AssertNoError(t, err, "recent picks")
	testutils.AssertEqual(t, 1, len(picks), "one pick journaled")
	testutils.AssertEqual(t, "Europe/Paris", picks[0].Zone, "journaled zone")
	testutils.AssertEqual(t, 1, picks[0].Candidates, "candidate count")
	testutils.AssertEqual(t, `{"drink":"pastis"}`, picks[0].Info, "journaled info")

	testutils.AssertEqual(t, 1, len(sender.texts), "one message forwarded")
	testutils.AssertContains(t, sender.texts[0], "Paris (Europe)", "forwarded report")
	testutils.AssertContains(t, sender.texts[0], report.Toast, "forwarded toast")
}

func TestRun_SinkFailureKeepsReport(t *testing.T) {
	a, _ := newTestApp(t, `{"Europe": {"Paris": "info-text"}}`,
		[]string{"Europe/Paris"}, testutils.ParisEvening())
	a.sender = &recordingSender{err: fmt.Errorf("telegram down")}

	var out bytes.Buffer
	err := a.Run(testutils.TestContext(), &out)

	testutils.AssertNoError(t, err, "sink failure must not fail the run")
	testutils.AssertContains(t, out.String(), "Paris (Europe)", "report still printed")
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	a, _ := newTestApp(t, `{"Europe": {"Paris": "info-text"}}`,
		[]string{"Europe/Paris"}, testutils.ParisEvening())
	metricsPath := filepath.Join(t.TempDir(), "apero.prom")
	a.config.Metrics.TextfilePath = metricsPath

	err := a.Run(testutils.TestContext(), &bytes.Buffer{})
	testutils.AssertNoError(t, err, "run should succeed")

	data, err := os.ReadFile(metricsPath)
	testutils.AssertNoError(t, err, "metrics textfile should exist")
	testutils.AssertContains(t, string(data), `apero_runs_total{status="success"}`, "run counter")
	testutils.AssertContains(t, string(data), "apero_candidates 1", "candidates gauge")
}

func TestListZones(t *testing.T) {
	a, _ := newTestApp(t, `{}`,
		[]string{"Europe/Paris", "America/New_York", "Europe/Berlin"}, testutils.ParisEvening())

	var out bytes.Buffer
	testutils.AssertNoError(t, a.ListZones(testutils.TestContext(), &out), "list zones")

	testutils.AssertContains(t, out.String(), "Europe/Paris", "Paris listed")
	testutils.AssertContains(t, out.String(), "Europe/Berlin", "Berlin listed")
	if strings.Contains(out.String(), "New_York") {
		t.Error("New York is at noon and should not be listed")
	}
}

func TestShowHistory(t *testing.T) {
	a, _ := newTestApp(t, `{"Europe": {"Paris": "info-text"}}`,
		[]string{"Europe/Paris"}, testutils.ParisEvening())

	err := a.ShowHistory(testutils.TestContext(), &bytes.Buffer{}, 5)
	if !errors.Is(err, apperrors.ErrConfigurationInvalid) {
		t.Fatalf("Expected ErrConfigurationInvalid without storage, got %v", err)
	}

	a.storage = testutils.SetupTestDB(t)
	testutils.AssertNoError(t, a.Run(testutils.TestContext(), &bytes.Buffer{}), "run")
	testutils.AssertNoError(t, a.Run(testutils.TestContext(), &bytes.Buffer{}), "run")

	var out bytes.Buffer
	testutils.AssertNoError(t, a.ShowHistory(testutils.TestContext(), &out, -1), "history")
	testutils.AssertEqual(t, 2, strings.Count(out.String(), "-> Europe/Paris (18:00)"), "two history lines")
	testutils.AssertContains(t, out.String(), "  Europe/Paris : 2", "per-zone tally")
}

func TestRun_LogsCarryZone(t *testing.T) {
	a, _ := newTestApp(t, `{"Europe": {"Paris": "info-text"}}`,
		[]string{"Europe/Paris"}, testutils.ParisEvening())
	var logs bytes.Buffer
	a.logger = logger.NewWithWriter(logger.LevelDebug, &logs)
	a.sender = &recordingSender{err: fmt.Errorf("telegram down")}

	testutils.AssertNoError(t, a.Run(testutils.TestContext(), &bytes.Buffer{}), "run")

	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "Zone selected") || strings.Contains(line, "Failed to forward report") {
			testutils.AssertContains(t, line, "zone=Europe/Paris", "zone field on "+line)
		}
	}
	testutils.AssertContains(t, logs.String(), "Failed to forward report", "sink failure logged")
	testutils.AssertContains(t, logs.String(), "Run finished status=success elapsed=", "run duration logged")
}
