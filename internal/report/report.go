// Package report форматирует вывод программы.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/region23/apero/internal/apero"
	"github.com/region23/apero/internal/infodoc"
	"github.com/region23/apero/internal/storage/models"
	"github.com/region23/apero/internal/tz"
)

// Mood настроение в зависимости от локального часа
type Mood int

const (
	// MoodNow ровно 18 часов
	MoodNow Mood = iota
	// MoodEarly раньше 18 часов
	MoodEarly
	// MoodPassed позже 18 часов
	MoodPassed
)

// MoodFor выбирает настроение по локальному часу
func MoodFor(hour int) Mood {
	switch {
	case hour == apero.Hour:
		return MoodNow
	case hour < apero.Hour:
		return MoodEarly
	default:
		return MoodPassed
	}
}

// Line возвращает фразу настроения
func (m Mood) Line() string {
	switch m {
	case MoodNow:
		return "Comme tu es chanceux, c'est déjà l'heure de l'apéro. Yec'hed mad !"
	case MoodEarly:
		return "Quel dommage il est encore un peu tôt, rassure toi car c'est déjà l'heure de l'apéro quelque part dans le monde !"
	default:
		return "L'heure de l'apéro est déjà passée, il existe encore des endroits dans ce monde où c'est à peine l'heure de l'apéro !"
	}
}

// Toast завершающая фраза
const Toast = "Buvons à leur santé, yec'hed mad !"

// Report данные одного запуска
type Report struct {
	LocalHour   int
	LocalMinute int
	Sighting    apero.Sighting
}

// Clock форматирует час и минуту как H:MM
func Clock(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}

// Lines возвращает строки отчета
func Lines(r Report) []string {
	segments := r.Sighting.Segments()
	info := "null"
	if r.Sighting.Info != nil {
		info = infodoc.Display(r.Sighting.Info)
	}

	return []string{
		fmt.Sprintf("Il est actuellement %s chez toi.", Clock(r.LocalHour, r.LocalMinute)),
		MoodFor(r.LocalHour).Line(),
		fmt.Sprintf("C'est l'heure de l'apéro à %s (%s), il est déjà %s et voici quelques infos sur ce lieu : %s",
			tz.City(segments), tz.Region(segments), Clock(r.Sighting.Hour, r.Sighting.Minute), info),
		Toast,
	}
}

// Text возвращает отчет одной строкой с переводами строк
func Text(r Report) string {
	return strings.Join(Lines(r), "\n")
}

// Render пишет отчет в w
func Render(w io.Writer, r Report) error {
	for _, line := range Lines(r) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderZones выводит все пояса, где сейчас время аперитива
func RenderZones(w io.Writer, zones []string) error {
	if len(zones) == 0 {
		_, err := fmt.Fprintln(w, "Ce n'est l'heure de l'apéro nulle part pour le moment.")
		return err
	}
	if _, err := fmt.Fprintf(w, "C'est l'heure de l'apéro dans %d endroits :\n", len(zones)); err != nil {
		return err
	}
	for _, z := range zones {
		if _, err := fmt.Fprintf(w, "  %s\n", z); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory выводит последние записи журнала
func RenderHistory(w io.Writer, picks []*models.Pick) error {
	if len(picks) == 0 {
		_, err := fmt.Fprintln(w, "Aucun apéro enregistré pour le moment.")
		return err
	}
	for _, p := range picks {
		_, err := fmt.Fprintf(w, "%s  %s chez toi -> %s (%s)\n",
			p.PickedAt.Local().Format("2006-01-02 15:04"),
			p.GetFormattedLocalTime(), p.Zone, p.GetFormattedZoneTime())
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderTally выводит число выборов по каждому поясу, самые частые первыми
func RenderTally(w io.Writer, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	zones := make([]string, 0, len(counts))
	for z := range counts {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool {
		if counts[zones[i]] != counts[zones[j]] {
			return counts[zones[i]] > counts[zones[j]]
		}
		return zones[i] < zones[j]
	})

	if _, err := fmt.Fprintln(w, "Apéros par lieu :"); err != nil {
		return err
	}
	for _, z := range zones {
		if _, err := fmt.Fprintf(w, "  %s : %d\n", z, counts[z]); err != nil {
			return err
		}
	}
	return nil
}
