// Package apero ищет место в мире, где сейчас 18 часов.
package apero

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/region23/apero/internal/clock"
	"github.com/region23/apero/internal/infodoc"
	"github.com/region23/apero/internal/tz"
	apperrors "github.com/region23/apero/pkg/errors"
)

// Hour час аперитива
const Hour = 18

// LocalTime возвращает текущие час и минуту в локальном поясе системы
func LocalTime(c clock.Clock) (hour, minute int) {
	now := c.Now()
	return now.Hour(), now.Minute()
}

// Scan возвращает пояса каталога, где в момент now идет 18-й час.
// Все пояса проверяются относительно одного и того же момента.
func Scan(now time.Time, cat *tz.Catalog) []string {
	var out []string
	for _, z := range cat.Zones() {
		if now.In(z.Location).Hour() == Hour {
			out = append(out, z.Name)
		}
	}
	return out
}

// Selector выбирает пояс равновероятно
type Selector struct {
	rng *rand.Rand
}

// NewSelector создает селектор с заданным источником случайности.
// nil означает глобальный источник.
func NewSelector(src rand.Source) *Selector {
	s := &Selector{}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// Choose возвращает один элемент candidates
func (s *Selector) Choose(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", apperrors.ErrNoAperoZone
	}
	var i int
	if s.rng != nil {
		i = s.rng.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	return candidates[i], nil
}

// Sighting результат поиска информации о выбранном поясе
type Sighting struct {
	Zone   string
	Hour   int
	Minute int
	Info   infodoc.Node
}

// Segments возвращает сегменты пути пояса
func (s Sighting) Segments() []string {
	return tz.Split(s.Zone)
}

// Lookup загружает документ и ищет в нем информацию о поясе zone.
// Время пояса вычисляется заново, а не берется из сканирования.
func Lookup(c clock.Clock, zone string, src infodoc.Source) (Sighting, error) {
	ctx := LookupContext{Zone: zone, Document: src.Location()}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Sighting{}, apperrors.ErrPathNotFound.WithContext(ctx).WithError(err)
	}

	doc, err := infodoc.Load(src)
	if err != nil {
		return Sighting{}, apperrors.ErrDocumentUnreadable.WithContext(ctx).WithError(err)
	}

	node, err := doc.Lookup(tz.Split(zone))
	if err != nil {
		return Sighting{}, apperrors.ErrPathNotFound.WithContext(ctx).WithError(err)
	}

	now := c.Now().In(loc)
	return Sighting{
		Zone:   zone,
		Hour:   now.Hour(),
		Minute: now.Minute(),
		Info:   node,
	}, nil
}

// LookupContext контекст ошибки поиска: пояс и документ
type LookupContext struct {
	Zone     string `json:"zone"`
	Document string `json:"document"`
}

func (c LookupContext) String() string {
	return fmt.Sprintf("zone %s, file %s", c.Zone, c.Document)
}
