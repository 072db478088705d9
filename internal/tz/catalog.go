// Package tz содержит каталог канонических часовых поясов.
package tz

import (
	"bufio"
	_ "embed"
	"fmt"
	"strings"
	"time"

	// База часовых поясов встраивается в бинарник, чтобы
	// time.LoadLocation работал без системного zoneinfo.
	_ "time/tzdata"
)

//go:embed zones.txt
var commonZones string

// Zone представляет один часовой пояс каталога
type Zone struct {
	Name     string
	Location *time.Location
}

// Segments возвращает сегменты пути пояса, например ["Europe", "Paris"]
func (z Zone) Segments() []string {
	return Split(z.Name)
}

// Split разбивает идентификатор пояса на сегменты
func Split(name string) []string {
	return strings.Split(name, "/")
}

// City возвращает последний сегмент пути
func City(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// Region возвращает все сегменты, кроме последнего, через "/"
func Region(segments []string) string {
	if len(segments) < 2 {
		return ""
	}
	return strings.Join(segments[:len(segments)-1], "/")
}

// Catalog упорядоченный неизменяемый список поясов
type Catalog struct {
	zones []Zone
}

// Common возвращает каталог общеупотребительных поясов
func Common() (*Catalog, error) {
	return New(CommonNames())
}

// CommonNames возвращает встроенный список идентификаторов
func CommonNames() []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(commonZones))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// New загружает каталог из списка идентификаторов с сохранением порядка
func New(names []string) (*Catalog, error) {
	zones := make([]Zone, 0, len(names))
	for _, name := range names {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
		}
		zones = append(zones, Zone{Name: name, Location: loc})
	}
	return &Catalog{zones: zones}, nil
}

// Zones возвращает копию списка поясов
func (c *Catalog) Zones() []Zone {
	out := make([]Zone, len(c.zones))
	copy(out, c.zones)
	return out
}

// Len возвращает количество поясов
func (c *Catalog) Len() int {
	return len(c.zones)
}
