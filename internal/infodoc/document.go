// Package infodoc разбирает документ с информацией о местах аперитива.
//
// Документ это вложенный JSON объект, ключи которого повторяют сегменты
// идентификатора часового пояса: регион, подрегион, город. Значение на
// последнем уровне произвольное (строка, объект, null).
package infodoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrInvalidDocument возвращается, если содержимое не является корректным JSON
var ErrInvalidDocument = errors.New("document is not valid JSON")

// Node узел документа: *Branch или *Leaf
type Node interface {
	// JSON возвращает компактное JSON представление узла
	JSON() string
}

// Branch узел-отображение
type Branch struct {
	Raw      string
	Children map[string]Node
}

// JSON возвращает компактное JSON представление
func (b *Branch) JSON() string {
	return compact(b.Raw)
}

// Kind тип значения листа
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
)

// Leaf конечное значение
type Leaf struct {
	Kind Kind
	Raw  string
	// Text содержит строку без кавычек для KindString
	Text string
}

// JSON возвращает компактное JSON представление
func (l *Leaf) JSON() string {
	return compact(l.Raw)
}

// Display возвращает текст для отчета: строки как есть, остальное в JSON
func Display(n Node) string {
	if leaf, ok := n.(*Leaf); ok && leaf.Kind == KindString {
		return leaf.Text
	}
	return n.JSON()
}

func compact(raw string) string {
	return string(pretty.Ugly([]byte(raw)))
}

// Document разобранный документ вместе с его расположением
type Document struct {
	Location string
	// Root обычно *Branch; любой другой корень дает NotMapping на первом сегменте
	Root Node
}

// Source источник документа
type Source interface {
	// Location описывает источник для сообщений об ошибках
	Location() string
	Read() ([]byte, error)
}

// FileSource читает документ из файла
type FileSource struct {
	Path string
}

// Location возвращает путь к файлу
func (s FileSource) Location() string {
	return s.Path
}

// Read читает файл целиком; os.ReadFile закрывает файл на всех путях
func (s FileSource) Read() ([]byte, error) {
	return os.ReadFile(s.Path)
}

// BytesSource документ в памяти
type BytesSource struct {
	Name string
	Data []byte
}

// Location возвращает имя источника
func (s BytesSource) Location() string {
	return s.Name
}

// Read возвращает данные
func (s BytesSource) Read() ([]byte, error) {
	return s.Data, nil
}

// Load читает и разбирает документ
func Load(src Source) (*Document, error) {
	data, err := src.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Location(), err)
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src.Location(), err)
	}
	return &Document{Location: src.Location(), Root: root}, nil
}

// Parse разбирает JSON в дерево узлов. Корень может быть любого типа.
func Parse(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}
	return toNode(gjson.ParseBytes(data)), nil
}

func toNode(res gjson.Result) Node {
	switch {
	case res.IsObject():
		b := &Branch{Raw: res.Raw, Children: make(map[string]Node)}
		res.ForEach(func(key, value gjson.Result) bool {
			b.Children[key.String()] = toNode(value)
			return true
		})
		return b
	case res.IsArray():
		return &Leaf{Kind: KindArray, Raw: res.Raw}
	}

	switch res.Type {
	case gjson.String:
		return &Leaf{Kind: KindString, Raw: res.Raw, Text: res.Str}
	case gjson.Number:
		return &Leaf{Kind: KindNumber, Raw: res.Raw}
	case gjson.True, gjson.False:
		return &Leaf{Kind: KindBool, Raw: res.Raw}
	default:
		return &Leaf{Kind: KindNull, Raw: "null"}
	}
}

// Reason причина неудачного спуска по пути
type Reason int

const (
	// KeyMissing ключ отсутствует в отображении
	KeyMissing Reason = iota
	// NotMapping спуск уперся в значение, не являющееся отображением
	NotMapping
)

func (r Reason) String() string {
	switch r {
	case KeyMissing:
		return "key missing"
	case NotMapping:
		return "not a mapping"
	}
	return "unknown"
}

// PathError описывает, на каком сегменте прервался спуск
type PathError struct {
	Path   []string
	Depth  int
	Reason Reason
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s at %q (depth %d)",
		strings.Join(e.Path, "/"), e.Reason, e.Path[e.Depth], e.Depth)
}

// Lookup спускается по сегментам пути и возвращает найденный узел
func (d *Document) Lookup(path []string) (Node, error) {
	var cur Node = d.Root
	for i, key := range path {
		switch n := cur.(type) {
		case *Branch:
			child, ok := n.Children[key]
			if !ok {
				return nil, &PathError{Path: path, Depth: i, Reason: KeyMissing}
			}
			cur = child
		case *Leaf:
			return nil, &PathError{Path: path, Depth: i, Reason: NotMapping}
		}
	}
	return cur, nil
}
