package infodoc

import (
	"errors"
	"testing"
)

const sample = `{
	"Europe": {
		"Paris": "Capitale du pastis ? Non, c'est Marseille.",
		"Brussels": {"drink": "gueuze", "score": 9}
	},
	"America": {
		"Argentina": {
			"Salta": null
		}
	},
	"UTC": [1, 2, 3]
}`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Load(BytesSource{Name: "sample.json", Data: []byte(data)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return doc
}

func TestLookup_StringLeaf(t *testing.T) {
	doc := mustParse(t, sample)

	node, err := doc.Lookup([]string{"Europe", "Paris"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	leaf, ok := node.(*Leaf)
	if !ok {
		t.Fatalf("Expected *Leaf, got %T", node)
	}
	if leaf.Kind != KindString {
		t.Errorf("Expected KindString, got %v", leaf.Kind)
	}
	if got := Display(node); got != "Capitale du pastis ? Non, c'est Marseille." {
		t.Errorf("unexpected display %q", got)
	}
}

func TestLookup_ObjectValue(t *testing.T) {
	doc := mustParse(t, sample)

	node, err := doc.Lookup([]string{"Europe", "Brussels"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if _, ok := node.(*Branch); !ok {
		t.Fatalf("Expected *Branch, got %T", node)
	}
	if got := Display(node); got != `{"drink":"gueuze","score":9}` {
		t.Errorf("Expected compact JSON, got %q", got)
	}
}

func TestLookup_DeepNull(t *testing.T) {
	doc := mustParse(t, sample)

	node, err := doc.Lookup([]string{"America", "Argentina", "Salta"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	leaf, ok := node.(*Leaf)
	if !ok || leaf.Kind != KindNull {
		t.Fatalf("Expected null leaf, got %#v", node)
	}
	if Display(node) != "null" {
		t.Errorf("Expected null, got %q", Display(node))
	}
}

func TestLookup_ArrayLeaf(t *testing.T) {
	doc := mustParse(t, sample)

	node, err := doc.Lookup([]string{"UTC"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := Display(node); got != "[1,2,3]" {
		t.Errorf("Expected [1,2,3], got %q", got)
	}
}

func TestLookup_Failures(t *testing.T) {
	doc := mustParse(t, sample)

	tests := []struct {
		name   string
		path   []string
		reason Reason
		depth  int
	}{
		{"missing top level", []string{"Asia", "Tokyo"}, KeyMissing, 0},
		{"missing city", []string{"Europe", "Berlin"}, KeyMissing, 1},
		{"descend into string", []string{"Europe", "Paris", "Montmartre"}, NotMapping, 2},
		{"descend into array", []string{"UTC", "0"}, NotMapping, 1},
		{"descend into null", []string{"America", "Argentina", "Salta", "X"}, NotMapping, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doc.Lookup(tt.path)

			var perr *PathError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected *PathError, got %v", err)
			}
			if perr.Reason != tt.reason {
				t.Errorf("Expected reason %v, got %v", tt.reason, perr.Reason)
			}
			if perr.Depth != tt.depth {
				t.Errorf("Expected depth %d, got %d", tt.depth, perr.Depth)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated", `{"Europe": `},
		{"not json", `Europe/Paris`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestLookup_RootNotMapping(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind Kind
	}{
		{"root string", `"flat"`, KindString},
		{"root array", `[{"Europe": {}}]`, KindArray},
		{"root null", `null`, KindNull},
		{"root number", `42`, KindNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.data)
			if leaf, ok := doc.Root.(*Leaf); !ok || leaf.Kind != tt.kind {
				t.Fatalf("Expected root leaf of kind %v, got %#v", tt.kind, doc.Root)
			}

			_, err := doc.Lookup([]string{"Europe", "Paris"})

			var perr *PathError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected *PathError, got %v", err)
			}
			if perr.Reason != NotMapping || perr.Depth != 0 {
				t.Errorf("Expected NotMapping at depth 0, got %v at %d", perr.Reason, perr.Depth)
			}
		})
	}
}

func TestLoad_ReadError(t *testing.T) {
	_, err := Load(FileSource{Path: "/nonexistent/apero.json"})
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestReason_String(t *testing.T) {
	if KeyMissing.String() != "key missing" {
		t.Errorf("unexpected %q", KeyMissing.String())
	}
	if NotMapping.String() != "not a mapping" {
		t.Errorf("unexpected %q", NotMapping.String())
	}
}
