package source

import (
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.js", []byte("new Worker('./a.js')"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("main.js")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Повторный Add того же пути даёт новый FileID и сдвигает индекс
	id2 := fs.Add("main.js", []byte("new Worker('./b.js')"), 0)
	if id2 == id1 {
		t.Error("Expected different FileID for second Add")
	}

	latestID, exists = fs.GetLatest("main.js")
	if !exists {
		t.Error("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if string(fs.Get(id1).Content) != "new Worker('./a.js')" {
		t.Errorf("first generation content changed: %q", fs.Get(id1).Content)
	}
	if string(fs.Get(id2).Content) != "new Worker('./b.js')" {
		t.Errorf("second generation content wrong: %q", fs.Get(id2).Content)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("w.js", []byte("const a = 1;\nnew Worker(\"./w.js\");\n"))

	// "new" начинается на байте 13 — строка 2, колонка 1
	span := Span{File: id, Start: 13, End: 16}
	start, end := fs.Resolve(span)

	if (start != LineCol{Line: 2, Col: 1}) {
		t.Errorf("Expected start 2:1, got %d:%d", start.Line, start.Col)
	}
	if (end != LineCol{Line: 2, Col: 4}) {
		t.Errorf("Expected end 2:4, got %d:%d", end.Line, end.Col)
	}
}

func TestResolveFirstLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("w.js", []byte("ab\ncd"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 1, Col: 3}}, // сам \n относится к первой строке
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
	}
	for _, tt := range tests {
		got, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Errorf("off %d: expected %d:%d, got %d:%d", tt.off, tt.want.Line, tt.want.Col, got.Line, got.Col)
		}
	}
}

func TestLineContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("w.js", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := string(f.LineContent(1)); got != "first" {
		t.Errorf("line 1: got %q", got)
	}
	if got := string(f.LineContent(2)); got != "second" {
		t.Errorf("line 2: got %q", got)
	}
	if got := string(f.LineContent(3)); got != "third" {
		t.Errorf("line 3: got %q", got)
	}
	if got := string(f.LineContent(4)); got != "" {
		t.Errorf("line 4: expected empty, got %q", got)
	}
}

func TestNormalization(t *testing.T) {
	content, hadCRLF := normalizeCRLF([]byte("a\r\nb"))
	if !hadCRLF {
		t.Error("Expected CRLF normalization")
	}
	if string(content) != "a\nb" {
		t.Errorf("Expected normalized content, got %q", content)
	}

	content, hadBOM := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(content) != "x" {
		t.Errorf("Expected content without BOM, got %q", content)
	}
}
