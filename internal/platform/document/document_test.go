package document

import (
	"strings"
	"testing"
)

func TestTextRenderer_Letterhead(t *testing.T) {
	r := NewTextRenderer()

	doc := Document{
		Letterhead: Letterhead{
			HospitalName: "General Hospital",
			Address:      "12 Main Road",
			Phone:        "+91-11-2345678",
		},
		Title: "OPD Queue Slip",
		Fields: []Field{
			{Label: "Token", Value: "7"},
			{Label: "Patient", Value: "Emma Thompson"},
			{Label: "Department", Value: "Cardiology"},
		},
	}

	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	text := string(out)
	for _, want := range []string{
		"General Hospital",
		"12 Main Road",
		"Phone: +91-11-2345678",
		"OPD Queue Slip",
		"Token:",
		"Emma Thompson",
		"Cardiology",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTextRenderer_Table(t *testing.T) {
	r := NewTextRenderer()

	doc := Document{
		Title: "Invoice INV-001",
		Table: &Table{
			Columns: []string{"Description", "Qty", "Rate", "Amount"},
			Rows: [][]string{
				{"Consultation", "1", "500.00", "500.00"},
				{"X-Ray", "2", "250.00", "500.00"},
			},
		},
		Footer: "Thank you for visiting.",
	}

	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	text := string(out)
	for _, want := range []string{"Description", "Consultation", "X-Ray", "500.00", "Thank you for visiting."} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTextRenderer_RaggedTableRow(t *testing.T) {
	r := NewTextRenderer()

	doc := Document{
		Table: &Table{
			Columns: []string{"A", "B"},
			Rows:    [][]string{{"only-one-cell"}},
		},
	}

	if _, err := r.Render(doc); err == nil {
		t.Error("expected error for ragged table row")
	}
}

func TestTextRenderer_ContentType(t *testing.T) {
	r := NewTextRenderer()
	if ct := r.ContentType(); ct != "text/plain; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestTextRenderer_EmptyDocument(t *testing.T) {
	r := NewTextRenderer()
	out, err := r.Render(Document{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %q", out)
	}
}
