// Package document provides the print/export port. Handlers build a Document
// describing what to print (letterhead, fields, an optional line-item table)
// and a Renderer turns it into bytes. The default renderer emits plain text;
// a PDF renderer can be swapped in behind the same interface.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// Letterhead carries the facility identity printed at the top of every
// document.
type Letterhead struct {
	HospitalName string
	Address      string
	Phone        string
}

// Field is a single labeled value on a document.
type Field struct {
	Label string
	Value string
}

// Table is an optional column-aligned section, used for invoice line items.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Document is a renderer-independent description of a printable page.
type Document struct {
	Letterhead Letterhead
	Title      string
	Fields     []Field
	Table      *Table
	Footer     string
}

// Renderer turns a Document into an exportable byte stream.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
}

// TextRenderer renders documents as plain text.
type TextRenderer struct{}

// NewTextRenderer creates the default plain-text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *TextRenderer) Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer

	if doc.Letterhead.HospitalName != "" {
		fmt.Fprintln(&buf, doc.Letterhead.HospitalName)
		if doc.Letterhead.Address != "" {
			fmt.Fprintln(&buf, doc.Letterhead.Address)
		}
		if doc.Letterhead.Phone != "" {
			fmt.Fprintln(&buf, "Phone:", doc.Letterhead.Phone)
		}
		fmt.Fprintln(&buf, strings.Repeat("=", 48))
	}

	if doc.Title != "" {
		fmt.Fprintln(&buf, doc.Title)
		fmt.Fprintln(&buf, strings.Repeat("-", 48))
	}

	for _, f := range doc.Fields {
		fmt.Fprintf(&buf, "%-20s %s\n", f.Label+":", f.Value)
	}

	if doc.Table != nil {
		fmt.Fprintln(&buf)
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(doc.Table.Columns, "\t"))
		for _, row := range doc.Table.Rows {
			if len(row) != len(doc.Table.Columns) {
				return nil, fmt.Errorf("table row has %d cells, expected %d", len(row), len(doc.Table.Columns))
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("flush table: %w", err)
		}
	}

	if doc.Footer != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, doc.Footer)
	}

	return buf.Bytes(), nil
}
