// Package docx reads and writes a minimal subset of the OOXML
// wordprocessing format. A document is modeled as an ordered sequence of
// text-bearing blocks (paragraphs and table cells) with a style reference
// and a page-break count; run-level formatting beyond what the translation
// pipeline emits is not preserved.
package docx

import "strings"

// BlockKind discriminates the structural origin of a block.
type BlockKind int

const (
	// Paragraph is a top-level body paragraph.
	Paragraph BlockKind = iota
	// TableCell is one cell of a body table, paragraphs joined by newlines.
	TableCell
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case TableCell:
		return "table_cell"
	default:
		return "unknown"
	}
}

// Block is one text-bearing structural unit of a document.
// Blocks are immutable once read from the source.
type Block struct {
	// Index is the 1-based position within blocks of the same kind.
	Index int

	Kind BlockKind

	// Text is the concatenated run text. For table cells, the cell's
	// paragraphs are joined with newlines.
	Text string

	// Style is the paragraph style name (e.g. "Heading1"), empty when the
	// source paragraph carries no explicit style.
	Style string

	// PageBreaksAfter counts explicit page breaks inside the block's runs.
	// The page counter advances by this amount after the block.
	PageBreaksAfter int
}

// HeadingLike reports whether the block's style marks it as a heading.
func (b Block) HeadingLike() bool {
	return strings.HasPrefix(b.Style, "Heading")
}

// Document is an ordered block sequence read from a DOCX file.
type Document struct {
	Blocks []Block
}

// Paragraphs returns the body paragraphs in source order.
func (d *Document) Paragraphs() []Block {
	return d.byKind(Paragraph)
}

// TableCells returns the table cells in source order.
func (d *Document) TableCells() []Block {
	return d.byKind(TableCell)
}

func (d *Document) byKind(kind BlockKind) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// PageCount returns the number of pages implied by the page-break markers.
// An empty document still counts as one page.
func (d *Document) PageCount() int {
	pages := 1
	for _, b := range d.Blocks {
		pages += b.PageBreaksAfter
	}
	return pages
}
