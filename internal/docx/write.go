package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Formatting applied to translated runs. Mirrors the convention of the
// translated documents this tool produces: 9pt italic in a distinct color so
// translations are visually separable from the original text.
const (
	translatedColor       = "4224E9"
	translatedSizeHalfPts = 18 // 9pt, OOXML sizes are half-points
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentOpen  = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `</w:body></w:document>`
)

// Run is one formatted text span within an output paragraph.
type Run struct {
	Text string

	// Translated runs get the 9pt italic colored formatting.
	Translated bool
}

// Builder assembles an output document paragraph by paragraph.
// It is not safe for concurrent use; a document run has a single writer.
type Builder struct {
	// prior holds body markup carried over from an existing document,
	// preserved byte for byte so resumed runs do not disturb earlier output.
	prior string

	body bytes.Buffer
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// OpenBuilder returns a Builder seeded with the body of an existing document
// at path, so appended content follows the prior content. A missing file
// yields an empty Builder.
func OpenBuilder(path string) (*Builder, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Builder{}, nil
	}
	prior, err := rawBody(path)
	if err != nil {
		return nil, err
	}
	return &Builder{prior: prior}, nil
}

// AppendParagraph appends one paragraph with the given style and runs.
// Newlines inside run text become soft line breaks.
func (b *Builder) AppendParagraph(style string, runs ...Run) {
	b.body.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(&b.body, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, escapeAttr(style))
	}
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		b.body.WriteString("<w:r>")
		if run.Translated {
			fmt.Fprintf(&b.body, `<w:rPr><w:i/><w:sz w:val="%d"/><w:color w:val="%s"/></w:rPr>`,
				translatedSizeHalfPts, translatedColor)
		}
		for i, line := range strings.Split(run.Text, "\n") {
			if i > 0 {
				b.body.WriteString("<w:br/>")
			}
			fmt.Fprintf(&b.body, `<w:t xml:space="preserve">%s</w:t>`, escapeText(line))
		}
		b.body.WriteString("</w:r>")
	}
	b.body.WriteString("</w:p>")
}

// AppendBlock appends a source block with its translation as a single
// paragraph: original run first, translated run after a line break.
func (b *Builder) AppendBlock(block Block, translated string) {
	runs := []Run{{Text: block.Text}}
	if translated != "" {
		runs = append(runs, Run{Text: translated, Translated: true})
	}
	b.AppendParagraph(block.Style, runs...)
}

// AppendPageBreak appends an explicit page break as its own paragraph.
func (b *Builder) AppendPageBreak() {
	b.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

// Empty reports whether nothing has been written, including carried-over
// content from OpenBuilder.
func (b *Builder) Empty() bool {
	return b.prior == "" && b.body.Len() == 0
}

// Save writes the document package to path. The write goes through a
// temporary file and rename so a crash mid-save never truncates an
// existing artifact. Saving repeatedly is idempotent.
func (b *Builder) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := b.write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func (b *Builder) write(w *os.File) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{documentPart, documentOpen + b.prior + b.body.String() + documentClose},
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return fmt.Errorf("write zip entry %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}

func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func escapeAttr(s string) string {
	return escapeText(s)
}
