package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// ErrInvalidDocument indicates the file is not a readable DOCX package.
var ErrInvalidDocument = errors.New("invalid docx document")

// Load opens a DOCX file and linearizes its body into an ordered block
// sequence. Body order of paragraphs and tables is preserved; paragraphs
// nested inside table cells contribute to the cell block, not to the
// paragraph sequence.
func Load(path string) (*Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, errors.Join(ErrInvalidDocument, err))
	}
	defer reader.Close()

	content, err := readPart(&reader.Reader, documentPart)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", documentPart, err)
	}

	blocks, err := parseBody(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}

	return &Document{Blocks: blocks}, nil
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, errors.Join(ErrInvalidDocument, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: missing part %s", ErrInvalidDocument, name)
}

// parseBody walks the document XML token stream. A struct-based unmarshal
// cannot preserve interleaved paragraph/table body order, so this keeps a
// small state machine over the token stream instead.
func parseBody(content []byte) ([]Block, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(content)))

	var (
		blocks     []Block
		paraIndex  int
		cellIndex  int
		tableDepth int

		inText    bool
		paragraph *Block    // current top-level paragraph
		cell      *Block    // current table cell
		cellParas []string  // completed paragraph texts within the cell
		cellText  *strings.Builder
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrInvalidDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth > 0 {
					cellIndex++
					cell = &Block{Index: cellIndex, Kind: TableCell}
					cellParas = nil
					cellText = &strings.Builder{}
				}
			case "p":
				if tableDepth == 0 {
					paraIndex++
					paragraph = &Block{Index: paraIndex, Kind: Paragraph}
				}
			case "pStyle":
				if style := attrValue(t, "val"); style != "" {
					if cell != nil && tableDepth > 0 {
						if cell.Style == "" {
							cell.Style = style
						}
					} else if paragraph != nil {
						paragraph.Style = style
					}
				}
			case "br":
				if attrValue(t, "type") == "page" {
					if cell != nil && tableDepth > 0 {
						cell.PageBreaksAfter++
					} else if paragraph != nil {
						paragraph.PageBreaksAfter++
					}
				}
			case "t":
				inText = true
			}

		case xml.CharData:
			if !inText {
				continue
			}
			if cell != nil && tableDepth > 0 {
				cellText.WriteString(string(t))
			} else if paragraph != nil {
				paragraph.Text += string(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tableDepth > 0 {
					if cellText != nil {
						cellParas = append(cellParas, cellText.String())
						cellText.Reset()
					}
				} else if paragraph != nil {
					blocks = append(blocks, *paragraph)
					paragraph = nil
				}
			case "tc":
				if cell != nil {
					cell.Text = strings.Join(cellParas, "\n")
					blocks = append(blocks, *cell)
					cell = nil
					cellText = nil
				}
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			}
		}
	}

	return blocks, nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// rawBody extracts the literal body markup of an existing document so a
// Builder can append after it without re-deriving prior content.
func rawBody(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, errors.Join(ErrInvalidDocument, err))
	}
	defer reader.Close()

	content, err := readPart(&reader.Reader, documentPart)
	if err != nil {
		return "", err
	}

	text := string(content)
	start := strings.Index(text, "<w:body>")
	end := strings.LastIndex(text, "</w:body>")
	if start < 0 || end < 0 || end < start {
		return "", fmt.Errorf("%w: no body element", ErrInvalidDocument)
	}
	return text[start+len("<w:body>") : end], nil
}
