package pipeline

import "github.com/logan676/translate/internal/docx"

// PagedBlock is a block annotated with its 1-based page number.
type PagedBlock struct {
	Page  int
	Block docx.Block
}

// AssignPages assigns a page number to every block by scanning page-break
// markers in sequence. The counter starts at 1 and advances after any block
// carrying break markers, by the marker count. Pure: no block is dropped or
// reordered, and the output page numbers are non-decreasing.
func AssignPages(blocks []docx.Block) []PagedBlock {
	page := 1
	paged := make([]PagedBlock, 0, len(blocks))
	for _, b := range blocks {
		paged = append(paged, PagedBlock{Page: page, Block: b})
		page += b.PageBreaksAfter
	}
	return paged
}

// Segment is a bounded run of consecutive pages grouped for independent
// translation and output.
type Segment struct {
	Index     int // 1-based
	StartPage int
	EndPage   int
	Blocks    []PagedBlock
}

// GroupSegments buckets paginated blocks into segments of at most
// pagesPerSegment pages, preserving arrival order. A block on page p lands in
// segment (p-1)/pagesPerSegment + 1. Segments are returned in ascending
// index order; empty input yields zero segments, and a document with no page
// breaks yields exactly one segment covering page 1.
func GroupSegments(paged []PagedBlock, pagesPerSegment int) []Segment {
	if len(paged) == 0 {
		return nil
	}
	if pagesPerSegment <= 0 {
		pagesPerSegment = DefaultPagesPerSegment
	}

	lastPage := paged[len(paged)-1].Page

	var segments []Segment
	for _, pb := range paged {
		idx := (pb.Page-1)/pagesPerSegment + 1
		if len(segments) == 0 || segments[len(segments)-1].Index != idx {
			end := idx * pagesPerSegment
			if end > lastPage {
				end = lastPage
			}
			segments = append(segments, Segment{
				Index:     idx,
				StartPage: (idx-1)*pagesPerSegment + 1,
				EndPage:   end,
			})
		}
		seg := &segments[len(segments)-1]
		seg.Blocks = append(seg.Blocks, pb)
	}
	return segments
}
