package text

import "github.com/pacer-tui/pacer/internal/model"

// GroupParagraphs folds the finalized chunk sequence into paragraphs using
// the embedded paragraph-break markers.
func GroupParagraphs(chunks []model.Chunk) []model.Paragraph {
	var paragraphs []model.Paragraph
	var current []model.Chunk
	for _, c := range chunks {
		if c.Break {
			if len(current) > 0 {
				paragraphs = append(paragraphs, model.Paragraph{Chunks: current})
				current = nil
			}
			continue
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, model.Paragraph{Chunks: current})
	}
	return paragraphs
}
