// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pacer-tui/pacer/internal/model"
)

// styledCell is one display rune with its rendered form and width.
type styledCell struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledCells renders a token sequence into per-rune cells: word
// prefixes emphasized up to the fixation point, suffixes and punctuation
// dimmed to the configured opacity.
func buildStyledCells(tokens []model.Token, bold, dim lipgloss.Style) []styledCell {
	var out []styledCell
	for _, tok := range tokens {
		switch tok.Kind {
		case model.TokenWord:
			out = appendStyled(out, tok.Bold, bold, false)
			out = appendStyled(out, tok.Normal, dim, false)
		case model.TokenSpace:
			// Collapse any whitespace run to a single cell for display.
			out = append(out, styledCell{s: " ", width: 1, isSpace: true})
		case model.TokenPunct:
			out = appendStyled(out, tok.Text, dim, false)
		}
	}
	return out
}

func appendStyled(out []styledCell, text string, style lipgloss.Style, isSpace bool) []styledCell {
	for _, r := range text {
		out = append(out, styledCell{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: isSpace,
		})
	}
	return out
}

func renderStyledCells(cells []styledCell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledCells wraps cells to the given display width, breaking at the
// last space on each line when one exists.
func wrapStyledCells(cells []styledCell, width int) string {
	if width <= 0 {
		return renderStyledCells(cells)
	}
	var out strings.Builder
	line := make([]styledCell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledCells(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledCell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledCells(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledCells(line))
	return out.String()
}

func lineWidthOf(line []styledCell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledCell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
