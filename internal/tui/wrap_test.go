package tui

import (
	"strings"
	"testing"

	"github.com/pacer-tui/pacer/internal/model"
)

func wordToken(text, bold, normal string) model.Token {
	return model.Token{Kind: model.TokenWord, Text: text, Bold: bold, Normal: normal}
}

func TestBuildStyledCellsWordStyles(t *testing.T) {
	dim := opacityStyle(1.0)
	cells := buildStyledCells([]model.Token{wordToken("hello", "hel", "lo")}, boldStyle, dim)
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}
	if cells[0].s != boldStyle.Render("h") {
		t.Fatalf("expected bold style for fixation prefix")
	}
	if cells[3].s != dim.Render("l") {
		t.Fatalf("expected dim style for suffix")
	}
}

func TestBuildStyledCellsCollapsesSpaces(t *testing.T) {
	tokens := []model.Token{
		wordToken("a", "a", ""),
		{Kind: model.TokenSpace, Text: "  \t"},
		wordToken("b", "b", ""),
	}
	cells := buildStyledCells(tokens, boldStyle, opacityStyle(1.0))
	if len(cells) != 3 {
		t.Fatalf("expected whitespace run collapsed to one cell, got %d cells", len(cells))
	}
	if !cells[1].isSpace || cells[1].s != " " {
		t.Fatalf("expected single space cell, got %+v", cells[1])
	}
}

func TestWrapStyledCellsBreaksAtSpace(t *testing.T) {
	tokens := []model.Token{
		wordToken("one", "o", "ne"),
		{Kind: model.TokenSpace, Text: " "},
		wordToken("two", "t", "wo"),
	}
	cells := buildStyledCells(tokens, boldStyle, opacityStyle(1.0))
	out := wrapStyledCells(cells, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
}

func TestWrapStyledCellsNoWidthPassthrough(t *testing.T) {
	cells := buildStyledCells([]model.Token{wordToken("abc", "a", "bc")}, boldStyle, opacityStyle(1.0))
	if out := wrapStyledCells(cells, 0); strings.Contains(out, "\n") {
		t.Fatalf("zero width must not wrap, got %q", out)
	}
}

func TestOpacityStyleScalesWithOpacity(t *testing.T) {
	bright := opacityStyle(1.0).GetForeground()
	faint := opacityStyle(0.3).GetForeground()
	if bright == faint {
		t.Fatalf("expected distinct foregrounds for different opacities")
	}
}

func TestFooterShowsReadingStats(t *testing.T) {
	settings := model.DefaultSettings()
	m := NewModel(settings, "sample", []model.Chunk{
		{Tokens: []model.Token{wordToken("one", "o", "ne")}, Original: "one", Index: 0},
	})
	m.wpm = 230
	m.wordsRead = 42
	m.percent = 50
	footer := m.renderFooter()
	for _, needle := range []string{"230 WPM", "42 words", "Comprehension 100%"} {
		if !strings.Contains(footer, needle) {
			t.Fatalf("footer missing %q: %s", needle, footer)
		}
	}
}

func TestFooterParagraphMode(t *testing.T) {
	settings := model.DefaultSettings()
	settings.Mode = model.ModeParagraph
	m := NewModel(settings, "sample", []model.Chunk{
		{Tokens: []model.Token{wordToken("one", "o", "ne")}, Original: "one", Index: 0},
	})
	footer := m.renderFooter()
	if !strings.Contains(footer, "Paragraph 1/1") {
		t.Fatalf("paragraph footer missing position: %s", footer)
	}
}
