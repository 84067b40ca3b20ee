// Package model defines shared data structures.
package model

import (
	"math"
	"time"
)

// ReadingMode selects how the reader advances through a document.
type ReadingMode string

// Reading modes.
const (
	ModeChunk     ReadingMode = "chunk"
	ModeParagraph ReadingMode = "paragraph"
)

// Settings is an immutable snapshot of reading configuration.
type Settings struct {
	Fixation float64     // fraction of each word to emphasize, 0.2-0.8
	Opacity  float64     // de-emphasized text opacity, 0.3-1.0
	Speed    float64     // seconds per chunk advance, 0.5-10.0
	MaxWords int         // word cap per chunk, 3-20
	Mode     ReadingMode // chunk or paragraph
	Saccade  int         // gaze-width hint for the renderer, 1-5; segmentation ignores it
}

// DefaultSettings returns the baseline reading configuration.
func DefaultSettings() Settings {
	return Settings{
		Fixation: 0.5,
		Opacity:  1.0,
		Speed:    2.0,
		MaxWords: 10,
		Mode:     ModeChunk,
		Saccade:  3,
	}
}

// SanitizeSettings validates next against prev field by field. A field that
// is out of range or not a number keeps the previous valid value.
func SanitizeSettings(prev, next Settings) Settings {
	out := prev
	out.Fixation = sanitizeFloat(prev.Fixation, next.Fixation, 0.2, 0.8)
	out.Opacity = sanitizeFloat(prev.Opacity, next.Opacity, 0.3, 1.0)
	out.Speed = sanitizeFloat(prev.Speed, next.Speed, 0.5, 10.0)
	out.MaxWords = sanitizeInt(prev.MaxWords, next.MaxWords, 3, 20)
	out.Saccade = sanitizeInt(prev.Saccade, next.Saccade, 1, 5)
	if next.Mode == ModeChunk || next.Mode == ModeParagraph {
		out.Mode = next.Mode
	}
	return out
}

func sanitizeFloat(prev, next, min, max float64) float64 {
	if math.IsNaN(next) || math.IsInf(next, 0) || next < min || next > max {
		return prev
	}
	return next
}

func sanitizeInt(prev, next, min, max int) int {
	if next < min || next > max {
		return prev
	}
	return next
}

// TokenKind classifies a token.
type TokenKind int

// Token kinds.
const (
	TokenWord TokenKind = iota
	TokenSpace
	TokenPunct
)

// Token is one typed unit of a chunk. For word tokens, Bold+Normal covers
// Text as produced at chunk-build time; punctuation merged later is appended
// to both Text and Normal.
type Token struct {
	Kind    TokenKind
	Text    string
	Bold    string
	Normal  string
	Opacity float64
}

// Chunk is an ordered token sequence shown as one reading unit. A chunk with
// Break set is a paragraph-break marker: it carries no tokens, an empty
// Original, and Index -1.
type Chunk struct {
	Tokens   []Token
	Original string
	Index    int
	Break    bool
}

// WordCount returns the number of word tokens in the chunk.
func (c Chunk) WordCount() int {
	n := 0
	for _, t := range c.Tokens {
		if t.Kind == TokenWord {
			n++
		}
	}
	return n
}

// Paragraph is an ordered sequence of readable chunks between two
// paragraph-break markers.
type Paragraph struct {
	Chunks []Chunk
}

// WordCount returns the number of word tokens across the paragraph.
func (p Paragraph) WordCount() int {
	n := 0
	for _, c := range p.Chunks {
		n += c.WordCount()
	}
	return n
}

// ReadingStats accumulates live statistics for one reading pass.
type ReadingStats struct {
	WordsRead      int
	WPM            int
	Elapsed        float64 // seconds since playback first started
	PauseCount     int
	BacktrackCount int
}

// PlaybackState is a snapshot of the playback cursor.
type PlaybackState struct {
	Mode      ReadingMode
	Playing   bool
	Cursor    int // readable chunk index (chunk mode)
	Paragraph int // paragraph index (paragraph mode)
	StartedAt time.Time
}

// Progress is emitted on every accepted tick or paragraph navigation.
type Progress struct {
	WordsRead int
	WPM       int
	Percent   float64
	Cursor    int
	Done      bool
}

// Document is a library entry: an imported text plus bookkeeping.
type Document struct {
	ID      int64
	Title   string
	Body    string
	Words   int
	AddedAt time.Time
}
