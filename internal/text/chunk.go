package text

import (
	"strings"

	"github.com/pacer-tui/pacer/internal/fixation"
	"github.com/pacer-tui/pacer/internal/model"
)

const (
	hardTerminators = ".!?"
	softTerminators = ",;—"
)

// Builder turns raw text into the finalized chunk sequence. Fixation level,
// opacity, and the word cap are fixed at construction; a settings change
// requires a fresh Builder and a full rebuild.
type Builder struct {
	fixationLevel float64
	opacity       float64
	maxWords      int
}

// NewBuilder constructs a Builder from sanitized settings.
func NewBuilder(settings model.Settings) *Builder {
	return &Builder{
		fixationLevel: settings.Fixation,
		opacity:       settings.Opacity,
		maxWords:      settings.MaxWords,
	}
}

// Build segments a document into chunks. Paragraph-break markers separate
// consecutive paragraphs; readable chunks carry contiguous zero-based
// indices and never exceed the word cap.
func (b *Builder) Build(raw string) []model.Chunk {
	paragraphs := SplitParagraphs(raw)
	var chunks []model.Chunk
	for pi, paragraph := range paragraphs {
		chunks = append(chunks, b.buildParagraph(paragraph)...)
		if pi < len(paragraphs)-1 {
			chunks = append(chunks, model.Chunk{Break: true, Index: -1})
		}
	}

	sized := make([]model.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Break || c.WordCount() <= b.maxWords {
			sized = append(sized, c)
			continue
		}
		sized = append(sized, b.resplit(c)...)
	}

	idx := 0
	for i := range sized {
		if sized[i].Break {
			sized[i].Index = -1
			continue
		}
		sized[i].Index = idx
		idx++
	}
	return sized
}

// buildParagraph is the natural chunking stage: chunks close on hard and
// soft sentence terminators.
func (b *Builder) buildParagraph(paragraph string) []model.Chunk {
	var out []model.Chunk
	var buf []model.Token
	var original strings.Builder

	flush := func() {
		if len(buf) == 0 {
			return
		}
		out = append(out, model.Chunk{Tokens: buf, Original: original.String(), Index: -1})
		buf = nil
		original.Reset()
	}

	for _, tok := range Tokenize(paragraph) {
		switch tok.Kind {
		case model.TokenWord:
			bold, normal := fixation.Split(tok.Text, b.fixationLevel)
			buf = append(buf, model.Token{
				Kind:    model.TokenWord,
				Text:    tok.Text,
				Bold:    bold,
				Normal:  normal,
				Opacity: b.opacity,
			})
			original.WriteString(tok.Text)
		case model.TokenSpace:
			buf = append(buf, tok)
			original.WriteString(tok.Text)
		case model.TokenPunct:
			buf = attachPunctuation(buf, tok.Text)
			original.WriteString(tok.Text)
			if endsTerminator(tok.Text) {
				flush()
			}
		}
	}
	flush()
	return out
}

// attachPunctuation merges a punctuation run onto the nearest preceding word
// token, skipping spaces. When a non-word, non-space token (or the buffer
// start) is reached first, the run is pushed standalone instead.
func attachPunctuation(buf []model.Token, punct string) []model.Token {
	for i := len(buf) - 1; i >= 0; i-- {
		switch buf[i].Kind {
		case model.TokenSpace:
			continue
		case model.TokenWord:
			buf[i].Text += punct
			buf[i].Normal += punct
			return buf
		default:
			return append(buf, model.Token{Kind: model.TokenPunct, Text: punct})
		}
	}
	return append(buf, model.Token{Kind: model.TokenPunct, Text: punct})
}

func endsTerminator(punct string) bool {
	runes := []rune(punct)
	if len(runes) == 0 {
		return false
	}
	last := runes[len(runes)-1]
	return strings.ContainsRune(hardTerminators, last) || strings.ContainsRune(softTerminators, last)
}

// resplit is the size-bounded fallback stage: once the word cap is reached,
// the chunk closes at the following whitespace boundary, or directly before
// the next word when no space intervenes. A single word token that carries
// attached punctuation is never divided.
func (b *Builder) resplit(c model.Chunk) []model.Chunk {
	var out []model.Chunk
	emit := func(seg []model.Token) {
		if len(seg) == 0 {
			return
		}
		orig := originalOf(seg)
		if strings.TrimSpace(orig) == "" {
			return
		}
		out = append(out, model.Chunk{
			Tokens:   append([]model.Token(nil), seg...),
			Original: orig,
			Index:    -1,
		})
	}

	var seg []model.Token
	words := 0
	for _, tok := range c.Tokens {
		if tok.Kind == model.TokenWord && words == b.maxWords {
			emit(seg)
			seg = nil
			words = 0
		}
		seg = append(seg, tok)
		if tok.Kind == model.TokenWord {
			words++
		}
	}
	emit(seg)
	return out
}

func originalOf(tokens []model.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Readable filters paragraph-break markers out of a finalized sequence.
func Readable(chunks []model.Chunk) []model.Chunk {
	out := make([]model.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Break {
			continue
		}
		out = append(out, c)
	}
	return out
}
