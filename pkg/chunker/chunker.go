// Package chunker splits reference-documentation text into bounded,
// overlap-aware chunks for the retrieval subsystem. All sizes and offsets
// are measured in runes so Unicode text chunks consistently with ASCII.
package chunker

import (
	"regexp"
	"strings"

	"github.com/querylens/querylens-engine/pkg/models"
)

// Strategy selects how a document is split.
type Strategy string

const (
	StrategyFixed     Strategy = "fixed"
	StrategySentence  Strategy = "sentence"
	StrategyParagraph Strategy = "paragraph"
	StrategyMarkdown  Strategy = "markdown"
)

// Options controls chunk sizing. Overlap applies to the fixed strategy only:
// it is the number of trailing characters repeated at the start of the next
// chunk for context continuity.
type Options struct {
	Strategy     Strategy
	MaxChunkSize int
	MinChunkSize int
	Overlap      int
}

// DefaultOptions returns the sizing used by the documentation corpus.
func DefaultOptions() Options {
	return Options{
		Strategy:     StrategySentence,
		MaxChunkSize: 1000,
		MinChunkSize: 50,
		Overlap:      100,
	}
}

var (
	markdownHeaderRegex = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blankLineRegex      = regexp.MustCompile(`\n[ \t]*\n`)
)

// Chunk splits text into DocumentChunks using the requested strategy.
// Empty text, or text shorter than MinChunkSize, yields an empty list:
// undersized chunks are never emitted.
func Chunk(text, title string, opts Options) []models.DocumentChunk {
	opts = normalizeOptions(opts)

	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 || len(runes) < opts.MinChunkSize {
		return []models.DocumentChunk{}
	}

	var pieces []piece
	switch opts.Strategy {
	case StrategyFixed:
		pieces = chunkFixed(runes, opts)
	case StrategyParagraph:
		pieces = chunkBySegments(runes, paragraphSegments(runes), opts)
	case StrategyMarkdown:
		pieces = chunkMarkdown(runes, title, opts)
	default:
		pieces = chunkBySegments(runes, sentenceSegments(runes), opts)
	}

	chunks := make([]models.DocumentChunk, 0, len(pieces))
	for i, p := range pieces {
		chunkTitle := title
		if p.title != "" {
			chunkTitle = p.title
		}
		chunks = append(chunks, models.DocumentChunk{
			Text: string(runes[p.start:p.end]),
			Metadata: models.ChunkMetadata{
				Title:       chunkTitle,
				ChunkIndex:  i,
				TotalChunks: len(pieces),
				StartChar:   p.start,
				EndChar:     p.end,
			},
		})
	}
	return chunks
}

// SmartChunk auto-detects the best strategy for the text: markdown when
// header syntax is present, paragraph when blank-line structure is present,
// sentence otherwise.
func SmartChunk(text, title string, opts Options) []models.DocumentChunk {
	switch {
	case markdownHeaderRegex.MatchString(text):
		opts.Strategy = StrategyMarkdown
	case blankLineRegex.MatchString(text):
		opts.Strategy = StrategyParagraph
	default:
		opts.Strategy = StrategySentence
	}
	return Chunk(text, title, opts)
}

// piece is a half-open rune range [start, end) plus an optional title
// override (markdown sections carry their enclosing header).
type piece struct {
	start int
	end   int
	title string
}

func normalizeOptions(opts Options) Options {
	def := DefaultOptions()
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = def.MaxChunkSize
	}
	if opts.MinChunkSize < 0 {
		opts.MinChunkSize = 0
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap >= opts.MaxChunkSize {
		opts.Overlap = opts.MaxChunkSize - 1
	}
	if opts.MinChunkSize > opts.MaxChunkSize {
		opts.MinChunkSize = opts.MaxChunkSize
	}
	return opts
}

// chunkFixed slides a MaxChunkSize window with step MaxChunkSize-Overlap.
// Every chunk except possibly the last has exactly MaxChunkSize runes.
func chunkFixed(runes []rune, opts Options) []piece {
	step := opts.MaxChunkSize - opts.Overlap
	if step < 1 {
		step = opts.MaxChunkSize
	}

	var pieces []piece
	for start := 0; start < len(runes); start += step {
		end := start + opts.MaxChunkSize
		if end >= len(runes) {
			pieces = append(pieces, piece{start: start, end: len(runes)})
			break
		}
		pieces = append(pieces, piece{start: start, end: end})
	}
	return pieces
}

// segment is one sentence or paragraph with its rune offsets.
type segment struct {
	start int
	end   int
}

// sentenceSegments splits on terminal punctuation (. ! ?) followed by
// whitespace or end of text. A sentence is never split internally.
func sentenceSegments(runes []rune) []segment {
	var segs []segment
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Consume a run of terminal punctuation ("?!", "...").
		for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
			i++
		}
		if i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' || runes[i+1] == '\r' {
			segs = appendTrimmed(segs, runes, start, i+1)
			start = i + 1
		}
	}
	segs = appendTrimmed(segs, runes, start, len(runes))
	return segs
}

// paragraphSegments splits on blank-line boundaries.
func paragraphSegments(runes []rune) []segment {
	text := string(runes)
	var segs []segment
	start := 0

	for _, loc := range blankLineRegex.FindAllStringIndex(text, -1) {
		// Regex indexes are bytes; convert to runes.
		segs = appendTrimmed(segs, runes, start, runeLen(text[:loc[0]]))
		start = runeLen(text[:loc[1]])
	}
	segs = appendTrimmed(segs, runes, start, len(runes))
	return segs
}

// appendTrimmed adds [start, end) with surrounding whitespace excluded,
// dropping the segment entirely if nothing remains.
func appendTrimmed(segs []segment, runes []rune, start, end int) []segment {
	for start < end && isSpaceRune(runes[start]) {
		start++
	}
	for end > start && isSpaceRune(runes[end-1]) {
		end--
	}
	if end > start {
		segs = append(segs, segment{start: start, end: end})
	}
	return segs
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func runeLen(s string) int {
	return len([]rune(s))
}

// chunkBySegments accumulates segments into a chunk until adding the next
// one would exceed MaxChunkSize. A trailing fragment shorter than
// MinChunkSize is merged into the previous chunk rather than emitted
// undersized; only the final chunk may therefore exceed MaxChunkSize.
func chunkBySegments(runes []rune, segs []segment, opts Options) []piece {
	var pieces []piece
	cur := segment{start: -1}

	flush := func() {
		if cur.start >= 0 && cur.end > cur.start {
			pieces = append(pieces, piece{start: cur.start, end: cur.end})
		}
		cur = segment{start: -1}
	}

	for _, seg := range segs {
		if cur.start < 0 {
			cur = seg
			continue
		}
		if seg.end-cur.start > opts.MaxChunkSize {
			flush()
			cur = seg
			continue
		}
		cur.end = seg.end
	}
	flush()

	// Merge or drop an undersized tail.
	if n := len(pieces); n > 0 && pieces[n-1].end-pieces[n-1].start < opts.MinChunkSize {
		if n == 1 {
			return nil
		}
		pieces[n-2].end = pieces[n-1].end
		pieces = pieces[:n-1]
	}

	return pieces
}

// chunkMarkdown splits on header lines and chunks each section by sentence,
// folding the nearest enclosing header into the section's chunk titles.
func chunkMarkdown(runes []rune, baseTitle string, opts Options) []piece {
	text := string(runes)
	locs := markdownHeaderRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return chunkBySegments(runes, sentenceSegments(runes), opts)
	}

	type section struct {
		start int // rune offset of section body (after header line)
		end   int
		title string
	}

	var sections []section

	// Preamble before the first header keeps the document title.
	if first := runeLen(text[:locs[0][0]]); first > 0 {
		sections = append(sections, section{start: 0, end: first, title: baseTitle})
	}

	for i, loc := range locs {
		headerStart := runeLen(text[:loc[0]])
		sectionEnd := len(runes)
		if i+1 < len(locs) {
			sectionEnd = runeLen(text[:locs[i+1][0]])
		}

		// Header text runs to end of line.
		lineEnd := headerStart
		for lineEnd < sectionEnd && runes[lineEnd] != '\n' {
			lineEnd++
		}
		header := strings.TrimSpace(strings.TrimLeft(string(runes[headerStart:lineEnd]), "# "))

		title := baseTitle
		if header != "" {
			title = baseTitle + " > " + header
		}

		bodyStart := lineEnd
		if bodyStart < sectionEnd {
			bodyStart++ // skip the newline
		}
		sections = append(sections, section{start: bodyStart, end: sectionEnd, title: title})
	}

	var pieces []piece
	for _, sec := range sections {
		body := runes[sec.start:sec.end]
		for _, p := range chunkBySegments(body, sentenceSegments(body), opts) {
			pieces = append(pieces, piece{
				start: sec.start + p.start,
				end:   sec.start + p.end,
				title: sec.title,
			})
		}
	}
	return pieces
}
