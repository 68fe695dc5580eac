package ingest

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators is the split preference order: paragraph breaks first,
// then lines, sentences, words, and finally a hard character split.
var defaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// RecursiveSplitter splits text into chunks of at most chunkSize runes,
// overlapping consecutive chunks by up to chunkOverlap runes. It prefers to
// break at the coarsest separator that still produces pieces small enough,
// recursing to finer separators only for oversized pieces.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewRecursiveSplitter creates a splitter with the given size and overlap.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	return &RecursiveSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split breaks text into overlapping chunks. Whitespace-only pieces are
// dropped; an empty input yields no chunks.
func (s *RecursiveSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	// Pick the coarsest separator that actually occurs in the text.
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	if separator == "" {
		return s.hardSplit(text)
	}

	var final []string
	var small []string
	for _, part := range strings.Split(text, separator) {
		if utf8.RuneCountInString(part) < s.chunkSize {
			small = append(small, part)
			continue
		}
		// Oversized piece: flush what we have, then recurse into it with
		// finer separators.
		if len(small) > 0 {
			final = append(final, s.merge(small, separator)...)
			small = nil
		}
		if len(remaining) == 0 {
			final = append(final, part)
		} else {
			final = append(final, s.split(part, remaining)...)
		}
	}
	if len(small) > 0 {
		final = append(final, s.merge(small, separator)...)
	}
	return final
}

// merge packs adjacent pieces into chunks up to chunkSize, carrying a tail of
// up to chunkOverlap runes into the next chunk.
func (s *RecursiveSplitter) merge(parts []string, separator string) []string {
	sepLen := utf8.RuneCountInString(separator)

	var chunks []string
	var window []string
	total := 0

	for _, part := range parts {
		partLen := utf8.RuneCountInString(part)
		joinLen := 0
		if len(window) > 0 {
			joinLen = sepLen
		}

		if total+partLen+joinLen > s.chunkSize && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Slide the window forward until the retained tail fits within
			// the overlap and leaves room for the next piece.
			for len(window) > 0 && (total > s.chunkOverlap || total+partLen+sepLen > s.chunkSize) {
				head := utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					head += sepLen
				}
				total -= head
				window = window[1:]
			}
		}

		window = append(window, part)
		total += partLen
		if len(window) > 1 {
			total += sepLen
		}
	}

	if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// hardSplit cuts text into fixed-size rune windows when no separator applies.
func (s *RecursiveSplitter) hardSplit(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.chunkOverlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
