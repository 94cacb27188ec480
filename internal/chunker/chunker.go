// Package chunker splits long medical transcriptions into bounded,
// sentence-respecting segments for per-chunk analysis.
package chunker

import (
	"regexp"
	"strings"
)

// Chunk is one ordered segment of a document. Index defines merge
// precedence for tie-breaks downstream.
type Chunk struct {
	Index int
	Text  string
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)
)

// Normalize collapses all runs of whitespace to single spaces and trims
// the ends. Trivial formatting differences between two uploads of the
// same document normalize to identical text.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. The punctuation stays with its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, m := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : m[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = m[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Split normalizes text and cuts it into ordered chunks of at most
// maxChars characters each. Sentences are kept whole where possible; a
// single sentence longer than maxChars is hard-split on word boundaries.
// A lone word longer than maxChars is passed through as its own chunk.
// For non-empty input the result is always at least one non-empty chunk.
func Split(text string, maxChars int) []Chunk {
	text = Normalize(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxChars {
		return []Chunk{{Index: 0, Text: text}}
	}

	var pieces []string
	current := ""

	for _, sentence := range SplitSentences(text) {
		if candidate := join(current, sentence); len(candidate) <= maxChars {
			current = candidate
			continue
		}

		if current != "" {
			pieces = append(pieces, current)
		}

		if len(sentence) <= maxChars {
			current = sentence
			continue
		}

		// Sentence exceeds the budget: accumulate words instead.
		wordChunk := ""
		for _, word := range strings.Fields(sentence) {
			if candidate := join(wordChunk, word); len(candidate) <= maxChars {
				wordChunk = candidate
				continue
			}
			if wordChunk != "" {
				pieces = append(pieces, wordChunk)
			}
			wordChunk = word
		}
		current = wordChunk
	}

	if current != "" {
		pieces = append(pieces, current)
	}

	chunks := make([]Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = Chunk{Index: i, Text: p}
	}
	return chunks
}

func join(acc, next string) string {
	if acc == "" {
		return next
	}
	return acc + " " + next
}
