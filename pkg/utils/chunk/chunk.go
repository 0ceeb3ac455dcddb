// Package chunk splits text and line sequences into size-bounded fragments for outbound chat messages.
// All sizes are measured in bytes.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Text splits text into fragments of at most maxBytes bytes. Line boundaries are preferred;
// a single line longer than maxBytes is cut at the last UTF-8 rune start that fits.
// Concatenating the fragments in order yields text exactly.
// An empty text yields no fragments, and a non-positive maxBytes disables splitting.
func Text(text string, maxBytes int) []string {
	if text == "" {
		return []string{}
	}
	if maxBytes <= 0 || len(text) <= maxBytes {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, line := range splitAfterNewline(text) {
		if cur.Len()+len(line) <= maxBytes {
			cur.WriteString(line)
			continue
		}
		flush()

		for len(line) > maxBytes {
			cut := cutPoint(line, maxBytes)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		cur.WriteString(line)
	}
	flush()

	return chunks
}

// Lines packs whole lines into chunks whose joined size (lines joined with sep) is at most maxBytes.
// A line that alone exceeds maxBytes is split with Text and each fragment becomes its own chunk.
// A non-positive maxBytes puts every line into a single chunk.
func Lines(lines []string, maxBytes int, sep string) [][]string {
	chunks := [][]string{}
	var cur []string
	size := 0
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, cur)
			cur = nil
			size = 0
		}
	}

	for _, line := range lines {
		if maxBytes > 0 && len(line) > maxBytes {
			flush()
			for _, part := range Text(line, maxBytes) {
				chunks = append(chunks, []string{part})
			}
			continue
		}

		add := len(line)
		if len(cur) > 0 {
			add += len(sep)
		}
		if len(cur) > 0 && maxBytes > 0 && size+add > maxBytes {
			flush()
			add = len(line)
		}
		cur = append(cur, line)
		size += add
	}
	flush()

	return chunks
}

// JoinedLines is Lines followed by joining each chunk with sep.
func JoinedLines(lines []string, maxBytes int, sep string) []string {
	chunks := Lines(lines, maxBytes, sep)
	result := make([]string, len(chunks))
	for i, c := range chunks {
		result[i] = strings.Join(c, sep)
	}
	return result
}

// Items groups items into consecutive chunks of at most perChunk elements.
func Items[T any](items []T, perChunk int) [][]T {
	if perChunk <= 0 {
		perChunk = len(items)
	}
	chunks := make([][]T, 0, (len(items)+perChunk-1)/max(perChunk, 1))
	for start := 0; start < len(items); start += perChunk {
		end := min(start+perChunk, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// splitAfterNewline splits s after each '\n', keeping the newline on the preceding piece.
func splitAfterNewline(s string) []string {
	return strings.SplitAfter(s, "\n")
}

// cutPoint returns the largest index in [1, maxBytes] where s may be cut without splitting a rune.
// It assumes len(s) > maxBytes.
func cutPoint(s string, maxBytes int) int {
	for i := maxBytes; i > 0; i-- {
		if utf8.RuneStart(s[i]) {
			return i
		}
	}
	return maxBytes
}
