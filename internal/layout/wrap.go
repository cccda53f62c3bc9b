package layout

import (
	"regexp"
	"strings"
)

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// SplitParagraphs splits text on blank lines and drops empty paragraphs.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range blankLine.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WrapText breaks a paragraph into lines no wider than width. Single line
// breaks inside the paragraph are kept. A word wider than a whole line is
// split across lines.
func WrapText(paragraph string, width, fontSize float64, measure Measurer) []string {
	var lines []string
	for _, hard := range strings.Split(paragraph, "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate, fontSize, false) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for measure(word, fontSize, false) > width {
				head, tail := splitWord(word, width, fontSize, measure)
				lines = append(lines, head)
				word = tail
			}
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// splitWord returns the longest prefix of word that fits width, taking at
// least one rune so the caller always makes progress.
func splitWord(word string, width, fontSize float64, measure Measurer) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1]), fontSize, false) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
