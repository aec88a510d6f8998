package openai

import "strings"

// maxEmbedRunes bounds the text sent per input; long articles are clipped.
const maxEmbedRunes = 8000

// prepareText collapses whitespace and clips text to maxEmbedRunes.
func prepareText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxEmbedRunes {
		return string(runes[:maxEmbedRunes])
	}
	return s
}

func prepareTexts(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = prepareText(t)
	}
	return out
}
