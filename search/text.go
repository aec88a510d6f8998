package search

import (
	"regexp"
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// Stop words dropped during tokenization
var stopWords = toSet(
	"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
	"be", "have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "this", "that", "these",
	"those", "it", "its", "they", "them", "their", "we", "our", "you", "your",
	"i", "my", "me", "he", "she", "him", "her", "his", "who", "what", "which",
	"when", "where", "why", "how", "all", "each", "every", "both", "few",
	"more", "most", "other", "some", "such", "no", "not", "only", "same",
	"so", "than", "too", "very", "just", "also", "now", "here", "there",
)

// Technical terms that are never stemmed
var preservedTerms = toSet(
	"swift", "swiftui", "uikit", "combine", "async", "await", "actor",
	"struct", "class", "enum", "protocol", "extension", "func", "var", "let",
	"mvvm", "viper", "mvc", "tca", "xctest", "xcode", "ios", "macos",
	"watchos", "tvos", "ipados", "appkit", "foundation", "coredata",
	"cloudkit", "urlsession", "codable", "observable", "published",
	"stateobject", "observedobject", "environmentobject", "binding", "state",
)

// Anything that is not a word character, whitespace, or hyphen
var nonWord = regexp.MustCompile(`[^\w\s-]`)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// IsPreserved reports whether a token bypasses stemming.
func IsPreserved(token string) bool {
	return preservedTerms[token]
}

// Tokenize lowercases text, strips punctuation (hyphens survive so compound
// terms like async-await stay whole), drops single characters and stop words,
// and stems everything that is not a preserved technical term.
func Tokenize(text string) []string {
	surface := words(text)
	tokens := make([]string, len(surface))
	for i, w := range surface {
		tokens[i] = normalizeTerm(w)
	}
	return tokens
}

// words returns the surface forms that Tokenize would stem.
func words(text string) []string {
	fields := strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
	filtered := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 && !stopWords[f] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// normalizeTerm stems a single lowercase word unless it is preserved.
func normalizeTerm(word string) string {
	if preservedTerms[word] {
		return word
	}
	return porterstemmer.StemString(word)
}
