package relevance

import (
	"slices"
	"strings"
)

// TopicKeywords maps a topic label to the keywords that imply it.
type TopicKeywords map[string][]string

// DetectTopics returns, in sorted order, every topic with at least one
// keyword occurring in text.
func DetectTopics(text string, topics TopicKeywords) []string {
	lower := strings.ToLower(text)
	detected := make([]string, 0)
	for topic, keywords := range topics {
		for _, k := range keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				detected = append(detected, topic)
				break
			}
		}
	}
	slices.Sort(detected)
	return detected
}
