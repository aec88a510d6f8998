package core

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// FeedItem is a raw item as produced by a feed source, before scoring.
type FeedItem struct {
	GUID           string
	Title          string
	Link           string
	PublishDate    string
	ContentSnippet string
	Content        string // Full item body when the feed carries one
}

// Document is a unit of indexed, searchable, scored content originating from
// one feed item. Documents are replaced wholesale on refetch, never mutated.
type Document struct {
	ID             string // "<source>-<guid or link>", stable across refetches
	SourceID       string
	Title          string
	URL            string
	PublishDate    string
	Excerpt        string
	Content        string
	Topics         []string
	RelevanceScore int // Static quality score in [0,100]
	HasCode        bool
}

// DocumentID builds the stable identifier for an item of the given source.
// The GUID is preferred; the link is used when the feed omits it. An item
// with neither has no stable identity and gets an empty id.
func DocumentID(sourceID string, item FeedItem) string {
	key := item.GUID
	if key == "" {
		key = item.Link
	}
	if key == "" {
		return ""
	}
	return sourceID + "-" + key
}

// ContentHash fingerprints a document collection by its size and sorted ids.
// Two collections with the same hash are treated as identical by derived
// structures such as search indexes.
func ContentHash(docs []Document) string {
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}
	slices.Sort(ids)

	h, _ := blake2b.New(16, nil)
	fmt.Fprintf(h, "%d-%s", len(docs), strings.Join(ids, ","))
	return hex.EncodeToString(h.Sum(nil))
}
