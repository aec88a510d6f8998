// Package fetch retrieves feeds and article pages over HTTP.
//
// FeedFetcher parses RSS, Atom and JSON feeds with gofeed and returns raw
// feed items. ArticleFetcher downloads article pages; Extractor and
// StripHTML reduce HTML to searchable text with goquery.
package fetch
