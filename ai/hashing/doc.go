// Package hashing provides a local, deterministic embedding backend.
//
// Texts are tokenized with the search tokenizer, and each stem plus its
// character trigrams is hashed into a fixed number of signed buckets. The
// resulting vectors are L2-normalized so a dot product is a cosine
// similarity. No network service or model download is required, which makes
// this the default backend for semantic recall.
package hashing
