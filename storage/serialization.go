// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/feedrank/core"
)

// Codec converts cached values to and from bytes.
type Codec[V any] interface {
	Marshal(v V) []byte
	Unmarshal(data []byte) (V, error)
}

// StringCodec encodes article text.
var StringCodec Codec[string] = stringCodec{}

// DocumentsCodec encodes document lists.
var DocumentsCodec Codec[[]core.Document] = documentsCodec{}

type stringCodec struct{}

func (stringCodec) Marshal(s string) []byte {
	buf := make([]byte, ord.String.Size(s))
	ord.String.Marshal(s, buf)
	return buf
}

func (stringCodec) Unmarshal(data []byte) (string, error) {
	s, _, err := ord.String.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return s, nil
}

type documentsCodec struct{}

func (documentsCodec) Marshal(docs []core.Document) []byte {
	size := varint.Int.Size(len(docs))
	for i := range docs {
		size += documentSize(&docs[i])
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(docs), buf)
	for i := range docs {
		n += marshalDocument(&docs[i], buf[n:])
	}
	return buf
}

func (documentsCodec) Unmarshal(data []byte) ([]core.Document, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if count < 0 || count > len(data) {
		return nil, fmt.Errorf("%w: document count %d", ErrTruncatedData, count)
	}
	docs := make([]core.Document, count)
	for i := range docs {
		m, err := unmarshalDocument(data[n:], &docs[i])
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
	}
	return docs, nil
}

func stringFields(d *core.Document) [7]*string {
	return [7]*string{&d.ID, &d.SourceID, &d.Title, &d.URL, &d.PublishDate, &d.Excerpt, &d.Content}
}

func documentSize(d *core.Document) int {
	size := 0
	for _, f := range stringFields(d) {
		size += ord.String.Size(*f)
	}
	size += varint.Int.Size(len(d.Topics))
	for _, t := range d.Topics {
		size += ord.String.Size(t)
	}
	size += varint.Int.Size(d.RelevanceScore)
	size += ord.Bool.Size(d.HasCode)
	return size
}

func marshalDocument(d *core.Document, bs []byte) int {
	n := 0
	for _, f := range stringFields(d) {
		n += ord.String.Marshal(*f, bs[n:])
	}
	n += varint.Int.Marshal(len(d.Topics), bs[n:])
	for _, t := range d.Topics {
		n += ord.String.Marshal(t, bs[n:])
	}
	n += varint.Int.Marshal(d.RelevanceScore, bs[n:])
	n += ord.Bool.Marshal(d.HasCode, bs[n:])
	return n
}

func unmarshalDocument(bs []byte, d *core.Document) (int, error) {
	n := 0
	for _, f := range stringFields(d) {
		s, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return n, err
		}
		*f = s
		n += m
	}

	topics, m, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return n, err
	}
	n += m
	if topics < 0 || topics > len(bs)-n {
		return n, ErrTruncatedData
	}
	d.Topics = make([]string, topics)
	for i := range d.Topics {
		t, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return n, err
		}
		d.Topics[i] = t
		n += m
	}

	d.RelevanceScore, m, err = varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return n, err
	}
	n += m

	d.HasCode, m, err = ord.Bool.Unmarshal(bs[n:])
	if err != nil {
		return n, err
	}
	return n + m, nil
}
