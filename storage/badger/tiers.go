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


package badger

import (
	"github.com/poiesic/feedrank/core"
	"github.com/poiesic/feedrank/storage"
)

// NewTiers creates the three cache tiers over a shared backend. The tiers
// use disjoint key prefixes and their own TTLs.
func NewTiers(backend *Backend, ttls storage.TTLs, opts ...CacheOption) (*storage.Tiers, error) {
	if err := ttls.Validate(); err != nil {
		return nil, err
	}

	feeds, err := NewCacheStore[[]core.Document](backend, feedPrefix, storage.DocumentsCodec, ttls.Feed, opts...)
	if err != nil {
		return nil, err
	}
	articles, err := NewCacheStore[string](backend, articlePrefix, storage.StringCodec, ttls.Article, opts...)
	if err != nil {
		return nil, err
	}
	intents, err := NewCacheStore[[]core.Document](backend, intentPrefix, storage.DocumentsCodec, ttls.Intent, opts...)
	if err != nil {
		return nil, err
	}

	return &storage.Tiers{
		Feeds:    feeds,
		Articles: articles,
		Intents:  intents,
	}, nil
}
