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


// Package sources turns remote feeds into scored, searchable documents.
//
// Every source is the same engine parameterized by a Config: feed location,
// topic keyword table, quality signal table, and optional full-article
// extraction. Sources differ only in data.
//
// A Source reads its feed through the feed cache tier and, when configured
// to fetch full articles, each article through the article cache tier.
// Each successful fetch starts a new fetch generation. The search index is
// rebuilt lazily on the next search of a newer generation, and reused while
// the generation and the content hash of the collection are unchanged.
package sources
