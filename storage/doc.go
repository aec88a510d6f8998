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


// Package storage provides the cache abstraction layer for feedrank.
//
// This package defines the tiered cache interfaces that decouple the search
// engine from the store that backs them. Three tiers exist, each with its
// own key space and TTL policy:
//
//   - Feeds: the scored document list of one source, keyed by source id
//   - Articles: extracted full-article text, keyed by URL
//   - Intents: the final ranked result set of one query shape, keyed by
//     the canonical intent key
//
// # Expiry
//
// Entries expire passively. A read past an entry's expiry is a miss, never a
// stale hit, and no background sweep is required.
//
// # Failures
//
// Store failures are not surfaced from Get. A corrupt or unreadable entry is
// reported as a miss; callers refetch and overwrite it.
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	tiers, backend, err := badger.NewMemoryTiers(storage.DefaultTTLs())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All cache implementations must be safe for concurrent use.
package storage
