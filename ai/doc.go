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


// Package ai provides the embedding abstraction used by semantic recall.
//
// This package defines interfaces for text embedding so the recall layer can
// depend on an abstraction rather than a concrete model client.
//
// # Design Principles
//
// The package is designed around two interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - AIProvider: Owns an Embedder and its lifecycle
//
// # Implementation Packages
//
//   - ai/hashing: Local, deterministic feature-hashing embedder (default)
//   - ai/openai: OpenAI-compatible embedding APIs via langchaingo
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, hashing.NewProvider) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder) return CONCRETE types to enable test assertions and
// behavior injection.
//
//	provider, err := hashing.NewProvider(ai.DefaultConfig())  // returns ai.AIProvider
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithBackend(ai.BackendOpenAI))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"actors", "task groups"})
//
// # Thread Safety
//
// All implementations must be thread-safe for concurrent use.
package ai
