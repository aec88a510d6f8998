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


// Package recall implements the semantic recall supplement: a best-effort
// retrieval pass that runs when lexical search underperforms.
//
// The supplement has two states. It stays inactive while the lexical results
// are good enough and activates when they are empty or when the best of them
// scores below a configured threshold. The decision is made once per query.
//
// When active, it embeds the whole document collection (reusing the vectors
// while the collection's content hash is unchanged), takes the top K
// documents nearest to the query, and keeps those that are not already among
// the lexical results, satisfy the code requirement, and meet the relevance
// floor.
//
// Nothing in this package returns an error to the search path. Every outcome
// is a Result whose Status tells "nothing found" apart from "degraded".
package recall
