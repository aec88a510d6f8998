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


// Package search provides the lexical search layer.
//
// Text is normalized by Tokenize (lowercasing, stopword removal, Porter
// stemming with a set of preserved technical terms). An Index holds a
// token-normalized projection of a document collection and answers
// queries with exact, prefix, and fuzzy matches weighted per field.
//
// Raw index scores are unbounded; CombineScores folds them together with a
// document's static relevance into a single ranking number in [0,100].
package search
