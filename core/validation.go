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


package core

import (
	"fmt"
	"strings"
)

// MinScore and MaxScore bound every relevance score in the system.
const (
	MinScore = 0
	MaxScore = 100
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - RelevanceScore must lie in [MinScore, MaxScore]
//
// Title and content may be empty; feeds occasionally publish bare links.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}

	if doc.RelevanceScore < MinScore || doc.RelevanceScore > MaxScore {
		return fmt.Errorf("%w: %w: %d", ErrInvalidDocument, ErrScoreOutOfRange, doc.RelevanceScore)
	}

	return nil
}

// NormalizeQuery lowercases the query and collapses runs of whitespace.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// ValidateQuery returns the normalized query or ErrEmptyQuery.
func ValidateQuery(query string) (string, error) {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		return "", ErrEmptyQuery
	}
	return normalized, nil
}

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
