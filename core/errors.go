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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyID indicates the document ID is empty.
	ErrEmptyID = errors.New("document id cannot be empty")

	// ErrScoreOutOfRange indicates a relevance score outside [0,100].
	ErrScoreOutOfRange = errors.New("relevance score out of range")

	// ErrEmptyQuery indicates a query was empty or only whitespace.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyTool indicates an intent key was built without a tool name.
	ErrEmptyTool = errors.New("tool name cannot be empty")
)
