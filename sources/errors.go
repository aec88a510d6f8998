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


package sources

import "errors"

var (
	// ErrFeedFetcherRequired is returned when a Source is built without a feed fetcher.
	ErrFeedFetcherRequired = errors.New("feed fetcher is required")

	// ErrTiersRequired is returned when a Source is built without cache tiers.
	ErrTiersRequired = errors.New("cache tiers are required")

	// ErrInvalidConfig is returned for an incomplete source configuration.
	ErrInvalidConfig = errors.New("invalid source configuration")

	// ErrUnknownSource is returned when a source id is not in the catalog.
	ErrUnknownSource = errors.New("unknown source")

	// ErrAuthRequired is returned when enabling a source that needs
	// credentials which have not been configured.
	ErrAuthRequired = errors.New("source requires authentication")
)
