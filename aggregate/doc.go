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


// Package aggregate fans operations out to many sources concurrently.
//
// Every source runs in isolation on a worker pool. A source that fails,
// times out, or panics contributes nothing and is reported in the Outcome;
// the remaining sources' results are still returned. Results are merged by
// source order and score, never by arrival order, so output is reproducible
// regardless of network timing.
package aggregate
