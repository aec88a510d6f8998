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

import (
	"slices"

	"github.com/poiesic/feedrank/fetch"
	"github.com/poiesic/feedrank/relevance"
)

// Built-in source identifiers.
const (
	Sundell       = "sundell"
	VanDerLee     = "vanderlee"
	NilCoalescing = "nilcoalescing"
	PointFree     = "pointfree"
	Patreon       = "patreon"
)

// Catalog returns the built-in source configurations in a fixed order.
// The patreon entry has no feed URL; it must be supplied once the source
// has been authorized.
func Catalog() []Config {
	return []Config{
		{
			ID:          Sundell,
			Name:        "Swift by Sundell",
			Description: "Articles and tips on Swift architecture, testing and SwiftUI",
			FeedURL:     "https://www.swiftbysundell.com/feed.rss",
			Baseline:    relevance.DefaultBaseline,
			CodeBonus:   relevance.DefaultCodeBonus,
			TopicKeywords: relevance.TopicKeywords{
				"testing":      {"test", "unittest", "xctest", "mock"},
				"networking":   {"network", "urlsession", "api", "http"},
				"architecture": {"architecture", "mvvm", "viper", "coordinator"},
				"swiftui":      {"swiftui", "view", "state", "binding"},
				"concurrency":  {"async", "await", "actor", "task", "thread"},
				"protocols":    {"protocol", "generic", "associated type"},
				"performance":  {"performance", "optimization", "memory", "speed"},
			},
			QualitySignals: relevance.Signals{
				"how to": 5, "step by step": 5, "tutorial": 5, "guide": 4,
				"example": 4, "pattern": 6, "best practice": 8, "tip": 3,
				"architecture": 8, "testing": 7, "performance": 7, "concurrency": 7,
				"async": 6, "await": 6, "actor": 6, "protocol": 5, "generic": 5,
				"swiftui": 6, "combine": 6, "uikit": 5, "foundation": 4,
			},
		},
		{
			ID:          VanDerLee,
			Name:        "SwiftLee",
			Description: "Practical guides on debugging, performance and tooling",
			FeedURL:     "https://www.avanderlee.com/feed/",
			Baseline:    relevance.DefaultBaseline,
			CodeBonus:   relevance.DefaultCodeBonus,
			TopicKeywords: relevance.TopicKeywords{
				"debugging":   {"debug", "breakpoint", "lldb", "xcode"},
				"performance": {"performance", "memory", "leak", "optimization"},
				"swiftui":     {"swiftui", "view", "state", "binding"},
				"combine":     {"combine", "publisher", "subscriber"},
				"concurrency": {"async", "await", "actor", "task"},
				"testing":     {"test", "xctest", "mock"},
				"tooling":     {"xcode", "git", "ci", "fastlane"},
			},
			QualitySignals: relevance.Signals{
				"how to": 5, "step by step": 5, "tutorial": 5, "guide": 4,
				"example": 4, "tip": 3, "fix": 4, "solve": 4,
				"performance": 8, "memory": 7, "debugging": 7, "leak": 6,
				"optimization": 7, "profiling": 6, "concurrency": 7,
				"async": 6, "await": 6, "combine": 6, "swiftui": 6,
				"xcode": 5, "instruments": 6, "ci": 4, "fastlane": 4,
			},
			FetchFullArticle: true,
			ExtractContent:   fetch.Extractor(".entry-content", "article", "main"),
		},
		{
			ID:          NilCoalescing,
			Name:        "Nil Coalescing",
			Description: "In-depth SwiftUI layout, animation and API articles",
			FeedURL:     "https://nilcoalescing.com/feed.rss",
			Baseline:    relevance.DefaultBaseline,
			CodeBonus:   relevance.DefaultCodeBonus,
			TopicKeywords: relevance.TopicKeywords{
				"swiftui":       {"swiftui", "view", "modifier", "binding"},
				"layout":        {"layout", "stack", "grid", "alignment"},
				"animation":     {"animation", "transition", "matchedgeometry"},
				"accessibility": {"accessibility", "voiceover", "dynamic type"},
				"concurrency":   {"async", "await", "actor", "task"},
			},
			QualitySignals: relevance.Signals{
				"how to": 5, "tutorial": 5, "guide": 4, "example": 4,
				"tip": 3, "pattern": 6, "swiftui": 7, "layout": 6,
				"animation": 6, "accessibility": 6, "modifier": 5,
				"environment": 4, "observable": 5,
			},
			FetchFullArticle: true,
			ExtractContent:   fetch.Extractor("article", "main"),
		},
		{
			ID:          PointFree,
			Name:        "Point-Free",
			Description: "Functional programming, architecture and testing in Swift",
			FeedURL:     "https://www.pointfree.co/blog/rss.xml",
			Baseline:    relevance.DefaultBaseline,
			CodeBonus:   relevance.DefaultCodeBonus,
			TopicKeywords: relevance.TopicKeywords{
				"architecture": {"architecture", "composable", "reducer", "store"},
				"testing":      {"test", "snapshot", "mock", "dependency"},
				"functional":   {"functional", "parser", "composition", "map"},
				"concurrency":  {"async", "await", "actor", "task", "sendable"},
				"swiftui":      {"swiftui", "view", "binding", "navigation"},
			},
			QualitySignals: relevance.Signals{
				"architecture": 8, "composable": 6, "testing": 7, "dependency": 5,
				"functional": 6, "parser": 5, "reducer": 5, "concurrency": 7,
				"async": 6, "await": 6, "swiftui": 6, "navigation": 5,
				"example": 4, "pattern": 6,
			},
		},
		{
			ID:          Patreon,
			Name:        "Patreon",
			Description: "Premium content from creators you support",
			Baseline:    relevance.DefaultBaseline,
			CodeBonus:   relevance.DefaultCodeBonus,
			TopicKeywords: relevance.TopicKeywords{
				"swiftui":     {"swiftui", "view", "state", "binding"},
				"concurrency": {"async", "await", "actor", "task"},
				"testing":     {"test", "xctest", "mock"},
			},
			QualitySignals: relevance.Signals{
				"tutorial": 5, "guide": 4, "example": 4, "pattern": 6,
				"swiftui": 6, "async": 6, "testing": 7,
			},
			RequiresAuth: true,
		},
	}
}

// Lookup returns the built-in configuration for id.
func Lookup(id string) (Config, bool) {
	catalog := Catalog()
	i := slices.IndexFunc(catalog, func(c Config) bool { return c.ID == id })
	if i < 0 {
		return Config{}, false
	}
	return catalog[i], true
}

// IDs returns the built-in source identifiers in catalog order.
func IDs() []string {
	catalog := Catalog()
	ids := make([]string, len(catalog))
	for i, c := range catalog {
		ids[i] = c.ID
	}
	return ids
}
