package search

import (
	"github.com/poiesic/feedrank/core"
)

// Monitor provides hooks to observe a query as it moves through lexical
// search, semantic recall, and the final merge.
type Monitor interface {
	Start(query string)
	AfterLexicalSearch(docs []core.Document)
	RecallActivated(reason string)
	AfterRecall(status string, added []core.Document)
	Finish(docs []core.Document)
}

// NoopMonitor ignores every event.
type NoopMonitor struct{}

var _ Monitor = NoopMonitor{}

func (NoopMonitor) Start(_ string) {}
func (NoopMonitor) AfterLexicalSearch(_ []core.Document) {}
func (NoopMonitor) RecallActivated(_ string) {}
func (NoopMonitor) AfterRecall(_ string, _ []core.Document) {}
func (NoopMonitor) Finish(_ []core.Document) {}
