package search

import (
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/index"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterVectorSearch(candidates []index.Candidate)
	AfterKeywordSeeding(seeds []string)
	AfterGraphPropagation(scores map[string]float64)
	Finish(results []*core.ScoredSkill)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterVectorSearch(_ []index.Candidate)      {}
func (n *noopMonitor) AfterKeywordSeeding(_ []string)             {}
func (n *noopMonitor) AfterGraphPropagation(_ map[string]float64) {}
func (n *noopMonitor) Finish(_ []*core.ScoredSkill)               {}
