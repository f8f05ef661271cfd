package chain

// ChainStats holds aggregated statistics for a single chain.
type ChainStats struct {
	States          int // The number of unique state keys in the table.
	Links           int // The number of unique state->follow links.
	TotalCount      int // The sum of counts of all links; the total number of observed transitions.
	StartingSymbols int // The number of unique symbols that can start a run.
}

// Stats returns a snapshot of the chain's table: state, link and count
// totals, plus how many distinct symbols follow the begin state.
func (c *Chain[S]) Stats() ChainStats {
	var s ChainStats
	s.States = len(c.model)
	for _, set := range c.model {
		s.Links += len(set)
		for _, rec := range set {
			s.TotalCount += rec.Count
		}
	}
	s.StartingSymbols = len(c.model[JoinKey(BeginState(c.stateSize))])
	return s
}
