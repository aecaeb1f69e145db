package graph

// coreIndexes are the indexes created on graph startup. Safe to run
// repeatedly; FalkorDB ignores index creation on an already-indexed
// property.
var coreIndexes = []string{
	"CREATE INDEX FOR (d:Document) ON (d.doc_id)",
	"CREATE INDEX FOR (h:Heading) ON (h.doc_id)",
}

// initSchema creates the indexes the outline graph relies on. Failures are
// logged and otherwise ignored: a missing index degrades query speed, it
// never blocks ingest.
func (g *FalkorDBGraph) initSchema() {
	for _, query := range coreIndexes {
		if _, err := g.graph.Query(query); err != nil {
			g.logger.Debug("schema query", "query", query, "error", err)
		}
	}
}
