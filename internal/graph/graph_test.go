package graph

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 6379 {
		t.Errorf("Port = %d, want %d", cfg.Port, 6379)
	}
	if cfg.Name != "docintel" {
		t.Errorf("Name = %q, want %q", cfg.Name, "docintel")
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, 3)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want %v", cfg.RetryDelay, time.Second)
	}
	if cfg.WriteQueueSize != 1000 {
		t.Errorf("WriteQueueSize = %d, want %d", cfg.WriteQueueSize, 1000)
	}
}

func TestNewFalkorDBGraph(t *testing.T) {
	g := NewFalkorDBGraph()

	if g == nil {
		t.Fatal("NewFalkorDBGraph returned nil")
	}
	if g.config.Host != "localhost" {
		t.Errorf("config.Host = %q, want %q", g.config.Host, "localhost")
	}
	if g.logger == nil {
		t.Error("logger should not be nil")
	}
	if g.writeQueue == nil {
		t.Error("writeQueue should not be nil")
	}
	if cap(g.writeQueue) != DefaultConfig().WriteQueueSize {
		t.Errorf("writeQueue capacity = %d, want %d", cap(g.writeQueue), DefaultConfig().WriteQueueSize)
	}
	if g.stopChan == nil {
		t.Error("stopChan should not be nil")
	}
}

func TestNewFalkorDBGraphWithOptions(t *testing.T) {
	customConfig := Config{
		Host:           "custom-host",
		Port:           6380,
		Name:           "custom-graph",
		MaxRetries:     5,
		RetryDelay:     2 * time.Second,
		WriteQueueSize: 42,
	}

	g := NewFalkorDBGraph(WithConfig(customConfig))

	if g.config.Host != "custom-host" {
		t.Errorf("config.Host = %q, want %q", g.config.Host, "custom-host")
	}
	if g.config.Port != 6380 {
		t.Errorf("config.Port = %d, want %d", g.config.Port, 6380)
	}
	if g.config.Name != "custom-graph" {
		t.Errorf("config.Name = %q, want %q", g.config.Name, "custom-graph")
	}
	if g.config.MaxRetries != 5 {
		t.Errorf("config.MaxRetries = %d, want %d", g.config.MaxRetries, 5)
	}
	if cap(g.writeQueue) != 42 {
		t.Errorf("writeQueue capacity = %d, want %d", cap(g.writeQueue), 42)
	}
}

func TestFalkorDBGraphName(t *testing.T) {
	g := NewFalkorDBGraph()
	if g.Name() != "graph" {
		t.Errorf("Name() = %q, want %q", g.Name(), "graph")
	}
}

func TestFalkorDBGraphIsConnected(t *testing.T) {
	g := NewFalkorDBGraph()
	if g.IsConnected() {
		t.Error("new graph should not be connected")
	}
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"hello'world", "hello\\'world"},
		{"test\\path", "test\\\\path"},
		{"it's a \"test\"", "it\\'s a \"test\""},
		{"path\\with'quotes", "path\\\\with\\'quotes"},
		{"", ""},
	}

	for _, tt := range tests {
		result := escapeString(tt.input)
		if result != tt.expected {
			t.Errorf("escapeString(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestNodeLabels(t *testing.T) {
	if LabelDocument != "Document" {
		t.Errorf("LabelDocument = %q, want %q", LabelDocument, "Document")
	}
	if LabelHeading != "Heading" {
		t.Errorf("LabelHeading = %q, want %q", LabelHeading, "Heading")
	}
}

func TestRelationshipTypes(t *testing.T) {
	if RelContains != "CONTAINS" {
		t.Errorf("RelContains = %q, want %q", RelContains, "CONTAINS")
	}
	if RelNext != "NEXT" {
		t.Errorf("RelNext = %q, want %q", RelNext, "NEXT")
	}
}

func TestDocumentNodeFields(t *testing.T) {
	now := time.Now()
	doc := DocumentNode{
		DocID:      "doc1",
		Filename:   "report.pdf",
		Partition:  "fresh",
		Title:      "Quarterly Report",
		PageCount:  12,
		IngestedAt: now,
		UpdatedAt:  now,
	}

	if doc.DocID != "doc1" {
		t.Errorf("DocID = %q, want %q", doc.DocID, "doc1")
	}
	if doc.PageCount != 12 {
		t.Errorf("PageCount = %d, want %d", doc.PageCount, 12)
	}
}

func TestHeadingNodeFields(t *testing.T) {
	h := HeadingNode{
		DocID:   "doc1",
		Ordinal: 1,
		Level:   "H1",
		Text:    "Introduction",
		Page:    1,
	}

	if h.Level != "H1" {
		t.Errorf("Level = %q, want %q", h.Level, "H1")
	}
	if h.Ordinal != 1 {
		t.Errorf("Ordinal = %d, want %d", h.Ordinal, 1)
	}
}

func TestQueryResult(t *testing.T) {
	qr := QueryResult{
		Rows: [][]any{{"a", 1}},
		Stats: QueryStats{
			NodesCreated:  2,
			PropertiesSet: 5,
		},
	}

	if len(qr.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1", len(qr.Rows))
	}
	if qr.Stats.NodesCreated != 2 {
		t.Errorf("NodesCreated = %d, want 2", qr.Stats.NodesCreated)
	}
}

func TestOperationsWithoutConnection(t *testing.T) {
	g := NewFalkorDBGraph()
	ctx := t.Context()

	t.Run("UpsertDocument", func(t *testing.T) {
		err := g.UpsertDocument(ctx, &DocumentNode{DocID: "doc1"}, nil)
		if err == nil {
			t.Error("expected error when not connected")
		}
	})

	t.Run("DeleteDocument", func(t *testing.T) {
		err := g.DeleteDocument(ctx, "doc1")
		if err == nil {
			t.Error("expected error when not connected")
		}
	})

	t.Run("Query", func(t *testing.T) {
		_, err := g.Query(ctx, "MATCH (n) RETURN n")
		if err == nil {
			t.Error("expected error when not connected")
		}
	})
}

func TestStopWithoutStart(t *testing.T) {
	g := NewFalkorDBGraph()
	if err := g.Stop(t.Context()); err != nil {
		t.Errorf("Stop on unconnected graph should be a no-op, got %v", err)
	}
}
