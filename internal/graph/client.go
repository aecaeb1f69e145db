// Package graph maintains the outline knowledge graph: one node per
// ingested document, one node per classified heading, and CONTAINS/NEXT
// edges mirroring the outline's page order. It is an enrichment over the
// outline extractor's own returned struct, not a second source of truth —
// graph writes are fire-and-forget-with-retry off a bounded queue, and a
// graph outage never blocks ingest.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/RedisGraph/redisgraph-go"
	"github.com/gomodule/redigo/redis"

	"github.com/agentic-docs/docintel/internal/events"
	"github.com/agentic-docs/docintel/internal/metrics"
)

// Graph is the interface for outline-graph operations.
type Graph interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// UpsertDocument replaces a document's heading graph: the document
	// node is upserted, its existing headings are detached, and the new
	// heading sequence is written with CONTAINS and NEXT edges.
	UpsertDocument(ctx context.Context, doc *DocumentNode, headings []HeadingNode) error

	// DeleteDocument removes a document node and every heading it contains.
	DeleteDocument(ctx context.Context, docID string) error

	// Query executes a raw Cypher query.
	Query(ctx context.Context, cypher string) (*QueryResult, error)

	// IsConnected returns true if connected to the database.
	IsConnected() bool

	// Errors returns fatal connection errors.
	Errors() <-chan error
}

// Config contains graph connection configuration. Field names match
// internal/config.GraphConfig so wiring in cmd/docintel is a direct copy.
type Config struct {
	Host           string
	Port           int
	Name           string
	PasswordEnv    string
	MaxRetries     int
	RetryDelay     time.Duration
	WriteQueueSize int
	SkipSchemaInit bool // for read-only clients
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           6379,
		Name:           "docintel",
		PasswordEnv:    "DOCINTEL_GRAPH_PASSWORD",
		MaxRetries:     3,
		RetryDelay:     time.Second,
		WriteQueueSize: 1000,
	}
}

// FalkorDBGraph implements Graph using FalkorDB's Redis-protocol Cypher
// interface.
type FalkorDBGraph struct {
	mu        sync.RWMutex
	config    Config
	logger    *slog.Logger
	conn      redis.Conn
	graph     redisgraph.Graph
	connected bool

	writeQueue chan writeOp
	wg         sync.WaitGroup
	stopChan   chan struct{}

	errChan chan error

	bus events.Bus

	lastQueueFullEmit time.Time
}

type writeOp struct {
	query  string
	result chan error
}

// Option configures the FalkorDB graph client.
type Option func(*FalkorDBGraph)

// WithConfig sets the configuration.
func WithConfig(cfg Config) Option {
	return func(g *FalkorDBGraph) { g.config = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *FalkorDBGraph) { g.logger = logger }
}

// WithBus sets the event bus for connection events.
func WithBus(bus events.Bus) Option {
	return func(g *FalkorDBGraph) { g.bus = bus }
}

// NewFalkorDBGraph creates a new FalkorDB graph client.
func NewFalkorDBGraph(opts ...Option) *FalkorDBGraph {
	g := &FalkorDBGraph{
		config:   DefaultConfig(),
		logger:   slog.Default(),
		stopChan: make(chan struct{}),
		errChan:  make(chan error, 1),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.config.WriteQueueSize <= 0 {
		g.config.WriteQueueSize = DefaultConfig().WriteQueueSize
	}
	g.writeQueue = make(chan writeOp, g.config.WriteQueueSize)

	return g
}

// Name returns the component name.
func (g *FalkorDBGraph) Name() string {
	return "graph"
}

// Start initializes the graph connection and begins draining the write
// queue in the background.
func (g *FalkorDBGraph) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected {
		return nil
	}

	password := os.Getenv(g.config.PasswordEnv)

	addr := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)

	var dialOpts []redis.DialOption
	if password != "" {
		dialOpts = append(dialOpts, redis.DialPassword(password))
	}

	conn, err := redis.Dial("tcp", addr, dialOpts...)
	if err != nil {
		return fmt.Errorf("failed to connect to FalkorDB at %s; %w", addr, err)
	}

	g.conn = conn
	g.graph = redisgraph.GraphNew(g.config.Name, conn)
	g.connected = true

	if !g.config.SkipSchemaInit {
		g.initSchema()
	}

	g.wg.Add(1)
	go g.processWriteQueue()

	g.logger.Info("connected to FalkorDB", "host", g.config.Host, "port", g.config.Port, "graph", g.config.Name)

	if g.bus != nil {
		g.bus.Publish(ctx, events.NewGraphConnected(addr))
	}

	return nil
}

// Errors returns fatal connection errors.
func (g *FalkorDBGraph) Errors() <-chan error {
	return g.errChan
}

// Stop drains the write queue (bounded by ctx) and closes the connection.
func (g *FalkorDBGraph) Stop(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected {
		return nil
	}

	close(g.stopChan)

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.logger.Debug("write queue drained")
	case <-ctx.Done():
		g.logger.Warn("write queue drain timed out")
	}

	if g.conn != nil {
		_ = g.conn.Close()
	}

	g.connected = false
	addr := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)
	g.logger.Info("disconnected from FalkorDB")

	if g.bus != nil {
		g.bus.Publish(ctx, events.NewGraphDisconnected(addr, nil))
	}

	return nil
}

func (g *FalkorDBGraph) signalFatal(err error) {
	select {
	case g.errChan <- err:
	default:
	}
	if g.bus != nil {
		addr := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)
		g.bus.Publish(context.Background(), events.NewGraphDisconnected(addr, err))
	}
}

// IsConnected returns true if connected to the database.
func (g *FalkorDBGraph) IsConnected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connected
}

func (g *FalkorDBGraph) processWriteQueue() {
	defer g.wg.Done()

	for {
		select {
		case <-g.stopChan:
			for {
				select {
				case op := <-g.writeQueue:
					g.executeWrite(op)
				default:
					return
				}
			}
		case op := <-g.writeQueue:
			g.executeWrite(op)
		}
	}
}

func (g *FalkorDBGraph) executeWrite(op writeOp) {
	start := time.Now()
	var err error
	for i := 0; i <= g.config.MaxRetries; i++ {
		_, err = g.graph.Query(op.query)
		if err == nil {
			break
		}
		if i < g.config.MaxRetries {
			time.Sleep(g.config.RetryDelay * time.Duration(1<<i))
		}
	}
	metrics.RecordGraphOperation("write", time.Since(start), err)

	if err != nil {
		g.logger.Error("write operation failed after retries", "error", err)
		g.signalFatal(err)
	}
	if op.result != nil {
		op.result <- err
	}
}

// queueWrite queues a write operation for async, fire-and-forget execution.
func (g *FalkorDBGraph) queueWrite(query string) error {
	select {
	case g.writeQueue <- writeOp{query: query}:
		return nil
	default:
		g.emitWriteQueueFull()
		return fmt.Errorf("write queue full")
	}
}

func (g *FalkorDBGraph) emitWriteQueueFull() {
	if g.bus == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if time.Since(g.lastQueueFullEmit) < time.Second {
		return
	}
	g.lastQueueFullEmit = time.Now()
	g.bus.Publish(context.Background(), events.NewGraphWriteQueueFull(len(g.writeQueue), cap(g.writeQueue)))
}

// UpsertDocument replaces a document's heading graph. The document node is
// upserted first (synchronously, since downstream reads key off its
// existence), then the heading rewrite is queued: detach any existing
// headings, write the new sequence with CONTAINS and NEXT edges.
func (g *FalkorDBGraph) UpsertDocument(ctx context.Context, doc *DocumentNode, headings []HeadingNode) error {
	if !g.IsConnected() {
		return fmt.Errorf("not connected to graph database")
	}

	start := time.Now()
	docQuery := fmt.Sprintf(`
		MERGE (d:Document {doc_id: '%s'})
		ON CREATE SET d.ingested_at = %d
		SET d.filename = '%s',
			d.partition = '%s',
			d.title = '%s',
			d.page_count = %d,
			d.updated_at = %d
	`, escapeString(doc.DocID),
		doc.IngestedAt.Unix(),
		escapeString(doc.Filename),
		escapeString(doc.Partition),
		escapeString(doc.Title),
		doc.PageCount,
		time.Now().Unix())

	_, err := g.graph.Query(docQuery)
	metrics.RecordGraphOperation("upsert_document", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert document %s; %w", doc.DocID, err)
	}

	headingQuery := fmt.Sprintf(`
		MATCH (d:Document {doc_id: '%s'})-[:%s]->(h:Heading)
		DETACH DELETE h
	`, escapeString(doc.DocID), RelContains)
	for i := range headings {
		h := headings[i]
		headingQuery += fmt.Sprintf(`
			WITH 1 AS _
			MATCH (d:Document {doc_id: '%s'})
			CREATE (h%d:Heading {doc_id: '%s', ordinal: %d, level: '%s', text: '%s', page: %d})
			MERGE (d)-[:%s]->(h%d)
		`, escapeString(doc.DocID), i, escapeString(doc.DocID), h.Ordinal, escapeString(h.Level), escapeString(h.Text), h.Page, RelContains, i)
		if i > 0 {
			headingQuery += fmt.Sprintf(`
			WITH h%d AS prev
			MATCH (h%d:Heading {doc_id: '%s', ordinal: %d})
			MERGE (prev)-[:%s]->(h%d)
			`, i-1, i, escapeString(doc.DocID), h.Ordinal, RelNext, i)
		}
	}

	if err := g.queueWrite(headingQuery); err != nil {
		return fmt.Errorf("failed to queue heading rewrite for %s; %w", doc.DocID, err)
	}
	return nil
}

// DeleteDocument removes a document node and every heading it contains.
// Fire-and-forget: deletion failures are retried off the write queue and
// never block the caller.
func (g *FalkorDBGraph) DeleteDocument(ctx context.Context, docID string) error {
	if !g.IsConnected() {
		return fmt.Errorf("not connected to graph database")
	}

	query := fmt.Sprintf(`
		MATCH (d:Document {doc_id: '%s'})
		OPTIONAL MATCH (d)-[:%s]->(h:Heading)
		DETACH DELETE d, h
	`, escapeString(docID), RelContains)

	return g.queueWrite(query)
}

// Query executes a raw Cypher query.
func (g *FalkorDBGraph) Query(ctx context.Context, cypher string) (*QueryResult, error) {
	if !g.IsConnected() {
		return nil, fmt.Errorf("not connected to graph database")
	}

	start := time.Now()
	result, err := g.graph.Query(cypher)
	metrics.RecordGraphOperation("query", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query failed; %w", err)
	}

	return convertQueryResult(result), nil
}

func convertQueryResult(result *redisgraph.QueryResult) *QueryResult {
	qr := &QueryResult{
		Stats: QueryStats{
			NodesCreated:     result.NodesCreated(),
			NodesDeleted:     result.NodesDeleted(),
			RelationsCreated: result.RelationshipsCreated(),
			RelationsDeleted: result.RelationshipsDeleted(),
			PropertiesSet:    result.PropertiesSet(),
			ExecutionTimeMs:  float64(result.RunTime()),
		},
	}

	for result.Next() {
		values := result.Record().Values()
		row := make([]any, len(values))
		copy(row, values)
		qr.Rows = append(qr.Rows, row)
	}

	return qr
}

// escapeString escapes single quotes and backslashes for Cypher string
// literals.
func escapeString(s string) string {
	result := ""
	for _, c := range s {
		switch c {
		case '\'':
			result += "\\'"
		case '\\':
			result += "\\\\"
		default:
			result += string(c)
		}
	}
	return result
}
