package corpus

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

func init() {
	// Force HTTP/1.1 for WSS connections to prevent HTTP/2 ALPN negotiation.
	// WebSocket upgrade requires HTTP/1.1 semantics which fail under HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// Config holds SurrealDB connection configuration.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // "root" or "database"
}

// Surreal is the SurrealDB-backed corpus store.
type Surreal struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    Config
	logger logger.Logger
}

var _ Store = (*Surreal)(nil)

// Connect opens an auto-reconnecting WebSocket connection to SurrealDB and
// signs in at the configured auth level.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Surreal, error) {
	var sdkLogger logger.Logger
	if log != nil {
		sdkLogger = logger.New(log.Handler())
	} else {
		sdkLogger = logger.New(slog.Default().Handler())
	}

	// surrealcbor handles SurrealDB's custom CBOR tags (record ids, datetimes)
	codec := surrealcbor.New()

	// gorillaws expects the base URL without /rpc; it appends it itself
	baseURL := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			ws := gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLogger,
			})
			return ws, nil
		},
		5*time.Second,
		codec,
		sdkLogger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 1 * time.Second
	retryer.MaxDelay = 30 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 10
	conn.Retryer = retryer

	sdkLogger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("from connection: %w", err)
	}

	if cfg.AuthLevel == "database" {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
	} else {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("signin: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use: %w", err)
	}

	sdkLogger.Info("SurrealDB connection established",
		"namespace", cfg.Namespace, "database", cfg.Database)
	return &Surreal{conn: conn, db: db, cfg: cfg, logger: sdkLogger}, nil
}

// Close closes the SurrealDB connection.
func (s *Surreal) Close(ctx context.Context) error {
	s.logger.Info("closing SurrealDB connection")
	return s.conn.Close(ctx)
}

// InitSchema applies the corpus schema. Safe to run repeatedly.
func (s *Surreal) InitSchema(ctx context.Context) error {
	s.logger.Info("initializing corpus schema")
	if _, err := surrealdb.Query[any](ctx, s.db, SchemaSQL, nil); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Seed upserts fixture documents with their steps and tools. Each document
// lands in its own transaction so a failed fixture leaves no partial rows.
func (s *Surreal) Seed(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		if err := s.seedDocument(ctx, doc); err != nil {
			return fmt.Errorf("seed %s: %w", doc.ID, err)
		}
	}
	s.logger.Info("corpus seed complete", "documents", len(docs))
	return nil
}

func (s *Surreal) seedDocument(ctx context.Context, doc Document) error {
	steps := make([]map[string]any, 0, len(doc.Steps))
	for _, st := range doc.Steps {
		steps = append(steps, map[string]any{
			"id":           st.ID,
			"step_order":   st.Order,
			"step_text":    st.Text,
			"step_summary": st.Summary,
			"confidence":   st.Confidence,
		})
	}
	tools := make([]map[string]any, 0, len(doc.Tools))
	for i, tl := range doc.Tools {
		tools = append(tools, map[string]any{
			"id":                   fmt.Sprintf("%s-t%02d", doc.ID, i+1),
			"tool_name":            tl.Name,
			"tool_category":        tl.Category,
			"confidence":           tl.Confidence,
			"mentioned_in_step_id": tl.StepID,
		})
	}

	sql := `
		BEGIN TRANSACTION;
		UPSERT type::record("document", $id) CONTENT $doc;
		FOR $s IN $steps {
			UPSERT type::record("step", $s.id) CONTENT {
				document: type::record("document", $id),
				step_order: $s.step_order,
				step_text: $s.step_text,
				step_summary: $s.step_summary,
				confidence: $s.confidence
			};
		};
		FOR $t IN $tools {
			UPSERT type::record("tool", $t.id) CONTENT {
				document: type::record("document", $id),
				tool_name: $t.tool_name,
				tool_category: $t.tool_category,
				confidence: $t.confidence,
				mentioned_in_step_id: $t.mentioned_in_step_id
			};
		};
		COMMIT TRANSACTION;
	`
	vars := map[string]any{
		"id": doc.ID,
		"doc": map[string]any{
			"title":                 doc.Title,
			"url":                   doc.URL,
			"surface_type":          doc.Surface,
			"dirt_type":             doc.Dirt,
			"cleaning_method":       doc.Method,
			"extraction_method":     doc.Extraction,
			"extraction_confidence": doc.Confidence,
			"quality_score":         doc.Quality,
			"word_count":            doc.WordCount,
			"step_count":            len(doc.Steps),
		},
		"steps": steps,
		"tools": tools,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return wrapQueryError(err)
	}
	return nil
}

// WipeData deletes all corpus rows while preserving schema.
// Use for testing only.
func (s *Surreal) WipeData(ctx context.Context) error {
	s.logger.Warn("wiping all corpus data")

	// Children first so no dangling record links survive a partial wipe
	tables := []string{"tool", "step", "document"}
	for _, table := range tables {
		query := fmt.Sprintf("DELETE %s", table)
		if _, err := surrealdb.Query[any](ctx, s.db, query, nil); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
