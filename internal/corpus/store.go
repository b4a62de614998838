// Package corpus provides read access to the cleaning procedure corpus:
// documents, their extracted steps and tool mentions, and the aggregates the
// planner ranks against. Two implementations exist, a SurrealDB-backed store
// and an in-memory store for tests and demo mode.
package corpus

import (
	"context"
	"time"
)

// Store is the read-only corpus interface the planner consumes. Empty result
// slices are valid answers; errors mean the lookup itself failed.
type Store interface {
	// MethodSummaries returns per-method aggregates for a surface × dirt
	// combination, ordered by document count desc, then confidence desc.
	MethodSummaries(ctx context.Context, surface, dirt string) ([]MethodSummary, error)

	// Steps returns steps from documents matching the full combination,
	// ordered by step order, then document id. limit <= 0 means 10.
	Steps(ctx context.Context, surface, dirt, method string, limit int) ([]StepRow, error)

	// Tools returns tool mentions grouped by name for the full combination,
	// ordered by usage desc, then confidence desc.
	Tools(ctx context.Context, surface, dirt, method string) ([]ToolRow, error)

	// SimilarScenarios returns nearby combinations sharing the surface or the
	// dirt type, scored 1.0 exact, 0.5 same dirt, 0.3 same surface, 0.1
	// otherwise. limit <= 0 means 10.
	SimilarScenarios(ctx context.Context, surface, dirt string, limit int) ([]SimilarScenario, error)

	// DocumentContext returns one document with its steps and tools.
	// Missing documents return ErrNotFound.
	DocumentContext(ctx context.Context, documentID string) (*Document, error)

	// Stats returns corpus totals and per-category counts.
	Stats(ctx context.Context) (*Stats, error)
}

// MethodSummary aggregates corpus support for one cleaning method within a
// surface × dirt combination.
type MethodSummary struct {
	Method        string   `json:"cleaning_method"`
	DocumentCount int      `json:"document_count"`
	AvgSteps      float64  `json:"avg_steps"`
	AvgConfidence float64  `json:"avg_confidence"`
	AvgQuality    float64  `json:"avg_quality_score"`
	CommonTools   []string `json:"common_tools,omitempty"`
}

// StepRow is one extracted step joined to the document it came from.
type StepRow struct {
	StepID        string  `json:"step_id"`
	DocumentID    string  `json:"document_id"`
	Order         int     `json:"step_order"`
	Text          string  `json:"step_text"`
	Summary       string  `json:"step_summary"`
	Confidence    float64 `json:"confidence"`
	DocTitle      string  `json:"doc_title"`
	DocURL        string  `json:"doc_url"`
	DocConfidence float64 `json:"doc_confidence"`
}

// ToolRow is a tool mention aggregate for one combination.
type ToolRow struct {
	Name          string  `json:"tool_name"`
	Category      string  `json:"tool_category"`
	UsageCount    int     `json:"usage_count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// SimilarScenario is a nearby combination with its similarity tier.
type SimilarScenario struct {
	Surface       string  `json:"surface_type"`
	Dirt          string  `json:"dirt_type"`
	Method        string  `json:"cleaning_method"`
	DocumentCount int     `json:"document_count"`
	AvgConfidence float64 `json:"avg_confidence"`
	Similarity    float64 `json:"similarity_score"`
}

// Document is a corpus document with its extracted steps and tools. The same
// shape loads from YAML seed files and comes back from DocumentContext.
type Document struct {
	ID          string    `json:"document_id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Surface     string    `json:"surface_type" yaml:"surface"`
	Dirt        string    `json:"dirt_type" yaml:"dirt"`
	Method      string    `json:"cleaning_method" yaml:"method"`
	Extraction  string    `json:"extraction_method" yaml:"extraction_method"`
	Confidence  float64   `json:"extraction_confidence" yaml:"confidence"`
	Quality     float64   `json:"quality_score" yaml:"quality"`
	WordCount   int       `json:"word_count" yaml:"word_count"`
	FetchedAt   time.Time `json:"fetched_at,omitempty" yaml:"-"`
	ProcessedAt time.Time `json:"processed_at,omitempty" yaml:"-"`
	Steps       []DocStep `json:"steps" yaml:"steps"`
	Tools       []DocTool `json:"tools" yaml:"tools"`
}

// DocStep is a step as stored on its document.
type DocStep struct {
	ID         string  `json:"step_id" yaml:"id"`
	Order      int     `json:"step_order" yaml:"order"`
	Text       string  `json:"step_text" yaml:"text"`
	Summary    string  `json:"step_summary" yaml:"summary"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// DocTool is a tool mention as stored on its document.
type DocTool struct {
	Name       string  `json:"tool_name" yaml:"name"`
	Category   string  `json:"tool_category" yaml:"category"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	StepID     string  `json:"mentioned_in_step_id" yaml:"step"`
}

// SurfaceCount pairs a surface type with its document count.
type SurfaceCount struct {
	Surface string `json:"surface_type"`
	Count   int    `json:"count"`
}

// DirtCount pairs a dirt type with its document count.
type DirtCount struct {
	Dirt  string `json:"dirt_type"`
	Count int    `json:"count"`
}

// Stats holds corpus totals for the stats surfaces and coverage metadata.
type Stats struct {
	Documents    int            `json:"documents"`
	Steps        int            `json:"steps"`
	Tools        int            `json:"tools"`
	Combinations int            `json:"combinations"`
	BySurface    []SurfaceCount `json:"by_surface"`
	ByDirt       []DirtCount    `json:"by_dirt"`
}
