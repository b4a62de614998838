package corpus

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

const (
	defaultStepLimit     = 10
	defaultScenarioLimit = 10
	commonToolLimit      = 3
)

// MethodSummaries aggregates documents per cleaning method for one
// surface × dirt combination.
func (s *Surreal) MethodSummaries(ctx context.Context, surface, dirt string) ([]MethodSummary, error) {
	sql := `
		SELECT cleaning_method, count() AS document_count,
		       math::mean(step_count) AS avg_steps,
		       math::mean(extraction_confidence) AS avg_confidence,
		       math::mean(quality_score) AS avg_quality_score
		FROM document
		WHERE surface_type = $surface AND dirt_type = $dirt
		GROUP BY cleaning_method
		ORDER BY document_count DESC, avg_confidence DESC
	`
	results, err := surrealdb.Query[[]MethodSummary](ctx, s.db, sql, map[string]any{
		"surface": surface,
		"dirt":    dirt,
	})
	if err != nil {
		return nil, fmt.Errorf("method summaries: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []MethodSummary{}, nil
	}

	summaries := (*results)[0].Result
	for i := range summaries {
		tools, err := s.commonTools(ctx, surface, dirt, summaries[i].Method)
		if err != nil {
			s.logger.Warn("common tools lookup failed",
				"method", summaries[i].Method, "error", err)
			continue
		}
		summaries[i].CommonTools = tools
	}
	return summaries, nil
}

func (s *Surreal) commonTools(ctx context.Context, surface, dirt, method string) ([]string, error) {
	sql := fmt.Sprintf(`
		SELECT tool_name, count() AS usage_count
		FROM tool
		WHERE document.surface_type = $surface
		  AND document.dirt_type = $dirt
		  AND document.cleaning_method = $method
		  AND tool_name != ""
		GROUP BY tool_name
		ORDER BY usage_count DESC, tool_name ASC
		LIMIT %d
	`, commonToolLimit)

	type row struct {
		ToolName string `json:"tool_name"`
	}
	results, err := surrealdb.Query[[]row](ctx, s.db, sql, map[string]any{
		"surface": surface,
		"dirt":    dirt,
		"method":  method,
	})
	if err != nil {
		return nil, fmt.Errorf("common tools: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []string{}, nil
	}
	names := make([]string, 0, len((*results)[0].Result))
	for _, r := range (*results)[0].Result {
		names = append(names, r.ToolName)
	}
	return names, nil
}

// Steps returns steps from documents matching the full combination, joined to
// their document via the record link.
func (s *Surreal) Steps(ctx context.Context, surface, dirt, method string, limit int) ([]StepRow, error) {
	if limit <= 0 {
		limit = defaultStepLimit
	}
	sql := fmt.Sprintf(`
		SELECT record::id(id) AS step_id,
		       record::id(document) AS document_id,
		       step_order, step_text, step_summary, confidence,
		       document.title AS doc_title,
		       document.url AS doc_url,
		       document.extraction_confidence AS doc_confidence
		FROM step
		WHERE document.surface_type = $surface
		  AND document.dirt_type = $dirt
		  AND document.cleaning_method = $method
		ORDER BY step_order ASC, document_id ASC, step_id ASC
		LIMIT %d
	`, limit)
	results, err := surrealdb.Query[[]StepRow](ctx, s.db, sql, map[string]any{
		"surface": surface,
		"dirt":    dirt,
		"method":  method,
	})
	if err != nil {
		return nil, fmt.Errorf("steps: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []StepRow{}, nil
	}
	return (*results)[0].Result, nil
}

// Tools returns tool mentions grouped by name and category for the full
// combination.
func (s *Surreal) Tools(ctx context.Context, surface, dirt, method string) ([]ToolRow, error) {
	sql := `
		SELECT tool_name, tool_category, count() AS usage_count,
		       math::mean(confidence) AS avg_confidence
		FROM tool
		WHERE document.surface_type = $surface
		  AND document.dirt_type = $dirt
		  AND document.cleaning_method = $method
		  AND tool_name != ""
		GROUP BY tool_name, tool_category
		ORDER BY usage_count DESC, avg_confidence DESC, tool_name ASC
	`
	results, err := surrealdb.Query[[]ToolRow](ctx, s.db, sql, map[string]any{
		"surface": surface,
		"dirt":    dirt,
		"method":  method,
	})
	if err != nil {
		return nil, fmt.Errorf("tools: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []ToolRow{}, nil
	}
	return (*results)[0].Result, nil
}

// SimilarScenarios scores nearby combinations in the query itself so every
// caller ranks the same way: exact 1.0, same dirt 0.5, same surface 0.3,
// otherwise 0.1.
func (s *Surreal) SimilarScenarios(ctx context.Context, surface, dirt string, limit int) ([]SimilarScenario, error) {
	if limit <= 0 {
		limit = defaultScenarioLimit
	}
	sql := fmt.Sprintf(`
		SELECT *,
		       IF surface_type = $surface AND dirt_type = $dirt { 1.0 }
		       ELSE IF dirt_type = $dirt { 0.5 }
		       ELSE IF surface_type = $surface { 0.3 }
		       ELSE { 0.1 } AS similarity_score
		FROM (
			SELECT surface_type, dirt_type, cleaning_method,
			       count() AS document_count,
			       math::mean(extraction_confidence) AS avg_confidence
			FROM document
			WHERE surface_type = $surface OR dirt_type = $dirt
			GROUP BY surface_type, dirt_type, cleaning_method
		)
		ORDER BY similarity_score DESC, document_count DESC, avg_confidence DESC
		LIMIT %d
	`, limit)
	results, err := surrealdb.Query[[]SimilarScenario](ctx, s.db, sql, map[string]any{
		"surface": surface,
		"dirt":    dirt,
	})
	if err != nil {
		return nil, fmt.Errorf("similar scenarios: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []SimilarScenario{}, nil
	}
	return (*results)[0].Result, nil
}

// DocumentContext returns one document with its steps and tools.
func (s *Surreal) DocumentContext(ctx context.Context, documentID string) (*Document, error) {
	docSQL := `
		SELECT record::id(id) AS document_id, title, url, surface_type,
		       dirt_type, cleaning_method, extraction_method,
		       extraction_confidence, quality_score, word_count,
		       fetched_at, processed_at
		FROM type::record("document", $id)
	`
	docs, err := surrealdb.Query[[]Document](ctx, s.db, docSQL, map[string]any{"id": documentID})
	if err != nil {
		return nil, fmt.Errorf("document context: %w", wrapQueryError(err))
	}
	if docs == nil || len(*docs) == 0 || len((*docs)[0].Result) == 0 {
		return nil, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
	}
	doc := (*docs)[0].Result[0]

	stepSQL := `
		SELECT record::id(id) AS step_id, step_order, step_text,
		       step_summary, confidence
		FROM step
		WHERE document = type::record("document", $id)
		ORDER BY step_order ASC
	`
	steps, err := surrealdb.Query[[]DocStep](ctx, s.db, stepSQL, map[string]any{"id": documentID})
	if err != nil {
		return nil, fmt.Errorf("document steps: %w", wrapQueryError(err))
	}
	if steps != nil && len(*steps) > 0 {
		doc.Steps = (*steps)[0].Result
	}

	toolSQL := `
		SELECT tool_name, tool_category, confidence, mentioned_in_step_id
		FROM tool
		WHERE document = type::record("document", $id)
		ORDER BY tool_name ASC
	`
	tools, err := surrealdb.Query[[]DocTool](ctx, s.db, toolSQL, map[string]any{"id": documentID})
	if err != nil {
		return nil, fmt.Errorf("document tools: %w", wrapQueryError(err))
	}
	if tools != nil && len(*tools) > 0 {
		doc.Tools = (*tools)[0].Result
	}

	return &doc, nil
}

// Stats returns corpus totals and per-category document counts.
func (s *Surreal) Stats(ctx context.Context) (*Stats, error) {
	type countRow struct {
		Count int `json:"count"`
	}
	total := func(sql string) (int, error) {
		results, err := surrealdb.Query[[]countRow](ctx, s.db, sql, nil)
		if err != nil {
			return 0, wrapQueryError(err)
		}
		if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
			return 0, nil
		}
		return (*results)[0].Result[0].Count, nil
	}

	stats := &Stats{}
	var err error
	if stats.Documents, err = total(`SELECT count() AS count FROM document GROUP ALL`); err != nil {
		return nil, fmt.Errorf("stats documents: %w", err)
	}
	if stats.Steps, err = total(`SELECT count() AS count FROM step GROUP ALL`); err != nil {
		return nil, fmt.Errorf("stats steps: %w", err)
	}
	if stats.Tools, err = total(`SELECT count() AS count FROM tool GROUP ALL`); err != nil {
		return nil, fmt.Errorf("stats tools: %w", err)
	}
	combosSQL := `
		SELECT count() AS count FROM (
			SELECT surface_type, dirt_type, cleaning_method FROM document
			GROUP BY surface_type, dirt_type, cleaning_method
		) GROUP ALL
	`
	if stats.Combinations, err = total(combosSQL); err != nil {
		return nil, fmt.Errorf("stats combinations: %w", err)
	}

	surfaces, err := surrealdb.Query[[]SurfaceCount](ctx, s.db, `
		SELECT surface_type, count() AS count FROM document
		GROUP BY surface_type ORDER BY count DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("stats surfaces: %w", wrapQueryError(err))
	}
	if surfaces != nil && len(*surfaces) > 0 {
		stats.BySurface = (*surfaces)[0].Result
	}

	dirt, err := surrealdb.Query[[]DirtCount](ctx, s.db, `
		SELECT dirt_type, count() AS count FROM document
		GROUP BY dirt_type ORDER BY count DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("stats dirt: %w", wrapQueryError(err))
	}
	if dirt != nil && len(*dirt) > 0 {
		stats.ByDirt = (*dirt)[0].Result
	}

	return stats, nil
}
