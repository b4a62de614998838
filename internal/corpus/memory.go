package corpus

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store over seeded documents. It backs unit tests
// and the CLI demo mode; result ordering matches the SurrealDB store.
type Memory struct {
	mu   sync.RWMutex
	docs []Document
}

var _ Store = (*Memory)(nil)

// NewMemory returns a store holding docs.
func NewMemory(docs ...Document) *Memory {
	m := &Memory{}
	m.docs = append(m.docs, docs...)
	return m
}

// Seed upserts documents by id, replacing earlier fixtures with the same id.
func (m *Memory) Seed(_ context.Context, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		replaced := false
		for i := range m.docs {
			if m.docs[i].ID == doc.ID {
				m.docs[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			m.docs = append(m.docs, doc)
		}
	}
	return nil
}

// MethodSummaries aggregates the seeded documents per cleaning method.
func (m *Memory) MethodSummaries(_ context.Context, surface, dirt string) ([]MethodSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type agg struct {
		count     int
		steps     int
		conf      float64
		quality   float64
		toolCount map[string]int
	}
	byMethod := map[string]*agg{}
	for _, doc := range m.docs {
		if doc.Surface != surface || doc.Dirt != dirt {
			continue
		}
		a := byMethod[doc.Method]
		if a == nil {
			a = &agg{toolCount: map[string]int{}}
			byMethod[doc.Method] = a
		}
		a.count++
		a.steps += len(doc.Steps)
		a.conf += doc.Confidence
		a.quality += doc.Quality
		for _, tl := range doc.Tools {
			if tl.Name != "" {
				a.toolCount[tl.Name]++
			}
		}
	}

	summaries := make([]MethodSummary, 0, len(byMethod))
	for method, a := range byMethod {
		n := float64(a.count)
		summaries = append(summaries, MethodSummary{
			Method:        method,
			DocumentCount: a.count,
			AvgSteps:      float64(a.steps) / n,
			AvgConfidence: a.conf / n,
			AvgQuality:    a.quality / n,
			CommonTools:   topTools(a.toolCount, commonToolLimit),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].DocumentCount != summaries[j].DocumentCount {
			return summaries[i].DocumentCount > summaries[j].DocumentCount
		}
		if summaries[i].AvgConfidence != summaries[j].AvgConfidence {
			return summaries[i].AvgConfidence > summaries[j].AvgConfidence
		}
		return summaries[i].Method < summaries[j].Method
	})
	return summaries, nil
}

func topTools(counts map[string]int, limit int) []string {
	type nc struct {
		name  string
		count int
	}
	all := make([]nc, 0, len(counts))
	for name, count := range counts {
		all = append(all, nc{name, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].name < all[j].name
	})
	if len(all) > limit {
		all = all[:limit]
	}
	names := make([]string, 0, len(all))
	for _, t := range all {
		names = append(names, t.name)
	}
	return names
}

// Steps returns matching step rows ordered by step order, document id,
// step id.
func (m *Memory) Steps(_ context.Context, surface, dirt, method string, limit int) ([]StepRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = defaultStepLimit
	}
	rows := []StepRow{}
	for _, doc := range m.docs {
		if doc.Surface != surface || doc.Dirt != dirt || doc.Method != method {
			continue
		}
		for _, st := range doc.Steps {
			rows = append(rows, StepRow{
				StepID:        st.ID,
				DocumentID:    doc.ID,
				Order:         st.Order,
				Text:          st.Text,
				Summary:       st.Summary,
				Confidence:    st.Confidence,
				DocTitle:      doc.Title,
				DocURL:        doc.URL,
				DocConfidence: doc.Confidence,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Order != rows[j].Order {
			return rows[i].Order < rows[j].Order
		}
		if rows[i].DocumentID != rows[j].DocumentID {
			return rows[i].DocumentID < rows[j].DocumentID
		}
		return rows[i].StepID < rows[j].StepID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Tools returns matching tool mentions grouped by name and category.
func (m *Memory) Tools(_ context.Context, surface, dirt, method string) ([]ToolRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type key struct{ name, category string }
	type agg struct {
		count int
		conf  float64
	}
	byTool := map[key]*agg{}
	for _, doc := range m.docs {
		if doc.Surface != surface || doc.Dirt != dirt || doc.Method != method {
			continue
		}
		for _, tl := range doc.Tools {
			if tl.Name == "" {
				continue
			}
			k := key{tl.Name, tl.Category}
			a := byTool[k]
			if a == nil {
				a = &agg{}
				byTool[k] = a
			}
			a.count++
			a.conf += tl.Confidence
		}
	}

	rows := make([]ToolRow, 0, len(byTool))
	for k, a := range byTool {
		rows = append(rows, ToolRow{
			Name:          k.name,
			Category:      k.category,
			UsageCount:    a.count,
			AvgConfidence: a.conf / float64(a.count),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UsageCount != rows[j].UsageCount {
			return rows[i].UsageCount > rows[j].UsageCount
		}
		if rows[i].AvgConfidence != rows[j].AvgConfidence {
			return rows[i].AvgConfidence > rows[j].AvgConfidence
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// SimilarScenarios ranks combinations sharing the surface or dirt type.
func (m *Memory) SimilarScenarios(_ context.Context, surface, dirt string, limit int) ([]SimilarScenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = defaultScenarioLimit
	}
	type key struct{ surface, dirt, method string }
	type agg struct {
		count int
		conf  float64
	}
	combos := map[key]*agg{}
	for _, doc := range m.docs {
		if doc.Surface != surface && doc.Dirt != dirt {
			continue
		}
		k := key{doc.Surface, doc.Dirt, doc.Method}
		a := combos[k]
		if a == nil {
			a = &agg{}
			combos[k] = a
		}
		a.count++
		a.conf += doc.Confidence
	}

	scenarios := make([]SimilarScenario, 0, len(combos))
	for k, a := range combos {
		similarity := 0.1
		switch {
		case k.surface == surface && k.dirt == dirt:
			similarity = 1.0
		case k.dirt == dirt:
			similarity = 0.5
		case k.surface == surface:
			similarity = 0.3
		}
		scenarios = append(scenarios, SimilarScenario{
			Surface:       k.surface,
			Dirt:          k.dirt,
			Method:        k.method,
			DocumentCount: a.count,
			AvgConfidence: a.conf / float64(a.count),
			Similarity:    similarity,
		})
	}
	sort.Slice(scenarios, func(i, j int) bool {
		if scenarios[i].Similarity != scenarios[j].Similarity {
			return scenarios[i].Similarity > scenarios[j].Similarity
		}
		if scenarios[i].DocumentCount != scenarios[j].DocumentCount {
			return scenarios[i].DocumentCount > scenarios[j].DocumentCount
		}
		if scenarios[i].AvgConfidence != scenarios[j].AvgConfidence {
			return scenarios[i].AvgConfidence > scenarios[j].AvgConfidence
		}
		if scenarios[i].Surface != scenarios[j].Surface {
			return scenarios[i].Surface < scenarios[j].Surface
		}
		if scenarios[i].Dirt != scenarios[j].Dirt {
			return scenarios[i].Dirt < scenarios[j].Dirt
		}
		return scenarios[i].Method < scenarios[j].Method
	})
	if len(scenarios) > limit {
		scenarios = scenarios[:limit]
	}
	return scenarios, nil
}

// DocumentContext returns a copy of the document with the given id.
func (m *Memory) DocumentContext(_ context.Context, documentID string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs {
		if doc.ID == documentID {
			out := doc
			out.Steps = append([]DocStep(nil), doc.Steps...)
			out.Tools = append([]DocTool(nil), doc.Tools...)
			sort.Slice(out.Steps, func(i, j int) bool { return out.Steps[i].Order < out.Steps[j].Order })
			sort.Slice(out.Tools, func(i, j int) bool { return out.Tools[i].Name < out.Tools[j].Name })
			return &out, nil
		}
	}
	return nil, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
}

// Stats totals the seeded corpus.
func (m *Memory) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{Documents: len(m.docs)}
	type key struct{ surface, dirt, method string }
	combos := map[key]bool{}
	bySurface := map[string]int{}
	byDirt := map[string]int{}
	for _, doc := range m.docs {
		stats.Steps += len(doc.Steps)
		stats.Tools += len(doc.Tools)
		combos[key{doc.Surface, doc.Dirt, doc.Method}] = true
		bySurface[doc.Surface]++
		byDirt[doc.Dirt]++
	}
	stats.Combinations = len(combos)

	for surface, count := range bySurface {
		stats.BySurface = append(stats.BySurface, SurfaceCount{Surface: surface, Count: count})
	}
	sort.Slice(stats.BySurface, func(i, j int) bool {
		if stats.BySurface[i].Count != stats.BySurface[j].Count {
			return stats.BySurface[i].Count > stats.BySurface[j].Count
		}
		return stats.BySurface[i].Surface < stats.BySurface[j].Surface
	})
	for dirt, count := range byDirt {
		stats.ByDirt = append(stats.ByDirt, DirtCount{Dirt: dirt, Count: count})
	}
	sort.Slice(stats.ByDirt, func(i, j int) bool {
		if stats.ByDirt[i].Count != stats.ByDirt[j].Count {
			return stats.ByDirt[i].Count > stats.ByDirt[j].Count
		}
		return stats.ByDirt[i].Dirt < stats.ByDirt[j].Dirt
	})
	return stats, nil
}
