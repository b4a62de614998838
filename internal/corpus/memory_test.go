package corpus

import (
	"context"
	"errors"
	"testing"
)

func fixtureDocs() []Document {
	return []Document{
		{
			ID: "doc-up-spot-1", Title: "Removing stains from sofas", URL: "https://example.com/sofa-stains",
			Surface: "upholstery", Dirt: "stain", Method: "spot_clean",
			Extraction: "pattern", Confidence: 0.9, Quality: 0.8, WordCount: 640,
			Steps: []DocStep{
				{ID: "doc-up-spot-1-s01", Order: 1, Text: "Blot the stain with a clean towel to absorb excess liquid.", Summary: "Blot the stain", Confidence: 0.9},
				{ID: "doc-up-spot-1-s02", Order: 2, Text: "Mix one cup of water with a teaspoon of dish soap.", Summary: "Mix cleaning solution", Confidence: 0.85},
				{ID: "doc-up-spot-1-s03", Order: 3, Text: "Apply the solution to the stain and let it sit for 5 minutes.", Summary: "Apply solution", Confidence: 0.8},
				{ID: "doc-up-spot-1-s04", Order: 4, Text: "Rinse with a damp cloth and blot dry.", Summary: "Rinse and dry", Confidence: 0.9},
			},
			Tools: []DocTool{
				{Name: "towel", Category: "towel", Confidence: 0.9, StepID: "doc-up-spot-1-s01"},
				{Name: "dish_soap", Category: "detergent", Confidence: 0.85, StepID: "doc-up-spot-1-s02"},
				{Name: "spray_bottle", Category: "spray_bottle", Confidence: 0.7, StepID: "doc-up-spot-1-s03"},
			},
		},
		{
			ID: "doc-up-spot-2", Title: "Couch spot treatment guide", URL: "https://example.com/couch-spots",
			Surface: "upholstery", Dirt: "stain", Method: "spot_clean",
			Extraction: "pattern", Confidence: 0.8, Quality: 0.7, WordCount: 480,
			Steps: []DocStep{
				{ID: "doc-up-spot-2-s01", Order: 1, Text: "Test the cleaner on a hidden area first.", Summary: "Test hidden area", Confidence: 0.8},
				{ID: "doc-up-spot-2-s02", Order: 2, Text: "Blot the stain with a clean towel to absorb excess liquid.", Summary: "Blot the stain", Confidence: 0.7},
				{ID: "doc-up-spot-2-s03", Order: 3, Text: "Scrub gently with a soft brush in circular motions.", Summary: "Scrub gently", Confidence: 0.75},
			},
			Tools: []DocTool{
				{Name: "towel", Category: "towel", Confidence: 0.8, StepID: "doc-up-spot-2-s02"},
				{Name: "brush", Category: "brush", Confidence: 0.7, StepID: "doc-up-spot-2-s03"},
			},
		},
		{
			ID: "doc-up-steam-1", Title: "Steam cleaning upholstery", URL: "https://example.com/steam-upholstery",
			Surface: "upholstery", Dirt: "stain", Method: "steam_clean",
			Extraction: "llm", Confidence: 0.7, Quality: 0.6, WordCount: 820,
			Steps: []DocStep{
				{ID: "doc-up-steam-1-s01", Order: 1, Text: "Vacuum the upholstery to remove loose debris.", Summary: "Vacuum first", Confidence: 0.7},
				{ID: "doc-up-steam-1-s02", Order: 2, Text: "Fill the steam cleaner with water and let it heat up.", Summary: "Prepare steamer", Confidence: 0.7},
				{ID: "doc-up-steam-1-s03", Order: 3, Text: "Apply steam in slow passes across the fabric.", Summary: "Steam the fabric", Confidence: 0.65},
			},
			Tools: []DocTool{
				{Name: "steam_cleaner", Category: "steam_cleaner", Confidence: 0.8, StepID: "doc-up-steam-1-s02"},
				{Name: "vacuum", Category: "vacuum", Confidence: 0.7, StepID: "doc-up-steam-1-s01"},
			},
		},
		{
			ID: "doc-cf-dust-1", Title: "Carpet dusting basics", URL: "https://example.com/carpet-dust",
			Surface: "carpets_floors", Dirt: "dust", Method: "vacuum",
			Extraction: "pattern", Confidence: 0.85, Quality: 0.75, WordCount: 300,
			Steps: []DocStep{
				{ID: "doc-cf-dust-1-s01", Order: 1, Text: "Vacuum the carpet in overlapping rows.", Summary: "Vacuum rows", Confidence: 0.85},
				{ID: "doc-cf-dust-1-s02", Order: 2, Text: "Empty the vacuum canister when full.", Summary: "Empty canister", Confidence: 0.8},
			},
			Tools: []DocTool{
				{Name: "vacuum", Category: "vacuum", Confidence: 0.9, StepID: "doc-cf-dust-1-s01"},
			},
		},
	}
}

func TestMemoryMethodSummaries(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	summaries, err := store.MethodSummaries(ctx, "upholstery", "stain")
	if err != nil {
		t.Fatalf("MethodSummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(summaries))
	}

	// spot_clean has 2 documents, steam_clean 1
	if summaries[0].Method != "spot_clean" {
		t.Errorf("Expected spot_clean first, got %q", summaries[0].Method)
	}
	if summaries[0].DocumentCount != 2 {
		t.Errorf("Expected 2 documents for spot_clean, got %d", summaries[0].DocumentCount)
	}
	if summaries[0].AvgSteps != 3.5 {
		t.Errorf("Expected avg_steps 3.5, got %v", summaries[0].AvgSteps)
	}
	wantConf := (0.9 + 0.8) / 2
	if diff := summaries[0].AvgConfidence - wantConf; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected avg confidence %v, got %v", wantConf, summaries[0].AvgConfidence)
	}
	// towel mentioned in both spot_clean docs, so it leads common tools
	if len(summaries[0].CommonTools) == 0 || summaries[0].CommonTools[0] != "towel" {
		t.Errorf("Expected towel as top common tool, got %v", summaries[0].CommonTools)
	}

	if summaries[1].Method != "steam_clean" {
		t.Errorf("Expected steam_clean second, got %q", summaries[1].Method)
	}

	// Unknown combination yields an empty result, not an error
	empty, err := store.MethodSummaries(ctx, "outdoor", "ink")
	if err != nil {
		t.Fatalf("MethodSummaries for empty combination failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no methods, got %d", len(empty))
	}
}

func TestMemorySteps(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	steps, err := store.Steps(ctx, "upholstery", "stain", "spot_clean", 20)
	if err != nil {
		t.Fatalf("Steps failed: %v", err)
	}
	if len(steps) != 7 {
		t.Fatalf("Expected 7 steps, got %d", len(steps))
	}

	// Ordered by step order, then document id
	if steps[0].StepID != "doc-up-spot-1-s01" || steps[1].StepID != "doc-up-spot-2-s01" {
		t.Errorf("Unexpected leading order: %q, %q", steps[0].StepID, steps[1].StepID)
	}
	for _, st := range steps {
		if st.DocTitle == "" || st.DocURL == "" {
			t.Errorf("Step %s missing document join fields", st.StepID)
		}
	}

	// Limit applies after ordering
	limited, err := store.Steps(ctx, "upholstery", "stain", "spot_clean", 3)
	if err != nil {
		t.Fatalf("Steps with limit failed: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("Expected 3 steps with limit, got %d", len(limited))
	}
}

func TestMemoryTools(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	tools, err := store.Tools(ctx, "upholstery", "stain", "spot_clean")
	if err != nil {
		t.Fatalf("Tools failed: %v", err)
	}
	if len(tools) != 4 {
		t.Fatalf("Expected 4 tools, got %d", len(tools))
	}
	if tools[0].Name != "towel" || tools[0].UsageCount != 2 {
		t.Errorf("Expected towel with usage 2 first, got %q with %d", tools[0].Name, tools[0].UsageCount)
	}
	wantConf := (0.9 + 0.8) / 2
	if diff := tools[0].AvgConfidence - wantConf; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected towel avg confidence %v, got %v", wantConf, tools[0].AvgConfidence)
	}
}

func TestMemorySimilarScenarios(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	scenarios, err := store.SimilarScenarios(ctx, "upholstery", "stain", 10)
	if err != nil {
		t.Fatalf("SimilarScenarios failed: %v", err)
	}
	if len(scenarios) < 2 {
		t.Fatalf("Expected at least 2 scenarios, got %d", len(scenarios))
	}

	// Exact matches first, both with similarity 1.0; spot_clean has more docs
	if scenarios[0].Similarity != 1.0 || scenarios[0].Method != "spot_clean" {
		t.Errorf("Expected exact spot_clean first, got %+v", scenarios[0])
	}
	if scenarios[1].Similarity != 1.0 || scenarios[1].Method != "steam_clean" {
		t.Errorf("Expected exact steam_clean second, got %+v", scenarios[1])
	}
	for i := 1; i < len(scenarios); i++ {
		if scenarios[i].Similarity > scenarios[i-1].Similarity {
			t.Errorf("Scenarios not sorted by similarity at %d", i)
		}
	}
}

func TestMemoryDocumentContext(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	doc, err := store.DocumentContext(ctx, "doc-up-spot-1")
	if err != nil {
		t.Fatalf("DocumentContext failed: %v", err)
	}
	if doc.Title != "Removing stains from sofas" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	if len(doc.Steps) != 4 || len(doc.Tools) != 3 {
		t.Errorf("Expected 4 steps and 3 tools, got %d and %d", len(doc.Steps), len(doc.Tools))
	}

	_, err = store.DocumentContext(ctx, "doc-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing document, got %v", err)
	}
}

func TestMemoryStats(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Documents != 4 {
		t.Errorf("Expected 4 documents, got %d", stats.Documents)
	}
	if stats.Steps != 12 {
		t.Errorf("Expected 12 steps, got %d", stats.Steps)
	}
	if stats.Combinations != 3 {
		t.Errorf("Expected 3 combinations, got %d", stats.Combinations)
	}
	if len(stats.BySurface) != 2 || stats.BySurface[0].Surface != "upholstery" {
		t.Errorf("Unexpected surface counts: %+v", stats.BySurface)
	}
}

func TestMemorySeedUpsert(t *testing.T) {
	store := NewMemory(fixtureDocs()...)
	ctx := context.Background()

	updated := fixtureDocs()[0]
	updated.Title = "Replaced title"
	if err := store.Seed(ctx, []Document{updated}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	doc, err := store.DocumentContext(ctx, "doc-up-spot-1")
	if err != nil {
		t.Fatalf("DocumentContext after seed failed: %v", err)
	}
	if doc.Title != "Replaced title" {
		t.Errorf("Expected replaced title, got %q", doc.Title)
	}

	stats, _ := store.Stats(ctx)
	if stats.Documents != 4 {
		t.Errorf("Seed should upsert, not append: got %d documents", stats.Documents)
	}
}
