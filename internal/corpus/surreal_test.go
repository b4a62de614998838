package corpus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testStore *Surreal
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	// Start SurrealDB container
	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	// Get container host and port
	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	// Connect to test database
	testStore, err = Connect(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	// Initialize schema and load the shared fixture corpus
	if err := testStore.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	if err := testStore.Seed(ctx, fixtureDocs()); err != nil {
		log.Fatalf("Failed to seed fixtures: %v", err)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	_ = testStore.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-6 && diff > -1e-6
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestSurrealDocumentContext(t *testing.T) {
	ctx := context.Background()

	doc, err := testStore.DocumentContext(ctx, "doc-up-spot-1")
	if err != nil {
		t.Fatalf("DocumentContext failed: %v", err)
	}

	if doc.ID != "doc-up-spot-1" {
		t.Errorf("Expected id 'doc-up-spot-1', got %q", doc.ID)
	}
	if doc.Title != "Removing stains from sofas" {
		t.Errorf("Expected fixture title, got %q", doc.Title)
	}
	if doc.Surface != "upholstery" || doc.Dirt != "stain" || doc.Method != "spot_clean" {
		t.Errorf("Unexpected scenario: %s/%s/%s", doc.Surface, doc.Dirt, doc.Method)
	}
	if len(doc.Steps) != 4 {
		t.Fatalf("Expected 4 steps, got %d", len(doc.Steps))
	}
	for i := 1; i < len(doc.Steps); i++ {
		if doc.Steps[i].Order < doc.Steps[i-1].Order {
			t.Errorf("Steps not ordered by step_order at %d", i)
		}
	}
	if len(doc.Tools) != 3 {
		t.Errorf("Expected 3 tools, got %d", len(doc.Tools))
	}
}

func TestSurrealDocumentContextNotFound(t *testing.T) {
	ctx := context.Background()

	_, err := testStore.DocumentContext(ctx, "doc-does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSurrealSeedUpsert(t *testing.T) {
	ctx := context.Background()

	updated := fixtureDocs()[0]
	updated.Title = "Updated sofa stain guide"
	if err := testStore.Seed(ctx, []Document{updated}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	doc, err := testStore.DocumentContext(ctx, updated.ID)
	if err != nil {
		t.Fatalf("DocumentContext after reseed failed: %v", err)
	}
	if doc.Title != "Updated sofa stain guide" {
		t.Errorf("Expected updated title, got %q", doc.Title)
	}

	// Restore the original fixture for the remaining tests
	if err := testStore.Seed(ctx, []Document{fixtureDocs()[0]}); err != nil {
		t.Fatalf("Restore seed failed: %v", err)
	}

	stats, err := testStore.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Documents != 4 {
		t.Errorf("Seed should upsert, not append: got %d documents", stats.Documents)
	}
}

// =============================================================================
// QUERY TESTS
// =============================================================================

func TestSurrealMethodSummaries(t *testing.T) {
	ctx := context.Background()

	summaries, err := testStore.MethodSummaries(ctx, "upholstery", "stain")
	if err != nil {
		t.Fatalf("MethodSummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(summaries))
	}

	if summaries[0].Method != "spot_clean" {
		t.Errorf("Expected spot_clean first, got %q", summaries[0].Method)
	}
	if summaries[0].DocumentCount != 2 {
		t.Errorf("Expected 2 documents for spot_clean, got %d", summaries[0].DocumentCount)
	}
	if !almostEqual(summaries[0].AvgSteps, 3.5) {
		t.Errorf("Expected avg_steps 3.5, got %v", summaries[0].AvgSteps)
	}
	if !almostEqual(summaries[0].AvgConfidence, 0.85) {
		t.Errorf("Expected avg confidence 0.85, got %v", summaries[0].AvgConfidence)
	}
	if len(summaries[0].CommonTools) == 0 || summaries[0].CommonTools[0] != "towel" {
		t.Errorf("Expected towel as top common tool, got %v", summaries[0].CommonTools)
	}
	if summaries[1].Method != "steam_clean" || summaries[1].DocumentCount != 1 {
		t.Errorf("Expected steam_clean with 1 document second, got %+v", summaries[1])
	}
}

func TestSurrealMethodSummariesEmpty(t *testing.T) {
	ctx := context.Background()

	summaries, err := testStore.MethodSummaries(ctx, "outdoor", "ink")
	if err != nil {
		t.Fatalf("MethodSummaries failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected no methods for unseeded combination, got %d", len(summaries))
	}
}

func TestSurrealSteps(t *testing.T) {
	ctx := context.Background()

	steps, err := testStore.Steps(ctx, "upholstery", "stain", "spot_clean", 20)
	if err != nil {
		t.Fatalf("Steps failed: %v", err)
	}
	if len(steps) != 7 {
		t.Fatalf("Expected 7 steps, got %d", len(steps))
	}

	if steps[0].StepID != "doc-up-spot-1-s01" {
		t.Errorf("Expected doc-up-spot-1-s01 first, got %q", steps[0].StepID)
	}
	if steps[1].StepID != "doc-up-spot-2-s01" {
		t.Errorf("Expected doc-up-spot-2-s01 second, got %q", steps[1].StepID)
	}
	for _, st := range steps {
		if st.DocumentID == "" || st.DocTitle == "" || st.DocURL == "" {
			t.Errorf("Step %s missing document join fields: %+v", st.StepID, st)
		}
	}

	limited, err := testStore.Steps(ctx, "upholstery", "stain", "spot_clean", 3)
	if err != nil {
		t.Fatalf("Steps with limit failed: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("Expected 3 steps with limit, got %d", len(limited))
	}
}

func TestSurrealTools(t *testing.T) {
	ctx := context.Background()

	tools, err := testStore.Tools(ctx, "upholstery", "stain", "spot_clean")
	if err != nil {
		t.Fatalf("Tools failed: %v", err)
	}
	if len(tools) != 4 {
		t.Fatalf("Expected 4 tools, got %d", len(tools))
	}
	if tools[0].Name != "towel" {
		t.Errorf("Expected towel first, got %q", tools[0].Name)
	}
	if tools[0].UsageCount != 2 {
		t.Errorf("Expected towel usage 2, got %d", tools[0].UsageCount)
	}
	if tools[0].Category != "towel" {
		t.Errorf("Expected towel category, got %q", tools[0].Category)
	}
	if !almostEqual(tools[0].AvgConfidence, 0.85) {
		t.Errorf("Expected towel avg confidence 0.85, got %v", tools[0].AvgConfidence)
	}
}

func TestSurrealSimilarScenarios(t *testing.T) {
	ctx := context.Background()

	scenarios, err := testStore.SimilarScenarios(ctx, "upholstery", "stain", 10)
	if err != nil {
		t.Fatalf("SimilarScenarios failed: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("Expected 2 scenarios, got %d", len(scenarios))
	}

	if !almostEqual(scenarios[0].Similarity, 1.0) || scenarios[0].Method != "spot_clean" {
		t.Errorf("Expected exact spot_clean match first, got %+v", scenarios[0])
	}
	if !almostEqual(scenarios[1].Similarity, 1.0) || scenarios[1].Method != "steam_clean" {
		t.Errorf("Expected exact steam_clean match second, got %+v", scenarios[1])
	}
}

func TestSurrealSimilarScenariosPartial(t *testing.T) {
	ctx := context.Background()

	// No upholstery×dust documents exist, so matches are partial only
	scenarios, err := testStore.SimilarScenarios(ctx, "upholstery", "dust", 10)
	if err != nil {
		t.Fatalf("SimilarScenarios failed: %v", err)
	}
	if len(scenarios) != 3 {
		t.Fatalf("Expected 3 partial scenarios, got %d", len(scenarios))
	}

	// Same dirt ranks above same surface
	if !almostEqual(scenarios[0].Similarity, 0.5) || scenarios[0].Surface != "carpets_floors" {
		t.Errorf("Expected carpets_floors dust match first at 0.5, got %+v", scenarios[0])
	}
	for _, sc := range scenarios[1:] {
		if !almostEqual(sc.Similarity, 0.3) || sc.Surface != "upholstery" {
			t.Errorf("Expected upholstery surface match at 0.3, got %+v", sc)
		}
	}
}

func TestSurrealStats(t *testing.T) {
	ctx := context.Background()

	stats, err := testStore.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Documents != 4 {
		t.Errorf("Expected 4 documents, got %d", stats.Documents)
	}
	if stats.Steps != 12 {
		t.Errorf("Expected 12 steps, got %d", stats.Steps)
	}
	if stats.Tools != 8 {
		t.Errorf("Expected 8 tools, got %d", stats.Tools)
	}
	if stats.Combinations != 3 {
		t.Errorf("Expected 3 combinations, got %d", stats.Combinations)
	}
	if len(stats.BySurface) != 2 || stats.BySurface[0].Surface != "upholstery" || stats.BySurface[0].Count != 3 {
		t.Errorf("Unexpected surface counts: %+v", stats.BySurface)
	}
	if len(stats.ByDirt) != 2 || stats.ByDirt[0].Dirt != "stain" || stats.ByDirt[0].Count != 3 {
		t.Errorf("Unexpected dirt counts: %+v", stats.ByDirt)
	}
}

// =============================================================================
// WIPE TESTS
// =============================================================================

func TestSurrealWipeData(t *testing.T) {
	ctx := context.Background()

	if err := testStore.WipeData(ctx); err != nil {
		t.Fatalf("WipeData failed: %v", err)
	}
	defer func() {
		if err := testStore.Seed(ctx, fixtureDocs()); err != nil {
			t.Fatalf("Reseed after wipe failed: %v", err)
		}
	}()

	stats, err := testStore.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats after wipe failed: %v", err)
	}
	if stats.Documents != 0 || stats.Steps != 0 || stats.Tools != 0 {
		t.Errorf("Expected empty corpus after wipe, got %+v", stats)
	}
}
