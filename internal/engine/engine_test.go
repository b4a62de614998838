package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/narrative"
)

func testEngine(store corpus.Store, opts Options) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, nil, nil, logger, opts)
}

func demoEngine() *Engine {
	return testEngine(corpus.NewDemoMemory(), Options{})
}

func TestPlanHappyPath(t *testing.T) {
	eng := demoEngine()

	wf, err := eng.Plan(context.Background(), Request{Query: "how do I remove a stain from my carpet"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if wf.Outcome != OutcomeAccept {
		t.Errorf("outcome = %q, want %q (warnings: %v)", wf.Outcome, OutcomeAccept, wf.Metadata.Warnings)
	}
	if wf.Scenario.Surface != "carpets_floors" || wf.Scenario.Dirt != "stain" {
		t.Errorf("scenario = %s × %s, want carpets_floors × stain", wf.Scenario.Surface, wf.Scenario.Dirt)
	}
	if wf.Scenario.Method != "spot_clean" {
		t.Errorf("method = %q, want spot_clean", wf.Scenario.Method)
	}
	if len(wf.Procedure.Steps) < 3 {
		t.Fatalf("got %d steps, want >= 3", len(wf.Procedure.Steps))
	}
	for i, step := range wf.Procedure.Steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d has number %d, want contiguous numbering", i, step.StepNumber)
		}
	}
	if wf.Metadata.Fallback != nil {
		t.Errorf("exact match produced fallback info: %+v", wf.Metadata.Fallback)
	}
	if ms := wf.Metadata.MethodSelection; ms == nil || ms.ChosenMethod != "spot_clean" {
		t.Errorf("method selection = %+v, want chosen spot_clean", ms)
	}
}

func TestPlanDeterminism(t *testing.T) {
	eng := demoEngine()
	req := Request{Query: "pet hair all over the sofa"}

	first, err := eng.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("first Plan() error: %v", err)
	}
	second, err := eng.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("second Plan() error: %v", err)
	}

	if first.Outcome != second.Outcome {
		t.Errorf("outcomes differ: %q vs %q", first.Outcome, second.Outcome)
	}
	if first.Scenario.Method != second.Scenario.Method {
		t.Errorf("methods differ: %q vs %q", first.Scenario.Method, second.Scenario.Method)
	}
	if len(first.Procedure.Steps) != len(second.Procedure.Steps) {
		t.Fatalf("step counts differ: %d vs %d", len(first.Procedure.Steps), len(second.Procedure.Steps))
	}
	for i := range first.Procedure.Steps {
		if first.Procedure.Steps[i].Description != second.Procedure.Steps[i].Description {
			t.Errorf("step %d differs: %q vs %q",
				i+1, first.Procedure.Steps[i].Description, second.Procedure.Steps[i].Description)
		}
	}
}

func TestPlanDedupesEquivalentSteps(t *testing.T) {
	docs := []corpus.Document{
		{
			ID: "doc-a", Title: "Carpet stain basics", URL: "https://example.com/a",
			Surface: "carpets_floors", Dirt: "stain", Method: "spot_clean",
			Extraction: "pattern", Confidence: 0.9, Quality: 0.8,
			Steps: []corpus.DocStep{
				{ID: "a1", Order: 1, Text: "Blot the spilled liquid with a clean towel.", Summary: "Blot low", Confidence: 0.8},
				{ID: "a2", Order: 2, Text: "Mix dish soap with two cups of warm water.", Summary: "Mix solution", Confidence: 0.85},
				{ID: "a3", Order: 3, Text: "Apply the solution to the stained area.", Summary: "Apply solution", Confidence: 0.8},
				{ID: "a4", Order: 4, Text: "Rinse the area with cold water.", Summary: "Rinse", Confidence: 0.82},
			},
		},
		{
			ID: "doc-b", Title: "Carpet stain tricks", URL: "https://example.com/b",
			Surface: "carpets_floors", Dirt: "stain", Method: "spot_clean",
			Extraction: "llm", Confidence: 0.85, Quality: 0.75,
			Steps: []corpus.DocStep{
				{ID: "b1", Order: 1, Text: "Blot the spilled liquid with a clean towel.", Summary: "Blot high", Confidence: 0.95},
			},
		},
	}
	eng := testEngine(corpus.NewMemory(docs...), Options{})

	wf, err := eng.Plan(context.Background(), Request{Query: "stain on the carpet"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	blots := 0
	var blotAction string
	for _, step := range wf.Procedure.Steps {
		if strings.Contains(step.Description, "Blot the spilled liquid") {
			blots++
			blotAction = step.Action
		}
	}
	if blots != 1 {
		t.Fatalf("got %d blot steps after dedup, want exactly 1", blots)
	}
	if blotAction != "Blot high" {
		t.Errorf("surviving variant action = %q, want the higher-confidence %q", blotAction, "Blot high")
	}
}

func TestPlanSourceDocumentsUnique(t *testing.T) {
	eng := demoEngine()

	wf, err := eng.Plan(context.Background(), Request{Query: "remove the stain from the carpet"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(wf.SourceDocuments) == 0 {
		t.Fatal("no source documents")
	}
	seen := map[string]bool{}
	for _, doc := range wf.SourceDocuments {
		if seen[doc.DocumentID] {
			t.Errorf("duplicate source document %q", doc.DocumentID)
		}
		seen[doc.DocumentID] = true
	}
}

func TestPlanGentleOnlyConflict(t *testing.T) {
	eng := demoEngine()

	// The only bathroom × mold method in the demo corpus is scrub.
	_, err := eng.Plan(context.Background(), Request{
		Query:       "mold in the shower grout",
		Surface:     "bathroom",
		Dirt:        "mold",
		Constraints: &Constraints{GentleOnly: true},
	})
	if err == nil {
		t.Fatal("Plan() succeeded, want constraint conflict")
	}
	pe := AsError(err)
	if pe.Code != CodeConstraintConflict {
		t.Fatalf("code = %q, want %q", pe.Code, CodeConstraintConflict)
	}
	if len(pe.AvailableMethods) != 0 {
		t.Errorf("available methods = %v, want none", pe.AvailableMethods)
	}
}

func TestPlanNoBleachConflict(t *testing.T) {
	eng := demoEngine()

	_, err := eng.Plan(context.Background(), Request{
		Query:       "moldy grout",
		Surface:     "bathroom",
		Dirt:        "mold",
		Constraints: &Constraints{NoBleach: true},
	})
	pe := AsError(err)
	if pe.Code != CodeConstraintConflict {
		t.Fatalf("code = %q, want %q", pe.Code, CodeConstraintConflict)
	}
}

func TestPlanFallbackRelaxesSurface(t *testing.T) {
	eng := demoEngine()

	// No outdoor × ink coverage exists, but clothes × ink does.
	wf, err := eng.Plan(context.Background(), Request{
		Query:   "ink on the patio furniture",
		Surface: "outdoor",
		Dirt:    "ink",
	})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if wf.Outcome != OutcomeDegraded {
		t.Errorf("outcome = %q, want %q", wf.Outcome, OutcomeDegraded)
	}
	fb := wf.Metadata.Fallback
	if fb == nil {
		t.Fatal("no fallback info on a relaxed plan")
	}
	if fb.Stage != "relax_surface" {
		t.Errorf("stage = %q, want relax_surface", fb.Stage)
	}
	if fb.RequestedSurface != "outdoor" || fb.UsedSurface != "clothes" {
		t.Errorf("fallback = %s -> %s, want outdoor -> clothes", fb.RequestedSurface, fb.UsedSurface)
	}
	if fb.Similarity >= 1.0 {
		t.Errorf("similarity = %.2f, want < 1.0", fb.Similarity)
	}
	if len(wf.Metadata.Warnings) == 0 {
		t.Error("degraded plan carries no warnings")
	}
}

func TestPlanNoMatch(t *testing.T) {
	eng := demoEngine()

	_, err := eng.Plan(context.Background(), Request{
		Query:   "water marks on the deck",
		Surface: "outdoor",
		Dirt:    "water_stain",
	})
	pe := AsError(err)
	if pe.Code != CodeNoMatch {
		t.Fatalf("code = %q, want %q", pe.Code, CodeNoMatch)
	}
}

func TestPlanInsufficientStepsStaysInternal(t *testing.T) {
	// One document with a single step and nothing similar to fall back
	// to: the ladder must exhaust into no_match, never leak
	// insufficient_steps.
	docs := []corpus.Document{
		{
			ID: "doc-thin", Title: "Degreasing in one move", URL: "https://example.com/thin",
			Surface: "hard_surfaces", Dirt: "grease", Method: "wipe",
			Extraction: "pattern", Confidence: 0.8, Quality: 0.7,
			Steps: []corpus.DocStep{
				{ID: "t1", Order: 1, Text: "Wipe the counter with a degreasing cloth.", Confidence: 0.8},
			},
		},
	}
	eng := testEngine(corpus.NewMemory(docs...), Options{})

	_, err := eng.Plan(context.Background(), Request{
		Query:   "grease on the counter",
		Surface: "hard_surfaces",
		Dirt:    "grease",
	})
	pe := AsError(err)
	if pe.Code != CodeNoMatch {
		t.Fatalf("code = %q, want %q", pe.Code, CodeNoMatch)
	}
}

func TestPlanValidationFailsFast(t *testing.T) {
	// A store that errors on every call proves validation rejects
	// before any corpus access.
	eng := testEngine(errorStore{}, Options{})

	_, err := eng.Plan(context.Background(), Request{Query: "   "})
	pe := AsError(err)
	if pe.Code != CodeValidation {
		t.Fatalf("code = %q, want %q", pe.Code, CodeValidation)
	}
}

func TestPlanUnavailable(t *testing.T) {
	eng := testEngine(errorStore{}, Options{})

	_, err := eng.Plan(context.Background(), Request{Query: "stain on the carpet"})
	pe := AsError(err)
	if pe.Code != CodeUnavailable {
		t.Fatalf("code = %q, want %q", pe.Code, CodeUnavailable)
	}
	if pe.RetryAfter != 30 {
		t.Errorf("retry after = %d, want 30", pe.RetryAfter)
	}
}

func TestPlanProgressPhases(t *testing.T) {
	eng := demoEngine()

	var phases []Phase
	_, err := eng.PlanWithProgress(context.Background(), Request{Query: "dust on the rug"}, func(ev PhaseEvent) {
		phases = append(phases, ev.Phase)
	})
	if err != nil {
		t.Fatalf("PlanWithProgress() error: %v", err)
	}

	if len(phases) == 0 || phases[0] != PhaseNormalize {
		t.Fatalf("phases = %v, want normalize first", phases)
	}
	if phases[len(phases)-1] != PhaseAssemble {
		t.Errorf("phases = %v, want assemble last", phases)
	}
	want := map[Phase]bool{PhaseSelectMethod: false, PhaseFetchSteps: false, PhaseFetchTools: false, PhaseValidate: false}
	for _, p := range phases {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Errorf("phase %q never emitted (got %v)", p, phases)
		}
	}
}

func TestPlanNarrationDegradesToVerbatim(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := New(corpus.NewDemoMemory(), failingNarrator{}, nil, logger, Options{})

	wf, err := eng.Plan(context.Background(), Request{
		Query:   "stain on the carpet",
		Narrate: true,
	})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	found := false
	for _, w := range wf.Metadata.Warnings {
		if strings.Contains(w, "Narrative generation unavailable") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want narration fallback warning", wf.Metadata.Warnings)
	}
	if len(wf.Procedure.Steps) == 0 {
		t.Fatal("narration failure dropped the steps")
	}
}

func TestPlanNarrationRejectsDriftedRewrite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := New(corpus.NewDemoMemory(), driftingNarrator{}, nil, logger, Options{})

	wf, err := eng.Plan(context.Background(), Request{
		Query:   "stain on the carpet",
		Narrate: true,
	})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	for _, step := range wf.Procedure.Steps {
		if strings.Contains(step.Description, "something entirely different") {
			t.Errorf("drifted rewrite was kept: %q", step.Description)
		}
	}
}

// errorStore fails every lookup, simulating an unreachable corpus.
type errorStore struct{}

var errCorpusDown = errors.New("corpus unreachable")

func (errorStore) MethodSummaries(context.Context, string, string) ([]corpus.MethodSummary, error) {
	return nil, errCorpusDown
}

func (errorStore) Steps(context.Context, string, string, string, int) ([]corpus.StepRow, error) {
	return nil, errCorpusDown
}

func (errorStore) Tools(context.Context, string, string, string) ([]corpus.ToolRow, error) {
	return nil, errCorpusDown
}

func (errorStore) SimilarScenarios(context.Context, string, string, int) ([]corpus.SimilarScenario, error) {
	return nil, errCorpusDown
}

func (errorStore) DocumentContext(context.Context, string) (*corpus.Document, error) {
	return nil, errCorpusDown
}

func (errorStore) Stats(context.Context) (*corpus.Stats, error) {
	return nil, errCorpusDown
}

// failingNarrator errors on every rephrase.
type failingNarrator struct{}

func (failingNarrator) Rephrase(context.Context, narrative.StepInput) (string, error) {
	return "", errors.New("model unavailable")
}

// driftingNarrator returns text unrelated to the source step.
type driftingNarrator struct{}

func (driftingNarrator) Rephrase(context.Context, narrative.StepInput) (string, error) {
	return "Do something entirely different.", nil
}
