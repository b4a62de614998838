package engine

import (
	"strings"
	"testing"

	"github.com/sudslabs/suds/internal/corpus"
)

func rowsFromTexts(texts ...string) []corpus.StepRow {
	rows := make([]corpus.StepRow, 0, len(texts))
	for i, text := range texts {
		rows = append(rows, corpus.StepRow{
			StepID:     string(rune('a' + i)),
			DocumentID: "doc-1",
			Order:      i + 1,
			Text:       text,
			Confidence: 0.8,
		})
	}
	return rows
}

func TestValidateRowsNoBleachViolation(t *testing.T) {
	rows := rowsFromTexts(
		"Apply a bleach solution to the grout.",
		"Scrub the grout with a stiff brush.",
		"Rinse the tile with warm water.",
	)

	rv := validateRows("scrub", rows, Constraints{NoBleach: true}, 3)
	if rv.Violation == nil {
		t.Fatal("bleach step passed no_bleach validation")
	}
	if rv.Violation.Constraint != "no_bleach" {
		t.Errorf("constraint = %q, want no_bleach", rv.Violation.Constraint)
	}
}

func TestValidateRowsHarshSupersetOfBleach(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool // violates no_harsh_chemicals
	}{
		{"ammonia", "Wipe with an ammonia solution.", true},
		{"bleach", "Apply diluted bleach.", true},
		{"solvent", "Dab with a solvent-soaked cloth.", true},
		{"plain soap", "Wipe with warm soapy water.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := validateRows("wipe", rowsFromTexts(tt.text), Constraints{NoHarshChemicals: true}, 1)
			got := rv.Violation != nil
			if got != tt.want {
				t.Errorf("violation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRowsGentleRejectsMethod(t *testing.T) {
	rv := validateRows("scrub", rowsFromTexts("Scrub the grout."), Constraints{GentleOnly: true}, 1)
	if rv.Violation == nil || rv.Violation.Constraint != "gentle_only" {
		t.Fatalf("violation = %+v, want gentle_only method rejection", rv.Violation)
	}
}

func TestValidateRowsGentleDropsAggressiveSteps(t *testing.T) {
	rows := rowsFromTexts(
		"Dab the stain with a damp cloth.",
		"Scrub vigorously with a stiff brush.",
		"Apply the cleaning solution.",
		"Rinse with cold water.",
	)

	rv := validateRows("spot_clean", rows, Constraints{GentleOnly: true}, 3)
	if rv.Violation != nil {
		t.Fatalf("unexpected violation: %+v", rv.Violation)
	}
	if len(rv.Rows) != 3 {
		t.Fatalf("got %d rows, want 3 after dropping the aggressive step", len(rv.Rows))
	}
	for _, row := range rv.Rows {
		if strings.Contains(strings.ToLower(row.Text), "scrub") {
			t.Errorf("aggressive step survived: %q", row.Text)
		}
	}
	if !rv.Degraded {
		t.Error("dropping steps did not mark the result degraded")
	}
	if len(rv.Warnings) == 0 {
		t.Error("dropping steps produced no warning")
	}
}

func TestValidateRowsGentleKeepsAggressiveWhenTooFew(t *testing.T) {
	rows := rowsFromTexts(
		"Dab the stain with a damp cloth.",
		"Scrub vigorously with a stiff brush.",
		"Rinse with cold water.",
	)

	// Dropping the aggressive step would fall below the minimum, so it
	// stays with a warning instead.
	rv := validateRows("spot_clean", rows, Constraints{GentleOnly: true}, 3)
	if rv.Violation != nil {
		t.Fatalf("unexpected violation: %+v", rv.Violation)
	}
	if len(rv.Rows) != 3 {
		t.Fatalf("got %d rows, want all 3 kept", len(rv.Rows))
	}
	if !rv.Degraded || len(rv.Warnings) == 0 {
		t.Error("keeping aggressive steps must degrade with a warning")
	}
}

func TestValidateToolsRemovesForbidden(t *testing.T) {
	tools := []RequiredTool{
		{Name: "brush", Category: "brush", IsRequired: true},
		{Name: "bleach", Category: "bleach", IsRequired: true},
		{Name: "gloves", Category: "gloves", IsRequired: false},
	}

	kept, warnings, degraded := validateTools(tools, Constraints{NoBleach: true})
	if len(kept) != 2 {
		t.Fatalf("got %d tools, want 2", len(kept))
	}
	for _, tool := range kept {
		if tool.Name == "bleach" {
			t.Error("bleach tool survived no_bleach")
		}
	}
	if !degraded || len(warnings) != 1 {
		t.Errorf("degraded = %v, warnings = %v, want degraded with one warning", degraded, warnings)
	}
}

func TestEffectiveMinSteps(t *testing.T) {
	tests := []struct {
		name       string
		found      int
		minSteps   int
		allowFewer bool
		want       int
	}{
		{"strict mode keeps minimum", 2, 3, false, 3},
		{"relaxes by one", 2, 3, true, 2},
		{"never below two", 2, 2, true, 2},
		{"single step never relaxes", 1, 3, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveMinSteps(tt.found, tt.minSteps, tt.allowFewer); got != tt.want {
				t.Errorf("effectiveMinSteps(%d, %d, %v) = %d, want %d",
					tt.found, tt.minSteps, tt.allowFewer, got, tt.want)
			}
		})
	}
}
