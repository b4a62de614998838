package engine

import (
	"reflect"
	"testing"

	"github.com/sudslabs/suds/internal/corpus"
)

func TestExtractStepTools(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "multi word names win with their parts",
			text: "Wipe with a paper towel and spray bottle of white vinegar",
			want: []string{"paper_towel", "towel", "spray_bottle", "vinegar"},
		},
		{
			name: "keyword table order not text order",
			text: "Dampen a cloth with water",
			want: []string{"water", "cloth"},
		},
		{
			name: "single tool",
			text: "Vacuum the carpet",
			want: []string{"vacuum"},
		},
		{
			name: "no tools",
			text: "Let it sit for five minutes",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractStepTools(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEstimateQuantity(t *testing.T) {
	tests := []struct {
		tool string
		want string
	}{
		{"paper_towel", "several"},
		{"microfiber_cloth", "several"},
		{"spray_bottle", "1"},
		{"white_vinegar", "1 cup"},
		{"water", "1 cup"},
		{"rubber_gloves", "1 pair"},
		{"brush", "1"},
	}
	for _, tt := range tests {
		if got := estimateQuantity(tt.tool); got != tt.want {
			t.Errorf("estimateQuantity(%q) = %q, want %q", tt.tool, got, tt.want)
		}
	}
}

func TestPrimaryThreshold(t *testing.T) {
	if got := primaryThreshold(nil); got != 0 {
		t.Errorf("Expected 0 for no tools, got %d", got)
	}
	if got := primaryThreshold([]corpus.ToolRow{{UsageCount: 5}}); got != 5 {
		t.Errorf("Expected single tool to be primary, got threshold %d", got)
	}
	rows := []corpus.ToolRow{{UsageCount: 1}, {UsageCount: 5}, {UsageCount: 3}}
	if got := primaryThreshold(rows); got != 3 {
		t.Errorf("Expected median usage 3, got %d", got)
	}
	rows = []corpus.ToolRow{{UsageCount: 4}, {UsageCount: 2}}
	if got := primaryThreshold(rows); got != 2 {
		t.Errorf("Expected lower half threshold 2, got %d", got)
	}
}

func TestAggregateTools(t *testing.T) {
	rows := []corpus.ToolRow{
		{Name: "towel", Category: "textile", UsageCount: 5},
		{Name: "brush", Category: "implement", UsageCount: 3},
		{Name: "white_vinegar", Category: "solution", UsageCount: 1},
	}
	steps := []Step{
		{Tools: []string{"cloth", "towel"}},
	}

	tools := aggregateTools(rows, steps)
	if len(tools) != 4 {
		t.Fatalf("Expected 4 tools, got %d", len(tools))
	}

	want := []struct {
		name     string
		quantity string
		required bool
	}{
		{"towel", "several", true},
		{"brush", "1", true},
		{"white_vinegar", "1 cup", false},
		{"cloth", "several", true},
	}
	for i, w := range want {
		if tools[i].Name != w.name {
			t.Errorf("Expected tool %q at position %d, got %q", w.name, i, tools[i].Name)
		}
		if tools[i].Quantity != w.quantity {
			t.Errorf("Expected quantity %q for %s, got %q", w.quantity, w.name, tools[i].Quantity)
		}
		if tools[i].IsRequired != w.required {
			t.Errorf("Expected IsRequired=%v for %s, got %v", w.required, w.name, tools[i].IsRequired)
		}
	}
	if tools[0].Category != "textile" {
		t.Errorf("Expected corpus category preserved, got %q", tools[0].Category)
	}
	if tools[3].Category != "" {
		t.Errorf("Expected no category for step-only tool, got %q", tools[3].Category)
	}
}

func TestDropForbiddenTools(t *testing.T) {
	tools := []RequiredTool{
		{Name: "bleach_wipes", Category: "solution"},
		{Name: "soft_brush", Category: "chlorine applicator"},
		{Name: "towel", Category: "textile"},
	}

	kept, removed := dropForbiddenTools(tools, []string{"bleach", "chlorine"})
	if len(kept) != 1 || kept[0].Name != "towel" {
		t.Fatalf("Expected only towel kept, got %+v", kept)
	}
	if !reflect.DeepEqual(removed, []string{"bleach_wipes", "soft_brush"}) {
		t.Errorf("Expected both forbidden tools reported, got %v", removed)
	}

	kept, removed = dropForbiddenTools(tools, nil)
	if len(kept) != 3 || len(removed) != 0 {
		t.Errorf("Expected passthrough without blocked terms, got %d kept %d removed", len(kept), len(removed))
	}
}
